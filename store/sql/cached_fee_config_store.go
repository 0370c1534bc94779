package sqlstore

import (
	"context"
	"fmt"

	repositorycache "github.com/goliatone/go-repository-cache/cache"

	"github.com/Najnomics/multihook-adapter/core"
)

const feeConfigCacheKeyPrefix = "multihook::fee_config::v1"

// CachedFeeConfigStore fronts a FeeConfigStore with a read-through cache.
// Fee configuration is read on every swap and changes rarely, so cache
// entries live until the next write invalidates them.
type CachedFeeConfigStore struct {
	base  core.FeeConfigStore
	cache repositorycache.CacheService
}

func NewCachedFeeConfigStore(
	base core.FeeConfigStore,
	cacheService repositorycache.CacheService,
) (*CachedFeeConfigStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base fee config store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: fee config cache service is required")
	}
	return &CachedFeeConfigStore{base: base, cache: cacheService}, nil
}

// FeeConfigCacheKey returns the deterministic cache key contract for fee
// config reads: multihook::fee_config::v1::<pool_id>.
func FeeConfigCacheKey(poolID core.PoolID) string {
	return feeConfigCacheKeyPrefix + "::" + poolID.String()
}

type cachedFeeConfig struct {
	Config core.FeeConfig
	Found  bool
}

func (s *CachedFeeConfigStore) Get(ctx context.Context, poolID core.PoolID) (core.FeeConfig, bool, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.FeeConfig{}, false, fmt.Errorf("sqlstore: cached fee config store is not configured")
	}

	cached, err := repositorycache.GetOrFetch(ctx, s.cache, FeeConfigCacheKey(poolID), func(ctx context.Context) (cachedFeeConfig, error) {
		cfg, found, fetchErr := s.base.Get(ctx, poolID)
		if fetchErr != nil {
			return cachedFeeConfig{}, fetchErr
		}
		return cachedFeeConfig{Config: cfg, Found: found}, nil
	})
	if err != nil {
		return core.FeeConfig{}, false, err
	}
	return cached.Config, cached.Found, nil
}

func (s *CachedFeeConfigStore) Save(ctx context.Context, poolID core.PoolID, cfg core.FeeConfig) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached fee config store is not configured")
	}
	if err := s.base.Save(ctx, poolID, cfg); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, FeeConfigCacheKey(poolID)); err != nil {
		return err
	}
	return nil
}

var _ core.FeeConfigStore = (*CachedFeeConfigStore)(nil)
