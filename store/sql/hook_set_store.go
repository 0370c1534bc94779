package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/Najnomics/multihook-adapter/core"
)

// HookSetStore persists registered hook sets keyed by pool ID. Saves are
// upserts so the governed registry can replace a pool's list in place.
type HookSetStore struct {
	db   *bun.DB
	repo repository.Repository[*hookSetRecord]
}

func NewHookSetStore(db *bun.DB) (*HookSetStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*hookSetRecord](db, hookSetHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid hook set repository wiring: %w", err)
		}
	}
	return &HookSetStore{db: db, repo: repo}, nil
}

func (s *HookSetStore) Save(ctx context.Context, set core.HookSet) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: hook set store is not configured")
	}
	if set.PoolID.IsZero() {
		return fmt.Errorf("sqlstore: pool id is required")
	}

	hooks := make([]storedHook, len(set.Hooks))
	for idx, hook := range set.Hooks {
		hooks[idx] = storedHook{
			Position:    hook.Position,
			Address:     hook.Address.Hex(),
			Permissions: storedPermissionsFromDomain(hook.Permissions),
		}
	}
	now := time.Now().UTC()
	record := &hookSetRecord{
		ID:        uuid.NewString(),
		PoolID:    set.PoolID.String(),
		Hooks:     hooks,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.NewInsert().
		Model(record).
		On("CONFLICT (pool_id) DO UPDATE").
		Set("hooks = EXCLUDED.hooks").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("sqlstore: save hook set: %w", err)
	}
	return nil
}

func (s *HookSetStore) Get(ctx context.Context, poolID core.PoolID) (core.HookSet, bool, error) {
	if s == nil || s.db == nil {
		return core.HookSet{}, false, fmt.Errorf("sqlstore: hook set store is not configured")
	}

	record := &hookSetRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.pool_id = ?", poolID.String()).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.HookSet{}, false, nil
		}
		return core.HookSet{}, false, fmt.Errorf("sqlstore: load hook set: %w", err)
	}
	set, err := record.toDomain()
	if err != nil {
		return core.HookSet{}, false, err
	}
	return set, true, nil
}

// Delete removes a pool's persisted hook set. Used by administrative
// tooling; the dispatch path never deletes.
func (s *HookSetStore) Delete(ctx context.Context, poolID core.PoolID) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: hook set store is not configured")
	}
	_, err := s.db.NewDelete().
		Model((*hookSetRecord)(nil)).
		Where("pool_id = ?", poolID.String()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("sqlstore: delete hook set: %w", err)
	}
	return nil
}
