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

// FeeConfigStore persists per-pool fee configuration. Saves are upserts;
// a pool has at most one record.
type FeeConfigStore struct {
	db   *bun.DB
	repo repository.Repository[*feeConfigRecord]
}

func NewFeeConfigStore(db *bun.DB) (*FeeConfigStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*feeConfigRecord](db, feeConfigHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid fee config repository wiring: %w", err)
		}
	}
	return &FeeConfigStore{db: db, repo: repo}, nil
}

func (s *FeeConfigStore) Save(ctx context.Context, poolID core.PoolID, cfg core.FeeConfig) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: fee config store is not configured")
	}
	if poolID.IsZero() {
		return fmt.Errorf("sqlstore: pool id is required")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	record := &feeConfigRecord{
		ID:               uuid.NewString(),
		PoolID:           poolID.String(),
		Method:           cfg.Method.String(),
		PoolFee:          cfg.PoolFee,
		PoolFeeSet:       cfg.PoolFeeSet,
		GovernanceFee:    cfg.GovernanceFee,
		GovernanceFeeSet: cfg.GovernanceFeeSet,
		DefaultFee:       cfg.DefaultFee,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	_, err := s.db.NewInsert().
		Model(record).
		On("CONFLICT (pool_id) DO UPDATE").
		Set("method = EXCLUDED.method").
		Set("pool_fee = EXCLUDED.pool_fee").
		Set("pool_fee_set = EXCLUDED.pool_fee_set").
		Set("governance_fee = EXCLUDED.governance_fee").
		Set("governance_fee_set = EXCLUDED.governance_fee_set").
		Set("default_fee = EXCLUDED.default_fee").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("sqlstore: save fee config: %w", err)
	}
	return nil
}

func (s *FeeConfigStore) Get(ctx context.Context, poolID core.PoolID) (core.FeeConfig, bool, error) {
	if s == nil || s.db == nil {
		return core.FeeConfig{}, false, fmt.Errorf("sqlstore: fee config store is not configured")
	}

	record := &feeConfigRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.pool_id = ?", poolID.String()).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.FeeConfig{}, false, nil
		}
		return core.FeeConfig{}, false, fmt.Errorf("sqlstore: load fee config: %w", err)
	}
	cfg, err := record.toDomain()
	if err != nil {
		return core.FeeConfig{}, false, err
	}
	return cfg, true, nil
}
