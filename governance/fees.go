package governance

import (
	"context"
	"fmt"

	"github.com/Najnomics/multihook-adapter/core"
)

// FeeAdminService mutates per-pool fee configuration under access control.
// The dispatch path reads the same store, so changes take effect on the
// next swap without touching the adapter.
type FeeAdminService struct {
	access   AccessController
	store    core.FeeConfigStore
	defaults core.FeeConfig
}

func NewFeeAdminService(access AccessController, store core.FeeConfigStore, defaults core.FeeConfig) (*FeeAdminService, error) {
	if access == nil {
		return nil, fmt.Errorf("governance: access controller is required")
	}
	if store == nil {
		return nil, fmt.Errorf("governance: fee config store is required")
	}
	if err := defaults.Validate(); err != nil {
		return nil, fmt.Errorf("governance: invalid fee defaults: %w", err)
	}
	return &FeeAdminService{access: access, store: store, defaults: defaults}, nil
}

// SetMethod changes the pool's fee calculation method, preserving any
// existing fee overrides.
func (s *FeeAdminService) SetMethod(ctx context.Context, poolID core.PoolID, method core.FeeCalculationMethod) error {
	if err := s.authorize(ctx, ActionSetFeeMethod); err != nil {
		return err
	}
	if _, err := core.ParseFeeMethod(method.String()); err != nil {
		return err
	}
	return s.update(ctx, poolID, func(cfg *core.FeeConfig) {
		cfg.Method = method
	})
}

// SetPoolFee installs the pool-specific fallback fee. Zero is a legal fee,
// distinct from unset.
func (s *FeeAdminService) SetPoolFee(ctx context.Context, poolID core.PoolID, fee uint32) error {
	if err := s.authorize(ctx, ActionSetPoolFee); err != nil {
		return err
	}
	if fee > core.MaxFee {
		return fmt.Errorf("%w: pool fee %d", core.ErrFeeOutOfRange, fee)
	}
	return s.update(ctx, poolID, func(cfg *core.FeeConfig) {
		cfg.PoolFee = fee
		cfg.PoolFeeSet = true
	})
}

// ClearPoolFee removes the pool-specific fallback so resolution falls
// through to the governance fee or the default.
func (s *FeeAdminService) ClearPoolFee(ctx context.Context, poolID core.PoolID) error {
	if err := s.authorize(ctx, ActionClearPoolOverride); err != nil {
		return err
	}
	return s.update(ctx, poolID, func(cfg *core.FeeConfig) {
		cfg.PoolFee = 0
		cfg.PoolFeeSet = false
	})
}

// SetGovernanceFee installs the governance-level fallback fee for the pool.
func (s *FeeAdminService) SetGovernanceFee(ctx context.Context, poolID core.PoolID, fee uint32) error {
	if err := s.authorize(ctx, ActionSetGovernanceFee); err != nil {
		return err
	}
	if fee > core.MaxFee {
		return fmt.Errorf("%w: governance fee %d", core.ErrFeeOutOfRange, fee)
	}
	return s.update(ctx, poolID, func(cfg *core.FeeConfig) {
		cfg.GovernanceFee = fee
		cfg.GovernanceFeeSet = true
	})
}

// ConfigFor resolves the effective fee configuration for a pool, falling
// back to the service defaults when no record exists.
func (s *FeeAdminService) ConfigFor(ctx context.Context, poolID core.PoolID) (core.FeeConfig, error) {
	cfg, ok, err := s.store.Get(ctx, poolID)
	if err != nil {
		return core.FeeConfig{}, fmt.Errorf("governance: load fee config: %w", err)
	}
	if !ok {
		return s.defaults, nil
	}
	return cfg, nil
}

func (s *FeeAdminService) update(ctx context.Context, poolID core.PoolID, mutate func(*core.FeeConfig)) error {
	cfg, err := s.ConfigFor(ctx, poolID)
	if err != nil {
		return err
	}
	mutate(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := s.store.Save(ctx, poolID, cfg); err != nil {
		return fmt.Errorf("governance: persist fee config: %w", err)
	}
	return nil
}

func (s *FeeAdminService) authorize(ctx context.Context, action Action) error {
	sender, ok := SenderFromContext(ctx)
	if !ok {
		return fmt.Errorf("%w: no sender bound to context", core.ErrGovernanceRequired)
	}
	return s.access.Authorize(ctx, sender, action)
}
