package core

import (
	"context"
	"fmt"
	"math/big"
	"sync/atomic"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// Adapter is the lifecycle dispatcher. It owns the engine-wide reentrancy
// flag and the transient swap buffers; hook lists and fee configuration are
// read through the injected registry and stores.
type Adapter struct {
	config          Config
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	errorFactory    ErrorFactory
	errorMapper     ErrorMapper
	registry        Registry
	hookSetStore    HookSetStore
	feeConfigStore  FeeConfigStore

	// dispatching is the engine-wide mutual-exclusion flag. It is not
	// per-pool: at most one dispatch is in flight across the whole adapter,
	// and a re-entrant attempt fails immediately instead of blocking.
	dispatching atomic.Bool

	// pendingSwapDeltas holds each before-swap hook's delta at its list
	// position until the matching after-swap consumes it. Only touched
	// while dispatching is held.
	pendingSwapDeltas map[PoolID][]BalanceDelta
}

func NewAdapter(cfg Config, options ...Option) (*Adapter, error) {
	builder := defaultAdapterBuilder(cfg)
	for _, option := range options {
		if option == nil {
			continue
		}
		option(&builder)
	}

	provider, logger := glog.Resolve("multihook", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("multihook"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, fmt.Errorf("core: load adapter config: %w", err)
	}
	resolved, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, fmt.Errorf("core: resolve adapter config: %w", err)
	}

	registry := builder.registry
	if registry == nil {
		if builder.hookSetStore != nil {
			registry = NewPersistentHookSetRegistry(builder.hookSetStore)
		} else {
			registry = NewHookSetRegistry()
		}
	}

	adapter := &Adapter{
		config:            resolved,
		logger:            logger,
		loggerProvider:    provider,
		metricsRecorder:   builder.metricsRecorder,
		errorFactory:      builder.errorFactory,
		errorMapper:       builder.errorMapper,
		registry:          registry,
		hookSetStore:      builder.hookSetStore,
		feeConfigStore:    builder.feeConfigStore,
		pendingSwapDeltas: make(map[PoolID][]BalanceDelta),
	}
	return adapter, nil
}

func (a *Adapter) Config() Config {
	if a == nil {
		return Config{}
	}
	return a.config
}

func (a *Adapter) Registry() Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

// RegisterHooks registers the ordered hook list for the pool derived from
// the key. The base adapter permits this at most once per pool.
func (a *Adapter) RegisterHooks(ctx context.Context, key PoolKey, entries []HookEntry) (PoolID, error) {
	if a == nil || a.registry == nil {
		return PoolID{}, fmt.Errorf("core: adapter registry is not configured")
	}
	if err := key.Validate(); err != nil {
		return PoolID{}, a.wrap(err)
	}
	if len(entries) == 0 {
		return PoolID{}, a.wrap(fmt.Errorf("core: at least one hook entry is required"))
	}
	if len(entries) > a.config.MaxHooksPerPool {
		return PoolID{}, a.wrap(fmt.Errorf("core: hook count %d exceeds max %d", len(entries), a.config.MaxHooksPerPool))
	}
	poolID := key.ID()
	if err := a.registry.Register(ctx, poolID, entries); err != nil {
		return PoolID{}, a.wrap(err)
	}
	addresses := make([]string, 0, len(entries))
	for _, entry := range entries {
		addresses = append(addresses, entry.Address.Hex())
	}
	a.logInfo(ctx, "hook set registered", map[string]any{
		"pool_id": poolID.String(),
		"hooks":   addresses,
	})
	return poolID, nil
}

// RegisterHooksWithFeeMethod also persists the fee calculation method for
// the pool, still subject to at-most-once registration.
func (a *Adapter) RegisterHooksWithFeeMethod(
	ctx context.Context,
	key PoolKey,
	entries []HookEntry,
	method FeeCalculationMethod,
) (PoolID, error) {
	cfg := a.config.FeeDefaults()
	cfg.Method = method
	return a.registerWithFeeConfig(ctx, key, entries, cfg)
}

// RegisterHooksWithFeeConfig persists both the method and a pool-specific
// fee override alongside the hook set.
func (a *Adapter) RegisterHooksWithFeeConfig(
	ctx context.Context,
	key PoolKey,
	entries []HookEntry,
	method FeeCalculationMethod,
	poolFee uint32,
) (PoolID, error) {
	if poolFee == 0 || poolFee > MaxFee {
		return PoolID{}, a.wrap(fmt.Errorf("%w: pool fee %d", ErrFeeOutOfRange, poolFee))
	}
	cfg := a.config.FeeDefaults()
	cfg.Method = method
	cfg.PoolFee = poolFee
	cfg.PoolFeeSet = true
	return a.registerWithFeeConfig(ctx, key, entries, cfg)
}

func (a *Adapter) registerWithFeeConfig(
	ctx context.Context,
	key PoolKey,
	entries []HookEntry,
	cfg FeeConfig,
) (PoolID, error) {
	if a == nil {
		return PoolID{}, fmt.Errorf("core: adapter is nil")
	}
	if a.feeConfigStore == nil {
		return PoolID{}, a.wrap(fmt.Errorf("core: fee config store is required for fee-bearing registration"))
	}
	if err := cfg.Validate(); err != nil {
		return PoolID{}, a.wrap(err)
	}
	poolID, err := a.RegisterHooks(ctx, key, entries)
	if err != nil {
		return PoolID{}, err
	}
	if err := a.feeConfigStore.Save(ctx, poolID, cfg); err != nil {
		return PoolID{}, a.wrap(fmt.Errorf("core: persist fee config: %w", err))
	}
	return poolID, nil
}

// FeeConfigFor resolves the pool's fee configuration, falling back to the
// adapter defaults for pools without a persisted record.
func (a *Adapter) FeeConfigFor(ctx context.Context, poolID PoolID) (FeeConfig, error) {
	if a == nil {
		return FeeConfig{}, fmt.Errorf("core: adapter is nil")
	}
	if a.feeConfigStore == nil {
		return a.config.FeeDefaults(), nil
	}
	cfg, ok, err := a.feeConfigStore.Get(ctx, poolID)
	if err != nil {
		return FeeConfig{}, a.wrap(err)
	}
	if !ok {
		return a.config.FeeDefaults(), nil
	}
	return cfg, nil
}

// GetHookSet returns the registered hook set snapshot for a pool, built
// from the live registry.
func (a *Adapter) GetHookSet(_ context.Context, poolID PoolID) (HookSet, bool, error) {
	if a == nil || a.registry == nil {
		return HookSet{}, false, fmt.Errorf("core: adapter registry is not configured")
	}
	entries := a.registry.ListFor(poolID)
	if len(entries) == 0 {
		return HookSet{}, false, nil
	}
	hooks := make([]RegisteredHook, len(entries))
	for idx, entry := range entries {
		hooks[idx] = RegisteredHook{
			Position:    idx,
			Address:     entry.Address,
			Permissions: entry.Permissions,
		}
	}
	return HookSet{PoolID: poolID, Hooks: hooks}, true, nil
}

// SetFeeMethod exists on the base adapter only to surface the governance
// boundary; the immutable variant never mutates fee configuration.
func (a *Adapter) SetFeeMethod(context.Context, PoolID, FeeCalculationMethod) error {
	return a.wrap(ErrGovernanceRequired)
}

func (a *Adapter) SetPoolFee(context.Context, PoolID, uint32) error {
	return a.wrap(ErrGovernanceRequired)
}

func (a *Adapter) SetGovernanceFee(context.Context, PoolID, uint32) error {
	return a.wrap(ErrGovernanceRequired)
}

// acquire takes the engine-wide dispatch flag. The failing path touches no
// state so the lock is observably unchanged after a rejected re-entry.
func (a *Adapter) acquire() error {
	if !a.dispatching.CompareAndSwap(false, true) {
		return ErrReentrantDispatch
	}
	return nil
}

func (a *Adapter) release() {
	a.dispatching.Store(false)
}

// BeforeInitialize forwards the before-initialize event to subscribed hooks
// in registration order.
func (a *Adapter) BeforeInitialize(ctx context.Context, ev InitializeEvent) (Ack, error) {
	err := a.dispatchPlain(ctx, EventBeforeInitialize, ev.Key, func(ctx context.Context, entry HookEntry) (Ack, error) {
		return entry.Hook.BeforeInitialize(ctx, ev)
	})
	if err != nil {
		return "", err
	}
	return AckBeforeInitialize, nil
}

func (a *Adapter) AfterInitialize(ctx context.Context, ev InitializeEvent) (Ack, error) {
	err := a.dispatchPlain(ctx, EventAfterInitialize, ev.Key, func(ctx context.Context, entry HookEntry) (Ack, error) {
		return entry.Hook.AfterInitialize(ctx, ev)
	})
	if err != nil {
		return "", err
	}
	return AckAfterInitialize, nil
}

func (a *Adapter) BeforeDonate(ctx context.Context, ev DonateEvent) (Ack, error) {
	err := a.dispatchPlain(ctx, EventBeforeDonate, ev.Key, func(ctx context.Context, entry HookEntry) (Ack, error) {
		return entry.Hook.BeforeDonate(ctx, ev)
	})
	if err != nil {
		return "", err
	}
	return AckBeforeDonate, nil
}

func (a *Adapter) AfterDonate(ctx context.Context, ev DonateEvent) (Ack, error) {
	err := a.dispatchPlain(ctx, EventAfterDonate, ev.Key, func(ctx context.Context, entry HookEntry) (Ack, error) {
		return entry.Hook.AfterDonate(ctx, ev)
	})
	if err != nil {
		return "", err
	}
	return AckAfterDonate, nil
}

// BeforeAddLiquidity and BeforeRemoveLiquidity share one procedure; the
// branch is selected by the sign of the liquidity delta, and only the
// permission flag and acknowledgment tag differ.
func (a *Adapter) BeforeAddLiquidity(ctx context.Context, ev LiquidityEvent) (Ack, error) {
	return a.beforeModifyLiquidity(ctx, ev)
}

func (a *Adapter) BeforeRemoveLiquidity(ctx context.Context, ev LiquidityEvent) (Ack, error) {
	return a.beforeModifyLiquidity(ctx, ev)
}

func (a *Adapter) beforeModifyLiquidity(ctx context.Context, ev LiquidityEvent) (Ack, error) {
	event := EventBeforeRemoveLiquidity
	if ev.Params.IsAdd() {
		event = EventBeforeAddLiquidity
	}
	err := a.dispatchPlain(ctx, event, ev.Key, func(ctx context.Context, entry HookEntry) (Ack, error) {
		if event == EventBeforeAddLiquidity {
			return entry.Hook.BeforeAddLiquidity(ctx, ev)
		}
		return entry.Hook.BeforeRemoveLiquidity(ctx, ev)
	})
	if err != nil {
		return "", err
	}
	return expectedAck(event), nil
}

func (a *Adapter) AfterAddLiquidity(ctx context.Context, ev LiquidityEvent) (LiquidityResult, error) {
	return a.afterModifyLiquidity(ctx, ev)
}

func (a *Adapter) AfterRemoveLiquidity(ctx context.Context, ev LiquidityEvent) (LiquidityResult, error) {
	return a.afterModifyLiquidity(ctx, ev)
}

func (a *Adapter) afterModifyLiquidity(ctx context.Context, ev LiquidityEvent) (LiquidityResult, error) {
	event := EventAfterRemoveLiquidity
	if ev.Params.IsAdd() {
		event = EventAfterAddLiquidity
	}
	startedAt := time.Now()
	if err := a.acquire(); err != nil {
		return LiquidityResult{}, a.wrap(err)
	}

	poolID := ev.Key.ID()
	combined := ZeroBalanceDelta()
	invoked := 0
	err := func() error {
		defer a.release()
		for _, entry := range a.registry.ListFor(poolID) {
			if !entry.Permissions.Subscribed(event) {
				continue
			}
			invoked++
			var result LiquidityResult
			var callErr error
			if event == EventAfterAddLiquidity {
				result, callErr = entry.Hook.AfterAddLiquidity(ctx, ev)
			} else {
				result, callErr = entry.Hook.AfterRemoveLiquidity(ctx, ev)
			}
			if callErr != nil {
				return fmt.Errorf("%w: %s %s: %v", ErrHookCallFailed, event, entry.Address.Hex(), callErr)
			}
			if result.Ack != expectedAck(event) {
				return fmt.Errorf("%w: %s returned %q for %s", ErrUnexpectedAck, entry.Address.Hex(), result.Ack, event)
			}
			if !entry.Permissions.ReturnsDelta(event) {
				continue
			}
			next, combineErr := combineDeltas(combined, result.Delta)
			if combineErr != nil {
				return combineErr
			}
			combined = next
		}
		return nil
	}()
	a.observeDispatch(ctx, startedAt, event, poolID, invoked, err)
	if err != nil {
		return LiquidityResult{}, a.wrap(err)
	}
	return LiquidityResult{Ack: expectedAck(event), Delta: combined}, nil
}

// BeforeSwap clears any stale transient buffer for the pool, records every
// subscribed hook's delta at its list position, folds returns-delta hooks
// into the combined delta, and resolves the fee override last-writer-wins.
func (a *Adapter) BeforeSwap(ctx context.Context, ev SwapEvent) (BeforeSwapResult, error) {
	startedAt := time.Now()
	if err := a.acquire(); err != nil {
		return BeforeSwapResult{}, a.wrap(err)
	}

	poolID := ev.Key.ID()
	combined := ZeroBalanceDelta()
	feeOverride := FeeOverrideNone
	invoked := 0
	err := func() error {
		defer a.release()
		entries := a.registry.ListFor(poolID)
		delete(a.pendingSwapDeltas, poolID)
		buffer := make([]BalanceDelta, len(entries))
		for idx, entry := range entries {
			if !entry.Permissions.Subscribed(EventBeforeSwap) {
				continue
			}
			invoked++
			result, callErr := entry.Hook.BeforeSwap(ctx, ev)
			if callErr != nil {
				return fmt.Errorf("%w: before_swap %s: %v", ErrHookCallFailed, entry.Address.Hex(), callErr)
			}
			if result.Ack != AckBeforeSwap {
				return fmt.Errorf("%w: %s returned %q for before_swap", ErrUnexpectedAck, entry.Address.Hex(), result.Ack)
			}
			// Every subscribed hook's delta is buffered at its list
			// position, whether or not it aggregates, so after-swap can
			// reconcile per-hook contributions.
			buffer[idx] = result.Delta.clone()
			if entry.Permissions.ReturnsDelta(EventBeforeSwap) {
				next, combineErr := combineDeltas(combined, result.Delta)
				if combineErr != nil {
					return combineErr
				}
				combined = next
			}
			if result.FeeOverride != FeeOverrideNone {
				if result.FeeOverride > MaxFee {
					return fmt.Errorf("%w: override %d from %s", ErrFeeOutOfRange, result.FeeOverride, entry.Address.Hex())
				}
				// Last subscribed override wins; earlier values are
				// discarded regardless of magnitude.
				feeOverride = result.FeeOverride
			}
		}
		a.pendingSwapDeltas[poolID] = buffer
		return nil
	}()
	a.observeDispatch(ctx, startedAt, EventBeforeSwap, poolID, invoked, err)
	if err != nil {
		return BeforeSwapResult{}, a.wrap(err)
	}
	return BeforeSwapResult{Ack: AckBeforeSwap, Delta: combined, FeeOverride: feeOverride}, nil
}

// AfterSwap consumes the transient buffer from the matching before-swap and
// sums the single signed adjustments of returns-delta hooks.
func (a *Adapter) AfterSwap(ctx context.Context, ev SwapEvent) (AfterSwapResult, error) {
	startedAt := time.Now()
	if err := a.acquire(); err != nil {
		return AfterSwapResult{}, a.wrap(err)
	}

	poolID := ev.Key.ID()
	combined := big.NewInt(0)
	invoked := 0
	err := func() error {
		// The buffer must not leak into a later, unrelated invocation.
		defer delete(a.pendingSwapDeltas, poolID)
		defer a.release()
		for _, entry := range a.registry.ListFor(poolID) {
			if !entry.Permissions.Subscribed(EventAfterSwap) {
				continue
			}
			invoked++
			result, callErr := entry.Hook.AfterSwap(ctx, ev)
			if callErr != nil {
				return fmt.Errorf("%w: after_swap %s: %v", ErrHookCallFailed, entry.Address.Hex(), callErr)
			}
			if result.Ack != AckAfterSwap {
				return fmt.Errorf("%w: %s returned %q for after_swap", ErrUnexpectedAck, entry.Address.Hex(), result.Ack)
			}
			if !entry.Permissions.ReturnsDelta(EventAfterSwap) {
				continue
			}
			next, combineErr := combineAdjustments(combined, result.UnspecifiedDelta)
			if combineErr != nil {
				return combineErr
			}
			combined = next
		}
		return nil
	}()
	a.observeDispatch(ctx, startedAt, EventAfterSwap, poolID, invoked, err)
	if err != nil {
		return AfterSwapResult{}, a.wrap(err)
	}
	return AfterSwapResult{Ack: AckAfterSwap, UnspecifiedDelta: combined}, nil
}

// PendingSwapDeltaFor exposes the transient buffer entry recorded for one
// hook position by the in-flight swap. It exists for the host's settlement
// accounting between before-swap and after-swap.
func (a *Adapter) PendingSwapDeltaFor(poolID PoolID, position int) (BalanceDelta, bool) {
	if a == nil {
		return BalanceDelta{}, false
	}
	buffer, ok := a.pendingSwapDeltas[poolID]
	if !ok || position < 0 || position >= len(buffer) {
		return BalanceDelta{}, false
	}
	return buffer[position].clone(), true
}

// dispatchPlain is the shared shape of the non-aggregating event kinds:
// invoke subscribed hooks in registration order, validate acknowledgment,
// discard the payload.
func (a *Adapter) dispatchPlain(
	ctx context.Context,
	event LifecycleEventKind,
	key PoolKey,
	invoke func(ctx context.Context, entry HookEntry) (Ack, error),
) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("core: adapter registry is not configured")
	}
	startedAt := time.Now()
	if err := a.acquire(); err != nil {
		return a.wrap(err)
	}

	poolID := key.ID()
	invoked := 0
	err := func() error {
		defer a.release()
		for _, entry := range a.registry.ListFor(poolID) {
			if !entry.Permissions.Subscribed(event) {
				continue
			}
			invoked++
			ack, callErr := invoke(ctx, entry)
			if callErr != nil {
				return fmt.Errorf("%w: %s %s: %v", ErrHookCallFailed, event, entry.Address.Hex(), callErr)
			}
			if ack != expectedAck(event) {
				return fmt.Errorf("%w: %s returned %q for %s", ErrUnexpectedAck, entry.Address.Hex(), ack, event)
			}
		}
		return nil
	}()
	a.observeDispatch(ctx, startedAt, event, poolID, invoked, err)
	if err != nil {
		return a.wrap(err)
	}
	return nil
}

func (a *Adapter) wrap(err error) error {
	if err == nil {
		return nil
	}
	if a == nil || a.errorMapper == nil {
		return err
	}
	if mapped := a.errorMapper(err); mapped != nil {
		return mapped
	}
	return err
}
