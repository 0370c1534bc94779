package command

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	gocmd "github.com/goliatone/go-command"

	"github.com/Najnomics/multihook-adapter/core"
)

type stubRegistrationService struct {
	registerFn              func(ctx context.Context, key core.PoolKey, entries []core.HookEntry) (core.PoolID, error)
	registerWithMethodFn    func(ctx context.Context, key core.PoolKey, entries []core.HookEntry, method core.FeeCalculationMethod) (core.PoolID, error)
	registerWithFeeConfigFn func(ctx context.Context, key core.PoolKey, entries []core.HookEntry, method core.FeeCalculationMethod, poolFee uint32) (core.PoolID, error)
}

func (s stubRegistrationService) RegisterHooks(ctx context.Context, key core.PoolKey, entries []core.HookEntry) (core.PoolID, error) {
	if s.registerFn == nil {
		return core.PoolID{}, errors.New("unexpected RegisterHooks call")
	}
	return s.registerFn(ctx, key, entries)
}

func (s stubRegistrationService) RegisterHooksWithFeeMethod(ctx context.Context, key core.PoolKey, entries []core.HookEntry, method core.FeeCalculationMethod) (core.PoolID, error) {
	if s.registerWithMethodFn == nil {
		return core.PoolID{}, errors.New("unexpected RegisterHooksWithFeeMethod call")
	}
	return s.registerWithMethodFn(ctx, key, entries, method)
}

func (s stubRegistrationService) RegisterHooksWithFeeConfig(ctx context.Context, key core.PoolKey, entries []core.HookEntry, method core.FeeCalculationMethod, poolFee uint32) (core.PoolID, error) {
	if s.registerWithFeeConfigFn == nil {
		return core.PoolID{}, errors.New("unexpected RegisterHooksWithFeeConfig call")
	}
	return s.registerWithFeeConfigFn(ctx, key, entries, method, poolFee)
}

type stubGovernanceService struct {
	approveFn func(ctx context.Context, address common.Address) error
	revokeFn  func(ctx context.Context, address common.Address) error
	addFn     func(ctx context.Context, poolID core.PoolID, entry core.HookEntry) error
	removeFn  func(ctx context.Context, poolID core.PoolID, address common.Address) error
}

func (s stubGovernanceService) ApproveHook(ctx context.Context, address common.Address) error {
	return s.approveFn(ctx, address)
}

func (s stubGovernanceService) RevokeHook(ctx context.Context, address common.Address) error {
	return s.revokeFn(ctx, address)
}

func (s stubGovernanceService) AddHook(ctx context.Context, poolID core.PoolID, entry core.HookEntry) error {
	return s.addFn(ctx, poolID, entry)
}

func (s stubGovernanceService) RemoveHook(ctx context.Context, poolID core.PoolID, address common.Address) error {
	return s.removeFn(ctx, poolID, address)
}

type stubFeeAdmin struct {
	setMethodFn        func(ctx context.Context, poolID core.PoolID, method core.FeeCalculationMethod) error
	setPoolFeeFn       func(ctx context.Context, poolID core.PoolID, fee uint32) error
	setGovernanceFeeFn func(ctx context.Context, poolID core.PoolID, fee uint32) error
}

func (s stubFeeAdmin) SetMethod(ctx context.Context, poolID core.PoolID, method core.FeeCalculationMethod) error {
	return s.setMethodFn(ctx, poolID, method)
}

func (s stubFeeAdmin) SetPoolFee(ctx context.Context, poolID core.PoolID, fee uint32) error {
	return s.setPoolFeeFn(ctx, poolID, fee)
}

func (s stubFeeAdmin) SetGovernanceFee(ctx context.Context, poolID core.PoolID, fee uint32) error {
	return s.setGovernanceFeeFn(ctx, poolID, fee)
}

type inertHook struct{}

func (inertHook) BeforeInitialize(context.Context, core.InitializeEvent) (core.Ack, error) {
	return core.AckBeforeInitialize, nil
}

func (inertHook) AfterInitialize(context.Context, core.InitializeEvent) (core.Ack, error) {
	return core.AckAfterInitialize, nil
}

func (inertHook) BeforeAddLiquidity(context.Context, core.LiquidityEvent) (core.Ack, error) {
	return core.AckBeforeAddLiquidity, nil
}

func (inertHook) AfterAddLiquidity(context.Context, core.LiquidityEvent) (core.LiquidityResult, error) {
	return core.LiquidityResult{Ack: core.AckAfterAddLiquidity, Delta: core.ZeroBalanceDelta()}, nil
}

func (inertHook) BeforeRemoveLiquidity(context.Context, core.LiquidityEvent) (core.Ack, error) {
	return core.AckBeforeRemoveLiquidity, nil
}

func (inertHook) AfterRemoveLiquidity(context.Context, core.LiquidityEvent) (core.LiquidityResult, error) {
	return core.LiquidityResult{Ack: core.AckAfterRemoveLiquidity, Delta: core.ZeroBalanceDelta()}, nil
}

func (inertHook) BeforeSwap(context.Context, core.SwapEvent) (core.BeforeSwapResult, error) {
	return core.BeforeSwapResult{
		Ack:         core.AckBeforeSwap,
		Delta:       core.ZeroBalanceDelta(),
		FeeOverride: core.FeeOverrideNone,
	}, nil
}

func (inertHook) AfterSwap(context.Context, core.SwapEvent) (core.AfterSwapResult, error) {
	return core.AfterSwapResult{Ack: core.AckAfterSwap}, nil
}

func (inertHook) BeforeDonate(context.Context, core.DonateEvent) (core.Ack, error) {
	return core.AckBeforeDonate, nil
}

func (inertHook) AfterDonate(context.Context, core.DonateEvent) (core.Ack, error) {
	return core.AckAfterDonate, nil
}

func commandTestKey() core.PoolKey {
	return core.PoolKey{
		Currency0:   common.HexToAddress("0x0000000000000000000000000000000000000001"),
		Currency1:   common.HexToAddress("0x0000000000000000000000000000000000000002"),
		Fee:         3000,
		TickSpacing: 60,
		Adapter:     common.HexToAddress("0xAD00000000000000000000000000000000000000"),
	}
}

func TestRegisterHooksCommand_ExecuteDelegatesAndStoresResult(t *testing.T) {
	key := commandTestKey()
	expected := key.ID()
	called := false

	svc := stubRegistrationService{
		registerFn: func(_ context.Context, gotKey core.PoolKey, entries []core.HookEntry) (core.PoolID, error) {
			called = true
			if gotKey != key {
				t.Fatalf("unexpected key: %+v", gotKey)
			}
			if len(entries) != 1 {
				t.Fatalf("expected 1 entry, got %d", len(entries))
			}
			return expected, nil
		},
	}

	cmd := NewRegisterHooksCommand(svc)
	collector := gocmd.NewResult[core.PoolID]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	entry := core.HookEntry{Address: common.HexToAddress("0x1000000000000000000000000000000000000001")}
	if err := cmd.Execute(ctx, RegisterHooksMessage{Key: key, Entries: []core.HookEntry{entry}}); err != nil {
		t.Fatalf("execute register hooks: %v", err)
	}
	if !called {
		t.Fatal("expected registration service invocation")
	}
	result, ok := collector.Load()
	if !ok {
		t.Fatal("expected pool id result to be stored")
	}
	if result != expected {
		t.Fatalf("unexpected result %s", result)
	}
}

func TestRegisterHooksCommand_PropagatesServiceError(t *testing.T) {
	svc := stubRegistrationService{
		registerFn: func(context.Context, core.PoolKey, []core.HookEntry) (core.PoolID, error) {
			return core.PoolID{}, core.ErrPoolAlreadyRegistered
		},
	}
	cmd := NewRegisterHooksCommand(svc)
	err := cmd.Execute(context.Background(), RegisterHooksMessage{Key: commandTestKey()})
	if !errors.Is(err, core.ErrPoolAlreadyRegistered) {
		t.Fatalf("expected ErrPoolAlreadyRegistered, got %v", err)
	}
}

func TestRegisterHooksWithFeeConfigCommand_Execute(t *testing.T) {
	key := commandTestKey()
	svc := stubRegistrationService{
		registerWithFeeConfigFn: func(_ context.Context, _ core.PoolKey, _ []core.HookEntry, method core.FeeCalculationMethod, poolFee uint32) (core.PoolID, error) {
			if method != core.FeeMethodMedian || poolFee != 500 {
				t.Fatalf("unexpected fee payload: %s %d", method, poolFee)
			}
			return key.ID(), nil
		},
	}

	cmd := NewRegisterHooksWithFeeConfigCommand(svc)
	msg := RegisterHooksWithFeeConfigMessage{
		Key:     key,
		Entries: []core.HookEntry{{Address: common.HexToAddress("0x1000000000000000000000000000000000000001")}},
		Method:  core.FeeMethodMedian,
		PoolFee: 500,
	}
	if err := cmd.Execute(context.Background(), msg); err != nil {
		t.Fatalf("execute: %v", err)
	}
}

func TestGovernanceCommands_DelegateToService(t *testing.T) {
	poolID := commandTestKey().ID()
	address := common.HexToAddress("0x1000000000000000000000000000000000000001")

	t.Run("approve", func(t *testing.T) {
		called := false
		svc := stubGovernanceService{
			approveFn: func(_ context.Context, got common.Address) error {
				called = true
				if got != address {
					t.Fatalf("unexpected address %s", got.Hex())
				}
				return nil
			},
		}
		cmd := NewApproveHookCommand(svc)
		if err := cmd.Execute(context.Background(), ApproveHookMessage{Address: address}); err != nil {
			t.Fatalf("execute approve: %v", err)
		}
		if !called {
			t.Fatal("expected approve invocation")
		}
	})

	t.Run("remove", func(t *testing.T) {
		called := false
		svc := stubGovernanceService{
			removeFn: func(_ context.Context, gotPool core.PoolID, got common.Address) error {
				called = true
				if gotPool != poolID || got != address {
					t.Fatalf("unexpected payload: %s %s", gotPool, got.Hex())
				}
				return nil
			},
		}
		cmd := NewRemoveHookCommand(svc)
		if err := cmd.Execute(context.Background(), RemoveHookMessage{PoolID: poolID, Address: address}); err != nil {
			t.Fatalf("execute remove: %v", err)
		}
		if !called {
			t.Fatal("expected remove invocation")
		}
	})
}

func TestFeeCommands_DelegateToService(t *testing.T) {
	poolID := commandTestKey().ID()

	t.Run("set method", func(t *testing.T) {
		svc := stubFeeAdmin{
			setMethodFn: func(_ context.Context, gotPool core.PoolID, method core.FeeCalculationMethod) error {
				if gotPool != poolID || method != core.FeeMethodMaxFee {
					t.Fatalf("unexpected payload: %s %s", gotPool, method)
				}
				return nil
			},
		}
		cmd := NewSetFeeMethodCommand(svc)
		if err := cmd.Execute(context.Background(), SetFeeMethodMessage{PoolID: poolID, Method: core.FeeMethodMaxFee}); err != nil {
			t.Fatalf("execute set method: %v", err)
		}
	})

	t.Run("set governance fee", func(t *testing.T) {
		svc := stubFeeAdmin{
			setGovernanceFeeFn: func(_ context.Context, _ core.PoolID, fee uint32) error {
				if fee != 800 {
					t.Fatalf("unexpected fee %d", fee)
				}
				return nil
			},
		}
		cmd := NewSetGovernanceFeeCommand(svc)
		if err := cmd.Execute(context.Background(), SetGovernanceFeeMessage{PoolID: poolID, Fee: 800}); err != nil {
			t.Fatalf("execute set governance fee: %v", err)
		}
	})
}

func TestCommands_RejectMissingDependencies(t *testing.T) {
	if err := (&RegisterHooksCommand{}).Execute(context.Background(), RegisterHooksMessage{}); err == nil {
		t.Fatal("expected dependency error")
	}
	if err := (&SetPoolFeeCommand{}).Execute(context.Background(), SetPoolFeeMessage{}); err == nil {
		t.Fatal("expected dependency error")
	}
}

func TestMessageValidation(t *testing.T) {
	key := commandTestKey()
	entry := core.HookEntry{
		Address: common.HexToAddress("0x1000000000000000000000000000000000000001"),
		Hook:    inertHook{},
	}

	if err := (RegisterHooksMessage{Key: key}).Validate(); err == nil {
		t.Fatal("expected empty entries to be rejected")
	}
	badMsg := RegisterHooksWithFeeConfigMessage{
		Key:     key,
		Entries: []core.HookEntry{entry},
		Method:  core.FeeMethodMean,
		PoolFee: core.MaxFee + 1,
	}
	if err := badMsg.Validate(); !errors.Is(err, core.ErrFeeOutOfRange) {
		t.Fatalf("expected ErrFeeOutOfRange, got %v", err)
	}
	if err := (ApproveHookMessage{}).Validate(); !errors.Is(err, core.ErrHookAddressZero) {
		t.Fatalf("expected ErrHookAddressZero, got %v", err)
	}
	if err := (SetFeeMethodMessage{PoolID: key.ID(), Method: core.FeeCalculationMethod(99)}).Validate(); err == nil {
		t.Fatal("expected unknown method to be rejected")
	}
}
