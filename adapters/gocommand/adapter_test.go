package gocommand

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goliatone/go-command"

	multihook "github.com/Najnomics/multihook-adapter"
	adaptercommand "github.com/Najnomics/multihook-adapter/command"
	"github.com/Najnomics/multihook-adapter/core"
	adapterquery "github.com/Najnomics/multihook-adapter/query"
)

type okMessage struct{}

func (okMessage) Type() string { return "multihook.command.ok" }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "" }

type failingMessage struct{}

func (failingMessage) Type() string { return "multihook.command.fail" }

func (failingMessage) Validate() error { return errors.New("invalid payload") }

type dispatchMessage struct {
	ID string
}

func (dispatchMessage) Type() string { return "multihook.command.test" }

type idleHook struct{}

func (idleHook) BeforeInitialize(context.Context, core.InitializeEvent) (core.Ack, error) {
	return core.AckBeforeInitialize, nil
}

func (idleHook) AfterInitialize(context.Context, core.InitializeEvent) (core.Ack, error) {
	return core.AckAfterInitialize, nil
}

func (idleHook) BeforeAddLiquidity(context.Context, core.LiquidityEvent) (core.Ack, error) {
	return core.AckBeforeAddLiquidity, nil
}

func (idleHook) AfterAddLiquidity(context.Context, core.LiquidityEvent) (core.LiquidityResult, error) {
	return core.LiquidityResult{Ack: core.AckAfterAddLiquidity, Delta: core.ZeroBalanceDelta()}, nil
}

func (idleHook) BeforeRemoveLiquidity(context.Context, core.LiquidityEvent) (core.Ack, error) {
	return core.AckBeforeRemoveLiquidity, nil
}

func (idleHook) AfterRemoveLiquidity(context.Context, core.LiquidityEvent) (core.LiquidityResult, error) {
	return core.LiquidityResult{Ack: core.AckAfterRemoveLiquidity, Delta: core.ZeroBalanceDelta()}, nil
}

func (idleHook) BeforeSwap(context.Context, core.SwapEvent) (core.BeforeSwapResult, error) {
	return core.BeforeSwapResult{
		Ack:         core.AckBeforeSwap,
		Delta:       core.ZeroBalanceDelta(),
		FeeOverride: core.FeeOverrideNone,
	}, nil
}

func (idleHook) AfterSwap(context.Context, core.SwapEvent) (core.AfterSwapResult, error) {
	return core.AfterSwapResult{Ack: core.AckAfterSwap, UnspecifiedDelta: big.NewInt(0)}, nil
}

func (idleHook) BeforeDonate(context.Context, core.DonateEvent) (core.Ack, error) {
	return core.AckBeforeDonate, nil
}

func (idleHook) AfterDonate(context.Context, core.DonateEvent) (core.Ack, error) {
	return core.AckAfterDonate, nil
}

func TestValidateMessageContract(t *testing.T) {
	if err := ValidateMessageContract(okMessage{}); err != nil {
		t.Fatalf("expected valid message, got %v", err)
	}
	if err := ValidateMessageContract(invalidMessage{}); err == nil {
		t.Fatalf("expected empty type to fail contract validation")
	}
	if err := ValidateMessageContract(failingMessage{}); err == nil {
		t.Fatalf("expected Validate() failure to bubble")
	}
}

func TestRegistryAndDispatchWiring(t *testing.T) {
	adapter := NewRegistryAdapter(command.NewRegistry())
	executed := 0
	customResolverCalled := 0

	cmd := command.CommandFunc[dispatchMessage](func(context.Context, dispatchMessage) error {
		executed++
		return nil
	})

	subscription, err := RegisterAndSubscribe(adapter, cmd)
	if err != nil {
		t.Fatalf("register and subscribe: %v", err)
	}
	defer subscription.Unsubscribe()
	if err := adapter.AddResolver("custom", func(any, command.CommandMeta, *command.Registry) error {
		customResolverCalled++
		return nil
	}); err != nil {
		t.Fatalf("add resolver: %v", err)
	}
	if !adapter.HasResolver("custom") {
		t.Fatalf("expected custom resolver to be registered")
	}
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}
	if customResolverCalled == 0 {
		t.Fatalf("expected resolver hook to run during initialization")
	}

	if err := Dispatch(context.Background(), dispatchMessage{ID: "m1"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if executed != 1 {
		t.Fatalf("expected command execution count=1, got %d", executed)
	}
}

func TestRegisterFacadeWiresCommandsAndQueries(t *testing.T) {
	engine, err := multihook.NewAdapter(multihook.DefaultConfig())
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	facade, err := multihook.NewFacade(engine)
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}

	adapter := NewRegistryAdapter(command.NewRegistry())
	subscriptions, err := RegisterFacade(adapter, facade)
	if err != nil {
		t.Fatalf("register facade: %v", err)
	}
	defer func() {
		for _, subscription := range subscriptions {
			subscription.Unsubscribe()
		}
	}()
	// Three registration commands and three read queries; governance was not
	// configured so its commands stay out.
	if len(subscriptions) != 6 {
		t.Fatalf("expected 6 subscriptions, got %d", len(subscriptions))
	}

	key := core.PoolKey{Fee: 3000, TickSpacing: 60}
	key.Currency1[19] = 0x02
	key.Adapter[0] = 0xAD

	msg := adaptercommand.RegisterHooksMessage{
		Key: key,
		Entries: []core.HookEntry{{
			Address:     common.HexToAddress("0x0000000000000000000000000000000000000E01"),
			Hook:        idleHook{},
			Permissions: core.HookPermissions{BeforeSwap: true},
		}},
	}
	if err := Dispatch(context.Background(), msg); err != nil {
		t.Fatalf("dispatch register hooks: %v", err)
	}

	set, err := Query[adapterquery.GetHookSetMessage, core.HookSet](
		context.Background(),
		adapterquery.GetHookSetMessage{PoolID: key.ID()},
	)
	if err != nil {
		t.Fatalf("query hook set: %v", err)
	}
	if len(set.Hooks) != 1 {
		t.Fatalf("expected one registered hook, got %d", len(set.Hooks))
	}
}
