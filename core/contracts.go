package core

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

// Ack is the canonical acknowledgment tag a hook must return for each event
// kind. A response carrying any other tag is a protocol violation and fails
// the whole dispatch.
type Ack string

const (
	AckBeforeInitialize      Ack = "multihook.ack.before_initialize"
	AckAfterInitialize       Ack = "multihook.ack.after_initialize"
	AckBeforeAddLiquidity    Ack = "multihook.ack.before_add_liquidity"
	AckAfterAddLiquidity     Ack = "multihook.ack.after_add_liquidity"
	AckBeforeRemoveLiquidity Ack = "multihook.ack.before_remove_liquidity"
	AckAfterRemoveLiquidity  Ack = "multihook.ack.after_remove_liquidity"
	AckBeforeSwap            Ack = "multihook.ack.before_swap"
	AckAfterSwap             Ack = "multihook.ack.after_swap"
	AckBeforeDonate          Ack = "multihook.ack.before_donate"
	AckAfterDonate           Ack = "multihook.ack.after_donate"
)

// expectedAck maps each event kind to its canonical tag.
func expectedAck(event LifecycleEventKind) Ack {
	switch event {
	case EventBeforeInitialize:
		return AckBeforeInitialize
	case EventAfterInitialize:
		return AckAfterInitialize
	case EventBeforeAddLiquidity:
		return AckBeforeAddLiquidity
	case EventAfterAddLiquidity:
		return AckAfterAddLiquidity
	case EventBeforeRemoveLiquidity:
		return AckBeforeRemoveLiquidity
	case EventAfterRemoveLiquidity:
		return AckAfterRemoveLiquidity
	case EventBeforeSwap:
		return AckBeforeSwap
	case EventAfterSwap:
		return AckAfterSwap
	case EventBeforeDonate:
		return AckBeforeDonate
	case EventAfterDonate:
		return AckAfterDonate
	}
	return ""
}

// BeforeSwapResult is a before-swap hook's response: the acknowledgment, a
// two-sided delta, and an optional fee override (FeeOverrideNone when the
// hook does not override).
type BeforeSwapResult struct {
	Ack         Ack
	Delta       BalanceDelta
	FeeOverride uint32
}

// AfterSwapResult carries the single signed adjustment of an after-swap
// hook in the unspecified currency.
type AfterSwapResult struct {
	Ack              Ack
	UnspecifiedDelta *big.Int
}

// LiquidityResult is the response of an after-add/remove-liquidity hook.
type LiquidityResult struct {
	Ack   Ack
	Delta BalanceDelta
}

// Hook is the plugin boundary. The dispatcher only invokes the methods the
// hook's permissions subscribe to; the rest may return the zero value.
type Hook interface {
	BeforeInitialize(ctx context.Context, ev InitializeEvent) (Ack, error)
	AfterInitialize(ctx context.Context, ev InitializeEvent) (Ack, error)
	BeforeAddLiquidity(ctx context.Context, ev LiquidityEvent) (Ack, error)
	AfterAddLiquidity(ctx context.Context, ev LiquidityEvent) (LiquidityResult, error)
	BeforeRemoveLiquidity(ctx context.Context, ev LiquidityEvent) (Ack, error)
	AfterRemoveLiquidity(ctx context.Context, ev LiquidityEvent) (LiquidityResult, error)
	BeforeSwap(ctx context.Context, ev SwapEvent) (BeforeSwapResult, error)
	AfterSwap(ctx context.Context, ev SwapEvent) (AfterSwapResult, error)
	BeforeDonate(ctx context.Context, ev DonateEvent) (Ack, error)
	AfterDonate(ctx context.Context, ev DonateEvent) (Ack, error)
}

// HookEntry binds a hook implementation to its address and immutable
// permission descriptor. Registration order is invocation order.
type HookEntry struct {
	Address     common.Address
	Hook        Hook
	Permissions HookPermissions
}

func (e HookEntry) Validate() error {
	if e.Address == (common.Address{}) {
		return ErrHookAddressZero
	}
	if e.Hook == nil {
		return ErrHookNil
	}
	return e.Permissions.Validate()
}

// RegisteredHook is the persistable projection of a hook entry: address and
// permissions at a list position, without the in-process implementation.
type RegisteredHook struct {
	Position    int
	Address     common.Address
	Permissions HookPermissions
}

// HookSet is the persisted state of one pool's registration.
type HookSet struct {
	PoolID PoolID
	Hooks  []RegisteredHook
}

// Registry is the shared resource-extension registry contract. The base
// implementation is one-shot per pool; the governed implementation permits
// re-registration under access control.
type Registry interface {
	Register(ctx context.Context, poolID PoolID, entries []HookEntry) error
	ListFor(poolID PoolID) []HookEntry
}

// HookSetStore persists one hook-set row per pool.
type HookSetStore interface {
	Save(ctx context.Context, set HookSet) error
	Get(ctx context.Context, poolID PoolID) (HookSet, bool, error)
}

// FeeConfigStore persists one fee-configuration row per pool.
type FeeConfigStore interface {
	Save(ctx context.Context, poolID PoolID, cfg FeeConfig) error
	Get(ctx context.Context, poolID PoolID) (FeeConfig, bool, error)
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type ErrorFactory func(message string, category ...goerrors.Category) *goerrors.Error

type ErrorMapper func(err error) *goerrors.Error

type ConfigProvider interface {
	Load(ctx context.Context, defaults Config) (Config, error)
}

type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type OptionsResolver interface {
	Resolve(defaults Config, loaded Config, runtime Config) (Config, error)
}
