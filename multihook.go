// Package multihook composes multiple lifecycle hooks behind a single
// adapter: per-pool ordered hook sets, capability-gated dispatch across the
// ten lifecycle events, delta aggregation, and configurable fee resolution.
package multihook

import "github.com/Najnomics/multihook-adapter/core"

type Config = core.Config

type Option = core.Option

type Adapter = core.Adapter

type Hook = core.Hook
type HookEntry = core.HookEntry
type HookPermissions = core.HookPermissions
type HookSet = core.HookSet
type RegisteredHook = core.RegisteredHook
type Registry = core.Registry
type HookSetStore = core.HookSetStore
type FeeConfigStore = core.FeeConfigStore

type PoolID = core.PoolID
type PoolKey = core.PoolKey
type BalanceDelta = core.BalanceDelta
type SwapParams = core.SwapParams
type ModifyLiquidityParams = core.ModifyLiquidityParams
type InitializeEvent = core.InitializeEvent
type LiquidityEvent = core.LiquidityEvent
type SwapEvent = core.SwapEvent
type DonateEvent = core.DonateEvent
type BeforeSwapResult = core.BeforeSwapResult
type AfterSwapResult = core.AfterSwapResult
type LiquidityResult = core.LiquidityResult

type FeeConfig = core.FeeConfig
type FeeCalculationMethod = core.FeeCalculationMethod
type WeightedFee = core.WeightedFee

var (
	WithLogger          = core.WithLogger
	WithLoggerProvider  = core.WithLoggerProvider
	WithMetricsRecorder = core.WithMetricsRecorder
	WithErrorFactory    = core.WithErrorFactory
	WithErrorMapper     = core.WithErrorMapper
	WithConfigProvider  = core.WithConfigProvider
	WithOptionsResolver = core.WithOptionsResolver
	WithRegistry        = core.WithRegistry
	WithHookSetStore    = core.WithHookSetStore
	WithFeeConfigStore  = core.WithFeeConfigStore
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewAdapter(cfg Config, opts ...Option) (*Adapter, error) {
	return core.NewAdapter(cfg, opts...)
}
