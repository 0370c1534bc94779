package core

import "fmt"

// LifecycleEventKind names one of the ten lifecycle forwarding points.
type LifecycleEventKind string

const (
	EventBeforeInitialize      LifecycleEventKind = "before_initialize"
	EventAfterInitialize       LifecycleEventKind = "after_initialize"
	EventBeforeAddLiquidity    LifecycleEventKind = "before_add_liquidity"
	EventAfterAddLiquidity     LifecycleEventKind = "after_add_liquidity"
	EventBeforeRemoveLiquidity LifecycleEventKind = "before_remove_liquidity"
	EventAfterRemoveLiquidity  LifecycleEventKind = "after_remove_liquidity"
	EventBeforeSwap            LifecycleEventKind = "before_swap"
	EventAfterSwap             LifecycleEventKind = "after_swap"
	EventBeforeDonate          LifecycleEventKind = "before_donate"
	EventAfterDonate           LifecycleEventKind = "after_donate"
)

// HookPermissions declares which lifecycle events a hook participates in and
// which payloads it returns. It is an explicit, immutable descriptor bound
// at registration time, never recovered from an address encoding.
type HookPermissions struct {
	BeforeInitialize      bool
	AfterInitialize       bool
	BeforeAddLiquidity    bool
	AfterAddLiquidity     bool
	BeforeRemoveLiquidity bool
	AfterRemoveLiquidity  bool
	BeforeSwap            bool
	AfterSwap             bool
	BeforeDonate          bool
	AfterDonate           bool

	BeforeSwapReturnsDelta           bool
	AfterSwapReturnsDelta            bool
	AfterAddLiquidityReturnsDelta    bool
	AfterRemoveLiquidityReturnsDelta bool
}

// Validate rejects descriptors whose returns-delta flags lack the matching
// base subscription, mirroring the host system's registration constraints.
func (p HookPermissions) Validate() error {
	if p.BeforeSwapReturnsDelta && !p.BeforeSwap {
		return fmt.Errorf("%w: before_swap_returns_delta without before_swap", ErrInvalidPermissions)
	}
	if p.AfterSwapReturnsDelta && !p.AfterSwap {
		return fmt.Errorf("%w: after_swap_returns_delta without after_swap", ErrInvalidPermissions)
	}
	if p.AfterAddLiquidityReturnsDelta && !p.AfterAddLiquidity {
		return fmt.Errorf("%w: after_add_liquidity_returns_delta without after_add_liquidity", ErrInvalidPermissions)
	}
	if p.AfterRemoveLiquidityReturnsDelta && !p.AfterRemoveLiquidity {
		return fmt.Errorf("%w: after_remove_liquidity_returns_delta without after_remove_liquidity", ErrInvalidPermissions)
	}
	return nil
}

// Subscribed is the capability predicate: whether the hook wants the event.
func (p HookPermissions) Subscribed(event LifecycleEventKind) bool {
	switch event {
	case EventBeforeInitialize:
		return p.BeforeInitialize
	case EventAfterInitialize:
		return p.AfterInitialize
	case EventBeforeAddLiquidity:
		return p.BeforeAddLiquidity
	case EventAfterAddLiquidity:
		return p.AfterAddLiquidity
	case EventBeforeRemoveLiquidity:
		return p.BeforeRemoveLiquidity
	case EventAfterRemoveLiquidity:
		return p.AfterRemoveLiquidity
	case EventBeforeSwap:
		return p.BeforeSwap
	case EventAfterSwap:
		return p.AfterSwap
	case EventBeforeDonate:
		return p.BeforeDonate
	case EventAfterDonate:
		return p.AfterDonate
	}
	return false
}

// ReturnsDelta reports whether the hook's payload for the event is folded
// into the aggregate. Only four event kinds carry aggregating payloads.
func (p HookPermissions) ReturnsDelta(event LifecycleEventKind) bool {
	switch event {
	case EventBeforeSwap:
		return p.BeforeSwapReturnsDelta
	case EventAfterSwap:
		return p.AfterSwapReturnsDelta
	case EventAfterAddLiquidity:
		return p.AfterAddLiquidityReturnsDelta
	case EventAfterRemoveLiquidity:
		return p.AfterRemoveLiquidityReturnsDelta
	}
	return false
}
