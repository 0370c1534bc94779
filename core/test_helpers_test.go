package core

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// fakeHook is a scriptable hook used across the dispatcher tests. Each
// lifecycle method records that it was called and returns the configured
// payload, or fails when failWith is set.
type fakeHook struct {
	mu sync.Mutex

	calls []LifecycleEventKind

	failWith  error
	failOn    LifecycleEventKind
	ackFor    map[LifecycleEventKind]Ack
	swapDelta BalanceDelta
	feeValue  uint32
	afterSwap *big.Int
	liqDelta  BalanceDelta
}

func newFakeHook() *fakeHook {
	return &fakeHook{
		swapDelta: ZeroBalanceDelta(),
		feeValue:  FeeOverrideNone,
		afterSwap: big.NewInt(0),
		liqDelta:  ZeroBalanceDelta(),
	}
}

func (h *fakeHook) record(event LifecycleEventKind) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, event)
	if h.failWith != nil && (h.failOn == "" || h.failOn == event) {
		return h.failWith
	}
	return nil
}

func (h *fakeHook) ack(event LifecycleEventKind) Ack {
	h.mu.Lock()
	defer h.mu.Unlock()
	if custom, ok := h.ackFor[event]; ok {
		return custom
	}
	return expectedAck(event)
}

func (h *fakeHook) callsFor(event LifecycleEventKind) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	count := 0
	for _, call := range h.calls {
		if call == event {
			count++
		}
	}
	return count
}

func (h *fakeHook) BeforeInitialize(_ context.Context, _ InitializeEvent) (Ack, error) {
	if err := h.record(EventBeforeInitialize); err != nil {
		return "", err
	}
	return h.ack(EventBeforeInitialize), nil
}

func (h *fakeHook) AfterInitialize(_ context.Context, _ InitializeEvent) (Ack, error) {
	if err := h.record(EventAfterInitialize); err != nil {
		return "", err
	}
	return h.ack(EventAfterInitialize), nil
}

func (h *fakeHook) BeforeAddLiquidity(_ context.Context, _ LiquidityEvent) (Ack, error) {
	if err := h.record(EventBeforeAddLiquidity); err != nil {
		return "", err
	}
	return h.ack(EventBeforeAddLiquidity), nil
}

func (h *fakeHook) AfterAddLiquidity(_ context.Context, _ LiquidityEvent) (LiquidityResult, error) {
	if err := h.record(EventAfterAddLiquidity); err != nil {
		return LiquidityResult{}, err
	}
	return LiquidityResult{Ack: h.ack(EventAfterAddLiquidity), Delta: h.liqDelta.clone()}, nil
}

func (h *fakeHook) BeforeRemoveLiquidity(_ context.Context, _ LiquidityEvent) (Ack, error) {
	if err := h.record(EventBeforeRemoveLiquidity); err != nil {
		return "", err
	}
	return h.ack(EventBeforeRemoveLiquidity), nil
}

func (h *fakeHook) AfterRemoveLiquidity(_ context.Context, _ LiquidityEvent) (LiquidityResult, error) {
	if err := h.record(EventAfterRemoveLiquidity); err != nil {
		return LiquidityResult{}, err
	}
	return LiquidityResult{Ack: h.ack(EventAfterRemoveLiquidity), Delta: h.liqDelta.clone()}, nil
}

func (h *fakeHook) BeforeSwap(_ context.Context, _ SwapEvent) (BeforeSwapResult, error) {
	if err := h.record(EventBeforeSwap); err != nil {
		return BeforeSwapResult{}, err
	}
	return BeforeSwapResult{
		Ack:         h.ack(EventBeforeSwap),
		Delta:       h.swapDelta.clone(),
		FeeOverride: h.feeValue,
	}, nil
}

func (h *fakeHook) AfterSwap(_ context.Context, _ SwapEvent) (AfterSwapResult, error) {
	if err := h.record(EventAfterSwap); err != nil {
		return AfterSwapResult{}, err
	}
	return AfterSwapResult{
		Ack:              h.ack(EventAfterSwap),
		UnspecifiedDelta: new(big.Int).Set(h.afterSwap),
	}, nil
}

func (h *fakeHook) BeforeDonate(_ context.Context, _ DonateEvent) (Ack, error) {
	if err := h.record(EventBeforeDonate); err != nil {
		return "", err
	}
	return h.ack(EventBeforeDonate), nil
}

func (h *fakeHook) AfterDonate(_ context.Context, _ DonateEvent) (Ack, error) {
	if err := h.record(EventAfterDonate); err != nil {
		return "", err
	}
	return h.ack(EventAfterDonate), nil
}

// reentrantHook calls back into the adapter from inside a hook callback to
// exercise the dispatch guard.
type reentrantHook struct {
	fakeHook
	adapter *Adapter
	key     PoolKey
	nested  error
}

func (h *reentrantHook) BeforeSwap(ctx context.Context, ev SwapEvent) (BeforeSwapResult, error) {
	_, h.nested = h.adapter.BeforeSwap(ctx, SwapEvent{Sender: ev.Sender, Key: h.key, Params: ev.Params})
	return BeforeSwapResult{Ack: AckBeforeSwap, Delta: ZeroBalanceDelta(), FeeOverride: FeeOverrideNone}, nil
}

type memoryHookSetStore struct {
	mu      sync.Mutex
	sets    map[PoolID]HookSet
	saveErr error
}

func newMemoryHookSetStore() *memoryHookSetStore {
	return &memoryHookSetStore{sets: map[PoolID]HookSet{}}
}

func (s *memoryHookSetStore) Save(_ context.Context, set HookSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.sets[set.PoolID] = set
	return nil
}

func (s *memoryHookSetStore) Get(_ context.Context, poolID PoolID) (HookSet, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[poolID]
	return set, ok, nil
}

type memoryFeeConfigStore struct {
	mu      sync.Mutex
	configs map[PoolID]FeeConfig
}

func newMemoryFeeConfigStore() *memoryFeeConfigStore {
	return &memoryFeeConfigStore{configs: map[PoolID]FeeConfig{}}
}

func (s *memoryFeeConfigStore) Save(_ context.Context, poolID PoolID, cfg FeeConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[poolID] = cfg
	return nil
}

func (s *memoryFeeConfigStore) Get(_ context.Context, poolID PoolID) (FeeConfig, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg, ok := s.configs[poolID]
	return cfg, ok, nil
}

func testPoolKey(n byte) PoolKey {
	currency0 := common.Address{}
	currency0[19] = n
	currency1 := common.Address{}
	currency1[19] = n + 1
	adapter := common.Address{}
	adapter[0] = 0xAD
	return PoolKey{
		Currency0:   currency0,
		Currency1:   currency1,
		Fee:         3000,
		TickSpacing: 60,
		Adapter:     adapter,
	}
}

func hookAddress(n byte) common.Address {
	addr := common.Address{}
	addr[0] = 0x10
	addr[19] = n
	return addr
}

func allEventsPermissions() HookPermissions {
	return HookPermissions{
		BeforeInitialize:      true,
		AfterInitialize:       true,
		BeforeAddLiquidity:    true,
		AfterAddLiquidity:     true,
		BeforeRemoveLiquidity: true,
		AfterRemoveLiquidity:  true,
		BeforeSwap:            true,
		AfterSwap:             true,
		BeforeDonate:          true,
		AfterDonate:           true,
	}
}

func swapOnlyPermissions(returnsDelta bool) HookPermissions {
	return HookPermissions{
		BeforeSwap:             true,
		AfterSwap:              true,
		BeforeSwapReturnsDelta: returnsDelta,
		AfterSwapReturnsDelta:  returnsDelta,
	}
}

func mustNewAdapter(t testingT, options ...Option) *Adapter {
	t.Helper()
	adapter, err := NewAdapter(Config{}, options...)
	if err != nil {
		t.Fatalf("NewAdapter returned error: %v", err)
	}
	return adapter
}

// testingT is the subset of *testing.T the helpers need.
type testingT interface {
	Helper()
	Fatalf(format string, args ...any)
}
