package governance

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Najnomics/multihook-adapter/core"
)

var (
	ownerAddress    = namedAddress(0xA1)
	adminAddress    = namedAddress(0xA2)
	strangerAddress = namedAddress(0xA3)
)

func namedAddress(n byte) common.Address {
	addr := common.Address{}
	addr[19] = n
	return addr
}

func testPoolID(n byte) core.PoolID {
	var id core.PoolID
	id[0] = n
	return id
}

func ownerContext() context.Context {
	return WithSender(context.Background(), ownerAddress)
}

func newTestRegistry(t *testing.T) *PermissionedHookSetRegistry {
	t.Helper()
	access, err := NewStaticAccessController(ownerAddress, adminAddress)
	if err != nil {
		t.Fatalf("NewStaticAccessController returned error: %v", err)
	}
	registry, err := NewPermissionedHookSetRegistry(access)
	if err != nil {
		t.Fatalf("NewPermissionedHookSetRegistry returned error: %v", err)
	}
	return registry
}

func approvedEntry(t *testing.T, registry *PermissionedHookSetRegistry, n byte) core.HookEntry {
	t.Helper()
	addr := common.Address{}
	addr[0] = 0x10
	addr[19] = n
	if err := registry.ApproveHook(ownerContext(), addr); err != nil {
		t.Fatalf("ApproveHook returned error: %v", err)
	}
	return core.HookEntry{
		Address:     addr,
		Hook:        noopHook{},
		Permissions: core.HookPermissions{BeforeSwap: true, AfterSwap: true},
	}
}

func TestStaticAccessControllerAuthorize(t *testing.T) {
	access, err := NewStaticAccessController(ownerAddress, adminAddress)
	if err != nil {
		t.Fatalf("NewStaticAccessController returned error: %v", err)
	}

	if err := access.Authorize(context.Background(), ownerAddress, ActionRegisterHooks); err != nil {
		t.Fatalf("owner denied: %v", err)
	}
	if err := access.Authorize(context.Background(), adminAddress, ActionRegisterHooks); err != nil {
		t.Fatalf("admin denied: %v", err)
	}
	err = access.Authorize(context.Background(), strangerAddress, ActionRegisterHooks)
	if !errors.Is(err, core.ErrGovernanceRequired) {
		t.Fatalf("expected ErrGovernanceRequired, got %v", err)
	}

	access.RevokeAdmin(adminAddress)
	if err := access.Authorize(context.Background(), adminAddress, ActionRegisterHooks); !errors.Is(err, core.ErrGovernanceRequired) {
		t.Fatalf("revoked admin expected denial, got %v", err)
	}
}

func TestPermissionedRegistryAllowsReRegistration(t *testing.T) {
	registry := newTestRegistry(t)
	poolID := testPoolID(1)

	first := approvedEntry(t, registry, 1)
	second := approvedEntry(t, registry, 2)

	if err := registry.Register(ownerContext(), poolID, []core.HookEntry{first}); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	if err := registry.Register(ownerContext(), poolID, []core.HookEntry{second}); err != nil {
		t.Fatalf("re-registration returned error: %v", err)
	}

	listed := registry.ListFor(poolID)
	if len(listed) != 1 || listed[0].Address != second.Address {
		t.Fatalf("expected replaced hook set, got %+v", listed)
	}
}

func TestPermissionedRegistryRequiresSender(t *testing.T) {
	registry := newTestRegistry(t)
	entry := approvedEntry(t, registry, 1)

	err := registry.Register(context.Background(), testPoolID(1), []core.HookEntry{entry})
	if !errors.Is(err, core.ErrGovernanceRequired) {
		t.Fatalf("expected ErrGovernanceRequired without sender, got %v", err)
	}
}

func TestPermissionedRegistryDeniesStranger(t *testing.T) {
	registry := newTestRegistry(t)
	entry := approvedEntry(t, registry, 1)

	ctx := WithSender(context.Background(), strangerAddress)
	err := registry.Register(ctx, testPoolID(1), []core.HookEntry{entry})
	if !errors.Is(err, core.ErrGovernanceRequired) {
		t.Fatalf("expected ErrGovernanceRequired, got %v", err)
	}
}

func TestPermissionedRegistryRejectsUnapprovedHook(t *testing.T) {
	registry := newTestRegistry(t)

	unapproved := core.HookEntry{
		Address:     namedAddress(0x77),
		Hook:        noopHook{},
		Permissions: core.HookPermissions{BeforeSwap: true},
	}
	if err := registry.Register(ownerContext(), testPoolID(1), []core.HookEntry{unapproved}); err == nil {
		t.Fatal("expected unapproved hook to be rejected")
	}
}

func TestPermissionedRegistryAddAndRemoveHook(t *testing.T) {
	registry := newTestRegistry(t)
	poolID := testPoolID(2)

	first := approvedEntry(t, registry, 1)
	second := approvedEntry(t, registry, 2)

	if err := registry.Register(ownerContext(), poolID, []core.HookEntry{first}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if err := registry.AddHook(ownerContext(), poolID, second); err != nil {
		t.Fatalf("AddHook returned error: %v", err)
	}

	listed := registry.ListFor(poolID)
	if len(listed) != 2 || listed[1].Address != second.Address {
		t.Fatalf("expected appended hook at tail, got %+v", listed)
	}

	if err := registry.AddHook(ownerContext(), poolID, second); err == nil {
		t.Fatal("expected duplicate AddHook to be rejected")
	}

	if err := registry.RemoveHook(ownerContext(), poolID, first.Address); err != nil {
		t.Fatalf("RemoveHook returned error: %v", err)
	}
	listed = registry.ListFor(poolID)
	if len(listed) != 1 || listed[0].Address != second.Address {
		t.Fatalf("expected only the second hook to survive, got %+v", listed)
	}

	if err := registry.RemoveHook(ownerContext(), poolID, second.Address); err == nil {
		t.Fatal("expected removal of the last hook to be rejected")
	}
}

func TestPermissionedRegistryRevocationBlocksFutureWrites(t *testing.T) {
	registry := newTestRegistry(t)
	poolID := testPoolID(3)

	entry := approvedEntry(t, registry, 1)
	if err := registry.Register(ownerContext(), poolID, []core.HookEntry{entry}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if err := registry.RevokeHook(ownerContext(), entry.Address); err != nil {
		t.Fatalf("RevokeHook returned error: %v", err)
	}
	// Existing registration survives revocation.
	if len(registry.ListFor(poolID)) != 1 {
		t.Fatal("revocation must not unwind existing registrations")
	}
	// But a fresh registration with the revoked hook is rejected.
	if err := registry.Register(ownerContext(), testPoolID(4), []core.HookEntry{entry}); err == nil {
		t.Fatal("expected revoked hook to be rejected on new registration")
	}
}

func TestPermissionedRegistryPersistsThroughStore(t *testing.T) {
	registry := newTestRegistry(t)
	store := &recordingHookSetStore{}
	registry.WithStore(store)
	poolID := testPoolID(5)

	entry := approvedEntry(t, registry, 1)
	if err := registry.Register(ownerContext(), poolID, []core.HookEntry{entry}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	saved, ok := store.last(poolID)
	if !ok {
		t.Fatal("expected persisted hook set")
	}
	if len(saved.Hooks) != 1 || saved.Hooks[0].Address != entry.Address {
		t.Fatalf("unexpected persisted set: %+v", saved.Hooks)
	}
}

func TestPermissionedRegistryRollsBackOnStoreFailure(t *testing.T) {
	registry := newTestRegistry(t)
	store := &recordingHookSetStore{saveErr: errors.New("db down")}
	registry.WithStore(store)
	poolID := testPoolID(6)

	entry := approvedEntry(t, registry, 1)
	if err := registry.Register(ownerContext(), poolID, []core.HookEntry{entry}); err == nil {
		t.Fatal("expected store failure to propagate")
	}
	if registry.Registered(poolID) {
		t.Fatal("failed persistence must roll the registration back")
	}
}

type noopHook struct{}

func (noopHook) BeforeInitialize(context.Context, core.InitializeEvent) (core.Ack, error) {
	return core.AckBeforeInitialize, nil
}

func (noopHook) AfterInitialize(context.Context, core.InitializeEvent) (core.Ack, error) {
	return core.AckAfterInitialize, nil
}

func (noopHook) BeforeAddLiquidity(context.Context, core.LiquidityEvent) (core.Ack, error) {
	return core.AckBeforeAddLiquidity, nil
}

func (noopHook) AfterAddLiquidity(context.Context, core.LiquidityEvent) (core.LiquidityResult, error) {
	return core.LiquidityResult{Ack: core.AckAfterAddLiquidity, Delta: core.ZeroBalanceDelta()}, nil
}

func (noopHook) BeforeRemoveLiquidity(context.Context, core.LiquidityEvent) (core.Ack, error) {
	return core.AckBeforeRemoveLiquidity, nil
}

func (noopHook) AfterRemoveLiquidity(context.Context, core.LiquidityEvent) (core.LiquidityResult, error) {
	return core.LiquidityResult{Ack: core.AckAfterRemoveLiquidity, Delta: core.ZeroBalanceDelta()}, nil
}

func (noopHook) BeforeSwap(context.Context, core.SwapEvent) (core.BeforeSwapResult, error) {
	return core.BeforeSwapResult{
		Ack:         core.AckBeforeSwap,
		Delta:       core.ZeroBalanceDelta(),
		FeeOverride: core.FeeOverrideNone,
	}, nil
}

func (noopHook) AfterSwap(context.Context, core.SwapEvent) (core.AfterSwapResult, error) {
	return core.AfterSwapResult{Ack: core.AckAfterSwap}, nil
}

func (noopHook) BeforeDonate(context.Context, core.DonateEvent) (core.Ack, error) {
	return core.AckBeforeDonate, nil
}

func (noopHook) AfterDonate(context.Context, core.DonateEvent) (core.Ack, error) {
	return core.AckAfterDonate, nil
}

type recordingHookSetStore struct {
	mu      sync.Mutex
	sets    map[core.PoolID]core.HookSet
	saveErr error
}

func (s *recordingHookSetStore) Save(_ context.Context, set core.HookSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	if s.sets == nil {
		s.sets = map[core.PoolID]core.HookSet{}
	}
	s.sets[set.PoolID] = set
	return nil
}

func (s *recordingHookSetStore) Get(_ context.Context, poolID core.PoolID) (core.HookSet, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[poolID]
	return set, ok, nil
}

func (s *recordingHookSetStore) last(poolID core.PoolID) (core.HookSet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[poolID]
	return set, ok
}
