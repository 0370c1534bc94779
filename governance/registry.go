package governance

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Najnomics/multihook-adapter/core"
)

type senderContextKey struct{}

// WithSender binds the acting sender to the context. Governed operations
// read it back for authorization; an absent sender is denied.
func WithSender(ctx context.Context, sender common.Address) context.Context {
	return context.WithValue(ctx, senderContextKey{}, sender)
}

func SenderFromContext(ctx context.Context) (common.Address, bool) {
	sender, ok := ctx.Value(senderContextKey{}).(common.Address)
	if !ok || sender == (common.Address{}) {
		return common.Address{}, false
	}
	return sender, true
}

// PermissionedHookSetRegistry is the governed registry variant. Unlike the
// immutable base registry it supports re-registration and incremental hook
// mutation, every write gated by the access controller and restricted to an
// approved-hook allowlist.
type PermissionedHookSetRegistry struct {
	mu       sync.RWMutex
	sets     map[core.PoolID][]core.HookEntry
	approved map[common.Address]struct{}
	access   AccessController
	store    core.HookSetStore
}

func NewPermissionedHookSetRegistry(access AccessController) (*PermissionedHookSetRegistry, error) {
	if access == nil {
		return nil, fmt.Errorf("governance: access controller is required")
	}
	return &PermissionedHookSetRegistry{
		sets:     make(map[core.PoolID][]core.HookEntry),
		approved: make(map[common.Address]struct{}),
		access:   access,
	}, nil
}

// WithStore attaches a write-through persistence layer. Returns the
// registry for chaining during construction.
func (r *PermissionedHookSetRegistry) WithStore(store core.HookSetStore) *PermissionedHookSetRegistry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store = store
	return r
}

// ApproveHook adds a hook address to the allowlist. Registration and
// incremental additions only accept approved addresses.
func (r *PermissionedHookSetRegistry) ApproveHook(ctx context.Context, address common.Address) error {
	if err := r.authorize(ctx, ActionApproveHook); err != nil {
		return err
	}
	if address == (common.Address{}) {
		return core.ErrHookAddressZero
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.approved[address] = struct{}{}
	return nil
}

// RevokeHook removes an address from the allowlist. Already registered hook
// sets keep their entries; revocation only blocks future writes.
func (r *PermissionedHookSetRegistry) RevokeHook(ctx context.Context, address common.Address) error {
	if err := r.authorize(ctx, ActionRevokeHook); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.approved, address)
	return nil
}

func (r *PermissionedHookSetRegistry) Approved(address common.Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.approved[address]
	return ok
}

// Register installs or replaces the pool's hook list. The governed variant
// deliberately permits re-registration; callers relying on at-most-once
// semantics should use the base registry instead.
func (r *PermissionedHookSetRegistry) Register(ctx context.Context, poolID core.PoolID, entries []core.HookEntry) error {
	if err := r.authorize(ctx, ActionRegisterHooks); err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("governance: at least one hook entry is required")
	}
	for idx, entry := range entries {
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("governance: hook entry %d: %w", idx, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for idx, entry := range entries {
		if _, ok := r.approved[entry.Address]; !ok {
			return fmt.Errorf("governance: hook entry %d: %s is not approved", idx, entry.Address.Hex())
		}
	}
	previous, hadPrevious := r.sets[poolID]
	snapshot := make([]core.HookEntry, len(entries))
	copy(snapshot, entries)
	r.sets[poolID] = snapshot

	if r.store != nil {
		if err := r.store.Save(ctx, hookSetSnapshot(poolID, snapshot)); err != nil {
			if hadPrevious {
				r.sets[poolID] = previous
			} else {
				delete(r.sets, poolID)
			}
			return fmt.Errorf("governance: persist hook set: %w", err)
		}
	}
	return nil
}

func (r *PermissionedHookSetRegistry) ListFor(poolID core.PoolID) []core.HookEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries, ok := r.sets[poolID]
	if !ok {
		return nil
	}
	out := make([]core.HookEntry, len(entries))
	copy(out, entries)
	return out
}

func (r *PermissionedHookSetRegistry) Registered(poolID core.PoolID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sets[poolID]
	return ok
}

// AddHook appends an approved hook to an existing pool's list. Position is
// always the tail; reordering requires a full re-registration.
func (r *PermissionedHookSetRegistry) AddHook(ctx context.Context, poolID core.PoolID, entry core.HookEntry) error {
	if err := r.authorize(ctx, ActionAddHook); err != nil {
		return err
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.approved[entry.Address]; !ok {
		return fmt.Errorf("governance: %s is not approved", entry.Address.Hex())
	}
	existing, ok := r.sets[poolID]
	if !ok {
		return fmt.Errorf("governance: pool %s has no hook set", poolID)
	}
	for _, current := range existing {
		if current.Address == entry.Address {
			return fmt.Errorf("governance: %s is already registered for pool %s", entry.Address.Hex(), poolID)
		}
	}
	next := make([]core.HookEntry, len(existing), len(existing)+1)
	copy(next, existing)
	next = append(next, entry)

	if r.store != nil {
		if err := r.store.Save(ctx, hookSetSnapshot(poolID, next)); err != nil {
			return fmt.Errorf("governance: persist hook set: %w", err)
		}
	}
	r.sets[poolID] = next
	return nil
}

// RemoveHook deletes one hook from the pool's list, preserving the relative
// order of the remaining entries.
func (r *PermissionedHookSetRegistry) RemoveHook(ctx context.Context, poolID core.PoolID, address common.Address) error {
	if err := r.authorize(ctx, ActionRemoveHook); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.sets[poolID]
	if !ok {
		return fmt.Errorf("governance: pool %s has no hook set", poolID)
	}
	next := make([]core.HookEntry, 0, len(existing))
	found := false
	for _, current := range existing {
		if current.Address == address {
			found = true
			continue
		}
		next = append(next, current)
	}
	if !found {
		return fmt.Errorf("governance: %s is not registered for pool %s", address.Hex(), poolID)
	}
	if len(next) == 0 {
		return fmt.Errorf("governance: removing %s would leave pool %s without hooks", address.Hex(), poolID)
	}

	if r.store != nil {
		if err := r.store.Save(ctx, hookSetSnapshot(poolID, next)); err != nil {
			return fmt.Errorf("governance: persist hook set: %w", err)
		}
	}
	r.sets[poolID] = next
	return nil
}

func (r *PermissionedHookSetRegistry) authorize(ctx context.Context, action Action) error {
	sender, ok := SenderFromContext(ctx)
	if !ok {
		return fmt.Errorf("%w: no sender bound to context", core.ErrGovernanceRequired)
	}
	return r.access.Authorize(ctx, sender, action)
}

func hookSetSnapshot(poolID core.PoolID, entries []core.HookEntry) core.HookSet {
	hooks := make([]core.RegisteredHook, len(entries))
	for idx, entry := range entries {
		hooks[idx] = core.RegisteredHook{
			Position:    idx,
			Address:     entry.Address,
			Permissions: entry.Permissions,
		}
	}
	return core.HookSet{PoolID: poolID, Hooks: hooks}
}
