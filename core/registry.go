package core

import (
	"context"
	"fmt"
	"sync"
)

// HookSetRegistry is the immutable-variant registry: each pool's ordered
// hook list is written exactly once and only ever replaced wholesale, never
// partially mutated. Lookups never fail; unregistered pools resolve to an
// empty list.
type HookSetRegistry struct {
	mu    sync.RWMutex
	sets  map[PoolID][]HookEntry
	store HookSetStore
}

func NewHookSetRegistry() *HookSetRegistry {
	return &HookSetRegistry{sets: make(map[PoolID][]HookEntry)}
}

// NewPersistentHookSetRegistry writes each accepted registration through to
// the store after the in-memory list is committed.
func NewPersistentHookSetRegistry(store HookSetStore) *HookSetRegistry {
	registry := NewHookSetRegistry()
	registry.store = store
	return registry
}

func (r *HookSetRegistry) Register(ctx context.Context, poolID PoolID, entries []HookEntry) error {
	if r == nil {
		return fmt.Errorf("core: hook set registry is nil")
	}
	if poolID.IsZero() {
		return fmt.Errorf("core: pool id is required")
	}
	// Validate every entry before touching state so a failure leaves no
	// partial registration behind.
	for idx, entry := range entries {
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("core: hook entry %d: %w", idx, err)
		}
	}

	accepted := append([]HookEntry(nil), entries...)

	r.mu.Lock()
	if _, exists := r.sets[poolID]; exists {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrPoolAlreadyRegistered, poolID)
	}
	r.sets[poolID] = accepted
	r.mu.Unlock()

	if r.store != nil {
		if err := r.store.Save(ctx, snapshotHookSet(poolID, accepted)); err != nil {
			r.mu.Lock()
			delete(r.sets, poolID)
			r.mu.Unlock()
			return fmt.Errorf("core: persist hook set: %w", err)
		}
	}
	return nil
}

func (r *HookSetRegistry) ListFor(poolID PoolID) []HookEntry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := r.sets[poolID]
	out := make([]HookEntry, len(entries))
	copy(out, entries)
	return out
}

// Registered reports whether the pool already holds a hook set.
func (r *HookSetRegistry) Registered(poolID PoolID) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sets[poolID]
	return ok
}

func snapshotHookSet(poolID PoolID, entries []HookEntry) HookSet {
	hooks := make([]RegisteredHook, 0, len(entries))
	for idx, entry := range entries {
		hooks = append(hooks, RegisteredHook{
			Position:    idx,
			Address:     entry.Address,
			Permissions: entry.Permissions,
		})
	}
	return HookSet{PoolID: poolID, Hooks: hooks}
}
