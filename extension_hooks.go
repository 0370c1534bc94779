package multihook

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// HookPack is a named bundle of hook entries a host assembly registers once
// and applies to many pools in one call.
type HookPack struct {
	Name    string
	Entries []HookEntry
}

// HookRegistrar is the registration surface a pack is applied through. The
// core adapter satisfies it.
type HookRegistrar interface {
	RegisterHooks(ctx context.Context, key PoolKey, entries []HookEntry) (PoolID, error)
}

type CommandQueryBundleFactory func(service CommandQueryService) (any, error)

type ExtensionHooks struct {
	mu sync.RWMutex

	hookPacks map[string]HookPack
	bundles   map[string]CommandQueryBundleFactory
}

func NewExtensionHooks() *ExtensionHooks {
	return &ExtensionHooks{
		hookPacks: map[string]HookPack{},
		bundles:   map[string]CommandQueryBundleFactory{},
	}
}

func (h *ExtensionHooks) RegisterHookPack(pack HookPack) error {
	if h == nil {
		return fmt.Errorf("multihook: extension hooks are nil")
	}
	name := strings.TrimSpace(pack.Name)
	if name == "" {
		return fmt.Errorf("multihook: hook pack name is required")
	}
	if len(pack.Entries) == 0 {
		return fmt.Errorf("multihook: hook pack %q has no entries", name)
	}
	for _, entry := range pack.Entries {
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("multihook: hook pack %q entry %s: %w", name, entry.Address.Hex(), err)
		}
	}

	normalized := HookPack{
		Name:    name,
		Entries: append([]HookEntry(nil), pack.Entries...),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.hookPacks[name]; exists {
		return fmt.Errorf("multihook: hook pack %q already registered", name)
	}
	h.hookPacks[name] = normalized
	return nil
}

func (h *ExtensionHooks) RegisterCommandQueryBundle(
	name string,
	factory CommandQueryBundleFactory,
) error {
	if h == nil {
		return fmt.Errorf("multihook: extension hooks are nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("multihook: command/query bundle name is required")
	}
	if factory == nil {
		return fmt.Errorf("multihook: command/query bundle %q factory is required", name)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.bundles[name]; exists {
		return fmt.Errorf("multihook: command/query bundle %q already registered", name)
	}
	h.bundles[name] = factory
	return nil
}

// ApplyHookPack registers the named pack's entries against every pool key.
// Registration is per pool and stops at the first failure; pools registered
// before the failure stay registered.
func (h *ExtensionHooks) ApplyHookPack(
	ctx context.Context,
	registrar HookRegistrar,
	name string,
	keys ...PoolKey,
) ([]PoolID, error) {
	if h == nil {
		return nil, fmt.Errorf("multihook: extension hooks are nil")
	}
	if registrar == nil {
		return nil, fmt.Errorf("multihook: hook registrar is required")
	}
	name = strings.TrimSpace(name)

	h.mu.RLock()
	pack, exists := h.hookPacks[name]
	h.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("multihook: hook pack %q is not registered", name)
	}

	poolIDs := make([]PoolID, 0, len(keys))
	for _, key := range keys {
		poolID, err := registrar.RegisterHooks(ctx, key, append([]HookEntry(nil), pack.Entries...))
		if err != nil {
			return poolIDs, err
		}
		poolIDs = append(poolIDs, poolID)
	}
	return poolIDs, nil
}

func (h *ExtensionHooks) BuildCommandQueryBundles(
	service CommandQueryService,
) (map[string]any, error) {
	if h == nil {
		return map[string]any{}, nil
	}
	if service == nil {
		return nil, fmt.Errorf("multihook: command/query service is required")
	}

	h.mu.RLock()
	names := make([]string, 0, len(h.bundles))
	for name := range h.bundles {
		names = append(names, name)
	}
	sort.Strings(names)
	factories := make(map[string]CommandQueryBundleFactory, len(h.bundles))
	for name, factory := range h.bundles {
		factories[name] = factory
	}
	h.mu.RUnlock()

	result := make(map[string]any, len(names))
	for _, name := range names {
		bundle, err := factories[name](service)
		if err != nil {
			return nil, err
		}
		result[name] = bundle
	}
	return result, nil
}

func (h *ExtensionHooks) HookPacks() []HookPack {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.hookPacks))
	for name := range h.hookPacks {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]HookPack, 0, len(names))
	for _, name := range names {
		pack := h.hookPacks[name]
		out = append(out, HookPack{
			Name:    pack.Name,
			Entries: append([]HookEntry(nil), pack.Entries...),
		})
	}
	return out
}

func (h *ExtensionHooks) PackEntries(name string) []HookEntry {
	if h == nil {
		return nil
	}
	name = strings.TrimSpace(name)
	h.mu.RLock()
	defer h.mu.RUnlock()
	pack, exists := h.hookPacks[name]
	if !exists {
		return nil
	}
	return append([]HookEntry(nil), pack.Entries...)
}

func (h *ExtensionHooks) BundleNames() []string {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.bundles))
	for name := range h.bundles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
