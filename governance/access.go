package governance

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Najnomics/multihook-adapter/core"
)

// Action names one governed operation for access checks.
type Action string

const (
	ActionRegisterHooks     Action = "register_hooks"
	ActionReplaceHooks      Action = "replace_hooks"
	ActionAddHook           Action = "add_hook"
	ActionRemoveHook        Action = "remove_hook"
	ActionApproveHook       Action = "approve_hook"
	ActionRevokeHook        Action = "revoke_hook"
	ActionSetFeeMethod      Action = "set_fee_method"
	ActionSetPoolFee        Action = "set_pool_fee"
	ActionSetGovernanceFee  Action = "set_governance_fee"
	ActionClearPoolOverride Action = "clear_pool_override"
)

// AccessController decides whether a sender may perform a governed action.
// Implementations return core.ErrGovernanceRequired (possibly wrapped) to
// deny; any other error fails the operation outright.
type AccessController interface {
	Authorize(ctx context.Context, sender common.Address, action Action) error
}

// StaticAccessController authorizes a fixed owner plus an optional set of
// delegated admins. The zero value denies everyone.
type StaticAccessController struct {
	mu     sync.RWMutex
	owner  common.Address
	admins map[common.Address]struct{}
}

func NewStaticAccessController(owner common.Address, admins ...common.Address) (*StaticAccessController, error) {
	if owner == (common.Address{}) {
		return nil, fmt.Errorf("governance: owner address is required")
	}
	controller := &StaticAccessController{
		owner:  owner,
		admins: make(map[common.Address]struct{}, len(admins)),
	}
	for _, admin := range admins {
		if admin == (common.Address{}) {
			return nil, fmt.Errorf("governance: admin address must not be zero")
		}
		controller.admins[admin] = struct{}{}
	}
	return controller, nil
}

func (c *StaticAccessController) Authorize(_ context.Context, sender common.Address, action Action) error {
	if c == nil {
		return fmt.Errorf("%w: no access controller configured", core.ErrGovernanceRequired)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if sender == c.owner {
		return nil
	}
	if _, ok := c.admins[sender]; ok {
		return nil
	}
	return fmt.Errorf("%w: %s is not authorized for %s", core.ErrGovernanceRequired, sender.Hex(), action)
}

// GrantAdmin adds a delegated admin. Only meaningful on a live controller;
// ownership itself never changes.
func (c *StaticAccessController) GrantAdmin(admin common.Address) error {
	if admin == (common.Address{}) {
		return fmt.Errorf("governance: admin address must not be zero")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.admins == nil {
		c.admins = make(map[common.Address]struct{})
	}
	c.admins[admin] = struct{}{}
	return nil
}

func (c *StaticAccessController) RevokeAdmin(admin common.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.admins, admin)
}
