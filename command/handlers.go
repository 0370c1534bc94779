package command

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	gocmd "github.com/goliatone/go-command"

	"github.com/Najnomics/multihook-adapter/core"
)

// RegistrationService is the mutating surface for hook registration,
// implemented by the core adapter.
type RegistrationService interface {
	RegisterHooks(ctx context.Context, key core.PoolKey, entries []core.HookEntry) (core.PoolID, error)
	RegisterHooksWithFeeMethod(ctx context.Context, key core.PoolKey, entries []core.HookEntry, method core.FeeCalculationMethod) (core.PoolID, error)
	RegisterHooksWithFeeConfig(ctx context.Context, key core.PoolKey, entries []core.HookEntry, method core.FeeCalculationMethod, poolFee uint32) (core.PoolID, error)
}

// GovernanceService is the mutating surface for governed hook and fee
// administration.
type GovernanceService interface {
	ApproveHook(ctx context.Context, address common.Address) error
	RevokeHook(ctx context.Context, address common.Address) error
	AddHook(ctx context.Context, poolID core.PoolID, entry core.HookEntry) error
	RemoveHook(ctx context.Context, poolID core.PoolID, address common.Address) error
}

// FeeAdminMutator is the mutating surface for governed fee configuration.
type FeeAdminMutator interface {
	SetMethod(ctx context.Context, poolID core.PoolID, method core.FeeCalculationMethod) error
	SetPoolFee(ctx context.Context, poolID core.PoolID, fee uint32) error
	SetGovernanceFee(ctx context.Context, poolID core.PoolID, fee uint32) error
}

type RegisterHooksCommand struct {
	service RegistrationService
}

func NewRegisterHooksCommand(service RegistrationService) *RegisterHooksCommand {
	return &RegisterHooksCommand{service: service}
}

func (c *RegisterHooksCommand) Execute(ctx context.Context, msg RegisterHooksMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: registration service is required")
	}
	poolID, err := c.service.RegisterHooks(ctx, msg.Key, msg.Entries)
	if err != nil {
		return err
	}
	storeResult(ctx, poolID)
	return nil
}

type RegisterHooksWithFeeMethodCommand struct {
	service RegistrationService
}

func NewRegisterHooksWithFeeMethodCommand(service RegistrationService) *RegisterHooksWithFeeMethodCommand {
	return &RegisterHooksWithFeeMethodCommand{service: service}
}

func (c *RegisterHooksWithFeeMethodCommand) Execute(ctx context.Context, msg RegisterHooksWithFeeMethodMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: registration service is required")
	}
	poolID, err := c.service.RegisterHooksWithFeeMethod(ctx, msg.Key, msg.Entries, msg.Method)
	if err != nil {
		return err
	}
	storeResult(ctx, poolID)
	return nil
}

type RegisterHooksWithFeeConfigCommand struct {
	service RegistrationService
}

func NewRegisterHooksWithFeeConfigCommand(service RegistrationService) *RegisterHooksWithFeeConfigCommand {
	return &RegisterHooksWithFeeConfigCommand{service: service}
}

func (c *RegisterHooksWithFeeConfigCommand) Execute(ctx context.Context, msg RegisterHooksWithFeeConfigMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: registration service is required")
	}
	poolID, err := c.service.RegisterHooksWithFeeConfig(ctx, msg.Key, msg.Entries, msg.Method, msg.PoolFee)
	if err != nil {
		return err
	}
	storeResult(ctx, poolID)
	return nil
}

type ApproveHookCommand struct {
	service GovernanceService
}

func NewApproveHookCommand(service GovernanceService) *ApproveHookCommand {
	return &ApproveHookCommand{service: service}
}

func (c *ApproveHookCommand) Execute(ctx context.Context, msg ApproveHookMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: governance service is required")
	}
	return c.service.ApproveHook(ctx, msg.Address)
}

type RevokeHookCommand struct {
	service GovernanceService
}

func NewRevokeHookCommand(service GovernanceService) *RevokeHookCommand {
	return &RevokeHookCommand{service: service}
}

func (c *RevokeHookCommand) Execute(ctx context.Context, msg RevokeHookMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: governance service is required")
	}
	return c.service.RevokeHook(ctx, msg.Address)
}

type AddHookCommand struct {
	service GovernanceService
}

func NewAddHookCommand(service GovernanceService) *AddHookCommand {
	return &AddHookCommand{service: service}
}

func (c *AddHookCommand) Execute(ctx context.Context, msg AddHookMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: governance service is required")
	}
	return c.service.AddHook(ctx, msg.PoolID, msg.Entry)
}

type RemoveHookCommand struct {
	service GovernanceService
}

func NewRemoveHookCommand(service GovernanceService) *RemoveHookCommand {
	return &RemoveHookCommand{service: service}
}

func (c *RemoveHookCommand) Execute(ctx context.Context, msg RemoveHookMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: governance service is required")
	}
	return c.service.RemoveHook(ctx, msg.PoolID, msg.Address)
}

type SetFeeMethodCommand struct {
	service FeeAdminMutator
}

func NewSetFeeMethodCommand(service FeeAdminMutator) *SetFeeMethodCommand {
	return &SetFeeMethodCommand{service: service}
}

func (c *SetFeeMethodCommand) Execute(ctx context.Context, msg SetFeeMethodMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: fee admin service is required")
	}
	return c.service.SetMethod(ctx, msg.PoolID, msg.Method)
}

type SetPoolFeeCommand struct {
	service FeeAdminMutator
}

func NewSetPoolFeeCommand(service FeeAdminMutator) *SetPoolFeeCommand {
	return &SetPoolFeeCommand{service: service}
}

func (c *SetPoolFeeCommand) Execute(ctx context.Context, msg SetPoolFeeMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: fee admin service is required")
	}
	return c.service.SetPoolFee(ctx, msg.PoolID, msg.Fee)
}

type SetGovernanceFeeCommand struct {
	service FeeAdminMutator
}

func NewSetGovernanceFeeCommand(service FeeAdminMutator) *SetGovernanceFeeCommand {
	return &SetGovernanceFeeCommand{service: service}
}

func (c *SetGovernanceFeeCommand) Execute(ctx context.Context, msg SetGovernanceFeeMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: fee admin service is required")
	}
	return c.service.SetGovernanceFee(ctx, msg.PoolID, msg.Fee)
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
