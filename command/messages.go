package command

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Najnomics/multihook-adapter/core"
)

const (
	TypeRegisterHooks              = "multihook.command.hooks.register"
	TypeRegisterHooksWithFeeMethod = "multihook.command.hooks.register_with_fee_method"
	TypeRegisterHooksWithFeeConfig = "multihook.command.hooks.register_with_fee_config"
	TypeApproveHook                = "multihook.command.hooks.approve"
	TypeRevokeHook                 = "multihook.command.hooks.revoke"
	TypeAddHook                    = "multihook.command.hooks.add"
	TypeRemoveHook                 = "multihook.command.hooks.remove"
	TypeSetFeeMethod               = "multihook.command.fees.set_method"
	TypeSetPoolFee                 = "multihook.command.fees.set_pool_fee"
	TypeSetGovernanceFee           = "multihook.command.fees.set_governance_fee"
)

type RegisterHooksMessage struct {
	Key     core.PoolKey
	Entries []core.HookEntry
}

func (RegisterHooksMessage) Type() string { return TypeRegisterHooks }

func (m RegisterHooksMessage) Validate() error {
	if err := m.Key.Validate(); err != nil {
		return err
	}
	return validateEntries(m.Entries)
}

type RegisterHooksWithFeeMethodMessage struct {
	Key     core.PoolKey
	Entries []core.HookEntry
	Method  core.FeeCalculationMethod
}

func (RegisterHooksWithFeeMethodMessage) Type() string { return TypeRegisterHooksWithFeeMethod }

func (m RegisterHooksWithFeeMethodMessage) Validate() error {
	if err := m.Key.Validate(); err != nil {
		return err
	}
	if err := validateEntries(m.Entries); err != nil {
		return err
	}
	return validateMethod(m.Method)
}

type RegisterHooksWithFeeConfigMessage struct {
	Key     core.PoolKey
	Entries []core.HookEntry
	Method  core.FeeCalculationMethod
	PoolFee uint32
}

func (RegisterHooksWithFeeConfigMessage) Type() string { return TypeRegisterHooksWithFeeConfig }

func (m RegisterHooksWithFeeConfigMessage) Validate() error {
	if err := m.Key.Validate(); err != nil {
		return err
	}
	if err := validateEntries(m.Entries); err != nil {
		return err
	}
	if err := validateMethod(m.Method); err != nil {
		return err
	}
	if m.PoolFee > core.MaxFee {
		return fmt.Errorf("%w: pool fee %d", core.ErrFeeOutOfRange, m.PoolFee)
	}
	return nil
}

type ApproveHookMessage struct {
	Address common.Address
}

func (ApproveHookMessage) Type() string { return TypeApproveHook }

func (m ApproveHookMessage) Validate() error {
	if m.Address == (common.Address{}) {
		return core.ErrHookAddressZero
	}
	return nil
}

type RevokeHookMessage struct {
	Address common.Address
}

func (RevokeHookMessage) Type() string { return TypeRevokeHook }

func (m RevokeHookMessage) Validate() error {
	if m.Address == (common.Address{}) {
		return core.ErrHookAddressZero
	}
	return nil
}

type AddHookMessage struct {
	PoolID core.PoolID
	Entry  core.HookEntry
}

func (AddHookMessage) Type() string { return TypeAddHook }

func (m AddHookMessage) Validate() error {
	if m.PoolID.IsZero() {
		return fmt.Errorf("command: pool id is required")
	}
	return m.Entry.Validate()
}

type RemoveHookMessage struct {
	PoolID  core.PoolID
	Address common.Address
}

func (RemoveHookMessage) Type() string { return TypeRemoveHook }

func (m RemoveHookMessage) Validate() error {
	if m.PoolID.IsZero() {
		return fmt.Errorf("command: pool id is required")
	}
	if m.Address == (common.Address{}) {
		return core.ErrHookAddressZero
	}
	return nil
}

type SetFeeMethodMessage struct {
	PoolID core.PoolID
	Method core.FeeCalculationMethod
}

func (SetFeeMethodMessage) Type() string { return TypeSetFeeMethod }

func (m SetFeeMethodMessage) Validate() error {
	if m.PoolID.IsZero() {
		return fmt.Errorf("command: pool id is required")
	}
	return validateMethod(m.Method)
}

type SetPoolFeeMessage struct {
	PoolID core.PoolID
	Fee    uint32
}

func (SetPoolFeeMessage) Type() string { return TypeSetPoolFee }

func (m SetPoolFeeMessage) Validate() error {
	if m.PoolID.IsZero() {
		return fmt.Errorf("command: pool id is required")
	}
	if m.Fee > core.MaxFee {
		return fmt.Errorf("%w: pool fee %d", core.ErrFeeOutOfRange, m.Fee)
	}
	return nil
}

type SetGovernanceFeeMessage struct {
	PoolID core.PoolID
	Fee    uint32
}

func (SetGovernanceFeeMessage) Type() string { return TypeSetGovernanceFee }

func (m SetGovernanceFeeMessage) Validate() error {
	if m.PoolID.IsZero() {
		return fmt.Errorf("command: pool id is required")
	}
	if m.Fee > core.MaxFee {
		return fmt.Errorf("%w: governance fee %d", core.ErrFeeOutOfRange, m.Fee)
	}
	return nil
}

func validateEntries(entries []core.HookEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("command: at least one hook entry is required")
	}
	for idx, entry := range entries {
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("command: hook entry %d: %w", idx, err)
		}
	}
	return nil
}

func validateMethod(method core.FeeCalculationMethod) error {
	if _, err := core.ParseFeeMethod(method.String()); err != nil {
		return err
	}
	return nil
}
