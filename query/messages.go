package query

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Najnomics/multihook-adapter/core"
)

const (
	TypeGetHookSet      = "multihook.query.hooks.get"
	TypeGetFeeConfig    = "multihook.query.fees.get_config"
	TypeCalculateFee    = "multihook.query.fees.calculate"
	TypeGetHookApproval = "multihook.query.hooks.approval"
)

type GetHookSetMessage struct {
	PoolID core.PoolID
}

func (GetHookSetMessage) Type() string { return TypeGetHookSet }

func (m GetHookSetMessage) Validate() error {
	if m.PoolID.IsZero() {
		return fmt.Errorf("query: pool id is required")
	}
	return nil
}

type GetHookApprovalMessage struct {
	Address common.Address
}

func (GetHookApprovalMessage) Type() string { return TypeGetHookApproval }

func (m GetHookApprovalMessage) Validate() error {
	if m.Address == (common.Address{}) {
		return core.ErrHookAddressZero
	}
	return nil
}

type GetFeeConfigMessage struct {
	PoolID core.PoolID
}

func (GetFeeConfigMessage) Type() string { return TypeGetFeeConfig }

func (m GetFeeConfigMessage) Validate() error {
	if m.PoolID.IsZero() {
		return fmt.Errorf("query: pool id is required")
	}
	return nil
}

type CalculateFeeMessage struct {
	PoolID     core.PoolID
	Candidates []core.WeightedFee
}

func (CalculateFeeMessage) Type() string { return TypeCalculateFee }

func (m CalculateFeeMessage) Validate() error {
	if m.PoolID.IsZero() {
		return fmt.Errorf("query: pool id is required")
	}
	return nil
}
