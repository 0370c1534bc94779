package query

import (
	gocmd "github.com/goliatone/go-command"

	"github.com/Najnomics/multihook-adapter/core"
)

var (
	_ gocmd.Querier[GetHookSetMessage, core.HookSet]     = (*GetHookSetQuery)(nil)
	_ gocmd.Querier[GetFeeConfigMessage, core.FeeConfig] = (*GetFeeConfigQuery)(nil)
	_ gocmd.Querier[CalculateFeeMessage, uint32]         = (*CalculateFeeQuery)(nil)
	_ gocmd.Querier[GetHookApprovalMessage, bool]        = (*GetHookApprovalQuery)(nil)
)
