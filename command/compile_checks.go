package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[RegisterHooksMessage]              = (*RegisterHooksCommand)(nil)
	_ gocmd.Commander[RegisterHooksWithFeeMethodMessage] = (*RegisterHooksWithFeeMethodCommand)(nil)
	_ gocmd.Commander[RegisterHooksWithFeeConfigMessage] = (*RegisterHooksWithFeeConfigCommand)(nil)
	_ gocmd.Commander[ApproveHookMessage]                = (*ApproveHookCommand)(nil)
	_ gocmd.Commander[RevokeHookMessage]                 = (*RevokeHookCommand)(nil)
	_ gocmd.Commander[AddHookMessage]                    = (*AddHookCommand)(nil)
	_ gocmd.Commander[RemoveHookMessage]                 = (*RemoveHookCommand)(nil)
	_ gocmd.Commander[SetFeeMethodMessage]               = (*SetFeeMethodCommand)(nil)
	_ gocmd.Commander[SetPoolFeeMessage]                 = (*SetPoolFeeCommand)(nil)
	_ gocmd.Commander[SetGovernanceFeeMessage]           = (*SetGovernanceFeeCommand)(nil)
)
