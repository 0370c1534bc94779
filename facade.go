package multihook

import (
	"fmt"

	adaptercommand "github.com/Najnomics/multihook-adapter/command"
	"github.com/Najnomics/multihook-adapter/core"
	adapterquery "github.com/Najnomics/multihook-adapter/query"
)

// CommandQueryService is the surface the facade binds commands and queries
// to. The core adapter satisfies it.
type CommandQueryService interface {
	adaptercommand.RegistrationService
	adapterquery.HookSetReader
	adapterquery.FeeConfigReader
}

type Commands struct {
	RegisterHooks              *adaptercommand.RegisterHooksCommand
	RegisterHooksWithFeeMethod *adaptercommand.RegisterHooksWithFeeMethodCommand
	RegisterHooksWithFeeConfig *adaptercommand.RegisterHooksWithFeeConfigCommand

	// Governance commands are nil unless the facade is built with
	// WithGovernanceService / WithFeeAdmin.
	ApproveHook      *adaptercommand.ApproveHookCommand
	RevokeHook       *adaptercommand.RevokeHookCommand
	AddHook          *adaptercommand.AddHookCommand
	RemoveHook       *adaptercommand.RemoveHookCommand
	SetFeeMethod     *adaptercommand.SetFeeMethodCommand
	SetPoolFee       *adaptercommand.SetPoolFeeCommand
	SetGovernanceFee *adaptercommand.SetGovernanceFeeCommand
}

type Queries struct {
	GetHookSet   *adapterquery.GetHookSetQuery
	GetFeeConfig *adapterquery.GetFeeConfigQuery
	CalculateFee *adapterquery.CalculateFeeQuery

	// GetHookApproval is nil unless a governance service with an approval
	// allowlist backs the facade.
	GetHookApproval *adapterquery.GetHookApprovalQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	governance adaptercommand.GovernanceService
	feeAdmin   adaptercommand.FeeAdminMutator
	approvals  adapterquery.ApprovalReader
}

func WithGovernanceService(service adaptercommand.GovernanceService) FacadeOption {
	return func(options *facadeOptions) {
		options.governance = service
	}
}

func WithFeeAdmin(admin adaptercommand.FeeAdminMutator) FacadeOption {
	return func(options *facadeOptions) {
		options.feeAdmin = admin
	}
}

func WithApprovalReader(reader adapterquery.ApprovalReader) FacadeOption {
	return func(options *facadeOptions) {
		options.approvals = reader
	}
}

func NewFacade(service CommandQueryService, opts ...FacadeOption) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("multihook: command/query service is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.approvals == nil {
		cfg.approvals = resolveApprovalReader(cfg.governance)
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		RegisterHooks:              adaptercommand.NewRegisterHooksCommand(service),
		RegisterHooksWithFeeMethod: adaptercommand.NewRegisterHooksWithFeeMethodCommand(service),
		RegisterHooksWithFeeConfig: adaptercommand.NewRegisterHooksWithFeeConfigCommand(service),
	}
	if cfg.governance != nil {
		facade.commands.ApproveHook = adaptercommand.NewApproveHookCommand(cfg.governance)
		facade.commands.RevokeHook = adaptercommand.NewRevokeHookCommand(cfg.governance)
		facade.commands.AddHook = adaptercommand.NewAddHookCommand(cfg.governance)
		facade.commands.RemoveHook = adaptercommand.NewRemoveHookCommand(cfg.governance)
	}
	if cfg.feeAdmin != nil {
		facade.commands.SetFeeMethod = adaptercommand.NewSetFeeMethodCommand(cfg.feeAdmin)
		facade.commands.SetPoolFee = adaptercommand.NewSetPoolFeeCommand(cfg.feeAdmin)
		facade.commands.SetGovernanceFee = adaptercommand.NewSetGovernanceFeeCommand(cfg.feeAdmin)
	}

	facade.queries = Queries{
		GetHookSet:   adapterquery.NewGetHookSetQuery(service),
		GetFeeConfig: adapterquery.NewGetFeeConfigQuery(service),
		CalculateFee: adapterquery.NewCalculateFeeQuery(service),
	}
	if cfg.approvals != nil {
		facade.queries.GetHookApproval = adapterquery.NewGetHookApprovalQuery(cfg.approvals)
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

func resolveApprovalReader(governance adaptercommand.GovernanceService) adapterquery.ApprovalReader {
	if governance == nil {
		return nil
	}
	reader, ok := governance.(adapterquery.ApprovalReader)
	if !ok {
		return nil
	}
	return reader
}

var _ CommandQueryService = (*core.Adapter)(nil)
