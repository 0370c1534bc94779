package query

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Najnomics/multihook-adapter/core"
)

type HookSetReader interface {
	GetHookSet(ctx context.Context, poolID core.PoolID) (core.HookSet, bool, error)
}

type FeeConfigReader interface {
	FeeConfigFor(ctx context.Context, poolID core.PoolID) (core.FeeConfig, error)
}

type ApprovalReader interface {
	Approved(address common.Address) bool
}

type GetHookSetQuery struct {
	reader HookSetReader
}

func NewGetHookSetQuery(reader HookSetReader) *GetHookSetQuery {
	return &GetHookSetQuery{reader: reader}
}

func (q *GetHookSetQuery) Query(ctx context.Context, msg GetHookSetMessage) (core.HookSet, error) {
	if q == nil || q.reader == nil {
		return core.HookSet{}, queryDependencyError("query: hook set reader is required")
	}
	set, ok, err := q.reader.GetHookSet(ctx, msg.PoolID)
	if err != nil {
		return core.HookSet{}, err
	}
	if !ok {
		return core.HookSet{}, queryNotFoundError("query: no hook set for pool " + msg.PoolID.String())
	}
	return set, nil
}

type GetFeeConfigQuery struct {
	reader FeeConfigReader
}

func NewGetFeeConfigQuery(reader FeeConfigReader) *GetFeeConfigQuery {
	return &GetFeeConfigQuery{reader: reader}
}

func (q *GetFeeConfigQuery) Query(ctx context.Context, msg GetFeeConfigMessage) (core.FeeConfig, error) {
	if q == nil || q.reader == nil {
		return core.FeeConfig{}, queryDependencyError("query: fee config reader is required")
	}
	return q.reader.FeeConfigFor(ctx, msg.PoolID)
}

// CalculateFeeQuery resolves the pool's configuration and folds the caller's
// weighted candidates through the configured calculation method.
type CalculateFeeQuery struct {
	reader FeeConfigReader
}

func NewCalculateFeeQuery(reader FeeConfigReader) *CalculateFeeQuery {
	return &CalculateFeeQuery{reader: reader}
}

func (q *CalculateFeeQuery) Query(ctx context.Context, msg CalculateFeeMessage) (uint32, error) {
	if q == nil || q.reader == nil {
		return 0, queryDependencyError("query: fee config reader is required")
	}
	cfg, err := q.reader.FeeConfigFor(ctx, msg.PoolID)
	if err != nil {
		return 0, err
	}
	return core.CalculateFee(msg.Candidates, cfg), nil
}

type GetHookApprovalQuery struct {
	reader ApprovalReader
}

func NewGetHookApprovalQuery(reader ApprovalReader) *GetHookApprovalQuery {
	return &GetHookApprovalQuery{reader: reader}
}

func (q *GetHookApprovalQuery) Query(_ context.Context, msg GetHookApprovalMessage) (bool, error) {
	if q == nil || q.reader == nil {
		return false, queryDependencyError("query: approval reader is required")
	}
	return q.reader.Approved(msg.Address), nil
}
