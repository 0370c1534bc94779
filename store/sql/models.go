package sqlstore

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/uptrace/bun"

	"github.com/Najnomics/multihook-adapter/core"
)

type hookSetRecord struct {
	bun.BaseModel `bun:"table:multihook_hook_sets,alias:mhs"`

	ID        string       `bun:"id,pk"`
	PoolID    string       `bun:"pool_id,notnull,unique"`
	Hooks     []storedHook `bun:"hooks,type:jsonb,notnull"`
	CreatedAt time.Time    `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time    `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// storedHook is the persisted projection of one registered hook. Hook
// implementations are runtime objects; only address, position, and the
// permission descriptor survive a round trip.
type storedHook struct {
	Position    int               `json:"position"`
	Address     string            `json:"address"`
	Permissions storedPermissions `json:"permissions"`
}

type storedPermissions struct {
	BeforeInitialize      bool `json:"before_initialize"`
	AfterInitialize       bool `json:"after_initialize"`
	BeforeAddLiquidity    bool `json:"before_add_liquidity"`
	AfterAddLiquidity     bool `json:"after_add_liquidity"`
	BeforeRemoveLiquidity bool `json:"before_remove_liquidity"`
	AfterRemoveLiquidity  bool `json:"after_remove_liquidity"`
	BeforeSwap            bool `json:"before_swap"`
	AfterSwap             bool `json:"after_swap"`
	BeforeDonate          bool `json:"before_donate"`
	AfterDonate           bool `json:"after_donate"`

	BeforeSwapReturnsDelta           bool `json:"before_swap_returns_delta"`
	AfterSwapReturnsDelta            bool `json:"after_swap_returns_delta"`
	AfterAddLiquidityReturnsDelta    bool `json:"after_add_liquidity_returns_delta"`
	AfterRemoveLiquidityReturnsDelta bool `json:"after_remove_liquidity_returns_delta"`
}

type feeConfigRecord struct {
	bun.BaseModel `bun:"table:multihook_fee_configs,alias:mfc"`

	ID               string    `bun:"id,pk"`
	PoolID           string    `bun:"pool_id,notnull,unique"`
	Method           string    `bun:"method,notnull"`
	PoolFee          uint32    `bun:"pool_fee,notnull"`
	PoolFeeSet       bool      `bun:"pool_fee_set,notnull"`
	GovernanceFee    uint32    `bun:"governance_fee,notnull"`
	GovernanceFeeSet bool      `bun:"governance_fee_set,notnull"`
	DefaultFee       uint32    `bun:"default_fee,notnull"`
	CreatedAt        time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt        time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func storedPermissionsFromDomain(p core.HookPermissions) storedPermissions {
	return storedPermissions{
		BeforeInitialize:      p.BeforeInitialize,
		AfterInitialize:       p.AfterInitialize,
		BeforeAddLiquidity:    p.BeforeAddLiquidity,
		AfterAddLiquidity:     p.AfterAddLiquidity,
		BeforeRemoveLiquidity: p.BeforeRemoveLiquidity,
		AfterRemoveLiquidity:  p.AfterRemoveLiquidity,
		BeforeSwap:            p.BeforeSwap,
		AfterSwap:             p.AfterSwap,
		BeforeDonate:          p.BeforeDonate,
		AfterDonate:           p.AfterDonate,

		BeforeSwapReturnsDelta:           p.BeforeSwapReturnsDelta,
		AfterSwapReturnsDelta:            p.AfterSwapReturnsDelta,
		AfterAddLiquidityReturnsDelta:    p.AfterAddLiquidityReturnsDelta,
		AfterRemoveLiquidityReturnsDelta: p.AfterRemoveLiquidityReturnsDelta,
	}
}

func (p storedPermissions) toDomain() core.HookPermissions {
	return core.HookPermissions{
		BeforeInitialize:      p.BeforeInitialize,
		AfterInitialize:       p.AfterInitialize,
		BeforeAddLiquidity:    p.BeforeAddLiquidity,
		AfterAddLiquidity:     p.AfterAddLiquidity,
		BeforeRemoveLiquidity: p.BeforeRemoveLiquidity,
		AfterRemoveLiquidity:  p.AfterRemoveLiquidity,
		BeforeSwap:            p.BeforeSwap,
		AfterSwap:             p.AfterSwap,
		BeforeDonate:          p.BeforeDonate,
		AfterDonate:           p.AfterDonate,

		BeforeSwapReturnsDelta:           p.BeforeSwapReturnsDelta,
		AfterSwapReturnsDelta:            p.AfterSwapReturnsDelta,
		AfterAddLiquidityReturnsDelta:    p.AfterAddLiquidityReturnsDelta,
		AfterRemoveLiquidityReturnsDelta: p.AfterRemoveLiquidityReturnsDelta,
	}
}

func (r *hookSetRecord) toDomain() (core.HookSet, error) {
	poolID, err := parsePoolID(r.PoolID)
	if err != nil {
		return core.HookSet{}, err
	}
	hooks := make([]core.RegisteredHook, len(r.Hooks))
	for idx, stored := range r.Hooks {
		if !common.IsHexAddress(stored.Address) {
			return core.HookSet{}, fmt.Errorf("sqlstore: invalid hook address %q", stored.Address)
		}
		hooks[idx] = core.RegisteredHook{
			Position:    stored.Position,
			Address:     common.HexToAddress(stored.Address),
			Permissions: stored.Permissions.toDomain(),
		}
	}
	return core.HookSet{PoolID: poolID, Hooks: hooks}, nil
}

func (r *feeConfigRecord) toDomain() (core.FeeConfig, error) {
	method, err := core.ParseFeeMethod(strings.TrimSpace(r.Method))
	if err != nil {
		return core.FeeConfig{}, fmt.Errorf("sqlstore: %w", err)
	}
	return core.FeeConfig{
		Method:           method,
		PoolFee:          r.PoolFee,
		PoolFeeSet:       r.PoolFeeSet,
		GovernanceFee:    r.GovernanceFee,
		GovernanceFeeSet: r.GovernanceFeeSet,
		DefaultFee:       r.DefaultFee,
	}, nil
}

func parsePoolID(value string) (core.PoolID, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "0x")
	raw, err := hex.DecodeString(trimmed)
	if err != nil || len(raw) != 32 {
		return core.PoolID{}, fmt.Errorf("sqlstore: invalid pool id %q", value)
	}
	var poolID core.PoolID
	copy(poolID[:], raw)
	return poolID, nil
}
