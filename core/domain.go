package core

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrHookAddressZero       = errors.New("core: hook address is zero")
	ErrHookNil               = errors.New("core: hook implementation is nil")
	ErrInvalidPermissions    = errors.New("core: inconsistent hook permissions")
	ErrPoolAlreadyRegistered = errors.New("core: pool hook set already registered")
	ErrPoolKeyInvalid        = errors.New("core: invalid pool key")
	ErrReentrantDispatch     = errors.New("core: reentrant dispatch")
	ErrHookCallFailed        = errors.New("core: hook call failed")
	ErrUnexpectedAck         = errors.New("core: unexpected hook acknowledgment")
	ErrDeltaOverflow         = errors.New("core: balance delta overflow")
	ErrFeeOutOfRange         = errors.New("core: fee out of range")
	ErrGovernanceRequired    = errors.New("core: fee mutation requires the governed registry")
)

// MaxFee is the upper bound of the basis-point fee domain. A candidate or
// configured fee is acceptable when it is > 0 and <= MaxFee.
const MaxFee uint32 = 1_000_000

// FeeOverrideNone is the sentinel a before-swap hook returns when it does
// not override the pool fee. Zero cannot serve as the sentinel because zero
// is a legal fee.
const FeeOverrideNone uint32 = 0xFFFFFFFF

// PoolID identifies a pool. It is the keccak-256 hash of the pool key's
// canonical encoding and matches the host system's derivation bit for bit.
type PoolID [32]byte

func (id PoolID) String() string {
	return "0x" + hex.EncodeToString(id[:])
}

func (id PoolID) IsZero() bool {
	return id == PoolID{}
}

// PoolKey holds the defining parameters of a pool. Currencies are kept in
// ascending address order; the adapter address participates in the identity
// so distinct adapter deployments never collide on pool IDs.
type PoolKey struct {
	Currency0   common.Address
	Currency1   common.Address
	Fee         uint32
	TickSpacing int32
	Adapter     common.Address
}

func (k PoolKey) Validate() error {
	if bytes.Compare(k.Currency0.Bytes(), k.Currency1.Bytes()) >= 0 {
		return fmt.Errorf("%w: currencies must be strictly ascending", ErrPoolKeyInvalid)
	}
	if k.TickSpacing <= 0 {
		return fmt.Errorf("%w: tick spacing must be positive", ErrPoolKeyInvalid)
	}
	if k.Fee > MaxFee {
		return fmt.Errorf("%w: fee %d exceeds %d", ErrPoolKeyInvalid, k.Fee, MaxFee)
	}
	return nil
}

// ID derives the pool identifier from the key. The encoding is five 32-byte
// words (currency0, currency1, fee, tick spacing as two's complement,
// adapter), hashed with keccak-256, matching the host's ABI encoding.
func (k PoolKey) ID() PoolID {
	var buf [160]byte
	copy(buf[12:32], k.Currency0.Bytes())
	copy(buf[44:64], k.Currency1.Bytes())
	buf[92] = byte(k.Fee >> 24)
	buf[93] = byte(k.Fee >> 16)
	buf[94] = byte(k.Fee >> 8)
	buf[95] = byte(k.Fee)
	if k.TickSpacing < 0 {
		for i := 96; i < 124; i++ {
			buf[i] = 0xFF
		}
	}
	spacing := uint32(k.TickSpacing)
	buf[124] = byte(spacing >> 24)
	buf[125] = byte(spacing >> 16)
	buf[126] = byte(spacing >> 8)
	buf[127] = byte(spacing)
	copy(buf[140:160], k.Adapter.Bytes())

	var id PoolID
	copy(id[:], crypto.Keccak256(buf[:]))
	return id
}

// int128 bounds for balance-delta components.
var (
	maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// BalanceDelta is a two-sided signed balance adjustment, one component per
// pool currency. Positive amounts are owed to the pool, negative to the
// caller. Components stay within the signed 128-bit domain.
type BalanceDelta struct {
	Amount0 *big.Int
	Amount1 *big.Int
}

func NewBalanceDelta(amount0, amount1 *big.Int) BalanceDelta {
	return BalanceDelta{
		Amount0: new(big.Int).Set(amount0),
		Amount1: new(big.Int).Set(amount1),
	}
}

func ZeroBalanceDelta() BalanceDelta {
	return BalanceDelta{Amount0: big.NewInt(0), Amount1: big.NewInt(0)}
}

func (d BalanceDelta) IsZero() bool {
	return (d.Amount0 == nil || d.Amount0.Sign() == 0) &&
		(d.Amount1 == nil || d.Amount1.Sign() == 0)
}

func (d BalanceDelta) clone() BalanceDelta {
	out := ZeroBalanceDelta()
	if d.Amount0 != nil {
		out.Amount0.Set(d.Amount0)
	}
	if d.Amount1 != nil {
		out.Amount1.Set(d.Amount1)
	}
	return out
}

// SwapParams carries the host's swap parameters. AmountSpecified positive
// means exact input, negative exact output.
type SwapParams struct {
	ZeroForOne        bool
	AmountSpecified   *big.Int
	SqrtPriceLimitX96 *big.Int
}

// ModifyLiquidityParams covers both liquidity additions and removals: the
// sign of LiquidityDelta selects the branch (positive adds, non-positive
// removes).
type ModifyLiquidityParams struct {
	TickLower      int32
	TickUpper      int32
	LiquidityDelta *big.Int
	Salt           [32]byte
}

func (p ModifyLiquidityParams) IsAdd() bool {
	return p.LiquidityDelta != nil && p.LiquidityDelta.Sign() > 0
}

// InitializeEvent is the parameter set for before/after-initialize. Tick is
// populated only on the after phase.
type InitializeEvent struct {
	Sender       common.Address
	Key          PoolKey
	SqrtPriceX96 *big.Int
	Tick         int32
	Data         []byte
}

type LiquidityEvent struct {
	Sender common.Address
	Key    PoolKey
	Params ModifyLiquidityParams
	// Delta is the host-computed caller delta, populated on the after phase.
	Delta BalanceDelta
	Data  []byte
}

type SwapEvent struct {
	Sender common.Address
	Key    PoolKey
	Params SwapParams
	// Delta is the host-computed swap delta, populated on the after phase.
	Delta BalanceDelta
	Data  []byte
}

type DonateEvent struct {
	Sender  common.Address
	Key     PoolKey
	Amount0 *big.Int
	Amount1 *big.Int
	Data    []byte
}

// WeightedFee is one candidate fed into the fee calculation strategy.
type WeightedFee struct {
	Fee    uint32
	Weight uint64
	Valid  bool
}

func (f WeightedFee) usable() bool {
	return f.Valid && f.Weight > 0 && f.Fee > 0 && f.Fee <= MaxFee
}

// FeeCalculationMethod selects how CalculateFee combines candidates.
type FeeCalculationMethod uint8

const (
	FeeMethodWeightedAverage FeeCalculationMethod = iota
	FeeMethodMean
	FeeMethodMedian
	FeeMethodFirstOverride
	FeeMethodLastOverride
	FeeMethodMinFee
	FeeMethodMaxFee
	FeeMethodGovernanceOnly
)

func (m FeeCalculationMethod) String() string {
	switch m {
	case FeeMethodWeightedAverage:
		return "weighted_average"
	case FeeMethodMean:
		return "mean"
	case FeeMethodMedian:
		return "median"
	case FeeMethodFirstOverride:
		return "first_override"
	case FeeMethodLastOverride:
		return "last_override"
	case FeeMethodMinFee:
		return "min_fee"
	case FeeMethodMaxFee:
		return "max_fee"
	case FeeMethodGovernanceOnly:
		return "governance_only"
	}
	return fmt.Sprintf("fee_method_%d", uint8(m))
}

func ParseFeeMethod(value string) (FeeCalculationMethod, error) {
	for _, m := range []FeeCalculationMethod{
		FeeMethodWeightedAverage,
		FeeMethodMean,
		FeeMethodMedian,
		FeeMethodFirstOverride,
		FeeMethodLastOverride,
		FeeMethodMinFee,
		FeeMethodMaxFee,
		FeeMethodGovernanceOnly,
	} {
		if m.String() == value {
			return m, nil
		}
	}
	return FeeMethodWeightedAverage, fmt.Errorf("core: unknown fee method %q", value)
}

// FeeConfig is the per-pool fee configuration record. PoolFeeSet and
// GovernanceFeeSet distinguish unset from a legal zero fee.
type FeeConfig struct {
	Method           FeeCalculationMethod
	PoolFee          uint32
	PoolFeeSet       bool
	GovernanceFee    uint32
	GovernanceFeeSet bool
	DefaultFee       uint32
}

func (c FeeConfig) Validate() error {
	if c.DefaultFee == 0 || c.DefaultFee > MaxFee {
		return fmt.Errorf("%w: default fee %d", ErrFeeOutOfRange, c.DefaultFee)
	}
	if c.PoolFeeSet && c.PoolFee > MaxFee {
		return fmt.Errorf("%w: pool fee %d", ErrFeeOutOfRange, c.PoolFee)
	}
	if c.GovernanceFeeSet && c.GovernanceFee > MaxFee {
		return fmt.Errorf("%w: governance fee %d", ErrFeeOutOfRange, c.GovernanceFee)
	}
	return nil
}
