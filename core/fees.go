package core

import (
	"math/big"
	"sort"
)

// CalculateFee computes a single effective fee from weighted candidates.
// Invalid, zero-weight, zero-fee, and out-of-range candidates are dropped;
// an empty survivor set resolves to the configured fallback. The function
// is deterministic and never mutates its inputs.
func CalculateFee(candidates []WeightedFee, cfg FeeConfig) uint32 {
	if cfg.Method == FeeMethodGovernanceOnly {
		return fallbackFee(cfg)
	}

	usable := make([]WeightedFee, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.usable() {
			usable = append(usable, candidate)
		}
	}
	if len(usable) == 0 {
		return fallbackFee(cfg)
	}

	switch cfg.Method {
	case FeeMethodMean:
		return meanFee(usable)
	case FeeMethodMedian:
		return medianFee(usable)
	case FeeMethodFirstOverride:
		return usable[0].Fee
	case FeeMethodLastOverride:
		return usable[len(usable)-1].Fee
	case FeeMethodMinFee:
		min := usable[0].Fee
		for _, candidate := range usable[1:] {
			if candidate.Fee < min {
				min = candidate.Fee
			}
		}
		return min
	case FeeMethodMaxFee:
		max := usable[0].Fee
		for _, candidate := range usable[1:] {
			if candidate.Fee > max {
				max = candidate.Fee
			}
		}
		return max
	}
	// Weighted average, also the behavior for unrecognized methods.
	return weightedAverageFee(usable)
}

// fallbackFee resolves the configured fee when no candidate survives:
// pool-specific override, then governance override, then the default.
func fallbackFee(cfg FeeConfig) uint32 {
	if cfg.PoolFeeSet && cfg.PoolFee <= MaxFee {
		return cfg.PoolFee
	}
	if cfg.GovernanceFeeSet && cfg.GovernanceFee <= MaxFee {
		return cfg.GovernanceFee
	}
	return cfg.DefaultFee
}

func weightedAverageFee(candidates []WeightedFee) uint32 {
	// Weights are caller-controlled uint64s; accumulate in big.Int so the
	// truncating division is exact even when sums exceed 64 bits.
	weighted := new(big.Int)
	total := new(big.Int)
	term := new(big.Int)
	for _, candidate := range candidates {
		term.SetUint64(candidate.Weight)
		term.Mul(term, big.NewInt(int64(candidate.Fee)))
		weighted.Add(weighted, term)
		total.Add(total, new(big.Int).SetUint64(candidate.Weight))
	}
	return uint32(new(big.Int).Quo(weighted, total).Uint64())
}

func meanFee(candidates []WeightedFee) uint32 {
	var sum uint64
	for _, candidate := range candidates {
		sum += uint64(candidate.Fee)
	}
	return uint32(sum / uint64(len(candidates)))
}

func medianFee(candidates []WeightedFee) uint32 {
	fees := make([]uint32, len(candidates))
	for idx, candidate := range candidates {
		fees[idx] = candidate.Fee
	}
	sort.Slice(fees, func(i, j int) bool { return fees[i] < fees[j] })
	mid := len(fees) / 2
	if len(fees)%2 == 0 {
		return uint32((uint64(fees[mid-1]) + uint64(fees[mid])) / 2)
	}
	return fees[mid]
}
