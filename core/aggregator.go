package core

import (
	"fmt"
	"math/big"
)

// combineDeltas folds one hook's two-sided delta into the running combined
// delta by exact component-wise integer addition. A component leaving the
// signed 128-bit domain fails with ErrDeltaOverflow; wrapping is never
// silent.
func combineDeltas(combined, delta BalanceDelta) (BalanceDelta, error) {
	out := combined.clone()
	if delta.Amount0 != nil {
		out.Amount0.Add(out.Amount0, delta.Amount0)
	}
	if delta.Amount1 != nil {
		out.Amount1.Add(out.Amount1, delta.Amount1)
	}
	if err := checkInt128(out.Amount0, "amount0"); err != nil {
		return BalanceDelta{}, err
	}
	if err := checkInt128(out.Amount1, "amount1"); err != nil {
		return BalanceDelta{}, err
	}
	return out, nil
}

// combineAdjustments folds a single signed adjustment (after-swap) into the
// running sum, under the same overflow policy.
func combineAdjustments(combined, adjustment *big.Int) (*big.Int, error) {
	out := new(big.Int)
	if combined != nil {
		out.Set(combined)
	}
	if adjustment != nil {
		out.Add(out, adjustment)
	}
	if err := checkInt128(out, "unspecified"); err != nil {
		return nil, err
	}
	return out, nil
}

func checkInt128(value *big.Int, component string) error {
	if value.Cmp(minInt128) < 0 || value.Cmp(maxInt128) > 0 {
		return fmt.Errorf("%w: %s component %s outside int128", ErrDeltaOverflow, component, value)
	}
	return nil
}
