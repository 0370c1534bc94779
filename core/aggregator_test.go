package core

import (
	"errors"
	"math/big"
	"testing"
)

func TestCombineDeltasComponentWise(t *testing.T) {
	combined, err := combineDeltas(
		NewBalanceDelta(big.NewInt(5), big.NewInt(-3)),
		NewBalanceDelta(big.NewInt(-2), big.NewInt(10)),
	)
	if err != nil {
		t.Fatalf("combineDeltas returned error: %v", err)
	}
	if combined.Amount0.Cmp(big.NewInt(3)) != 0 || combined.Amount1.Cmp(big.NewInt(7)) != 0 {
		t.Fatalf("unexpected combined delta (%s, %s)", combined.Amount0, combined.Amount1)
	}
}

func TestCombineDeltasOverflow(t *testing.T) {
	nearMax := new(big.Int).Sub(maxInt128, big.NewInt(1))
	_, err := combineDeltas(
		NewBalanceDelta(nearMax, big.NewInt(0)),
		NewBalanceDelta(big.NewInt(2), big.NewInt(0)),
	)
	if !errors.Is(err, ErrDeltaOverflow) {
		t.Fatalf("expected ErrDeltaOverflow, got %v", err)
	}

	nearMin := new(big.Int).Add(minInt128, big.NewInt(1))
	_, err = combineDeltas(
		NewBalanceDelta(big.NewInt(0), nearMin),
		NewBalanceDelta(big.NewInt(0), big.NewInt(-2)),
	)
	if !errors.Is(err, ErrDeltaOverflow) {
		t.Fatalf("expected negative ErrDeltaOverflow, got %v", err)
	}
}

func TestCombineDeltasExactBoundary(t *testing.T) {
	combined, err := combineDeltas(
		NewBalanceDelta(new(big.Int).Sub(maxInt128, big.NewInt(1)), big.NewInt(0)),
		NewBalanceDelta(big.NewInt(1), big.NewInt(0)),
	)
	if err != nil {
		t.Fatalf("exact int128 max must be accepted: %v", err)
	}
	if combined.Amount0.Cmp(maxInt128) != 0 {
		t.Fatalf("unexpected boundary sum %s", combined.Amount0)
	}
}

func TestCombineAdjustments(t *testing.T) {
	sum, err := combineAdjustments(big.NewInt(10), big.NewInt(-4))
	if err != nil {
		t.Fatalf("combineAdjustments returned error: %v", err)
	}
	if sum.Cmp(big.NewInt(6)) != 0 {
		t.Fatalf("expected 6, got %s", sum)
	}

	_, err = combineAdjustments(maxInt128, big.NewInt(1))
	if !errors.Is(err, ErrDeltaOverflow) {
		t.Fatalf("expected ErrDeltaOverflow, got %v", err)
	}
}

func TestCombineAdjustmentsNilIsZero(t *testing.T) {
	sum, err := combineAdjustments(big.NewInt(3), nil)
	if err != nil {
		t.Fatalf("nil adjustment must act as zero: %v", err)
	}
	if sum.Cmp(big.NewInt(3)) != 0 {
		t.Fatalf("expected 3, got %s", sum)
	}
}
