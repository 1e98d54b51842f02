package maybenot

import (
	"math"
	"testing"
)

func TestCounterUpdateApplySet(t *testing.T) {
	cu := &CounterUpdate{Op: CounterSet}
	if got := cu.apply(100, 7); got != 7 {
		t.Fatalf("apply(100, 7) = %d, want 7", got)
	}
}

func TestCounterUpdateApplyIncrementSaturates(t *testing.T) {
	cu := &CounterUpdate{Op: CounterIncrement}
	if got := cu.apply(math.MaxUint64-1, 5); got != math.MaxUint64 {
		t.Fatalf("apply near max overflowed to %d, want saturation at MaxUint64", got)
	}
	if got := cu.apply(10, 5); got != 15 {
		t.Fatalf("apply(10, 5) = %d, want 15", got)
	}
}

func TestCounterUpdateApplyDecrementSaturatesAtZero(t *testing.T) {
	cu := &CounterUpdate{Op: CounterDecrement}
	if got := cu.apply(3, 10); got != 0 {
		t.Fatalf("apply(3, 10) = %d, want 0 (saturated)", got)
	}
	if got := cu.apply(10, 3); got != 7 {
		t.Fatalf("apply(10, 3) = %d, want 7", got)
	}
}

func TestCounterOpString(t *testing.T) {
	tests := map[CounterOp]string{
		CounterSet:       "Set",
		CounterIncrement: "Increment",
		CounterDecrement: "Decrement",
	}
	for op, want := range tests {
		if got := op.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", op, got, want)
		}
	}
}
