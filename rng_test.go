package maybenot

import (
	"testing"

	"github.com/maybenot-io/maybenot-go/internal/mbtest"
)

func TestNewRNGProducesValuesInUnitInterval(t *testing.T) {
	rng := NewRNG(42)
	for i := 0; i < 1000; i++ {
		v := rng.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("draw %d = %v outside [0,1)", i, v)
		}
	}
}

func TestNewRNGIsDeterministicForSameSeed(t *testing.T) {
	a := NewRNG(7)
	b := NewRNG(7)
	for i := 0; i < 50; i++ {
		va, vb := a.Float64(), b.Float64()
		if va != vb {
			t.Fatalf("draw %d diverged: %v != %v", i, va, vb)
		}
	}
}

func TestSequenceRNGRepeatsFinalDrawAfterExhaustion(t *testing.T) {
	rng := mbtest.NewSequenceRNG(0.1, 0.2, 0.3)
	want := []float64{0.1, 0.2, 0.3, 0.3, 0.3}
	for i, w := range want {
		if got := rng.Float64(); got != w {
			t.Fatalf("draw %d = %v, want %v", i, got, w)
		}
	}
}

func TestSequenceRNGEmptyReturnsZero(t *testing.T) {
	rng := mbtest.NewSequenceRNG()
	if got := rng.Float64(); got != 0 {
		t.Fatalf("empty SequenceRNG.Float64() = %v, want 0", got)
	}
}

func TestAsRandRoutesThroughInjectedRNG(t *testing.T) {
	seq := mbtest.NewSequenceRNG(0.25, 0.75)
	r := asRand(seq)
	got := r.Float64()
	if got < 0 || got > 1 {
		t.Fatalf("asRand-derived Float64() = %v, outside [0,1]", got)
	}
}
