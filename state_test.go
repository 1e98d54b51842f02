package maybenot

import "testing"

func mustDist(t *testing.T, kind DistKind, p1, p2, start, max float64) Distribution {
	t.Helper()
	d, err := NewDistribution(kind, p1, p2, start, max)
	if err != nil {
		t.Fatalf("NewDistribution failed: %v", err)
	}
	return d
}

func TestStateValidateRejectsOutOfRangeDestination(t *testing.T) {
	s := NewState()
	s.AddTransition(NormalSent, 5, 1.0)
	if err := s.validate(0, 2); err == nil {
		t.Fatal("expected an error for an out-of-range destination")
	}
}

func TestStateValidateAllowsEndAndSignal(t *testing.T) {
	s := NewState()
	s.AddTransition(NormalSent, StateEnd, 0.5)
	s.AddTransition(NormalSent, StateSignal, 0.5)
	if err := s.validate(0, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStateValidateRejectsOverweightRow(t *testing.T) {
	s := NewState()
	s.AddTransition(NormalSent, 0, 0.7)
	s.AddTransition(NormalSent, 0, 0.7)
	if err := s.validate(0, 1); err == nil {
		t.Fatal("expected an error for a row summing above 1")
	}
}

func TestStateValidateRejectsNegativeProbability(t *testing.T) {
	s := NewState()
	s.AddTransition(NormalSent, 0, -0.1)
	if err := s.validate(0, 1); err == nil {
		t.Fatal("expected an error for a negative probability")
	}
}

func TestStateValidateRejectsUnknownEvent(t *testing.T) {
	s := NewState()
	s.AddTransition(numEvents, 0, 0.5)
	if err := s.validate(0, 1); err == nil {
		t.Fatal("expected an error for an unknown event")
	}
}

func TestSampleNextNoTransitionOnEmptyRow(t *testing.T) {
	s := NewState()
	if _, ok := s.sampleNext(NormalSent, 0.5); ok {
		t.Fatal("expected no transition on an empty row")
	}
}

func TestSampleNextLinearCumulativePicksExpectedSlot(t *testing.T) {
	s := NewState()
	s.AddTransition(NormalSent, 0, 0.3)
	s.AddTransition(NormalSent, 1, 0.3)
	s.AddTransition(NormalSent, 2, 0.3)

	tests := []struct {
		u    float64
		want StateIndex
		ok   bool
	}{
		{0.0, 0, true},
		{0.29, 0, true},
		{0.3, 1, true},
		{0.59, 1, true},
		{0.6, 2, true},
		{0.89, 2, true},
		{0.95, 0, false}, // residual 0.1: no transition
	}
	for _, tt := range tests {
		got, ok := s.sampleNext(NormalSent, tt.u)
		if ok != tt.ok {
			t.Fatalf("u=%v: ok = %v, want %v", tt.u, ok, tt.ok)
		}
		if ok && got != tt.want {
			t.Fatalf("u=%v: got state %v, want %v", tt.u, got, tt.want)
		}
	}
}

func TestFastSampleMatchesLinearCumulativeDistribution(t *testing.T) {
	s := NewState()
	s.AddTransition(NormalSent, 0, 0.2)
	s.AddTransition(NormalSent, 1, 0.3)
	s.AddTransition(NormalSent, 2, 0.4)
	s.buildFastSample()

	// Both sampling paths must agree on the *distribution*, not necessarily
	// per-draw, so compare counts over many draws against the configured
	// probabilities rather than asserting per-u equality.
	const n = 100000
	rng := NewRNG(99)
	counts := map[StateIndex]int{}
	noTransition := 0
	for i := 0; i < n; i++ {
		u := rng.Float64()
		to, ok := s.sampleNext(NormalSent, u)
		if !ok {
			noTransition++
			continue
		}
		counts[to]++
	}

	want := map[StateIndex]float64{0: 0.2, 1: 0.3, 2: 0.4}
	for state, frac := range want {
		got := float64(counts[state]) / float64(n)
		if diff := got - frac; diff < -0.02 || diff > 0.02 {
			t.Errorf("state %v: observed frac %v, want ~%v", state, got, frac)
		}
	}
	gotResidual := float64(noTransition) / float64(n)
	if diff := gotResidual - 0.1; diff < -0.02 || diff > 0.02 {
		t.Errorf("residual frac %v, want ~0.1", gotResidual)
	}
}

func TestNewAliasTableHandlesFullRow(t *testing.T) {
	row := []transition{{To: 0, Prob: 0.5}, {To: 1, Prob: 0.5}}
	at := newAliasTable(row)
	for _, u := range []float64{0, 0.1, 0.49, 0.5, 0.9, 0.999} {
		if _, ok := at.sample(u); !ok {
			t.Errorf("u=%v: expected a transition on a fully-specified row", u)
		}
	}
}

func TestValidateActionDescriptorRequiresDistributions(t *testing.T) {
	timeout := mustDist(t, DistUniform, 1, 2, 1, 2)
	duration := mustDist(t, DistUniform, 1, 2, 1, 2)

	tests := []struct {
		name string
		a    ActionDescriptor
		ok   bool
	}{
		{"cancel needs nothing", ActionDescriptor{Kind: ActionCancel}, true},
		{"padding needs timeout", ActionDescriptor{Kind: ActionSendPadding, TimeoutDist: timeout}, true},
		{"padding zero-value timeout is invalid", ActionDescriptor{Kind: ActionSendPadding}, false},
		{"blocking needs timeout and duration", ActionDescriptor{Kind: ActionBlockOutgoing, TimeoutDist: timeout, DurationDist: duration}, true},
		{"update timer needs duration", ActionDescriptor{Kind: ActionUpdateTimer, DurationDist: duration}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateActionDescriptor(&tt.a)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
