package maybenot

import "testing"

func simpleTwoStateMachine(t *testing.T) *Machine {
	t.Helper()
	timeout := mustDist(t, DistUniform, 100, 200, 100, 200)

	s0 := NewState()
	s0.AddTransition(NormalSent, 1, 1.0)

	s1 := NewState()
	s1.Action = ActionDescriptor{Kind: ActionSendPadding, TimeoutDist: timeout}
	s1.AddTransition(PaddingSent, 0, 1.0)

	m, err := NewMachine([]*State{s0, s1}, 10, 0.5, 0, 0)
	if err != nil {
		t.Fatalf("NewMachine failed: %v", err)
	}
	return m
}

func TestNewMachineRejectsEmptyStates(t *testing.T) {
	if _, err := NewMachine(nil, 0, 0, 0, 0); err == nil {
		t.Fatal("expected an error for zero states")
	}
}

func TestNewMachineRejectsOutOfRangeFractions(t *testing.T) {
	s0 := NewState()
	if _, err := NewMachine([]*State{s0}, 0, 1.5, 0, 0); err == nil {
		t.Fatal("expected an error for max_padding_frac > 1")
	}
	if _, err := NewMachine([]*State{s0}, 0, -0.1, 0, 0); err == nil {
		t.Fatal("expected an error for negative max_padding_frac")
	}
	if _, err := NewMachine([]*State{s0}, 0, 0, 0, -1); err == nil {
		t.Fatal("expected an error for negative max_blocked_frac")
	}
}

func TestNewMachineRejectsTooManyStates(t *testing.T) {
	states := make([]*State, StateMax+1)
	for i := range states {
		states[i] = NewState()
	}
	if _, err := NewMachine(states, 0, 0, 0, 0); err == nil {
		t.Fatal("expected an error for exceeding StateMax")
	}
}

func TestNewMachinePrecomputesFastSampleTables(t *testing.T) {
	m := simpleTwoStateMachine(t)
	for i, s := range m.States {
		if s.fastSample == nil {
			t.Fatalf("state %d has no fast-sample table after construction", i)
		}
	}
}

func TestNewMachinePropagatesStateValidationErrors(t *testing.T) {
	s0 := NewState()
	s0.AddTransition(NormalSent, 99, 1.0) // out of range
	if _, err := NewMachine([]*State{s0}, 0, 0, 0, 0); err == nil {
		t.Fatal("expected propagated state validation error")
	}
}
