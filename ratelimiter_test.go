package maybenot

import (
	"testing"
	"time"
)

// burstMachine fires a SendPadding on every NormalSent, looping immediately
// back to the same state, with Replace set so each new padding action
// replaces the pending one instead of being dropped; repeated NormalSent
// events keep producing actions without needing a PaddingSent round trip.
func burstMachine(t *testing.T) *Machine {
	t.Helper()
	timeout := mustDist(t, DistUniform, 10, 11, 10, 10)

	s0 := NewState()
	s0.Action = ActionDescriptor{Kind: ActionSendPadding, TimeoutDist: timeout, Replace: true}
	s0.AddTransition(NormalSent, 0, 1.0)

	m, err := NewMachine([]*State{s0}, 1000, 1.0, 0, 0)
	if err != nil {
		t.Fatalf("NewMachine failed: %v", err)
	}
	return m
}

func TestRateLimitedFrameworkDropsOverBurst(t *testing.T) {
	m := burstMachine(t)
	fw, err := NewFramework([]*Machine{m}, 1.0, 1.0, baseTime(), NewRNG(1))
	if err != nil {
		t.Fatalf("NewFramework failed: %v", err)
	}
	rl := NewRateLimitedFramework(fw, RateLimiterConfig{Window: time.Second, MaxActions: 2})

	now := baseTime()
	actions := rl.TriggerEvents([]Event{NormalSent, NormalSent, NormalSent, NormalSent}, now)
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions to pass the burst window, got %d: %+v", len(actions), actions)
	}
}

func TestRateLimitedFrameworkUnblocksAfterWindowElapses(t *testing.T) {
	m := burstMachine(t)
	fw, err := NewFramework([]*Machine{m}, 1.0, 1.0, baseTime(), NewRNG(1))
	if err != nil {
		t.Fatalf("NewFramework failed: %v", err)
	}
	rl := NewRateLimitedFramework(fw, RateLimiterConfig{Window: time.Second, MaxActions: 1})

	now := baseTime()
	first := rl.TriggerEvents([]Event{NormalSent, NormalSent}, now)
	if len(first) != 1 {
		t.Fatalf("expected 1 action within the first window, got %d: %+v", len(first), first)
	}

	now = now.Add(500 * time.Millisecond)
	still := rl.TriggerEvents([]Event{NormalSent}, now)
	if len(still) != 0 {
		t.Fatalf("expected 0 actions while still inside the window, got %d: %+v", len(still), still)
	}

	now = now.Add(600 * time.Millisecond) // total 1.1s since first emission
	after := rl.TriggerEvents([]Event{NormalSent}, now)
	if len(after) != 1 {
		t.Fatalf("expected 1 action once the window has elapsed, got %d: %+v", len(after), after)
	}
}

func TestRateLimitedFrameworkAlwaysPassesCancel(t *testing.T) {
	s0 := NewState()
	s0.Action = ActionDescriptor{Kind: ActionCancel, Timer: TimerAll}
	s0.AddTransition(NormalSent, 0, 1.0)
	m, err := NewMachine([]*State{s0}, 0, 0, 0, 0)
	if err != nil {
		t.Fatalf("NewMachine failed: %v", err)
	}
	fw, err := NewFramework([]*Machine{m}, 0, 0, baseTime(), NewRNG(1))
	if err != nil {
		t.Fatalf("NewFramework failed: %v", err)
	}
	rl := NewRateLimitedFramework(fw, RateLimiterConfig{Window: time.Second, MaxActions: 0})

	now := baseTime()
	actions := rl.TriggerEvents([]Event{NormalSent, NormalSent, NormalSent}, now)
	if len(actions) != 3 {
		t.Fatalf("expected every Cancel action to pass regardless of MaxActions=0, got %d: %+v", len(actions), actions)
	}
}

func TestRateLimitedFrameworkDelegatesQueries(t *testing.T) {
	m := burstMachine(t)
	fw, err := NewFramework([]*Machine{m}, 1.0, 1.0, baseTime(), NewRNG(1))
	if err != nil {
		t.Fatalf("NewFramework failed: %v", err)
	}
	rl := NewRateLimitedFramework(fw, RateLimiterConfig{Window: time.Second, MaxActions: 5})

	if rl.AllMachinesEnded() {
		t.Fatal("expected the machine not to have ended yet")
	}
	if got := rl.ActionsInUse(); got != fw.ActionsInUse() {
		t.Fatalf("ActionsInUse() = %d, want delegate value %d", got, fw.ActionsInUse())
	}
}
