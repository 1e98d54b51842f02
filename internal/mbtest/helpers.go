// Package mbtest provides small, dependency-free test assertion helpers
// shared across the module's table-driven tests.
package mbtest

import (
	"testing"

	"github.com/maybenot-io/maybenot-go"
)

// RequireNoActions fails the test if actions is non-empty.
func RequireNoActions(t *testing.T, actions []maybenot.Action) {
	t.Helper()
	if len(actions) != 0 {
		t.Fatalf("expected no actions, got %d: %+v", len(actions), actions)
	}
}

// RequireSingleAction fails the test unless actions has exactly one
// element, and returns it.
func RequireSingleAction(t *testing.T, actions []maybenot.Action) maybenot.Action {
	t.Helper()
	if len(actions) != 1 {
		t.Fatalf("expected exactly 1 action, got %d: %+v", len(actions), actions)
	}
	return actions[0]
}

// CountByKind tallies actions by ActionKind, for assertions like "exactly 2
// SendPadding actions were emitted across this run".
func CountByKind(actions []maybenot.Action) map[maybenot.ActionKind]int {
	counts := make(map[maybenot.ActionKind]int)
	for _, a := range actions {
		counts[a.Kind]++
	}
	return counts
}

// SequenceRNG returns an RNG that replays a fixed, scripted sequence of
// Float64 draws for deterministic tests — the same role FakeClock plays
// for time (manual control instead of live randomness).
type SequenceRNG struct {
	draws []float64
	next  int
}

// NewSequenceRNG returns an RNG that yields draws in order, repeating the
// final value forever once exhausted.
func NewSequenceRNG(draws ...float64) *SequenceRNG {
	return &SequenceRNG{draws: draws}
}

// Float64 returns the next scripted draw.
func (s *SequenceRNG) Float64() float64 {
	if len(s.draws) == 0 {
		return 0
	}
	if s.next >= len(s.draws) {
		return s.draws[len(s.draws)-1]
	}
	v := s.draws[s.next]
	s.next++
	return v
}
