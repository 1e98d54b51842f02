package maybenot

import "math"

// StateIndex addresses a state within a Machine, or one of the two
// reserved pseudo-indices below (§3).
type StateIndex int64

const (
	// StateEnd is the absorbing pseudo-state: a machine that transitions
	// here stops reacting to every future event.
	StateEnd StateIndex = -1
	// StateSignal is the pseudo-state that fans a synthetic Signal event
	// out to every machine in the Framework, including the one that
	// transitioned here.
	StateSignal StateIndex = -2
)

// StateMax is the hard cap on the number of states a single Machine may
// have (§3).
const StateMax = 100_000

// transitionEpsilon is the slack a transition row's probability sum may
// exceed 1.0 by, absorbing floating point accumulation error (§4.2).
const transitionEpsilon = 1e-9

// transition is one row entry: a destination with its probability mass.
type transition struct {
	To   StateIndex
	Prob float64
}

// State is a single machine state: what to schedule on entry, how to
// update the two machine counters on entry, and how to pick the next
// state for each possible triggering event (§3).
//
//nolint:govet // fieldalignment: struct layout optimized for readability
type State struct {
	Action ActionDescriptor

	// CounterA and CounterB are optional updates applied (in that order)
	// when this state is entered via a transition.
	CounterA *CounterUpdate
	CounterB *CounterUpdate

	// Transitions maps an Event to its row of (destination, probability)
	// pairs. A row's probabilities sum to <= 1 + transitionEpsilon; the
	// residual is the chance of no transition for that event.
	Transitions map[Event][]transition

	// fastSample holds a precomputed alias table per event, built by
	// Machine construction for every non-empty row; an event with no table
	// falls back to linear cumulative sampling (§3, §9).
	fastSample map[Event]*aliasTable
}

// NewState returns a State with no action, no counter updates, and empty
// transitions — callers add transitions with AddTransition and set Action/
// CounterA/CounterB directly before handing the state to NewMachine.
func NewState() *State {
	return &State{Transitions: make(map[Event][]transition)}
}

// AddTransition adds a (to, probability) entry to the row for ev. Multiple
// calls for the same (ev, to) pair are not merged; validation catches any
// row whose total probability mass exceeds 1.
func (s *State) AddTransition(ev Event, to StateIndex, prob float64) {
	s.Transitions[ev] = append(s.Transitions[ev], transition{To: to, Prob: prob})
}

// validate checks this state's action, counters, and transition rows.
// numStates is the machine's total state count, used to bound destination
// indices.
func (s *State) validate(index int, numStates int) error {
	if err := validateActionDescriptor(&s.Action); err != nil {
		return &InvalidStateError{Index: index, Reason: err.Error()}
	}
	if s.CounterA != nil {
		if err := s.CounterA.ValueDist.validate(); err != nil {
			return &InvalidStateError{Index: index, Reason: "counter A: " + err.Error()}
		}
	}
	if s.CounterB != nil {
		if err := s.CounterB.ValueDist.validate(); err != nil {
			return &InvalidStateError{Index: index, Reason: "counter B: " + err.Error()}
		}
	}
	for ev, row := range s.Transitions {
		if ev < 0 || ev >= numEvents {
			return &InvalidStateError{Index: index, Reason: "transition references an unknown event"}
		}
		sum := 0.0
		for _, t := range row {
			if t.Prob < 0 || !isFinite(t.Prob) {
				return &InvalidStateError{Index: index, Reason: "transition probability must be finite and nonnegative"}
			}
			if t.To != StateEnd && t.To != StateSignal && (t.To < 0 || int(t.To) >= numStates) {
				return &InvalidStateError{Index: index, Reason: "transition references an out-of-range state index"}
			}
			sum += t.Prob
		}
		if sum > 1+transitionEpsilon {
			return &InvalidStateError{Index: index, Reason: "transition row probabilities sum to more than 1"}
		}
	}
	return nil
}

// validateActionDescriptor checks the distributions embedded in an
// ActionDescriptor, per its Kind (§3).
func validateActionDescriptor(a *ActionDescriptor) error {
	switch a.Kind {
	case ActionNone, ActionCancel:
		return nil
	case ActionSendPadding:
		if err := a.TimeoutDist.validate(); err != nil {
			return err
		}
	case ActionBlockOutgoing:
		if err := a.TimeoutDist.validate(); err != nil {
			return err
		}
		if err := a.DurationDist.validate(); err != nil {
			return err
		}
	case ActionUpdateTimer:
		if err := a.DurationDist.validate(); err != nil {
			return err
		}
	default:
		return &InvalidDistributionError{Kind: DistKind(-1), Reason: "unknown action kind"}
	}
	if a.LimitDist != nil {
		if err := a.LimitDist.validate(); err != nil {
			return err
		}
	}
	return nil
}

// buildFastSample precomputes an alias table for every non-empty
// transition row (§3, §9). Rows are optional: a nil fastSample entry for an
// event falls back to linear cumulative sampling. Both paths yield the same
// distribution over destinations, though not the same destination for each
// individual draw (checked by
// TestFastSampleMatchesLinearCumulativeDistribution in state_test.go).
func (s *State) buildFastSample() {
	s.fastSample = make(map[Event]*aliasTable, len(s.Transitions))
	for ev, row := range s.Transitions {
		if len(row) == 0 {
			continue
		}
		s.fastSample[ev] = newAliasTable(row)
	}
}

// sampleNext picks the next state for event ev given a uniform draw u in
// [0, 1). It uses the alias table when available, otherwise linear
// cumulative search over the row. ok is false when no transition fires
// (including when the row is empty), in which case the event is a no-op.
func (s *State) sampleNext(ev Event, u float64) (StateIndex, bool) {
	if at, ok := s.fastSample[ev]; ok {
		return at.sample(u)
	}
	row, ok := s.Transitions[ev]
	if !ok || len(row) == 0 {
		return 0, false
	}
	cum := 0.0
	for _, t := range row {
		cum += t.Prob
		if u < cum {
			return t.To, true
		}
	}
	return 0, false
}

// aliasTable is Vose's alias method precomputation for O(1) sampling of a
// discrete distribution over a transition row, plus the residual
// "no transition" outcome (§3, §9).
type aliasTable struct {
	// prob[i] is the probability of landing on slot i directly, scaled so
	// the table covers exactly [0,1) including the residual slot.
	prob  []float64
	alias []int
	// to holds the destination state for each real slot; the final slot
	// (index len(to)-1) has no destination and represents "no transition".
	to []StateIndex
}

// newAliasTable builds an alias table for a transition row. The row's
// total probability mass may be < 1; the shortfall becomes an extra
// pseudo-outcome with no destination (sample returns ok=false for it).
func newAliasTable(row []transition) *aliasTable {
	n := len(row) + 1 // +1 for the residual "no transition" outcome
	scaled := make([]float64, n)
	to := make([]StateIndex, n)
	sum := 0.0
	for i, t := range row {
		scaled[i] = t.Prob
		to[i] = t.To
		sum += t.Prob
	}
	residual := 1 - sum
	if residual < 0 {
		residual = 0
	}
	scaled[n-1] = residual

	at := &aliasTable{
		prob:  make([]float64, n),
		alias: make([]int, n),
		to:    to,
	}

	// Vose's alias method.
	scale := make([]float64, n)
	for i, p := range scaled {
		scale[i] = p * float64(n)
	}
	small := make([]int, 0, n)
	large := make([]int, 0, n)
	for i, p := range scale {
		if p < 1.0 {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}
	for len(small) > 0 && len(large) > 0 {
		l := small[len(small)-1]
		small = small[:len(small)-1]
		g := large[len(large)-1]
		large = large[:len(large)-1]

		at.prob[l] = scale[l]
		at.alias[l] = g

		scale[g] = scale[g] + scale[l] - 1.0
		if scale[g] < 1.0 {
			small = append(small, g)
		} else {
			large = append(large, g)
		}
	}
	for len(large) > 0 {
		g := large[len(large)-1]
		large = large[:len(large)-1]
		at.prob[g] = 1.0
	}
	for len(small) > 0 {
		l := small[len(small)-1]
		small = small[:len(small)-1]
		at.prob[l] = 1.0
	}
	return at
}

// sample draws a slot from the alias table given a uniform u in [0,1), and
// returns its destination. ok is false for the residual "no transition"
// slot.
func (at *aliasTable) sample(u float64) (StateIndex, bool) {
	n := len(at.to)
	// Map u into [0, n) the same way a standard alias-method lookup does:
	// scale by n, split into a slot index and a fractional coin flip.
	scaled := u * float64(n)
	i := int(math.Floor(scaled))
	if i >= n {
		i = n - 1
	}
	frac := scaled - float64(i)

	slot := i
	if frac >= at.prob[i] {
		slot = at.alias[i]
	}
	if slot == n-1 {
		return 0, false
	}
	return at.to[slot], true
}
