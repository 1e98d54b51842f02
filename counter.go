package maybenot

// CounterOp identifies how a CounterUpdate applies its sampled value to a
// machine counter.
type CounterOp int

const (
	// CounterSet overwrites the counter with the sampled value.
	CounterSet CounterOp = iota
	// CounterIncrement adds the sampled value to the counter, saturating.
	CounterIncrement
	// CounterDecrement subtracts the sampled value from the counter,
	// saturating at zero.
	CounterDecrement
)

// String renders the operator for diagnostics.
func (op CounterOp) String() string {
	switch op {
	case CounterSet:
		return "Set"
	case CounterIncrement:
		return "Increment"
	case CounterDecrement:
		return "Decrement"
	default:
		return "CounterOp(?)"
	}
}

// CounterSlot identifies which of a machine's two counters a CounterUpdate
// targets (and, for CopyToOther, which one receives the mirrored value).
type CounterSlot int

const (
	// CounterA is the machine's first counter.
	CounterA CounterSlot = iota
	// CounterB is the machine's second counter.
	CounterB
)

// CounterUpdate describes how a counter changes when a state is entered
// (§3). CopyToOther, if true, mirrors the resulting value into the other
// counter after the operation is applied.
type CounterUpdate struct {
	Op          CounterOp
	ValueDist   Distribution
	CopyToOther bool
}

// apply computes the new value of a counter slot given its current value
// and a sampled magnitude, saturating at 0 and math.MaxUint64.
func (cu *CounterUpdate) apply(current uint64, sampled float64) uint64 {
	v := uint64(sampled)
	switch cu.Op {
	case CounterSet:
		return v
	case CounterIncrement:
		sum := current + v
		if sum < current { // overflow
			return ^uint64(0)
		}
		return sum
	case CounterDecrement:
		if v > current {
			return 0
		}
		return current - v
	default:
		return current
	}
}
