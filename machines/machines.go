// Package machines provides small, hand-built example Machine constructors.
// They exist to exercise Machine/Distribution/Framework end to end in tests
// and benchmarks without a generator tool — a machine zoo generator or CLI
// is a separate, out-of-scope collaborator. This package is a set of pure
// Go functions, not a registry or a loader: there is no I/O here.
package machines

import "github.com/maybenot-io/maybenot-go"

// NewSimpleSendPadding returns a two-state machine: state 0 transitions to
// state 1 on every NormalSent, and state 1 schedules a single SendPadding
// with a fixed timeout, then loops back to state 0 to do it again.
func NewSimpleSendPadding(timeoutMicros float64, allowedPadding uint64, maxPaddingFrac float64) (*maybenot.Machine, error) {
	timeout, err := maybenot.NewDistribution(maybenot.DistUniform, timeoutMicros, timeoutMicros+1, timeoutMicros, timeoutMicros)
	if err != nil {
		return nil, err
	}

	s0 := maybenot.NewState()
	s0.AddTransition(maybenot.NormalSent, 1, 1.0)

	s1 := maybenot.NewState()
	s1.Action = maybenot.ActionDescriptor{
		Kind:        maybenot.ActionSendPadding,
		TimeoutDist: timeout,
		Replace:     true,
	}
	s1.AddTransition(maybenot.PaddingSent, 0, 1.0)

	return maybenot.NewMachine([]*maybenot.State{s0, s1}, allowedPadding, maxPaddingFrac, 0, 0)
}

// NewCounterBoundedPadding returns a machine that fires a padding action on
// a NormalSent and on every subsequent PaddingSent, ending once a counter
// seeded from count reaches zero, demonstrating CounterUpdate/CounterZero
// (§3, S3).
//
// The counter is seeded to count+1, not count: s1's CounterA decrement
// fires on every entry to s1, including the first one (from s0's
// NormalSent transition), since a state's counter update applies
// regardless of which transition entered it (§4.3). Seeding one higher
// than count means the counter reaches zero, and the machine ends, after
// count+1 padding packets have fired — one for the initial NormalSent
// entry plus one per subsequent PaddingSent self-loop.
func NewCounterBoundedPadding(count float64, timeoutMicros float64) (*maybenot.Machine, error) {
	seed := count + 1
	exact, err := maybenot.NewDistribution(maybenot.DistUniform, seed, seed+1, seed, seed)
	if err != nil {
		return nil, err
	}
	one, err := maybenot.NewDistribution(maybenot.DistUniform, 1, 2, 1, 1)
	if err != nil {
		return nil, err
	}
	timeout, err := maybenot.NewDistribution(maybenot.DistUniform, timeoutMicros, timeoutMicros+1, timeoutMicros, timeoutMicros)
	if err != nil {
		return nil, err
	}

	s0 := maybenot.NewState()
	s0.CounterA = &maybenot.CounterUpdate{Op: maybenot.CounterSet, ValueDist: exact}
	s0.AddTransition(maybenot.NormalSent, 1, 1.0)

	s1 := maybenot.NewState()
	s1.Action = maybenot.ActionDescriptor{Kind: maybenot.ActionSendPadding, TimeoutDist: timeout, Replace: true}
	s1.CounterA = &maybenot.CounterUpdate{Op: maybenot.CounterDecrement, ValueDist: one}
	s1.AddTransition(maybenot.PaddingSent, 1, 1.0)
	s1.AddTransition(maybenot.CounterZero, maybenot.StateEnd, 1.0)

	return maybenot.NewMachine([]*maybenot.State{s0, s1}, 1000, 1.0, 0, 0)
}

// NewBlockOutgoingBurst returns a machine that starts blocking outgoing
// traffic for a sampled duration after the first TunnelSent, demonstrating
// BlockOutgoing scheduling and the blocking budget (§4.4, §4.5).
func NewBlockOutgoingBurst(timeoutMicros, durationMicros float64, allowedBlockedMicros uint64, maxBlockedFrac float64) (*maybenot.Machine, error) {
	timeout, err := maybenot.NewDistribution(maybenot.DistUniform, timeoutMicros, timeoutMicros+1, timeoutMicros, timeoutMicros)
	if err != nil {
		return nil, err
	}
	duration, err := maybenot.NewDistribution(maybenot.DistUniform, durationMicros, durationMicros+1, durationMicros, durationMicros)
	if err != nil {
		return nil, err
	}

	s0 := maybenot.NewState()
	s0.AddTransition(maybenot.TunnelSent, 1, 1.0)

	s1 := maybenot.NewState()
	s1.Action = maybenot.ActionDescriptor{
		Kind:         maybenot.ActionBlockOutgoing,
		TimeoutDist:  timeout,
		DurationDist: duration,
		Replace:      true,
	}
	s1.AddTransition(maybenot.BlockingEnd, 0, 1.0)

	return maybenot.NewMachine([]*maybenot.State{s0, s1}, 0, 0, allowedBlockedMicros, maxBlockedFrac)
}
