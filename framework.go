package maybenot

import "time"

// runtimeMachine is the mutable per-machine state the Framework advances on
// every event (§3, RuntimeMachine).
//
//nolint:govet // fieldalignment: struct layout optimized for readability
type runtimeMachine struct {
	current StateIndex // StateEnd is absorbing.

	counterA uint64
	counterB uint64

	// actionFireLimitSet/actionFireLimit implement the state limit (§9):
	// a per-visit cap, sampled from the active action's LimitDist the
	// first time it fires after entering a state, capping how many times
	// that action may (re)fire before the machine is forced to STATE_END.
	actionFireLimitSet bool
	actionFireLimit    uint64

	paddingSent         uint64
	normalSent          uint64
	blockingDuration    time.Duration // accumulated requested BlockOutgoing duration
	pendingActionExpiry *time.Time
	internalTimerExpiry *time.Time
	machineStart        time.Time
}

// Framework runs a fixed set of machines against a stream of events,
// turning (event, machine-state) pairs into scheduled actions while
// enforcing padding/blocking budgets (§4.3). A Framework is not safe for
// concurrent calls (§5); the host must synchronize access.
type Framework struct {
	machines []*Machine
	runtime  []runtimeMachine

	maxPaddingFrac  float64
	maxBlockingFrac float64

	globalPadding    uint64
	globalNormal     uint64
	totalBlockingDur time.Duration
	start            time.Time
	lastNow          time.Time

	rng RNG

	// pending holds synthetic events queued mid-trigger (CounterZero,
	// Signal, LimitReached), processed before the next host event (§5).
	pending []pendingEvent
}

// pendingEvent is a synthetic event queued for delivery either to a single
// originating machine or, for Signal, to every machine.
type pendingEvent struct {
	event     Event
	machine   int // index of the originating machine
	broadcast bool
}

// NewFramework validates the machines and aggregate fractions, then
// constructs a Framework with every machine at state 0 (§4.3). Each
// machine's entry action (if any) for state 0 is evaluated immediately, as
// if a zero-length event had just transitioned it there.
func NewFramework(machines []*Machine, maxPaddingFrac, maxBlockingFrac float64, now time.Time, rng RNG) (*Framework, error) {
	if maxPaddingFrac < 0 || maxPaddingFrac > 1 || maxBlockingFrac < 0 || maxBlockingFrac > 1 {
		return nil, &FrameworkInitError{Reason: InitBadFraction}
	}
	for _, m := range machines {
		if err := m.validate(); err != nil {
			return nil, &FrameworkInitError{Reason: InitBadMachine, Err: err}
		}
	}

	f := &Framework{
		machines:        machines,
		runtime:         make([]runtimeMachine, len(machines)),
		maxPaddingFrac:  maxPaddingFrac,
		maxBlockingFrac: maxBlockingFrac,
		start:           now,
		lastNow:         now,
		rng:             rng,
	}
	for i := range f.runtime {
		f.runtime[i].machineStart = now
	}

	// Enter state 0 and evaluate its entry action for every machine, as
	// the first "transition" of each machine's life. Entry actions at
	// construction are not returned to a caller: NewFramework constructs,
	// it does not trigger (§4.3).
	for i := range f.machines {
		f.enterState(i, 0, now)
	}
	f.drainPending(now)

	return f, nil
}

// ActionsInUse reports how many machines currently have a pending action
// timer outstanding (§6).
func (f *Framework) ActionsInUse() uint64 {
	var n uint64
	for i := range f.runtime {
		if f.runtime[i].pendingActionExpiry != nil {
			n++
		}
	}
	return n
}

// AllMachinesEnded reports whether every machine has reached STATE_END
// (§6).
func (f *Framework) AllMachinesEnded() bool {
	for i := range f.runtime {
		if f.runtime[i].current != StateEnd {
			return false
		}
	}
	return true
}

// TriggerEvents delivers events, in order, to every machine in
// construction order, returning the accumulated actions in (event-index,
// machine-index) lexicographic order (§4.3, §5). It never fails: all
// invariants were established at construction.
func (f *Framework) TriggerEvents(events []Event, now time.Time) []Action {
	f.lastNow = now
	var actions []Action
	for _, ev := range events {
		actions = append(actions, f.triggerOne(ev, now)...)
		actions = append(actions, f.drainPending(now)...)
	}
	return actions
}

// TriggerEventsAt is a convenience wrapper over TriggerEvents for hosts that
// keep a Clock instead of threading time.Time through their own call sites.
func (f *Framework) TriggerEventsAt(events []Event, clock Clock) []Action {
	return f.TriggerEvents(events, clock.Now())
}

// triggerOne fans a single event out to every machine in construction
// order, collecting at most one action per machine.
func (f *Framework) triggerOne(ev Event, now time.Time) []Action {
	var actions []Action
	for i := range f.machines {
		if a := f.deliver(i, ev, now); a != nil {
			actions = append(actions, *a)
		}
	}
	return actions
}

// drainPending processes synthetic CounterZero/Signal/LimitReached events
// queued by the current event's fan-out, until none remain. Signal events
// broadcast to every machine (including the originator); the others target
// only the machine that produced them (§4.3, §5).
func (f *Framework) drainPending(now time.Time) []Action {
	var actions []Action
	for len(f.pending) > 0 {
		batch := f.pending
		f.pending = nil
		for _, pe := range batch {
			if pe.broadcast {
				for i := range f.machines {
					if a := f.deliver(i, pe.event, now); a != nil {
						actions = append(actions, *a)
					}
				}
				continue
			}
			if a := f.deliver(pe.machine, pe.event, now); a != nil {
				actions = append(actions, *a)
			}
		}
	}
	return actions
}

// deliver runs one (event, machine) step: look up the transition row for
// the machine's current state, sample a destination, and apply it (§4.3).
func (f *Framework) deliver(i int, ev Event, now time.Time) *Action {
	rt := &f.runtime[i]
	if rt.current == StateEnd {
		return nil
	}
	if int(rt.current) >= len(f.machines[i].States) {
		return nil // defensive: current must always index a real state.
	}
	st := f.machines[i].States[rt.current]

	if ev == NormalSent {
		rt.normalSent++
		f.globalNormal++
	}

	u := f.rng.Float64()
	to, ok := st.sampleNext(ev, u)
	if !ok {
		return nil
	}

	switch to {
	case StateSignal:
		f.pending = append(f.pending, pendingEvent{event: Signal, machine: i, broadcast: true})
		return nil
	case StateEnd:
		f.endMachine(i)
		return nil
	default:
		return f.enterState(i, to, now)
	}
}

// enterState transitions machine i into state `to`, applying its counter
// updates and evaluating its action, then returns any resulting Action.
func (f *Framework) enterState(i int, to StateIndex, now time.Time) *Action {
	rt := &f.runtime[i]
	entering := rt.current != to
	rt.current = to
	st := f.machines[i].States[to]

	if entering {
		rt.actionFireLimitSet = false
	}

	f.applyCounter(i, st.CounterA, CounterA, now)
	f.applyCounter(i, st.CounterB, CounterB, now)

	return f.fireAction(i, &st.Action, now)
}

// applyCounter samples and applies a counter update, queuing a synthetic
// CounterZero event if the targeted counter (or, via CopyToOther, the
// mirrored one) transitions from nonzero to zero (§4.3).
func (f *Framework) applyCounter(i int, cu *CounterUpdate, slot CounterSlot, _ time.Time) {
	if cu == nil {
		return
	}
	rt := &f.runtime[i]
	sampled := Sample(cu.ValueDist, f.rng)

	switch slot {
	case CounterA:
		before := rt.counterA
		rt.counterA = cu.apply(before, sampled)
		if before != 0 && rt.counterA == 0 {
			f.pending = append(f.pending, pendingEvent{event: CounterZero, machine: i})
		}
		if cu.CopyToOther {
			beforeB := rt.counterB
			rt.counterB = rt.counterA
			if beforeB != 0 && rt.counterB == 0 {
				f.pending = append(f.pending, pendingEvent{event: CounterZero, machine: i})
			}
		}
	case CounterB:
		before := rt.counterB
		rt.counterB = cu.apply(before, sampled)
		if before != 0 && rt.counterB == 0 {
			f.pending = append(f.pending, pendingEvent{event: CounterZero, machine: i})
		}
		if cu.CopyToOther {
			beforeA := rt.counterA
			rt.counterA = rt.counterB
			if beforeA != 0 && rt.counterA == 0 {
				f.pending = append(f.pending, pendingEvent{event: CounterZero, machine: i})
			}
		}
	}
}

// endMachine forces machine i into STATE_END, clearing its pending timers
// (§4.3).
func (f *Framework) endMachine(i int) {
	rt := &f.runtime[i]
	rt.current = StateEnd
	rt.pendingActionExpiry = nil
	rt.internalTimerExpiry = nil
}

// fireAction evaluates a state's ActionDescriptor, applying timer
// replacement rules and budget enforcement, and returns the resulting
// Action (or nil, if none fires or the action is suppressed) (§4.4, §4.5).
func (f *Framework) fireAction(i int, a *ActionDescriptor, now time.Time) *Action {
	rt := &f.runtime[i]

	switch a.Kind {
	case ActionNone:
		return nil

	case ActionCancel:
		switch a.Timer {
		case TimerActionTimer:
			rt.pendingActionExpiry = nil
		case TimerInternal:
			rt.internalTimerExpiry = nil
		case TimerAll:
			rt.pendingActionExpiry = nil
			rt.internalTimerExpiry = nil
		}
		return &Action{Kind: ActionCancel, Machine: MachineID(i), Timer: a.Timer}

	case ActionUpdateTimer:
		duration := time.Duration(Sample(a.DurationDist, f.rng)) * time.Microsecond
		if rt.internalTimerExpiry != nil && !a.Replace {
			return nil
		}
		expiry := now.Add(duration)
		rt.internalTimerExpiry = &expiry
		return &Action{Kind: ActionUpdateTimer, Machine: MachineID(i), Duration: duration, Replace: a.Replace}

	case ActionSendPadding:
		if f.limitFired(i, a) {
			return nil
		}
		if rt.pendingActionExpiry != nil && !a.Replace {
			return nil
		}
		if f.suppressPadding(i) {
			f.pending = append(f.pending, pendingEvent{event: LimitReached, machine: i})
			return nil
		}
		timeout := time.Duration(Sample(a.TimeoutDist, f.rng)) * time.Microsecond
		expiry := now.Add(timeout)
		rt.pendingActionExpiry = &expiry
		rt.paddingSent++
		f.globalPadding++
		return &Action{Kind: ActionSendPadding, Machine: MachineID(i), Timeout: expiry, Bypass: a.Bypass, Replace: a.Replace}

	case ActionBlockOutgoing:
		if f.limitFired(i, a) {
			return nil
		}
		if rt.pendingActionExpiry != nil && !a.Replace {
			return nil
		}
		duration := time.Duration(Sample(a.DurationDist, f.rng)) * time.Microsecond
		if f.suppressBlocking(i, duration) {
			f.pending = append(f.pending, pendingEvent{event: LimitReached, machine: i})
			return nil
		}
		timeout := time.Duration(Sample(a.TimeoutDist, f.rng)) * time.Microsecond
		expiry := now.Add(timeout)
		rt.pendingActionExpiry = &expiry
		rt.blockingDuration += duration
		f.totalBlockingDur += duration
		return &Action{Kind: ActionBlockOutgoing, Machine: MachineID(i), Timeout: expiry, Duration: duration, Bypass: a.Bypass, Replace: a.Replace}

	default:
		return nil
	}
}

// limitFired applies the per-state action-fire limit (§9): if the action
// carries a LimitDist, it samples a countdown on the first fire after
// entering the state, decrements it on every fire (including that first
// one), and forces the machine to STATE_END instead of firing once the
// countdown is exhausted. A sampled limit of N therefore allows N fires.
func (f *Framework) limitFired(i int, a *ActionDescriptor) bool {
	if a.LimitDist == nil {
		return false
	}
	rt := &f.runtime[i]
	if !rt.actionFireLimitSet {
		rt.actionFireLimit = uint64(Sample(*a.LimitDist, f.rng))
		rt.actionFireLimitSet = true
	}
	if rt.actionFireLimit == 0 {
		f.endMachine(i)
		return true
	}
	rt.actionFireLimit--
	return false
}

// suppressPadding reports whether a SendPadding action must be suppressed
// under the per-machine or global padding budget (§4.5).
func (f *Framework) suppressPadding(i int) bool {
	rt := &f.runtime[i]
	m := f.machines[i]

	perMachine := rt.paddingSent >= m.AllowedPaddingPackets &&
		fraction(rt.paddingSent, rt.normalSent) >= m.MaxPaddingFrac
	global := f.globalPadding >= m.AllowedPaddingPackets &&
		fraction(f.globalPadding, f.globalNormal) >= f.maxPaddingFrac

	return perMachine || global
}

// suppressBlocking reports whether a BlockOutgoing action must be
// suppressed under the per-machine or global blocking budget (§4.5). The
// fractional denominator is wall-clock exposure since machine construction
// (see SPEC_FULL.md §3.1): blocking has no natural packet-count
// denominator the way padding does.
func (f *Framework) suppressBlocking(i int, candidate time.Duration) bool {
	rt := &f.runtime[i]
	m := f.machines[i]

	elapsedMachine := elapsedMicros(rt.machineStart, f.lastNow)
	elapsedGlobal := elapsedMicros(f.start, f.lastNow)

	perMachine := uint64((rt.blockingDuration+candidate).Microseconds()) >= m.AllowedBlockedMicros &&
		fraction(uint64((rt.blockingDuration+candidate).Microseconds()), elapsedMachine) >= m.MaxBlockedFrac
	global := uint64((f.totalBlockingDur+candidate).Microseconds()) >= m.AllowedBlockedMicros &&
		fraction(uint64((f.totalBlockingDur+candidate).Microseconds()), elapsedGlobal) >= f.maxBlockingFrac

	return perMachine || global
}

// fraction computes numerator/denominator, treating a zero or negative
// denominator as 1 to avoid division by zero (§4.5).
func fraction(numerator, denominator uint64) float64 {
	if denominator == 0 {
		denominator = 1
	}
	return float64(numerator) / float64(denominator)
}

// elapsedMicros returns the nonnegative elapsed microseconds between start
// and now, clamping a non-monotonic `now` to zero rather than overflowing
// or going negative (§7).
func elapsedMicros(start, now time.Time) uint64 {
	d := now.Sub(start)
	if d < 0 {
		return 0
	}
	return uint64(d.Microseconds())
}
