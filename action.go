package maybenot

import "time"

// TimerKind identifies which host-side timer a Cancel action targets.
type TimerKind int

const (
	// TimerActionTimer cancels the machine's pending scheduled action
	// (a SendPadding or BlockOutgoing timeout).
	TimerActionTimer TimerKind = iota
	// TimerInternal cancels the machine's internal timer, armed via
	// UpdateTimer and reported back through TimerBegin/TimerEnd.
	TimerInternal
	// TimerAll cancels both the action timer and the internal timer.
	TimerAll
)

// String renders the timer kind for diagnostics.
func (k TimerKind) String() string {
	switch k {
	case TimerActionTimer:
		return "Action"
	case TimerInternal:
		return "Internal"
	case TimerAll:
		return "All"
	default:
		return "TimerKind(?)"
	}
}

// ActionKind tags the variant of an ActionDescriptor or a scheduled Action.
type ActionKind int

const (
	// ActionNone means the state schedules nothing on entry; this is the
	// zero value, so a State built without an explicit Action (the common
	// case) is a no-op rather than an implicit Cancel.
	ActionNone ActionKind = iota
	// ActionCancel cancels a pending timer.
	ActionCancel
	// ActionSendPadding schedules a padding packet after a sampled timeout.
	ActionSendPadding
	// ActionBlockOutgoing schedules outgoing blocking after a sampled
	// timeout, for a sampled duration.
	ActionBlockOutgoing
	// ActionUpdateTimer asks the host to (re)arm its internal timer.
	ActionUpdateTimer
)

// String renders the action kind for diagnostics.
func (k ActionKind) String() string {
	switch k {
	case ActionNone:
		return "None"
	case ActionCancel:
		return "Cancel"
	case ActionSendPadding:
		return "SendPadding"
	case ActionBlockOutgoing:
		return "BlockOutgoing"
	case ActionUpdateTimer:
		return "UpdateTimer"
	default:
		return "ActionKind(?)"
	}
}

// ActionDescriptor is the tagged variant attached to a State: what to
// schedule, if anything, when the state is entered (§3, §4.4). Only the
// fields relevant to Kind are populated; the rest are zero.
type ActionDescriptor struct {
	Kind ActionKind

	// Timer is used by ActionCancel to select which host timer to cancel.
	Timer TimerKind

	// TimeoutDist samples the delay before SendPadding/BlockOutgoing fires.
	TimeoutDist Distribution
	// DurationDist samples the blocking duration for BlockOutgoing, or the
	// timer duration for UpdateTimer.
	DurationDist Distribution
	// LimitDist, if non-nil, samples a per-state action limit counter the
	// first time the action fires after its state is entered from another
	// state; each fire then uses up one unit of that limit.
	LimitDist *Distribution

	// Bypass is a pure flag consumed by the host: whether this action may
	// bypass an active blocking period.
	Bypass bool
	// Replace controls whether a freshly fired action replaces an existing
	// pending timer of the same kind, or is dropped if one is pending.
	Replace bool
}

// MachineID identifies a machine within a Framework by its construction
// order (an opaque index from the host's point of view).
type MachineID uint64

// Action is a scheduling instruction returned to the host (§6). Only the
// fields relevant to Kind are populated.
type Action struct {
	Kind    ActionKind
	Machine MachineID

	// Timer selects which timer Cancel targets.
	Timer TimerKind

	// Timeout is when SendPadding/BlockOutgoing should fire, relative to
	// the `now` passed to TriggerEvents (an absolute deadline, not a
	// duration, since the host may not act on it immediately).
	Timeout time.Time
	// Duration is the requested blocking duration (BlockOutgoing) or the
	// requested timer duration (UpdateTimer).
	Duration time.Duration

	Bypass  bool
	Replace bool
}
