package maybenot

// Event is a notification delivered to every machine in a Framework: either
// reported by the host, describing what happened on the channel, or
// synthesized internally (CounterZero, Signal, LimitReached) and fanned
// back into the same trigger call before the next host event (§4.3, §5).
type Event int

const (
	// NormalRecv: a normal (non-padding) packet was received.
	NormalRecv Event = iota
	// NormalSent: a normal packet was sent.
	NormalSent
	// NormalQueued: a normal packet was queued for sending.
	NormalQueued
	// PaddingRecv: a padding packet was received.
	PaddingRecv
	// PaddingSent: a padding packet was sent.
	PaddingSent
	// PaddingQueued: a padding packet was queued for sending.
	PaddingQueued
	// TunnelRecv: data arrived at the tunnel ingress.
	TunnelRecv
	// TunnelSent: data left via the tunnel egress.
	TunnelSent
	// BlockingBegin: the host started blocking outgoing traffic.
	BlockingBegin
	// BlockingEnd: the host stopped blocking outgoing traffic.
	BlockingEnd
	// LimitReached: a budget cap suppressed an action for this machine.
	LimitReached
	// CounterZero: one of the machine's two counters reached zero.
	CounterZero
	// Signal: another machine (or this one) transitioned into STATE_SIGNAL.
	Signal
	// TimerBegin: the host armed a timer the engine asked it to schedule.
	TimerBegin
	// TimerEnd: a previously armed timer fired or was cancelled.
	TimerEnd

	// numEvents is a sentinel used to size per-event transition tables; it
	// is not itself a valid Event value.
	numEvents
)

// String renders the event name for diagnostics and test failures.
func (e Event) String() string {
	switch e {
	case NormalRecv:
		return "NormalRecv"
	case NormalSent:
		return "NormalSent"
	case NormalQueued:
		return "NormalQueued"
	case PaddingRecv:
		return "PaddingRecv"
	case PaddingSent:
		return "PaddingSent"
	case PaddingQueued:
		return "PaddingQueued"
	case TunnelRecv:
		return "TunnelRecv"
	case TunnelSent:
		return "TunnelSent"
	case BlockingBegin:
		return "BlockingBegin"
	case BlockingEnd:
		return "BlockingEnd"
	case LimitReached:
		return "LimitReached"
	case CounterZero:
		return "CounterZero"
	case Signal:
		return "Signal"
	case TimerBegin:
		return "TimerBegin"
	case TimerEnd:
		return "TimerEnd"
	default:
		return "Event(?)"
	}
}
