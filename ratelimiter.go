package maybenot

import "time"

// RateLimiterConfig configures RateLimitedFramework, following the
// teacher's plain option-struct idiom (BatchConfig, WindowConfig) rather
// than a long positional constructor (§6).
type RateLimiterConfig struct {
	// Window is the sliding window duration over which MaxActions applies.
	Window time.Duration
	// MaxActions is the maximum number of non-Cancel actions allowed to
	// pass through per Window.
	MaxActions int
}

// RateLimitedFramework wraps a Framework and applies a sliding-window rate
// limit to emitted non-Cancel actions (§4.6). Cancel actions always pass
// through, since dropping one would leak a host-side timer the engine
// believes it has already retired.
type RateLimitedFramework struct {
	fw      *Framework
	cfg     RateLimiterConfig
	emitted []time.Time // timestamps of recently emitted non-Cancel actions
}

// NewRateLimitedFramework wraps fw with the given rate limit.
func NewRateLimitedFramework(fw *Framework, cfg RateLimiterConfig) *RateLimitedFramework {
	return &RateLimitedFramework{fw: fw, cfg: cfg}
}

// ActionsInUse delegates to the wrapped Framework (§6).
func (r *RateLimitedFramework) ActionsInUse() uint64 {
	return r.fw.ActionsInUse()
}

// AllMachinesEnded delegates to the wrapped Framework (§6).
func (r *RateLimitedFramework) AllMachinesEnded() bool {
	return r.fw.AllMachinesEnded()
}

// TriggerEvents runs the wrapped Framework and filters the result through
// the sliding-window rate limit. The window's eviction is driven purely by
// the monotonic `now` passed in, never by an action sequence number (§9),
// so replaying the same burst with a held-back clock never starves later
// callers of their budget.
func (r *RateLimitedFramework) TriggerEvents(events []Event, now time.Time) []Action {
	actions := r.fw.TriggerEvents(events, now)

	r.evict(now)

	out := make([]Action, 0, len(actions))
	for _, a := range actions {
		if a.Kind == ActionCancel {
			out = append(out, a)
			continue
		}
		if len(r.emitted) >= r.cfg.MaxActions {
			continue // dropped: window is full
		}
		r.emitted = append(r.emitted, now)
		out = append(out, a)
	}
	return out
}

// evict drops timestamps older than now - Window from the sliding window.
func (r *RateLimitedFramework) evict(now time.Time) {
	cutoff := now.Add(-r.cfg.Window)
	i := 0
	for i < len(r.emitted) && r.emitted[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		r.emitted = r.emitted[i:]
	}
}
