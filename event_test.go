package maybenot

import "testing"

func TestEventStringCoversAllDeclaredEvents(t *testing.T) {
	for e := Event(0); e < numEvents; e++ {
		if got := e.String(); got == "Event(?)" {
			t.Errorf("event %d has no String() rendering", int(e))
		}
	}
}

func TestEventStringUnknownValue(t *testing.T) {
	if got := numEvents.String(); got != "Event(?)" {
		t.Errorf("numEvents.String() = %q, want the unknown-value fallback", got)
	}
}
