package maybenot

import (
	"testing"
	"time"
)

func TestFakeClockStepAdvances(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewFakeClock(start)

	if got := c.Now(); !got.Equal(start) {
		t.Fatalf("Now() = %v, want %v", got, start)
	}

	c.Step(5 * time.Second)
	want := start.Add(5 * time.Second)
	if got := c.Now(); !got.Equal(want) {
		t.Fatalf("after Step, Now() = %v, want %v", got, want)
	}
}

func TestFakeClockSetTimeForward(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewFakeClock(start)
	later := start.Add(time.Hour)

	c.SetTime(later)
	if got := c.Now(); !got.Equal(later) {
		t.Fatalf("Now() = %v, want %v", got, later)
	}
}

func TestFakeClockSetTimeBackwardsPanics(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewFakeClock(start)

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected a panic moving the clock backwards")
		}
	}()
	c.SetTime(start.Add(-time.Second))
}

func TestRealClockTracksSystemClock(t *testing.T) {
	before := time.Now()
	got := RealClock.Now()
	after := time.Now()

	if got.Before(before) || got.After(after) {
		t.Fatalf("RealClock.Now() = %v, not within [%v, %v]", got, before, after)
	}
}
