package util

import "time"

// Timer is a once-mode countdown advanced explicitly by the simulation step.
type Timer struct {
	duration time.Duration
	elapsed  time.Duration
	finished bool
}

// NewTimer returns a stopped-at-zero timer that finishes after d.
func NewTimer(d time.Duration) Timer {
	return Timer{duration: d}
}

// Tick advances the timer and reports whether it finished during this call.
func (t *Timer) Tick(dt time.Duration) bool {
	if t.finished {
		return false
	}
	t.elapsed += dt
	if t.elapsed >= t.duration {
		t.elapsed = t.duration
		t.finished = true
		return true
	}
	return false
}

// Reset restarts the countdown from zero.
func (t *Timer) Reset() {
	t.elapsed = 0
	t.finished = false
}

func (t *Timer) Finished() bool { return t.finished }

func (t *Timer) Duration() time.Duration { return t.duration }

func (t *Timer) Elapsed() time.Duration { return t.elapsed }

// Remaining returns the time left before the timer finishes.
func (t *Timer) Remaining() time.Duration {
	return t.duration - t.elapsed
}

// Fraction returns elapsed/duration in [0, 1].
func (t *Timer) Fraction() float64 {
	if t.duration <= 0 {
		return 1
	}
	return float64(t.elapsed) / float64(t.duration)
}
