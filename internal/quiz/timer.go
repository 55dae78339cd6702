package quiz

import "time"

type TimerState string

const (
	TimerRunning TimerState = "running"
	TimerExpired TimerState = "expired"
	TimerCleared TimerState = "cleared"
)

// Timer is the countdown of a single question. Expired is terminal: an
// expired timer never runs again and locks its question.
type Timer struct {
	State    TimerState `json:"state"`
	Deadline time.Time  `json:"deadline,omitempty"`
}

func newTimer() Timer {
	return Timer{State: TimerCleared}
}

// Start (re)starts the countdown from now. Expired timers stay expired.
func (t *Timer) Start(now time.Time, d time.Duration) {
	if t.State == TimerExpired {
		return
	}
	t.State = TimerRunning
	t.Deadline = now.Add(d)
}

// Clear stops a running countdown without locking the question.
func (t *Timer) Clear() {
	if t.State == TimerRunning {
		t.State = TimerCleared
		t.Deadline = time.Time{}
	}
}

// Expire moves a running timer past its deadline to expired.
func (t *Timer) Expire(now time.Time) bool {
	if t.State != TimerRunning || now.Before(t.Deadline) {
		return false
	}
	t.State = TimerExpired
	return true
}

func (t Timer) Locked() bool {
	return t.State == TimerExpired
}

func (t Timer) Remaining(now time.Time) time.Duration {
	if t.State != TimerRunning {
		return 0
	}
	if d := t.Deadline.Sub(now); d > 0 {
		return d
	}
	return 0
}
