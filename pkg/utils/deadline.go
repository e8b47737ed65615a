package utils

import (
	"time"

	"github.com/sasha-s/go-deadlock"
)

const (
	deadlineIdle = iota
	deadlineActive
	deadlineExpired
)

// Deadline calls a function in its own goroutine once a fixed duration has
// elapsed after Start. Unlike time.Timer it can report how much time is
// left, which lets prompts tell a player how long they have to answer.
type Deadline struct {
	t  *time.Timer
	fn func()

	l         deadlock.Mutex
	state     int
	duration  time.Duration
	startedAt time.Time
}

func NewDeadline(d time.Duration, f func()) *Deadline {
	dl := &Deadline{
		duration: d,
	}
	dl.fn = func() {
		dl.l.Lock()
		dl.state = deadlineExpired
		dl.l.Unlock()
		f()
	}
	return dl
}

// Start arms the deadline. It returns false if the deadline was already
// started or has expired.
func (d *Deadline) Start() bool {
	d.l.Lock()
	defer d.l.Unlock()
	if d.state != deadlineIdle {
		return false
	}
	d.startedAt = time.Now()
	d.state = deadlineActive
	d.t = time.AfterFunc(d.duration, d.fn)
	return true
}

// Stop prevents the deadline from firing. It returns true if the call
// stopped it, false if it already fired or was never started.
func (d *Deadline) Stop() bool {
	d.l.Lock()
	defer d.l.Unlock()
	if d.state != deadlineActive {
		return false
	}
	d.state = deadlineExpired
	return d.t.Stop()
}

func (d *Deadline) Expired() bool {
	d.l.Lock()
	defer d.l.Unlock()
	return d.state == deadlineExpired
}

// TimeLeft returns the duration left before the deadline fires. It is safe
// to call on a nil Deadline and returns 0 in that case.
func (d *Deadline) TimeLeft() time.Duration {
	if d == nil {
		return 0
	}

	d.l.Lock()
	defer d.l.Unlock()

	switch d.state {
	case deadlineIdle:
		return d.duration
	case deadlineActive:
		return d.duration - time.Since(d.startedAt)
	default:
		return 0
	}
}
