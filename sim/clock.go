package sim

import "time"

// timeSource backs every Clock and object age in the kernel.
var timeSource = time.Now

// Now returns the kernel's current time.
func Now() time.Time {
	return timeSource()
}

// UseTimeSource replaces the kernel time source and returns a func that
// restores the previous one. Not safe for concurrent use with Interact.
func UseTimeSource(fn func() time.Time) (restore func()) {
	prev := timeSource
	timeSource = fn
	return func() { timeSource = prev }
}

// SteppedTime is a manual time source. Hosts advance it once per tick so
// that rate-based effects depend on simulated time, not wall time.
type SteppedTime struct {
	t time.Time
}

// NewSteppedTime creates a stepped source starting at start.
func NewSteppedTime(start time.Time) *SteppedTime {
	return &SteppedTime{t: start}
}

// Now returns the current stepped time.
func (s *SteppedTime) Now() time.Time {
	return s.t
}

// Advance moves time forward by d.
func (s *SteppedTime) Advance(d time.Duration) {
	s.t = s.t.Add(d)
}

// AdvanceSeconds moves time forward by sec seconds.
func (s *SteppedTime) AdvanceSeconds(sec float64) {
	s.Advance(time.Duration(sec * float64(time.Second)))
}

// Clock is a stopwatch over the kernel time source.
type Clock struct {
	last time.Time
}

// NewClock creates a clock anchored at the current time.
func NewClock() *Clock {
	return &Clock{last: Now()}
}

// ElapsedTime returns the seconds since the previous call (or since the
// clock was created or reset) and re-anchors the clock.
func (c *Clock) ElapsedTime() float64 {
	now := Now()
	d := now.Sub(c.last).Seconds()
	c.last = now
	return d
}

// Reset re-anchors the clock at the current time.
func (c *Clock) Reset() {
	c.last = Now()
}
