package core

import "time"

// NowFunc returns the current time. Clocks take one so tests can drive time by hand.
type NowFunc func() time.Time

type Clock struct {
	now       NowFunc
	startTime time.Time
	started   bool
	elapsed   time.Duration
}

func NewClock() *Clock {
	return NewClockWithSource(time.Now)
}

func NewClockWithSource(now NowFunc) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Updates the provided clock. Should be called just before checking elapsed time.
// Has no effect on non-started clocks.
func (c *Clock) Update() {
	if c.started {
		c.elapsed = c.now().Sub(c.startTime)
	}
}

// Starts the provided clock. Resets elapsed time.
func (c *Clock) Start() {
	c.startTime = c.now()
	c.started = true
	c.elapsed = 0
}

// Stops the provided clock. Does not reset elapsed time.
func (c *Clock) Stop() {
	c.started = false
}

// Elapsed returns the seconds between Start and the last Update.
func (c *Clock) Elapsed() float64 {
	return c.elapsed.Seconds()
}

func (c *Clock) Now() time.Time {
	return c.now()
}
