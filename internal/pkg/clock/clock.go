package clock

import "time"

// Clock is the wall-clock source the core depends on. Lockout windows
// and transaction ids are derived from it, so tests inject their own.
type Clock interface {
	Now() time.Time
	NowMillis() int64
}

type systemClock struct{}

// New returns a Clock backed by time.Now.
func New() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) NowMillis() int64 {
	return time.Now().UnixMilli()
}

// Manual is a settable Clock for tests.
type Manual struct {
	Time time.Time
}

// NewManual returns a Manual clock starting at t.
func NewManual(t time.Time) *Manual {
	return &Manual{Time: t}
}

func (m *Manual) Now() time.Time {
	return m.Time
}

func (m *Manual) NowMillis() int64 {
	return m.Time.UnixMilli()
}

// Advance moves the manual clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.Time = m.Time.Add(d)
}
