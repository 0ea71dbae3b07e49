package clock

import "time"

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func NewRealClock() Clock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}

// SecondsUntil returns the whole seconds from the clock's current time until t,
// floored at zero. Used for lock expiry countdowns.
func SecondsUntil(c Clock, t time.Time) int64 {
	remaining := t.Sub(c.Now())
	if remaining <= 0 {
		return 0
	}
	return int64(remaining / time.Second)
}

type MockClock struct {
	currentTime time.Time
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{currentTime: t}
}

func (c *MockClock) Now() time.Time {
	return c.currentTime
}

func (c *MockClock) Set(t time.Time) {
	c.currentTime = t
}

func (c *MockClock) Add(d time.Duration) {
	c.currentTime = c.currentTime.Add(d)
}
