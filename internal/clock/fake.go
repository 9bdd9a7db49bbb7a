package clock

import "time"

// FakeClock pins Now for tests that assert on analysis dates, upload dates,
// and trend windows. Not safe for concurrent Advance.
type FakeClock struct {
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward, e.g. across month boundaries when
// exercising trend bucketing.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
