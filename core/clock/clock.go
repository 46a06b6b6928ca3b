// Package clock provides a time base that independently running windows agree
// on without exchanging any clock data: seconds since local midnight.
package clock

import "time"

// Clock reads wall time on every call. It holds no accumulated state, so two
// windows started at different moments compute the same phase for the same
// instant.
type Clock struct {
	now func() time.Time
}

// New returns a clock backed by time.Now.
func New() *Clock {
	return &Clock{now: time.Now}
}

// NewWithSource returns a clock that reads wall time from fn.
func NewWithSource(fn func() time.Time) *Clock {
	if fn == nil {
		fn = time.Now
	}
	return &Clock{now: fn}
}

// Now returns elapsed seconds since the most recent local midnight.
//
// The value drops back to zero when local midnight passes.
func (c *Clock) Now() float64 {
	return SinceMidnight(c.now())
}

// SinceMidnight returns the seconds elapsed between local midnight of t's day
// and t.
func SinceMidnight(t time.Time) float64 {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return t.Sub(midnight).Seconds()
}
