package clock

import "time"

// Clock supplies the current time. Scheduling code never reads the system
// clock directly; it always goes through a Clock so tests can pin "now".
type Clock interface {
	Now() time.Time
}

// System is the wall clock used in production.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed always reports the same instant.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }
