package domain

import (
	"fmt"
	"time"
)

// TimerState is the persisted side effect of punch status: the wall-clock
// moment of the last clock-in, nil while clocked out or unknown.
type TimerState struct {
	ClockedInAt *time.Time
}

// Running reports whether a clock-in timestamp is recorded.
func (t TimerState) Running() bool {
	return t.ClockedInAt != nil
}

// Elapsed formats time worked since clock-in as HH:MM, or "--:--" when no
// timer is running.
func (t TimerState) Elapsed(now time.Time) string {
	if t.ClockedInAt == nil {
		return "--:--"
	}
	d := now.Sub(*t.ClockedInAt)
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	minutes := int(d/time.Minute) % 60
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}
