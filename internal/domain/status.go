package domain

// PunchStatus is the clocked-in/out state inferred from the payroll dashboard.
type PunchStatus string

const (
	StatusIn      PunchStatus = "in"
	StatusOut     PunchStatus = "out"
	StatusUnknown PunchStatus = "unknown"
)

// ClockAction is a punch the agent can perform on the dashboard.
type ClockAction string

const (
	ClockIn  ClockAction = "in"
	ClockOut ClockAction = "out"
)

// Status returns the punch status a successful action leads to.
func (a ClockAction) Status() PunchStatus {
	if a == ClockIn {
		return StatusIn
	}
	return StatusOut
}

// EnabledActions derives which clock actions the menu should offer for a
// status. Unknown enables both so the user can recover manually.
func EnabledActions(s PunchStatus) (clockIn, clockOut bool) {
	switch s {
	case StatusOut:
		return true, false
	case StatusIn:
		return false, true
	default:
		return true, true
	}
}

// TitleGlyph is the menu-bar icon text for a status.
func TitleGlyph(s PunchStatus) string {
	switch s {
	case StatusIn:
		return "⏱☑"
	case StatusOut:
		return "⏱☒"
	default:
		return "⏱"
	}
}
