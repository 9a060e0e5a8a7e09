package port

import "github.com/punchbar/punchbar/internal/domain"

// ConfigStore persists login credentials.
type ConfigStore interface {
	// Load returns zero credentials when no file exists yet.
	Load() (domain.Credentials, error)

	Save(domain.Credentials) error
}

// TimerStore persists the clock-in timestamp.
type TimerStore interface {
	// Load returns an empty state when no file exists yet.
	Load() (domain.TimerState, error)

	Save(domain.TimerState) error
}
