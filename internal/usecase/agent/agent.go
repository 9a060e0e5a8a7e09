// Package agent holds the automation core: one browser session guarded by one
// mutex, the scripted login flow, dashboard status detection, and the clock
// in/out executor. Everything that touches the browser serializes on
// Agent.mu; punch status and timer state live behind a separate read lock so
// the menu can render while a flow is mid-wait.
package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/punchbar/punchbar/internal/domain"
	"github.com/punchbar/punchbar/internal/port"
	"github.com/punchbar/punchbar/internal/site"
)

var (
	// ErrNotConfigured means no complete credentials are stored yet.
	ErrNotConfigured = errors.New("credentials not configured")

	// ErrLoginFailed means a required login step did not complete.
	ErrLoginFailed = errors.New("login failed")

	// ErrTwoFactorCancelled means the user dismissed the 2FA code dialog
	// or submitted an empty code.
	ErrTwoFactorCancelled = errors.New("two-factor code entry cancelled")

	// ErrAlreadyInState means the requested clock action matches the
	// current punch status; a benign outcome, not a failure.
	ErrAlreadyInState = errors.New("already in requested state")

	// ErrSetupCancelled means the credentials dialog was dismissed.
	ErrSetupCancelled = errors.New("setup cancelled")
)

// Config carries the target URLs and the detection retry count. Zero URLs
// fall back to the Gusto site contract; DetectRetries is taken as given,
// its default of 1 lives in the tunables package.
type Config struct {
	LoginURL      string
	DashboardURL  string
	DetectRetries int
}

func (c Config) withDefaults() Config {
	if c.LoginURL == "" {
		c.LoginURL = site.LoginURL
	}
	if c.DashboardURL == "" {
		c.DashboardURL = site.DashboardURL
	}
	return c
}

// Deps are the ports the agent drives.
type Deps struct {
	Factory  port.BrowserFactory
	Config   port.ConfigStore
	Timer    port.TimerStore
	Prompter port.Prompter
}

// Agent owns all mutable application state and the single browser session.
// Constructed once in main; there is no package-level state.
type Agent struct {
	cfg  Config
	deps Deps

	// mu serializes all browser work for its full duration.
	mu        sync.Mutex
	browser   port.Browser
	active    bool
	sessionID string

	// stateMu guards status, timer state and credentials.
	stateMu     sync.RWMutex
	status      domain.PunchStatus
	timerState  domain.TimerState
	credentials domain.Credentials

	onStatus func(domain.PunchStatus)
	now      func() time.Time
	log      zerolog.Logger
}

type Option func(*Agent)

// WithNowTime injects the clock, primarily for testing.
func WithNowTime(now func() time.Time) Option {
	return func(a *Agent) { a.now = now }
}

// WithStatusListener registers a hook invoked after every status transition.
// The hook runs while the automation mutex is held: listeners may read agent
// state (Status, ElapsedLine, TimerState) but must not call methods that
// drive the browser. The menu uses it to refresh item enablement.
func WithStatusListener(fn func(domain.PunchStatus)) Option {
	return func(a *Agent) { a.onStatus = fn }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(a *Agent) { a.log = logger }
}

func New(cfg Config, deps Deps, opts ...Option) *Agent {
	a := &Agent{
		cfg:      cfg.withDefaults(),
		deps:     deps,
		status:   domain.StatusUnknown,
		onStatus: func(domain.PunchStatus) {},
		now:      time.Now,
		log:      log.Logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// LoadState reads persisted credentials and timer state. Corrupt files are
// logged and treated as absent.
func (a *Agent) LoadState() {
	creds, err := a.deps.Config.Load()
	if err != nil {
		a.log.Error().Err(err).Msg("load credentials")
	}
	timer, err := a.deps.Timer.Load()
	if err != nil {
		a.log.Error().Err(err).Msg("load timer state")
	}
	a.stateMu.Lock()
	a.credentials = creds
	a.timerState = timer
	a.stateMu.Unlock()
}

// IsConfigured reports whether complete credentials are stored.
func (a *Agent) IsConfigured() bool {
	a.stateMu.RLock()
	defer a.stateMu.RUnlock()
	return a.credentials.Complete()
}

// Status returns the last detected punch status.
func (a *Agent) Status() domain.PunchStatus {
	a.stateMu.RLock()
	defer a.stateMu.RUnlock()
	return a.status
}

// ElapsedLine renders the "time clocked" menu line. Reads only stored state,
// never the browser, so the minute ticker cannot block on automation.
func (a *Agent) ElapsedLine() string {
	a.stateMu.RLock()
	defer a.stateMu.RUnlock()
	if a.status != domain.StatusIn {
		return "Time Clocked: --:--"
	}
	return "Time Clocked: " + a.timerState.Elapsed(a.now())
}

// TimerState returns a copy of the persisted timer state.
func (a *Agent) TimerState() domain.TimerState {
	a.stateMu.RLock()
	defer a.stateMu.RUnlock()
	return a.timerState
}

// Setup prompts for credentials, persists them, then rebuilds the session so
// 2FA and remember-device state land in the fresh browser profile.
func (a *Agent) Setup(ctx context.Context) error {
	email, password, ok := a.deps.Prompter.Credentials()
	if !ok {
		return ErrSetupCancelled
	}
	if email == "" || password == "" {
		a.deps.Prompter.Alert("Email and password are required")
		return fmt.Errorf("setup: %w", ErrNotConfigured)
	}

	creds := domain.Credentials{Email: email, Password: password}
	if err := a.deps.Config.Save(creds); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	a.stateMu.Lock()
	a.credentials = creds
	a.stateMu.Unlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	a.closeLocked()
	if err := a.ensureLocked(ctx); err != nil {
		return fmt.Errorf("setup login: %w", err)
	}
	a.deps.Prompter.Alert("Setup complete! You can now use the app to clock in and out.")
	return nil
}

// setStatus records a detected status, writes the timer side effect through
// to disk, and fires the status listener.
//
// The timer timestamp is non-nil iff status is "in": transitioning to "in"
// fills an absent timestamp, any other status clears it.
func (a *Agent) setStatus(s domain.PunchStatus) {
	a.stateMu.Lock()
	switch s {
	case domain.StatusIn:
		if a.timerState.ClockedInAt == nil {
			now := a.now()
			a.timerState.ClockedInAt = &now
		}
	default:
		a.timerState.ClockedInAt = nil
	}
	a.status = s
	timer := a.timerState
	a.stateMu.Unlock()

	if err := a.deps.Timer.Save(timer); err != nil {
		a.log.Error().Err(err).Msg("save timer state")
	}
	a.onStatus(s)
}

// applyClock records a successful clock action. Unlike setStatus, clocking in
// always stamps a fresh timestamp.
func (a *Agent) applyClock(action domain.ClockAction) {
	a.stateMu.Lock()
	if action == domain.ClockIn {
		now := a.now()
		a.timerState.ClockedInAt = &now
	} else {
		a.timerState.ClockedInAt = nil
	}
	a.status = action.Status()
	timer := a.timerState
	status := a.status
	a.stateMu.Unlock()

	if err := a.deps.Timer.Save(timer); err != nil {
		a.log.Error().Err(err).Msg("save timer state")
	}
	a.onStatus(status)
}

func (a *Agent) creds() domain.Credentials {
	a.stateMu.RLock()
	defer a.stateMu.RUnlock()
	return a.credentials
}

// sleep pauses for page transitions, honoring ctx.
func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
