package agent

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// EnsureSession makes sure a live, logged-in browser session exists. An
// existing handle is probed with a trivial URL read; a failing probe means
// the handle is stale and a fresh one is created. Creation navigates to the
// login page, runs the login flow and detects the current punch status.
func (a *Agent) EnsureSession(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ensureLocked(ctx)
}

func (a *Agent) ensureLocked(ctx context.Context) error {
	if a.browser != nil {
		_, err := a.browser.CurrentURL(ctx)
		if err == nil {
			a.active = true
			a.log.Info().Str("session", a.sessionID).Msg("existing browser session is still active")
			return nil
		}
		a.log.Warn().Err(err).Str("session", a.sessionID).Msg("browser session is stale, creating a new one")
		a.closeLocked()
	}

	if !a.creds().Complete() {
		return ErrNotConfigured
	}

	a.log.Info().Msg("initializing new browser session")
	browser, err := a.deps.Factory.New(ctx)
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	a.browser = browser
	a.active = true
	a.sessionID = uuid.NewString()

	if err := a.browser.Navigate(ctx, a.cfg.LoginURL); err != nil {
		a.closeLocked()
		return fmt.Errorf("open login page: %w", err)
	}
	if err := a.loginLocked(ctx); err != nil {
		a.log.Error().Err(err).Str("session", a.sessionID).Msg("login failed during session initialization")
		a.closeLocked()
		return err
	}
	a.log.Info().Str("session", a.sessionID).Msg("login successful, browser session initialized")

	if _, err := a.detectLocked(ctx); err != nil {
		a.log.Warn().Err(err).Msg("status check after login failed")
	}
	return nil
}

// CloseSession tears down the browser session. Idempotent; quit errors are
// swallowed.
func (a *Agent) CloseSession() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closeLocked()
}

func (a *Agent) closeLocked() {
	if a.browser != nil {
		if err := a.browser.Close(); err != nil {
			a.log.Warn().Err(err).Msg("browser quit failed")
		}
		a.browser = nil
		a.log.Info().Str("session", a.sessionID).Msg("browser session closed")
	}
	a.active = false
}

// RestartSession closes the current session and builds a fresh one.
func (a *Agent) RestartSession(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closeLocked()
	return a.ensureLocked(ctx)
}

// SessionActive reports whether a live session is currently held.
func (a *Agent) SessionActive() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}
