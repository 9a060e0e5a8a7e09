package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/punchbar/punchbar/internal/domain"
	"github.com/punchbar/punchbar/internal/site"
)

const (
	clockButtonTimeout  = 10 * time.Second
	clockConfirmTimeout = 10 * time.Second
)

// Clock performs a clock in/out: navigate to the dashboard, dismiss any
// interstitial, wait for the matching action element, click it, and wait for
// the element to disappear as confirmation. A timeout on either wait is
// classified contextually: benign when the requested action matches the
// known status (ErrAlreadyInState), otherwise a genuine failure that
// rebuilds the session.
func (a *Agent) Clock(ctx context.Context, action domain.ClockAction) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.creds().Complete() {
		return ErrNotConfigured
	}
	if !a.active {
		if err := a.ensureLocked(ctx); err != nil {
			return err
		}
	}

	if err := a.browser.Navigate(ctx, a.cfg.DashboardURL); err != nil {
		a.log.Error().Err(err).Msg("navigate to dashboard failed, rebuilding session")
		a.closeLocked()
		if err := a.ensureLocked(ctx); err != nil {
			return fmt.Errorf("rebuild session for clock %s: %w", action, err)
		}
	}

	a.dismissRememberDevicePage(ctx)

	sel := site.ClockActionSelector(action)
	found, err := a.browser.TryFind(ctx, sel, clockButtonTimeout)
	if err != nil {
		a.closeLocked()
		return fmt.Errorf("look for clock %s action: %w", action, err)
	}
	if !found {
		if action.Status() == a.Status() {
			a.log.Info().Str("action", string(action)).Msg("already in requested state")
			return ErrAlreadyInState
		}
		a.log.Error().Str("action", string(action)).Msg("clock action not found, rebuilding session")
		a.closeLocked()
		if err := a.ensureLocked(ctx); err != nil {
			a.log.Error().Err(err).Msg("session rebuild after missing clock action failed")
		}
		return fmt.Errorf("clock %s action not found on dashboard", action)
	}

	if err := a.browser.Click(ctx, sel); err != nil {
		a.closeLocked()
		return fmt.Errorf("click clock %s action: %w", action, err)
	}

	gone, err := a.browser.WaitGone(ctx, sel, clockConfirmTimeout)
	if err != nil {
		a.closeLocked()
		return fmt.Errorf("confirm clock %s: %w", action, err)
	}
	if !gone {
		if action.Status() == a.Status() {
			a.log.Info().Str("action", string(action)).Msg("already in requested state")
			return ErrAlreadyInState
		}
		a.log.Error().Str("action", string(action)).Msg("clock action never confirmed, rebuilding session")
		a.closeLocked()
		if err := a.ensureLocked(ctx); err != nil {
			a.log.Error().Err(err).Msg("session rebuild after unconfirmed clock action failed")
		}
		return fmt.Errorf("clock %s not confirmed, action element still displayed", action)
	}

	a.applyClock(action)
	a.log.Info().Str("action", string(action)).Msg("clocked successfully")
	return nil
}
