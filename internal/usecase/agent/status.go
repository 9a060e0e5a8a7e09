package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/punchbar/punchbar/internal/domain"
	"github.com/punchbar/punchbar/internal/site"
)

const statusProbeTimeout = 5 * time.Second

// CheckStatus navigates to the dashboard and detects the current punch
// status, establishing a session first if needed. This is the sole place
// status is computed; every transition writes through to the timer file.
func (a *Agent) CheckStatus(ctx context.Context) (domain.PunchStatus, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.creds().Complete() {
		return domain.StatusUnknown, ErrNotConfigured
	}
	if !a.active {
		if err := a.ensureLocked(ctx); err != nil {
			return domain.StatusUnknown, err
		}
		// ensureLocked already ran detection on the fresh dashboard.
		return a.Status(), nil
	}

	if err := a.browser.Navigate(ctx, a.cfg.DashboardURL); err != nil {
		a.log.Error().Err(err).Msg("navigate to dashboard failed, rebuilding session")
		a.closeLocked()
		if err := a.ensureLocked(ctx); err != nil {
			return domain.StatusUnknown, err
		}
		return a.Status(), nil
	}

	status, err := a.detectLocked(ctx)
	if err != nil {
		// Browser state after an error is unknowable; rebuild from scratch.
		a.setStatus(domain.StatusUnknown)
		a.closeLocked()
		if ensureErr := a.ensureLocked(ctx); ensureErr != nil {
			a.log.Error().Err(ensureErr).Msg("session rebuild after status error failed")
		}
		return domain.StatusUnknown, fmt.Errorf("check status: %w", err)
	}
	return status, nil
}

// detectLocked inspects the dashboard for a clock action element. A visible
// "Clock in" means we are out, "Clock out" means we are in. When neither
// shows, a remember-device interstitial is dismissed and detection retried up
// to the configured count before giving up as unknown. Caller holds a.mu.
func (a *Agent) detectLocked(ctx context.Context) (domain.PunchStatus, error) {
	for attempt := 0; ; attempt++ {
		found, err := a.browser.TryFind(ctx, site.ClockInAction, statusProbeTimeout)
		if err != nil {
			return domain.StatusUnknown, fmt.Errorf("look for clock-in action: %w", err)
		}
		if found {
			a.setStatus(domain.StatusOut)
			return domain.StatusOut, nil
		}

		found, err = a.browser.TryFind(ctx, site.ClockOutAction, statusProbeTimeout)
		if err != nil {
			return domain.StatusUnknown, fmt.Errorf("look for clock-out action: %w", err)
		}
		if found {
			a.setStatus(domain.StatusIn)
			return domain.StatusIn, nil
		}

		if attempt >= a.cfg.DetectRetries || !a.dismissRememberDevicePage(ctx) {
			break
		}
		a.log.Info().Int("attempt", attempt+1).Msg("retrying status detection after interstitial")
	}

	a.setStatus(domain.StatusUnknown)
	return domain.StatusUnknown, nil
}
