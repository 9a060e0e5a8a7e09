package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/punchbar/punchbar/internal/site"
)

// loginState tracks progression through the scripted login for logging.
type loginState string

const (
	stateNotLoggedIn      loginState = "not_logged_in"
	stateEmailEntered     loginState = "email_entered"
	statePasswordEntered  loginState = "password_entered"
	stateTwoFactorPending loginState = "two_factor_pending"
	stateLoggedIn         loginState = "logged_in"
)

// Bounded waits per login step. Optional steps get short probes; the final
// logged-in confirmation gets the generous one.
const (
	loggedInProbeTimeout  = 3 * time.Second
	emailFieldTimeout     = 3 * time.Second
	passwordFieldTimeout  = 5 * time.Second
	rememberCheckTimeout  = 3 * time.Second
	submitButtonTimeout   = 5 * time.Second
	twoFactorProbeTimeout = 5 * time.Second
	rememberPageTimeout   = 5 * time.Second
	loginConfirmTimeout   = 10 * time.Second

	transitionPause = time.Second
)

// loginLocked walks the login form: email, password, optional 2FA, optional
// remember-device interstitial. A timeout on an optional step means "element
// not present" and the flow proceeds; a timeout on a required step aborts.
// Caller holds a.mu.
func (a *Agent) loginLocked(ctx context.Context) error {
	state := stateNotLoggedIn
	creds := a.creds()
	log := a.log.With().Str("session", a.sessionID).Logger()
	log.Info().Str("state", string(state)).Msg("starting login flow")

	// A live dashboard means cookies from the profile did the work already.
	found, err := a.browser.TryFind(ctx, site.AnyClockAction, loggedInProbeTimeout)
	if err != nil {
		return fmt.Errorf("probe for logged-in state: %w", err)
	}
	if found {
		log.Info().Msg("already logged in")
		return nil
	}

	found, err = a.browser.TryFind(ctx, site.EmailField, emailFieldTimeout)
	if err != nil {
		return fmt.Errorf("look for email field: %w", err)
	}
	if found {
		if err := a.browser.Clear(ctx, site.EmailField); err != nil {
			return fmt.Errorf("clear email field: %w", err)
		}
		if err := a.browser.SendKeys(ctx, site.EmailField, creds.Email); err != nil {
			return fmt.Errorf("enter email: %w", err)
		}
		if err := a.clickSubmit(ctx); err != nil {
			return err
		}
		state = stateEmailEntered
		log.Info().Str("state", string(state)).Msg("submitted email")
		sleep(ctx, transitionPause)
	} else {
		log.Info().Msg("no email field found, assuming returning-user flow")
	}

	found, err = a.browser.TryFind(ctx, site.PasswordField, passwordFieldTimeout)
	if err != nil {
		return fmt.Errorf("look for password field: %w", err)
	}
	if !found {
		return fmt.Errorf("password field never appeared: %w", ErrLoginFailed)
	}
	if err := a.browser.Clear(ctx, site.PasswordField); err != nil {
		return fmt.Errorf("clear password field: %w", err)
	}
	if err := a.browser.SendKeys(ctx, site.PasswordField, creds.Password); err != nil {
		return fmt.Errorf("enter password: %w", err)
	}
	a.checkRememberDevice(ctx)
	if err := a.clickSubmit(ctx); err != nil {
		return err
	}
	state = statePasswordEntered
	log.Info().Str("state", string(state)).Msg("submitted password")

	found, err = a.browser.TryFind(ctx, site.TwoFactorField, twoFactorProbeTimeout)
	if err != nil {
		return fmt.Errorf("probe for 2FA field: %w", err)
	}
	if found {
		state = stateTwoFactorPending
		log.Info().Str("state", string(state)).Msg("2FA required")
		code, ok := a.deps.Prompter.TwoFactorCode()
		if !ok || strings.TrimSpace(code) == "" {
			return ErrTwoFactorCancelled
		}
		if err := a.browser.SendKeys(ctx, site.TwoFactorField, strings.TrimSpace(code)); err != nil {
			return fmt.Errorf("enter 2FA code: %w", err)
		}
		a.checkRememberDevice(ctx)
		if err := a.clickSubmit(ctx); err != nil {
			return err
		}
		log.Info().Msg("2FA code submitted")
	} else {
		log.Info().Msg("no 2FA required")
	}

	a.dismissRememberDevicePage(ctx)

	found, err = a.browser.TryFind(ctx, site.AnyClockAction, loginConfirmTimeout)
	if err != nil {
		return fmt.Errorf("confirm login: %w", err)
	}
	if !found {
		return fmt.Errorf("dashboard never showed a clock action: %w", ErrLoginFailed)
	}
	state = stateLoggedIn
	log.Info().Str("state", string(state)).Msg("successfully logged in")
	return nil
}

// clickSubmit waits for the form's submit button and clicks it. The button is
// required wherever this is called.
func (a *Agent) clickSubmit(ctx context.Context) error {
	found, err := a.browser.TryFind(ctx, site.SubmitButton, submitButtonTimeout)
	if err != nil {
		return fmt.Errorf("look for submit button: %w", err)
	}
	if !found {
		return fmt.Errorf("submit button never appeared: %w", ErrLoginFailed)
	}
	if err := a.browser.Click(ctx, site.SubmitButton); err != nil {
		return fmt.Errorf("click submit: %w", err)
	}
	return nil
}

// checkRememberDevice ticks the "remember this device" checkbox when the page
// offers one. Absence or failure is not fatal.
func (a *Agent) checkRememberDevice(ctx context.Context) {
	found, err := a.browser.TryFind(ctx, site.RememberCheckbox, rememberCheckTimeout)
	if err != nil || !found {
		a.log.Info().Msg("no remember-device checkbox on this page")
		return
	}
	checked, err := a.browser.IsChecked(ctx, site.RememberCheckbox)
	if err != nil {
		a.log.Warn().Err(err).Msg("read remember-device checkbox")
		return
	}
	if !checked {
		if err := a.browser.Click(ctx, site.RememberCheckbox); err != nil {
			a.log.Warn().Err(err).Msg("tick remember-device checkbox")
			return
		}
		a.log.Info().Msg("selected remember-device checkbox")
	}
}

// dismissRememberDevicePage clicks through the interstitial confirmation page
// that may appear after 2FA. Returns whether the page was present.
func (a *Agent) dismissRememberDevicePage(ctx context.Context) bool {
	found, err := a.browser.TryFind(ctx, site.RememberDeviceButton, rememberPageTimeout)
	if err != nil {
		a.log.Warn().Err(err).Msg("probe for remember-device page")
		return false
	}
	if !found {
		a.log.Info().Msg("no remember-device page, continuing")
		return false
	}
	if err := a.browser.Click(ctx, site.RememberDeviceButton); err != nil {
		a.log.Warn().Err(err).Msg("dismiss remember-device page")
		return false
	}
	a.log.Info().Msg("dismissed remember-device page")
	sleep(ctx, transitionPause)
	return true
}
