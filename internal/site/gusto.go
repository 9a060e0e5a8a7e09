// Package site pins the parts of the Gusto web UI the agent depends on.
// These selectors are an external contract Gusto can change without notice;
// when the markup moves, this table is the only place to edit.
package site

import (
	"fmt"

	"github.com/punchbar/punchbar/internal/domain"
)

const (
	LoginURL     = "https://app.gusto.com/login"
	DashboardURL = "https://app.gusto.com/dashboard"
)

// Selectors are CSS unless prefixed with "//", which marks an XPath query.
const (
	EmailField       = `input[name='email']`
	PasswordField    = `input[type='password']`
	SubmitButton     = `button[type='submit']`
	TwoFactorField   = `input[name='code']`
	RememberCheckbox = `input[type='checkbox'][name='remember']`

	// Interstitial page offering to skip 2FA on future logins.
	RememberDeviceButton = `//button[.//span[contains(text(), 'Remember this device')]]`

	ClockInAction  = `[data-dd-action-name='Clock in']`
	ClockOutAction = `[data-dd-action-name='Clock out']`

	// Either clock action; presence is the definitive logged-in signal.
	AnyClockAction = `[data-dd-action-name='Clock in'], [data-dd-action-name='Clock out']`
)

// ClockActionSelector maps a clock action to its dashboard element.
func ClockActionSelector(a domain.ClockAction) string {
	return fmt.Sprintf(`[data-dd-action-name='Clock %s']`, a)
}
