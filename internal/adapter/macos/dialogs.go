//go:build darwin

// Package macos shows modal dialogs and notifications through osascript,
// keeping the host-UI surface a thin shell over what macOS already provides.
package macos

import (
	"fmt"
	"os/exec"
	"strings"
)

type Prompter struct {
	appTitle string
}

func NewPrompter(appTitle string) *Prompter {
	return &Prompter{appTitle: appTitle}
}

func (p *Prompter) Credentials() (string, string, bool) {
	email, ok := textDialog("Please enter your Gusto email:", p.appTitle+" Setup", false)
	if !ok {
		return "", "", false
	}
	password, ok := textDialog("Please enter your Gusto password:", p.appTitle+" Setup", true)
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(email), strings.TrimSpace(password), true
}

func (p *Prompter) TwoFactorCode() (string, bool) {
	code, ok := textDialog("Please enter your 6-digit verification code:", "Gusto 2FA", false)
	return strings.TrimSpace(code), ok
}

func (p *Prompter) Alert(message string) {
	script := fmt.Sprintf(`display alert %q`, p.appTitle) +
		fmt.Sprintf(` message %q`, message)
	_ = exec.Command("osascript", "-e", script).Run()
}

// textDialog shows a modal text-entry dialog and returns the entered text.
// ok is false when the user cancels.
func textDialog(prompt, title string, hidden bool) (string, bool) {
	script := fmt.Sprintf(`display dialog %q with title %q default answer ""`, prompt, title)
	if hidden {
		script += " with hidden answer"
	}
	out, err := exec.Command("osascript", "-e", script).Output()
	if err != nil {
		// Non-zero exit means the dialog was cancelled.
		return "", false
	}
	return parseTextReturned(string(out)), true
}

// parseTextReturned extracts the answer from osascript's record output,
// e.g. "button returned:OK, text returned:hello".
func parseTextReturned(out string) string {
	const marker = "text returned:"
	idx := strings.Index(out, marker)
	if idx < 0 {
		return ""
	}
	return strings.TrimRight(out[idx+len(marker):], "\n")
}

type Notifier struct {
	appTitle string
}

func NewNotifier(appTitle string) *Notifier {
	return &Notifier{appTitle: appTitle}
}

func (n *Notifier) Notify(title, message string) {
	script := fmt.Sprintf(`display notification %q with title %q subtitle %q`,
		message, n.appTitle, title)
	_ = exec.Command("osascript", "-e", script).Run()
}
