//go:build !darwin

package macos

import "github.com/rs/zerolog/log"

type Prompter struct {
	appTitle string
}

func NewPrompter(appTitle string) *Prompter {
	return &Prompter{appTitle: appTitle}
}

func (p *Prompter) Credentials() (string, string, bool) {
	log.Warn().Msg("credential dialogs only supported on macOS")
	return "", "", false
}

func (p *Prompter) TwoFactorCode() (string, bool) {
	log.Warn().Msg("2FA dialog only supported on macOS")
	return "", false
}

func (p *Prompter) Alert(message string) {
	log.Info().Str("alert", message).Msg("alert dialog only supported on macOS")
}

type Notifier struct {
	appTitle string
}

func NewNotifier(appTitle string) *Notifier {
	return &Notifier{appTitle: appTitle}
}

func (n *Notifier) Notify(title, message string) {
	log.Info().Str("title", title).Str("message", message).Msg("notification")
}
