package port

// Prompter shows modal input dialogs on the host. Calls block until the user
// responds; ok is false when the dialog is cancelled.
type Prompter interface {
	// Credentials asks for email then password (hidden input).
	Credentials() (email, password string, ok bool)

	// TwoFactorCode asks for the 6-digit verification code.
	TwoFactorCode() (code string, ok bool)

	// Alert shows a modal message.
	Alert(message string)
}

// Notifier posts transient notifications.
type Notifier interface {
	Notify(title, message string)
}
