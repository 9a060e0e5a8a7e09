package domain

import "strings"

// Credentials are the login details for the payroll account.
type Credentials struct {
	Email    string
	Password string
}

// Complete reports whether both fields are set.
func (c Credentials) Complete() bool {
	return strings.TrimSpace(c.Email) != "" && strings.TrimSpace(c.Password) != ""
}
