package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// smtpLoginAuth implements the LOGIN mechanism, which net/smtp does not
// ship. Some providers only offer LOGIN, so PLAIN alone is not enough.
type smtpLoginAuth struct {
	username string
	password string
}

func newSMTPLoginAuth(username, password string) smtp.Auth {
	return &smtpLoginAuth{username: username, password: password}
}

func (a *smtpLoginAuth) Start(_ *smtp.ServerInfo) (string, []byte, error) {
	return "LOGIN", nil, nil
}

func (a *smtpLoginAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	if !more {
		return nil, nil
	}

	prompt := strings.ToLower(strings.TrimSpace(string(fromServer)))

	switch {
	case strings.HasPrefix(prompt, "username"):
		return []byte(a.username), nil
	case strings.HasPrefix(prompt, "password"):
		return []byte(a.password), nil
	}

	return nil, fmt.Errorf("smtp login: unexpected server prompt %q", fromServer)
}
