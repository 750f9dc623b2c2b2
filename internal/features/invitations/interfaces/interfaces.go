package invitations_interfaces

import (
	"context"
	"time"

	"accessly-backend/internal/util/random"
)

// Clock supplies the current time so expiry logic stays testable.
type Clock interface {
	Now() time.Time
}

// TokenGenerator produces opaque invitation tokens.
type TokenGenerator interface {
	Generate() string
}

// MailSender delivers invitation emails. Implemented by the mailer feature;
// defined here so the invitation flow does not depend on SMTP details.
type MailSender interface {
	SendOrganizationInvitation(
		ctx context.Context,
		toEmail string,
		organizationName string,
		invitedByName string,
		role string,
		token string,
	) error

	SendWorkspaceInvitation(
		ctx context.Context,
		toEmail string,
		workspaceName string,
		organizationName string,
		invitedByName string,
		role string,
		token string,
	) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

func NewRealClock() Clock { return realClock{} }

type secureTokenGenerator struct{}

func (secureTokenGenerator) Generate() string {
	token, err := random.GenerateSecureToken()
	if err != nil {
		// crypto/rand failing means the process cannot do anything useful
		panic(err)
	}

	return token
}

func NewSecureTokenGenerator() TokenGenerator { return secureTokenGenerator{} }
