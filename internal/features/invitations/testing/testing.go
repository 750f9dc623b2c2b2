package invitations_testing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"accessly-backend/internal/features/audit_logs"
	invitations_repositories "accessly-backend/internal/features/invitations/repositories"
	invitations_services "accessly-backend/internal/features/invitations/services"
	organizations_repositories "accessly-backend/internal/features/organizations/repositories"
	sites_repositories "accessly-backend/internal/features/sites/repositories"
	users_repositories "accessly-backend/internal/features/users/repositories"
	workspaces_repositories "accessly-backend/internal/features/workspaces/repositories"
	test_utils "accessly-backend/internal/util/testing"

	"github.com/google/uuid"
)

// FakeClock is a controllable clock for expiry tests.
type FakeClock struct {
	Current time.Time
}

func NewFakeClock() *FakeClock {
	return &FakeClock{Current: time.Now().UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.Current
}

func (c *FakeClock) Advance(d time.Duration) {
	c.Current = c.Current.Add(d)
}

// SequenceTokenGenerator issues predictable unique tokens.
type SequenceTokenGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

func NewSequenceTokenGenerator() *SequenceTokenGenerator {
	return &SequenceTokenGenerator{prefix: uuid.New().String()[:8]}
}

func (g *SequenceTokenGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.next++

	return fmt.Sprintf("tok-%s-%06d", g.prefix, g.next)
}

// SentEmail records one delivery attempt made through the RecordingMailSender.
type SentEmail struct {
	To            string
	Organization  string
	Workspace     string
	InvitedByName string
	Role          string
	Token         string
}

// RecordingMailSender captures outgoing invitation emails instead of talking
// to an SMTP server. Set Err to simulate delivery failures.
type RecordingMailSender struct {
	mu   sync.Mutex
	Sent []SentEmail
	Err  error
}

func (m *RecordingMailSender) SendOrganizationInvitation(
	_ context.Context,
	toEmail, organizationName, invitedByName, role, token string,
) error {
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Sent = append(m.Sent, SentEmail{
		To:            toEmail,
		Organization:  organizationName,
		InvitedByName: invitedByName,
		Role:          role,
		Token:         token,
	})

	return nil
}

func (m *RecordingMailSender) SendWorkspaceInvitation(
	_ context.Context,
	toEmail, workspaceName, organizationName, invitedByName, role, token string,
) error {
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Sent = append(m.Sent, SentEmail{
		To:            toEmail,
		Organization:  organizationName,
		Workspace:     workspaceName,
		InvitedByName: invitedByName,
		Role:          role,
		Token:         token,
	})

	return nil
}

// NewTestInvitationService wires an InvitationService over the test database
// with the given fakes instead of the real clock, token source and mailer.
func NewTestInvitationService(
	clock *FakeClock,
	tokenGenerator *SequenceTokenGenerator,
	mailSender *RecordingMailSender,
) *invitations_services.InvitationService {
	db := test_utils.PrepareTestDb()

	return invitations_services.NewInvitationService(
		db,
		invitations_repositories.NewInvitationRepository(db),
		users_repositories.NewUserRepository(db),
		organizations_repositories.NewOrganizationRepository(db),
		organizations_repositories.NewMembershipRepository(db),
		workspaces_repositories.NewWorkspaceRepository(db),
		workspaces_repositories.NewMembershipRepository(db),
		sites_repositories.NewSiteRepository(db),
		audit_logs.GetAuditLogService(),
		clock,
		tokenGenerator,
		mailSender,
	)
}
