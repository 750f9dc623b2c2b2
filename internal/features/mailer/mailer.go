package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"net/url"
	"strings"
	"time"

	"accessly-backend/internal/config"
	"accessly-backend/internal/util/logger"

	"golang.org/x/time/rate"
)

// MailService delivers invitation emails over SMTP. Sends are rate limited so
// a burst of invites cannot trip provider throttling.
type MailService struct {
	host     string
	port     string
	username string
	password string
	from     string

	frontendURL string

	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewMailService(env *config.EnvVariables) *MailService {
	return &MailService{
		host:        env.SmtpHost,
		port:        env.SmtpPort,
		username:    env.SmtpUsername,
		password:    env.SmtpPassword,
		from:        env.SmtpFrom,
		frontendURL: strings.TrimRight(env.FrontendURL, "/"),
		limiter:     rate.NewLimiter(rate.Every(time.Second), 5),
		logger:      logger.GetLogger(),
	}
}

// SendOrganizationInvitation mails the join link for an organization-level
// invitation.
func (s *MailService) SendOrganizationInvitation(
	ctx context.Context,
	toEmail string,
	organizationName string,
	invitedByName string,
	role string,
	token string,
) error {
	link := fmt.Sprintf(
		"%s/organization-invitation?token=%s",
		s.frontendURL, url.QueryEscape(token),
	)

	subject := fmt.Sprintf("You have been invited to join %s", organizationName)
	body := fmt.Sprintf(
		invitationBodyTemplate,
		invitedByName,
		fmt.Sprintf("the organization <b>%s</b>", organizationName),
		strings.ToLower(role),
		link,
		link,
	)

	return s.send(ctx, toEmail, subject, body)
}

// SendWorkspaceInvitation mails the join link for a workspace-level
// invitation.
func (s *MailService) SendWorkspaceInvitation(
	ctx context.Context,
	toEmail string,
	workspaceName string,
	organizationName string,
	invitedByName string,
	role string,
	token string,
) error {
	link := fmt.Sprintf(
		"%s/workspace-invitation?token=%s",
		s.frontendURL, url.QueryEscape(token),
	)

	subject := fmt.Sprintf("You have been invited to join %s", workspaceName)
	body := fmt.Sprintf(
		invitationBodyTemplate,
		invitedByName,
		fmt.Sprintf("the workspace <b>%s</b> at %s", workspaceName, organizationName),
		strings.ToLower(role),
		link,
		link,
	)

	return s.send(ctx, toEmail, subject, body)
}

func (s *MailService) send(ctx context.Context, toEmail, subject, htmlBody string) error {
	if s.host == "" {
		s.logger.Warn("smtp is not configured, skipping email", "to", toEmail)
		return nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	message := strings.Join([]string{
		"From: " + s.from,
		"To: " + toEmail,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		htmlBody,
	}, "\r\n")

	addr := s.host + ":" + s.port

	var auth smtp.Auth
	if s.username != "" {
		auth = newSMTPLoginAuth(s.username, s.password)
	}

	if err := smtp.SendMail(addr, auth, s.from, []string{toEmail}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	return nil
}

const invitationBodyTemplate = `<html>
<body style="font-family: sans-serif; color: #222;">
  <p>%s has invited you to join %s as a %s.</p>
  <p><a href="%s">Accept the invitation</a></p>
  <p>The invitation is valid for 14 days. If the button does not work, copy
  this link into your browser:</p>
  <p>%s</p>
</body>
</html>`
