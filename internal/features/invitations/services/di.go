package invitations_services

import (
	"accessly-backend/internal/features/audit_logs"
	invitations_interfaces "accessly-backend/internal/features/invitations/interfaces"
	invitations_repositories "accessly-backend/internal/features/invitations/repositories"
	"accessly-backend/internal/features/mailer"
	organizations_repositories "accessly-backend/internal/features/organizations/repositories"
	sites_repositories "accessly-backend/internal/features/sites/repositories"
	users_repositories "accessly-backend/internal/features/users/repositories"
	workspaces_repositories "accessly-backend/internal/features/workspaces/repositories"
	"accessly-backend/internal/storage"
)

var invitationService = NewInvitationService(
	storage.GetDb(),
	invitations_repositories.GetInvitationRepository(),
	users_repositories.GetUserRepository(),
	organizations_repositories.GetOrganizationRepository(),
	organizations_repositories.GetMembershipRepository(),
	workspaces_repositories.GetWorkspaceRepository(),
	workspaces_repositories.GetMembershipRepository(),
	sites_repositories.GetSiteRepository(),
	audit_logs.GetAuditLogService(),
	invitations_interfaces.NewRealClock(),
	invitations_interfaces.NewSecureTokenGenerator(),
	mailer.GetMailService(),
)

func GetInvitationService() *InvitationService {
	return invitationService
}
