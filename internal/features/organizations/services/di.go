package organizations_services

import (
	"accessly-backend/internal/features/audit_logs"
	invitations_repositories "accessly-backend/internal/features/invitations/repositories"
	organizations_repositories "accessly-backend/internal/features/organizations/repositories"
	sites_repositories "accessly-backend/internal/features/sites/repositories"
	users_repositories "accessly-backend/internal/features/users/repositories"
	workspaces_repositories "accessly-backend/internal/features/workspaces/repositories"
	"accessly-backend/internal/storage"
)

var organizationService = NewOrganizationService(
	storage.GetDb(),
	organizations_repositories.GetOrganizationRepository(),
	organizations_repositories.GetMembershipRepository(),
	users_repositories.GetUserRepository(),
	workspaces_repositories.GetWorkspaceRepository(),
	workspaces_repositories.GetMembershipRepository(),
	invitations_repositories.GetInvitationRepository(),
	sites_repositories.GetSiteRepository(),
	audit_logs.GetAuditLogService(),
)

func GetOrganizationService() *OrganizationService {
	return organizationService
}
