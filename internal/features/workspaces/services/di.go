package workspaces_services

import (
	"accessly-backend/internal/features/audit_logs"
	invitations_repositories "accessly-backend/internal/features/invitations/repositories"
	organizations_repositories "accessly-backend/internal/features/organizations/repositories"
	sites_repositories "accessly-backend/internal/features/sites/repositories"
	workspaces_repositories "accessly-backend/internal/features/workspaces/repositories"
	"accessly-backend/internal/storage"
)

var workspaceService = NewWorkspaceService(
	storage.GetDb(),
	workspaces_repositories.GetWorkspaceRepository(),
	workspaces_repositories.GetMembershipRepository(),
	organizations_repositories.GetMembershipRepository(),
	invitations_repositories.GetInvitationRepository(),
	sites_repositories.GetSiteRepository(),
	audit_logs.GetAuditLogService(),
)

func GetWorkspaceService() *WorkspaceService {
	return workspaceService
}
