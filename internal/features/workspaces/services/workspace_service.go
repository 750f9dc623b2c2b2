package workspaces_services

import (
	"fmt"
	"log/slog"

	"accessly-backend/internal/features/access"
	"accessly-backend/internal/features/audit_logs"
	invitations_repositories "accessly-backend/internal/features/invitations/repositories"
	organizations_enums "accessly-backend/internal/features/organizations/enums"
	organizations_repositories "accessly-backend/internal/features/organizations/repositories"
	sites_repositories "accessly-backend/internal/features/sites/repositories"
	users_models "accessly-backend/internal/features/users/models"
	workspaces_dto "accessly-backend/internal/features/workspaces/dto"
	workspaces_enums "accessly-backend/internal/features/workspaces/enums"
	workspaces_models "accessly-backend/internal/features/workspaces/models"
	workspaces_repositories "accessly-backend/internal/features/workspaces/repositories"
	"accessly-backend/internal/storage"
	"accessly-backend/internal/util/apperrors"
	"accessly-backend/internal/util/logger"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// aliasRetryLimit bounds how many suffixed aliases we try before giving up.
const aliasRetryLimit = 50

type WorkspaceService struct {
	db *gorm.DB

	workspaceRepository  *workspaces_repositories.WorkspaceRepository
	membershipRepository *workspaces_repositories.MembershipRepository

	organizationMembershipRepository *organizations_repositories.MembershipRepository
	invitationRepository             *invitations_repositories.InvitationRepository
	siteRepository                   *sites_repositories.SiteRepository

	auditLogService *audit_logs.AuditLogService

	logger *slog.Logger
}

func NewWorkspaceService(
	db *gorm.DB,
	workspaceRepository *workspaces_repositories.WorkspaceRepository,
	membershipRepository *workspaces_repositories.MembershipRepository,
	organizationMembershipRepository *organizations_repositories.MembershipRepository,
	invitationRepository *invitations_repositories.InvitationRepository,
	siteRepository *sites_repositories.SiteRepository,
	auditLogService *audit_logs.AuditLogService,
) *WorkspaceService {
	return &WorkspaceService{
		db:                               db,
		workspaceRepository:              workspaceRepository,
		membershipRepository:             membershipRepository,
		organizationMembershipRepository: organizationMembershipRepository,
		invitationRepository:             invitationRepository,
		siteRepository:                   siteRepository,
		auditLogService:                  auditLogService,
		logger:                           logger.GetLogger(),
	}
}

// CreateWorkspace creates the workspace and the creator's OWNER membership in
// one transaction. The alias is slugified from the name and made unique
// within the organization.
func (s *WorkspaceService) CreateWorkspace(
	user *users_models.User,
	request *workspaces_dto.CreateWorkspaceRequestDTO,
) (*workspaces_models.Workspace, error) {
	organizationMembership, err := s.organizationMembershipRepository.
		GetMembership(user.ID, request.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization membership: %w", err)
	}

	if organizationMembership == nil ||
		organizationMembership.Status != organizations_enums.OrganizationMembershipStatusActive {
		return nil, apperrors.NewForbidden("user is not an active member of this organization")
	}

	if !access.CanManageOrganization(organizationMembership.Role) {
		return nil, apperrors.NewForbidden("only owners and admins can create workspaces")
	}

	alias, err := s.resolveAlias(request.OrganizationID, request.Name)
	if err != nil {
		return nil, err
	}

	workspace := &workspaces_models.Workspace{
		ID:             uuid.New(),
		OrganizationID: request.OrganizationID,
		Name:           request.Name,
		Alias:          alias,
		CreatedBy:      user.ID,
	}

	err = storage.RunInTransaction(s.db, func(tx *gorm.DB) error {
		if err := s.workspaceRepository.WithTx(tx).CreateWorkspace(workspace); err != nil {
			if storage.IsUniqueViolationOn(err, workspaces_models.UniqueAliasConstraint) {
				return apperrors.NewConflict("workspace alias is already taken")
			}

			return fmt.Errorf("failed to create workspace: %w", err)
		}

		membership := &workspaces_models.WorkspaceMembership{
			UserID:      user.ID,
			WorkspaceID: workspace.ID,
			Role:        workspaces_enums.WorkspaceRoleOwner,
			Status:      workspaces_enums.WorkspaceMembershipStatusActive,
		}

		if err := s.membershipRepository.WithTx(tx).CreateMembership(membership); err != nil {
			return fmt.Errorf("failed to create owner membership: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditLogService.WriteAuditLog(
		&request.OrganizationID, &workspace.ID, &user.ID,
		"workspace.created",
		fmt.Sprintf("Workspace %s created", workspace.Name),
	)

	return workspace, nil
}

func (s *WorkspaceService) GetWorkspace(
	user *users_models.User,
	workspaceID uuid.UUID,
) (*workspaces_models.Workspace, error) {
	workspace, _, err := s.requireMembership(user, workspaceID)
	if err != nil {
		return nil, err
	}

	return workspace, nil
}

func (s *WorkspaceService) ListWorkspacesForUser(
	user *users_models.User,
	organizationID uuid.UUID,
) (*workspaces_dto.ListWorkspacesResponseDTO, error) {
	rows, err := s.workspaceRepository.ListForUser(organizationID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}

	response := &workspaces_dto.ListWorkspacesResponseDTO{
		Workspaces: make([]workspaces_dto.WorkspaceResponseDTO, 0, len(rows)),
	}

	for _, row := range rows {
		role := row.UserRole

		response.Workspaces = append(response.Workspaces, workspaces_dto.WorkspaceResponseDTO{
			ID:             row.ID,
			OrganizationID: row.OrganizationID,
			Name:           row.Name,
			Alias:          row.Alias,
			CreatedAt:      row.CreatedAt,
			UserRole:       &role,
		})
	}

	return response, nil
}

// UpdateWorkspace renames the workspace. The alias is recomputed from the new
// name so links stay readable.
func (s *WorkspaceService) UpdateWorkspace(
	user *users_models.User,
	workspaceID uuid.UUID,
	request *workspaces_dto.UpdateWorkspaceRequestDTO,
) (*workspaces_models.Workspace, error) {
	workspace, membership, err := s.requireMembership(user, workspaceID)
	if err != nil {
		return nil, err
	}

	if !access.CanManageWorkspace(membership.Role) {
		return nil, apperrors.NewForbidden("only owners and admins can update the workspace")
	}

	if request.Name == workspace.Name {
		return workspace, nil
	}

	alias, err := s.resolveAlias(workspace.OrganizationID, request.Name)
	if err != nil {
		return nil, err
	}

	workspace.Name = request.Name
	workspace.Alias = alias

	if err := s.workspaceRepository.UpdateWorkspace(workspace); err != nil {
		if storage.IsUniqueViolationOn(err, workspaces_models.UniqueAliasConstraint) {
			return nil, apperrors.NewConflict("workspace alias is already taken")
		}

		return nil, fmt.Errorf("failed to update workspace: %w", err)
	}

	return workspace, nil
}

// DeleteWorkspace removes the workspace with its memberships, invitations and
// sites. Only the workspace owner may do this.
func (s *WorkspaceService) DeleteWorkspace(
	user *users_models.User,
	workspaceID uuid.UUID,
) error {
	workspace, membership, err := s.requireMembership(user, workspaceID)
	if err != nil {
		return err
	}

	if !access.IsWorkspaceOwner(membership.Role) {
		return apperrors.NewForbidden("only the owner can delete the workspace")
	}

	err = storage.RunInTransaction(s.db, func(tx *gorm.DB) error {
		if err := s.siteRepository.WithTx(tx).DeleteByWorkspace(workspaceID); err != nil {
			return fmt.Errorf("failed to delete sites: %w", err)
		}

		if err := s.invitationRepository.WithTx(tx).DeleteByWorkspace(workspaceID); err != nil {
			return fmt.Errorf("failed to delete invitations: %w", err)
		}

		if err := s.membershipRepository.WithTx(tx).DeleteByWorkspace(workspaceID); err != nil {
			return fmt.Errorf("failed to delete memberships: %w", err)
		}

		if err := s.workspaceRepository.WithTx(tx).DeleteWorkspace(workspaceID); err != nil {
			return fmt.Errorf("failed to delete workspace: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.auditLogService.WriteAuditLog(
		&workspace.OrganizationID, &workspaceID, &user.ID,
		"workspace.deleted",
		fmt.Sprintf("Workspace %s deleted", workspace.Name),
	)

	return nil
}

func (s *WorkspaceService) GetWorkspaceMembers(
	user *users_models.User,
	workspaceID uuid.UUID,
) (*workspaces_dto.GetWorkspaceMembersResponseDTO, error) {
	if _, _, err := s.requireMembership(user, workspaceID); err != nil {
		return nil, err
	}

	members, err := s.membershipRepository.GetWorkspaceMembers(workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	response := &workspaces_dto.GetWorkspaceMembersResponseDTO{
		Members: make([]workspaces_dto.WorkspaceMemberResponseDTO, 0, len(members)),
	}

	for _, member := range members {
		response.Members = append(response.Members, *member)
	}

	return response, nil
}

func (s *WorkspaceService) GetWorkspaceByID(
	workspaceID uuid.UUID,
) (*workspaces_models.Workspace, error) {
	return s.workspaceRepository.GetWorkspaceByID(workspaceID)
}

// resolveAlias slugifies the name and appends -2, -3, ... until the alias is
// free inside the organization.
func (s *WorkspaceService) resolveAlias(
	organizationID uuid.UUID,
	name string,
) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "workspace"
	}

	candidate := base
	for i := 2; i <= aliasRetryLimit; i++ {
		existing, err := s.workspaceRepository.GetWorkspaceByAlias(organizationID, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check alias: %w", err)
		}

		if existing == nil {
			return candidate, nil
		}

		candidate = fmt.Sprintf("%s-%d", base, i)
	}

	return "", apperrors.NewConflict("could not find a free workspace alias")
}

// requireMembership resolves the workspace and the caller's ACTIVE membership
// in it.
func (s *WorkspaceService) requireMembership(
	user *users_models.User,
	workspaceID uuid.UUID,
) (*workspaces_models.Workspace, *workspaces_models.WorkspaceMembership, error) {
	workspace, err := s.workspaceRepository.GetWorkspaceByID(workspaceID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	if workspace == nil {
		return nil, nil, apperrors.NewNotFound("workspace not found")
	}

	membership, err := s.membershipRepository.GetMembership(user.ID, workspaceID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get membership: %w", err)
	}

	if membership == nil ||
		membership.Status != workspaces_enums.WorkspaceMembershipStatusActive {
		return nil, nil, apperrors.NewForbidden("user is not an active member of this workspace")
	}

	return workspace, membership, nil
}
