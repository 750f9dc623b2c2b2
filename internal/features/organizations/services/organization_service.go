package organizations_services

import (
	"fmt"
	"log/slog"

	"accessly-backend/internal/features/access"
	"accessly-backend/internal/features/audit_logs"
	invitations_repositories "accessly-backend/internal/features/invitations/repositories"
	organizations_dto "accessly-backend/internal/features/organizations/dto"
	organizations_enums "accessly-backend/internal/features/organizations/enums"
	organizations_models "accessly-backend/internal/features/organizations/models"
	organizations_repositories "accessly-backend/internal/features/organizations/repositories"
	sites_repositories "accessly-backend/internal/features/sites/repositories"
	users_models "accessly-backend/internal/features/users/models"
	users_repositories "accessly-backend/internal/features/users/repositories"
	workspaces_repositories "accessly-backend/internal/features/workspaces/repositories"
	"accessly-backend/internal/storage"
	"accessly-backend/internal/util/apperrors"
	"accessly-backend/internal/util/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrganizationService struct {
	db *gorm.DB

	organizationRepository *organizations_repositories.OrganizationRepository
	membershipRepository   *organizations_repositories.MembershipRepository
	userRepository         *users_repositories.UserRepository

	workspaceRepository           *workspaces_repositories.WorkspaceRepository
	workspaceMembershipRepository *workspaces_repositories.MembershipRepository
	invitationRepository          *invitations_repositories.InvitationRepository
	siteRepository                *sites_repositories.SiteRepository

	auditLogService *audit_logs.AuditLogService

	logger *slog.Logger
}

func NewOrganizationService(
	db *gorm.DB,
	organizationRepository *organizations_repositories.OrganizationRepository,
	membershipRepository *organizations_repositories.MembershipRepository,
	userRepository *users_repositories.UserRepository,
	workspaceRepository *workspaces_repositories.WorkspaceRepository,
	workspaceMembershipRepository *workspaces_repositories.MembershipRepository,
	invitationRepository *invitations_repositories.InvitationRepository,
	siteRepository *sites_repositories.SiteRepository,
	auditLogService *audit_logs.AuditLogService,
) *OrganizationService {
	return &OrganizationService{
		db:                            db,
		organizationRepository:        organizationRepository,
		membershipRepository:          membershipRepository,
		userRepository:                userRepository,
		workspaceRepository:           workspaceRepository,
		workspaceMembershipRepository: workspaceMembershipRepository,
		invitationRepository:          invitationRepository,
		siteRepository:                siteRepository,
		auditLogService:               auditLogService,
		logger:                        logger.GetLogger(),
	}
}

// CreateOrganization creates the organization together with the creator's
// OWNER membership in one transaction.
func (s *OrganizationService) CreateOrganization(
	user *users_models.User,
	request *organizations_dto.CreateOrganizationRequestDTO,
) (*organizations_models.Organization, error) {
	existing, err := s.organizationRepository.GetOrganizationByDomain(request.Domain)
	if err != nil {
		return nil, fmt.Errorf("failed to check domain: %w", err)
	}

	if existing != nil {
		return nil, apperrors.NewConflict("organization with this domain already exists")
	}

	organization := &organizations_models.Organization{
		ID:       uuid.New(),
		Name:     request.Name,
		Domain:   request.Domain,
		Settings: request.Settings,
	}

	err = storage.RunInTransaction(s.db, func(tx *gorm.DB) error {
		if err := s.organizationRepository.WithTx(tx).CreateOrganization(organization); err != nil {
			if storage.IsUniqueViolationOn(err, organizations_models.UniqueDomainConstraint) {
				return apperrors.NewConflict("organization with this domain already exists")
			}

			return fmt.Errorf("failed to create organization: %w", err)
		}

		membership := &organizations_models.OrganizationMembership{
			UserID:         user.ID,
			OrganizationID: organization.ID,
			Role:           organizations_enums.OrganizationRoleOwner,
			Status:         organizations_enums.OrganizationMembershipStatusActive,
		}

		if err := s.membershipRepository.WithTx(tx).CreateMembership(membership); err != nil {
			return fmt.Errorf("failed to create owner membership: %w", err)
		}

		if user.CurrentOrganizationID == nil {
			userRepo := s.userRepository.WithTx(tx)
			if err := userRepo.UpdateCurrentOrganization(user.ID, &organization.ID); err != nil {
				return fmt.Errorf("failed to set current organization: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditLogService.WriteAuditLog(
		&organization.ID, nil, &user.ID,
		"organization.created",
		fmt.Sprintf("Organization %s created", organization.Name),
	)

	return organization, nil
}

func (s *OrganizationService) GetOrganizationsForUser(
	user *users_models.User,
) (*organizations_dto.ListOrganizationsResponseDTO, error) {
	memberships, err := s.membershipRepository.ListByUser(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	roleByOrganization := make(map[uuid.UUID]organizations_enums.OrganizationRole)
	organizationIDs := make([]uuid.UUID, 0, len(memberships))

	for _, membership := range memberships {
		if membership.Status != organizations_enums.OrganizationMembershipStatusActive {
			continue
		}

		roleByOrganization[membership.OrganizationID] = membership.Role
		organizationIDs = append(organizationIDs, membership.OrganizationID)
	}

	organizations, err := s.organizationRepository.GetOrganizationsByIDs(organizationIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load organizations: %w", err)
	}

	response := &organizations_dto.ListOrganizationsResponseDTO{
		Organizations: make([]organizations_dto.OrganizationResponseDTO, 0, len(organizations)),
	}

	for _, organization := range organizations {
		role := roleByOrganization[organization.ID]

		response.Organizations = append(response.Organizations, organizations_dto.OrganizationResponseDTO{
			ID:        organization.ID,
			Name:      organization.Name,
			Domain:    organization.Domain,
			CreatedAt: organization.CreatedAt,
			UserRole:  &role,
		})
	}

	return response, nil
}

func (s *OrganizationService) GetOrganization(
	user *users_models.User,
	organizationID uuid.UUID,
) (*organizations_models.Organization, error) {
	if _, err := s.requireActiveMembership(user, organizationID); err != nil {
		return nil, err
	}

	organization, err := s.organizationRepository.GetOrganizationByID(organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	if organization == nil {
		return nil, apperrors.NewNotFound("organization not found")
	}

	return organization, nil
}

func (s *OrganizationService) UpdateOrganization(
	user *users_models.User,
	organizationID uuid.UUID,
	request *organizations_dto.UpdateOrganizationRequestDTO,
) (*organizations_models.Organization, error) {
	membership, err := s.requireActiveMembership(user, organizationID)
	if err != nil {
		return nil, err
	}

	if !access.CanManageOrganization(membership.Role) {
		return nil, apperrors.NewForbidden("only owners and admins can update the organization")
	}

	organization, err := s.organizationRepository.GetOrganizationByID(organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	if organization == nil {
		return nil, apperrors.NewNotFound("organization not found")
	}

	if request.Domain != nil && *request.Domain != organization.Domain {
		conflicting, err := s.organizationRepository.
			GetOrganizationByDomainExcludingID(*request.Domain, organizationID)
		if err != nil {
			return nil, fmt.Errorf("failed to check domain: %w", err)
		}

		if conflicting != nil {
			return nil, apperrors.NewConflict("organization with this domain already exists")
		}

		organization.Domain = *request.Domain
	}

	if request.Name != nil {
		organization.Name = *request.Name
	}

	if request.Settings != nil {
		organization.Settings = request.Settings
	}

	if request.AgencyRevenueSharePercent != nil {
		organization.AgencyRevenueSharePercent = *request.AgencyRevenueSharePercent
	}

	if err := s.organizationRepository.UpdateOrganization(organization); err != nil {
		if storage.IsUniqueViolationOn(err, organizations_models.UniqueDomainConstraint) {
			return nil, apperrors.NewConflict("organization with this domain already exists")
		}

		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	return organization, nil
}

// DeleteOrganization removes the organization and everything scoped under
// it. Only the owner may do this.
func (s *OrganizationService) DeleteOrganization(
	user *users_models.User,
	organizationID uuid.UUID,
) error {
	membership, err := s.requireActiveMembership(user, organizationID)
	if err != nil {
		return err
	}

	if !access.IsOrganizationOwner(membership.Role) {
		return apperrors.NewForbidden("only the owner can delete the organization")
	}

	organization, err := s.organizationRepository.GetOrganizationByID(organizationID)
	if err != nil {
		return fmt.Errorf("failed to get organization: %w", err)
	}

	if organization == nil {
		return apperrors.NewNotFound("organization not found")
	}

	err = storage.RunInTransaction(s.db, func(tx *gorm.DB) error {
		workspaceRepo := s.workspaceRepository.WithTx(tx)
		workspaceMembershipRepo := s.workspaceMembershipRepository.WithTx(tx)
		siteRepo := s.siteRepository.WithTx(tx)

		workspaces, err := workspaceRepo.ListByOrganization(organizationID)
		if err != nil {
			return fmt.Errorf("failed to list workspaces: %w", err)
		}

		for _, workspace := range workspaces {
			if err := siteRepo.DeleteByWorkspace(workspace.ID); err != nil {
				return fmt.Errorf("failed to delete sites: %w", err)
			}

			if err := workspaceMembershipRepo.DeleteByWorkspace(workspace.ID); err != nil {
				return fmt.Errorf("failed to delete workspace memberships: %w", err)
			}

			if err := workspaceRepo.DeleteWorkspace(workspace.ID); err != nil {
				return fmt.Errorf("failed to delete workspace: %w", err)
			}
		}

		invitationRepo := s.invitationRepository.WithTx(tx)
		if err := invitationRepo.DeleteByOrganization(organizationID); err != nil {
			return fmt.Errorf("failed to delete invitations: %w", err)
		}

		membershipRepo := s.membershipRepository.WithTx(tx)
		if err := membershipRepo.DeleteByOrganization(organizationID); err != nil {
			return fmt.Errorf("failed to delete memberships: %w", err)
		}

		if err := s.organizationRepository.WithTx(tx).DeleteOrganization(organizationID); err != nil {
			return fmt.Errorf("failed to delete organization: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.auditLogService.WriteAuditLog(
		&organizationID, nil, &user.ID,
		"organization.deleted",
		fmt.Sprintf("Organization %s deleted", organization.Name),
	)

	return nil
}

func (s *OrganizationService) GetOrganizationMembers(
	user *users_models.User,
	organizationID uuid.UUID,
) (*organizations_dto.GetOrganizationMembersResponseDTO, error) {
	if _, err := s.requireActiveMembership(user, organizationID); err != nil {
		return nil, err
	}

	members, err := s.membershipRepository.ListByOrganization(organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	response := &organizations_dto.GetOrganizationMembersResponseDTO{
		Members: make([]organizations_dto.OrganizationMemberResponseDTO, 0, len(members)),
	}

	for _, member := range members {
		response.Members = append(response.Members, *member)
	}

	return response, nil
}

// RemoveUserFromOrganization runs the organization-level removal saga: the
// target's sites, pending invitations and workspace memberships across every
// workspace of the organization go away with the organization membership, all
// in one transaction.
func (s *OrganizationService) RemoveUserFromOrganization(
	actor *users_models.User,
	organizationID, targetUserID uuid.UUID,
) error {
	actorMembership, err := s.requireActiveMembership(actor, organizationID)
	if err != nil {
		return err
	}

	if !access.CanManageOrganization(actorMembership.Role) {
		return apperrors.NewForbidden("only owners and admins can remove members")
	}

	if actor.ID == targetUserID {
		return apperrors.NewValidation("cannot remove yourself from the organization")
	}

	targetMembership, err := s.membershipRepository.GetMembership(targetUserID, organizationID)
	if err != nil {
		return fmt.Errorf("failed to get target membership: %w", err)
	}

	if targetMembership == nil {
		return apperrors.NewNotFound("user is not a member of this organization")
	}

	if access.IsOrganizationOwner(targetMembership.Role) {
		return apperrors.NewForbidden("the organization owner cannot be removed")
	}

	targetUser, err := s.userRepository.GetUserByID(targetUserID)
	if err != nil {
		return fmt.Errorf("failed to get target user: %w", err)
	}

	err = storage.RunInTransaction(s.db, func(tx *gorm.DB) error {
		workspaceRepo := s.workspaceRepository.WithTx(tx)
		workspaceMembershipRepo := s.workspaceMembershipRepository.WithTx(tx)
		invitationRepo := s.invitationRepository.WithTx(tx)
		siteRepo := s.siteRepository.WithTx(tx)

		workspaces, err := workspaceRepo.ListByOrganization(organizationID)
		if err != nil {
			return fmt.Errorf("failed to list workspaces: %w", err)
		}

		for _, workspace := range workspaces {
			if err := siteRepo.DeleteByOwnerInWorkspace(targetUserID, workspace.ID); err != nil {
				return fmt.Errorf("failed to delete sites: %w", err)
			}
		}

		// pending invitations the user sent, and the PENDING membership
		// rows those invitations created
		tokens, err := invitationRepo.
			GetPendingTokensByCreatorInOrganization(targetUserID, organizationID)
		if err != nil {
			return fmt.Errorf("failed to collect invitation tokens: %w", err)
		}

		if err := workspaceMembershipRepo.DeleteByTokens(tokens); err != nil {
			return fmt.Errorf("failed to delete invited memberships: %w", err)
		}

		if err := invitationRepo.DeleteByTokens(tokens); err != nil {
			return fmt.Errorf("failed to delete invitations: %w", err)
		}

		err = workspaceMembershipRepo.DeleteByUserInOrganization(targetUserID, organizationID)
		if err != nil {
			return fmt.Errorf("failed to delete workspace memberships: %w", err)
		}

		membershipRepo := s.membershipRepository.WithTx(tx)
		if err := membershipRepo.DeleteMembership(targetMembership.ID); err != nil {
			return fmt.Errorf("failed to delete organization membership: %w", err)
		}

		if targetUser != nil &&
			targetUser.CurrentOrganizationID != nil &&
			*targetUser.CurrentOrganizationID == organizationID {
			userRepo := s.userRepository.WithTx(tx)
			if err := userRepo.UpdateCurrentOrganization(targetUserID, nil); err != nil {
				return fmt.Errorf("failed to clear current organization: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.auditLogService.WriteAuditLog(
		&organizationID, nil, &actor.ID,
		"organization.member_removed",
		fmt.Sprintf("User %s removed from organization", targetUserID),
	)

	return nil
}

// SetCurrentOrganization switches the user's active organization.
func (s *OrganizationService) SetCurrentOrganization(
	user *users_models.User,
	organizationID uuid.UUID,
) error {
	if _, err := s.requireActiveMembership(user, organizationID); err != nil {
		return err
	}

	return s.userRepository.UpdateCurrentOrganization(user.ID, &organizationID)
}

// SetCurrentWorkspace records the user's active workspace inside the
// organization membership row.
func (s *OrganizationService) SetCurrentWorkspace(
	user *users_models.User,
	organizationID, workspaceID uuid.UUID,
) error {
	if _, err := s.requireActiveMembership(user, organizationID); err != nil {
		return err
	}

	workspace, err := s.workspaceRepository.GetWorkspaceByID(workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace: %w", err)
	}

	if workspace == nil || workspace.OrganizationID != organizationID {
		return apperrors.NewNotFound("workspace not found in this organization")
	}

	workspaceMembership, err := s.workspaceMembershipRepository.
		GetMembership(user.ID, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace membership: %w", err)
	}

	if workspaceMembership == nil {
		return apperrors.NewForbidden("user is not a member of this workspace")
	}

	return s.membershipRepository.SetCurrentWorkspace(organizationID, user.ID, &workspaceID)
}

func (s *OrganizationService) GetMembership(
	userID, organizationID uuid.UUID,
) (*organizations_models.OrganizationMembership, error) {
	return s.membershipRepository.GetMembership(userID, organizationID)
}

// requireActiveMembership resolves the caller's ACTIVE membership row or
// fails with FORBIDDEN.
func (s *OrganizationService) requireActiveMembership(
	user *users_models.User,
	organizationID uuid.UUID,
) (*organizations_models.OrganizationMembership, error) {
	membership, err := s.membershipRepository.GetMembership(user.ID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	if membership == nil ||
		membership.Status != organizations_enums.OrganizationMembershipStatusActive {
		return nil, apperrors.NewForbidden("user is not an active member of this organization")
	}

	return membership, nil
}
