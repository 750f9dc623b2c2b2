package invitations_services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"accessly-backend/internal/features/access"
	"accessly-backend/internal/features/audit_logs"
	invitations_dto "accessly-backend/internal/features/invitations/dto"
	invitations_enums "accessly-backend/internal/features/invitations/enums"
	invitations_interfaces "accessly-backend/internal/features/invitations/interfaces"
	invitations_models "accessly-backend/internal/features/invitations/models"
	invitations_repositories "accessly-backend/internal/features/invitations/repositories"
	organizations_enums "accessly-backend/internal/features/organizations/enums"
	organizations_models "accessly-backend/internal/features/organizations/models"
	organizations_repositories "accessly-backend/internal/features/organizations/repositories"
	sites_repositories "accessly-backend/internal/features/sites/repositories"
	users_models "accessly-backend/internal/features/users/models"
	users_repositories "accessly-backend/internal/features/users/repositories"
	workspaces_enums "accessly-backend/internal/features/workspaces/enums"
	workspaces_models "accessly-backend/internal/features/workspaces/models"
	workspaces_repositories "accessly-backend/internal/features/workspaces/repositories"
	"accessly-backend/internal/storage"
	"accessly-backend/internal/util/apperrors"
	"accessly-backend/internal/util/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvitationService coordinates the invitation lifecycle: issuing, verifying,
// accepting, declining, plus the membership changes each transition implies.
type InvitationService struct {
	db *gorm.DB

	invitationRepository *invitations_repositories.InvitationRepository

	userRepository                   *users_repositories.UserRepository
	organizationRepository           *organizations_repositories.OrganizationRepository
	organizationMembershipRepository *organizations_repositories.MembershipRepository
	workspaceRepository              *workspaces_repositories.WorkspaceRepository
	workspaceMembershipRepository    *workspaces_repositories.MembershipRepository
	siteRepository                   *sites_repositories.SiteRepository

	auditLogService *audit_logs.AuditLogService

	clock          invitations_interfaces.Clock
	tokenGenerator invitations_interfaces.TokenGenerator
	mailSender     invitations_interfaces.MailSender

	logger *slog.Logger
}

func NewInvitationService(
	db *gorm.DB,
	invitationRepository *invitations_repositories.InvitationRepository,
	userRepository *users_repositories.UserRepository,
	organizationRepository *organizations_repositories.OrganizationRepository,
	organizationMembershipRepository *organizations_repositories.MembershipRepository,
	workspaceRepository *workspaces_repositories.WorkspaceRepository,
	workspaceMembershipRepository *workspaces_repositories.MembershipRepository,
	siteRepository *sites_repositories.SiteRepository,
	auditLogService *audit_logs.AuditLogService,
	clock invitations_interfaces.Clock,
	tokenGenerator invitations_interfaces.TokenGenerator,
	mailSender invitations_interfaces.MailSender,
) *InvitationService {
	return &InvitationService{
		db:                               db,
		invitationRepository:             invitationRepository,
		userRepository:                   userRepository,
		organizationRepository:           organizationRepository,
		organizationMembershipRepository: organizationMembershipRepository,
		workspaceRepository:              workspaceRepository,
		workspaceMembershipRepository:    workspaceMembershipRepository,
		siteRepository:                   siteRepository,
		auditLogService:                  auditLogService,
		clock:                            clock,
		tokenGenerator:                   tokenGenerator,
		mailSender:                       mailSender,
		logger:                           logger.GetLogger(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// InviteToOrganization issues an organization-level invitation. Any pending
// invitation for the same address and scope is superseded.
func (s *InvitationService) InviteToOrganization(
	ctx context.Context,
	actor *users_models.User,
	request *invitations_dto.InviteToOrganizationRequestDTO,
) (*invitations_dto.InviteResponseDTO, error) {
	email := normalizeEmail(request.Email)

	role := organizations_enums.OrganizationRole(request.Role)
	if !role.IsValid() {
		return nil, apperrors.NewValidation("invalid organization role")
	}

	if email == normalizeEmail(actor.Email) {
		return nil, apperrors.NewConflict("you cannot invite yourself")
	}

	actorMembership, err := s.organizationMembershipRepository.
		GetMembership(actor.ID, request.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get actor membership: %w", err)
	}

	if actorMembership == nil ||
		actorMembership.Status != organizations_enums.OrganizationMembershipStatusActive {
		return nil, apperrors.NewForbidden("user is not an active member of this organization")
	}

	if !access.CanManageOrganization(actorMembership.Role) {
		return nil, apperrors.NewForbidden("only owners and admins can invite members")
	}

	organization, err := s.organizationRepository.GetOrganizationByID(request.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	if organization == nil {
		return nil, apperrors.NewNotFound("organization not found")
	}

	if role == organizations_enums.OrganizationRoleOwner {
		if err := s.checkOrganizationOwnerInvitable(actor, request.OrganizationID); err != nil {
			return nil, err
		}
	}

	targetUser, err := s.userRepository.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up invited user: %w", err)
	}

	if targetUser != nil {
		targetMembership, err := s.organizationMembershipRepository.
			GetMembership(targetUser.ID, request.OrganizationID)
		if err != nil {
			return nil, fmt.Errorf("failed to get target membership: %w", err)
		}

		if targetMembership != nil &&
			targetMembership.Status == organizations_enums.OrganizationMembershipStatusActive {
			return nil, apperrors.NewConflict("user is already a member of this organization")
		}
	}

	now := s.clock.Now()

	invitation := &invitations_models.Invitation{
		ID:             uuid.New(),
		Email:          email,
		Type:           invitations_enums.InvitationTypeOrganization,
		OrganizationID: request.OrganizationID,
		Role:           string(role),
		Status:         invitations_enums.InvitationStatusPending,
		Token:          s.tokenGenerator.Generate(),
		InvitedByID:    actor.ID,
		ValidUntil:     now.AddDate(0, 0, invitations_models.ValidPeriodDays),
		CreatedAt:      now,
	}

	err = storage.RunInTransaction(s.db, func(tx *gorm.DB) error {
		invitationRepo := s.invitationRepository.WithTx(tx)

		if role == organizations_enums.OrganizationRoleOwner {
			// re-check under lock so two concurrent owner invites cannot
			// both pass
			owner, err := s.organizationMembershipRepository.WithTx(tx).
				GetActiveOwnerForUpdate(request.OrganizationID)
			if err != nil {
				return fmt.Errorf("failed to lock owner row: %w", err)
			}

			if owner != nil {
				return apperrors.NewConflict("organization already has an owner")
			}
		}

		if err := s.supersedePendingInvitations(
			tx, email, invitations_enums.InvitationTypeOrganization,
			request.OrganizationID, nil,
		); err != nil {
			return err
		}

		if err := invitationRepo.CreateInvitation(invitation); err != nil {
			if storage.IsUniqueViolationOn(err, invitations_models.UniqueTokenConstraint) {
				return apperrors.NewConflict("invitation token collision, please retry")
			}

			return fmt.Errorf("failed to create invitation: %w", err)
		}

		if targetUser != nil {
			if err := s.ensureOrganizationMembership(
				tx, targetUser.ID, request.OrganizationID, role,
				organizations_enums.OrganizationMembershipStatusInvited,
			); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	emailSent := s.sendInvitationEmail(ctx, invitation, organization.Name, nil, actor.Name)

	s.auditLogService.WriteAuditLog(
		&request.OrganizationID, nil, &actor.ID,
		"invitation.organization_created",
		fmt.Sprintf("Invited %s to the organization as %s", email, role),
	)

	return &invitations_dto.InviteResponseDTO{
		InvitationID: invitation.ID,
		Token:        invitation.Token,
		EmailSent:    emailSent,
	}, nil
}

// InviteToWorkspace issues a workspace-level invitation. For an address that
// already has an account a PENDING membership row is created up front,
// carrying the token.
func (s *InvitationService) InviteToWorkspace(
	ctx context.Context,
	actor *users_models.User,
	request *invitations_dto.InviteToWorkspaceRequestDTO,
) (*invitations_dto.InviteResponseDTO, error) {
	email := normalizeEmail(request.Email)

	role := workspaces_enums.WorkspaceRole(request.Role)
	if !role.IsValid() {
		return nil, apperrors.NewValidation("invalid workspace role")
	}

	if email == normalizeEmail(actor.Email) {
		return nil, apperrors.NewConflict("you cannot invite yourself")
	}

	workspace, err := s.workspaceRepository.GetWorkspaceByID(request.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	if workspace == nil {
		return nil, apperrors.NewNotFound("workspace not found")
	}

	actorMembership, err := s.workspaceMembershipRepository.
		GetMembership(actor.ID, request.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get actor membership: %w", err)
	}

	if actorMembership == nil ||
		actorMembership.Status != workspaces_enums.WorkspaceMembershipStatusActive {
		return nil, apperrors.NewForbidden("user is not an active member of this workspace")
	}

	if !access.CanManageWorkspace(actorMembership.Role) {
		return nil, apperrors.NewForbidden("only owners and admins can invite members")
	}

	organization, err := s.organizationRepository.GetOrganizationByID(workspace.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	if organization == nil {
		return nil, apperrors.NewNotFound("organization not found")
	}

	if role == workspaces_enums.WorkspaceRoleOwner {
		if err := s.checkWorkspaceOwnerInvitable(actor, request.WorkspaceID); err != nil {
			return nil, err
		}
	}

	targetUser, err := s.userRepository.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up invited user: %w", err)
	}

	if targetUser != nil {
		targetMembership, err := s.workspaceMembershipRepository.
			GetMembership(targetUser.ID, request.WorkspaceID)
		if err != nil {
			return nil, fmt.Errorf("failed to get target membership: %w", err)
		}

		if targetMembership != nil &&
			targetMembership.Status == workspaces_enums.WorkspaceMembershipStatusActive {
			return nil, apperrors.NewConflict("user is already a member of this workspace")
		}
	}

	now := s.clock.Now()

	invitation := &invitations_models.Invitation{
		ID:             uuid.New(),
		Email:          email,
		Type:           invitations_enums.InvitationTypeWorkspace,
		OrganizationID: workspace.OrganizationID,
		WorkspaceID:    &workspace.ID,
		Role:           string(role),
		Status:         invitations_enums.InvitationStatusPending,
		Token:          s.tokenGenerator.Generate(),
		InvitedByID:    actor.ID,
		ValidUntil:     now.AddDate(0, 0, invitations_models.ValidPeriodDays),
		CreatedAt:      now,
	}

	err = storage.RunInTransaction(s.db, func(tx *gorm.DB) error {
		invitationRepo := s.invitationRepository.WithTx(tx)
		workspaceMembershipRepo := s.workspaceMembershipRepository.WithTx(tx)

		if role == workspaces_enums.WorkspaceRoleOwner {
			owner, err := workspaceMembershipRepo.GetActiveOwnerForUpdate(request.WorkspaceID)
			if err != nil {
				return fmt.Errorf("failed to lock owner row: %w", err)
			}

			if owner != nil {
				return apperrors.NewConflict("workspace already has an owner")
			}
		}

		if err := s.supersedePendingInvitations(
			tx, email, invitations_enums.InvitationTypeWorkspace,
			workspace.OrganizationID, &workspace.ID,
		); err != nil {
			return err
		}

		if err := invitationRepo.CreateInvitation(invitation); err != nil {
			if storage.IsUniqueViolationOn(err, invitations_models.UniqueTokenConstraint) {
				return apperrors.NewConflict("invitation token collision, please retry")
			}

			return fmt.Errorf("failed to create invitation: %w", err)
		}

		if targetUser != nil {
			targetMembership, err := workspaceMembershipRepo.
				GetMembership(targetUser.ID, request.WorkspaceID)
			if err != nil {
				return fmt.Errorf("failed to get target membership: %w", err)
			}

			if targetMembership == nil {
				membership := &workspaces_models.WorkspaceMembership{
					UserID:          targetUser.ID,
					WorkspaceID:     request.WorkspaceID,
					Role:            role,
					Status:          workspaces_enums.WorkspaceMembershipStatusPending,
					InvitationToken: &invitation.Token,
				}

				if err := workspaceMembershipRepo.CreateMembership(membership); err != nil {
					if storage.IsUniqueViolationOn(
						err, workspaces_models.UniqueMembershipConstraint,
					) {
						return apperrors.NewConflict(
							"user already has a membership in this workspace",
						)
					}

					return fmt.Errorf("failed to create pending membership: %w", err)
				}
			} else {
				patch := map[string]any{
					"role":             role,
					"status":           workspaces_enums.WorkspaceMembershipStatusPending,
					"invitation_token": invitation.Token,
					"updated_at":       s.clock.Now(),
				}

				err := tx.Model(&workspaces_models.WorkspaceMembership{}).
					Where("id = ?", targetMembership.ID).
					Updates(patch).Error
				if err != nil {
					return fmt.Errorf("failed to refresh pending membership: %w", err)
				}
			}

			if err := s.ensureOrganizationMembership(
				tx, targetUser.ID, workspace.OrganizationID,
				organizations_enums.OrganizationRoleMember,
				organizations_enums.OrganizationMembershipStatusInvited,
			); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	emailSent := s.sendInvitationEmail(ctx, invitation, organization.Name, workspace, actor.Name)

	s.auditLogService.WriteAuditLog(
		&workspace.OrganizationID, &workspace.ID, &actor.ID,
		"invitation.workspace_created",
		fmt.Sprintf("Invited %s to workspace %s as %s", email, workspace.Name, role),
	)

	return &invitations_dto.InviteResponseDTO{
		InvitationID: invitation.ID,
		Token:        invitation.Token,
		EmailSent:    emailSent,
	}, nil
}

// VerifyInvitation resolves a token for the landing page. Expiry is applied
// lazily here: a stale PENDING invitation flips to EXPIRED on first sight.
// When the caller is already signed in their email must match the invitation.
func (s *InvitationService) VerifyInvitation(
	token string,
	currentUser *users_models.User,
) (*invitations_dto.VerifyInvitationResponseDTO, error) {
	invitation, err := s.invitationRepository.GetByToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}

	if invitation == nil {
		return nil, apperrors.NewNotFound("Token not valid")
	}

	if invitation.Status.IsTerminal() {
		return nil, apperrors.NewConflict("Token not valid")
	}

	if invitation.IsExpiredAt(s.clock.Now()) {
		if err := s.expireInvitation(invitation); err != nil {
			return nil, err
		}

		return nil, apperrors.NewExpired("invitation has expired")
	}

	if currentUser != nil && normalizeEmail(currentUser.Email) != invitation.Email {
		return nil, apperrors.NewForbidden("invitation was issued for a different email")
	}

	detail, err := s.invitationRepository.GetInvitationDetailByToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to load invitation detail: %w", err)
	}

	if detail == nil {
		return nil, apperrors.NewNotFound("Token not valid")
	}

	invitedUser, err := s.userRepository.GetUserByEmail(invitation.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up invited user: %w", err)
	}

	detail.UserExists = invitedUser != nil

	return detail, nil
}

// RespondToInvitation accepts or declines a pending invitation on behalf of
// the signed-in user.
func (s *InvitationService) RespondToInvitation(
	user *users_models.User,
	token string,
	accept bool,
) error {
	invitation, err := s.invitationRepository.GetByToken(token)
	if err != nil {
		return fmt.Errorf("failed to get invitation: %w", err)
	}

	if invitation == nil {
		return apperrors.NewNotFound("Token not valid")
	}

	if invitation.Status.IsTerminal() {
		return apperrors.NewConflict("Token not valid")
	}

	if invitation.IsExpiredAt(s.clock.Now()) {
		if err := s.expireInvitation(invitation); err != nil {
			return err
		}

		return apperrors.NewExpired("invitation has expired")
	}

	if normalizeEmail(user.Email) != invitation.Email {
		return apperrors.NewForbidden("invitation was issued for a different email")
	}

	if accept {
		return s.acceptInvitation(user, invitation)
	}

	return s.declineInvitation(user, invitation)
}

func (s *InvitationService) acceptInvitation(
	user *users_models.User,
	invitation *invitations_models.Invitation,
) error {
	now := s.clock.Now()

	err := storage.RunInTransaction(s.db, func(tx *gorm.DB) error {
		invitationRepo := s.invitationRepository.WithTx(tx)

		switch invitation.Type {
		case invitations_enums.InvitationTypeWorkspace:
			if err := s.acceptWorkspaceInvitation(tx, user, invitation); err != nil {
				return err
			}
		case invitations_enums.InvitationTypeOrganization:
			if err := s.acceptOrganizationInvitation(tx, user, invitation); err != nil {
				return err
			}
		default:
			return apperrors.NewValidation("unknown invitation type")
		}

		if err := invitationRepo.MarkAcceptedByToken(invitation.Token, user.ID, now); err != nil {
			return fmt.Errorf("failed to mark invitation accepted: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.auditLogService.WriteAuditLog(
		&invitation.OrganizationID, invitation.WorkspaceID, &user.ID,
		"invitation.accepted",
		fmt.Sprintf("%s accepted an invitation", user.Email),
	)

	return nil
}

func (s *InvitationService) acceptWorkspaceInvitation(
	tx *gorm.DB,
	user *users_models.User,
	invitation *invitations_models.Invitation,
) error {
	if invitation.WorkspaceID == nil {
		return apperrors.NewValidation("workspace invitation has no workspace")
	}

	workspaceMembershipRepo := s.workspaceMembershipRepository.WithTx(tx)
	role := workspaces_enums.WorkspaceRole(invitation.Role)

	if role == workspaces_enums.WorkspaceRoleOwner {
		owner, err := workspaceMembershipRepo.GetActiveOwnerForUpdate(*invitation.WorkspaceID)
		if err != nil {
			return fmt.Errorf("failed to lock owner row: %w", err)
		}

		if owner != nil && owner.UserID != user.ID {
			return apperrors.NewConflict("workspace already has an owner")
		}
	}

	membership, err := workspaceMembershipRepo.GetMembership(user.ID, *invitation.WorkspaceID)
	if err != nil {
		return fmt.Errorf("failed to get membership: %w", err)
	}

	if membership == nil {
		membership = &workspaces_models.WorkspaceMembership{
			UserID:      user.ID,
			WorkspaceID: *invitation.WorkspaceID,
			Role:        role,
			Status:      workspaces_enums.WorkspaceMembershipStatusActive,
		}

		if err := workspaceMembershipRepo.CreateMembership(membership); err != nil {
			if storage.IsUniqueViolationOn(err, workspaces_models.UniqueMembershipConstraint) {
				return apperrors.NewConflict("user already has a membership in this workspace")
			}

			return fmt.Errorf("failed to create membership: %w", err)
		}
	} else {
		patch := map[string]any{
			"role":             role,
			"status":           workspaces_enums.WorkspaceMembershipStatusActive,
			"invitation_token": nil,
			"updated_at":       s.clock.Now(),
		}

		err := tx.Model(&workspaces_models.WorkspaceMembership{}).
			Where("id = ?", membership.ID).
			Updates(patch).Error
		if err != nil {
			return fmt.Errorf("failed to activate membership: %w", err)
		}
	}

	// joining a workspace also activates the organization membership
	return s.ensureOrganizationMembership(
		tx, user.ID, invitation.OrganizationID,
		organizations_enums.OrganizationRoleMember,
		organizations_enums.OrganizationMembershipStatusActive,
	)
}

func (s *InvitationService) acceptOrganizationInvitation(
	tx *gorm.DB,
	user *users_models.User,
	invitation *invitations_models.Invitation,
) error {
	role := organizations_enums.OrganizationRole(invitation.Role)

	if role == organizations_enums.OrganizationRoleOwner {
		owner, err := s.organizationMembershipRepository.WithTx(tx).
			GetActiveOwnerForUpdate(invitation.OrganizationID)
		if err != nil {
			return fmt.Errorf("failed to lock owner row: %w", err)
		}

		if owner != nil && owner.UserID != user.ID {
			return apperrors.NewConflict("organization already has an owner")
		}
	}

	return s.ensureOrganizationMembership(
		tx, user.ID, invitation.OrganizationID, role,
		organizations_enums.OrganizationMembershipStatusActive,
	)
}

func (s *InvitationService) declineInvitation(
	user *users_models.User,
	invitation *invitations_models.Invitation,
) error {
	err := storage.RunInTransaction(s.db, func(tx *gorm.DB) error {
		invitationRepo := s.invitationRepository.WithTx(tx)

		err := invitationRepo.UpdateStatusByToken(
			invitation.Token, invitations_enums.InvitationStatusDeclined,
		)
		if err != nil {
			return fmt.Errorf("failed to decline invitation: %w", err)
		}

		if invitation.Type == invitations_enums.InvitationTypeWorkspace {
			err := s.workspaceMembershipRepository.WithTx(tx).UpdateStatusByToken(
				invitation.Token,
				workspaces_enums.WorkspaceMembershipStatusDeclined,
				true,
			)
			if err != nil {
				return fmt.Errorf("failed to decline membership: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.auditLogService.WriteAuditLog(
		&invitation.OrganizationID, invitation.WorkspaceID, &user.ID,
		"invitation.declined",
		fmt.Sprintf("%s declined an invitation", user.Email),
	)

	return nil
}

// RemoveInvitation withdraws a pending invitation together with the PENDING
// membership row its token created, if any.
func (s *InvitationService) RemoveInvitation(
	actor *users_models.User,
	invitationID uuid.UUID,
) error {
	var invitation invitations_models.Invitation

	err := s.db.Where("id = ?", invitationID).First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("invitation not found")
		}

		return fmt.Errorf("failed to get invitation: %w", err)
	}

	if err := s.requireInvitationRemover(actor, &invitation); err != nil {
		return err
	}

	err = storage.RunInTransaction(s.db, func(tx *gorm.DB) error {
		err := s.workspaceMembershipRepository.WithTx(tx).
			DeleteByTokens([]string{invitation.Token})
		if err != nil {
			return fmt.Errorf("failed to delete pending membership: %w", err)
		}

		if err := s.invitationRepository.WithTx(tx).DeleteByID(invitation.ID); err != nil {
			return fmt.Errorf("failed to delete invitation: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.auditLogService.WriteAuditLog(
		&invitation.OrganizationID, invitation.WorkspaceID, &actor.ID,
		"invitation.removed",
		fmt.Sprintf("Invitation for %s withdrawn", invitation.Email),
	)

	return nil
}

func (s *InvitationService) ListOrganizationInvitations(
	actor *users_models.User,
	organizationID uuid.UUID,
) (*invitations_dto.ListInvitationsResponseDTO, error) {
	actorMembership, err := s.organizationMembershipRepository.
		GetMembership(actor.ID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get actor membership: %w", err)
	}

	if actorMembership == nil ||
		actorMembership.Status != organizations_enums.OrganizationMembershipStatusActive {
		return nil, apperrors.NewForbidden("user is not an active member of this organization")
	}

	if !access.CanManageOrganization(actorMembership.Role) {
		return nil, apperrors.NewForbidden("only owners and admins can list invitations")
	}

	items, err := s.invitationRepository.ListByOrganization(organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}

	response := &invitations_dto.ListInvitationsResponseDTO{
		Invitations: make([]invitations_dto.InvitationListItemDTO, 0, len(items)),
	}

	for _, item := range items {
		response.Invitations = append(response.Invitations, *item)
	}

	return response, nil
}

// ChangeWorkspaceMemberRole updates a member's role, keeping a PENDING
// member's invitation in sync. Granting or revoking the owner role is an
// organization-level decision, so those transitions require an organization
// manager rather than a workspace one.
func (s *InvitationService) ChangeWorkspaceMemberRole(
	actor *users_models.User,
	request *invitations_dto.ChangeWorkspaceMemberRoleRequestDTO,
) error {
	role := workspaces_enums.WorkspaceRole(request.Role)
	if !role.IsValid() {
		return apperrors.NewValidation("invalid workspace role")
	}

	workspace, err := s.workspaceRepository.GetWorkspaceByID(request.WorkspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace: %w", err)
	}

	if workspace == nil {
		return apperrors.NewNotFound("workspace not found")
	}

	isOrganizationManager, err := s.isOrganizationManager(actor, workspace.OrganizationID)
	if err != nil {
		return err
	}

	actorMembership, err := s.workspaceMembershipRepository.
		GetMembership(actor.ID, request.WorkspaceID)
	if err != nil {
		return fmt.Errorf("failed to get actor membership: %w", err)
	}

	isWorkspaceManager := actorMembership != nil &&
		actorMembership.Status == workspaces_enums.WorkspaceMembershipStatusActive &&
		access.CanManageWorkspace(actorMembership.Role)

	if !isOrganizationManager && !isWorkspaceManager {
		return apperrors.NewForbidden("only owners and admins can change member roles")
	}

	if actor.ID == request.UserID && !isOrganizationManager {
		return apperrors.NewForbidden("you cannot change your own role")
	}

	targetMembership, err := s.workspaceMembershipRepository.
		GetMembership(request.UserID, request.WorkspaceID)
	if err != nil {
		return fmt.Errorf("failed to get target membership: %w", err)
	}

	if targetMembership == nil {
		return apperrors.NewNotFound("user is not a member of this workspace")
	}

	if targetMembership.Status == workspaces_enums.WorkspaceMembershipStatusDeclined ||
		targetMembership.Status == workspaces_enums.WorkspaceMembershipStatusInactive {
		return apperrors.NewValidation(
			"role cannot be changed for declined or inactive members",
		)
	}

	if (role == workspaces_enums.WorkspaceRoleOwner ||
		targetMembership.Role == workspaces_enums.WorkspaceRoleOwner) &&
		!isOrganizationManager {
		return apperrors.NewForbidden(
			"only organization owners and admins can change the owner role",
		)
	}

	if targetMembership.Role == role {
		return nil
	}

	err = storage.RunInTransaction(s.db, func(tx *gorm.DB) error {
		workspaceMembershipRepo := s.workspaceMembershipRepository.WithTx(tx)

		if role == workspaces_enums.WorkspaceRoleOwner {
			owner, err := workspaceMembershipRepo.GetActiveOwnerForUpdate(request.WorkspaceID)
			if err != nil {
				return fmt.Errorf("failed to lock owner row: %w", err)
			}

			if owner != nil && owner.UserID != request.UserID {
				return apperrors.NewConflict("workspace already has an owner")
			}
		}

		if targetMembership.Role == workspaces_enums.WorkspaceRoleOwner {
			owners, err := workspaceMembershipRepo.CountActiveOwners(request.WorkspaceID)
			if err != nil {
				return fmt.Errorf("failed to count owners: %w", err)
			}

			if owners <= 1 {
				return apperrors.NewValidation("cannot demote the only workspace owner")
			}
		}

		err := workspaceMembershipRepo.UpdateRoleAndStatus(
			request.WorkspaceID, request.UserID, &role, nil,
		)
		if err != nil {
			return fmt.Errorf("failed to update role: %w", err)
		}

		// a pending member's invitation must carry the new role too
		if targetMembership.Status == workspaces_enums.WorkspaceMembershipStatusPending &&
			targetMembership.InvitationToken != nil {
			err := s.invitationRepository.WithTx(tx).
				UpdateRoleByToken(*targetMembership.InvitationToken, string(role))
			if err != nil {
				return fmt.Errorf("failed to update invitation role: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.auditLogService.WriteAuditLog(
		nil, &request.WorkspaceID, &actor.ID,
		"workspace.member_role_changed",
		fmt.Sprintf("Role of user %s changed to %s", request.UserID, role),
	)

	return nil
}

// RemoveWorkspaceMember runs the removal saga: the member's sites go away,
// pending invitations they issued are withdrawn along with the membership
// rows those created, and finally their own membership row is deleted.
// Besides scope managers and super admins, the user who issued a still-open
// invitation may remove that invitee, but only while they hold the plain
// member role.
func (s *InvitationService) RemoveWorkspaceMember(
	actor *users_models.User,
	request *invitations_dto.RemoveWorkspaceMemberRequestDTO,
) error {
	workspace, err := s.workspaceRepository.GetWorkspaceByID(request.WorkspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace: %w", err)
	}

	if workspace == nil {
		return apperrors.NewNotFound("workspace not found")
	}

	isOrganizationManager, err := s.isOrganizationManager(actor, workspace.OrganizationID)
	if err != nil {
		return err
	}

	actorMembership, err := s.workspaceMembershipRepository.
		GetMembership(actor.ID, request.WorkspaceID)
	if err != nil {
		return fmt.Errorf("failed to get actor membership: %w", err)
	}

	isWorkspaceManager := actorMembership != nil &&
		actorMembership.Status == workspaces_enums.WorkspaceMembershipStatusActive &&
		access.CanManageWorkspace(actorMembership.Role)

	targetMembership, err := s.workspaceMembershipRepository.
		GetMembership(request.UserID, request.WorkspaceID)
	if err != nil {
		return fmt.Errorf("failed to get target membership: %w", err)
	}

	if targetMembership == nil {
		return apperrors.NewNotFound("user is not a member of this workspace")
	}

	isInviter := false

	if targetMembership.InvitationToken != nil {
		invitation, err := s.invitationRepository.GetByToken(*targetMembership.InvitationToken)
		if err != nil {
			return fmt.Errorf("failed to get invitation: %w", err)
		}

		isInviter = invitation != nil && invitation.InvitedByID == actor.ID
	}

	if !isOrganizationManager && !isWorkspaceManager && !isInviter {
		return apperrors.NewForbidden("you can only remove members that you invited")
	}

	if isInviter && !isOrganizationManager && !isWorkspaceManager {
		if request.UserID == actor.ID {
			return apperrors.NewValidation("you cannot remove yourself from the workspace")
		}

		if targetMembership.Role != workspaces_enums.WorkspaceRoleMember {
			return apperrors.NewForbidden(
				"inviters can only remove members with the member role",
			)
		}
	}

	if targetMembership.Role == workspaces_enums.WorkspaceRoleOwner {
		owners, err := s.workspaceMembershipRepository.CountActiveOwners(request.WorkspaceID)
		if err != nil {
			return fmt.Errorf("failed to count owners: %w", err)
		}

		if owners <= 1 {
			return apperrors.NewForbidden(
				"cannot remove the only workspace owner, transfer ownership first",
			)
		}
	}

	activeMembers, err := s.workspaceMembershipRepository.CountActiveMembers(request.WorkspaceID)
	if err != nil {
		return fmt.Errorf("failed to count members: %w", err)
	}

	if activeMembers <= 1 &&
		targetMembership.Status == workspaces_enums.WorkspaceMembershipStatusActive {
		return apperrors.NewValidation("cannot remove the last member of the workspace")
	}

	err = storage.RunInTransaction(s.db, func(tx *gorm.DB) error {
		workspaceMembershipRepo := s.workspaceMembershipRepository.WithTx(tx)
		invitationRepo := s.invitationRepository.WithTx(tx)

		err := s.siteRepository.WithTx(tx).
			DeleteByOwnerInWorkspace(request.UserID, request.WorkspaceID)
		if err != nil {
			return fmt.Errorf("failed to delete sites: %w", err)
		}

		tokens, err := invitationRepo.
			GetPendingTokensByCreator(request.UserID, request.WorkspaceID)
		if err != nil {
			return fmt.Errorf("failed to collect invitation tokens: %w", err)
		}

		if err := workspaceMembershipRepo.DeleteByTokens(tokens); err != nil {
			return fmt.Errorf("failed to delete invited memberships: %w", err)
		}

		if err := invitationRepo.DeleteByTokens(tokens); err != nil {
			return fmt.Errorf("failed to delete invitations: %w", err)
		}

		if err := workspaceMembershipRepo.DeleteMembership(targetMembership.ID); err != nil {
			return fmt.Errorf("failed to delete membership: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.auditLogService.WriteAuditLog(
		nil, &request.WorkspaceID, &actor.ID,
		"workspace.member_removed",
		fmt.Sprintf("User %s removed from workspace", request.UserID),
	)

	return nil
}

// isOrganizationManager reports whether the actor may administer the
// organization: super admins always can, otherwise an active owner or admin
// membership is required.
func (s *InvitationService) isOrganizationManager(
	actor *users_models.User,
	organizationID uuid.UUID,
) (bool, error) {
	if actor.IsSuperAdmin {
		return true, nil
	}

	membership, err := s.organizationMembershipRepository.
		GetMembership(actor.ID, organizationID)
	if err != nil {
		return false, fmt.Errorf("failed to get organization membership: %w", err)
	}

	return membership != nil &&
		membership.Status == organizations_enums.OrganizationMembershipStatusActive &&
		access.CanManageOrganization(membership.Role), nil
}

// requireInvitationRemover checks that the actor may withdraw the
// invitation: super admins and the original inviter always can, everyone
// else must manage the scope the invitation targets — the workspace for
// workspace invitations, the organization otherwise.
func (s *InvitationService) requireInvitationRemover(
	actor *users_models.User,
	invitation *invitations_models.Invitation,
) error {
	if actor.IsSuperAdmin || invitation.InvitedByID == actor.ID {
		return nil
	}

	if invitation.Type == invitations_enums.InvitationTypeWorkspace &&
		invitation.WorkspaceID != nil {
		membership, err := s.workspaceMembershipRepository.
			GetMembership(actor.ID, *invitation.WorkspaceID)
		if err != nil {
			return fmt.Errorf("failed to get actor membership: %w", err)
		}

		if membership == nil ||
			membership.Status != workspaces_enums.WorkspaceMembershipStatusActive ||
			!access.CanManageWorkspace(membership.Role) {
			return apperrors.NewForbidden("only owners and admins can manage invitations")
		}

		return nil
	}

	membership, err := s.organizationMembershipRepository.
		GetMembership(actor.ID, invitation.OrganizationID)
	if err != nil {
		return fmt.Errorf("failed to get actor membership: %w", err)
	}

	if membership == nil ||
		membership.Status != organizations_enums.OrganizationMembershipStatusActive ||
		!access.CanManageOrganization(membership.Role) {
		return apperrors.NewForbidden("only owners and admins can manage invitations")
	}

	return nil
}

// expireInvitation flips a stale invitation to EXPIRED and deactivates the
// PENDING membership row created from it.
func (s *InvitationService) expireInvitation(
	invitation *invitations_models.Invitation,
) error {
	return storage.RunInTransaction(s.db, func(tx *gorm.DB) error {
		err := s.invitationRepository.WithTx(tx).
			UpdateStatusByToken(invitation.Token, invitations_enums.InvitationStatusExpired)
		if err != nil {
			return fmt.Errorf("failed to expire invitation: %w", err)
		}

		if invitation.Type == invitations_enums.InvitationTypeWorkspace {
			err := s.workspaceMembershipRepository.WithTx(tx).UpdateStatusByToken(
				invitation.Token,
				workspaces_enums.WorkspaceMembershipStatusInactive,
				false,
			)
			if err != nil {
				return fmt.Errorf("failed to deactivate membership: %w", err)
			}
		}

		return nil
	})
}

// supersedePendingInvitations deletes earlier pending invitations for the
// same address and scope, plus the membership rows their tokens created.
func (s *InvitationService) supersedePendingInvitations(
	tx *gorm.DB,
	email string,
	invitationType invitations_enums.InvitationType,
	organizationID uuid.UUID,
	workspaceID *uuid.UUID,
) error {
	invitationRepo := s.invitationRepository.WithTx(tx)

	previous, err := invitationRepo.FindPendingForEmail(
		email, invitationType, organizationID, workspaceID,
	)
	if err != nil {
		return fmt.Errorf("failed to find previous invitations: %w", err)
	}

	if len(previous) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(previous))
	ids := make([]uuid.UUID, 0, len(previous))

	for _, invitation := range previous {
		tokens = append(tokens, invitation.Token)
		ids = append(ids, invitation.ID)
	}

	err = s.workspaceMembershipRepository.WithTx(tx).DeleteByTokens(tokens)
	if err != nil {
		return fmt.Errorf("failed to delete superseded memberships: %w", err)
	}

	if err := invitationRepo.DeleteByIDs(ids); err != nil {
		return fmt.Errorf("failed to delete superseded invitations: %w", err)
	}

	return nil
}

// ensureOrganizationMembership creates the membership if missing, otherwise
// raises its status. An existing ACTIVE membership is never downgraded.
func (s *InvitationService) ensureOrganizationMembership(
	tx *gorm.DB,
	userID, organizationID uuid.UUID,
	role organizations_enums.OrganizationRole,
	status organizations_enums.OrganizationMembershipStatus,
) error {
	membershipRepo := s.organizationMembershipRepository.WithTx(tx)

	membership, err := membershipRepo.GetMembership(userID, organizationID)
	if err != nil {
		return fmt.Errorf("failed to get organization membership: %w", err)
	}

	if membership == nil {
		membership = &organizations_models.OrganizationMembership{
			UserID:         userID,
			OrganizationID: organizationID,
			Role:           role,
			Status:         status,
		}

		if err := membershipRepo.CreateMembership(membership); err != nil {
			if storage.IsUniqueViolationOn(
				err, organizations_models.UniqueMembershipConstraint,
			) {
				// concurrent insert won, fall through to the update path
				return membershipRepo.UpdateRoleAndStatus(
					organizationID, userID, &role, &status,
				)
			}

			return fmt.Errorf("failed to create organization membership: %w", err)
		}

		return nil
	}

	if membership.Status == organizations_enums.OrganizationMembershipStatusActive &&
		status != organizations_enums.OrganizationMembershipStatusActive {
		return nil
	}

	newRole := membership.Role
	if status == organizations_enums.OrganizationMembershipStatusActive {
		newRole = role
	}

	// never silently demote an existing owner to a lesser role
	if membership.Role == organizations_enums.OrganizationRoleOwner {
		newRole = membership.Role
	}

	return membershipRepo.UpdateRoleAndStatus(organizationID, userID, &newRole, &status)
}

// checkOrganizationOwnerInvitable enforces the owner-role invite rules:
// only a super admin can grant OWNER, and only while the seat is empty with
// no owner invitation already pending.
func (s *InvitationService) checkOrganizationOwnerInvitable(
	actor *users_models.User,
	organizationID uuid.UUID,
) error {
	if !actor.IsSuperAdmin {
		return apperrors.NewForbidden("only super admins can grant the owner role")
	}

	owner, err := s.organizationMembershipRepository.GetActiveOwnerForUpdate(organizationID)
	if err != nil {
		return fmt.Errorf("failed to check owner: %w", err)
	}

	if owner != nil {
		return apperrors.NewConflict("organization already has an owner")
	}

	pending, err := s.invitationRepository.HasPendingOwnerInvitation(
		invitations_enums.InvitationTypeOrganization,
		organizationID, nil,
		string(organizations_enums.OrganizationRoleOwner),
	)
	if err != nil {
		return fmt.Errorf("failed to check pending owner invitations: %w", err)
	}

	if pending {
		return apperrors.NewConflict("an owner invitation is already pending")
	}

	return nil
}

func (s *InvitationService) checkWorkspaceOwnerInvitable(
	actor *users_models.User,
	workspaceID uuid.UUID,
) error {
	if !actor.IsSuperAdmin {
		return apperrors.NewForbidden("only super admins can grant the owner role")
	}

	owner, err := s.workspaceMembershipRepository.GetActiveOwnerForUpdate(workspaceID)
	if err != nil {
		return fmt.Errorf("failed to check owner: %w", err)
	}

	if owner != nil {
		return apperrors.NewConflict("workspace already has an owner")
	}

	workspace, err := s.workspaceRepository.GetWorkspaceByID(workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace: %w", err)
	}

	if workspace == nil {
		return apperrors.NewNotFound("workspace not found")
	}

	pending, err := s.invitationRepository.HasPendingOwnerInvitation(
		invitations_enums.InvitationTypeWorkspace,
		workspace.OrganizationID, &workspaceID,
		string(workspaces_enums.WorkspaceRoleOwner),
	)
	if err != nil {
		return fmt.Errorf("failed to check pending owner invitations: %w", err)
	}

	if pending {
		return apperrors.NewConflict("an owner invitation is already pending")
	}

	return nil
}

// sendInvitationEmail delivers the join link after the transaction has
// committed. Delivery failures are logged, never surfaced: the invitation
// already exists and can be re-sent.
func (s *InvitationService) sendInvitationEmail(
	ctx context.Context,
	invitation *invitations_models.Invitation,
	organizationName string,
	workspace *workspaces_models.Workspace,
	invitedByName string,
) bool {
	var err error

	if invitation.Type == invitations_enums.InvitationTypeWorkspace && workspace != nil {
		err = s.mailSender.SendWorkspaceInvitation(
			ctx, invitation.Email, workspace.Name, organizationName,
			invitedByName, invitation.Role, invitation.Token,
		)
	} else {
		err = s.mailSender.SendOrganizationInvitation(
			ctx, invitation.Email, organizationName,
			invitedByName, invitation.Role, invitation.Token,
		)
	}

	if err != nil {
		s.logger.Error(
			"failed to send invitation email",
			"email", invitation.Email, "error", err,
		)

		return false
	}

	return true
}
