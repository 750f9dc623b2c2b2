package invitations_repositories

import (
	"errors"
	"time"

	invitations_dto "accessly-backend/internal/features/invitations/dto"
	invitations_enums "accessly-backend/internal/features/invitations/enums"
	invitations_models "accessly-backend/internal/features/invitations/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) WithTx(tx *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: tx}
}

func (r *InvitationRepository) CreateInvitation(
	invitation *invitations_models.Invitation,
) error {
	if invitation.ID == uuid.Nil {
		invitation.ID = uuid.New()
	}

	if invitation.CreatedAt.IsZero() {
		invitation.CreatedAt = time.Now().UTC()
	}

	return r.db.Create(invitation).Error
}

func (r *InvitationRepository) GetByToken(
	token string,
) (*invitations_models.Invitation, error) {
	var invitation invitations_models.Invitation

	if err := r.db.Where("token = ?", token).First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &invitation, nil
}

// scopeFilter narrows a query to organization scope (workspace_id IS NULL)
// or to one workspace.
func scopeFilter(
	query *gorm.DB,
	invitationType invitations_enums.InvitationType,
	organizationID uuid.UUID,
	workspaceID *uuid.UUID,
) *gorm.DB {
	query = query.Where("type = ? AND organization_id = ?", invitationType, organizationID)

	if workspaceID != nil {
		return query.Where("workspace_id = ?", *workspaceID)
	}

	return query.Where("workspace_id IS NULL")
}

func (r *InvitationRepository) FindPendingForEmail(
	email string,
	invitationType invitations_enums.InvitationType,
	organizationID uuid.UUID,
	workspaceID *uuid.UUID,
) ([]*invitations_models.Invitation, error) {
	invitations := make([]*invitations_models.Invitation, 0)

	query := r.db.Where(
		"email = ? AND status = ?",
		email, invitations_enums.InvitationStatusPending,
	)

	err := scopeFilter(query, invitationType, organizationID, workspaceID).
		Find(&invitations).Error

	return invitations, err
}

// HasPendingOwnerInvitation reports whether an OWNER-role invitation is
// already pending for the scope.
func (r *InvitationRepository) HasPendingOwnerInvitation(
	invitationType invitations_enums.InvitationType,
	organizationID uuid.UUID,
	workspaceID *uuid.UUID,
	ownerRole string,
) (bool, error) {
	var count int64

	query := r.db.Model(&invitations_models.Invitation{}).
		Where("role = ? AND status = ?", ownerRole, invitations_enums.InvitationStatusPending)

	err := scopeFilter(query, invitationType, organizationID, workspaceID).
		Count(&count).Error

	return count > 0, err
}

// GetInvitationDetailByToken loads the invitation joined with inviter,
// organization and workspace naming for the verify screen.
func (r *InvitationRepository) GetInvitationDetailByToken(
	token string,
) (*invitations_dto.VerifyInvitationResponseDTO, error) {
	var detail invitations_dto.VerifyInvitationResponseDTO

	err := r.db.
		Table("invitations i").
		Select(`i.email, i.role, i.type, i.status, i.organization_id, i.workspace_id,
			i.valid_until, o.name AS organization_name,
			w.name AS workspace_name, w.alias AS workspace_alias,
			u.name AS invited_by_name, u.email AS invited_by_email`).
		Joins("JOIN organizations o ON i.organization_id = o.id").
		Joins("LEFT JOIN workspaces w ON i.workspace_id = w.id").
		Joins("JOIN users u ON i.invited_by_id = u.id").
		Where("i.token = ?", token).
		Scan(&detail).Error

	if err != nil {
		return nil, err
	}

	if detail.Email == "" {
		return nil, nil
	}

	return &detail, nil
}

func (r *InvitationRepository) ListByOrganization(
	organizationID uuid.UUID,
) ([]*invitations_dto.InvitationListItemDTO, error) {
	items := make([]*invitations_dto.InvitationListItemDTO, 0)

	err := r.db.
		Table("invitations i").
		Select(`i.id, i.email, i.role, i.type, i.status, i.workspace_id,
			i.valid_until, i.created_at, w.name AS workspace_name,
			u.name AS invited_by_name, u.email AS invited_by_email`).
		Joins("LEFT JOIN workspaces w ON i.workspace_id = w.id").
		Joins("JOIN users u ON i.invited_by_id = u.id").
		Where("i.organization_id = ?", organizationID).
		Order("i.created_at DESC").
		Scan(&items).Error

	return items, err
}

func (r *InvitationRepository) UpdateStatusByToken(
	token string,
	status invitations_enums.InvitationStatus,
) error {
	return r.db.Model(&invitations_models.Invitation{}).
		Where("token = ?", token).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}

// MarkAcceptedByToken stamps acceptance metadata together with the status flip.
func (r *InvitationRepository) MarkAcceptedByToken(
	token string,
	acceptedByID uuid.UUID,
	acceptedAt time.Time,
) error {
	return r.db.Model(&invitations_models.Invitation{}).
		Where("token = ?", token).
		Updates(map[string]any{
			"status":         invitations_enums.InvitationStatusAccepted,
			"accepted_by_id": acceptedByID,
			"accepted_at":    acceptedAt,
			"updated_at":     time.Now().UTC(),
		}).Error
}

func (r *InvitationRepository) UpdateRoleByToken(token string, role string) error {
	return r.db.Model(&invitations_models.Invitation{}).
		Where("token = ?", token).
		Updates(map[string]any{
			"role":       role,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *InvitationRepository) DeleteByIDs(invitationIDs []uuid.UUID) error {
	if len(invitationIDs) == 0 {
		return nil
	}

	return r.db.
		Where("id IN ?", invitationIDs).
		Delete(&invitations_models.Invitation{}).Error
}

func (r *InvitationRepository) DeleteByID(invitationID uuid.UUID) error {
	return r.db.
		Where("id = ?", invitationID).
		Delete(&invitations_models.Invitation{}).Error
}

func (r *InvitationRepository) DeleteByWorkspace(workspaceID uuid.UUID) error {
	return r.db.
		Where("workspace_id = ?", workspaceID).
		Delete(&invitations_models.Invitation{}).Error
}

func (r *InvitationRepository) DeleteByOrganization(organizationID uuid.UUID) error {
	return r.db.
		Where("organization_id = ?", organizationID).
		Delete(&invitations_models.Invitation{}).Error
}

// GetPendingTokensByCreator returns tokens of pending invitations a user
// created within one workspace. Used when that user is removed.
func (r *InvitationRepository) GetPendingTokensByCreator(
	invitedByID, workspaceID uuid.UUID,
) ([]string, error) {
	tokens := make([]string, 0)

	err := r.db.Model(&invitations_models.Invitation{}).
		Where(
			"invited_by_id = ? AND workspace_id = ? AND status = ?",
			invitedByID, workspaceID, invitations_enums.InvitationStatusPending,
		).
		Pluck("token", &tokens).Error

	return tokens, err
}

// GetPendingTokensByCreatorInOrganization spans every workspace of the
// organization plus organization-level invitations.
func (r *InvitationRepository) GetPendingTokensByCreatorInOrganization(
	invitedByID, organizationID uuid.UUID,
) ([]string, error) {
	tokens := make([]string, 0)

	err := r.db.Model(&invitations_models.Invitation{}).
		Where(
			"invited_by_id = ? AND organization_id = ? AND status = ?",
			invitedByID, organizationID, invitations_enums.InvitationStatusPending,
		).
		Pluck("token", &tokens).Error

	return tokens, err
}

func (r *InvitationRepository) DeleteByTokens(tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}

	return r.db.
		Where("token IN ?", tokens).
		Delete(&invitations_models.Invitation{}).Error
}
