package workspaces_repositories

import (
	"errors"
	"time"

	workspaces_dto "accessly-backend/internal/features/workspaces/dto"
	workspaces_enums "accessly-backend/internal/features/workspaces/enums"
	workspaces_models "accessly-backend/internal/features/workspaces/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) WithTx(tx *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: tx}
}

func (r *MembershipRepository) CreateMembership(
	membership *workspaces_models.WorkspaceMembership,
) error {
	if membership.ID == uuid.Nil {
		membership.ID = uuid.New()
	}

	if membership.CreatedAt.IsZero() {
		membership.CreatedAt = time.Now().UTC()
	}

	return r.db.Create(membership).Error
}

func (r *MembershipRepository) GetMembership(
	userID, workspaceID uuid.UUID,
) (*workspaces_models.WorkspaceMembership, error) {
	var membership workspaces_models.WorkspaceMembership

	err := r.db.
		Where("user_id = ? AND workspace_id = ?", userID, workspaceID).
		First(&membership).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &membership, nil
}

func (r *MembershipRepository) GetMembershipByToken(
	token string,
) (*workspaces_models.WorkspaceMembership, error) {
	var membership workspaces_models.WorkspaceMembership

	err := r.db.
		Where("invitation_token = ?", token).
		First(&membership).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &membership, nil
}

// GetWorkspaceMembers returns membership rows joined with user identity.
func (r *MembershipRepository) GetWorkspaceMembers(
	workspaceID uuid.UUID,
) ([]*workspaces_dto.WorkspaceMemberResponseDTO, error) {
	members := make([]*workspaces_dto.WorkspaceMemberResponseDTO, 0)

	err := r.db.
		Table("workspace_memberships wm").
		Select("wm.id, wm.user_id, u.email, u.name, wm.role, wm.status, wm.created_at").
		Joins("JOIN users u ON wm.user_id = u.id").
		Where("wm.workspace_id = ?", workspaceID).
		Order("wm.created_at ASC").
		Scan(&members).Error

	return members, err
}

func (r *MembershipRepository) ListByUser(
	userID uuid.UUID,
) ([]*workspaces_models.WorkspaceMembership, error) {
	memberships := make([]*workspaces_models.WorkspaceMembership, 0)

	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&memberships).Error

	return memberships, err
}

func (r *MembershipRepository) UpdateRoleAndStatus(
	workspaceID, userID uuid.UUID,
	role *workspaces_enums.WorkspaceRole,
	status *workspaces_enums.WorkspaceMembershipStatus,
) error {
	patch := map[string]any{"updated_at": time.Now().UTC()}

	if role != nil {
		patch["role"] = *role
	}

	if status != nil {
		patch["status"] = *status
	}

	return r.db.Model(&workspaces_models.WorkspaceMembership{}).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Updates(patch).Error
}

// UpdateStatusByToken flips the status of the membership row that an
// invitation token created, clearing the token when the row leaves PENDING.
func (r *MembershipRepository) UpdateStatusByToken(
	token string,
	status workspaces_enums.WorkspaceMembershipStatus,
	clearToken bool,
) error {
	patch := map[string]any{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}

	if clearToken {
		patch["invitation_token"] = nil
	}

	return r.db.Model(&workspaces_models.WorkspaceMembership{}).
		Where("invitation_token = ?", token).
		Updates(patch).Error
}

func (r *MembershipRepository) DeleteMembership(membershipID uuid.UUID) error {
	return r.db.
		Where("id = ?", membershipID).
		Delete(&workspaces_models.WorkspaceMembership{}).Error
}

func (r *MembershipRepository) DeleteByWorkspace(workspaceID uuid.UUID) error {
	return r.db.
		Where("workspace_id = ?", workspaceID).
		Delete(&workspaces_models.WorkspaceMembership{}).Error
}

func (r *MembershipRepository) DeleteByTokens(tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}

	return r.db.
		Where("invitation_token IN ?", tokens).
		Delete(&workspaces_models.WorkspaceMembership{}).Error
}

// DeleteByUserInOrganization removes the user's membership rows across every
// workspace of the organization, as part of organization-level removal.
func (r *MembershipRepository) DeleteByUserInOrganization(
	userID, organizationID uuid.UUID,
) error {
	return r.db.
		Where(
			`user_id = ? AND workspace_id IN (
				SELECT id FROM workspaces WHERE organization_id = ?
			)`,
			userID, organizationID,
		).
		Delete(&workspaces_models.WorkspaceMembership{}).Error
}

func (r *MembershipRepository) CountActiveMembers(workspaceID uuid.UUID) (int64, error) {
	var count int64

	err := r.db.Model(&workspaces_models.WorkspaceMembership{}).
		Where(
			"workspace_id = ? AND status = ?",
			workspaceID,
			workspaces_enums.WorkspaceMembershipStatusActive,
		).
		Count(&count).Error

	return count, err
}

func (r *MembershipRepository) CountActiveOwners(workspaceID uuid.UUID) (int64, error) {
	var count int64

	err := r.db.Model(&workspaces_models.WorkspaceMembership{}).
		Where(
			"workspace_id = ? AND role = ? AND status = ?",
			workspaceID,
			workspaces_enums.WorkspaceRoleOwner,
			workspaces_enums.WorkspaceMembershipStatusActive,
		).
		Count(&count).Error

	return count, err
}

// GetActiveOwnerForUpdate locks the active OWNER row of the workspace so
// concurrent owner assignments serialize on it. Call inside a transaction.
func (r *MembershipRepository) GetActiveOwnerForUpdate(
	workspaceID uuid.UUID,
) (*workspaces_models.WorkspaceMembership, error) {
	var membership workspaces_models.WorkspaceMembership

	err := r.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"workspace_id = ? AND role = ? AND status = ?",
			workspaceID,
			workspaces_enums.WorkspaceRoleOwner,
			workspaces_enums.WorkspaceMembershipStatusActive,
		).
		First(&membership).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &membership, nil
}
