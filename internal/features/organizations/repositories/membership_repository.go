package organizations_repositories

import (
	"errors"
	"time"

	organizations_dto "accessly-backend/internal/features/organizations/dto"
	organizations_enums "accessly-backend/internal/features/organizations/enums"
	organizations_models "accessly-backend/internal/features/organizations/models"

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
	membership *organizations_models.OrganizationMembership,
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
	userID, organizationID uuid.UUID,
) (*organizations_models.OrganizationMembership, error) {
	var membership organizations_models.OrganizationMembership

	err := r.db.
		Where("user_id = ? AND organization_id = ?", userID, organizationID).
		First(&membership).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &membership, nil
}

func (r *MembershipRepository) GetMembershipByID(
	membershipID uuid.UUID,
) (*organizations_models.OrganizationMembership, error) {
	var membership organizations_models.OrganizationMembership

	if err := r.db.Where("id = ?", membershipID).First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &membership, nil
}

func (r *MembershipRepository) ListByUser(
	userID uuid.UUID,
) ([]*organizations_models.OrganizationMembership, error) {
	memberships := make([]*organizations_models.OrganizationMembership, 0)

	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&memberships).Error

	return memberships, err
}

// ListByOrganization returns membership rows enriched with user identity and
// the user's total organization count, for admin views.
func (r *MembershipRepository) ListByOrganization(
	organizationID uuid.UUID,
) ([]*organizations_dto.OrganizationMemberResponseDTO, error) {
	members := make([]*organizations_dto.OrganizationMemberResponseDTO, 0)

	err := r.db.
		Table("organization_memberships om").
		Select(`om.id, om.user_id, u.email, u.name, om.role, om.status, om.created_at,
			(SELECT COUNT(*) FROM organization_memberships
			 WHERE user_id = om.user_id) AS organizations_count`).
		Joins("JOIN users u ON om.user_id = u.id").
		Where("om.organization_id = ?", organizationID).
		Order("om.created_at ASC").
		Scan(&members).Error

	return members, err
}

func (r *MembershipRepository) UpdateRoleAndStatus(
	organizationID, userID uuid.UUID,
	role *organizations_enums.OrganizationRole,
	status *organizations_enums.OrganizationMembershipStatus,
) error {
	patch := map[string]any{"updated_at": time.Now().UTC()}

	if role != nil {
		patch["role"] = *role
	}

	if status != nil {
		patch["status"] = *status
	}

	return r.db.Model(&organizations_models.OrganizationMembership{}).
		Where("organization_id = ? AND user_id = ?", organizationID, userID).
		Updates(patch).Error
}

func (r *MembershipRepository) SetCurrentWorkspace(
	organizationID, userID uuid.UUID,
	workspaceID *uuid.UUID,
) error {
	return r.db.Model(&organizations_models.OrganizationMembership{}).
		Where("organization_id = ? AND user_id = ?", organizationID, userID).
		Update("current_workspace_id", workspaceID).Error
}

func (r *MembershipRepository) DeleteMembership(membershipID uuid.UUID) error {
	return r.db.
		Where("id = ?", membershipID).
		Delete(&organizations_models.OrganizationMembership{}).Error
}

func (r *MembershipRepository) DeleteByOrganization(organizationID uuid.UUID) error {
	return r.db.
		Where("organization_id = ?", organizationID).
		Delete(&organizations_models.OrganizationMembership{}).Error
}

// GetActiveOwnerForUpdate loads the active OWNER row under a row lock.
// Callers must already be inside a transaction; the lock is what keeps two
// concurrent owner assignments from both passing the uniqueness check.
func (r *MembershipRepository) GetActiveOwnerForUpdate(
	organizationID uuid.UUID,
) (*organizations_models.OrganizationMembership, error) {
	var membership organizations_models.OrganizationMembership

	err := r.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"organization_id = ? AND role = ? AND status = ?",
			organizationID,
			organizations_enums.OrganizationRoleOwner,
			organizations_enums.OrganizationMembershipStatusActive,
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
