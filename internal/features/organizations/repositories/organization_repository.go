package organizations_repositories

import (
	"errors"
	"time"

	organizations_models "accessly-backend/internal/features/organizations/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) WithTx(tx *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: tx}
}

func (r *OrganizationRepository) CreateOrganization(
	organization *organizations_models.Organization,
) error {
	if organization.ID == uuid.Nil {
		organization.ID = uuid.New()
	}

	if organization.CreatedAt.IsZero() {
		organization.CreatedAt = time.Now().UTC()
	}

	return r.db.Create(organization).Error
}

func (r *OrganizationRepository) GetOrganizationByID(
	organizationID uuid.UUID,
) (*organizations_models.Organization, error) {
	var organization organizations_models.Organization

	if err := r.db.Where("id = ?", organizationID).First(&organization).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &organization, nil
}

func (r *OrganizationRepository) GetOrganizationByDomain(
	domain string,
) (*organizations_models.Organization, error) {
	var organization organizations_models.Organization

	if err := r.db.Where("domain = ?", domain).First(&organization).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &organization, nil
}

// GetOrganizationByDomainExcludingID is used on update, where the organization
// being edited must not collide with itself.
func (r *OrganizationRepository) GetOrganizationByDomainExcludingID(
	domain string,
	excludeID uuid.UUID,
) (*organizations_models.Organization, error) {
	var organization organizations_models.Organization

	err := r.db.
		Where("domain = ? AND id != ?", domain, excludeID).
		First(&organization).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &organization, nil
}

func (r *OrganizationRepository) GetOrganizationsByIDs(
	organizationIDs []uuid.UUID,
) ([]*organizations_models.Organization, error) {
	organizations := make([]*organizations_models.Organization, 0)

	if len(organizationIDs) == 0 {
		return organizations, nil
	}

	err := r.db.
		Where("id IN ?", organizationIDs).
		Order("created_at ASC").
		Find(&organizations).Error

	return organizations, err
}

func (r *OrganizationRepository) UpdateOrganization(
	organization *organizations_models.Organization,
) error {
	organization.UpdatedAt = time.Now().UTC()
	return r.db.Save(organization).Error
}

func (r *OrganizationRepository) DeleteOrganization(organizationID uuid.UUID) error {
	return r.db.
		Where("id = ?", organizationID).
		Delete(&organizations_models.Organization{}).Error
}
