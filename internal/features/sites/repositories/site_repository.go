package sites_repositories

import (
	"errors"
	"time"

	sites_models "accessly-backend/internal/features/sites/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SiteRepository struct {
	db *gorm.DB
}

func NewSiteRepository(db *gorm.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

func (r *SiteRepository) WithTx(tx *gorm.DB) *SiteRepository {
	return &SiteRepository{db: tx}
}

func (r *SiteRepository) CreateSite(site *sites_models.Site) error {
	if site.ID == uuid.Nil {
		site.ID = uuid.New()
	}

	if site.CreatedAt.IsZero() {
		site.CreatedAt = time.Now().UTC()
	}

	return r.db.Create(site).Error
}

func (r *SiteRepository) GetSiteByID(siteID uuid.UUID) (*sites_models.Site, error) {
	var site sites_models.Site

	if err := r.db.Where("id = ?", siteID).First(&site).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &site, nil
}

func (r *SiteRepository) ListByWorkspace(
	workspaceID uuid.UUID,
) ([]*sites_models.Site, error) {
	sites := make([]*sites_models.Site, 0)

	err := r.db.
		Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&sites).Error

	return sites, err
}

func (r *SiteRepository) DeleteSite(siteID uuid.UUID) error {
	return r.db.
		Where("id = ?", siteID).
		Delete(&sites_models.Site{}).Error
}

// DeleteByOwnerInWorkspace drops the sites a user added to a workspace, as
// part of removing that user from the workspace.
func (r *SiteRepository) DeleteByOwnerInWorkspace(
	createdBy, workspaceID uuid.UUID,
) error {
	return r.db.
		Where("created_by = ? AND workspace_id = ?", createdBy, workspaceID).
		Delete(&sites_models.Site{}).Error
}

func (r *SiteRepository) DeleteByWorkspace(workspaceID uuid.UUID) error {
	return r.db.
		Where("workspace_id = ?", workspaceID).
		Delete(&sites_models.Site{}).Error
}
