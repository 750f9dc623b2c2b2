package workspaces_repositories

import (
	"errors"
	"time"

	workspaces_dto "accessly-backend/internal/features/workspaces/dto"
	workspaces_enums "accessly-backend/internal/features/workspaces/enums"
	workspaces_models "accessly-backend/internal/features/workspaces/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkspaceRepository struct {
	db *gorm.DB
}

func NewWorkspaceRepository(db *gorm.DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

func (r *WorkspaceRepository) WithTx(tx *gorm.DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: tx}
}

func (r *WorkspaceRepository) CreateWorkspace(workspace *workspaces_models.Workspace) error {
	if workspace.ID == uuid.Nil {
		workspace.ID = uuid.New()
	}

	if workspace.CreatedAt.IsZero() {
		workspace.CreatedAt = time.Now().UTC()
	}

	return r.db.Create(workspace).Error
}

func (r *WorkspaceRepository) GetWorkspaceByID(
	workspaceID uuid.UUID,
) (*workspaces_models.Workspace, error) {
	var workspace workspaces_models.Workspace

	if err := r.db.Where("id = ?", workspaceID).First(&workspace).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &workspace, nil
}

func (r *WorkspaceRepository) GetWorkspaceByAlias(
	organizationID uuid.UUID,
	alias string,
) (*workspaces_models.Workspace, error) {
	var workspace workspaces_models.Workspace

	err := r.db.
		Where("organization_id = ? AND alias = ?", organizationID, alias).
		First(&workspace).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &workspace, nil
}

func (r *WorkspaceRepository) ListByOrganization(
	organizationID uuid.UUID,
) ([]*workspaces_models.Workspace, error) {
	workspaces := make([]*workspaces_models.Workspace, 0)

	err := r.db.
		Where("organization_id = ?", organizationID).
		Order("created_at ASC").
		Find(&workspaces).Error

	return workspaces, err
}

// ListForUser returns the workspaces of an organization where the user has an
// active membership, together with that membership's role.
func (r *WorkspaceRepository) ListForUser(
	organizationID, userID uuid.UUID,
) ([]*workspaces_dto.WorkspaceForUserRow, error) {
	rows := make([]*workspaces_dto.WorkspaceForUserRow, 0)

	err := r.db.
		Table("workspaces w").
		Select("w.id, w.organization_id, w.name, w.alias, w.created_at, wm.role AS user_role").
		Joins("JOIN workspace_memberships wm ON wm.workspace_id = w.id").
		Where(
			"w.organization_id = ? AND wm.user_id = ? AND wm.status = ? AND w.deleted_at IS NULL",
			organizationID,
			userID,
			workspaces_enums.WorkspaceMembershipStatusActive,
		).
		Order("w.created_at ASC").
		Scan(&rows).Error

	return rows, err
}

func (r *WorkspaceRepository) UpdateWorkspace(workspace *workspaces_models.Workspace) error {
	workspace.UpdatedAt = time.Now().UTC()
	return r.db.Save(workspace).Error
}

// DeleteWorkspace removes the row permanently; membership and invitation
// cleanup is the caller's responsibility inside the same transaction.
func (r *WorkspaceRepository) DeleteWorkspace(workspaceID uuid.UUID) error {
	return r.db.
		Unscoped().
		Where("id = ?", workspaceID).
		Delete(&workspaces_models.Workspace{}).Error
}
