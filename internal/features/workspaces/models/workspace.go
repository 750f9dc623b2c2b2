package workspaces_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UniqueAliasConstraint is the unique index over (organization_id, alias).
// The alias is only unique inside its organization, never globally.
const UniqueAliasConstraint = "uq_workspaces_org_alias"

type Workspace struct {
	ID             uuid.UUID `json:"id"             gorm:"column:id"`
	OrganizationID uuid.UUID `json:"organizationId" gorm:"column:organization_id;uniqueIndex:uq_workspaces_org_alias"`
	Name           string    `json:"name"           gorm:"column:name"`
	Alias          string    `json:"alias"          gorm:"column:alias;uniqueIndex:uq_workspaces_org_alias"`
	CreatedBy      uuid.UUID `json:"createdBy"      gorm:"column:created_by"`

	CreatedAt time.Time      `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt time.Time      `json:"updatedAt" gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"         gorm:"column:deleted_at;index"`
}

func (Workspace) TableName() string {
	return "workspaces"
}
