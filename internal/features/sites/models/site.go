package sites_models

import (
	"time"

	"github.com/google/uuid"
)

// Site is a monitored site inside a workspace. Sites belong to the member
// who added them and are cascade-deleted when that member is removed.
type Site struct {
	ID          uuid.UUID `json:"id"          gorm:"column:id"`
	WorkspaceID uuid.UUID `json:"workspaceId" gorm:"column:workspace_id;index"`
	CreatedBy   uuid.UUID `json:"createdBy"   gorm:"column:created_by"`
	URL         string    `json:"url"         gorm:"column:url"`
	CreatedAt   time.Time `json:"createdAt"   gorm:"column:created_at"`
}

func (Site) TableName() string {
	return "sites"
}
