package workspaces_models

import (
	"time"

	workspaces_enums "accessly-backend/internal/features/workspaces/enums"

	"github.com/google/uuid"
)

const UniqueMembershipConstraint = "uq_workspace_memberships_user_workspace"

type WorkspaceMembership struct {
	ID          uuid.UUID                                  `json:"id"          gorm:"column:id"`
	UserID      uuid.UUID                                  `json:"userId"      gorm:"column:user_id;uniqueIndex:uq_workspace_memberships_user_workspace"`
	WorkspaceID uuid.UUID                                  `json:"workspaceId" gorm:"column:workspace_id;uniqueIndex:uq_workspace_memberships_user_workspace"`
	Role        workspaces_enums.WorkspaceRole             `json:"role"        gorm:"column:role"`
	Status      workspaces_enums.WorkspaceMembershipStatus `json:"status"      gorm:"column:status"`

	// set while the row is PENDING; points at the invitation that created it
	InvitationToken *string `json:"-" gorm:"column:invitation_token"`

	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (WorkspaceMembership) TableName() string {
	return "workspace_memberships"
}
