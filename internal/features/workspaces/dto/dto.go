package workspaces_dto

import (
	"time"

	workspaces_enums "accessly-backend/internal/features/workspaces/enums"

	"github.com/google/uuid"
)

type CreateWorkspaceRequestDTO struct {
	OrganizationID uuid.UUID `json:"organizationId" binding:"required"`
	Name           string    `json:"name"           binding:"required,min=1,max=255"`
}

type UpdateWorkspaceRequestDTO struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

type WorkspaceResponseDTO struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organizationId"`
	Name           string    `json:"name"`
	Alias          string    `json:"alias"`
	CreatedAt      time.Time `json:"createdAt"`

	// caller's role inside this workspace, when listed for a user
	UserRole *workspaces_enums.WorkspaceRole `json:"userRole,omitempty"`
}

type ListWorkspacesResponseDTO struct {
	Workspaces []WorkspaceResponseDTO `json:"workspaces"`
}

// WorkspaceMemberResponseDTO is one membership row joined with user identity.
type WorkspaceMemberResponseDTO struct {
	ID        uuid.UUID                                  `json:"id"        gorm:"column:id"`
	UserID    uuid.UUID                                  `json:"userId"    gorm:"column:user_id"`
	Email     string                                     `json:"email"     gorm:"column:email"`
	Name      string                                     `json:"name"      gorm:"column:name"`
	Role      workspaces_enums.WorkspaceRole             `json:"role"      gorm:"column:role"`
	Status    workspaces_enums.WorkspaceMembershipStatus `json:"status"    gorm:"column:status"`
	CreatedAt time.Time                                  `json:"createdAt" gorm:"column:created_at"`
}

type GetWorkspaceMembersResponseDTO struct {
	Members []WorkspaceMemberResponseDTO `json:"members"`
}

// WorkspaceForUserRow carries a workspace plus the requesting user's
// membership role, scanned from a join.
type WorkspaceForUserRow struct {
	ID             uuid.UUID                      `gorm:"column:id"`
	OrganizationID uuid.UUID                      `gorm:"column:organization_id"`
	Name           string                         `gorm:"column:name"`
	Alias          string                         `gorm:"column:alias"`
	CreatedAt      time.Time                      `gorm:"column:created_at"`
	UserRole       workspaces_enums.WorkspaceRole `gorm:"column:user_role"`
}
