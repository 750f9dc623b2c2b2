package invitations_dto

import (
	"time"

	invitations_enums "accessly-backend/internal/features/invitations/enums"

	"github.com/google/uuid"
)

type InviteToOrganizationRequestDTO struct {
	OrganizationID uuid.UUID `json:"organizationId" binding:"required"`
	Email          string    `json:"email"          binding:"required,email"`
	Role           string    `json:"role"           binding:"required"`
}

type InviteToWorkspaceRequestDTO struct {
	WorkspaceID uuid.UUID `json:"workspaceId" binding:"required"`
	Email       string    `json:"email"       binding:"required,email"`
	Role        string    `json:"role"        binding:"required"`
}

type RespondToInvitationRequestDTO struct {
	Token  string `json:"token"  binding:"required"`
	Accept bool   `json:"accept"`
}

type ChangeWorkspaceMemberRoleRequestDTO struct {
	WorkspaceID uuid.UUID `json:"workspaceId" binding:"required"`
	UserID      uuid.UUID `json:"userId"      binding:"required"`
	Role        string    `json:"role"        binding:"required"`
}

type RemoveWorkspaceMemberRequestDTO struct {
	WorkspaceID uuid.UUID `json:"workspaceId" binding:"required"`
	UserID      uuid.UUID `json:"userId"      binding:"required"`
}

type InviteResponseDTO struct {
	InvitationID uuid.UUID `json:"invitationId"`
	Token        string    `json:"token"`
	EmailSent    bool      `json:"emailSent"`
}

// VerifyInvitationResponseDTO is what the join/landing page renders before the
// user decides to accept or decline.
type VerifyInvitationResponseDTO struct {
	Email            string                             `json:"email"            gorm:"column:email"`
	Role             string                             `json:"role"             gorm:"column:role"`
	Type             invitations_enums.InvitationType   `json:"type"             gorm:"column:type"`
	Status           invitations_enums.InvitationStatus `json:"status"           gorm:"column:status"`
	OrganizationID   uuid.UUID                          `json:"organizationId"   gorm:"column:organization_id"`
	OrganizationName string                             `json:"organizationName" gorm:"column:organization_name"`
	WorkspaceID      *uuid.UUID                         `json:"workspaceId"      gorm:"column:workspace_id"`
	WorkspaceName    *string                            `json:"workspaceName"    gorm:"column:workspace_name"`
	WorkspaceAlias   *string                            `json:"workspaceAlias"   gorm:"column:workspace_alias"`
	InvitedByName    string                             `json:"invitedByName"    gorm:"column:invited_by_name"`
	InvitedByEmail   string                             `json:"invitedByEmail"   gorm:"column:invited_by_email"`
	ValidUntil       time.Time                          `json:"validUntil"       gorm:"column:valid_until"`

	// true when the invited address already has an account, so the frontend
	// can route to sign-in instead of registration
	UserExists bool `json:"userExists" gorm:"-"`
}

type InvitationListItemDTO struct {
	ID             uuid.UUID                          `json:"id"             gorm:"column:id"`
	Email          string                             `json:"email"          gorm:"column:email"`
	Role           string                             `json:"role"           gorm:"column:role"`
	Type           invitations_enums.InvitationType   `json:"type"           gorm:"column:type"`
	Status         invitations_enums.InvitationStatus `json:"status"         gorm:"column:status"`
	WorkspaceID    *uuid.UUID                         `json:"workspaceId"    gorm:"column:workspace_id"`
	WorkspaceName  *string                            `json:"workspaceName"  gorm:"column:workspace_name"`
	InvitedByName  string                             `json:"invitedByName"  gorm:"column:invited_by_name"`
	InvitedByEmail string                             `json:"invitedByEmail" gorm:"column:invited_by_email"`
	ValidUntil     time.Time                          `json:"validUntil"     gorm:"column:valid_until"`
	CreatedAt      time.Time                          `json:"createdAt"      gorm:"column:created_at"`
}

type ListInvitationsResponseDTO struct {
	Invitations []InvitationListItemDTO `json:"invitations"`
}
