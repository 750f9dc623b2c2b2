package invitations_models

import (
	"time"

	invitations_enums "accessly-backend/internal/features/invitations/enums"

	"github.com/google/uuid"
)

// ValidPeriodDays is how long an invitation stays acceptable after creation.
const ValidPeriodDays = 14

const UniqueTokenConstraint = "uq_invitations_token"

type Invitation struct {
	ID    uuid.UUID                        `json:"id"    gorm:"column:id"`
	Email string                           `json:"email" gorm:"column:email"`
	Type  invitations_enums.InvitationType `json:"type"  gorm:"column:type"`

	OrganizationID uuid.UUID  `json:"organizationId" gorm:"column:organization_id"`
	WorkspaceID    *uuid.UUID `json:"workspaceId"    gorm:"column:workspace_id"`

	// organization role for ORGANIZATION invitations, workspace role for
	// WORKSPACE ones; validated against the matching enum at the boundary
	Role string `json:"role" gorm:"column:role"`

	Status invitations_enums.InvitationStatus `json:"status" gorm:"column:status"`
	Token  string                             `json:"-"      gorm:"column:token;uniqueIndex:uq_invitations_token"`

	InvitedByID  uuid.UUID  `json:"invitedById"  gorm:"column:invited_by_id"`
	ValidUntil   time.Time  `json:"validUntil"   gorm:"column:valid_until"`
	AcceptedAt   *time.Time `json:"acceptedAt"   gorm:"column:accepted_at"`
	AcceptedByID *uuid.UUID `json:"acceptedById" gorm:"column:accepted_by_id"`

	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (Invitation) TableName() string {
	return "invitations"
}

// IsExpiredAt reports whether the invitation is past its validity window.
func (i *Invitation) IsExpiredAt(now time.Time) bool {
	return now.After(i.ValidUntil)
}
