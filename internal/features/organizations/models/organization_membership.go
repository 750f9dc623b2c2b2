package organizations_models

import (
	"time"

	organizations_enums "accessly-backend/internal/features/organizations/enums"

	"github.com/google/uuid"
)

// UniqueMembershipConstraint is the unique index over (user_id, organization_id);
// concurrent duplicate adds are classified against this name and resolved by
// re-fetching the row the other transaction committed.
const UniqueMembershipConstraint = "uq_organization_memberships_user_org"

type OrganizationMembership struct {
	ID             uuid.UUID                                       `json:"id"             gorm:"column:id"`
	UserID         uuid.UUID                                       `json:"userId"         gorm:"column:user_id;uniqueIndex:uq_organization_memberships_user_org"`
	OrganizationID uuid.UUID                                       `json:"organizationId" gorm:"column:organization_id;uniqueIndex:uq_organization_memberships_user_org"`
	Role           organizations_enums.OrganizationRole            `json:"role"           gorm:"column:role"`
	Status         organizations_enums.OrganizationMembershipStatus `json:"status"         gorm:"column:status"`

	// workspace the user is currently switched into, nil before first switch
	CurrentWorkspaceID *uuid.UUID `json:"currentWorkspaceId" gorm:"column:current_workspace_id"`

	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (OrganizationMembership) TableName() string {
	return "organization_memberships"
}
