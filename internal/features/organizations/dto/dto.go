package organizations_dto

import (
	"encoding/json"
	"time"

	organizations_enums "accessly-backend/internal/features/organizations/enums"

	"github.com/google/uuid"
)

type CreateOrganizationRequestDTO struct {
	Name     string          `json:"name"     binding:"required,min=1,max=255"`
	Domain   string          `json:"domain"   binding:"required,min=3,max=253"`
	Settings json.RawMessage `json:"settings"`
}

type UpdateOrganizationRequestDTO struct {
	Name     *string         `json:"name"     binding:"omitempty,min=1,max=255"`
	Domain   *string         `json:"domain"   binding:"omitempty,min=3,max=253"`
	Settings json.RawMessage `json:"settings"`

	AgencyRevenueSharePercent *int `json:"agencyRevenueSharePercent" binding:"omitempty,min=0,max=100"`
}

type OrganizationResponseDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain"`
	CreatedAt time.Time `json:"createdAt"`

	// caller's role inside this organization
	UserRole *organizations_enums.OrganizationRole `json:"userRole,omitempty"`
}

type ListOrganizationsResponseDTO struct {
	Organizations []OrganizationResponseDTO `json:"organizations"`
}

// OrganizationMemberResponseDTO is the admin view of one membership row,
// enriched with user identity and how many organizations the user belongs to.
type OrganizationMemberResponseDTO struct {
	ID                 uuid.UUID                                        `json:"id"                 gorm:"column:id"`
	UserID             uuid.UUID                                        `json:"userId"             gorm:"column:user_id"`
	Email              string                                           `json:"email"              gorm:"column:email"`
	Name               string                                           `json:"name"               gorm:"column:name"`
	Role               organizations_enums.OrganizationRole             `json:"role"               gorm:"column:role"`
	Status             organizations_enums.OrganizationMembershipStatus `json:"status"             gorm:"column:status"`
	OrganizationsCount int64                                            `json:"organizationsCount" gorm:"column:organizations_count"`
	CreatedAt          time.Time                                        `json:"createdAt"          gorm:"column:created_at"`
}

type GetOrganizationMembersResponseDTO struct {
	Members []OrganizationMemberResponseDTO `json:"members"`
}

type SetCurrentWorkspaceRequestDTO struct {
	WorkspaceID uuid.UUID `json:"workspaceId" binding:"required"`
}
