package organizations_models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const UniqueDomainConstraint = "uq_organizations_domain"

type Organization struct {
	ID     uuid.UUID `json:"id"     gorm:"column:id"`
	Name   string    `json:"name"   gorm:"column:name"`
	Domain string    `json:"domain" gorm:"column:domain;uniqueIndex:uq_organizations_domain"`

	// opaque product settings blob, stored as-is
	Settings json.RawMessage `json:"settings" gorm:"column:settings;type:jsonb"`

	StripeAccountID           *string `json:"stripeAccountId"           gorm:"column:stripe_account_id"`
	AgencyRevenueSharePercent int     `json:"agencyRevenueSharePercent" gorm:"column:agency_revenue_share_percent;default:50"`

	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (Organization) TableName() string {
	return "organizations"
}
