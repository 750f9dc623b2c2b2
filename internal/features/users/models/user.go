package users_models

import (
	"time"

	"github.com/google/uuid"
)

const UniqueEmailConstraint = "uq_users_email"

type User struct {
	ID                    uuid.UUID  `json:"id"                    gorm:"column:id"`
	Email                 string     `json:"email"                 gorm:"column:email;uniqueIndex:uq_users_email"`
	Name                  string     `json:"name"                  gorm:"column:name"`
	HashedPassword        *string    `json:"-"                     gorm:"column:hashed_password"`
	PasswordCreationTime  time.Time  `json:"-"                     gorm:"column:password_creation_time"`
	IsSuperAdmin          bool       `json:"isSuperAdmin"          gorm:"column:is_super_admin"`
	CurrentOrganizationID *uuid.UUID `json:"currentOrganizationId" gorm:"column:current_organization_id"`
	CreatedAt             time.Time  `json:"createdAt"             gorm:"column:created_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) HasPassword() bool {
	return u.HashedPassword != nil && *u.HashedPassword != ""
}
