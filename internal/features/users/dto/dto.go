package users_dto

import (
	"time"

	"github.com/google/uuid"
)

type SignUpRequestDTO struct {
	Email    string `json:"email"    binding:"required,email"`
	Name     string `json:"name"     binding:"required,min=1,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`

	// present when registration was reached through an invitation link
	InvitationToken *string `json:"invitationToken"`
}

type SignInRequestDTO struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SignInResponseDTO struct {
	UserID uuid.UUID `json:"userId"`
	Token  string    `json:"token"`
}

type UserProfileResponseDTO struct {
	ID                    uuid.UUID  `json:"id"`
	Email                 string     `json:"email"`
	Name                  string     `json:"name"`
	IsSuperAdmin          bool       `json:"isSuperAdmin"`
	CurrentOrganizationID *uuid.UUID `json:"currentOrganizationId"`
	CreatedAt             time.Time  `json:"createdAt"`
}
