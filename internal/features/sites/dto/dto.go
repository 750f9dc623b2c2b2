package sites_dto

import "github.com/google/uuid"

type CreateSiteRequestDTO struct {
	WorkspaceID uuid.UUID `json:"workspaceId" binding:"required"`
	URL         string    `json:"url"         binding:"required,url"`
}
