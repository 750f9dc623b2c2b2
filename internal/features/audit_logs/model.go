package audit_logs

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID             uuid.UUID  `json:"id"             gorm:"column:id"`
	OrganizationID *uuid.UUID `json:"organizationId" gorm:"column:organization_id;index"`
	WorkspaceID    *uuid.UUID `json:"workspaceId"    gorm:"column:workspace_id"`
	ActorID        *uuid.UUID `json:"actorId"        gorm:"column:actor_id"`
	Action         string     `json:"action"         gorm:"column:action"`
	Message        string     `json:"message"        gorm:"column:message"`
	CreatedAt      time.Time  `json:"createdAt"      gorm:"column:created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
