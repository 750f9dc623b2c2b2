package audit_logs

import (
	"log/slog"

	"accessly-backend/internal/util/logger"

	"github.com/google/uuid"
)

type AuditLogService struct {
	auditLogRepository *AuditLogRepository

	logger *slog.Logger
}

func NewAuditLogService(auditLogRepository *AuditLogRepository) *AuditLogService {
	return &AuditLogService{
		auditLogRepository: auditLogRepository,
		logger:             logger.GetLogger(),
	}
}

// WriteAuditLog records a membership lifecycle event. Failures are logged and
// swallowed so audit writes never break the operation they describe.
func (s *AuditLogService) WriteAuditLog(
	organizationID *uuid.UUID,
	workspaceID *uuid.UUID,
	actorID *uuid.UUID,
	action string,
	message string,
) {
	entry := &AuditLog{
		OrganizationID: organizationID,
		WorkspaceID:    workspaceID,
		ActorID:        actorID,
		Action:         action,
		Message:        message,
	}

	if err := s.auditLogRepository.Create(entry); err != nil {
		s.logger.Error("failed to write audit log", "action", action, "error", err)
	}
}

func (s *AuditLogService) GetOrganizationAuditLogs(
	organizationID uuid.UUID,
	limit int,
) ([]*AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	return s.auditLogRepository.ListByOrganization(organizationID, limit)
}
