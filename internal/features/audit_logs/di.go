package audit_logs

import "accessly-backend/internal/storage"

var auditLogRepository = NewAuditLogRepository(storage.GetDb())
var auditLogService = NewAuditLogService(auditLogRepository)

func GetAuditLogService() *AuditLogService {
	return auditLogService
}
