package audit_logs

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Create(log *AuditLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}

	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	return r.db.Create(log).Error
}

func (r *AuditLogRepository) ListByOrganization(
	organizationID uuid.UUID,
	limit int,
) ([]*AuditLog, error) {
	logs := make([]*AuditLog, 0)

	err := r.db.
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error

	return logs, err
}
