package storage

import (
	"log"
	"time"

	"childguard/backend/internal/access"
	"childguard/backend/internal/config"
	"childguard/backend/internal/models"
)

// AuditFilter combines the peer scope with the optional history filters.
// Actions is the server-side action subset; Action narrows to a single one.
type AuditFilter struct {
	Scope   access.AuditScope
	Actions []models.AuditAction
	Action  models.AuditAction
	From    *time.Time
	To      *time.Time
	Page    int
	Limit   int
}

// AppendAudit inserts one immutable audit entry.
func (s *Service) AppendAudit(e *models.AuditEntry) error {
	return s.DB.Create(e).Error
}

// QueryAudit returns one page of audit entries matching the filter, newest
// first, plus the total match count. The peer scope restricts entries to
// actors at the same role level (and unit, for non-global scopes) via a
// subquery on the actors table.
func (s *Service) QueryAudit(f AuditFilter) ([]models.AuditEntry, int64, error) {
	peers := s.DB.Model(&models.Actor{}).Select("id").Where("role = ?", f.Scope.Role)
	if f.Scope.UnitID != "" {
		peers = peers.Where("unit_id = ?", f.Scope.UnitID)
	}

	q := s.DB.Model(&models.AuditEntry{}).Where("actor_id IN (?)", peers)

	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	} else if len(f.Actions) > 0 {
		q = q.Where("action IN ?", f.Actions)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("ERROR: Failed to count audit entries: %v", err)
		return nil, 0, err
	}

	// Callers clamp already; this is only a floor against a zero filter.
	limit := f.Limit
	if limit <= 0 {
		limit = config.DefaultHistoryLimit
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}

	var entries []models.AuditEntry
	err := q.Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		log.Printf("ERROR: Failed to query audit entries: %v", err)
		return nil, 0, err
	}
	return entries, total, nil
}
