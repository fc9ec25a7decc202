// Package audit records an immutable entry for every state-changing or
// sensitive-read action and serves the scope-restricted history view.
//
// Recording is best-effort and asynchronous: the business mutation has
// already committed by the time Record is called, so failures are logged
// and swallowed rather than propagated. The bounded queue keeps the window
// of possible audit loss explicit instead of silently dropping writes
// inline.
package audit

import (
	"log"
	"time"

	"childguard/backend/internal/access"
	"childguard/backend/internal/config"
	"childguard/backend/internal/models"
	"childguard/backend/internal/storage"
)

// Store is the slice of the storage layer the trail needs.
type Store interface {
	AppendAudit(e *models.AuditEntry) error
	QueryAudit(f storage.AuditFilter) ([]models.AuditEntry, int64, error)
}

// RequestMeta snapshots the triggering request for the details payload.
type RequestMeta struct {
	Method    string
	Path      string
	Body      map[string]interface{}
	Query     map[string]string
	IPAddress string
	UserAgent string
}

// Trail is the audit recorder and reader.
type Trail struct {
	store Store
	queue chan *models.AuditEntry
	done  chan struct{}
}

// NewTrail creates a trail with a bounded in-process queue. Call Run in a
// goroutine to start draining it.
func NewTrail(store Store) *Trail {
	return &Trail{
		store: store,
		queue: make(chan *models.AuditEntry, config.AuditQueueSize),
		done:  make(chan struct{}),
	}
}

// Run drains the queue, persisting entries until Close is called. Store
// failures are logged; the entry is lost, never retried.
func (t *Trail) Run() {
	for e := range t.queue {
		if err := t.store.AppendAudit(e); err != nil {
			log.Printf("ERROR: Failed to persist audit entry %s for actor %s: %v", e.Action, e.ActorID, err)
		}
	}
	close(t.done)
}

// Close stops accepting entries and waits for the queue to drain.
func (t *Trail) Close() {
	close(t.queue)
	<-t.done
}

// Record enqueues one audit entry. It never blocks and never returns an
// error: unknown actions and a full queue are logged and dropped.
func (t *Trail) Record(actorID string, action models.AuditAction, targetType models.TargetType, targetID string, meta RequestMeta) {
	if !action.Valid() {
		log.Printf("WARN: Dropping audit entry with unknown action %q", action)
		return
	}
	if actorID == "" {
		log.Printf("WARN: Dropping audit entry %s without actor", action)
		return
	}

	details := models.JSONMap{
		"method": meta.Method,
		"path":   meta.Path,
	}
	if meta.Body != nil {
		details["body"] = meta.Body
	}
	if len(meta.Query) > 0 {
		details["query"] = meta.Query
	}

	entry := &models.AuditEntry{
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    details,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		CreatedAt:  time.Now(),
	}

	select {
	case t.queue <- entry:
	default:
		log.Printf("WARN: Audit queue full, dropping entry %s for actor %s", action, actorID)
	}
}

// HistoryQuery carries the caller-supplied history filters.
type HistoryQuery struct {
	Action models.AuditAction
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

// HistoryPage is one page of history plus pagination totals.
type HistoryPage struct {
	Logs  []models.AuditEntry `json:"logs"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Pages int                 `json:"pages"`
}

// History serves the human-facing activity log. The action set is always
// restricted server-side to the relevant subset, and the peer scope from
// access.HistoryScope is applied before anything is returned.
func (t *Trail) History(actor *models.Actor, q HistoryQuery) (*HistoryPage, error) {
	scope, err := access.HistoryScope(actor)
	if err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = config.DefaultHistoryLimit
	}
	if limit > config.MaxHistoryLimit {
		limit = config.MaxHistoryLimit
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}

	filter := storage.AuditFilter{
		Scope:   scope,
		Actions: models.RelevantActions,
		From:    q.From,
		To:      q.To,
		Page:    page,
		Limit:   limit,
	}
	// A specific action filter is honored only when it belongs to the
	// relevant subset; anything else keeps the default set.
	if q.Action != "" && models.IsRelevant(q.Action) {
		filter.Action = q.Action
	}

	logs, total, err := t.store.QueryAudit(filter)
	if err != nil {
		return nil, err
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	return &HistoryPage{Logs: logs, Total: total, Page: page, Pages: pages}, nil
}
