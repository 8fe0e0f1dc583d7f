package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"l2lsales/internal/model"
	"l2lsales/internal/repository"

	"github.com/rs/zerolog/log"
)

// AuditWorker persists published events as audit_logs rows.
type AuditWorker struct {
	repo repository.AuditRepository
}

func NewAuditWorker(repo repository.AuditRepository) *AuditWorker {
	return &AuditWorker{repo: repo}
}

func (w *AuditWorker) Process(ctx context.Context, payload json.RawMessage) error {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	entry := toAuditLog(ev)
	if err := w.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("persist audit log: %w", err)
	}
	log.Debug().
		Str("entity_type", ev.EntityType).
		Str("entity_id", ev.EntityID.String()).
		Str("action", ev.Action).
		Msg("audit: event recorded")
	return nil
}

func toAuditLog(ev Event) *model.AuditLog {
	entry := &model.AuditLog{
		EntityType: ev.EntityType,
		EntityID:   ev.EntityID,
		Action:     ev.Action,
		FromStatus: optional(ev.FromStatus),
		ToStatus:   optional(ev.ToStatus),
		RequestID:  optional(ev.RequestID),
		Actor:      optional(ev.Actor),
		OccurredAt: ev.OccurredAt,
		Payload:    "{}",
	}
	if len(ev.Payload) > 0 {
		entry.Payload = string(ev.Payload)
	}
	return entry
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
