package service

import (
	"context"
	"encoding/json"

	"l2lsales/internal/apierror"
	"l2lsales/internal/dto"
	"l2lsales/internal/repository"
	"l2lsales/internal/worker"

	"github.com/google/uuid"
)

var auditEntityTypes = map[string]bool{
	worker.EntityStock:       true,
	worker.EntityCheque:      true,
	worker.EntityPlan:        true,
	worker.EntityInstallment: true,
}

// AuditService reads the change history written by the audit worker.
type AuditService interface {
	History(ctx context.Context, entityType string, id uuid.UUID) ([]dto.AuditEntryResponse, error)
}

type auditService struct{ repo repository.AuditRepository }

func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

// History returns the entries for one entity, oldest first. An entity with no
// recorded changes yields an empty slice, not NotFound.
func (s *auditService) History(ctx context.Context, entityType string, id uuid.UUID) ([]dto.AuditEntryResponse, error) {
	entityType = normalizeEnum(entityType)
	if !auditEntityTypes[entityType] {
		return nil, apierror.ValidationField("entity_type", "must be one of stock, cheque, payment_plan, installment")
	}
	entries, err := s.repo.ListByEntity(ctx, entityType, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditEntryResponse, len(entries))
	for i, e := range entries {
		payload := json.RawMessage(e.Payload)
		if !json.Valid(payload) {
			payload = json.RawMessage(`{}`)
		}
		out[i] = dto.AuditEntryResponse{
			ID:         e.ID.String(),
			EntityType: e.EntityType,
			EntityID:   e.EntityID.String(),
			Action:     e.Action,
			FromStatus: e.FromStatus,
			ToStatus:   e.ToStatus,
			Payload:    payload,
			RequestID:  e.RequestID,
			Actor:      e.Actor,
			OccurredAt: e.OccurredAt,
		}
	}
	return out, nil
}
