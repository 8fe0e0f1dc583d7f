package dto

import (
	"encoding/json"
	"time"
)

type AuditEntryResponse struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Action     string          `json:"action"`
	FromStatus *string         `json:"from_status"`
	ToStatus   *string         `json:"to_status"`
	Payload    json.RawMessage `json:"payload"`
	RequestID  *string         `json:"request_id"`
	Actor      *string         `json:"actor"`
	OccurredAt time.Time       `json:"occurred_at"`
}
