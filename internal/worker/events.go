package worker

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Entity types recorded in the audit trail.
const (
	EntityStock       = "stock"
	EntityCheque      = "cheque"
	EntityPlan        = "payment_plan"
	EntityInstallment = "installment"
)

// Event is a committed domain state change. It is published after the
// transaction commits and consumed by the audit worker.
type Event struct {
	EntityType string          `json:"entity_type"`
	EntityID   uuid.UUID       `json:"entity_id"`
	Action     string          `json:"action"`
	FromStatus string          `json:"from_status,omitempty"`
	ToStatus   string          `json:"to_status,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	RequestID  string          `json:"request_id,omitempty"`
	Actor      string          `json:"actor,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewEvent builds an event with payload marshalled from v. A payload that
// cannot be marshalled is dropped rather than failing the caller.
func NewEvent(entityType string, id uuid.UUID, action string, v any) Event {
	ev := Event{EntityType: entityType, EntityID: id, Action: action, OccurredAt: time.Now().UTC()}
	if v != nil {
		if raw, err := json.Marshal(v); err == nil {
			ev.Payload = raw
		}
	}
	return ev
}

// WithTransition sets the from/to statuses.
func (e Event) WithTransition(from, to string) Event {
	e.FromStatus = from
	e.ToStatus = to
	return e
}
