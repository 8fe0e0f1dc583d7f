package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is an append-only record of a committed state change, written
// asynchronously by the audit worker.
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EntityType string    `gorm:"type:varchar(30);not null;index:idx_audit_entity"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_entity"`
	Action     string    `gorm:"type:varchar(40);not null"`
	FromStatus *string   `gorm:"type:varchar(20)"`
	ToStatus   *string   `gorm:"type:varchar(20)"`
	Payload    string    `gorm:"type:jsonb;not null;default:'{}'"`
	RequestID  *string   `gorm:"type:varchar(64)"`
	Actor      *string   `gorm:"type:varchar(100)"`
	OccurredAt time.Time `gorm:"not null"`
	CreatedAt  time.Time
}

// AllModels is the AutoMigrate set, in dependency order.
func AllModels() []any {
	return []any{
		&Project{},
		&Unit{},
		&Broker{},
		&Stock{},
		&PaymentPlan{},
		&Installment{},
		&Cheque{},
		&AuditLog{},
	}
}
