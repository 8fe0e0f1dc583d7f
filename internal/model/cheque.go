package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cheque is a payment instrument tracked through bank clearance.
// Cheques are never deleted; terminal states are cleared, bounced and cancelled.
// CustomerID and BankID are weak references owned by other services.
type Cheque struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	BankID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ChequeNo      string          `gorm:"type:varchar(30);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	ChequeDate    time.Time       `gorm:"type:date;not null;index"`
	DepositDate   time.Time       `gorm:"type:date;not null"`
	ClearanceDate *time.Time      `gorm:"type:date"`
	Status        ChequeStatus    `gorm:"type:varchar(20);not null;default:'pending';index"`
	Remarks       *string         `gorm:"type:text"`
	SubmittedAt   *time.Time
	// StatusChangedAt is stamped on every transition, including creation.
	StatusChangedAt time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
