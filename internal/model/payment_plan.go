package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentPlan is a named template of installments offered at booking time.
type PaymentPlan struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"type:varchar(120);not null"`
	Description *string   `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Installments []Installment `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE"`
}

// Installment is one line of a plan: either a percentage of the unit price
// (0 < value ≤ 100) or a fixed amount (value > 0), due DueDays after booking.
type Installment struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PlanID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name         string          `gorm:"type:varchar(120);not null"`
	Value        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	IsPercentage bool            `gorm:"not null;default:false"`
	DueDays      int             `gorm:"not null;default:0"`
	Description  *string         `gorm:"type:text"`
	Position     int             `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
