package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Project is a read-only reference owned by the project master data service.
type Project struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(150);not null;index"`
	Location  *string   `gorm:"type:varchar(255)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Unit is a sellable inventory item inside a project.
// Status is "hold" exactly when a Stock row exists for the unit.
type Unit struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProjectID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"type:varchar(100);not null;index"`
	UnitType  *string         `gorm:"type:varchar(50)"`
	Size      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	BSP       decimal.Decimal `gorm:"column:bsp;type:decimal(14,2);not null;default:0"`
	Status    UnitStatus      `gorm:"type:varchar(20);not null;default:'free';index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Project *Project `gorm:"foreignKey:ProjectID"`
}

// Broker is a read-only reference owned by the broker master data service.
type Broker struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(150);not null;index"`
	Phone     *string   `gorm:"type:varchar(30)"`
	Email     *string   `gorm:"type:varchar(150)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stock is the hold placed on a unit on behalf of a broker.
// unit_id is unique: at most one stock per unit.
type Stock struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UnitID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_stocks_unit"`
	BrokerID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	HoldTillDate *time.Time `gorm:"type:date"`
	Remarks      *string    `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Unit   *Unit   `gorm:"foreignKey:UnitID"`
	Broker *Broker `gorm:"foreignKey:BrokerID"`
}

// StockView is a stock row joined with the names the list screen shows.
// Populated by a joined SELECT, never migrated.
type StockView struct {
	ID           uuid.UUID
	UnitID       uuid.UUID
	BrokerID     uuid.UUID
	HoldTillDate *time.Time
	Remarks      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UnitName     string
	UnitStatus   UnitStatus
	ProjectID    uuid.UUID
	ProjectName  string
	BrokerName   string
}
