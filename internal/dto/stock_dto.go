package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateStockRequest struct {
	UnitID       string  `json:"unit_id"        validate:"required,uuid"`
	BrokerID     string  `json:"broker_id"      validate:"required,uuid"`
	HoldTillDate *string `json:"hold_till_date" validate:"omitempty,datetime=2006-01-02"`
	Remarks      *string `json:"remarks"        validate:"omitempty,max=1000"`
}

// UpdateStockRequest is a patch: nil fields are left unchanged.
// An empty HoldTillDate clears the hold date.
type UpdateStockRequest struct {
	BrokerID     *string `json:"broker_id"      validate:"omitempty,uuid"`
	HoldTillDate *string `json:"hold_till_date"`
	Remarks      *string `json:"remarks"        validate:"omitempty,max=1000"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type StockFilter struct {
	Search    string `form:"search"`
	ProjectID string `form:"project_id" validate:"omitempty,uuid"`
	Status    string `form:"status"`
	Page
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type StockResponse struct {
	ID           string    `json:"id"`
	UnitID       string    `json:"unit_id"`
	UnitName     string    `json:"unit_name"`
	UnitStatus   string    `json:"unit_status"`
	ProjectID    string    `json:"project_id"`
	ProjectName  string    `json:"project_name"`
	BrokerID     string    `json:"broker_id"`
	BrokerName   string    `json:"broker_name"`
	HoldTillDate *string   `json:"hold_till_date"`
	Remarks      *string   `json:"remarks"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type StockListResponse struct {
	Data       []StockResponse `json:"data"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

type UnitResponse struct {
	ID        string          `json:"id"`
	ProjectID string          `json:"project_id"`
	Name      string          `json:"name"`
	UnitType  *string         `json:"unit_type"`
	Size      decimal.Decimal `json:"size"`
	BSP       decimal.Decimal `json:"bsp"`
	Status    string          `json:"status"`
	StockID   *string         `json:"stock_id"`
}
