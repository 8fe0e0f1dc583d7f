package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateChequeRequest struct {
	CustomerID  string          `json:"customer_id"  validate:"required,uuid"`
	BankID      string          `json:"bank_id"      validate:"required,uuid"`
	ChequeNo    string          `json:"cheque_no"    validate:"required,max=30"`
	Amount      decimal.Decimal `json:"amount"       validate:"required,gt=0"`
	ChequeDate  string          `json:"cheque_date"  validate:"required,datetime=2006-01-02"`
	DepositDate string          `json:"deposit_date" validate:"required,datetime=2006-01-02"`
	Remarks     *string         `json:"remarks"      validate:"omitempty,max=1000"`
}

// BankFeedbackRequest reports the bank's outcome for a submitted cheque.
// ClearanceDate is mandatory when Status is "cleared".
type BankFeedbackRequest struct {
	Status        string  `json:"status"         validate:"required"`
	ClearanceDate *string `json:"clearance_date" validate:"omitempty,datetime=2006-01-02"`
	Remarks       *string `json:"remarks"        validate:"omitempty,max=1000"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ChequeFilter struct {
	Status     string `form:"status"`
	BankID     string `form:"bank_id"     validate:"omitempty,uuid"`
	CustomerID string `form:"customer_id" validate:"omitempty,uuid"`
	DateFrom   string `form:"date_from"   validate:"omitempty,datetime=2006-01-02"`
	DateTo     string `form:"date_to"     validate:"omitempty,datetime=2006-01-02"`
	Page
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ChequeResponse struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customer_id"`
	BankID          string          `json:"bank_id"`
	ChequeNo        string          `json:"cheque_no"`
	Amount          decimal.Decimal `json:"amount"`
	ChequeDate      string          `json:"cheque_date"`
	DepositDate     string          `json:"deposit_date"`
	ClearanceDate   *string         `json:"clearance_date"`
	Status          string          `json:"status"`
	Remarks         *string         `json:"remarks"`
	SubmittedAt     *time.Time      `json:"submitted_at"`
	StatusChangedAt time.Time       `json:"status_changed_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type ChequeListResponse struct {
	Data       []ChequeResponse `json:"data"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}
