package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreatePlanRequest struct {
	Name        string  `json:"name"        validate:"required,min=2,max=120"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// InstallmentRequest carries the rule-relevant fields. Range checks on value
// and due_days belong to the plan rules, not to tags.
type InstallmentRequest struct {
	Name         string          `json:"name"          validate:"required,max=120"`
	Value        decimal.Decimal `json:"value"`
	IsPercentage bool            `json:"is_percentage"`
	DueDays      int             `json:"due_days"`
	Description  *string         `json:"description"   validate:"omitempty,max=1000"`
	Position     *int            `json:"position"`
}

// UpdateInstallmentRequest is a patch: nil fields are left unchanged.
type UpdateInstallmentRequest struct {
	Name         *string          `json:"name"          validate:"omitempty,max=120"`
	Value        *decimal.Decimal `json:"value"`
	IsPercentage *bool            `json:"is_percentage"`
	DueDays      *int             `json:"due_days"`
	Description  *string          `json:"description"   validate:"omitempty,max=1000"`
	Position     *int             `json:"position"`
}

// PlanQuery carries the optional booking date used to project due dates.
type PlanQuery struct {
	BookingDate string `form:"booking_date" validate:"omitempty,datetime=2006-01-02"`
}

type ValidateInstallmentRequest struct {
	Value        decimal.Decimal `json:"value"`
	IsPercentage bool            `json:"is_percentage"`
	DueDays      int             `json:"due_days"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type InstallmentResponse struct {
	ID           string          `json:"id"`
	PlanID       string          `json:"plan_id"`
	Name         string          `json:"name"`
	Value        decimal.Decimal `json:"value"`
	IsPercentage bool            `json:"is_percentage"`
	DueDays      int             `json:"due_days"`
	Description  *string         `json:"description"`
	Position     int             `json:"position"`
	// DueDate is only present when the caller supplied a booking date.
	DueDate *string `json:"due_date,omitempty"`
}

type PlanCompletionResponse struct {
	PercentageTotal decimal.Decimal `json:"percentage_total"`
	FixedTotal      decimal.Decimal `json:"fixed_total"`
	IsComplete      bool            `json:"is_complete"`
}

type PlanResponse struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Description  *string                `json:"description"`
	Installments []InstallmentResponse  `json:"installments"`
	Completion   PlanCompletionResponse `json:"completion"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

type PlanSummaryResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      *string   `json:"description"`
	InstallmentCount int       `json:"installment_count"`
	CreatedAt        time.Time `json:"created_at"`
}

type ValidateInstallmentResponse struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}
