package dto

import "github.com/shopspring/decimal"

type UnitStatsFilter struct {
	ProjectID string `form:"project_id" validate:"omitempty,uuid"`
}

type ChequeStatsFilter struct {
	DateFrom string `form:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to"   validate:"omitempty,datetime=2006-01-02"`
}

// StatusCount is one bucket of a stats breakdown. Buckets are always emitted
// for every status, in a fixed order, with zero counts where applicable.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type UnitStatsResponse struct {
	Counts []StatusCount `json:"counts"`
	Total  int64         `json:"total"`
}

type ChequeStatsResponse struct {
	Counts        []StatusCount   `json:"counts"`
	Total         int64           `json:"total"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	ClearedAmount decimal.Decimal `json:"cleared_amount"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
}
