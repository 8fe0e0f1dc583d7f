package service

import (
	"time"

	"l2lsales/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ValidateInstallment checks one installment's value and due days.
// The returned map is keyed by field; an empty map means valid.
func ValidateInstallment(value decimal.Decimal, isPercentage bool, dueDays int) map[string]string {
	errs := map[string]string{}
	switch {
	case !value.IsPositive():
		errs["value"] = "must be greater than 0"
	case isPercentage && value.GreaterThan(hundred):
		errs["value"] = "percentage must not exceed 100"
	case !withinCents(value):
		errs["value"] = "must have at most 2 decimal places"
	}
	if dueDays < 0 {
		errs["due_days"] = "must be 0 or greater"
	}
	return errs
}

// withinCents reports whether v fits a decimal(14,2) column without rounding.
// Trailing zeros are fine: 1.500 is 1.50.
func withinCents(v decimal.Decimal) bool { return v.Equal(v.Truncate(2)) }

// Completion is the advisory completeness of a plan.
type Completion struct {
	PercentageTotal decimal.Decimal
	FixedTotal      decimal.Decimal
	IsComplete      bool
}

// PlanCompletionStatus sums percentage and fixed installments separately.
// A plan is complete when the percentages add up to exactly 100.
func PlanCompletionStatus(installments []model.Installment) Completion {
	pct, fixed := decimal.Zero, decimal.Zero
	for _, in := range installments {
		if in.IsPercentage {
			pct = pct.Add(in.Value)
		} else {
			fixed = fixed.Add(in.Value)
		}
	}
	return Completion{PercentageTotal: pct, FixedTotal: fixed, IsComplete: pct.Equal(hundred)}
}

// ProjectedDueDate adds dueDays calendar days to the booking date.
func ProjectedDueDate(bookingDate time.Time, dueDays int) time.Time {
	return bookingDate.AddDate(0, 0, dueDays)
}
