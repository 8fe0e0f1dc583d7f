package model

import "fmt"

// UnitStatus is the sales state of a unit.
// Only free ⇄ hold is driven by this service; booked/allotted are set by the
// booking flow and are read-only here.
type UnitStatus string

const (
	UnitFree     UnitStatus = "free"
	UnitHold     UnitStatus = "hold"
	UnitBooked   UnitStatus = "booked"
	UnitAllotted UnitStatus = "allotted"
)

// UnitStatuses lists every unit status in display order.
var UnitStatuses = []UnitStatus{UnitFree, UnitHold, UnitBooked, UnitAllotted}

func ParseUnitStatus(s string) (UnitStatus, error) {
	for _, st := range UnitStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown unit status %q", s)
}

// ChequeStatus is the clearance state of a cheque.
type ChequeStatus string

const (
	ChequePending   ChequeStatus = "pending"
	ChequeSubmitted ChequeStatus = "submitted"
	ChequeCleared   ChequeStatus = "cleared"
	ChequeBounced   ChequeStatus = "bounced"
	ChequeCancelled ChequeStatus = "cancelled"
)

// ChequeStatuses lists every cheque status in display order.
var ChequeStatuses = []ChequeStatus{ChequePending, ChequeSubmitted, ChequeCleared, ChequeBounced, ChequeCancelled}

// chequeTransitions is the complete transition table. Anything absent is rejected.
var chequeTransitions = map[ChequeStatus][]ChequeStatus{
	ChequePending:   {ChequeSubmitted},
	ChequeSubmitted: {ChequeCleared, ChequeBounced, ChequeCancelled},
}

func ParseChequeStatus(s string) (ChequeStatus, error) {
	for _, st := range ChequeStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown cheque status %q", s)
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s ChequeStatus) CanTransitionTo(next ChequeStatus) bool {
	for _, allowed := range chequeTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal is true for cleared, bounced and cancelled.
func (s ChequeStatus) IsTerminal() bool {
	return len(chequeTransitions[s]) == 0
}

// IsBankOutcome reports whether s may be reported as bank feedback.
func (s ChequeStatus) IsBankOutcome() bool {
	return ChequeSubmitted.CanTransitionTo(s)
}

// IsOutstanding is true while the money has not been realised or written off.
func (s ChequeStatus) IsOutstanding() bool {
	return s == ChequePending || s == ChequeSubmitted
}
