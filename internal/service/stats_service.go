package service

import (
	"context"

	"l2lsales/internal/dto"
	"l2lsales/internal/model"
	"l2lsales/internal/repository"

	"github.com/shopspring/decimal"
)

// StatsService computes dashboard counters on demand. Nothing is cached.
type StatsService interface {
	Units(ctx context.Context, filter dto.UnitStatsFilter) (*dto.UnitStatsResponse, error)
	Cheques(ctx context.Context, filter dto.ChequeStatsFilter) (*dto.ChequeStatsResponse, error)
}

type statsService struct {
	inventory repository.InventoryRepository
	cheques   repository.ChequeRepository
}

func NewStatsService(inventory repository.InventoryRepository, cheques repository.ChequeRepository) StatsService {
	return &statsService{inventory: inventory, cheques: cheques}
}

func (s *statsService) Units(ctx context.Context, filter dto.UnitStatsFilter) (*dto.UnitStatsResponse, error) {
	projectID, err := parseOptionalID("project_id", filter.ProjectID)
	if err != nil {
		return nil, err
	}
	units, err := s.inventory.ListUnits(ctx, projectID)
	if err != nil {
		return nil, err
	}
	resp := AggregateUnits(units)
	return &resp, nil
}

func (s *statsService) Cheques(ctx context.Context, filter dto.ChequeStatsFilter) (*dto.ChequeStatsResponse, error) {
	from, to, err := parseDateWindow(filter.DateFrom, filter.DateTo)
	if err != nil {
		return nil, err
	}
	cheques, err := s.cheques.ListForStats(ctx, from, to)
	if err != nil {
		return nil, err
	}
	resp := AggregateCheques(cheques)
	return &resp, nil
}

// AggregateUnits counts units per status. Every status gets a bucket, in
// model.UnitStatuses order, so equal inputs always render identically.
func AggregateUnits(units []model.Unit) dto.UnitStatsResponse {
	counts := make(map[model.UnitStatus]int64, len(model.UnitStatuses))
	for _, u := range units {
		counts[u.Status]++
	}
	out := dto.UnitStatsResponse{Counts: make([]dto.StatusCount, len(model.UnitStatuses))}
	for i, st := range model.UnitStatuses {
		out.Counts[i] = dto.StatusCount{Status: string(st), Count: counts[st]}
	}
	out.Total = int64(len(units))
	return out
}

// AggregateCheques counts cheques per status and sums amounts. Pending amount
// covers every cheque not yet realised or written off (pending and submitted).
func AggregateCheques(cheques []model.Cheque) dto.ChequeStatsResponse {
	counts := make(map[model.ChequeStatus]int64, len(model.ChequeStatuses))
	total, cleared, pending := decimal.Zero, decimal.Zero, decimal.Zero
	for _, c := range cheques {
		counts[c.Status]++
		total = total.Add(c.Amount)
		switch {
		case c.Status == model.ChequeCleared:
			cleared = cleared.Add(c.Amount)
		case c.Status.IsOutstanding():
			pending = pending.Add(c.Amount)
		}
	}

	out := dto.ChequeStatsResponse{
		Counts:        make([]dto.StatusCount, len(model.ChequeStatuses)),
		Total:         int64(len(cheques)),
		TotalAmount:   total,
		ClearedAmount: cleared,
		PendingAmount: pending,
	}
	for i, st := range model.ChequeStatuses {
		out.Counts[i] = dto.StatusCount{Status: string(st), Count: counts[st]}
	}
	return out
}
