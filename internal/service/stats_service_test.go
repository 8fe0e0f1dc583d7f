package service_test

import (
	"context"
	"testing"
	"time"

	"l2lsales/internal/apierror"
	"l2lsales/internal/dto"
	"l2lsales/internal/model"
	"l2lsales/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateUnits_ZeroFilledFixedOrder(t *testing.T) {
	got := service.AggregateUnits([]model.Unit{
		{Status: model.UnitHold},
		{Status: model.UnitFree},
		{Status: model.UnitHold},
	})
	assert.Equal(t, dto.UnitStatsResponse{
		Counts: []dto.StatusCount{
			{Status: "free", Count: 1},
			{Status: "hold", Count: 2},
			{Status: "booked", Count: 0},
			{Status: "allotted", Count: 0},
		},
		Total: 3,
	}, got)

	empty := service.AggregateUnits(nil)
	assert.Len(t, empty.Counts, 4)
	assert.Zero(t, empty.Total)
}

func TestAggregateCheques_Amounts(t *testing.T) {
	cheques := []model.Cheque{
		{Status: model.ChequePending, Amount: d("100")},
		{Status: model.ChequeSubmitted, Amount: d("250.50")},
		{Status: model.ChequeCleared, Amount: d("1000")},
		{Status: model.ChequeCleared, Amount: d("0.25")},
		{Status: model.ChequeBounced, Amount: d("40")},
		{Status: model.ChequeCancelled, Amount: d("9")},
	}
	got := service.AggregateCheques(cheques)

	assert.EqualValues(t, 6, got.Total)
	assert.Equal(t, "1399.75", got.TotalAmount.String())
	assert.Equal(t, "1000.25", got.ClearedAmount.String())
	assert.Equal(t, "350.5", got.PendingAmount.String())

	statuses := make([]string, len(got.Counts))
	for i, c := range got.Counts {
		statuses[i] = c.Status
	}
	assert.Equal(t, []string{"pending", "submitted", "cleared", "bounced", "cancelled"}, statuses)
	assert.EqualValues(t, 2, got.Counts[2].Count)
}

func TestAggregateCheques_Deterministic(t *testing.T) {
	cheques := []model.Cheque{
		{Status: model.ChequeCleared, Amount: d("10")},
		{Status: model.ChequePending, Amount: d("5")},
	}
	reversed := []model.Cheque{cheques[1], cheques[0]}
	assert.Equal(t, service.AggregateCheques(cheques), service.AggregateCheques(cheques))
	assert.Equal(t, service.AggregateCheques(cheques), service.AggregateCheques(reversed))
}

func TestStatsService_ScopesInput(t *testing.T) {
	inv := newStubInventoryRepo()
	p1, p2 := inv.addProject("P1"), inv.addProject("P2")
	inv.addUnit(p1.ID, "1", model.UnitFree)
	inv.addUnit(p1.ID, "2", model.UnitBooked)
	inv.addUnit(p2.ID, "3", model.UnitFree)

	cheques := newStubChequeRepo()
	for day, st := range map[int]model.ChequeStatus{1: model.ChequeCleared, 15: model.ChequePending, 28: model.ChequeBounced} {
		cheques.put(model.Cheque{Status: st, Amount: d("100"), ChequeDate: time.Date(2026, 2, day, 0, 0, 0, 0, time.UTC)})
	}
	svc := service.NewStatsService(inv, cheques)
	ctx := context.Background()

	all, err := svc.Units(ctx, dto.UnitStatsFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Total)

	scoped, err := svc.Units(ctx, dto.UnitStatsFilter{ProjectID: p1.ID.String()})
	require.NoError(t, err)
	assert.EqualValues(t, 2, scoped.Total)
	assert.EqualValues(t, 1, scoped.Counts[2].Count)

	none, err := svc.Units(ctx, dto.UnitStatsFilter{ProjectID: uuid.NewString()})
	require.NoError(t, err)
	assert.Zero(t, none.Total)

	window, err := svc.Cheques(ctx, dto.ChequeStatsFilter{DateFrom: "2026-02-01", DateTo: "2026-02-15"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, window.Total)
	assert.Equal(t, "100", window.ClearedAmount.String())
	assert.Equal(t, "100", window.PendingAmount.String())

	_, err = svc.Cheques(ctx, dto.ChequeStatsFilter{DateFrom: "2026-02-15", DateTo: "2026-02-01"})
	assert.ErrorIs(t, err, apierror.ErrValidation)
}
