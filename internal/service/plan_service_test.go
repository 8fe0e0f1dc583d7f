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
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ── Rules ────────────────────────────────────────────────────────────────────

func TestValidateInstallment(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		pct     bool
		dueDays int
		want    []string
	}{
		{"percentage over 100", "120", true, 10, []string{"value"}},
		{"fixed amount", "50000", false, 30, nil},
		{"percentage at 100", "100", true, 0, nil},
		{"fractional percentage", "12.5", true, 45, nil},
		{"zero value", "0", false, 0, []string{"value"}},
		{"negative percentage", "-1", true, 0, []string{"value"}},
		{"negative due days", "10", true, -1, []string{"due_days"}},
		{"everything wrong", "0", true, -3, []string{"value", "due_days"}},
		{"large fixed amount is not capped", "250000", false, 365, nil},
		{"sub-cent fixed amount", "0.001", false, 0, []string{"value"}},
		{"percentage with three decimals", "33.335", true, 0, []string{"value"}},
		{"trailing zeros are not extra precision", "33.330", true, 0, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := service.ValidateInstallment(d(tc.value), tc.pct, tc.dueDays)
			assert.Len(t, errs, len(tc.want))
			for _, f := range tc.want {
				assert.Contains(t, errs, f)
			}
		})
	}
}

func TestPlanCompletionStatus(t *testing.T) {
	complete := service.PlanCompletionStatus([]model.Installment{
		{Value: d("40"), IsPercentage: true},
		{Value: d("60"), IsPercentage: true},
	})
	assert.True(t, complete.PercentageTotal.Equal(d("100")))
	assert.True(t, complete.FixedTotal.IsZero())
	assert.True(t, complete.IsComplete)

	mixed := service.PlanCompletionStatus([]model.Installment{
		{Value: d("10"), IsPercentage: true},
		{Value: d("33.33"), IsPercentage: true},
		{Value: d("50000"), IsPercentage: false},
		{Value: d("25000.50"), IsPercentage: false},
	})
	assert.Equal(t, "43.33", mixed.PercentageTotal.String())
	assert.Equal(t, "75000.5", mixed.FixedTotal.String())
	assert.False(t, mixed.IsComplete)

	empty := service.PlanCompletionStatus(nil)
	assert.False(t, empty.IsComplete)
	assert.True(t, empty.PercentageTotal.IsZero())
}

func TestProjectedDueDate(t *testing.T) {
	booking := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, booking, service.ProjectedDueDate(booking, 0))
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), service.ProjectedDueDate(booking, 30))
	assert.Equal(t, time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC), service.ProjectedDueDate(booking, 365))
}

// ── Service ──────────────────────────────────────────────────────────────────

func newPlanService(t *testing.T) (service.PlanService, *stubPlanRepo, *recordingPublisher, uuid.UUID) {
	t.Helper()
	repo := newStubPlanRepo()
	pub := &recordingPublisher{}
	svc := service.NewPlanService(repo, pub)
	plan, err := svc.CreatePlan(context.Background(), dto.CreatePlanRequest{Name: "Construction Linked"})
	require.NoError(t, err)
	return svc, repo, pub, uuid.MustParse(plan.ID)
}

func installment(name, value string, pct bool, dueDays int) dto.InstallmentRequest {
	return dto.InstallmentRequest{Name: name, Value: d(value), IsPercentage: pct, DueDays: dueDays}
}

func TestCreatePlan_DuplicateNameIsConflict(t *testing.T) {
	svc, _, _, _ := newPlanService(t)
	_, err := svc.CreatePlan(context.Background(), dto.CreatePlanRequest{Name: " construction linked "})
	assert.ErrorIs(t, err, apierror.ErrConflict)

	_, err = svc.CreatePlan(context.Background(), dto.CreatePlanRequest{Name: "x"})
	assert.ErrorIs(t, err, apierror.ErrValidation)
}

func TestAddInstallment_BuildsCompletePlan(t *testing.T) {
	svc, _, pub, planID := newPlanService(t)
	ctx := context.Background()

	_, err := svc.AddInstallment(ctx, planID, installment("Booking", "40", true, 0))
	require.NoError(t, err)
	incomplete, err := svc.Completion(ctx, planID)
	require.NoError(t, err)
	assert.False(t, incomplete.IsComplete, "an incomplete plan is still persisted")

	_, err = svc.AddInstallment(ctx, planID, installment("Possession", "60", true, 180))
	require.NoError(t, err)
	_, err = svc.AddInstallment(ctx, planID, installment("PLC", "150000", false, 30))
	require.NoError(t, err)

	plan, err := svc.GetPlan(ctx, planID, nil)
	require.NoError(t, err)
	require.Len(t, plan.Installments, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{plan.Installments[0].Position, plan.Installments[1].Position, plan.Installments[2].Position})
	assert.True(t, plan.Completion.IsComplete)
	assert.True(t, plan.Completion.PercentageTotal.Equal(d("100")))
	assert.True(t, plan.Completion.FixedTotal.Equal(d("150000")))
	assert.Nil(t, plan.Installments[0].DueDate)
	assert.Equal(t, "installment.added", pub.last().Action)
}

func TestAddInstallment_RejectsInvalidRecord(t *testing.T) {
	svc, _, _, planID := newPlanService(t)

	_, err := svc.AddInstallment(context.Background(), planID, installment("Booking", "120", true, 10))
	require.ErrorIs(t, err, apierror.ErrValidation)
	e, _ := apierror.From(err)
	assert.Contains(t, e.Fields, "value")

	_, err = svc.AddInstallment(context.Background(), planID, installment("Booking", "33.335", true, 0))
	require.ErrorIs(t, err, apierror.ErrValidation)
	e, _ = apierror.From(err)
	assert.Equal(t, "must have at most 2 decimal places", e.Fields["value"])

	_, err = svc.AddInstallment(context.Background(), planID, installment("", "10", true, -1))
	e, _ = apierror.From(err)
	assert.Contains(t, e.Fields, "name")
	assert.Contains(t, e.Fields, "due_days")

	plan, err := svc.GetPlan(context.Background(), planID, nil)
	require.NoError(t, err)
	assert.Empty(t, plan.Installments)
}

func TestAddInstallment_UnknownPlan(t *testing.T) {
	svc, _, _, _ := newPlanService(t)
	_, err := svc.AddInstallment(context.Background(), uuid.New(), installment("Booking", "10", true, 0))
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

func TestUpdateInstallment_RevalidatesMergedRecord(t *testing.T) {
	svc, _, _, planID := newPlanService(t)
	ctx := context.Background()
	fixed, err := svc.AddInstallment(ctx, planID, installment("PLC", "150000", false, 30))
	require.NoError(t, err)
	id := uuid.MustParse(fixed.ID)

	// Flipping to percentage makes 150000 out of range.
	pct := true
	_, err = svc.UpdateInstallment(ctx, id, dto.UpdateInstallmentRequest{IsPercentage: &pct})
	assert.ErrorIs(t, err, apierror.ErrValidation)

	v := d("25")
	resp, err := svc.UpdateInstallment(ctx, id, dto.UpdateInstallmentRequest{IsPercentage: &pct, Value: &v})
	require.NoError(t, err)
	assert.True(t, resp.IsPercentage)
	assert.Equal(t, "PLC", resp.Name)
	assert.Equal(t, 30, resp.DueDays)

	_, err = svc.UpdateInstallment(ctx, uuid.New(), dto.UpdateInstallmentRequest{Value: &v})
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

func TestRemoveInstallment(t *testing.T) {
	svc, _, pub, planID := newPlanService(t)
	ctx := context.Background()
	a, err := svc.AddInstallment(ctx, planID, installment("Booking", "40", true, 0))
	require.NoError(t, err)
	_, err = svc.AddInstallment(ctx, planID, installment("Possession", "60", true, 90))
	require.NoError(t, err)

	require.NoError(t, svc.RemoveInstallment(ctx, uuid.MustParse(a.ID)))
	assert.Equal(t, "installment.removed", pub.last().Action)

	c, err := svc.Completion(ctx, planID)
	require.NoError(t, err)
	assert.False(t, c.IsComplete)
	assert.True(t, c.PercentageTotal.Equal(d("60")))

	assert.ErrorIs(t, svc.RemoveInstallment(ctx, uuid.MustParse(a.ID)), apierror.ErrNotFound)
}

func TestGetPlan_ProjectsDueDates(t *testing.T) {
	svc, _, _, planID := newPlanService(t)
	ctx := context.Background()
	_, err := svc.AddInstallment(ctx, planID, installment("Booking", "10", true, 0))
	require.NoError(t, err)
	_, err = svc.AddInstallment(ctx, planID, installment("Slab", "90", true, 45))
	require.NoError(t, err)

	booking := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	plan, err := svc.GetPlan(ctx, planID, &booking)
	require.NoError(t, err)
	require.NotNil(t, plan.Installments[1].DueDate)
	assert.Equal(t, "2026-03-10", *plan.Installments[0].DueDate)
	assert.Equal(t, "2026-04-24", *plan.Installments[1].DueDate)

	_, err = svc.GetPlan(ctx, uuid.New(), nil)
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

func TestDeletePlan_CascadesInstallments(t *testing.T) {
	svc, repo, _, planID := newPlanService(t)
	ctx := context.Background()
	inst, err := svc.AddInstallment(ctx, planID, installment("Booking", "10", true, 0))
	require.NoError(t, err)

	require.NoError(t, svc.DeletePlan(ctx, planID))
	_, err = svc.GetPlan(ctx, planID, nil)
	assert.ErrorIs(t, err, apierror.ErrNotFound)
	assert.NotContains(t, repo.installments, uuid.MustParse(inst.ID))

	assert.ErrorIs(t, svc.DeletePlan(ctx, planID), apierror.ErrNotFound)

	plans, err := svc.ListPlans(ctx)
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestListPlans_CountsInstallments(t *testing.T) {
	svc, _, _, planID := newPlanService(t)
	ctx := context.Background()
	_, err := svc.CreatePlan(ctx, dto.CreatePlanRequest{Name: "Down Payment"})
	require.NoError(t, err)
	_, err = svc.AddInstallment(ctx, planID, installment("Booking", "10", true, 0))
	require.NoError(t, err)

	plans, err := svc.ListPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "Construction Linked", plans[0].Name)
	assert.Equal(t, 1, plans[0].InstallmentCount)
	assert.Equal(t, 0, plans[1].InstallmentCount)
}
