package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"l2lsales/internal/apierror"
	"l2lsales/internal/dto"
	"l2lsales/internal/model"
	"l2lsales/internal/repository"
	"l2lsales/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PlanService composes payment plans out of validated installments.
type PlanService interface {
	CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanResponse, error)
	ListPlans(ctx context.Context) ([]dto.PlanSummaryResponse, error)
	// GetPlan includes projected due dates when bookingDate is set.
	GetPlan(ctx context.Context, id uuid.UUID, bookingDate *time.Time) (*dto.PlanResponse, error)
	DeletePlan(ctx context.Context, id uuid.UUID) error
	Completion(ctx context.Context, id uuid.UUID) (*dto.PlanCompletionResponse, error)

	AddInstallment(ctx context.Context, planID uuid.UUID, req dto.InstallmentRequest) (*dto.InstallmentResponse, error)
	UpdateInstallment(ctx context.Context, id uuid.UUID, req dto.UpdateInstallmentRequest) (*dto.InstallmentResponse, error)
	RemoveInstallment(ctx context.Context, id uuid.UUID) error
}

type planService struct {
	repo repository.PlanRepository
	pub  EventPublisher
}

func NewPlanService(repo repository.PlanRepository, pub EventPublisher) PlanService {
	return &planService{repo: repo, pub: pub}
}

// ── Plans ─────────────────────────────────────────────────────────────────────

func (s *planService) CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	name := strings.TrimSpace(req.Name)
	if len(name) < 2 {
		return nil, apierror.ValidationField("name", "must be at least 2 characters")
	}
	plan := &model.PaymentPlan{Name: name, Description: trimmedOrNil(req.Description)}
	if err := s.repo.CreatePlan(ctx, plan); errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apierror.Conflict("a payment plan named %q already exists", name)
	} else if err != nil {
		return nil, err
	}

	log.Info().Str("plan_id", plan.ID.String()).Str("name", name).Msg("payment plan created")
	publish(ctx, s.pub, worker.NewEvent(worker.EntityPlan, plan.ID, "plan.created", map[string]any{"name": name}))
	return planToResponse(plan, nil), nil
}

func (s *planService) ListPlans(ctx context.Context) ([]dto.PlanSummaryResponse, error) {
	plans, err := s.repo.ListPlans(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PlanSummaryResponse, len(plans))
	for i, p := range plans {
		out[i] = dto.PlanSummaryResponse{
			ID:               p.ID.String(),
			Name:             p.Name,
			Description:      p.Description,
			InstallmentCount: len(p.Installments),
			CreatedAt:        p.CreatedAt,
		}
	}
	return out, nil
}

func (s *planService) GetPlan(ctx context.Context, id uuid.UUID, bookingDate *time.Time) (*dto.PlanResponse, error) {
	plan, err := s.findPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	return planToResponse(plan, bookingDate), nil
}

func (s *planService) Completion(ctx context.Context, id uuid.UUID) (*dto.PlanCompletionResponse, error) {
	plan, err := s.findPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	c := completionToResponse(PlanCompletionStatus(plan.Installments))
	return &c, nil
}

// DeletePlan removes the plan together with its installments.
func (s *planService) DeletePlan(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.FindPlanForUpdateTx(tx, id); isNotFound(err) {
			return apierror.NotFound("payment plan %s not found", id)
		} else if err != nil {
			return err
		}
		return s.repo.DeletePlanTx(tx, id)
	})
	if err != nil {
		return err
	}
	log.Info().Str("plan_id", id.String()).Msg("payment plan deleted")
	publish(ctx, s.pub, worker.NewEvent(worker.EntityPlan, id, "plan.deleted", nil))
	return nil
}

func (s *planService) findPlan(ctx context.Context, id uuid.UUID) (*model.PaymentPlan, error) {
	plan, err := s.repo.FindPlan(ctx, id)
	if isNotFound(err) {
		return nil, apierror.NotFound("payment plan %s not found", id)
	}
	return plan, err
}

// ── Installments ──────────────────────────────────────────────────────────────
// Every write validates the resulting record before it is persisted.

func (s *planService) AddInstallment(ctx context.Context, planID uuid.UUID, req dto.InstallmentRequest) (*dto.InstallmentResponse, error) {
	inst := &model.Installment{
		PlanID:       planID,
		Name:         strings.TrimSpace(req.Name),
		Value:        req.Value,
		IsPercentage: req.IsPercentage,
		DueDays:      req.DueDays,
		Description:  trimmedOrNil(req.Description),
	}
	if err := validateInstallmentRecord(inst); err != nil {
		return nil, err
	}

	err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.FindPlanForUpdateTx(tx, planID); isNotFound(err) {
			return apierror.NotFound("payment plan %s not found", planID)
		} else if err != nil {
			return err
		}
		if req.Position != nil {
			inst.Position = *req.Position
		} else {
			next, err := s.repo.NextPositionTx(tx, planID)
			if err != nil {
				return err
			}
			inst.Position = next
		}
		return s.repo.CreateInstallmentTx(tx, inst)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("plan_id", planID.String()).Str("installment_id", inst.ID.String()).Msg("installment added")
	publish(ctx, s.pub, worker.NewEvent(worker.EntityInstallment, inst.ID, "installment.added", installmentPayload(inst)))
	resp := installmentToResponse(*inst, nil)
	return &resp, nil
}

func (s *planService) UpdateInstallment(ctx context.Context, id uuid.UUID, req dto.UpdateInstallmentRequest) (*dto.InstallmentResponse, error) {
	var updated model.Installment
	err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		inst, err := s.repo.FindInstallmentForUpdateTx(tx, id)
		if isNotFound(err) {
			return apierror.NotFound("installment %s not found", id)
		}
		if err != nil {
			return err
		}

		if req.Name != nil {
			inst.Name = strings.TrimSpace(*req.Name)
		}
		if req.Value != nil {
			inst.Value = *req.Value
		}
		if req.IsPercentage != nil {
			inst.IsPercentage = *req.IsPercentage
		}
		if req.DueDays != nil {
			inst.DueDays = *req.DueDays
		}
		if req.Description != nil {
			inst.Description = trimmedOrNil(req.Description)
		}
		if req.Position != nil {
			inst.Position = *req.Position
		}
		if err := validateInstallmentRecord(inst); err != nil {
			return err
		}
		if err := s.repo.UpdateInstallmentTx(tx, inst); err != nil {
			return err
		}
		updated = *inst
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("installment_id", id.String()).Msg("installment updated")
	publish(ctx, s.pub, worker.NewEvent(worker.EntityInstallment, id, "installment.updated", installmentPayload(&updated)))
	resp := installmentToResponse(updated, nil)
	return &resp, nil
}

// RemoveInstallment deletes one installment. Nothing remains to validate
// afterwards; the plan's completion status simply changes.
func (s *planService) RemoveInstallment(ctx context.Context, id uuid.UUID) error {
	var removed model.Installment
	err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		inst, err := s.repo.FindInstallmentForUpdateTx(tx, id)
		if isNotFound(err) {
			return apierror.NotFound("installment %s not found", id)
		}
		if err != nil {
			return err
		}
		removed = *inst
		return s.repo.DeleteInstallmentTx(tx, id)
	})
	if err != nil {
		return err
	}
	log.Info().Str("installment_id", id.String()).Str("plan_id", removed.PlanID.String()).Msg("installment removed")
	publish(ctx, s.pub, worker.NewEvent(worker.EntityInstallment, id, "installment.removed", installmentPayload(&removed)))
	return nil
}

func validateInstallmentRecord(inst *model.Installment) error {
	errs := ValidateInstallment(inst.Value, inst.IsPercentage, inst.DueDays)
	if inst.Name == "" {
		errs["name"] = "is required"
	}
	if len(errs) > 0 {
		return apierror.Validation(errs)
	}
	return nil
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func planToResponse(p *model.PaymentPlan, bookingDate *time.Time) *dto.PlanResponse {
	items := make([]dto.InstallmentResponse, len(p.Installments))
	for i, in := range p.Installments {
		items[i] = installmentToResponse(in, bookingDate)
	}
	return &dto.PlanResponse{
		ID:           p.ID.String(),
		Name:         p.Name,
		Description:  p.Description,
		Installments: items,
		Completion:   completionToResponse(PlanCompletionStatus(p.Installments)),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func installmentToResponse(in model.Installment, bookingDate *time.Time) dto.InstallmentResponse {
	resp := dto.InstallmentResponse{
		ID:           in.ID.String(),
		PlanID:       in.PlanID.String(),
		Name:         in.Name,
		Value:        in.Value,
		IsPercentage: in.IsPercentage,
		DueDays:      in.DueDays,
		Description:  in.Description,
		Position:     in.Position,
	}
	if bookingDate != nil {
		due := formatDate(ProjectedDueDate(*bookingDate, in.DueDays))
		resp.DueDate = &due
	}
	return resp
}

func completionToResponse(c Completion) dto.PlanCompletionResponse {
	return dto.PlanCompletionResponse{
		PercentageTotal: c.PercentageTotal,
		FixedTotal:      c.FixedTotal,
		IsComplete:      c.IsComplete,
	}
}

func installmentPayload(in *model.Installment) map[string]any {
	return map[string]any{
		"plan_id":       in.PlanID,
		"name":          in.Name,
		"value":         in.Value,
		"is_percentage": in.IsPercentage,
		"due_days":      in.DueDays,
	}
}
