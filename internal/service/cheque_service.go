package service

import (
	"context"
	"fmt"
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

// ChequeService moves cheques through bank clearance. Every status change goes
// through the transition table in model.ChequeStatus.
type ChequeService interface {
	Create(ctx context.Context, req dto.CreateChequeRequest) (*dto.ChequeResponse, error)
	SendToBank(ctx context.Context, id uuid.UUID) (*dto.ChequeResponse, error)
	ApplyBankFeedback(ctx context.Context, id uuid.UUID, req dto.BankFeedbackRequest) (*dto.ChequeResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ChequeResponse, error)
	List(ctx context.Context, filter dto.ChequeFilter) (*dto.ChequeListResponse, error)
}

type chequeService struct {
	repo repository.ChequeRepository
	pub  EventPublisher
	cfg  settings
}

func NewChequeService(repo repository.ChequeRepository, pub EventPublisher, opts ...Option) ChequeService {
	return &chequeService{repo: repo, pub: pub, cfg: defaultSettings(opts)}
}

// ── Create ────────────────────────────────────────────────────────────────────

func (s *chequeService) Create(ctx context.Context, req dto.CreateChequeRequest) (*dto.ChequeResponse, error) {
	fields := map[string]string{}
	customerID, err := uuid.Parse(strings.TrimSpace(req.CustomerID))
	if err != nil {
		fields["customer_id"] = "must be a valid uuid"
	}
	bankID, err := uuid.Parse(strings.TrimSpace(req.BankID))
	if err != nil {
		fields["bank_id"] = "must be a valid uuid"
	}
	chequeNo := strings.TrimSpace(req.ChequeNo)
	if chequeNo == "" {
		fields["cheque_no"] = "is required"
	}
	switch {
	case !req.Amount.IsPositive():
		fields["amount"] = "must be greater than 0"
	case !withinCents(req.Amount):
		fields["amount"] = "must have at most 2 decimal places"
	}
	chequeDate, err := parseDate("cheque_date", req.ChequeDate)
	if err != nil {
		fields["cheque_date"] = "must be a date in YYYY-MM-DD format"
	}
	depositDate, err := parseDate("deposit_date", req.DepositDate)
	if err != nil {
		fields["deposit_date"] = "must be a date in YYYY-MM-DD format"
	}
	if len(fields) > 0 {
		return nil, apierror.Validation(fields)
	}

	c := &model.Cheque{
		CustomerID:      customerID,
		BankID:          bankID,
		ChequeNo:        chequeNo,
		Amount:          req.Amount,
		ChequeDate:      chequeDate,
		DepositDate:     depositDate,
		Status:          model.ChequePending,
		Remarks:         trimmedOrNil(req.Remarks),
		StatusChangedAt: s.cfg.now().UTC(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	log.Info().Str("cheque_id", c.ID.String()).Str("to", string(model.ChequePending)).Msg("cheque created")
	publish(ctx, s.pub, worker.NewEvent(worker.EntityCheque, c.ID, "cheque.created", chequePayload(c)).
		WithTransition("", string(model.ChequePending)))
	resp := chequeToResponse(c)
	return &resp, nil
}

// ── Transitions ───────────────────────────────────────────────────────────────

func (s *chequeService) SendToBank(ctx context.Context, id uuid.UUID) (*dto.ChequeResponse, error) {
	now := s.cfg.now().UTC()
	return s.transition(ctx, id, model.ChequeSubmitted, map[string]any{
		"status":            model.ChequeSubmitted,
		"submitted_at":      now,
		"status_changed_at": now,
	})
}

// ApplyBankFeedback records the bank's outcome. Input is checked before the
// cheque's current state, so a malformed request is always a ValidationError.
func (s *chequeService) ApplyBankFeedback(ctx context.Context, id uuid.UUID, req dto.BankFeedbackRequest) (*dto.ChequeResponse, error) {
	next, err := model.ParseChequeStatus(normalizeEnum(req.Status))
	if err != nil || !next.IsBankOutcome() {
		return nil, apierror.ValidationField("status", "must be one of cleared, bounced, cancelled")
	}

	fields := map[string]any{
		"status":            next,
		"status_changed_at": s.cfg.now().UTC(),
	}
	if next == model.ChequeCleared {
		if req.ClearanceDate == nil || strings.TrimSpace(*req.ClearanceDate) == "" {
			return nil, apierror.ValidationField("clearance_date", "is required when status is cleared")
		}
		d, err := parseDate("clearance_date", *req.ClearanceDate)
		if err != nil {
			return nil, err
		}
		fields["clearance_date"] = d
	}
	if remarks := trimmedOrNil(req.Remarks); remarks != nil {
		fields["remarks"] = *remarks
	}
	return s.transition(ctx, id, next, fields)
}

// transition locks the cheque, checks the table and applies fields with a
// compare-and-set on the status it read.
func (s *chequeService) transition(ctx context.Context, id uuid.UUID, next model.ChequeStatus, fields map[string]any) (*dto.ChequeResponse, error) {
	var from model.ChequeStatus
	err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		c, err := s.repo.FindForUpdateTx(tx, id)
		if isNotFound(err) {
			return apierror.NotFound("cheque %s not found", id)
		}
		if err != nil {
			return err
		}
		if !c.Status.CanTransitionTo(next) {
			return apierror.InvalidTransition("cheque %s cannot move from %s to %s", id, c.Status, next)
		}
		from = c.Status

		ok, err := s.repo.TransitionTx(tx, id, from, fields)
		if err != nil {
			return err
		}
		if !ok {
			return apierror.Conflict("cheque %s was changed by another request", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("cheque_id", id.String()).
		Str("from", string(from)).
		Str("to", string(next)).
		Msg("cheque status changed")
	publish(ctx, s.pub, worker.NewEvent(worker.EntityCheque, id, "cheque."+string(next), chequePayload(c)).
		WithTransition(string(from), string(next)))
	resp := chequeToResponse(c)
	return &resp, nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *chequeService) Get(ctx context.Context, id uuid.UUID) (*dto.ChequeResponse, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := chequeToResponse(c)
	return &resp, nil
}

func (s *chequeService) find(ctx context.Context, id uuid.UUID) (*model.Cheque, error) {
	c, err := s.repo.FindByID(ctx, id)
	if isNotFound(err) {
		return nil, apierror.NotFound("cheque %s not found", id)
	}
	return c, err
}

func (s *chequeService) List(ctx context.Context, filter dto.ChequeFilter) (*dto.ChequeListResponse, error) {
	filter.Normalize()
	q := repository.ChequeQuery{Limit: filter.Limit, Offset: filter.Offset()}

	if raw := normalizeEnum(filter.Status); raw != "" {
		st, err := model.ParseChequeStatus(raw)
		if err != nil {
			return nil, apierror.ValidationField("status", fmt.Sprintf("must be one of %v", model.ChequeStatuses))
		}
		q.Status = &st
	}
	var err error
	if q.BankID, err = parseOptionalID("bank_id", filter.BankID); err != nil {
		return nil, err
	}
	if q.CustomerID, err = parseOptionalID("customer_id", filter.CustomerID); err != nil {
		return nil, err
	}
	if q.DateFrom, q.DateTo, err = parseDateWindow(filter.DateFrom, filter.DateTo); err != nil {
		return nil, err
	}

	cheques, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ChequeResponse, len(cheques))
	for i := range cheques {
		data[i] = chequeToResponse(&cheques[i])
	}
	return &dto.ChequeListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page.Page,
		Limit:      filter.Limit,
		TotalPages: dto.TotalPages(total, filter.Limit),
	}, nil
}

// parseDateWindow parses an inclusive date range; either bound may be blank.
func parseDateWindow(fromRaw, toRaw string) (*time.Time, *time.Time, error) {
	from, err := parseOptionalDate("date_from", fromRaw)
	if err != nil {
		return nil, nil, err
	}
	to, err := parseOptionalDate("date_to", toRaw)
	if err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, apierror.ValidationField("date_to", "must not be before date_from")
	}
	return from, to, nil
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func chequeToResponse(c *model.Cheque) dto.ChequeResponse {
	return dto.ChequeResponse{
		ID:              c.ID.String(),
		CustomerID:      c.CustomerID.String(),
		BankID:          c.BankID.String(),
		ChequeNo:        c.ChequeNo,
		Amount:          c.Amount,
		ChequeDate:      formatDate(c.ChequeDate),
		DepositDate:     formatDate(c.DepositDate),
		ClearanceDate:   formatOptionalDate(c.ClearanceDate),
		Status:          string(c.Status),
		Remarks:         c.Remarks,
		SubmittedAt:     c.SubmittedAt,
		StatusChangedAt: c.StatusChangedAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func chequePayload(c *model.Cheque) map[string]any {
	return map[string]any{
		"cheque_no":      c.ChequeNo,
		"amount":         c.Amount,
		"bank_id":        c.BankID,
		"customer_id":    c.CustomerID,
		"clearance_date": formatOptionalDate(c.ClearanceDate),
	}
}
