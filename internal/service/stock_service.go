package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"l2lsales/internal/apierror"
	"l2lsales/internal/dto"
	"l2lsales/internal/infra"
	"l2lsales/internal/model"
	"l2lsales/internal/repository"
	"l2lsales/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// StockService drives the free ⇄ hold lifecycle of units through stocks.
type StockService interface {
	Create(ctx context.Context, req dto.CreateStockRequest) (*dto.StockResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateStockRequest) (*dto.StockResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*dto.StockResponse, error)
	List(ctx context.Context, filter dto.StockFilter) (*dto.StockListResponse, error)
	GetUnit(ctx context.Context, id uuid.UUID) (*dto.UnitResponse, error)
}

type stockService struct {
	repo   repository.InventoryRepository
	locker infra.Locker
	pub    EventPublisher
	cfg    settings
}

func NewStockService(repo repository.InventoryRepository, locker infra.Locker, pub EventPublisher, opts ...Option) StockService {
	if locker == nil {
		locker = infra.NoopLocker{}
	}
	return &stockService{repo: repo, locker: locker, pub: pub, cfg: defaultSettings(opts)}
}

func unitLockKey(id uuid.UUID) string { return "lock:unit:" + id.String() }

// ── Create ────────────────────────────────────────────────────────────────────
// Unit must be free. Stock insert and unit free→hold commit together; the
// unit row lock serializes concurrent callers and the unique index on
// stocks.unit_id backs it up.

func (s *stockService) Create(ctx context.Context, req dto.CreateStockRequest) (*dto.StockResponse, error) {
	fields := map[string]string{}
	unitID, err := parseID("unit_id", req.UnitID)
	if err != nil {
		fields["unit_id"] = "must be a valid uuid"
	}
	brokerID, err := parseID("broker_id", req.BrokerID)
	if err != nil {
		fields["broker_id"] = "must be a valid uuid"
	}
	holdDate, msg := s.checkHoldDate(req.HoldTillDate)
	if msg != "" {
		fields["hold_till_date"] = msg
	}
	if len(fields) > 0 {
		return nil, apierror.Validation(fields)
	}

	release, err := s.locker.Acquire(ctx, unitLockKey(unitID))
	switch {
	case errors.Is(err, infra.ErrLockHeld):
		return nil, apierror.Conflict("unit %s is being modified by another request", unitID)
	case err != nil:
		// Lock service unavailable: the row lock below still serializes writers.
		log.Warn().Err(err).Str("unit_id", unitID.String()).Msg("unit lock unavailable, continuing")
	}
	defer release()

	stock := &model.Stock{
		UnitID:       unitID,
		BrokerID:     brokerID,
		HoldTillDate: holdDate,
		Remarks:      trimmedOrNil(req.Remarks),
	}
	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		unit, err := s.repo.FindUnitForUpdateTx(tx, unitID)
		if isNotFound(err) {
			return apierror.ValidationField("unit_id", "unit not found")
		}
		if err != nil {
			return err
		}
		if _, err := s.repo.FindBrokerTx(tx, brokerID); isNotFound(err) {
			return apierror.ValidationField("broker_id", "broker not found")
		} else if err != nil {
			return err
		}
		if unit.Status != model.UnitFree {
			return apierror.InvalidState("unit %s is %s, not free", unit.Name, unit.Status)
		}

		if err := s.repo.CreateStockTx(tx, stock); errors.Is(err, gorm.ErrDuplicatedKey) {
			return apierror.InvalidState("unit %s already has an active stock", unit.Name)
		} else if err != nil {
			return err
		}
		ok, err := s.repo.SetUnitStatusTx(tx, unitID, model.UnitFree, model.UnitHold)
		if err != nil {
			return err
		}
		if !ok {
			return apierror.InvalidState("unit %s is no longer free", unit.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("stock_id", stock.ID.String()).
		Str("unit_id", unitID.String()).
		Str("from", string(model.UnitFree)).
		Str("to", string(model.UnitHold)).
		Msg("stock created")
	publish(ctx, s.pub, worker.NewEvent(worker.EntityStock, stock.ID, "stock.created", stockPayload(stock)).
		WithTransition(string(model.UnitFree), string(model.UnitHold)))

	return s.Get(ctx, stock.ID)
}

// checkHoldDate returns the parsed date or a field message.
func (s *stockService) checkHoldDate(raw *string) (*time.Time, string) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, ""
	}
	d, err := parseDate("hold_till_date", *raw)
	if err != nil {
		return nil, "must be a date in YYYY-MM-DD format"
	}
	if d.Before(s.cfg.today()) {
		return nil, "must be today or later"
	}
	return &d, ""
}

// ── Update ────────────────────────────────────────────────────────────────────
// Broker, hold date and remarks only. The unit status is never touched.

func (s *stockService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateStockRequest) (*dto.StockResponse, error) {
	fields := map[string]string{}
	var brokerID *uuid.UUID
	if req.BrokerID != nil {
		b, err := parseID("broker_id", *req.BrokerID)
		if err != nil {
			fields["broker_id"] = "must be a valid uuid"
		} else {
			brokerID = &b
		}
	}
	holdDate, msg := s.checkHoldDate(req.HoldTillDate)
	if msg != "" {
		fields["hold_till_date"] = msg
	}
	if len(fields) > 0 {
		return nil, apierror.Validation(fields)
	}

	var before model.Stock
	err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		stock, err := s.repo.FindStockForUpdateTx(tx, id)
		if isNotFound(err) {
			return apierror.NotFound("stock %s not found", id)
		}
		if err != nil {
			return err
		}
		before = *stock

		if brokerID != nil {
			if _, err := s.repo.FindBrokerTx(tx, *brokerID); isNotFound(err) {
				return apierror.ValidationField("broker_id", "broker not found")
			} else if err != nil {
				return err
			}
			stock.BrokerID = *brokerID
		}
		if req.HoldTillDate != nil {
			stock.HoldTillDate = holdDate
		}
		if req.Remarks != nil {
			stock.Remarks = trimmedOrNil(req.Remarks)
		}
		return s.repo.UpdateStockTx(tx, stock)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("stock_id", id.String()).Msg("stock updated")
	publish(ctx, s.pub, worker.NewEvent(worker.EntityStock, id, "stock.updated", map[string]any{
		"before": stockPayload(&before),
		"patch":  req,
	}))
	return s.Get(ctx, id)
}

// ── Delete ────────────────────────────────────────────────────────────────────
// Stock delete and unit hold→free commit together or not at all.

func (s *stockService) Delete(ctx context.Context, id uuid.UUID) error {
	var deleted model.Stock
	err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		stock, err := s.repo.FindStockForUpdateTx(tx, id)
		if isNotFound(err) {
			return apierror.NotFound("stock %s not found", id)
		}
		if err != nil {
			return err
		}
		if err := s.repo.DeleteStockTx(tx, id); err != nil {
			return err
		}
		ok, err := s.repo.SetUnitStatusTx(tx, stock.UnitID, model.UnitHold, model.UnitFree)
		if err != nil {
			return err
		}
		if !ok {
			return apierror.Conflict("unit %s is not on hold; stock %s left in place", stock.UnitID, id)
		}
		deleted = *stock
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("stock_id", id.String()).
		Str("unit_id", deleted.UnitID.String()).
		Str("from", string(model.UnitHold)).
		Str("to", string(model.UnitFree)).
		Msg("stock deleted")
	publish(ctx, s.pub, worker.NewEvent(worker.EntityStock, id, "stock.deleted", stockPayload(&deleted)).
		WithTransition(string(model.UnitHold), string(model.UnitFree)))
	return nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *stockService) Get(ctx context.Context, id uuid.UUID) (*dto.StockResponse, error) {
	v, err := s.repo.FindStockView(ctx, id)
	if isNotFound(err) {
		return nil, apierror.NotFound("stock %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	resp := stockViewToResponse(*v)
	return &resp, nil
}

func (s *stockService) List(ctx context.Context, filter dto.StockFilter) (*dto.StockListResponse, error) {
	filter.Normalize()
	q := repository.StockQuery{
		Search: strings.TrimSpace(filter.Search),
		Limit:  filter.Limit,
		Offset: filter.Offset(),
	}
	projectID, err := parseOptionalID("project_id", filter.ProjectID)
	if err != nil {
		return nil, err
	}
	q.ProjectID = projectID
	if raw := normalizeEnum(filter.Status); raw != "" {
		st, err := model.ParseUnitStatus(raw)
		if err != nil {
			return nil, apierror.ValidationField("status", fmt.Sprintf("must be one of %v", model.UnitStatuses))
		}
		q.Status = &st
	}

	views, total, err := s.repo.ListStock(ctx, q)
	if err != nil {
		return nil, err
	}
	data := make([]dto.StockResponse, len(views))
	for i, v := range views {
		data[i] = stockViewToResponse(v)
	}
	return &dto.StockListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page.Page,
		Limit:      filter.Limit,
		TotalPages: dto.TotalPages(total, filter.Limit),
	}, nil
}

func (s *stockService) GetUnit(ctx context.Context, id uuid.UUID) (*dto.UnitResponse, error) {
	u, err := s.repo.FindUnit(ctx, id)
	if isNotFound(err) {
		return nil, apierror.NotFound("unit %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	resp := &dto.UnitResponse{
		ID:        u.ID.String(),
		ProjectID: u.ProjectID.String(),
		Name:      u.Name,
		UnitType:  u.UnitType,
		Size:      u.Size,
		BSP:       u.BSP,
		Status:    string(u.Status),
	}
	st, err := s.repo.FindStockByUnit(ctx, id)
	switch {
	case err == nil:
		sid := st.ID.String()
		resp.StockID = &sid
	case !isNotFound(err):
		return nil, err
	}
	return resp, nil
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func stockViewToResponse(v model.StockView) dto.StockResponse {
	return dto.StockResponse{
		ID:           v.ID.String(),
		UnitID:       v.UnitID.String(),
		UnitName:     v.UnitName,
		UnitStatus:   string(v.UnitStatus),
		ProjectID:    v.ProjectID.String(),
		ProjectName:  v.ProjectName,
		BrokerID:     v.BrokerID.String(),
		BrokerName:   v.BrokerName,
		HoldTillDate: formatOptionalDate(v.HoldTillDate),
		Remarks:      v.Remarks,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func stockPayload(st *model.Stock) map[string]any {
	return map[string]any{
		"unit_id":        st.UnitID,
		"broker_id":      st.BrokerID,
		"hold_till_date": formatOptionalDate(st.HoldTillDate),
		"remarks":        st.Remarks,
	}
}
