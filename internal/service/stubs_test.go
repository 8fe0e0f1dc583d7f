package service_test

import (
	"context"
	"errors"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"l2lsales/internal/model"
	"l2lsales/internal/repository"
	"l2lsales/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Every stub serializes Transaction on a mutex and restores a snapshot when
// fn fails, which is what the database gives the services.

// ── Inventory ────────────────────────────────────────────────────────────────

type stubInventoryRepo struct {
	mu       sync.Mutex
	projects map[uuid.UUID]model.Project
	units    map[uuid.UUID]model.Unit
	brokers  map[uuid.UUID]model.Broker
	stocks   map[uuid.UUID]model.Stock
	clock    time.Time
}

var _ repository.InventoryRepository = (*stubInventoryRepo)(nil)

func newStubInventoryRepo() *stubInventoryRepo {
	return &stubInventoryRepo{
		projects: make(map[uuid.UUID]model.Project),
		units:    make(map[uuid.UUID]model.Unit),
		brokers:  make(map[uuid.UUID]model.Broker),
		stocks:   make(map[uuid.UUID]model.Stock),
		clock:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *stubInventoryRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *stubInventoryRepo) addProject(name string) model.Project {
	p := model.Project{ID: uuid.New(), Name: name}
	r.projects[p.ID] = p
	return p
}

func (r *stubInventoryRepo) addUnit(projectID uuid.UUID, name string, status model.UnitStatus) model.Unit {
	u := model.Unit{ID: uuid.New(), ProjectID: projectID, Name: name, Status: status}
	r.units[u.ID] = u
	return u
}

func (r *stubInventoryRepo) addBroker(name string) model.Broker {
	b := model.Broker{ID: uuid.New(), Name: name}
	r.brokers[b.ID] = b
	return b
}

func (r *stubInventoryRepo) unitStatus(id uuid.UUID) model.UnitStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.units[id].Status
}

func (r *stubInventoryRepo) stockCount(unitID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.stocks {
		if s.UnitID == unitID {
			n++
		}
	}
	return n
}

func (r *stubInventoryRepo) Transaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	units, stocks := maps.Clone(r.units), maps.Clone(r.stocks)
	if err := fn(nil); err != nil {
		r.units, r.stocks = units, stocks
		return err
	}
	return nil
}

func (r *stubInventoryRepo) FindUnitForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Unit, error) {
	u, ok := r.units[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *stubInventoryRepo) SetUnitStatusTx(_ *gorm.DB, id uuid.UUID, from, to model.UnitStatus) (bool, error) {
	u, ok := r.units[id]
	if !ok || u.Status != from {
		return false, nil
	}
	u.Status = to
	r.units[id] = u
	return true, nil
}

func (r *stubInventoryRepo) FindBrokerTx(_ *gorm.DB, id uuid.UUID) (*model.Broker, error) {
	b, ok := r.brokers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &b, nil
}

func (r *stubInventoryRepo) CreateStockTx(_ *gorm.DB, s *model.Stock) error {
	for _, existing := range r.stocks {
		if existing.UnitID == s.UnitID {
			return gorm.ErrDuplicatedKey
		}
	}
	s.ID = uuid.New()
	s.CreatedAt = r.tick()
	s.UpdatedAt = s.CreatedAt
	r.stocks[s.ID] = *s
	return nil
}

func (r *stubInventoryRepo) FindStockForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Stock, error) {
	s, ok := r.stocks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (r *stubInventoryRepo) UpdateStockTx(_ *gorm.DB, s *model.Stock) error {
	s.UpdatedAt = r.tick()
	r.stocks[s.ID] = *s
	return nil
}

func (r *stubInventoryRepo) DeleteStockTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.stocks, id)
	return nil
}

func (r *stubInventoryRepo) view(s model.Stock) model.StockView {
	u := r.units[s.UnitID]
	return model.StockView{
		ID:           s.ID,
		UnitID:       s.UnitID,
		BrokerID:     s.BrokerID,
		HoldTillDate: s.HoldTillDate,
		Remarks:      s.Remarks,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		UnitName:     u.Name,
		UnitStatus:   u.Status,
		ProjectID:    u.ProjectID,
		ProjectName:  r.projects[u.ProjectID].Name,
		BrokerName:   r.brokers[s.BrokerID].Name,
	}
}

func (r *stubInventoryRepo) FindStockView(_ context.Context, id uuid.UUID) (*model.StockView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stocks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	v := r.view(s)
	return &v, nil
}

func (r *stubInventoryRepo) ListStock(_ context.Context, q repository.StockQuery) ([]model.StockView, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	search := strings.ToLower(q.Search)
	var all []model.StockView
	for _, s := range r.stocks {
		v := r.view(s)
		if q.ProjectID != nil && v.ProjectID != *q.ProjectID {
			continue
		}
		if q.Status != nil && v.UnitStatus != *q.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(v.UnitName), search) &&
			!strings.Contains(strings.ToLower(v.ProjectName), search) &&
			!strings.Contains(strings.ToLower(v.BrokerName), search) {
			continue
		}
		all = append(all, v)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if q.Offset >= len(all) {
		return []model.StockView{}, total, nil
	}
	end := min(q.Offset+q.Limit, len(all))
	return all[q.Offset:end], total, nil
}

func (r *stubInventoryRepo) FindUnit(_ context.Context, id uuid.UUID) (*model.Unit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.units[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *stubInventoryRepo) FindStockByUnit(_ context.Context, unitID uuid.UUID) (*model.Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.stocks {
		if s.UnitID == unitID {
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubInventoryRepo) ListUnits(_ context.Context, projectID *uuid.UUID) ([]model.Unit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Unit
	for _, u := range r.units {
		if projectID == nil || u.ProjectID == *projectID {
			out = append(out, u)
		}
	}
	return out, nil
}

// ── Cheques ──────────────────────────────────────────────────────────────────

type stubChequeRepo struct {
	mu      sync.Mutex
	cheques map[uuid.UUID]model.Cheque
	clock   time.Time
}

var _ repository.ChequeRepository = (*stubChequeRepo)(nil)

func newStubChequeRepo() *stubChequeRepo {
	return &stubChequeRepo{
		cheques: make(map[uuid.UUID]model.Cheque),
		clock:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *stubChequeRepo) put(c model.Cheque) model.Cheque {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.cheques[c.ID] = c
	return c
}

func (r *stubChequeRepo) Transaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := maps.Clone(r.cheques)
	if err := fn(nil); err != nil {
		r.cheques = snapshot
		return err
	}
	return nil
}

func (r *stubChequeRepo) Create(_ context.Context, c *model.Cheque) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock = r.clock.Add(time.Second)
	c.ID = uuid.New()
	c.CreatedAt, c.UpdatedAt = r.clock, r.clock
	r.cheques[c.ID] = *c
	return nil
}

func (r *stubChequeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cheque, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cheques[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func inWindow(d time.Time, from, to *time.Time) bool {
	return (from == nil || !d.Before(*from)) && (to == nil || !d.After(*to))
}

func (r *stubChequeRepo) List(_ context.Context, q repository.ChequeQuery) ([]model.Cheque, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []model.Cheque
	for _, c := range r.cheques {
		if q.Status != nil && c.Status != *q.Status {
			continue
		}
		if q.BankID != nil && c.BankID != *q.BankID {
			continue
		}
		if q.CustomerID != nil && c.CustomerID != *q.CustomerID {
			continue
		}
		if !inWindow(c.ChequeDate, q.DateFrom, q.DateTo) {
			continue
		}
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].ChequeDate.Equal(all[j].ChequeDate) {
			return all[i].ChequeDate.After(all[j].ChequeDate)
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	total := int64(len(all))
	if q.Offset >= len(all) {
		return []model.Cheque{}, total, nil
	}
	return all[q.Offset:min(q.Offset+q.Limit, len(all))], total, nil
}

func (r *stubChequeRepo) ListForStats(_ context.Context, from, to *time.Time) ([]model.Cheque, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Cheque
	for _, c := range r.cheques {
		if inWindow(c.ChequeDate, from, to) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *stubChequeRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Cheque, error) {
	c, ok := r.cheques[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *stubChequeRepo) TransitionTx(_ *gorm.DB, id uuid.UUID, from model.ChequeStatus, fields map[string]any) (bool, error) {
	c, ok := r.cheques[id]
	if !ok || c.Status != from {
		return false, nil
	}
	for k, v := range fields {
		switch k {
		case "status":
			c.Status = v.(model.ChequeStatus)
		case "submitted_at":
			t := v.(time.Time)
			c.SubmittedAt = &t
		case "status_changed_at":
			c.StatusChangedAt = v.(time.Time)
		case "clearance_date":
			t := v.(time.Time)
			c.ClearanceDate = &t
		case "remarks":
			s := v.(string)
			c.Remarks = &s
		default:
			return false, errors.New("unknown column " + k)
		}
	}
	r.cheques[id] = c
	return true, nil
}

// ── Plans ────────────────────────────────────────────────────────────────────

type stubPlanRepo struct {
	mu           sync.Mutex
	plans        map[uuid.UUID]model.PaymentPlan
	installments map[uuid.UUID]model.Installment
	clock        time.Time
}

var _ repository.PlanRepository = (*stubPlanRepo)(nil)

func newStubPlanRepo() *stubPlanRepo {
	return &stubPlanRepo{
		plans:        make(map[uuid.UUID]model.PaymentPlan),
		installments: make(map[uuid.UUID]model.Installment),
		clock:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *stubPlanRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *stubPlanRepo) Transaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	plans, insts := maps.Clone(r.plans), maps.Clone(r.installments)
	if err := fn(nil); err != nil {
		r.plans, r.installments = plans, insts
		return err
	}
	return nil
}

func (r *stubPlanRepo) CreatePlan(_ context.Context, p *model.PaymentPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.plans {
		if strings.EqualFold(existing.Name, p.Name) {
			return gorm.ErrDuplicatedKey
		}
	}
	p.ID = uuid.New()
	p.CreatedAt = r.tick()
	p.UpdatedAt = p.CreatedAt
	r.plans[p.ID] = *p
	return nil
}

func (r *stubPlanRepo) withInstallments(p model.PaymentPlan) model.PaymentPlan {
	p.Installments = nil
	for _, in := range r.installments {
		if in.PlanID == p.ID {
			p.Installments = append(p.Installments, in)
		}
	}
	sort.Slice(p.Installments, func(i, j int) bool {
		a, b := p.Installments[i], p.Installments[j]
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return p
}

func (r *stubPlanRepo) FindPlan(_ context.Context, id uuid.UUID) (*model.PaymentPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p = r.withInstallments(p)
	return &p, nil
}

func (r *stubPlanRepo) ListPlans(_ context.Context) ([]model.PaymentPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.PaymentPlan, 0, len(r.plans))
	for _, p := range r.plans {
		out = append(out, r.withInstallments(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubPlanRepo) DeletePlanTx(_ *gorm.DB, id uuid.UUID) error {
	for iid, in := range r.installments {
		if in.PlanID == id {
			delete(r.installments, iid)
		}
	}
	delete(r.plans, id)
	return nil
}

func (r *stubPlanRepo) FindPlanForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.PaymentPlan, error) {
	p, ok := r.plans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *stubPlanRepo) NextPositionTx(_ *gorm.DB, planID uuid.UUID) (int, error) {
	next := 1
	for _, in := range r.installments {
		if in.PlanID == planID && in.Position >= next {
			next = in.Position + 1
		}
	}
	return next, nil
}

func (r *stubPlanRepo) CreateInstallmentTx(_ *gorm.DB, in *model.Installment) error {
	in.ID = uuid.New()
	in.CreatedAt = r.tick()
	in.UpdatedAt = in.CreatedAt
	r.installments[in.ID] = *in
	return nil
}

func (r *stubPlanRepo) FindInstallmentForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Installment, error) {
	in, ok := r.installments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &in, nil
}

func (r *stubPlanRepo) UpdateInstallmentTx(_ *gorm.DB, in *model.Installment) error {
	in.UpdatedAt = r.tick()
	r.installments[in.ID] = *in
	return nil
}

func (r *stubPlanRepo) DeleteInstallmentTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.installments, id)
	return nil
}

// ── Audit ────────────────────────────────────────────────────────────────────

type stubAuditRepo struct {
	entries []model.AuditLog
	err     error
}

var _ repository.AuditRepository = (*stubAuditRepo)(nil)

func (r *stubAuditRepo) Create(_ context.Context, e *model.AuditLog) error {
	r.entries = append(r.entries, *e)
	return nil
}

func (r *stubAuditRepo) ListByEntity(_ context.Context, typ string, id uuid.UUID) ([]model.AuditLog, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []model.AuditLog
	for _, e := range r.entries {
		if e.EntityType == typ && e.EntityID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

// ── Events ───────────────────────────────────────────────────────────────────

type recordingPublisher struct {
	mu     sync.Mutex
	events []worker.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev worker.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Action
	}
	return out
}

func (p *recordingPublisher) last() worker.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}
