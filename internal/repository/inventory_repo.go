package repository

import (
	"context"
	"strings"

	"l2lsales/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockQuery is the parsed form of the stock list filter.
type StockQuery struct {
	Search    string
	ProjectID *uuid.UUID
	Status    *model.UnitStatus
	Limit     int
	Offset    int
}

// InventoryRepository covers units, brokers and the stocks that hold units.
// Methods with a Tx suffix must be called with the tx handed out by Transaction.
type InventoryRepository interface {
	Transactor

	FindUnitForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Unit, error)
	// SetUnitStatusTx is a compare-and-set; it reports false when the unit
	// was not in status from.
	SetUnitStatusTx(tx *gorm.DB, unitID uuid.UUID, from, to model.UnitStatus) (bool, error)
	FindBrokerTx(tx *gorm.DB, id uuid.UUID) (*model.Broker, error)

	CreateStockTx(tx *gorm.DB, s *model.Stock) error
	FindStockForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Stock, error)
	UpdateStockTx(tx *gorm.DB, s *model.Stock) error
	DeleteStockTx(tx *gorm.DB, id uuid.UUID) error

	FindStockView(ctx context.Context, id uuid.UUID) (*model.StockView, error)
	ListStock(ctx context.Context, q StockQuery) ([]model.StockView, int64, error)
	FindUnit(ctx context.Context, id uuid.UUID) (*model.Unit, error)
	FindStockByUnit(ctx context.Context, unitID uuid.UUID) (*model.Stock, error)
	ListUnits(ctx context.Context, projectID *uuid.UUID) ([]model.Unit, error)
}

type inventoryRepo struct {
	gormTransactor
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepo{gormTransactor: gormTransactor{db: db}, db: db}
}

func (r *inventoryRepo) FindUnitForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Unit, error) {
	var u model.Unit
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *inventoryRepo) SetUnitStatusTx(tx *gorm.DB, unitID uuid.UUID, from, to model.UnitStatus) (bool, error) {
	res := tx.Model(&model.Unit{}).
		Where("id = ? AND status = ?", unitID, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *inventoryRepo) FindBrokerTx(tx *gorm.DB, id uuid.UUID) (*model.Broker, error) {
	var b model.Broker
	err := tx.First(&b, "id = ?", id).Error
	return &b, err
}

func (r *inventoryRepo) CreateStockTx(tx *gorm.DB, s *model.Stock) error {
	return tx.Omit(clause.Associations).Create(s).Error
}

func (r *inventoryRepo) FindStockForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Stock, error) {
	var s model.Stock
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *inventoryRepo) UpdateStockTx(tx *gorm.DB, s *model.Stock) error {
	return tx.Model(s).Select("broker_id", "hold_till_date", "remarks").Updates(map[string]any{
		"broker_id":      s.BrokerID,
		"hold_till_date": s.HoldTillDate,
		"remarks":        s.Remarks,
	}).Error
}

func (r *inventoryRepo) DeleteStockTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Stock{}, "id = ?", id).Error
}

// ── Reads ────────────────────────────────────────────────────────────────────

const stockViewColumns = `s.id, s.unit_id, s.broker_id, s.hold_till_date, s.remarks,
	s.created_at, s.updated_at,
	u.name AS unit_name, u.status AS unit_status, u.project_id,
	p.name AS project_name, b.name AS broker_name`

func (r *inventoryRepo) stockViews(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("stocks AS s").
		Joins("JOIN units u ON u.id = s.unit_id").
		Joins("JOIN projects p ON p.id = u.project_id").
		Joins("JOIN brokers b ON b.id = s.broker_id")
}

func (r *inventoryRepo) FindStockView(ctx context.Context, id uuid.UUID) (*model.StockView, error) {
	var v model.StockView
	res := r.stockViews(ctx).Select(stockViewColumns).Where("s.id = ?", id).Limit(1).Scan(&v)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &v, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching q as a plain substring.
// Backslash is the default LIKE escape character in postgres.
func containsPattern(q string) string { return "%" + likeEscaper.Replace(q) + "%" }

func (r *inventoryRepo) ListStock(ctx context.Context, q StockQuery) ([]model.StockView, int64, error) {
	var views []model.StockView
	var total int64

	db := r.stockViews(ctx)
	if q.Search != "" {
		like := containsPattern(q.Search)
		db = db.Where("(u.name ILIKE ? OR p.name ILIKE ? OR b.name ILIKE ?)", like, like, like)
	}
	if q.ProjectID != nil {
		db = db.Where("u.project_id = ?", *q.ProjectID)
	}
	if q.Status != nil {
		db = db.Where("u.status = ?", *q.Status)
	}

	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Select(stockViewColumns).
		Order("s.created_at DESC, s.id").
		Limit(q.Limit).Offset(q.Offset).
		Scan(&views).Error
	return views, total, err
}

func (r *inventoryRepo) FindUnit(ctx context.Context, id uuid.UUID) (*model.Unit, error) {
	var u model.Unit
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *inventoryRepo) FindStockByUnit(ctx context.Context, unitID uuid.UUID) (*model.Stock, error) {
	var s model.Stock
	err := r.db.WithContext(ctx).First(&s, "unit_id = ?", unitID).Error
	return &s, err
}

func (r *inventoryRepo) ListUnits(ctx context.Context, projectID *uuid.UUID) ([]model.Unit, error) {
	var units []model.Unit
	q := r.db.WithContext(ctx).Select("id", "project_id", "status")
	if projectID != nil {
		q = q.Where("project_id = ?", *projectID)
	}
	err := q.Find(&units).Error
	return units, err
}
