package repository

import (
	"context"
	"time"

	"l2lsales/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChequeQuery is the parsed form of the cheque list filter.
// DateFrom/DateTo bound cheque_date inclusively.
type ChequeQuery struct {
	Status     *model.ChequeStatus
	BankID     *uuid.UUID
	CustomerID *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}

// ChequeRepository persists cheques. There is no delete: cheques are kept for
// the audit trail in every state.
type ChequeRepository interface {
	Transactor

	Create(ctx context.Context, c *model.Cheque) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cheque, error)
	List(ctx context.Context, q ChequeQuery) ([]model.Cheque, int64, error)
	// ListForStats returns every cheque in the date window, unpaginated.
	ListForStats(ctx context.Context, from, to *time.Time) ([]model.Cheque, error)

	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Cheque, error)
	// TransitionTx applies fields only if the cheque is still in status from.
	TransitionTx(tx *gorm.DB, id uuid.UUID, from model.ChequeStatus, fields map[string]any) (bool, error)
}

type chequeRepo struct {
	gormTransactor
	db *gorm.DB
}

func NewChequeRepository(db *gorm.DB) ChequeRepository {
	return &chequeRepo{gormTransactor: gormTransactor{db: db}, db: db}
}

func (r *chequeRepo) Create(ctx context.Context, c *model.Cheque) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *chequeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cheque, error) {
	var c model.Cheque
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *chequeRepo) List(ctx context.Context, q ChequeQuery) ([]model.Cheque, int64, error) {
	var cheques []model.Cheque
	var total int64

	db := applyChequeWindow(r.db.WithContext(ctx).Model(&model.Cheque{}), q.DateFrom, q.DateTo)
	if q.Status != nil {
		db = db.Where("status = ?", *q.Status)
	}
	if q.BankID != nil {
		db = db.Where("bank_id = ?", *q.BankID)
	}
	if q.CustomerID != nil {
		db = db.Where("customer_id = ?", *q.CustomerID)
	}

	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("cheque_date DESC, created_at DESC").
		Limit(q.Limit).Offset(q.Offset).
		Find(&cheques).Error
	return cheques, total, err
}

func (r *chequeRepo) ListForStats(ctx context.Context, from, to *time.Time) ([]model.Cheque, error) {
	var cheques []model.Cheque
	db := r.db.WithContext(ctx).Model(&model.Cheque{}).Select("id", "status", "amount", "cheque_date")
	err := applyChequeWindow(db, from, to).Find(&cheques).Error
	return cheques, err
}

func applyChequeWindow(db *gorm.DB, from, to *time.Time) *gorm.DB {
	if from != nil {
		db = db.Where("cheque_date >= ?", from.Format("2006-01-02"))
	}
	if to != nil {
		db = db.Where("cheque_date <= ?", to.Format("2006-01-02"))
	}
	return db
}

func (r *chequeRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Cheque, error) {
	var c model.Cheque
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *chequeRepo) TransitionTx(tx *gorm.DB, id uuid.UUID, from model.ChequeStatus, fields map[string]any) (bool, error) {
	res := tx.Model(&model.Cheque{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
