package repository

import (
	"context"

	"l2lsales/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlanRepository persists payment plans and their installments.
type PlanRepository interface {
	Transactor

	CreatePlan(ctx context.Context, p *model.PaymentPlan) error
	// FindPlan loads the plan with installments ordered by position.
	FindPlan(ctx context.Context, id uuid.UUID) (*model.PaymentPlan, error)
	ListPlans(ctx context.Context) ([]model.PaymentPlan, error)
	// DeletePlanTx removes the plan and all of its installments.
	DeletePlanTx(tx *gorm.DB, id uuid.UUID) error

	FindPlanForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.PaymentPlan, error)
	NextPositionTx(tx *gorm.DB, planID uuid.UUID) (int, error)
	CreateInstallmentTx(tx *gorm.DB, i *model.Installment) error
	FindInstallmentForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Installment, error)
	UpdateInstallmentTx(tx *gorm.DB, i *model.Installment) error
	DeleteInstallmentTx(tx *gorm.DB, id uuid.UUID) error
}

type planRepo struct {
	gormTransactor
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepo{gormTransactor: gormTransactor{db: db}, db: db}
}

func orderedInstallments(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, created_at ASC")
}

func (r *planRepo) CreatePlan(ctx context.Context, p *model.PaymentPlan) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *planRepo) FindPlan(ctx context.Context, id uuid.UUID) (*model.PaymentPlan, error) {
	var p model.PaymentPlan
	err := r.db.WithContext(ctx).
		Preload("Installments", orderedInstallments).
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *planRepo) ListPlans(ctx context.Context) ([]model.PaymentPlan, error) {
	var plans []model.PaymentPlan
	err := r.db.WithContext(ctx).
		Preload("Installments", orderedInstallments).
		Order("name ASC").
		Find(&plans).Error
	return plans, err
}

func (r *planRepo) DeletePlanTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("plan_id = ?", id).Delete(&model.Installment{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.PaymentPlan{}, "id = ?", id).Error
}

func (r *planRepo) FindPlanForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.PaymentPlan, error) {
	var p model.PaymentPlan
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *planRepo) NextPositionTx(tx *gorm.DB, planID uuid.UUID) (int, error) {
	var next int
	err := tx.Model(&model.Installment{}).
		Where("plan_id = ?", planID).
		Select("COALESCE(MAX(position), 0) + 1").
		Scan(&next).Error
	return next, err
}

func (r *planRepo) CreateInstallmentTx(tx *gorm.DB, i *model.Installment) error {
	return tx.Create(i).Error
}

func (r *planRepo) FindInstallmentForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Installment, error) {
	var i model.Installment
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&i, "id = ?", id).Error
	return &i, err
}

func (r *planRepo) UpdateInstallmentTx(tx *gorm.DB, i *model.Installment) error {
	return tx.Save(i).Error
}

func (r *planRepo) DeleteInstallmentTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Installment{}, "id = ?", id).Error
}
