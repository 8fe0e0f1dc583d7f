package infra

import (
	"fmt"

	"l2lsales/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the postgres pool and brings the schema up to date.
// TranslateError makes unique violations surface as gorm.ErrDuplicatedKey.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates/updates tables from the models, then applies the
// constraints AutoMigrate cannot express.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL. Each statement is guarded so that
// re-running on an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"units status domain", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_units_status') THEN
    ALTER TABLE units ADD CONSTRAINT chk_units_status
      CHECK (status IN ('free', 'hold', 'booked', 'allotted'));
  END IF;
END $$`},
		{"cheques status domain", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_cheques_status') THEN
    ALTER TABLE cheques ADD CONSTRAINT chk_cheques_status
      CHECK (status IN ('pending', 'submitted', 'cleared', 'bounced', 'cancelled'));
  END IF;
END $$`},
		{"cheques positive amount", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_cheques_amount') THEN
    ALTER TABLE cheques ADD CONSTRAINT chk_cheques_amount CHECK (amount > 0);
  END IF;
END $$`},
		{"cheques clearance date only when cleared", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_cheques_clearance') THEN
    ALTER TABLE cheques ADD CONSTRAINT chk_cheques_clearance
      CHECK ((status = 'cleared') = (clearance_date IS NOT NULL));
  END IF;
END $$`},
		{"installments value range", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_installments_value') THEN
    ALTER TABLE installments ADD CONSTRAINT chk_installments_value
      CHECK (value > 0 AND (NOT is_percentage OR value <= 100));
  END IF;
END $$`},
		{"installments due_days", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_installments_due_days') THEN
    ALTER TABLE installments ADD CONSTRAINT chk_installments_due_days CHECK (due_days >= 0);
  END IF;
END $$`},
		{"payment plan name unique (case-insensitive)",
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_payment_plans_name_lower ON payment_plans (lower(name))`},
		{"stocks list order",
			`CREATE INDEX IF NOT EXISTS idx_stocks_created_at ON stocks (created_at DESC)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
