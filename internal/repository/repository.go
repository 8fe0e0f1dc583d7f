package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor runs fn inside a single database transaction. Returning an error
// from fn rolls back every write made through tx.
type Transactor interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTransactor struct{ db *gorm.DB }

func (t gormTransactor) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.WithContext(ctx).Transaction(fn)
}
