package database

import (
	"context"

	"gorm.io/gorm"
)

// TxManager abstracts transaction boundaries so usecases can be exercised
// with mock repositories. The gorm implementation maps Transaction onto a
// single database transaction; fn runs against the transactional handle.
type TxManager interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	WithContext(ctx context.Context) *gorm.DB
}

type gormTxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}

func (m *gormTxManager) WithContext(ctx context.Context) *gorm.DB {
	return m.db.WithContext(ctx)
}
