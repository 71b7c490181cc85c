package repository

import (
	"context"
	"errors"

	"github.com/Unchana19/songsarn-api/internal/oms/entity"
	"gorm.io/gorm"
)

// TransactionRepository financial records linked to orders
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *gorm.DB, t *entity.Transaction) error {
	return tx.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepository) FindByPOID(ctx context.Context, tx *gorm.DB, poID string) (*entity.Transaction, error) {
	var t entity.Transaction
	err := tx.WithContext(ctx).Where("po_id = ?", poID).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) Update(ctx context.Context, tx *gorm.DB, t *entity.Transaction) error {
	return tx.WithContext(ctx).Save(t).Error
}
