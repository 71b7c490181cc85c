package repository

import (
	"context"
	"errors"

	"github.com/Unchana19/songsarn-api/internal/oms/entity"
	"gorm.io/gorm"
)

// MPORepository material purchase order repository
type MPORepository struct {
	db *gorm.DB
}

func NewMPORepository(db *gorm.DB) *MPORepository {
	return &MPORepository{db: db}
}

func (r *MPORepository) Create(ctx context.Context, tx *gorm.DB, mpo *entity.MaterialPurchaseOrder) error {
	return tx.WithContext(ctx).Create(mpo).Error
}

func (r *MPORepository) FindByID(ctx context.Context, tx *gorm.DB, id string) (*entity.MaterialPurchaseOrder, error) {
	var mpo entity.MaterialPurchaseOrder
	err := tx.WithContext(ctx).
		Preload("OrderLines.Material").
		Where("id = ?", id).
		First(&mpo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &mpo, nil
}

func (r *MPORepository) FindAll(ctx context.Context) ([]entity.MaterialPurchaseOrder, error) {
	var orders []entity.MaterialPurchaseOrder
	err := r.db.WithContext(ctx).
		Order("create_date_time DESC").
		Find(&orders).Error
	return orders, err
}

func (r *MPORepository) FindLineByID(ctx context.Context, tx *gorm.DB, id string) (*entity.MPOOrderLine, error) {
	var line entity.MPOOrderLine
	err := tx.WithContext(ctx).Where("id = ?", id).First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &line, nil
}

func (r *MPORepository) UpdateLine(ctx context.Context, tx *gorm.DB, line *entity.MPOOrderLine) error {
	return tx.WithContext(ctx).Save(line).Error
}

// SumLinePrices derived MPO total, always recomputed from the lines
func (r *MPORepository) SumLinePrices(ctx context.Context, tx *gorm.DB, mpoID string) (float64, error) {
	var result struct{ Total float64 }
	err := tx.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(price), 0) AS total
		FROM mpo_order_lines
		WHERE mpo_id = ?
	`, mpoID).Scan(&result).Error
	return result.Total, err
}
