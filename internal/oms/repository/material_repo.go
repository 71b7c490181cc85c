package repository

import (
	"context"
	"errors"

	"github.com/Unchana19/songsarn-api/internal/oms/entity"
	"gorm.io/gorm"
)

// MaterialRepository stock ledger repository
type MaterialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

func (r *MaterialRepository) Create(ctx context.Context, m *entity.Material) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MaterialRepository) FindByID(ctx context.Context, id string) (*entity.Material, error) {
	var m entity.Material
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MaterialRepository) FindByName(ctx context.Context, name string) (*entity.Material, error) {
	var m entity.Material
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MaterialRepository) FindAll(ctx context.Context) ([]entity.Material, error) {
	var items []entity.Material
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

// FindLowStock materials whose on-hand quantity fell under their reorder threshold
func (r *MaterialRepository) FindLowStock(ctx context.Context) ([]entity.Material, error) {
	var items []entity.Material
	err := r.db.WithContext(ctx).
		Where("quantity < threshold AND threshold > 0").
		Order("name ASC").
		Find(&items).Error
	return items, err
}

func (r *MaterialRepository) Update(ctx context.Context, m *entity.Material) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *MaterialRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.Material{}, "id = ?", id).Error
}

// CountBOMReferences counts BOM edges pointing at the material, both the
// component→material edges and the color slots on product→component edges.
// A referenced material must not be deleted.
func (r *MaterialRepository) CountBOMReferences(ctx context.Context, id string) (int64, error) {
	var edges int64
	if err := r.db.WithContext(ctx).Model(&entity.BOMComponent{}).
		Where("material_id = ?", id).Count(&edges).Error; err != nil {
		return 0, err
	}
	var colors int64
	if err := r.db.WithContext(ctx).Model(&entity.BOMProduct{}).
		Where("primary_color = ? OR pattern_color = ?", id, id).Count(&colors).Error; err != nil {
		return 0, err
	}
	return edges + colors, nil
}

// Credit adds quantity to the on-hand figure on the given handle (pool or tx).
func (r *MaterialRepository) Credit(ctx context.Context, tx *gorm.DB, id string, qty float64) error {
	return tx.WithContext(ctx).Model(&entity.Material{}).
		Where("id = ?", id).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", qty)).Error
}

// Debit subtracts quantity, clamped at zero. Stock never goes negative even
// when the requested amount exceeds what is on hand.
func (r *MaterialRepository) Debit(ctx context.Context, tx *gorm.DB, id string, qty float64) error {
	return tx.WithContext(ctx).Model(&entity.Material{}).
		Where("id = ?", id).
		UpdateColumn("quantity", gorm.Expr("GREATEST(quantity - ?, 0)", qty)).Error
}
