package repository

import (
	"context"

	"github.com/Unchana19/songsarn-api/internal/oms/entity"
	"gorm.io/gorm"
)

// BOMRepository read side of the product→component→material graph. The
// explosion engine runs these queries on whatever handle the caller is in
// (pool or open transaction), so every method takes the handle explicitly.
type BOMRepository struct {
	db *gorm.DB
}

func NewBOMRepository(db *gorm.DB) *BOMRepository {
	return &BOMRepository{db: db}
}

// FindProductEdges product→component edges for a set of products
func (r *BOMRepository) FindProductEdges(ctx context.Context, tx *gorm.DB, productIDs []string) ([]entity.BOMProduct, error) {
	var edges []entity.BOMProduct
	err := tx.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Order("id ASC").
		Find(&edges).Error
	return edges, err
}

// FindComponents components by id
func (r *BOMRepository) FindComponents(ctx context.Context, tx *gorm.DB, ids []string) (map[string]entity.Component, error) {
	var comps []entity.Component
	if err := tx.WithContext(ctx).Where("id IN ?", ids).Find(&comps).Error; err != nil {
		return nil, err
	}
	out := make(map[string]entity.Component, len(comps))
	for _, c := range comps {
		out[c.ID] = c
	}
	return out, nil
}

// FindComponentEdges component→material edges for a set of components
func (r *BOMRepository) FindComponentEdges(ctx context.Context, tx *gorm.DB, componentIDs []string) ([]entity.BOMComponent, error) {
	var edges []entity.BOMComponent
	err := tx.WithContext(ctx).
		Where("component_id IN ?", componentIDs).
		Order("id ASC").
		Find(&edges).Error
	return edges, err
}

// FindMaterials materials by id, keyed for lookup. Callers decide whether a
// missing id is an integrity error.
func (r *BOMRepository) FindMaterials(ctx context.Context, tx *gorm.DB, ids []string) (map[string]entity.Material, error) {
	var mats []entity.Material
	if err := tx.WithContext(ctx).Where("id IN ?", ids).Find(&mats).Error; err != nil {
		return nil, err
	}
	out := make(map[string]entity.Material, len(mats))
	for _, m := range mats {
		out[m.ID] = m
	}
	return out, nil
}

// FindOrderLines line items of one order
func (r *BOMRepository) FindOrderLines(ctx context.Context, tx *gorm.DB, cpoID string) ([]entity.OrderLine, error) {
	var lines []entity.OrderLine
	err := tx.WithContext(ctx).Where("order_id = ?", cpoID).Find(&lines).Error
	return lines, err
}

// FindPaidOrderLines line items of every order currently in PAID status,
// the live aggregate demand the reconciler works from.
func (r *BOMRepository) FindPaidOrderLines(ctx context.Context, tx *gorm.DB) ([]entity.OrderLine, error) {
	var lines []entity.OrderLine
	err := tx.WithContext(ctx).
		Joins("JOIN customer_purchase_orders cpo ON cpo.id = order_lines.order_id").
		Where("cpo.status = ?", entity.CPOStatusPaid).
		Find(&lines).Error
	return lines, err
}
