package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Unchana19/songsarn-api/internal/oms/entity"
	"gorm.io/gorm"
)

// RequisitionRepository open shortage records, one per material
type RequisitionRepository struct {
	db *gorm.DB
}

func NewRequisitionRepository(db *gorm.DB) *RequisitionRepository {
	return &RequisitionRepository{db: db}
}

func (r *RequisitionRepository) Create(ctx context.Context, tx *gorm.DB, req *entity.MaterialRequisition) error {
	return tx.WithContext(ctx).Create(req).Error
}

func (r *RequisitionRepository) FindByMaterial(ctx context.Context, tx *gorm.DB, materialID string) (*entity.MaterialRequisition, error) {
	var req entity.MaterialRequisition
	err := tx.WithContext(ctx).Where("material_id = ?", materialID).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// SetQuantityByMaterial replaces the open quantity and refreshes the
// requisition timestamp.
func (r *RequisitionRepository) SetQuantityByMaterial(ctx context.Context, tx *gorm.DB, materialID string, quantity float64, at time.Time) error {
	return tx.WithContext(ctx).Model(&entity.MaterialRequisition{}).
		Where("material_id = ?", materialID).
		Updates(map[string]interface{}{
			"quantity":         quantity,
			"create_date_time": at,
		}).Error
}

// RequisitionRow list row joined with material identity
type RequisitionRow struct {
	ID             string    `json:"id"`
	MaterialID     string    `json:"material_id"`
	MaterialName   string    `json:"material_name"`
	Unit           string    `json:"unit"`
	Quantity       float64   `json:"quantity"`
	CreateDateTime time.Time `json:"create_date_time"`
}

func (r *RequisitionRepository) FindAll(ctx context.Context) ([]RequisitionRow, error) {
	var rows []RequisitionRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT mr.id, m.id AS material_id, m.name AS material_name, m.unit, mr.quantity, mr.create_date_time
		FROM material_requisitions mr
		JOIN materials m ON mr.material_id = m.id
		ORDER BY mr.create_date_time DESC
	`).Scan(&rows).Error
	return rows, err
}

func (r *RequisitionRepository) FindManyByID(ctx context.Context, tx *gorm.DB, ids []string) ([]entity.MaterialRequisition, error) {
	var reqs []entity.MaterialRequisition
	err := tx.WithContext(ctx).Where("id IN ?", ids).Find(&reqs).Error
	return reqs, err
}

// DeleteManyByID consumes requisitions when an MPO is raised against them
func (r *RequisitionRepository) DeleteManyByID(ctx context.Context, tx *gorm.DB, ids []string) error {
	return tx.WithContext(ctx).Where("id IN ?", ids).Delete(&entity.MaterialRequisition{}).Error
}

func (r *RequisitionRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.MaterialRequisition{}).Count(&total).Error
	return total, err
}
