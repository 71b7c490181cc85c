package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Unchana19/songsarn-api/internal/oms/entity"
	"github.com/Unchana19/songsarn-api/internal/oms/repository"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// RequisitionService manual requisition entry and purchasing exports. The
// automatic path lives in ReconcileService; both merge into the same
// one-open-row-per-material table.
type RequisitionService struct {
	requisitionRepo *repository.RequisitionRepository
	materialRepo    *repository.MaterialRepository
	db              *gorm.DB
}

func NewRequisitionService(
	requisitionRepo *repository.RequisitionRepository,
	materialRepo *repository.MaterialRepository,
	db *gorm.DB,
) *RequisitionService {
	return &RequisitionService{
		requisitionRepo: requisitionRepo,
		materialRepo:    materialRepo,
		db:              db,
	}
}

type CreateRequisitionRequest struct {
	MaterialID string  `json:"material_id" binding:"required"`
	Quantity   float64 `json:"quantity" binding:"required,gt=0"`
}

// Create raises a manual requisition. If the material already has an open
// row the quantity is added to it, same as the automatic merge.
func (s *RequisitionService) Create(ctx context.Context, req CreateRequisitionRequest) error {
	if _, err := s.materialRepo.FindByID(ctx, req.MaterialID); err != nil {
		return fmt.Errorf("material %s: %w", req.MaterialID, err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		existing, err := s.requisitionRepo.FindByMaterial(ctx, tx, req.MaterialID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("find requisition: %w", err)
			}
			return s.requisitionRepo.Create(ctx, tx, &entity.MaterialRequisition{
				ID:             uuid.New().String(),
				MaterialID:     req.MaterialID,
				Quantity:       req.Quantity,
				CreateDateTime: now,
			})
		}
		return s.requisitionRepo.SetQuantityByMaterial(ctx, tx, req.MaterialID, existing.Quantity+req.Quantity, now)
	})
}

func (s *RequisitionService) ListAll(ctx context.Context) ([]repository.RequisitionRow, error) {
	return s.requisitionRepo.FindAll(ctx)
}

// Export renders the open requisition list as a spreadsheet for purchasing.
func (s *RequisitionService) Export(ctx context.Context) (*excelize.File, error) {
	rows, err := s.requisitionRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list requisitions: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Requisitions"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Material", "Unit", "Quantity", "Raised"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for i, row := range rows {
		n := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", n), row.MaterialName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", n), row.Unit)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", n), row.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", n), row.CreateDateTime.Format("2006-01-02 15:04"))
	}
	return f, nil
}
