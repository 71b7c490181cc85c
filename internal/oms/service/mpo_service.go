package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Unchana19/songsarn-api/internal/oms/entity"
	"github.com/Unchana19/songsarn-api/internal/oms/repository"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// MPOService manages material purchase orders end to end: creation from
// requisitions, stock receipt, cancellation, and line pricing with the total
// kept in sync on the order's zero-initialized transaction.
type MPOService struct {
	mpoRepo         *repository.MPORepository
	materialRepo    *repository.MaterialRepository
	requisitionRepo *repository.RequisitionRepository
	transactionRepo *repository.TransactionRepository
	db              *gorm.DB
}

func NewMPOService(
	mpoRepo *repository.MPORepository,
	materialRepo *repository.MaterialRepository,
	requisitionRepo *repository.RequisitionRepository,
	transactionRepo *repository.TransactionRepository,
	db *gorm.DB,
) *MPOService {
	return &MPOService{
		mpoRepo:         mpoRepo,
		materialRepo:    materialRepo,
		requisitionRepo: requisitionRepo,
		transactionRepo: transactionRepo,
		db:              db,
	}
}

type CreateMPORequest struct {
	Supplier       string   `json:"supplier" binding:"required"`
	RequisitionIDs []string `json:"requisition_ids" binding:"required"`
}

// CreateMPO turns a set of requisitions into a purchase order. Each
// requisition becomes an unpriced line, a zero-amount transaction placeholder
// is opened for later pricing, and the consumed requisitions are removed so
// they cannot be ordered twice.
func (s *MPOService) CreateMPO(ctx context.Context, req CreateMPORequest) (*entity.MaterialPurchaseOrder, error) {
	if len(req.RequisitionIDs) == 0 {
		return nil, ErrEmptyItems
	}

	var mpo *entity.MaterialPurchaseOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		requisitions, err := s.requisitionRepo.FindManyByID(ctx, tx, req.RequisitionIDs)
		if err != nil {
			return fmt.Errorf("load requisitions: %w", err)
		}
		if len(requisitions) != len(req.RequisitionIDs) {
			return fmt.Errorf("requisition: %w", repository.ErrNotFound)
		}

		now := time.Now()
		mpo = &entity.MaterialPurchaseOrder{
			ID:             uuid.New().String(),
			Supplier:       req.Supplier,
			Status:         entity.MPOStatusNew,
			TotalPrice:     0,
			CreateDateTime: now,
		}
		for _, r := range requisitions {
			mpo.OrderLines = append(mpo.OrderLines, entity.MPOOrderLine{
				ID:         uuid.New().String(),
				MPOID:      mpo.ID,
				MaterialID: r.MaterialID,
				Quantity:   r.Quantity,
			})
		}
		if err := s.mpoRepo.Create(ctx, tx, mpo); err != nil {
			return fmt.Errorf("create purchase order: %w", err)
		}

		if err := s.transactionRepo.Create(ctx, tx, &entity.Transaction{
			ID:             uuid.New().String(),
			POID:           mpo.ID,
			Amount:         0,
			PaymentMethod:  "pending",
			CreateDateTime: now,
		}); err != nil {
			return fmt.Errorf("open purchase transaction: %w", err)
		}

		if err := s.requisitionRepo.DeleteManyByID(ctx, tx, req.RequisitionIDs); err != nil {
			return fmt.Errorf("consume requisitions: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mpo, nil
}

// ReceiveMPO marks a NEW purchase order as received and credits every line
// quantity back into material stock.
func (s *MPOService) ReceiveMPO(ctx context.Context, id string) (*entity.MaterialPurchaseOrder, error) {
	var mpo *entity.MaterialPurchaseOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		mpo, err = s.mpoRepo.FindByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("purchase order %s: %w", id, err)
		}
		if mpo.Status != entity.MPOStatusNew {
			return fmt.Errorf("purchase order %s is %s: %w", id, mpo.Status, ErrInvalidStatus)
		}

		for _, line := range mpo.OrderLines {
			if err := s.materialRepo.Credit(ctx, tx, line.MaterialID, line.Quantity); err != nil {
				return fmt.Errorf("credit material %s: %w", line.MaterialID, err)
			}
		}

		now := time.Now()
		mpo.Status = entity.MPOStatusReceived
		mpo.ReceiveDateTime = &now
		if err := tx.Model(&entity.MaterialPurchaseOrder{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{"status": mpo.Status, "receive_date_time": now}).Error; err != nil {
			return fmt.Errorf("update purchase order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mpo, nil
}

// CancelMPO voids a NEW purchase order: total drops to zero and the linked
// transaction amount is zeroed so the books stay consistent. No stock moves.
func (s *MPOService) CancelMPO(ctx context.Context, id string) (*entity.MaterialPurchaseOrder, error) {
	var mpo *entity.MaterialPurchaseOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		mpo, err = s.mpoRepo.FindByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("purchase order %s: %w", id, err)
		}
		if mpo.Status != entity.MPOStatusNew {
			return fmt.Errorf("purchase order %s is %s: %w", id, mpo.Status, ErrInvalidStatus)
		}

		now := time.Now()
		mpo.Status = entity.MPOStatusCancelled
		mpo.CancelDateTime = &now
		mpo.TotalPrice = 0
		if err := tx.Model(&entity.MaterialPurchaseOrder{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":           mpo.Status,
				"cancel_date_time": now,
				"total_price":      0,
			}).Error; err != nil {
			return fmt.Errorf("update purchase order: %w", err)
		}
		return s.syncTransactionAmount(ctx, tx, id, 0)
	})
	if err != nil {
		return nil, err
	}
	return mpo, nil
}

// SetLinePrice prices one purchase order line, then recomputes the order
// total as the sum of all line prices and mirrors it onto the transaction.
func (s *MPOService) SetLinePrice(ctx context.Context, lineID string, price float64) (*entity.MaterialPurchaseOrder, error) {
	var mpo *entity.MaterialPurchaseOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		line, err := s.mpoRepo.FindLineByID(ctx, tx, lineID)
		if err != nil {
			return fmt.Errorf("purchase order line %s: %w", lineID, err)
		}

		line.Price = price
		if err := s.mpoRepo.UpdateLine(ctx, tx, line); err != nil {
			return fmt.Errorf("update line price: %w", err)
		}

		total, err := s.mpoRepo.SumLinePrices(ctx, tx, line.MPOID)
		if err != nil {
			return fmt.Errorf("sum line prices: %w", err)
		}
		if err := tx.Model(&entity.MaterialPurchaseOrder{}).
			Where("id = ?", line.MPOID).
			Update("total_price", total).Error; err != nil {
			return fmt.Errorf("update purchase order total: %w", err)
		}
		if err := s.syncTransactionAmount(ctx, tx, line.MPOID, total); err != nil {
			return err
		}

		mpo, err = s.mpoRepo.FindByID(ctx, tx, line.MPOID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mpo, nil
}

func (s *MPOService) syncTransactionAmount(ctx context.Context, tx *gorm.DB, mpoID string, amount float64) error {
	trx, err := s.transactionRepo.FindByPOID(ctx, tx, mpoID)
	if err != nil {
		return fmt.Errorf("transaction for purchase order %s: %w", mpoID, err)
	}
	trx.Amount = amount
	if err := s.transactionRepo.Update(ctx, tx, trx); err != nil {
		return fmt.Errorf("sync transaction amount: %w", err)
	}
	return nil
}

func (s *MPOService) GetByID(ctx context.Context, id string) (*entity.MaterialPurchaseOrder, error) {
	return s.mpoRepo.FindByID(ctx, s.db, id)
}

func (s *MPOService) ListAll(ctx context.Context) ([]entity.MaterialPurchaseOrder, error) {
	return s.mpoRepo.FindAll(ctx)
}

// ExportMPO renders one purchase order as a spreadsheet for the supplier.
func (s *MPOService) ExportMPO(ctx context.Context, id string) (*excelize.File, error) {
	mpo, err := s.mpoRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("purchase order %s: %w", id, err)
	}

	f := excelize.NewFile()
	sheet := "PurchaseOrder"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", "Supplier")
	f.SetCellValue(sheet, "B1", mpo.Supplier)
	f.SetCellValue(sheet, "A2", "Status")
	f.SetCellValue(sheet, "B2", mpo.Status)
	f.SetCellValue(sheet, "A3", "Created")
	f.SetCellValue(sheet, "B3", mpo.CreateDateTime.Format("2006-01-02 15:04"))

	headers := []string{"Material", "Unit", "Quantity", "Price"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 5)
		f.SetCellValue(sheet, cell, h)
	}
	for i, line := range mpo.OrderLines {
		row := i + 6
		name, unit := line.MaterialID, ""
		if line.Material != nil {
			name, unit = line.Material.Name, line.Material.Unit
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), unit)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), line.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), line.Price)
	}
	totalRow := len(mpo.OrderLines) + 7
	f.SetCellValue(sheet, fmt.Sprintf("C%d", totalRow), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", totalRow), mpo.TotalPrice)

	return f, nil
}
