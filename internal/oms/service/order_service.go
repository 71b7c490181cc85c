package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Unchana19/songsarn-api/internal/oms/entity"
	"github.com/Unchana19/songsarn-api/internal/oms/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderService owns the customer order lifecycle: checkout, the status state
// machine with its history trail, and the expiry sweep. Every transition
// writes the CPO row and its history row in one transaction; history is the
// authoritative timeline and must never diverge from the current status.
type OrderService struct {
	cpoRepo         *repository.CPORepository
	historyRepo     *repository.HistoryRepository
	transactionRepo *repository.TransactionRepository
	reconciler      *ReconcileService
	orderTTL        time.Duration
	db              *gorm.DB
}

func NewOrderService(
	cpoRepo *repository.CPORepository,
	historyRepo *repository.HistoryRepository,
	transactionRepo *repository.TransactionRepository,
	reconciler *ReconcileService,
	orderTTL time.Duration,
	db *gorm.DB,
) *OrderService {
	if orderTTL <= 0 {
		orderTTL = 48 * time.Hour
	}
	return &OrderService{
		cpoRepo:         cpoRepo,
		historyRepo:     historyRepo,
		transactionRepo: transactionRepo,
		reconciler:      reconciler,
		orderTTL:        orderTTL,
		db:              db,
	}
}

type CheckoutLine struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
}

type CheckoutRequest struct {
	UserID        string         `json:"user_id" binding:"required"`
	DeliveryPrice float64        `json:"delivery_price"`
	Address       string         `json:"address" binding:"required"`
	TotalPrice    float64        `json:"total_price" binding:"required,gt=0"`
	PhoneNumber   string         `json:"phone_number" binding:"required"`
	PaymentMethod string         `json:"payment_method"`
	OrderLines    []CheckoutLine `json:"order_lines" binding:"required,min=1"`
}

// Checkout creates the order in NEW status: header, line items, the NEW
// history row, and drops the customer's stale cart lines. The estimated
// delivery range is fixed here and never recomputed.
func (s *OrderService) Checkout(ctx context.Context, req CheckoutRequest) (*entity.CustomerPurchaseOrder, error) {
	var productCount int64
	productIDs := make([]string, 0, len(req.OrderLines))
	for _, l := range req.OrderLines {
		productIDs = append(productIDs, l.ProductID)
	}
	if err := s.db.WithContext(ctx).Model(&entity.Product{}).
		Where("id IN ?", productIDs).
		Distinct("id").
		Count(&productCount).Error; err != nil {
		return nil, fmt.Errorf("validate products: %w", err)
	}
	if int(productCount) != len(uniqueStrings(productIDs)) {
		return nil, fmt.Errorf("order line product: %w", repository.ErrNotFound)
	}

	now := time.Now()
	cpo := &entity.CustomerPurchaseOrder{
		ID:              uuid.New().String(),
		UserID:          req.UserID,
		Status:          entity.CPOStatusNew,
		DeliveryPrice:   req.DeliveryPrice,
		TotalPrice:      req.TotalPrice,
		Address:         req.Address,
		PhoneNumber:     req.PhoneNumber,
		PaymentMethod:   req.PaymentMethod,
		EstDeliveryDate: estimatedDeliveryRange(now),
	}
	for _, l := range req.OrderLines {
		cpo.OrderLines = append(cpo.OrderLines, entity.OrderLine{
			ID:        uuid.New().String(),
			OrderID:   cpo.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.cpoRepo.DeleteCartLines(ctx, tx, req.UserID); err != nil {
			return fmt.Errorf("discard cart lines: %w", err)
		}
		if err := tx.Create(cpo).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return s.writeHistory(ctx, tx, cpo.ID, entity.CPOStatusNew)
	})
	if err != nil {
		return nil, err
	}
	return cpo, nil
}

// estimatedDeliveryRange "DD-Mon-YYYY - DD-Mon-YYYY", now+6d through now+8d.
// A promise made once at checkout, not a live re-estimate.
func estimatedDeliveryRange(now time.Time) string {
	start := now.AddDate(0, 0, 6)
	end := now.AddDate(0, 0, 8)
	return start.Format("02-Jan-2006") + " - " + end.Format("02-Jan-2006")
}

type MarkPaidRequest struct {
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	TransactionID string  `json:"transaction_id"`
}

// MarkPaid records the confirmed payment: PAID status + timestamp, the
// payment transaction row, the PAID history row, then reconciles requisitions
// against the aggregate PAID demand, all in one transaction. Only a NEW order
// can be paid; a repeat call (or paying a cancelled order) fails the status
// precondition, which also keeps the one-transaction-per-order rule intact.
func (s *OrderService) MarkPaid(ctx context.Context, cpoID string, req MarkPaidRequest) ([]Shortage, error) {
	method := req.PaymentMethod
	if method == "" {
		method = "qr"
	}
	transactionID := req.TransactionID
	if transactionID == "" {
		transactionID = uuid.New().String()
	}

	var shortages []Shortage
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cpo, err := s.cpoRepo.FindByID(ctx, tx, cpoID)
		if err != nil {
			return fmt.Errorf("order %s: %w", cpoID, err)
		}
		if cpo.Status != entity.CPOStatusNew {
			return fmt.Errorf("order %s in status %s: %w", cpoID, cpo.Status, ErrInvalidStatus)
		}

		now := time.Now()
		cpo.Status = entity.CPOStatusPaid
		cpo.PaidDateTime = &now
		if err := tx.Model(&entity.CustomerPurchaseOrder{}).
			Where("id = ?", cpo.ID).
			Updates(map[string]interface{}{"status": cpo.Status, "paid_date_time": now}).Error; err != nil {
			return fmt.Errorf("update order status: %w", err)
		}

		if err := s.transactionRepo.Create(ctx, tx, &entity.Transaction{
			ID:             transactionID,
			POID:           cpo.ID,
			Amount:         req.Amount,
			PaymentMethod:  method,
			CreateDateTime: now,
		}); err != nil {
			return fmt.Errorf("record payment transaction: %w", err)
		}

		if err := s.writeHistory(ctx, tx, cpo.ID, entity.CPOStatusPaid); err != nil {
			return err
		}

		shortages, err = s.reconciler.Reconcile(ctx, tx)
		if err != nil {
			return fmt.Errorf("reconcile requisitions: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return shortages, nil
}

// StartProcessing moves a PAID order into production: deducts the order's
// material usage from stock and writes the PROCESSING transition. Fails with
// a precondition error when the order is missing or not in PAID status.
func (s *OrderService) StartProcessing(ctx context.Context, cpoID string) ([]MaterialNeed, error) {
	var deducted []MaterialNeed
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cpo, err := s.cpoRepo.FindByID(ctx, tx, cpoID)
		if err != nil || cpo.Status != entity.CPOStatusPaid {
			return fmt.Errorf("order %s: %w", cpoID, ErrNotPaid)
		}

		deducted, err = s.reconciler.Deduct(ctx, tx, cpoID)
		if err != nil {
			return err
		}

		if err := tx.Model(&entity.CustomerPurchaseOrder{}).
			Where("id = ?", cpoID).
			Update("status", entity.CPOStatusProcessing).Error; err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		return s.writeHistory(ctx, tx, cpoID, entity.CPOStatusProcessing)
	})
	if err != nil {
		return nil, err
	}
	return deducted, nil
}

// canAdvance is the single place later-stage transitions are gated. The
// observed design accepts any prior status for these three; tightening the
// ordering later is a change to this function only.
func canAdvance(status string) bool {
	switch status {
	case entity.CPOStatusFinishedProcess, entity.CPOStatusOnDelivery, entity.CPOStatusCompleted:
		return true
	}
	return false
}

// Advance moves an order to FINISHED_PROCESS, ON_DELIVERY or COMPLETED.
// The first ON_DELIVERY transition stamps the actual delivery hand-off time,
// which the detail view reports instead of the checkout estimate.
func (s *OrderService) Advance(ctx context.Context, cpoID, status string) error {
	if !canAdvance(status) {
		return fmt.Errorf("status %s: %w", status, ErrInvalidStatus)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cpo, err := s.cpoRepo.FindByID(ctx, tx, cpoID)
		if err != nil {
			return fmt.Errorf("order %s: %w", cpoID, err)
		}

		updates := map[string]interface{}{"status": status}
		if status == entity.CPOStatusOnDelivery && cpo.DeliveredDateTime == nil {
			updates["delivered_date_time"] = time.Now()
		}
		if err := tx.Model(&entity.CustomerPurchaseOrder{}).
			Where("id = ?", cpoID).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		return s.writeHistory(ctx, tx, cpoID, status)
	})
}

// SweepResult outcome of one expiry sweep pass
type SweepResult struct {
	CancelledCount int      `json:"cancelled_count"`
	CancelledIDs   []string `json:"cancelled_ids"`
}

// RunExpirySweep cancels every order still in NEW status whose latest NEW
// history row is older than the order TTL. Orders that moved past NEW are
// never matched, which also makes repeated sweeps idempotent.
func (s *OrderService) RunExpirySweep(ctx context.Context) (*SweepResult, error) {
	result := &SweepResult{CancelledIDs: []string{}}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := s.cpoRepo.FindExpiredNew(ctx, tx, time.Now().Add(-s.orderTTL))
		if err != nil {
			return fmt.Errorf("find expired orders: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}

		if err := tx.Model(&entity.CustomerPurchaseOrder{}).
			Where("id IN ?", ids).
			Update("status", entity.CPOStatusCancelled).Error; err != nil {
			return fmt.Errorf("cancel expired orders: %w", err)
		}
		for _, id := range ids {
			if err := s.writeHistory(ctx, tx, id, entity.CPOStatusCancelled); err != nil {
				return err
			}
		}
		result.CancelledCount = len(ids)
		result.CancelledIDs = ids
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *OrderService) writeHistory(ctx context.Context, tx *gorm.DB, cpoID, status string) error {
	err := s.historyRepo.Create(ctx, tx, &entity.History{
		ID:       uuid.New().String(),
		CPOID:    cpoID,
		Status:   status,
		DateTime: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("write history %s for order %s: %w", status, cpoID, err)
	}
	return nil
}

// --- reads ---

func (s *OrderService) GetByID(ctx context.Context, id string) (*entity.CustomerPurchaseOrder, error) {
	return s.cpoRepo.FindByID(ctx, s.db, id)
}

func (s *OrderService) ListByUser(ctx context.Context, userID string) ([]repository.CPOSummary, error) {
	return s.cpoRepo.FindAllByUser(ctx, userID)
}

func (s *OrderService) ListAll(ctx context.Context) ([]entity.CustomerPurchaseOrder, error) {
	return s.cpoRepo.FindAll(ctx)
}

func (s *OrderService) GetHistory(ctx context.Context, cpoID string) ([]entity.History, error) {
	return s.historyRepo.FindByCPO(ctx, cpoID)
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
