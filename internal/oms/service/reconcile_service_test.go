package service

import (
	"context"
	"testing"
	"time"

	"github.com/Unchana19/songsarn-api/internal/oms/entity"
	"github.com/Unchana19/songsarn-api/internal/oms/repository"
	"github.com/Unchana19/songsarn-api/internal/oms/testutil"
	"gorm.io/gorm"
)

func seedPaidOrder(t *testing.T, db *gorm.DB, id, productID string, qty float64) {
	t.Helper()
	if err := db.Create(&entity.CustomerPurchaseOrder{
		ID: id, UserID: "user-1", Status: entity.CPOStatusPaid, TotalPrice: 1000,
	}).Error; err != nil {
		t.Fatalf("Failed to seed order: %v", err)
	}
	if err := db.Create(&entity.OrderLine{
		ID: id + "-line-1", OrderID: id, ProductID: productID, Quantity: qty,
	}).Error; err != nil {
		t.Fatalf("Failed to seed order line: %v", err)
	}
}

func seedOrderWithStatus(t *testing.T, db *gorm.DB, id, productID, status string, qty float64) {
	t.Helper()
	if err := db.Create(&entity.CustomerPurchaseOrder{
		ID: id, UserID: "user-1", Status: status, TotalPrice: 1000,
	}).Error; err != nil {
		t.Fatalf("Failed to seed order: %v", err)
	}
	if err := db.Create(&entity.OrderLine{
		ID: id + "-line-1", OrderID: id, ProductID: productID, Quantity: qty,
	}).Error; err != nil {
		t.Fatalf("Failed to seed order line: %v", err)
	}
}

func newReconciler(db *gorm.DB) *ReconcileService {
	explosion := NewExplosionService(repository.NewBOMRepository(db))
	return NewReconcileService(explosion, repository.NewMaterialRepository(db), repository.NewRequisitionRepository(db))
}

func TestReconcileCreatesRequisition(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedShrineBOM(t, db)

	// teak on hand 100; demand 5×2×3 = 30 → no shortage
	// gold on hand 50; demand 3×3 = 9 → no shortage
	// squeeze teak stock down so the shortage is exactly 5
	db.Model(&entity.Material{}).Where("id = ?", "mat-teak").Update("quantity", 25)

	seedPaidOrder(t, db, "cpo-1", "prod-shrine", 3)

	svc := newReconciler(db)
	shortages, err := svc.Reconcile(context.Background(), db)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if len(shortages) != 1 {
		t.Fatalf("expected 1 shortage, got %d", len(shortages))
	}
	s := shortages[0]
	if s.MaterialID != "mat-teak" || s.Shortage != 5 {
		t.Fatalf("expected teak shortage 5, got %s %v", s.MaterialID, s.Shortage)
	}

	var req entity.MaterialRequisition
	if err := db.Where("material_id = ?", "mat-teak").First(&req).Error; err != nil {
		t.Fatalf("expected requisition row: %v", err)
	}
	if req.Quantity != 5 {
		t.Fatalf("expected requisition quantity 5, got %v", req.Quantity)
	}
}

func TestReconcileMergesAdditively(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedShrineBOM(t, db)
	db.Model(&entity.Material{}).Where("id = ?", "mat-teak").Update("quantity", 0)

	// pre-existing open requisition of 5 for teak
	earlier := time.Now().Add(-time.Hour)
	if err := db.Create(&entity.MaterialRequisition{
		ID: "req-1", MaterialID: "mat-teak", Quantity: 5, CreateDateTime: earlier,
	}).Error; err != nil {
		t.Fatalf("Failed to seed requisition: %v", err)
	}

	// paid demand: teak 5×2×2.5 = 25
	seedPaidOrder(t, db, "cpo-1", "prod-shrine", 2.5)

	svc := newReconciler(db)
	if _, err := svc.Reconcile(context.Background(), db); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	var req entity.MaterialRequisition
	db.Where("material_id = ?", "mat-teak").First(&req)
	if req.Quantity != 30 {
		t.Fatalf("expected merged quantity 30, got %v", req.Quantity)
	}
	if !req.CreateDateTime.After(earlier) {
		t.Fatal("expected the merge to refresh the requisition timestamp")
	}

	// still a single open row for the material
	var count int64
	db.Model(&entity.MaterialRequisition{}).Where("material_id = ?", "mat-teak").Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 requisition row, got %d", count)
	}
}

func TestReconcileIgnoresUnpaidDemand(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedShrineBOM(t, db)
	db.Model(&entity.Material{}).Where("id = ?", "mat-teak").Update("quantity", 0)
	db.Model(&entity.Material{}).Where("id = ?", "mat-gold").Update("quantity", 0)

	// only the paid order counts: teak 5×2×2 = 20, gold 3×2 = 6.
	// the orders still waiting or already in production must not add demand.
	seedPaidOrder(t, db, "cpo-paid", "prod-shrine", 2)
	seedOrderWithStatus(t, db, "cpo-new", "prod-shrine", entity.CPOStatusNew, 10)
	seedOrderWithStatus(t, db, "cpo-proc", "prod-shrine", entity.CPOStatusProcessing, 10)

	svc := newReconciler(db)
	shortages, err := svc.Reconcile(context.Background(), db)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	teak, ok := findShortage(shortages, "mat-teak")
	if !ok || teak.Shortage != 20 {
		t.Fatalf("expected teak shortage 20 from the paid order only, got %+v", shortages)
	}
	gold, ok := findShortage(shortages, "mat-gold")
	if !ok || gold.Shortage != 6 {
		t.Fatalf("expected gold shortage 6 from the paid order only, got %+v", shortages)
	}
}

func findShortage(shortages []Shortage, materialID string) (Shortage, bool) {
	for _, s := range shortages {
		if s.MaterialID == materialID {
			return s, true
		}
	}
	return Shortage{}, false
}

func TestReconcileNoShortageNoRequisition(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedShrineBOM(t, db)
	seedPaidOrder(t, db, "cpo-1", "prod-shrine", 2)

	svc := newReconciler(db)
	shortages, err := svc.Reconcile(context.Background(), db)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(shortages) != 0 {
		t.Fatalf("expected no shortages, got %d", len(shortages))
	}

	var count int64
	db.Model(&entity.MaterialRequisition{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no requisitions, got %d", count)
	}
}

func TestDeductClampsAtZero(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedShrineBOM(t, db)

	// teak demand for the order is 20, stock holds only 12
	db.Model(&entity.Material{}).Where("id = ?", "mat-teak").Update("quantity", 12)
	seedPaidOrder(t, db, "cpo-1", "prod-shrine", 2)

	svc := newReconciler(db)
	deducted, err := svc.Deduct(context.Background(), db, "cpo-1")
	if err != nil {
		t.Fatalf("Deduct failed: %v", err)
	}

	need, ok := findNeed(deducted, "mat-teak")
	if !ok || need.Quantity != 20 {
		t.Fatalf("expected reported usage 20, got %v", need.Quantity)
	}

	var teak entity.Material
	db.Where("id = ?", "mat-teak").First(&teak)
	if teak.Quantity != 0 {
		t.Fatalf("expected stock clamped at 0, got %v", teak.Quantity)
	}

	var gold entity.Material
	db.Where("id = ?", "mat-gold").First(&gold)
	if gold.Quantity != 44 {
		t.Fatalf("expected gold 44 after deducting 6, got %v", gold.Quantity)
	}
}
