package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Unchana19/songsarn-api/internal/oms/entity"
	"github.com/Unchana19/songsarn-api/internal/oms/repository"
	"github.com/Unchana19/songsarn-api/internal/oms/testutil"
	"gorm.io/gorm"
)

func newMPOService(db *gorm.DB) *MPOService {
	repos := repository.NewRepositories(db)
	return NewMPOService(repos.MPO, repos.Material, repos.Requisition, repos.Transaction, db)
}

func seedRequisition(t *testing.T, db *gorm.DB, id, materialID string, qty float64) {
	t.Helper()
	if err := db.Create(&entity.MaterialRequisition{
		ID: id, MaterialID: materialID, Quantity: qty, CreateDateTime: time.Now(),
	}).Error; err != nil {
		t.Fatalf("Failed to seed requisition: %v", err)
	}
}

func TestCreateMPOConsumesRequisitions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedMaterial(t, db, "mat-teak", "Teak wood", "pcs", 10, 0, nil)
	testutil.SeedMaterial(t, db, "mat-nails", "Brass nails", "pcs", 200, 0, nil)
	seedRequisition(t, db, "req-1", "mat-teak", 30)
	seedRequisition(t, db, "req-2", "mat-nails", 500)
	svc := newMPOService(db)

	mpo, err := svc.CreateMPO(context.Background(), CreateMPORequest{
		Supplier:       "Lanna Timber Co",
		RequisitionIDs: []string{"req-1", "req-2"},
	})
	if err != nil {
		t.Fatalf("CreateMPO failed: %v", err)
	}

	if mpo.Status != entity.MPOStatusNew {
		t.Fatalf("expected NEW, got %s", mpo.Status)
	}
	if len(mpo.OrderLines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(mpo.OrderLines))
	}
	if mpo.TotalPrice != 0 {
		t.Fatalf("expected unpriced total 0, got %v", mpo.TotalPrice)
	}

	// zero-amount transaction opened
	var trx entity.Transaction
	if err := db.Where("po_id = ?", mpo.ID).First(&trx).Error; err != nil {
		t.Fatalf("expected transaction row: %v", err)
	}
	if trx.Amount != 0 {
		t.Fatalf("expected amount 0, got %v", trx.Amount)
	}

	// consumed requisitions are gone
	var count int64
	db.Model(&entity.MaterialRequisition{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected requisitions consumed, found %d", count)
	}
}

func TestCreateMPOValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newMPOService(db)

	_, err := svc.CreateMPO(context.Background(), CreateMPORequest{Supplier: "X"})
	if !errors.Is(err, ErrEmptyItems) {
		t.Fatalf("expected ErrEmptyItems, got %v", err)
	}

	_, err = svc.CreateMPO(context.Background(), CreateMPORequest{
		Supplier:       "X",
		RequisitionIDs: []string{"req-missing"},
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReceiveMPOCreditsStock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedMaterial(t, db, "mat-teak", "Teak wood", "pcs", 10, 0, nil)
	seedRequisition(t, db, "req-1", "mat-teak", 30)
	svc := newMPOService(db)

	mpo, err := svc.CreateMPO(context.Background(), CreateMPORequest{
		Supplier:       "Lanna Timber Co",
		RequisitionIDs: []string{"req-1"},
	})
	if err != nil {
		t.Fatalf("CreateMPO failed: %v", err)
	}

	received, err := svc.ReceiveMPO(context.Background(), mpo.ID)
	if err != nil {
		t.Fatalf("ReceiveMPO failed: %v", err)
	}
	if received.Status != entity.MPOStatusReceived {
		t.Fatalf("expected RECEIVED, got %s", received.Status)
	}
	if received.ReceiveDateTime == nil {
		t.Fatal("expected receive timestamp")
	}

	var teak entity.Material
	db.Where("id = ?", "mat-teak").First(&teak)
	if teak.Quantity != 40 {
		t.Fatalf("expected stock 40 after receipt, got %v", teak.Quantity)
	}

	// receiving twice is rejected
	if _, err := svc.ReceiveMPO(context.Background(), mpo.ID); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus on second receive, got %v", err)
	}
}

func TestCancelMPOZeroesTotals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedMaterial(t, db, "mat-teak", "Teak wood", "pcs", 10, 0, nil)
	seedRequisition(t, db, "req-1", "mat-teak", 30)
	svc := newMPOService(db)

	mpo, _ := svc.CreateMPO(context.Background(), CreateMPORequest{
		Supplier:       "Lanna Timber Co",
		RequisitionIDs: []string{"req-1"},
	})

	// price the line first so cancellation has something to zero
	priced, err := svc.SetLinePrice(context.Background(), mpo.OrderLines[0].ID, 1500)
	if err != nil {
		t.Fatalf("SetLinePrice failed: %v", err)
	}
	if priced.TotalPrice != 1500 {
		t.Fatalf("expected total 1500, got %v", priced.TotalPrice)
	}

	cancelled, err := svc.CancelMPO(context.Background(), mpo.ID)
	if err != nil {
		t.Fatalf("CancelMPO failed: %v", err)
	}
	if cancelled.Status != entity.MPOStatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", cancelled.Status)
	}
	if cancelled.TotalPrice != 0 {
		t.Fatalf("expected total 0 after cancel, got %v", cancelled.TotalPrice)
	}

	var trx entity.Transaction
	db.Where("po_id = ?", mpo.ID).First(&trx)
	if trx.Amount != 0 {
		t.Fatalf("expected transaction zeroed, got %v", trx.Amount)
	}

	// no stock moved
	var teak entity.Material
	db.Where("id = ?", "mat-teak").First(&teak)
	if teak.Quantity != 10 {
		t.Fatalf("expected stock untouched, got %v", teak.Quantity)
	}
}

func TestSetLinePriceSyncsTotal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedMaterial(t, db, "mat-teak", "Teak wood", "pcs", 10, 0, nil)
	testutil.SeedMaterial(t, db, "mat-nails", "Brass nails", "pcs", 200, 0, nil)
	seedRequisition(t, db, "req-1", "mat-teak", 30)
	seedRequisition(t, db, "req-2", "mat-nails", 500)
	svc := newMPOService(db)

	mpo, _ := svc.CreateMPO(context.Background(), CreateMPORequest{
		Supplier:       "Lanna Timber Co",
		RequisitionIDs: []string{"req-1", "req-2"},
	})

	if _, err := svc.SetLinePrice(context.Background(), mpo.OrderLines[0].ID, 1200); err != nil {
		t.Fatalf("SetLinePrice failed: %v", err)
	}
	updated, err := svc.SetLinePrice(context.Background(), mpo.OrderLines[1].ID, 300)
	if err != nil {
		t.Fatalf("SetLinePrice failed: %v", err)
	}

	if updated.TotalPrice != 1500 {
		t.Fatalf("expected total 1500, got %v", updated.TotalPrice)
	}
	var trx entity.Transaction
	db.Where("po_id = ?", mpo.ID).First(&trx)
	if trx.Amount != 1500 {
		t.Fatalf("expected transaction synced to 1500, got %v", trx.Amount)
	}

	// repricing a line replaces, not adds
	repriced, err := svc.SetLinePrice(context.Background(), mpo.OrderLines[0].ID, 1000)
	if err != nil {
		t.Fatalf("SetLinePrice failed: %v", err)
	}
	if repriced.TotalPrice != 1300 {
		t.Fatalf("expected total 1300 after repricing, got %v", repriced.TotalPrice)
	}
}
