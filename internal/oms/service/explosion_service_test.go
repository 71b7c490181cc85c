package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Unchana19/songsarn-api/internal/oms/entity"
	"github.com/Unchana19/songsarn-api/internal/oms/repository"
	"github.com/Unchana19/songsarn-api/internal/oms/testutil"
	"gorm.io/gorm"
)

// seedShrineBOM builds a small two-level BOM:
//
//	product "shrine": 2 x component "roof" (primary color "gold", no pattern)
//	component "roof": 5 x material "teak" per unit
//	color material "gold": roof consumes 3 primary / 2 pattern per ordered unit
func seedShrineBOM(t *testing.T, db *gorm.DB) {
	t.Helper()

	gold := "gold"
	testutil.SeedMaterial(t, db, "mat-teak", "Teak wood", "pcs", 100, 0, nil)
	testutil.SeedMaterial(t, db, "mat-gold", "Gold paint", "liter", 50, 0, &gold)
	testutil.SeedComponent(t, db, "comp-roof", "Roof", 3, 2)
	testutil.SeedProduct(t, db, "prod-shrine", "Teak shrine", 4500)

	if err := db.Create(&entity.BOMComponent{
		ID: "bc-1", ComponentID: "comp-roof", MaterialID: "mat-teak", Quantity: 5,
	}).Error; err != nil {
		t.Fatalf("Failed to seed component edge: %v", err)
	}
	primary := "mat-gold"
	if err := db.Create(&entity.BOMProduct{
		ID: "bp-1", ProductID: "prod-shrine", ComponentID: "comp-roof",
		Quantity: 2, PrimaryColorID: &primary,
	}).Error; err != nil {
		t.Fatalf("Failed to seed product edge: %v", err)
	}
}

func findNeed(needs []MaterialNeed, materialID string) (MaterialNeed, bool) {
	for _, n := range needs {
		if n.MaterialID == materialID {
			return n, true
		}
	}
	return MaterialNeed{}, false
}

func TestExplodeQuantities(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedShrineBOM(t, db)
	svc := NewExplosionService(repository.NewBOMRepository(db))

	needs, err := svc.Explode(context.Background(), db, []ProductQuantity{
		{ProductID: "prod-shrine", Quantity: 2},
	})
	if err != nil {
		t.Fatalf("Explode failed: %v", err)
	}

	// non-color: 5 per component × 2 components per product × 2 ordered
	teak, ok := findNeed(needs, "mat-teak")
	if !ok {
		t.Fatal("expected teak requirement")
	}
	if teak.Quantity != 20 {
		t.Fatalf("expected teak 20, got %v", teak.Quantity)
	}

	// primary color: factor 3 × 2 ordered, edge component count does not multiply
	gold, ok := findNeed(needs, "mat-gold")
	if !ok {
		t.Fatal("expected gold requirement")
	}
	if gold.Quantity != 6 {
		t.Fatalf("expected gold 6, got %v", gold.Quantity)
	}

	if len(needs) != 2 {
		t.Fatalf("expected 2 needs, got %d", len(needs))
	}
}

func TestExplodePatternColor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedShrineBOM(t, db)

	// second edge with a pattern color assigned
	red := "red"
	testutil.SeedMaterial(t, db, "mat-red", "Red paint", "liter", 10, 0, &red)
	pattern := "mat-red"
	if err := db.Create(&entity.BOMProduct{
		ID: "bp-2", ProductID: "prod-shrine", ComponentID: "comp-roof",
		Quantity: 1, PatternColorID: &pattern,
	}).Error; err != nil {
		t.Fatalf("Failed to seed product edge: %v", err)
	}

	svc := NewExplosionService(repository.NewBOMRepository(db))
	needs, err := svc.Explode(context.Background(), db, []ProductQuantity{
		{ProductID: "prod-shrine", Quantity: 3},
	})
	if err != nil {
		t.Fatalf("Explode failed: %v", err)
	}

	// pattern factor 2 × 3 ordered via the second edge only
	redNeed, ok := findNeed(needs, "mat-red")
	if !ok {
		t.Fatal("expected red requirement")
	}
	if redNeed.Quantity != 6 {
		t.Fatalf("expected red 6, got %v", redNeed.Quantity)
	}

	// teak now flows through both edges: 5 × (2+1) × 3
	teak, _ := findNeed(needs, "mat-teak")
	if teak.Quantity != 45 {
		t.Fatalf("expected teak 45, got %v", teak.Quantity)
	}
}

func TestExplodeColorMaterialSkippedOnGenericEdge(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedShrineBOM(t, db)

	// a generic component→material edge pointing at a color material must
	// not add to the color material's requirement
	if err := db.Create(&entity.BOMComponent{
		ID: "bc-2", ComponentID: "comp-roof", MaterialID: "mat-gold", Quantity: 99,
	}).Error; err != nil {
		t.Fatalf("Failed to seed component edge: %v", err)
	}

	svc := NewExplosionService(repository.NewBOMRepository(db))
	needs, err := svc.Explode(context.Background(), db, []ProductQuantity{
		{ProductID: "prod-shrine", Quantity: 1},
	})
	if err != nil {
		t.Fatalf("Explode failed: %v", err)
	}

	gold, _ := findNeed(needs, "mat-gold")
	if gold.Quantity != 3 {
		t.Fatalf("expected gold 3 from the color slot only, got %v", gold.Quantity)
	}
}

func TestExplodeMissingMaterialFails(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedShrineBOM(t, db)

	if err := db.Create(&entity.BOMComponent{
		ID: "bc-ghost", ComponentID: "comp-roof", MaterialID: "mat-ghost", Quantity: 1,
	}).Error; err != nil {
		t.Fatalf("Failed to seed component edge: %v", err)
	}

	svc := NewExplosionService(repository.NewBOMRepository(db))
	_, err := svc.Explode(context.Background(), db, []ProductQuantity{
		{ProductID: "prod-shrine", Quantity: 1},
	})
	if !errors.Is(err, ErrBOMIntegrity) {
		t.Fatalf("expected ErrBOMIntegrity, got %v", err)
	}
}

func TestExplodeProductWithoutBOM(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedProduct(t, db, "prod-bare", "No BOM", 100)

	svc := NewExplosionService(repository.NewBOMRepository(db))
	needs, err := svc.Explode(context.Background(), db, []ProductQuantity{
		{ProductID: "prod-bare", Quantity: 5},
	})
	if err != nil {
		t.Fatalf("Explode failed: %v", err)
	}
	if len(needs) != 0 {
		t.Fatalf("expected no needs, got %d", len(needs))
	}
}
