package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Unchana19/songsarn-api/internal/oms/entity"
	"github.com/Unchana19/songsarn-api/internal/oms/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReconcileService compares exploded demand against the stock ledger and
// keeps the open requisitions in line with the live shortage. Both entry
// points run on the caller's transaction handle so a failed order transition
// rolls the requisition and ledger writes back with it.
type ReconcileService struct {
	explosion       *ExplosionService
	materialRepo    *repository.MaterialRepository
	requisitionRepo *repository.RequisitionRepository
}

func NewReconcileService(explosion *ExplosionService, materialRepo *repository.MaterialRepository, requisitionRepo *repository.RequisitionRepository) *ReconcileService {
	return &ReconcileService{
		explosion:       explosion,
		materialRepo:    materialRepo,
		requisitionRepo: requisitionRepo,
	}
}

// Shortage one shortage detected during reconciliation
type Shortage struct {
	MaterialID   string  `json:"material_id"`
	MaterialName string  `json:"material_name"`
	Needed       float64 `json:"needed"`
	Available    float64 `json:"available"`
	Shortage     float64 `json:"shortage"`
}

// Reconcile recomputes the aggregate demand of all PAID orders, and for each
// material short of stock creates an open requisition or merges the shortage
// additively into the existing one, refreshing its timestamp. The additive
// merge compounds what earlier passes already asked for; the next pass
// recomputes from live demand, so a stale figure heals itself.
func (s *ReconcileService) Reconcile(ctx context.Context, tx *gorm.DB) ([]Shortage, error) {
	needs, err := s.explosion.ExplodePaidAggregate(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("explode paid demand: %w", err)
	}

	now := time.Now()
	var shortages []Shortage
	for _, need := range needs {
		var mat entity.Material
		if err := tx.WithContext(ctx).Where("id = ?", need.MaterialID).First(&mat).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("material %s: %w", need.MaterialID, ErrBOMIntegrity)
			}
			return nil, err
		}

		shortage := need.Quantity - mat.Quantity
		if shortage <= 0 {
			continue
		}

		existing, err := s.requisitionRepo.FindByMaterial(ctx, tx, need.MaterialID)
		switch {
		case err == nil:
			if err := s.requisitionRepo.SetQuantityByMaterial(ctx, tx, need.MaterialID, existing.Quantity+shortage, now); err != nil {
				return nil, fmt.Errorf("merge requisition for %s: %w", need.MaterialID, err)
			}
		case errors.Is(err, repository.ErrNotFound):
			req := &entity.MaterialRequisition{
				ID:             uuid.New().String(),
				MaterialID:     need.MaterialID,
				Quantity:       shortage,
				CreateDateTime: now,
			}
			if err := s.requisitionRepo.Create(ctx, tx, req); err != nil {
				return nil, fmt.Errorf("create requisition for %s: %w", need.MaterialID, err)
			}
		default:
			return nil, err
		}

		shortages = append(shortages, Shortage{
			MaterialID:   need.MaterialID,
			MaterialName: need.Name,
			Needed:       need.Quantity,
			Available:    mat.Quantity,
			Shortage:     shortage,
		})
	}
	return shortages, nil
}

// Deduct recomputes the usage of one specific order and debits the stock
// ledger by it, clamped at zero per material. Invoked exactly once per
// PROCESSING transition.
func (s *ReconcileService) Deduct(ctx context.Context, tx *gorm.DB, cpoID string) ([]MaterialNeed, error) {
	needs, err := s.explosion.ExplodeOrder(ctx, tx, cpoID)
	if err != nil {
		return nil, fmt.Errorf("explode order %s: %w", cpoID, err)
	}
	for _, need := range needs {
		if err := s.materialRepo.Debit(ctx, tx, need.MaterialID, need.Quantity); err != nil {
			return nil, fmt.Errorf("deduct material %s: %w", need.MaterialID, err)
		}
	}
	return needs, nil
}
