package service

import (
	"errors"
	"time"

	"github.com/Unchana19/songsarn-api/internal/oms/repository"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Sentinel errors the handler layer maps onto response codes.
var (
	// ErrBOMIntegrity a BOM edge references a material or component that
	// does not exist; the explosion aborts rather than under-count demand.
	ErrBOMIntegrity = errors.New("bom integrity violation")
	// ErrNotPaid production may only start on a PAID order
	ErrNotPaid = errors.New("order is not paid")
	// ErrInvalidStatus the requested transition is not allowed from the
	// order's current status
	ErrInvalidStatus = errors.New("invalid status")
	// ErrAlreadyExists unique constraint collision on master data
	ErrAlreadyExists = errors.New("already exists")
	// ErrEmptyItems an order must carry at least one line
	ErrEmptyItems = errors.New("order has no items")
	// ErrMaterialReferenced material still used by a BOM edge
	ErrMaterialReferenced = errors.New("material is referenced by a BOM")
)

// Services aggregated service layer
type Services struct {
	Material    *MaterialService
	Order       *OrderService
	Requisition *RequisitionService
	MPO         *MPOService
	Dashboard   *DashboardService
}

func NewServices(repos *repository.Repositories, rdb *redis.Client, db *gorm.DB, orderTTL time.Duration) *Services {
	explosion := NewExplosionService(repos.BOM)
	reconciler := NewReconcileService(explosion, repos.Material, repos.Requisition)

	return &Services{
		Material:    NewMaterialService(repos.Material),
		Order:       NewOrderService(repos.CPO, repos.History, repos.Transaction, reconciler, orderTTL, db),
		Requisition: NewRequisitionService(repos.Requisition, repos.Material, db),
		MPO:         NewMPOService(repos.MPO, repos.Material, repos.Requisition, repos.Transaction, db),
		Dashboard:   NewDashboardService(repos.CPO, repos.Requisition, repos.Material, repos.History, rdb),
	}
}
