package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories OMS repository set
type Repositories struct {
	Material    *MaterialRepository
	BOM         *BOMRepository
	CPO         *CPORepository
	History     *HistoryRepository
	Requisition *RequisitionRepository
	MPO         *MPORepository
	Transaction *TransactionRepository
}

// NewRepositories creates the repository set on one shared connection pool
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Material:    NewMaterialRepository(db),
		BOM:         NewBOMRepository(db),
		CPO:         NewCPORepository(db),
		History:     NewHistoryRepository(db),
		Requisition: NewRequisitionRepository(db),
		MPO:         NewMPORepository(db),
		Transaction: NewTransactionRepository(db),
	}
}
