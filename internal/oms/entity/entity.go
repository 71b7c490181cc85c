package entity

import "gorm.io/gorm"

// AutoMigrate migrates all OMS tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// catalog / BOM
		&Material{},
		&Component{},
		&BOMComponent{},
		&Product{},
		&BOMProduct{},

		// customer orders
		&CustomerPurchaseOrder{},
		&OrderLine{},
		&History{},

		// purchasing
		&MaterialRequisition{},
		&MaterialPurchaseOrder{},
		&MPOOrderLine{},

		// finance
		&Transaction{},
	)
}
