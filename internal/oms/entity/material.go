package entity

import (
	"time"
)

// MaterialUnit common units of measure
const (
	MaterialUnitPCS = "pcs"
	MaterialUnitKG  = "kg"
	MaterialUnitM   = "m"
	MaterialUnitL   = "liter"
)

// Material raw material ledger row. Quantity is the single authoritative
// on-hand figure and is only mutated through ledger credit/debit operations.
// A material with a non-nil Color is a "color material": it is excluded from
// generic BOM sums and consumed via the component color-use factors instead.
type Material struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	Name      string    `json:"name" gorm:"size:128;not null;uniqueIndex"`
	Unit      string    `json:"unit" gorm:"size:20;not null;default:pcs"`
	Quantity  float64   `json:"quantity" gorm:"type:decimal(12,4);not null;default:0"`
	Threshold float64   `json:"threshold" gorm:"type:decimal(12,4);not null;default:0"`
	Color     *string   `json:"color" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Material) TableName() string {
	return "materials"
}

// MaterialRequisition open shortage record for one material. At most one row
// per material exists at any time; repeated shortages merge additively into
// the existing row and refresh CreateDateTime.
type MaterialRequisition struct {
	ID             string    `json:"id" gorm:"primaryKey;size:64"`
	MaterialID     string    `json:"material_id" gorm:"size:64;not null;uniqueIndex"`
	Quantity       float64   `json:"quantity" gorm:"type:decimal(12,4);not null"`
	CreateDateTime time.Time `json:"create_date_time" gorm:"not null"`

	Material *Material `json:"material,omitempty" gorm:"foreignKey:MaterialID"`
}

func (MaterialRequisition) TableName() string {
	return "material_requisitions"
}
