package entity

import (
	"time"
)

// Component assembled part of a product. ColorPrimaryUse / ColorPatternUse
// are how much color material one unit of the component consumes when a
// product edge assigns it a primary / pattern color.
type Component struct {
	ID              string    `json:"id" gorm:"primaryKey;size:64"`
	CategoryID      string    `json:"category_id" gorm:"size:64;index"`
	Name            string    `json:"name" gorm:"size:128;not null;uniqueIndex"`
	Price           float64   `json:"price" gorm:"type:decimal(12,2);not null;default:0"`
	ColorPrimaryUse float64   `json:"color_primary_use" gorm:"type:decimal(12,4);not null;default:0"`
	ColorPatternUse float64   `json:"color_pattern_use" gorm:"type:decimal(12,4);not null;default:0"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Materials []BOMComponent `json:"materials,omitempty" gorm:"foreignKey:ComponentID"`
}

func (Component) TableName() string {
	return "components"
}

// BOMComponent component→material edge for non-color materials:
// one component unit consumes Quantity of the material.
type BOMComponent struct {
	ID          string  `json:"id" gorm:"primaryKey;size:64"`
	ComponentID string  `json:"component_id" gorm:"size:64;not null;index"`
	MaterialID  string  `json:"material_id" gorm:"size:64;not null;index"`
	Quantity    float64 `json:"quantity" gorm:"type:decimal(12,4);not null"`

	Material *Material `json:"material,omitempty" gorm:"foreignKey:MaterialID"`
}

func (BOMComponent) TableName() string {
	return "bom_components"
}
