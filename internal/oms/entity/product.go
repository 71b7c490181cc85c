package entity

import (
	"time"
)

// Product sellable made-to-order item, assembled from components.
type Product struct {
	ID         string    `json:"id" gorm:"primaryKey;size:64"`
	CategoryID string    `json:"category_id" gorm:"size:64;index"`
	Name       string    `json:"name" gorm:"size:128;not null"`
	Price      float64   `json:"price" gorm:"type:decimal(12,2);not null;default:0"`
	Img        string    `json:"img" gorm:"size:512"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Components []BOMProduct `json:"components,omitempty" gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string {
	return "products"
}

// BOMProduct product→component edge. Quantity is component units per product
// unit. PrimaryColorID / PatternColorID select the color materials consumed
// through the component's color-use factors; a product may carry the same
// component in different colors on separate edges. PatternColorID may be nil,
// in which case the pattern factor contributes nothing.
type BOMProduct struct {
	ID             string  `json:"id" gorm:"primaryKey;size:64"`
	ProductID      string  `json:"product_id" gorm:"size:64;not null;index"`
	ComponentID    string  `json:"component_id" gorm:"size:64;not null;index"`
	Quantity       float64 `json:"quantity" gorm:"type:decimal(12,4);not null;default:1"`
	PrimaryColorID *string `json:"primary_color" gorm:"column:primary_color;size:64"`
	PatternColorID *string `json:"pattern_color" gorm:"column:pattern_color;size:64"`

	Component *Component `json:"component,omitempty" gorm:"foreignKey:ComponentID"`
}

func (BOMProduct) TableName() string {
	return "bom_products"
}
