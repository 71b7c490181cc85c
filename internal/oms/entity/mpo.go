package entity

import (
	"time"
)

// MPOStatus material purchase order lifecycle
const (
	MPOStatusNew       = "NEW"
	MPOStatusReceived  = "RECEIVED"
	MPOStatusCancelled = "CANCELLED"
)

// MaterialPurchaseOrder supplier order raised against open requisitions.
// TotalPrice is always recomputed as the sum of line prices, never edited
// directly.
type MaterialPurchaseOrder struct {
	ID              string     `json:"id" gorm:"primaryKey;size:64"`
	Supplier        string     `json:"supplier" gorm:"size:128;not null"`
	Status          string     `json:"status" gorm:"size:20;not null;default:NEW"`
	TotalPrice      float64    `json:"total_price" gorm:"type:decimal(12,2);not null;default:0"`
	CreateDateTime  time.Time  `json:"create_date_time" gorm:"not null"`
	ReceiveDateTime *time.Time `json:"receive_date_time"`
	CancelDateTime  *time.Time `json:"cancel_date_time"`

	OrderLines []MPOOrderLine `json:"order_lines,omitempty" gorm:"foreignKey:MPOID"`
}

func (MaterialPurchaseOrder) TableName() string {
	return "material_purchase_orders"
}

// MPOOrderLine supplier order line. Price is the line total set by the buyer
// after quotation; zero until then.
type MPOOrderLine struct {
	ID         string  `json:"id" gorm:"primaryKey;size:64"`
	MPOID      string  `json:"mpo_id" gorm:"size:64;not null;index"`
	MaterialID string  `json:"material_id" gorm:"size:64;not null;index"`
	Quantity   float64 `json:"quantity" gorm:"type:decimal(12,4);not null"`
	Price      float64 `json:"price" gorm:"type:decimal(12,2);not null;default:0"`

	Material *Material `json:"material,omitempty" gorm:"foreignKey:MaterialID"`
}

func (MPOOrderLine) TableName() string {
	return "mpo_order_lines"
}

// Transaction financial record tied to a CPO payment or an MPO. One row per
// order; MPO transactions start at zero and track the synced total.
type Transaction struct {
	ID             string    `json:"id" gorm:"primaryKey;size:64"`
	POID           string    `json:"po_id" gorm:"size:64;not null;uniqueIndex"`
	Amount         float64   `json:"amount" gorm:"type:decimal(12,2);not null;default:0"`
	PaymentMethod  string    `json:"payment_method" gorm:"size:20"`
	CreateDateTime time.Time `json:"create_date_time" gorm:"not null"`
}

func (Transaction) TableName() string {
	return "transactions"
}
