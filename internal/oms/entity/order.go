package entity

import (
	"time"
)

// CPOStatus customer purchase order lifecycle
const (
	CPOStatusNew             = "NEW"
	CPOStatusPaid            = "PAID"
	CPOStatusProcessing      = "PROCESSING"
	CPOStatusFinishedProcess = "FINISHED_PROCESS"
	CPOStatusOnDelivery      = "ON_DELIVERY"
	CPOStatusCompleted       = "COMPLETED"
	CPOStatusCancelled       = "CANCELLED"
)

// CustomerPurchaseOrder customer order header. Status and the timestamp
// fields change only through OrderService transitions; EstDeliveryDate is
// formatted once at checkout and never recomputed.
type CustomerPurchaseOrder struct {
	ID                string     `json:"id" gorm:"primaryKey;size:64"`
	UserID            string     `json:"user_id" gorm:"size:64;not null;index"`
	Status            string     `json:"status" gorm:"size:20;not null;default:NEW"`
	DeliveryPrice     float64    `json:"delivery_price" gorm:"type:decimal(12,2);not null;default:0"`
	TotalPrice        float64    `json:"total_price" gorm:"type:decimal(12,2);not null;default:0"`
	Address           string     `json:"address" gorm:"size:500"`
	PhoneNumber       string     `json:"phone_number" gorm:"size:20"`
	PaymentMethod     string     `json:"payment_method" gorm:"size:20"`
	EstDeliveryDate   string     `json:"est_delivery_date" gorm:"size:64"`
	PaidDateTime      *time.Time `json:"paid_date_time"`
	DeliveredDateTime *time.Time `json:"delivered_date_time"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	OrderLines []OrderLine `json:"order_lines,omitempty" gorm:"foreignKey:OrderID"`
}

func (CustomerPurchaseOrder) TableName() string {
	return "customer_purchase_orders"
}

// OrderLine ordered product line item
type OrderLine struct {
	ID        string  `json:"id" gorm:"primaryKey;size:64"`
	OrderID   string  `json:"order_id" gorm:"size:64;not null;index"`
	ProductID string  `json:"product_id" gorm:"size:64;not null;index"`
	Quantity  float64 `json:"quantity" gorm:"type:decimal(12,4);not null"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (OrderLine) TableName() string {
	return "order_lines"
}

// History append-only status timeline. The most recent row per CPO must
// always agree with the CPO row's status; every transition writes both in
// the same transaction.
type History struct {
	ID       string    `json:"id" gorm:"primaryKey;size:64"`
	CPOID    string    `json:"cpo_id" gorm:"size:64;not null;index"`
	Status   string    `json:"status" gorm:"size:20;not null"`
	DateTime time.Time `json:"date_time" gorm:"not null;index"`
}

func (History) TableName() string {
	return "history"
}
