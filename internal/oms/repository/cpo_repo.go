package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Unchana19/songsarn-api/internal/oms/entity"
	"gorm.io/gorm"
)

// CPORepository customer purchase order repository
type CPORepository struct {
	db *gorm.DB
}

func NewCPORepository(db *gorm.DB) *CPORepository {
	return &CPORepository{db: db}
}

func (r *CPORepository) FindByID(ctx context.Context, tx *gorm.DB, id string) (*entity.CustomerPurchaseOrder, error) {
	var cpo entity.CustomerPurchaseOrder
	err := tx.WithContext(ctx).
		Preload("OrderLines.Product").
		Where("id = ?", id).
		First(&cpo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cpo, nil
}

// CPOSummary list row for the customer order screen
type CPOSummary struct {
	ID           string     `json:"id"`
	Status       string     `json:"status"`
	TotalPrice   float64    `json:"total_price"`
	Quantity     float64    `json:"quantity"`
	PaidDateTime *time.Time `json:"paid_date_time"`
	OrderedAt    *time.Time `json:"ordered_at"`
}

// FindAllByUser orders of one customer, newest first by their NEW history row
func (r *CPORepository) FindAllByUser(ctx context.Context, userID string) ([]CPOSummary, error) {
	var rows []CPOSummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			cpo.id,
			cpo.status,
			cpo.total_price,
			cpo.paid_date_time,
			COALESCE(SUM(ol.quantity), 0) AS quantity,
			h.date_time AS ordered_at
		FROM customer_purchase_orders cpo
		LEFT JOIN order_lines ol ON cpo.id = ol.order_id
		LEFT JOIN history h ON cpo.id = h.cpo_id AND h.status = 'NEW'
		WHERE cpo.user_id = ?
		GROUP BY cpo.id, cpo.status, cpo.total_price, cpo.paid_date_time, h.date_time
		ORDER BY h.date_time DESC
	`, userID).Scan(&rows).Error
	return rows, err
}

// FindAll all orders for the manager view, newest first
func (r *CPORepository) FindAll(ctx context.Context) ([]entity.CustomerPurchaseOrder, error) {
	var orders []entity.CustomerPurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("OrderLines").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// FindExpiredNew ids of orders still NEW whose latest NEW history row is
// older than the cutoff. Orders that moved past NEW never match.
func (r *CPORepository) FindExpiredNew(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]string, error) {
	var ids []string
	err := tx.WithContext(ctx).Raw(`
		SELECT cpo.id
		FROM customer_purchase_orders cpo
		JOIN (
			SELECT cpo_id, MAX(date_time) AS new_at
			FROM history
			WHERE status = 'NEW'
			GROUP BY cpo_id
		) h ON h.cpo_id = cpo.id
		WHERE cpo.status = 'NEW' AND h.new_at < ?
	`, cutoff).Scan(&ids).Error
	return ids, err
}

// DeleteCartLines discards a customer's stale cart line items. Cart lines
// share the order_lines table keyed by the user id until checkout adopts
// them into a real order.
func (r *CPORepository) DeleteCartLines(ctx context.Context, tx *gorm.DB, userID string) error {
	return tx.WithContext(ctx).
		Where("order_id = ?", userID).
		Delete(&entity.OrderLine{}).Error
}

// CountByStatus order counts per status for the dashboard
func (r *CPORepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&entity.CustomerPurchaseOrder{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}
