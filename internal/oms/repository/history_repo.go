package repository

import (
	"context"
	"time"

	"github.com/Unchana19/songsarn-api/internal/oms/entity"
	"gorm.io/gorm"
)

// HistoryRepository append-only status timeline repository
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Create(ctx context.Context, tx *gorm.DB, h *entity.History) error {
	return tx.WithContext(ctx).Create(h).Error
}

// FindByCPO timeline of one order, newest first
func (r *HistoryRepository) FindByCPO(ctx context.Context, cpoID string) ([]entity.History, error) {
	var rows []entity.History
	err := r.db.WithContext(ctx).
		Where("cpo_id = ?", cpoID).
		Order("date_time DESC").
		Find(&rows).Error
	return rows, err
}

// ActivityEntry one row of the combined CPO/MPO activity feed
type ActivityEntry struct {
	ID       string    `json:"id"`
	POID     string    `json:"po_id"`
	Status   string    `json:"status"`
	DateTime time.Time `json:"date_time"`
	Type     string    `json:"type"`
}

// FindActivityFeed combined order history plus MPO lifecycle timestamps
// projected as history rows, newest first.
func (r *HistoryRepository) FindActivityFeed(ctx context.Context, limit int) ([]ActivityEntry, error) {
	var rows []ActivityEntry
	err := r.db.WithContext(ctx).Raw(`
		(
			SELECT h.id, h.cpo_id AS po_id, h.status, h.date_time, 'CPO' AS type
			FROM history h
		)
		UNION ALL
		(
			SELECT m.id, m.id AS po_id, 'NEW' AS status, m.create_date_time AS date_time, 'MPO' AS type
			FROM material_purchase_orders m
			WHERE m.create_date_time IS NOT NULL
		)
		UNION ALL
		(
			SELECT m.id, m.id AS po_id, 'RECEIVED' AS status, m.receive_date_time AS date_time, 'MPO' AS type
			FROM material_purchase_orders m
			WHERE m.receive_date_time IS NOT NULL
		)
		UNION ALL
		(
			SELECT m.id, m.id AS po_id, 'CANCELLED' AS status, m.cancel_date_time AS date_time, 'MPO' AS type
			FROM material_purchase_orders m
			WHERE m.cancel_date_time IS NOT NULL
		)
		ORDER BY date_time DESC
		LIMIT ?
	`, limit).Scan(&rows).Error
	return rows, err
}
