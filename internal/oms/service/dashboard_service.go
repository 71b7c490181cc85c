package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Unchana19/songsarn-api/internal/oms/entity"
	"github.com/Unchana19/songsarn-api/internal/oms/repository"
	"github.com/redis/go-redis/v9"
)

const (
	dashboardCacheKey = "oms:dashboard:summary"
	dashboardCacheTTL = 60 * time.Second
)

// DashboardService aggregated counters for the manager screen, cached in
// redis for a minute. A nil redis client disables the cache, every call then
// hits the database.
type DashboardService struct {
	cpoRepo         *repository.CPORepository
	requisitionRepo *repository.RequisitionRepository
	materialRepo    *repository.MaterialRepository
	historyRepo     *repository.HistoryRepository
	rdb             *redis.Client
}

func NewDashboardService(
	cpoRepo *repository.CPORepository,
	requisitionRepo *repository.RequisitionRepository,
	materialRepo *repository.MaterialRepository,
	historyRepo *repository.HistoryRepository,
	rdb *redis.Client,
) *DashboardService {
	return &DashboardService{
		cpoRepo:         cpoRepo,
		requisitionRepo: requisitionRepo,
		materialRepo:    materialRepo,
		historyRepo:     historyRepo,
		rdb:             rdb,
	}
}

// DashboardSummary counters shown on the manager landing page
type DashboardSummary struct {
	OrdersByStatus   map[string]int64  `json:"orders_by_status"`
	OpenRequisitions int64             `json:"open_requisitions"`
	LowStock         []entity.Material `json:"low_stock"`
	GeneratedAt      time.Time         `json:"generated_at"`
}

func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, dashboardCacheKey).Bytes(); err == nil {
			var cached DashboardSummary
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	byStatus, err := s.cpoRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	openReqs, err := s.requisitionRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count requisitions: %w", err)
	}
	lowStock, err := s.materialRepo.FindLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}

	summary := &DashboardSummary{
		OrdersByStatus:   byStatus,
		OpenRequisitions: openReqs,
		LowStock:         lowStock,
		GeneratedAt:      time.Now(),
	}
	if s.rdb != nil {
		if raw, err := json.Marshal(summary); err == nil {
			s.rdb.Set(ctx, dashboardCacheKey, raw, dashboardCacheTTL)
		}
	}
	return summary, nil
}

// ActivityFeed recent status transitions and purchase order events, newest
// first, capped at limit.
func (s *DashboardService) ActivityFeed(ctx context.Context, limit int) ([]repository.ActivityEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.historyRepo.FindActivityFeed(ctx, limit)
}
