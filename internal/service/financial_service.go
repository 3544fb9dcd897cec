package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tavola/backoffice/internal/cache"
	"github.com/tavola/backoffice/internal/models"
	"github.com/tavola/backoffice/internal/repository"
	"github.com/tavola/backoffice/pkg/logger"
)

// FinancialService computes dashboard stats and financial summaries.
// Aggregates are cached in Redis; a cache failure falls back to the database.
type FinancialService struct {
	orderRepo *repository.OrderRepository
	convRepo  *repository.ConversationRepository
	cache     cache.Cache
	cacheTTL  time.Duration
	logger    logger.Logger
}

// NewFinancialService creates a new FinancialService
func NewFinancialService(
	orderRepo *repository.OrderRepository,
	convRepo *repository.ConversationRepository,
	cache cache.Cache,
	cacheTTL time.Duration,
	logger logger.Logger,
) *FinancialService {
	return &FinancialService{
		orderRepo: orderRepo,
		convRepo:  convRepo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// GetDashboardStats returns the headline dashboard numbers
func (s *FinancialService) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	cacheKey := s.cache.GenerateKey("dashboard", "stats")

	if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var stats models.DashboardStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return &stats, nil
		}
	}

	startOfDay := startOfToday()

	todayOrders, todayRevenue, err := s.orderRepo.TotalsSince(ctx, startOfDay)

	if err != nil {
		return nil, err
	}

	counts, err := s.orderRepo.CountByStatus(ctx)

	if err != nil {
		return nil, err
	}

	activeConversations, err := s.convRepo.CountActive(ctx)

	if err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{
		TodayOrders:         todayOrders,
		TodayRevenue:        todayRevenue,
		ActiveOrders:        counts[models.OrderStatusNew] + counts[models.OrderStatusPreparing] + counts[models.OrderStatusReady],
		OrdersInProgress:    counts[models.OrderStatusPreparing],
		OrdersReady:         counts[models.OrderStatusReady],
		ActiveConversations: activeConversations,
	}

	s.storeInCache(ctx, cacheKey, stats)

	return stats, nil
}

// GetRevenueSeries returns per-day revenue buckets for the given interval
func (s *FinancialService) GetRevenueSeries(ctx context.Context, start, end time.Time) ([]models.RevenuePoint, error) {
	return s.orderRepo.RevenueByDay(ctx, start, end)
}

// GetSummary aggregates revenue over a reporting period
func (s *FinancialService) GetSummary(ctx context.Context, period string, start, end time.Time) (*models.FinancialSummary, error) {
	cacheKey := s.cache.GenerateKey("financial",
		fmt.Sprintf("%s:%s:%s", period, start.Format("2006-01-02"), end.Format("2006-01-02")))

	if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var summary models.FinancialSummary
		if err := json.Unmarshal([]byte(cached), &summary); err == nil {
			return &summary, nil
		}
	}

	points, err := s.orderRepo.RevenueByDay(ctx, start, end)

	if err != nil {
		return nil, err
	}

	totalOrders, totalRevenue, err := s.totalsBetween(ctx, start, end)

	if err != nil {
		return nil, err
	}

	summary := &models.FinancialSummary{
		Period:       period,
		StartDate:    start,
		EndDate:      end,
		TotalOrders:  totalOrders,
		TotalRevenue: totalRevenue,
		Revenue:      points,
	}

	if totalOrders > 0 {
		summary.AverageOrder = totalRevenue / float64(totalOrders)
	}

	s.storeInCache(ctx, cacheKey, summary)

	return summary, nil
}

// totalsBetween sums the bucketed revenue so totals and chart always agree
func (s *FinancialService) totalsBetween(ctx context.Context, start, end time.Time) (int, float64, error) {
	countSince, revenueSince, err := s.orderRepo.TotalsSince(ctx, start)

	if err != nil {
		return 0, 0, err
	}

	countAfter, revenueAfter, err := s.orderRepo.TotalsSince(ctx, end)

	if err != nil {
		return 0, 0, err
	}

	return countSince - countAfter, revenueSince - revenueAfter, nil
}

func (s *FinancialService) storeInCache(ctx context.Context, key string, value interface{}) {
	payload, err := json.Marshal(value)

	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, key, string(payload), s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache aggregate", "error", err, "key", key)
	}
}

func startOfToday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
