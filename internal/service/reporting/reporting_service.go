// Package reporting computes the dashboard figures over the coordinator's
// collections: today's takings, pending credits and profit totals.
package reporting

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/lmendez/inventario/internal/domain/models"
	"github.com/lmendez/inventario/internal/repository/mongodb"
	"github.com/lmendez/inventario/internal/service/coordinator"
)

// lowStockThreshold marks a product as running low on the dashboard.
const lowStockThreshold = 5

// ErrNoRepository is returned by SnapshotDaily when no summary store was
// configured.
var ErrNoRepository = errors.New("no summary repository configured")

// Service computes summaries and persists the daily snapshot.
type Service struct {
	coord  *coordinator.Coordinator
	repo   mongodb.Repository
	logger *zap.Logger
}

// NewService builds the reporting service. repo may be nil, which disables
// daily snapshots.
func NewService(coord *coordinator.Coordinator, repo mongodb.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{coord: coord, repo: repo, logger: logger}
}

// Summary aggregates the dashboard figures as of now. Only paid sales count
// toward the day's takings and the overall profit; unsettled credits are
// tracked separately.
func (s *Service) Summary(now time.Time) models.DailySummary {
	products := s.coord.Products()
	sales := s.coord.Sales()

	summary := models.DailySummary{
		Date:          now,
		TotalProducts: len(products),
		CreatedAt:     time.Now().UTC(),
	}

	for _, p := range products {
		if p.Stock <= lowStockThreshold {
			summary.LowStockProducts++
		}
	}

	for _, sale := range sales {
		if sale.PaymentMethod == models.PaymentCredit {
			if sale.IsPaid {
				summary.PaidCreditTotal += sale.Total
			} else {
				summary.PendingCredits++
				summary.PendingCreditTotal += sale.Total
			}
		}

		if !sale.IsPaid {
			continue
		}

		summary.TotalProfit += sale.Profit
		if sameDay(sale.Date, now) {
			summary.TodayTotal += sale.Total
			summary.TodayProfit += sale.Profit
		}
	}

	return summary
}

// SnapshotDaily persists the current summary to the summary store.
func (s *Service) SnapshotDaily(ctx context.Context) error {
	if s.repo == nil {
		return ErrNoRepository
	}

	summary := s.Summary(time.Now())
	if err := s.repo.SaveDailySummary(ctx, summary); err != nil {
		return err
	}

	s.logger.Info("daily summary saved",
		zap.Time("date", summary.Date),
		zap.Float64("today_total", summary.TodayTotal),
		zap.Int("pending_credits", summary.PendingCredits))
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
