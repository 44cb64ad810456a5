package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/comitanigiacomo/kanso-analytics/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-analytics/internal/core/domain"
)

// maxParallelHabits caps concurrent history loads per request.
const maxParallelHabits = 8

// StatsService summarizes every tracked habit of a user.
type StatsService struct {
	habitRepo domain.HabitRepository
	entryRepo domain.HabitEntryRepository
	engine    *analytics.Engine
}

func NewStatsService(habitRepo domain.HabitRepository, entryRepo domain.HabitEntryRepository, engine *analytics.Engine) *StatsService {
	if engine == nil {
		engine = analytics.NewEngine(nil)
	}
	return &StatsService{
		habitRepo: habitRepo,
		entryRepo: entryRepo,
		engine:    engine,
	}
}

// Snapshots builds one snapshot per active habit, in the order the
// repository lists them.
func (s *StatsService) Snapshots(ctx context.Context, userID string, periodDays int) ([]domain.AnalyticsSnapshot, error) {
	if periodDays < 0 {
		return nil, fmt.Errorf("%w: %d days", domain.ErrNegativePeriod, periodDays)
	}

	habits, err := s.habitRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	habits = analytics.TrackedHabits(habits)

	snapshots := make([]domain.AnalyticsSnapshot, len(habits))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelHabits)

	for i, h := range habits {
		i, h := i, h
		g.Go(func() error {
			entries, err := s.entryRepo.ListByHabitID(gctx, h.ID)
			if err != nil {
				return fmt.Errorf("loading entries of habit %s: %w", h.ID, err)
			}

			snap, err := s.engine.Snapshot(h, domain.CompletionDates(entries), periodDays)
			if err != nil {
				return err
			}
			snapshots[i] = snap
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return snapshots, nil
}

func (s *StatsService) Overview(ctx context.Context, userID string, periodDays int) (*domain.StatsOverview, error) {
	snapshots, err := s.Snapshots(ctx, userID, periodDays)
	if err != nil {
		return nil, err
	}

	rankings, err := analytics.RankBy(snapshots, domain.RankByCompletionRate, true)
	if err != nil {
		return nil, err
	}

	return &domain.StatsOverview{
		Summary:         analytics.Summarize(snapshots),
		Rankings:        rankings,
		Insights:        analytics.Insights(snapshots),
		Recommendations: analytics.Recommendations(snapshots),
	}, nil
}

func (s *StatsService) Rank(ctx context.Context, userID string, metric domain.RankMetric, descending bool, periodDays int) ([]domain.AnalyticsSnapshot, error) {
	if err := metric.Validate(); err != nil {
		return nil, err
	}

	snapshots, err := s.Snapshots(ctx, userID, periodDays)
	if err != nil {
		return nil, err
	}

	return analytics.RankBy(snapshots, metric, descending)
}
