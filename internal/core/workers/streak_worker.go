package workers

import (
	"context"
	"log"

	"github.com/comitanigiacomo/kanso-analytics/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-analytics/internal/core/domain"
)

const queueSize = 100

type HabitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
	UpdateStreaks(ctx context.Context, id string, current, longest int) error
}

type EntryRepository interface {
	ListByHabitID(ctx context.Context, habitID string) ([]*domain.HabitEntry, error)
}

type StreakJob struct {
	HabitID string
}

// StreakWorker keeps the streak counters stored on each habit in sync with
// its completion history.
type StreakWorker struct {
	habitRepo HabitRepository
	entryRepo EntryRepository
	engine    *analytics.Engine
	jobs      chan StreakJob
}

func NewStreakWorker(hRepo HabitRepository, eRepo EntryRepository, engine *analytics.Engine) *StreakWorker {
	if engine == nil {
		engine = analytics.NewEngine(nil)
	}
	return &StreakWorker{
		habitRepo: hRepo,
		entryRepo: eRepo,
		engine:    engine,
		jobs:      make(chan StreakJob, queueSize),
	}
}

func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		log.Println("[WORKER] Streak worker started")
		for {
			select {
			case job := <-w.jobs:
				if err := w.Recalculate(ctx, job.HabitID); err != nil {
					log.Printf("[WORKER] Streak recalculation failed for %s: %v", job.HabitID, err)
				}
			case <-ctx.Done():
				log.Println("[WORKER] Streak worker shutting down")
				return
			}
		}
	}()
}

// Enqueue never blocks; a full queue drops the job.
func (w *StreakWorker) Enqueue(habitID string) {
	select {
	case w.jobs <- StreakJob{HabitID: habitID}:
	default:
		log.Printf("[WORKER] Queue full, dropping streak job for habit %s", habitID)
	}
}

// Pending is the number of queued jobs.
func (w *StreakWorker) Pending() int {
	return len(w.jobs)
}

// Recalculate recomputes both streaks of a habit and stores them only when
// they changed.
func (w *StreakWorker) Recalculate(ctx context.Context, habitID string) error {
	habit, err := w.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return err
	}

	entries, err := w.entryRepo.ListByHabitID(ctx, habitID)
	if err != nil {
		return err
	}

	dates := domain.CompletionDates(entries)

	current, err := w.engine.CurrentStreak(dates, habit.Cadence)
	if err != nil {
		return err
	}
	longest, err := w.engine.LongestStreak(dates, habit.Cadence)
	if err != nil {
		return err
	}

	if habit.CurrentStreak == current && habit.LongestStreak == longest.Length {
		return nil
	}

	if err := w.habitRepo.UpdateStreaks(ctx, habitID, current, longest.Length); err != nil {
		return err
	}

	log.Printf("[WORKER] Streak updated for %s: current=%d longest=%d", habit.Title, current, longest.Length)
	return nil
}
