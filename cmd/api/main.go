// @title Kanso Analytics API
// @version 1.0
// @description Habit tracking with streak, trend and persistence analytics.
// @BasePath /
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	_ "github.com/comitanigiacomo/kanso-analytics/docs"
	"github.com/comitanigiacomo/kanso-analytics/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/kanso-analytics/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-analytics/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-analytics/internal/config"
	"github.com/comitanigiacomo/kanso-analytics/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-analytics/internal/core/domain"
	"github.com/comitanigiacomo/kanso-analytics/internal/core/services"
	"github.com/comitanigiacomo/kanso-analytics/internal/core/workers"
)

type app struct {
	handler http.Handler
	worker  *workers.StreakWorker
}

// newApp wires repositories, services and handlers. rdb may be nil, which
// disables both the habit cache and rate limiting.
func newApp(cfg config.Config, db *sqlx.DB, rdb *redis.Client, engine *analytics.Engine) *app {
	var habitRepo domain.HabitRepository = repository.NewPostgresHabitRepository(db)
	if rdb != nil {
		habitRepo = repository.NewCachedHabitRepository(habitRepo, rdb, 0)
	}
	entryRepo := repository.NewPostgresEntryRepository(db)

	worker := workers.NewStreakWorker(habitRepo, entryRepo, engine)

	habitService := services.NewHabitService(habitRepo)
	entryService := services.NewEntryService(entryRepo, habitRepo, worker, engine)
	analyticsService := services.NewAnalyticsService(habitRepo, entryRepo, engine)
	statsService := services.NewStatsService(habitRepo, entryRepo, engine)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		HabitHandler: adapterHTTP.NewHabitHandler(habitService),
		EntryHandler: adapterHTTP.NewEntryHandler(entryService),
		AnalyticsHandler: adapterHTTP.NewAnalyticsHandler(analyticsService, adapterHTTP.AnalysisDefaults{
			PeriodDays: cfg.Analysis.PeriodDays,
			TrendWeeks: cfg.Analysis.TrendWeeks,
		}),
		StatsHandler: adapterHTTP.NewStatsHandler(statsService, cfg.Analysis.PeriodDays),
		DB:           db,
		Redis:        rdb,
		RateLimit:    cfg.RateLimit,
		StartTime:    time.Now(),
	})

	return &app{handler: router, worker: worker}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Critical: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Println("Connecting to database...")
	db, err := repository.ConnectPostgres(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Critical: %v", err)
	}
	defer db.Close()

	if err := repository.Migrate(ctx, db); err != nil {
		log.Fatalf("Critical: %v", err)
	}
	log.Println("Database connected successfully.")

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = cache.Connect(ctx, cache.Options{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Printf("[CACHE] Redis unavailable, running without cache and rate limiting: %v", err)
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	a := newApp(cfg, db, rdb, analytics.NewEngine(analytics.SystemClock))

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()
	a.worker.Start(workerCtx)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      a.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Kanso Analytics running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Stop signal received. Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown error: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
