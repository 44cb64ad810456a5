package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/comitanigiacomo/kanso-analytics/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-analytics/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-analytics/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-analytics/internal/core/services"
	"github.com/comitanigiacomo/kanso-analytics/internal/core/workers"
)

// Wednesday 2024-01-17.
var fixedNow = time.Date(2024, 1, 17, 12, 0, 0, 0, time.UTC)

type testServer struct {
	router  *gin.Engine
	habits  *repository.InMemoryHabitRepository
	entries *repository.InMemoryEntryRepository
	worker  *workers.StreakWorker
}

func setupServer() *testServer {
	gin.SetMode(gin.TestMode)

	habitRepo := repository.NewInMemoryHabitRepository()
	entryRepo := repository.NewInMemoryEntryRepository()
	engine := analytics.NewEngine(analytics.FixedClock(fixedNow))
	worker := workers.NewStreakWorker(habitRepo, entryRepo, engine)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		HabitHandler: adapterHTTP.NewHabitHandler(services.NewHabitService(habitRepo)),
		EntryHandler: adapterHTTP.NewEntryHandler(services.NewEntryService(entryRepo, habitRepo, worker, engine)),
		AnalyticsHandler: adapterHTTP.NewAnalyticsHandler(
			services.NewAnalyticsService(habitRepo, entryRepo, engine),
			adapterHTTP.AnalysisDefaults{PeriodDays: 28, TrendWeeks: 4},
		),
		StatsHandler: adapterHTTP.NewStatsHandler(services.NewStatsService(habitRepo, entryRepo, engine), 28),
		StartTime:    fixedNow,
	})

	return &testServer{router: router, habits: habitRepo, entries: entryRepo, worker: worker}
}

// do sends a request as userID; an empty userID omits the identity header.
func (s *testServer) do(method, path, userID string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type habitJSON struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Cadence       string  `json:"cadence"`
	Version       int     `json:"version"`
	ArchivedAt    *string `json:"archived_at"`
	CurrentStreak int     `json:"current_streak"`
}

type entryJSON struct {
	ID             string `json:"id"`
	HabitID        string `json:"habit_id"`
	CompletionDate string `json:"completion_date"`
	Notes          string `json:"notes"`
}

// createHabit posts a habit and fails the test unless it is created.
func (s *testServer) createHabit(t *testing.T, userID, title, cadence string) habitJSON {
	t.Helper()
	w := s.do(http.MethodPost, "/api/v1/habits", userID, map[string]string{"title": title, "cadence": cadence})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[habitJSON](t, w)
}

func (s *testServer) complete(t *testing.T, userID, habitID string, days ...string) {
	t.Helper()
	for _, d := range days {
		w := s.do(http.MethodPost, "/api/v1/entries", userID, map[string]string{"habit_id": habitID, "completion_date": d})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
}
