package report

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/comitanigiacomo/kanso-analytics/internal/core/domain"
)

var ErrInvalidExport = errors.New("invalid habit export")

// Export is the offline TOML format read by the CLI:
//
//	today = 2024-01-17
//
//	[[habits]]
//	id = "run"
//	title = "Morning run"
//	cadence = "daily"
//	completions = [2024-01-15, 2024-01-16]
type Export struct {
	Today  *toml.LocalDate `toml:"today"`
	Habits []ExportHabit   `toml:"habits"`
}

type ExportHabit struct {
	ID          string           `toml:"id"`
	Title       string           `toml:"title"`
	Cadence     string           `toml:"cadence"`
	Archived    bool             `toml:"archived"`
	Completions []toml.LocalDate `toml:"completions"`
}

func LoadExport(path string) (*Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseExport(data)
}

func ParseExport(data []byte) (*Export, error) {
	var exp Export
	if err := toml.Unmarshal(data, &exp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExport, err)
	}

	seen := make(map[string]bool, len(exp.Habits))
	for i, h := range exp.Habits {
		id := strings.TrimSpace(h.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: habit #%d has no id", ErrInvalidExport, i+1)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate habit id %q", ErrInvalidExport, id)
		}
		seen[id] = true
	}

	return &exp, nil
}

// TodayTime is the export's pinned date as UTC midnight, or the zero time.
func (e *Export) TodayTime() time.Time {
	if e.Today == nil {
		return time.Time{}
	}
	return e.Today.AsTime(time.UTC)
}

// Habit converts the record into the domain habit and its completion dates.
// An empty cadence means daily; an empty title falls back to the id.
func (h ExportHabit) Habit(archivedAt time.Time) (*domain.Habit, []time.Time, error) {
	cadence := domain.CadenceDaily
	if h.Cadence != "" {
		c, err := domain.ParseCadence(h.Cadence)
		if err != nil {
			return nil, nil, fmt.Errorf("habit %q: %w", h.ID, err)
		}
		cadence = c
	}

	title := strings.TrimSpace(h.Title)
	if title == "" {
		title = h.ID
	}

	habit := &domain.Habit{
		ID:      strings.TrimSpace(h.ID),
		Title:   title,
		Cadence: cadence,
	}
	if h.Archived {
		habit.ArchivedAt = &archivedAt
	}

	dates := make([]time.Time, len(h.Completions))
	for i, d := range h.Completions {
		dates[i] = d.AsTime(time.UTC)
	}

	return habit, dates, nil
}
