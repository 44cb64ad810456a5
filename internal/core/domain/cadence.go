package domain

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCadence = errors.New("invalid cadence (must be daily or weekly)")
)

// Cadence is the repetition unit of a habit. One period is one calendar day
// for Daily and one Monday-based week for Weekly.
type Cadence int

const (
	CadenceDaily Cadence = iota + 1
	CadenceWeekly
)

func ParseCadence(s string) (Cadence, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return CadenceDaily, nil
	case "weekly":
		return CadenceWeekly, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidCadence, s)
	}
}

func (c Cadence) Validate() error {
	switch c {
	case CadenceDaily, CadenceWeekly:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidCadence, int(c))
	}
}

// PeriodDays is the length of one period in days.
func (c Cadence) PeriodDays() int {
	if c == CadenceWeekly {
		return 7
	}
	return 1
}

func (c Cadence) String() string {
	switch c {
	case CadenceDaily:
		return "daily"
	case CadenceWeekly:
		return "weekly"
	default:
		return "unknown"
	}
}

func (c Cadence) MarshalText() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return []byte(c.String()), nil
}

func (c *Cadence) UnmarshalText(text []byte) error {
	parsed, err := ParseCadence(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Cadence) Value() (driver.Value, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c.String(), nil
}

func (c *Cadence) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return c.UnmarshalText([]byte(v))
	case []byte:
		return c.UnmarshalText(v)
	default:
		return fmt.Errorf("%w: unsupported column type %T", ErrInvalidCadence, src)
	}
}
