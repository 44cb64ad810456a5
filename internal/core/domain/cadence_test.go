package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-analytics/internal/core/domain"
)

func TestParseCadence(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.Cadence
		wantErr bool
	}{
		{"daily", domain.CadenceDaily, false},
		{" Weekly ", domain.CadenceWeekly, false},
		{"DAILY", domain.CadenceDaily, false},
		{"monthly", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParseCadence(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidCadence)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCadence_PeriodDays(t *testing.T) {
	assert.Equal(t, 1, domain.CadenceDaily.PeriodDays())
	assert.Equal(t, 7, domain.CadenceWeekly.PeriodDays())
}

func TestCadence_JSON(t *testing.T) {
	type payload struct {
		Cadence domain.Cadence `json:"cadence"`
	}

	out, err := json.Marshal(payload{Cadence: domain.CadenceWeekly})
	require.NoError(t, err)
	assert.JSONEq(t, `{"cadence":"weekly"}`, string(out))

	var in payload
	require.NoError(t, json.Unmarshal([]byte(`{"cadence":"daily"}`), &in))
	assert.Equal(t, domain.CadenceDaily, in.Cadence)

	assert.Error(t, json.Unmarshal([]byte(`{"cadence":"hourly"}`), &in))

	_, err = json.Marshal(payload{})
	assert.Error(t, err, "the zero cadence is not a valid value")
}

func TestCadence_SQL(t *testing.T) {
	v, err := domain.CadenceDaily.Value()
	require.NoError(t, err)
	assert.Equal(t, "daily", v)

	var c domain.Cadence
	require.NoError(t, c.Scan([]byte("weekly")))
	assert.Equal(t, domain.CadenceWeekly, c)

	assert.ErrorIs(t, c.Scan(int64(2)), domain.ErrInvalidCadence)
}
