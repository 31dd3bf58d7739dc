package dates_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranwip/pm-backend/internal/dates"
)

func TestWeekWindow(t *testing.T) {
	tests := []struct {
		start   dates.Date
		wantEnd dates.Date
	}{
		{dates.New(2025, 1, 13), dates.New(2025, 1, 19)},
		{dates.New(2025, 12, 29), dates.New(2026, 1, 4)},
		{dates.New(2024, 2, 26), dates.New(2024, 3, 3)},
	}
	for _, tt := range tests {
		start, end := dates.WeekWindow(tt.start)
		if !start.Equal(tt.start.Time) || !end.Equal(tt.wantEnd.Time) {
			t.Errorf("WeekWindow(%s) = %s..%s, want %s..%s", tt.start, start, end, tt.start, tt.wantEnd)
		}
	}
}

func TestParse(t *testing.T) {
	d, err := dates.Parse("2025-01-15")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15", d.String())

	_, err = dates.Parse("15/01/2025")
	assert.Error(t, err)

	opt, err := dates.ParseOptional("  ")
	require.NoError(t, err)
	assert.Nil(t, opt)
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Date dates.Date `json:"date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2025-01-15T18:30:00Z"}`), &payload))
	assert.Equal(t, "2025-01-15", payload.Date.String())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2025-01-15"}`, string(out))
}

func TestDateScan(t *testing.T) {
	var d dates.Date
	require.NoError(t, d.Scan(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-03-09", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
}
