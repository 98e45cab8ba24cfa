package products

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidity(t *testing.T) {
	today := time.Date(2026, time.September, 10, 15, 30, 0, 0, time.UTC)

	date := func(y int, m time.Month, d int) *time.Time {
		v := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &v
	}

	t.Run("no date", func(t *testing.T) {
		status := Validity(nil, today)
		assert.Equal(t, ValidityNone, status.Band)
		assert.Equal(t, "N/A", status.Text)
	})

	t.Run("expired yesterday", func(t *testing.T) {
		status := Validity(date(2026, time.September, 9), today)
		assert.Equal(t, ValidityExpired, status.Band)
		assert.Equal(t, "09/09/2026 (Vencido)", status.Text)
	})

	t.Run("expires today", func(t *testing.T) {
		status := Validity(date(2026, time.September, 10), today)
		assert.Equal(t, ValidityExpiringSoon, status.Band)
		assert.Equal(t, "10/09/2026 (Vence em 0d)", status.Text)
	})

	t.Run("expires on the seventh day", func(t *testing.T) {
		status := Validity(date(2026, time.September, 17), today)
		assert.Equal(t, ValidityExpiringSoon, status.Band)
		assert.Equal(t, "17/09/2026 (Vence em 7d)", status.Text)
	})

	t.Run("beyond the window", func(t *testing.T) {
		status := Validity(date(2026, time.September, 18), today)
		assert.Equal(t, ValidityNormal, status.Band)
		assert.Equal(t, "18/09/2026", status.Text)
	})

	t.Run("daylight saving shift does not shorten the window", func(t *testing.T) {
		// Clocks spring forward on 2026-03-08 in this zone; the wall
		// time span is 71h but the calendar distance is three days.
		loc, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)
		expiry := time.Date(2026, time.March, 10, 0, 0, 0, 0, loc)
		status := Validity(&expiry, time.Date(2026, time.March, 7, 1, 0, 0, 0, loc))
		assert.Equal(t, ValidityExpiringSoon, status.Band)
		assert.Equal(t, "10/03/2026 (Vence em 3d)", status.Text)
	})

	t.Run("time of day is ignored", func(t *testing.T) {
		late := time.Date(2026, time.September, 11, 23, 59, 0, 0, time.UTC)
		status := Validity(&late, today)
		assert.Equal(t, ValidityExpiringSoon, status.Band)
		assert.Equal(t, "11/09/2026 (Vence em 1d)", status.Text)
	})
}
