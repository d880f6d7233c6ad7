package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	assert.Equal(t, "45 мин", Duration(45))
	assert.Equal(t, "1 ч 0 мин", Duration(60))
	assert.Equal(t, "5 ч 30 мин", Duration(330))
}

func TestDate(t *testing.T) {
	d := time.Date(2025, time.September, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2 сентября 2025", Date(d))
}

func TestDateTimeConvertsToDisplayZone(t *testing.T) {
	// 09:05 UTC is 14:05 at UTC+5.
	assert.Equal(t, "2 сентября 2025 в 14:05", DateTime("2025-09-02T09:05:00Z"))
}

func TestDateTimeKeepsUnparsableInput(t *testing.T) {
	assert.Equal(t, "not-a-date", DateTime("not-a-date"))
}

func TestDateRange(t *testing.T) {
	sep15 := time.Date(2025, time.September, 15, 0, 0, 0, 0, time.UTC)
	sep30 := time.Date(2025, time.September, 30, 0, 0, 0, 0, time.UTC)
	oct5 := time.Date(2025, time.October, 5, 0, 0, 0, 0, time.UTC)
	jan10 := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "с 15 по 30 сентября 2025", DateRange(sep15, sep30))
	assert.Equal(t, "с 15 сентября по 5 октября 2025", DateRange(sep15, oct5))
	assert.Equal(t, "с 15 сентября 2025 по 10 января 2026", DateRange(sep15, jan10))
}
