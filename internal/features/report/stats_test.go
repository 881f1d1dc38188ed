package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatsEmptyCollection(t *testing.T) {
	stats := computeStatsAt(nil, time.Now())

	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.ResolutionRate, "no division-by-zero on an empty collection")
}

func TestStatsCountsByStatusAndPriority(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	old := now.AddDate(0, -1, 0)

	records := []ReportRecord{
		{Status: "Resolved", Priority: "Low", DateSubmitted: old},
		{Status: "Resolved", Priority: "Critical", DateSubmitted: old},
		{Status: "In Progress", Priority: "High", DateSubmitted: old},
		{Status: "Pending", Priority: "Critical", DateSubmitted: old},
		{Status: "Rejected", Priority: "Medium", DateSubmitted: old},
	}

	stats := computeStatsAt(records, now)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.Resolved)
	assert.Equal(t, 1, stats.InProgress)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 2, stats.Critical)
	assert.Equal(t, 40, stats.ResolutionRate)
}

func TestStatsResolutionRateRounds(t *testing.T) {
	now := time.Now()
	records := []ReportRecord{
		{Status: "Resolved", DateSubmitted: now},
		{Status: "Pending", DateSubmitted: now},
		{Status: "Pending", DateSubmitted: now},
	}

	stats := computeStatsAt(records, now)
	assert.Equal(t, 33, stats.ResolutionRate)
}

func TestStatsTimeWindows(t *testing.T) {
	now := time.Date(2024, 6, 15, 23, 0, 0, 0, time.UTC)

	records := []ReportRecord{
		{DateSubmitted: time.Date(2024, 6, 15, 0, 30, 0, 0, time.UTC)},  // today
		{DateSubmitted: time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)},  // this week
		{DateSubmitted: time.Date(2024, 6, 8, 23, 30, 0, 0, time.UTC)},  // exactly 7 days ago, inclusive
		{DateSubmitted: time.Date(2024, 6, 8, 22, 0, 0, 0, time.UTC)},   // just outside the window
		{DateSubmitted: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},   // old
	}

	stats := computeStatsAt(records, now)

	assert.Equal(t, 1, stats.Today)
	assert.Equal(t, 3, stats.ThisWeek)
}
