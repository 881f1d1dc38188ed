package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filterRec(id int64, reportType, status, priority string, created time.Time) ReportRecord {
	return ReportRecord{
		ID:        id,
		Type:      reportType,
		Status:    status,
		Priority:  priority,
		CreatedAt: created,
	}
}

func TestApplyFiltersSentinelsDisableCriteria(t *testing.T) {
	records := []ReportRecord{
		filterRec(1, "Road Issues", "Pending", "High", time.Now()),
		filterRec(2, "Utilities", "Resolved", "Low", time.Now()),
	}

	filtered := ApplyFilters(records, DefaultCriteria())
	assert.Len(t, filtered, 2, "all-sentinels pass everything through")
}

func TestApplyFiltersByEachDimension(t *testing.T) {
	records := []ReportRecord{
		filterRec(1, "Road Issues", "Pending", "High", time.Now()),
		filterRec(2, "Utilities", "Resolved", "Low", time.Now()),
		filterRec(3, "Road Issues", "Resolved", "Critical", time.Now()),
	}

	criteria := DefaultCriteria()
	criteria.Type = "Road Issues"
	assert.Len(t, ApplyFilters(records, criteria), 2)

	criteria = DefaultCriteria()
	criteria.Status = "Resolved"
	assert.Len(t, ApplyFilters(records, criteria), 2)

	criteria = DefaultCriteria()
	criteria.Priority = "Critical"
	filtered := ApplyFilters(records, criteria)
	require.Len(t, filtered, 1)
	assert.Equal(t, int64(3), filtered[0].ID)
}

func TestApplyFiltersNormalizesMissingFields(t *testing.T) {
	// A record with empty status behaves as "Pending".
	records := []ReportRecord{filterRec(1, "", "", "", time.Now())}

	criteria := DefaultCriteria()
	criteria.Status = "Pending"
	assert.Len(t, ApplyFilters(records, criteria), 1)

	criteria = DefaultCriteria()
	criteria.Type = "General"
	assert.Len(t, ApplyFilters(records, criteria), 1)

	criteria = DefaultCriteria()
	criteria.Priority = "Medium"
	assert.Len(t, ApplyFilters(records, criteria), 1)
}

func TestApplyFiltersFromDate(t *testing.T) {
	records := []ReportRecord{
		filterRec(1, "General", "Pending", "Medium", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)),
		filterRec(2, "General", "Pending", "Medium", time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)),
	}

	criteria := DefaultCriteria()
	criteria.FromDate = "2024-01-05"

	filtered := ApplyFilters(records, criteria)
	require.Len(t, filtered, 1)
	assert.Equal(t, int64(2), filtered[0].ID)
}

func TestApplyFiltersToDateCoversWholeDay(t *testing.T) {
	records := []ReportRecord{
		filterRec(1, "General", "Pending", "Medium", time.Date(2024, 1, 10, 18, 30, 0, 0, time.UTC)),
		filterRec(2, "General", "Pending", "Medium", time.Date(2024, 1, 11, 0, 30, 0, 0, time.UTC)),
	}

	criteria := DefaultCriteria()
	criteria.ToDate = "2024-01-10"

	filtered := ApplyFilters(records, criteria)
	require.Len(t, filtered, 1)
	assert.Equal(t, int64(1), filtered[0].ID, "upper bound is inclusive of the whole calendar day")
}

func TestApplyFiltersDoesNotMutateInput(t *testing.T) {
	records := []ReportRecord{
		filterRec(1, "Road Issues", "Pending", "High", time.Now()),
		filterRec(2, "Utilities", "Resolved", "Low", time.Now()),
	}

	criteria := DefaultCriteria()
	criteria.Status = "Resolved"
	ApplyFilters(records, criteria)

	assert.Equal(t, int64(1), records[0].ID)
	assert.Len(t, records, 2)
}
