package report

import (
	"time"
)

// Sentinel criteria values that disable a filter dimension.
const (
	AllTypes      = "All Reports"
	AllStatuses   = "All Status"
	AllPriorities = "All Priorities"
)

// FilterCriteria are the map view's filter selections. Dates use the
// "2006-01-02" form; empty dates disable the range bound.
type FilterCriteria struct {
	Type     string `json:"type"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
	FromDate string `json:"from_date"`
	ToDate   string `json:"to_date"`
}

// DefaultCriteria returns criteria with every dimension disabled.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{
		Type:     AllTypes,
		Status:   AllStatuses,
		Priority: AllPriorities,
	}
}

// ApplyFilters returns the reports matching the criteria. Pure over its
// inputs: records are normalized with display defaults before comparison and
// the input slice is never mutated. The date range is inclusive; the upper
// bound covers the whole calendar day.
func ApplyFilters(records []ReportRecord, criteria FilterCriteria) []ReportRecord {
	fromDate, hasFrom := parseDay(criteria.FromDate)
	toDate, hasTo := parseDay(criteria.ToDate)
	if hasTo {
		// End of day for inclusive comparison.
		toDate = toDate.Add(24*time.Hour - time.Millisecond)
	}

	filtered := make([]ReportRecord, 0, len(records))
	for _, r := range records {
		reportType := defaultString(r.Type, DefaultType)
		status := defaultString(r.Status, DefaultStatus)
		priority := defaultString(r.Priority, DefaultPriority)

		if criteria.Type != "" && criteria.Type != AllTypes && reportType != criteria.Type {
			continue
		}
		if criteria.Status != "" && criteria.Status != AllStatuses && status != criteria.Status {
			continue
		}
		if criteria.Priority != "" && criteria.Priority != AllPriorities && priority != criteria.Priority {
			continue
		}
		if hasFrom && r.CreatedAt.Before(fromDate) {
			continue
		}
		if hasTo && r.CreatedAt.After(toDate) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

func parseDay(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	day, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}
