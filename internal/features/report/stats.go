package report

import (
	"math"
	"time"
)

// Stats is the derived read-only view over the full collection. It is
// recomputed whenever the collection changes and served as a snapshot;
// nothing rescans per read.
type Stats struct {
	Total          int `json:"total"`
	Resolved       int `json:"resolved"`
	InProgress     int `json:"in_progress"`
	Pending        int `json:"pending"`
	Critical       int `json:"critical"`
	Today          int `json:"today"`
	ThisWeek       int `json:"this_week"`
	ResolutionRate int `json:"resolution_rate"` // percent, 0 when no reports
}

// Stats returns the current statistics snapshot.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func computeStats(records []ReportRecord) Stats {
	return computeStatsAt(records, time.Now())
}

func computeStatsAt(records []ReportRecord, now time.Time) Stats {
	stats := Stats{Total: len(records)}

	today := now.Format("2006-01-02")
	weekAgo := now.AddDate(0, 0, -7)

	for _, r := range records {
		switch r.Status {
		case "Resolved":
			stats.Resolved++
		case "In Progress":
			stats.InProgress++
		case "Pending":
			stats.Pending++
		}
		if r.Priority == "Critical" {
			stats.Critical++
		}
		if r.DateSubmitted.Format("2006-01-02") == today {
			stats.Today++
		}
		if !r.DateSubmitted.Before(weekAgo) {
			stats.ThisWeek++
		}
	}

	if stats.Total > 0 {
		stats.ResolutionRate = int(math.Round(float64(stats.Resolved) / float64(stats.Total) * 100))
	}

	return stats
}
