package report

import "time"

// Field defaults applied when a persisted row misses optional columns.
const (
	DefaultType        = "General"
	DefaultDescription = "No description provided"
	DefaultLocation    = "Unknown Location"
	DefaultPriority    = "Medium"
	DefaultStatus      = "Pending"

	// UnknownCitizen is the display-name sentinel when the submitter's
	// profile cannot be resolved.
	UnknownCitizen = "Unknown User"
)

// ReportTable is the backend table holding citizen reports.
const ReportTable = "reports"

// FeedChannel is the notification channel the reports trigger publishes on.
const FeedChannel = "reports_changes"

var (
	TypeOptions = []string{
		"Road Issues",
		"Public Safety",
		"Infrastructure",
		"Environmental",
		"Utilities",
		"Public Transport",
		"General",
	}

	PriorityOptions = []string{"Low", "Medium", "High", "Critical"}

	StatusOptions = []string{"Pending", "In Progress", "Resolved", "Rejected"}
)

// RawReportRow is a report as persisted by the backend. Optional columns may
// be empty and are defaulted during transformation.
type RawReportRow struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	ReportType  string    `json:"report_type"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Latitude    string    `json:"latitude"`
	Longitude   string    `json:"longitude"`
	ImagePath   string    `json:"image_path"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReportRecord is the display-ready report shown on dashboards. DateSubmitted
// always equals CreatedAt; both derive from the same persisted column and are
// kept separate only for call-site clarity.
type ReportRecord struct {
	ID            int64     `json:"id"`
	Citizen       string    `json:"citizen"`
	UserID        string    `json:"user_id"`
	Type          string    `json:"type"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	Latitude      string    `json:"latitude,omitempty"`
	Longitude     string    `json:"longitude,omitempty"`
	ImagePath     string    `json:"image_path,omitempty"`
	Priority      string    `json:"priority"`
	Status        string    `json:"status"`
	DateSubmitted time.Time `json:"date_submitted"`
	CreatedAt     time.Time `json:"created_at"`
}

// UpdateReportInput is the dialog's partial update. Only category, priority
// and status are administrator-editable.
type UpdateReportInput struct {
	ID         int64  `json:"id"`
	ReportType string `json:"report_type"`
	Priority   string `json:"priority"`
	Status     string `json:"status"`
}
