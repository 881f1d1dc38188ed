package report

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"go-cityreport/internal/backend"
	"go-cityreport/internal/config"

	"go.uber.org/zap"
)

// Querier is the slice of the backend adapter the store reads and writes
// through.
type Querier interface {
	Select(ctx context.Context, table string, opts backend.SelectOptions, dest any) (int, error)
	Update(ctx context.Context, table string, filter map[string]string, patch any) error
}

// Feed opens live change-feed subscriptions.
type Feed interface {
	Subscribe(channel string) (*backend.Subscription, error)
}

// EventSink receives every change the store applies, for push to connected
// dashboards.
type EventSink interface {
	Publish(event string, payload any)
}

// PageQuery describes one paginated table load.
type PageQuery struct {
	Page        int
	PerPage     int
	SortBy      string
	SortDir     string // "asc" or "desc"
	SubmitterID string // non-empty scopes rows to one submitter
}

// sortColumns maps sortable display fields to persisted columns. Anything
// else falls back to newest-first.
var sortColumns = map[string]string{
	"id":             "id",
	"type":           "report_type",
	"location":       "location",
	"priority":       "priority",
	"status":         "status",
	"date_submitted": "created_at",
	"created_at":     "created_at",
}

const defaultOrder = "created_at.desc"

// Store owns the client-side view of the reports table: an eagerly-loaded
// full collection, an independently-fetched current page, and derived
// statistics. The two collections are eventually consistent with each other,
// reconciled by the change-feed handlers in feed.go.
//
// Overlapping fetches are deliberately not deduplicated: each completion
// swaps its results in wholesale and the last one wins, mirroring the
// dashboard's observed behavior.
type Store struct {
	client      Querier
	transformer *Transformer
	feed        Feed
	sink        EventSink
	logger      *zap.Logger

	mu          sync.Mutex
	full        []ReportRecord
	page        []ReportRecord
	pageSize    int
	totalCount  int
	loadingFull bool
	loadingPage bool
	lastErr     string
	stats       Stats
	sub         *backend.Subscription
}

func NewStore(client Querier, feed Feed, transformer *Transformer, sink EventSink, cfg *config.Config, logger *zap.Logger) *Store {
	return &Store{
		client:      client,
		transformer: transformer,
		feed:        feed,
		sink:        sink,
		logger:      logger,
		pageSize:    cfg.DefaultPageSize,
	}
}

// FetchAll replaces the full collection with every report, newest first,
// optionally scoped to one submitter. On failure the prior collection is left
// untouched and the error is recorded.
func (s *Store) FetchAll(ctx context.Context, submitterID string) error {
	s.mu.Lock()
	s.loadingFull = true
	s.lastErr = ""
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loadingFull = false
		s.mu.Unlock()
	}()

	opts := backend.SelectOptions{Order: defaultOrder}
	if submitterID != "" {
		opts.Filters = map[string]string{"user_id": "eq." + submitterID}
	}

	var rows []RawReportRow
	if _, err := s.client.Select(ctx, ReportTable, opts, &rows); err != nil {
		msg := fmt.Sprintf("Error fetching reports: %v", err)
		s.mu.Lock()
		s.lastErr = msg
		s.mu.Unlock()
		s.logger.Error("fetch all reports failed", zap.Error(err))
		return fmt.Errorf("%s", msg)
	}

	records := s.transformer.Transform(ctx, rows)

	s.mu.Lock()
	s.full = records
	s.stats = computeStats(s.full)
	s.mu.Unlock()

	return nil
}

// FetchPage replaces the current page and total count from a ranged query
// with an exact row count.
func (s *Store) FetchPage(ctx context.Context, q PageQuery) error {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = s.defaultPageSize()
	}

	s.mu.Lock()
	s.loadingPage = true
	s.lastErr = ""
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loadingPage = false
		s.mu.Unlock()
	}()

	offset := (q.Page - 1) * q.PerPage
	opts := backend.SelectOptions{
		Order: sortOrder(q.SortBy, q.SortDir),
		Range: &backend.RowRange{From: offset, To: offset + q.PerPage - 1},
		Count: true,
	}
	if q.SubmitterID != "" {
		opts.Filters = map[string]string{"user_id": "eq." + q.SubmitterID}
	}

	var rows []RawReportRow
	count, err := s.client.Select(ctx, ReportTable, opts, &rows)
	if err != nil {
		msg := fmt.Sprintf("Error fetching reports: %v", err)
		s.mu.Lock()
		s.lastErr = msg
		s.mu.Unlock()
		s.logger.Error("fetch reports page failed", zap.Error(err))
		return fmt.Errorf("%s", msg)
	}

	records := s.transformer.Transform(ctx, rows)

	s.mu.Lock()
	s.page = records
	s.pageSize = q.PerPage
	if count >= 0 {
		s.totalCount = count
	}
	s.mu.Unlock()

	return nil
}

// UpdateOne issues a partial update for a single report. Local state is never
// patched optimistically; callers refresh through FetchAll/FetchPage (or wait
// for the change feed) to observe the write.
func (s *Store) UpdateOne(ctx context.Context, input UpdateReportInput) error {
	if input.ID <= 0 {
		return fmt.Errorf("report id is required for update")
	}

	patch := map[string]string{}
	if input.ReportType != "" {
		patch["report_type"] = input.ReportType
	}
	if input.Priority != "" {
		patch["priority"] = input.Priority
	}
	if input.Status != "" {
		patch["status"] = input.Status
	}
	if len(patch) == 0 {
		return nil
	}

	filter := map[string]string{"id": "eq." + strconv.FormatInt(input.ID, 10)}
	if err := s.client.Update(ctx, ReportTable, filter, patch); err != nil {
		s.logger.Error("update report failed", zap.Int64("id", input.ID), zap.Error(err))
		return err
	}
	return nil
}

// SubscribeLive opens the change-feed subscription. Idempotent: an existing
// subscription is torn down first so the handle never leaks.
func (s *Store) SubscribeLive() {
	s.mu.Lock()
	if s.sub != nil {
		s.sub.Close()
		s.sub = nil
	}
	s.mu.Unlock()

	sub, err := s.feed.Subscribe(FeedChannel)
	if err != nil {
		s.logger.Error("subscribe to change feed failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.sub = sub
	s.mu.Unlock()

	go func() {
		for event := range sub.Events {
			s.dispatch(event)
		}
	}()

	s.logger.Info("subscribed to report change feed", zap.String("channel", FeedChannel))
}

// UnsubscribeLive tears down the subscription. Safe to call when not
// subscribed.
func (s *Store) UnsubscribeLive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sub != nil {
		s.sub.Close()
		s.sub = nil
	}
}

// Reports returns a copy of the full collection.
func (s *Store) Reports() []ReportRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ReportRecord(nil), s.full...)
}

// Page returns a copy of the current page.
func (s *Store) Page() []ReportRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ReportRecord(nil), s.page...)
}

func (s *Store) TotalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalCount
}

func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Loading reports the in-flight state of the full and paginated fetch paths.
func (s *Store) Loading() (full, page bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadingFull, s.loadingPage
}

// ByStatus selects reports with the given status from the full collection.
func (s *Store) ByStatus(status string) []ReportRecord {
	return s.selectFull(func(r ReportRecord) bool { return r.Status == status })
}

// ByPriority selects reports with the given priority from the full collection.
func (s *Store) ByPriority(priority string) []ReportRecord {
	return s.selectFull(func(r ReportRecord) bool { return r.Priority == priority })
}

// BySubmitter selects reports submitted by the given user from the full
// collection.
func (s *Store) BySubmitter(userID string) []ReportRecord {
	return s.selectFull(func(r ReportRecord) bool { return r.UserID == userID })
}

func (s *Store) selectFull(keep func(ReportRecord) bool) []ReportRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ReportRecord
	for _, r := range s.full {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s *Store) defaultPageSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pageSize > 0 {
		return s.pageSize
	}
	return 10
}

func (s *Store) publish(event string, payload any) {
	if s.sink != nil {
		s.sink.Publish(event, payload)
	}
}

func sortOrder(sortBy, sortDir string) string {
	column, ok := sortColumns[sortBy]
	if !ok {
		return defaultOrder
	}
	dir := "desc"
	if sortDir == "asc" {
		dir = "asc"
	}
	return column + "." + dir
}
