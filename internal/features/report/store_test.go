package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-cityreport/internal/backend"
	"go-cityreport/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeQuerier struct {
	rows       []RawReportRow
	count      int
	err        error
	updateErr  error
	lastTable  string
	lastOpts   backend.SelectOptions
	lastFilter map[string]string
	lastPatch  any
}

func (q *fakeQuerier) Select(ctx context.Context, table string, opts backend.SelectOptions, dest any) (int, error) {
	q.lastTable = table
	q.lastOpts = opts
	if q.err != nil {
		return -1, q.err
	}
	*dest.(*[]RawReportRow) = q.rows
	if opts.Count {
		return q.count, nil
	}
	return -1, nil
}

func (q *fakeQuerier) Update(ctx context.Context, table string, filter map[string]string, patch any) error {
	q.lastTable = table
	q.lastFilter = filter
	q.lastPatch = patch
	return q.updateErr
}

type fakeFeed struct {
	events chan backend.ChangeEvent
	closed int
}

func (f *fakeFeed) Subscribe(channel string) (*backend.Subscription, error) {
	if f.events == nil {
		f.events = make(chan backend.ChangeEvent)
	}
	return backend.NewSubscription(f.events, func() { f.closed++ }), nil
}

type fakeSink struct {
	events []string
}

func (s *fakeSink) Publish(event string, payload any) {
	s.events = append(s.events, event)
}

func newTestStore(q *fakeQuerier) (*Store, *fakeSink) {
	dir := &fakeDirectory{err: errors.New("lookups disabled")}
	sink := &fakeSink{}
	cfg := &config.Config{DefaultPageSize: 10}
	store := NewStore(q, &fakeFeed{}, NewTransformer(dir, zap.NewNop()), sink, cfg, zap.NewNop())
	return store, sink
}

func TestFetchPageRequestsInclusiveRangeWithExactCount(t *testing.T) {
	q := &fakeQuerier{rows: []RawReportRow{{ID: 11}, {ID: 12}}, count: 25}
	store, _ := newTestStore(q)

	err := store.FetchPage(context.Background(), PageQuery{Page: 2, PerPage: 10})
	require.NoError(t, err)

	require.NotNil(t, q.lastOpts.Range)
	assert.Equal(t, 10, q.lastOpts.Range.From)
	assert.Equal(t, 19, q.lastOpts.Range.To)
	assert.True(t, q.lastOpts.Count)
	assert.Equal(t, "reports", q.lastTable)

	// The reported count wins regardless of how many rows came back.
	assert.Equal(t, 25, store.TotalCount())
	assert.Len(t, store.Page(), 2)
}

func TestFetchPageDefaultSortIsNewestFirst(t *testing.T) {
	q := &fakeQuerier{}
	store, _ := newTestStore(q)

	require.NoError(t, store.FetchPage(context.Background(), PageQuery{Page: 1, PerPage: 5}))
	assert.Equal(t, "created_at.desc", q.lastOpts.Order)

	require.NoError(t, store.FetchPage(context.Background(), PageQuery{Page: 1, PerPage: 5, SortBy: "priority", SortDir: "asc"}))
	assert.Equal(t, "priority.asc", q.lastOpts.Order)

	// Unknown sort fields fall back rather than leaking into the query.
	require.NoError(t, store.FetchPage(context.Background(), PageQuery{Page: 1, PerPage: 5, SortBy: "citizen"}))
	assert.Equal(t, "created_at.desc", q.lastOpts.Order)
}

func TestFetchScopesToSubmitter(t *testing.T) {
	q := &fakeQuerier{}
	store, _ := newTestStore(q)

	require.NoError(t, store.FetchAll(context.Background(), "u1"))
	assert.Equal(t, map[string]string{"user_id": "eq.u1"}, q.lastOpts.Filters)

	require.NoError(t, store.FetchPage(context.Background(), PageQuery{Page: 1, PerPage: 10, SubmitterID: "u1"}))
	assert.Equal(t, map[string]string{"user_id": "eq.u1"}, q.lastOpts.Filters)

	require.NoError(t, store.FetchAll(context.Background(), ""))
	assert.Nil(t, q.lastOpts.Filters)
}

func TestFetchAllFailureKeepsPriorCollection(t *testing.T) {
	q := &fakeQuerier{rows: []RawReportRow{{ID: 1}, {ID: 2}}}
	store, _ := newTestStore(q)

	require.NoError(t, store.FetchAll(context.Background(), ""))
	require.Len(t, store.Reports(), 2)

	q.err = errors.New("connection refused")
	err := store.FetchAll(context.Background(), "")
	require.Error(t, err)

	assert.Len(t, store.Reports(), 2, "failed fetch must not overwrite prior state")
	assert.Contains(t, store.LastError(), "connection refused")

	full, page := store.Loading()
	assert.False(t, full)
	assert.False(t, page)
}

func TestFetchAllReplacesCollectionWholesale(t *testing.T) {
	q := &fakeQuerier{rows: []RawReportRow{{ID: 1, Status: "Resolved", CreatedAt: time.Now()}}}
	store, _ := newTestStore(q)

	require.NoError(t, store.FetchAll(context.Background(), ""))
	assert.Equal(t, 1, store.Stats().Total)

	q.rows = []RawReportRow{{ID: 2}, {ID: 3}}
	require.NoError(t, store.FetchAll(context.Background(), ""))

	reports := store.Reports()
	require.Len(t, reports, 2)
	assert.Equal(t, int64(2), reports[0].ID)
	assert.Equal(t, 2, store.Stats().Total, "stats recompute when the collection changes")
}

func TestUpdateOneRequiresID(t *testing.T) {
	q := &fakeQuerier{}
	store, _ := newTestStore(q)

	err := store.UpdateOne(context.Background(), UpdateReportInput{ReportType: "General"})
	require.Error(t, err)
	assert.Nil(t, q.lastPatch, "validation failure must not reach the backend")
}

func TestUpdateOneSendsPartialPatch(t *testing.T) {
	q := &fakeQuerier{}
	store, _ := newTestStore(q)

	err := store.UpdateOne(context.Background(), UpdateReportInput{
		ID:       5,
		Priority: "High",
		Status:   "In Progress",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"id": "eq.5"}, q.lastFilter)
	assert.Equal(t, map[string]string{"priority": "High", "status": "In Progress"}, q.lastPatch)
}

func TestUpdateOneDoesNotTouchLocalState(t *testing.T) {
	q := &fakeQuerier{rows: []RawReportRow{{ID: 5, Status: "Pending"}}}
	store, _ := newTestStore(q)
	require.NoError(t, store.FetchAll(context.Background(), ""))

	require.NoError(t, store.UpdateOne(context.Background(), UpdateReportInput{ID: 5, Status: "Resolved"}))

	reports := store.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, "Pending", reports[0].Status, "no optimistic patch; a refresh observes the change")
}

func TestUnsubscribeLiveIsIdempotent(t *testing.T) {
	feed := &fakeFeed{}
	dir := &fakeDirectory{err: errors.New("lookups disabled")}
	store := NewStore(&fakeQuerier{}, feed, NewTransformer(dir, zap.NewNop()), &fakeSink{}, &config.Config{DefaultPageSize: 10}, zap.NewNop())

	store.SubscribeLive()
	store.UnsubscribeLive()
	store.UnsubscribeLive()

	assert.Equal(t, 1, feed.closed, "second unsubscribe is a no-op")
}

func TestSubscribeLiveReplacesExistingSubscription(t *testing.T) {
	feed := &fakeFeed{}
	dir := &fakeDirectory{err: errors.New("lookups disabled")}
	store := NewStore(&fakeQuerier{}, feed, NewTransformer(dir, zap.NewNop()), &fakeSink{}, &config.Config{DefaultPageSize: 10}, zap.NewNop())

	store.SubscribeLive()
	store.SubscribeLive()

	assert.Equal(t, 1, feed.closed, "re-subscribing tears down the prior handle")
	store.UnsubscribeLive()
	assert.Equal(t, 2, feed.closed)
}
