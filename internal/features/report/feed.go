package report

import (
	"context"
	"encoding/json"

	"go-cityreport/internal/backend"

	"go.uber.org/zap"
)

// Events pushed to connected dashboards after a change is applied locally.
const (
	eventCreated = "report.created"
	eventUpdated = "report.updated"
	eventDeleted = "report.deleted"
)

// dispatch routes one change-feed event to its handler. Handler failures are
// logged and swallowed; the subscription stays alive no matter what a payload
// contains.
func (s *Store) dispatch(event backend.ChangeEvent) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("change feed handler panicked", zap.Any("panic", r), zap.String("type", event.Type))
		}
	}()

	switch event.Type {
	case backend.EventInsert:
		s.handleInsert(event)
	case backend.EventUpdate:
		s.handleUpdate(event)
	case backend.EventDelete:
		s.handleDelete(event)
	default:
		s.logger.Warn("change feed: unknown event type", zap.String("type", event.Type))
	}
}

// handleInsert prepends the new report to the full collection. The current
// page is only kept live when one is being viewed: the record is prepended,
// the page is trimmed back to its size, and the total count bumped. No
// re-sort or re-fetch happens per event.
func (s *Store) handleInsert(event backend.ChangeEvent) {
	record, ok := s.decodeRecord(event.Record)
	if !ok {
		return
	}

	s.mu.Lock()
	s.full = append([]ReportRecord{record}, s.full...)
	if len(s.page) > 0 {
		s.page = append([]ReportRecord{record}, s.page...)
		if len(s.page) > s.pageSize {
			s.page = s.page[:len(s.page)-1]
		}
		s.totalCount++
	}
	s.stats = computeStats(s.full)
	s.mu.Unlock()

	s.publish(eventCreated, record)
}

// handleUpdate replaces the matching record in place in both views. A record
// absent from both is a no-op.
func (s *Store) handleUpdate(event backend.ChangeEvent) {
	record, ok := s.decodeRecord(event.Record)
	if !ok {
		return
	}

	s.mu.Lock()
	replaceByID(s.full, record)
	replaceByID(s.page, record)
	s.stats = computeStats(s.full)
	s.mu.Unlock()

	s.publish(eventUpdated, record)
}

// handleDelete removes the report from both views. The total count only
// drops when the record was actually on the current page.
func (s *Store) handleDelete(event backend.ChangeEvent) {
	var old struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(event.OldRecord, &old); err != nil || old.ID == 0 {
		s.logger.Warn("change feed: delete event without id", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.full, _ = removeByID(s.full, old.ID)
	var removed bool
	s.page, removed = removeByID(s.page, old.ID)
	if removed {
		s.totalCount--
	}
	s.stats = computeStats(s.full)
	s.mu.Unlock()

	s.publish(eventDeleted, map[string]int64{"id": old.ID})
}

func (s *Store) decodeRecord(raw json.RawMessage) (ReportRecord, bool) {
	var row RawReportRow
	if err := json.Unmarshal(raw, &row); err != nil {
		s.logger.Warn("change feed: dropping undecodable record", zap.Error(err))
		return ReportRecord{}, false
	}
	records := s.transformer.Transform(context.Background(), []RawReportRow{row})
	return records[0], true
}

func replaceByID(records []ReportRecord, record ReportRecord) {
	for i := range records {
		if records[i].ID == record.ID {
			records[i] = record
			return
		}
	}
}

func removeByID(records []ReportRecord, id int64) ([]ReportRecord, bool) {
	for i := range records {
		if records[i].ID == id {
			return append(records[:i], records[i+1:]...), true
		}
	}
	return records, false
}
