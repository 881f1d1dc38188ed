package backend

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/lib/pq"

	"go-cityreport/internal/config"
)

// Change-feed event types as emitted by the notify trigger
// (scripts/notify_trigger.sql).
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// ChangeEvent is one row-change notification. Record carries the new row for
// inserts and updates; OldRecord carries at least the id for deletes.
type ChangeEvent struct {
	Type      string          `json:"type"`
	Record    json.RawMessage `json:"record,omitempty"`
	OldRecord json.RawMessage `json:"old_record,omitempty"`
}

// FeedListener opens change-feed subscriptions over Postgres LISTEN/NOTIFY.
type FeedListener struct {
	dsn string
}

func NewFeedListener(cfg *config.Config) *FeedListener {
	return &FeedListener{dsn: cfg.DatabaseURL}
}

// Subscribe starts listening on a notification channel and decodes each
// payload into a ChangeEvent. Malformed payloads are logged and skipped.
func (f *FeedListener) Subscribe(channel string) (*Subscription, error) {
	listener := pq.NewListener(f.dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("change feed listener event %d: %v", ev, err)
		}
	})

	if err := listener.Listen(channel); err != nil {
		listener.Close()
		return nil, err
	}

	events := make(chan ChangeEvent)
	done := make(chan struct{})

	go func() {
		defer close(events)
		for {
			select {
			case <-done:
				return
			case n, ok := <-listener.Notify:
				if !ok {
					return
				}
				if n == nil {
					// Reconnect marker from the driver, nothing to dispatch.
					continue
				}
				var event ChangeEvent
				if err := json.Unmarshal([]byte(n.Extra), &event); err != nil {
					log.Printf("change feed: dropping malformed payload: %v", err)
					continue
				}
				events <- event
			}
		}
	}()

	return NewSubscription(events, func() {
		close(done)
		listener.Close()
	}), nil
}

// Subscription is a live change-feed handle. Close is safe to call more than
// once.
type Subscription struct {
	Events <-chan ChangeEvent

	stop func()
	once sync.Once
}

// NewSubscription wraps an event stream with an idempotent teardown. Exposed
// so tests can feed stores from plain channels.
func NewSubscription(events <-chan ChangeEvent, stop func()) *Subscription {
	return &Subscription{Events: events, stop: stop}
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		if s.stop != nil {
			s.stop()
		}
	})
}
