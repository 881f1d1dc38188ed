package logger

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// EventSink receives diagnostic events. The live hub satisfies this.
type EventSink interface {
	Publish(event string, payload any)
}

// LogEntry holds the data passed from Zap to our worker
type LogEntry struct {
	Level   zapcore.Level
	Message string
	Caller  string // Function name
}

// EventWriter handles the async forwarding
type EventWriter struct {
	sink    EventSink
	logChan chan LogEntry
}

// NewEventWriter initializes the worker
func NewEventWriter(sink EventSink) *EventWriter {
	writer := &EventWriter{
		sink:    sink,
		logChan: make(chan LogEntry, 1000), // Buffer 1000 logs
	}

	// Start the background worker immediately
	go writer.processLogs()

	return writer
}

// AddLog is called by our Zap hook
func (w *EventWriter) AddLog(entry LogEntry) {
	select {
	case w.logChan <- entry:
		// Log pushed to channel
	default:
		// Channel full: drop the entry to avoid blocking the API
		fmt.Println("Diagnostics channel full! Dropping log:", entry.Message)
	}
}

func (w *EventWriter) processLogs() {
	for entry := range w.logChan {
		w.sink.Publish("log", map[string]string{
			"level":   entry.Level.String(),
			"message": entry.Message,
			"caller":  entry.Caller,
		})
	}
}
