package logger

import (
	"go.uber.org/zap/zapcore"
)

// SinkCore is a custom Zap Core that intercepts logs
type SinkCore struct {
	zapcore.Core
	writer *EventWriter
}

// NewSinkCore wraps an existing core (like the console logger) and forwards
// entries to the diagnostics event writer.
func NewSinkCore(baseCore zapcore.Core, writer *EventWriter) zapcore.Core {
	return &SinkCore{
		Core:   baseCore,
		writer: writer,
	}
}

// Write is called for every log entry
func (c *SinkCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	// Only warnings and errors are worth pushing to connected dashboards.
	if entry.Level >= zapcore.WarnLevel {
		c.writer.AddLog(LogEntry{
			Level:   entry.Level,
			Message: entry.Message,
			Caller:  entry.Caller.Function,
		})
	}

	return c.Core.Write(entry, fields)
}

// Check decides if we should log this level
func (c *SinkCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}
