package logger

import (
	"go-cityreport/internal/config"

	"go.uber.org/zap"
)

// NewLogger builds the zap logger and tees warning-and-above entries
// into the live diagnostics stream.
func NewLogger(cfg *config.Config, sink EventSink) (*zap.Logger, error) {

	var zapConfig zap.Config
	if cfg.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Important: Enable Caller to get Function Name
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	writer := NewEventWriter(sink)

	// Wrap the core so entries go to both the console and the diagnostics sink.
	finalCore := NewSinkCore(baseLogger.Core(), writer)

	return zap.New(finalCore, zap.AddCaller()), nil
}
