package logging

import "github.com/rs/zerolog"

// DispatcherLogger adapts zerolog.Logger to dispatcher.Logger. Key/value pairs
// become zerolog fields; pairs with a non-string key and a trailing key
// without a value are dropped.
type DispatcherLogger struct {
	logger zerolog.Logger
}

// NewDispatcherLogger creates a DispatcherLogger. A non-empty carouselID is
// attached to every entry.
func NewDispatcherLogger(logger zerolog.Logger, carouselID string) *DispatcherLogger {
	if carouselID != "" {
		logger = logger.With().Str("carousel", carouselID).Logger()
	}
	return &DispatcherLogger{logger: logger}
}

func (l *DispatcherLogger) Debug(msg string, keysAndValues ...any) {
	write(l.logger.Debug(), msg, keysAndValues)
}

func (l *DispatcherLogger) Info(msg string, keysAndValues ...any) {
	write(l.logger.Info(), msg, keysAndValues)
}

func (l *DispatcherLogger) Error(msg string, keysAndValues ...any) {
	write(l.logger.Error(), msg, keysAndValues)
}

// write is a no-op for a nil event, which zerolog returns for disabled levels.
func write(e *zerolog.Event, msg string, keysAndValues []any) {
	if len(keysAndValues)%2 == 1 {
		keysAndValues = keysAndValues[:len(keysAndValues)-1]
	}
	e.Fields(keysAndValues).Msg(msg)
}
