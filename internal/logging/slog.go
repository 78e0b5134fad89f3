package logging

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// SlogManager owns the process loggers: a slog.Logger for application code and
// a zerolog.Logger for the database layer and the dispatcher, both writing to
// the same outputs. The console follows the configured level; the log file
// keeps debug records too.
type SlogManager struct {
	logger *slog.Logger
	zlog   *zerolog.Logger
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// zerologLevel maps a slog level onto the zerolog scale.
func zerologLevel(lvl slog.Level) zerolog.Level {
	switch {
	case lvl <= slog.LevelDebug:
		return zerolog.DebugLevel
	case lvl <= slog.LevelInfo:
		return zerolog.InfoLevel
	case lvl <= slog.LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

func utcTime(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
		}
	}
	return a
}

// Setup initializes both loggers. Either writer may be nil. attrs are added to
// every record, typically the session id.
func (m *SlogManager) Setup(console, file io.Writer, level string, attrs ...slog.Attr) {
	lvl := parseLevel(level)
	opts := &slog.HandlerOptions{Level: slog.LevelDebug, ReplaceAttr: utcTime}

	var sinks []Sink
	var writers []io.Writer

	if console != nil {
		sinks = append(sinks, Sink{Handler: slog.NewTextHandler(console, opts), Level: lvl})
		writers = append(writers, &zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: zerolog.ConsoleWriter{Out: console, NoColor: true, TimeFormat: time.RFC3339}},
			Level:  zerologLevel(lvl),
		})
	}

	if file != nil {
		sinks = append(sinks, Sink{Handler: slog.NewJSONHandler(file, opts), Level: slog.LevelDebug})
		writers = append(writers, file)
	}

	var handler slog.Handler = contextHandler{inner: NewTee(sinks...)}
	if len(attrs) > 0 {
		handler = handler.WithAttrs(attrs)
	}
	m.logger = slog.New(handler)

	zctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(zerolog.DebugLevel).
		With().Timestamp()
	for _, a := range attrs {
		zctx = zctx.Interface(a.Key, a.Value.Any())
	}
	zl := zctx.Logger()
	m.zlog = &zl

	m.logger.Debug("Logging initialized", "level", lvl.String())
}

// Logger returns the configured slog.Logger, or slog.Default before Setup.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// ZeroLogger returns a zerolog.Logger tagged with component that shares the
// slog outputs. Before Setup it discards everything.
func (m *SlogManager) ZeroLogger(component string) zerolog.Logger {
	if m.zlog == nil {
		return zerolog.Nop()
	}
	return m.zlog.With().Str("component", component).Logger()
}
