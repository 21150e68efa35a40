package logger

import (
	"context"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// NewPgxTracer returns a pgx query tracer that writes statements through zerolog.
// pgx reports executed statements at info level and connection chatter at debug.
func NewPgxTracer(base zerolog.Logger) *tracelog.TraceLog {
	lgr := base.With().Str("component", "pgx").Logger()
	return &tracelog.TraceLog{
		Logger:   tracelog.LoggerFunc(pgxLogFunc(lgr)),
		LogLevel: tracelog.LogLevelDebug,
	}
}

func pgxLogFunc(lgr zerolog.Logger) func(context.Context, tracelog.LogLevel, string, map[string]any) {
	return func(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
		lgr.WithLevel(pgxLevel(level)).Fields(data).Msg(msg)
	}
}

func pgxLevel(level tracelog.LogLevel) zerolog.Level {
	switch level {
	case tracelog.LogLevelTrace:
		return zerolog.TraceLevel
	case tracelog.LogLevelDebug:
		return zerolog.DebugLevel
	case tracelog.LogLevelInfo:
		return zerolog.InfoLevel
	case tracelog.LogLevelWarn:
		return zerolog.WarnLevel
	case tracelog.LogLevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.NoLevel
	}
}
