package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   DebugLevel,
		" WARN ":  WarnLevel,
		"error":   ErrorLevel,
		"":        InfoLevel,
		"verbose": InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConfigureRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: WarnLevel, Output: &buf})
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	Info().Msg("hidden")
	Warn().Str("table", "wishes").Msg("shown")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected exactly one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "shown" || entry["table"] != "wishes" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestPgxTracerWritesStatements(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	tracer := NewPgxTracer(zerolog.New(&buf))
	if tracer.LogLevel != tracelog.LogLevelDebug {
		t.Errorf("LogLevel = %v, want debug", tracer.LogLevel)
	}

	tracer.Logger.Log(context.Background(), tracelog.LogLevelInfo, "Query", map[string]any{
		"sql": "SELECT 1",
	})

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if entry["component"] != "pgx" || entry["sql"] != "SELECT 1" || entry["level"] != "info" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestPgxLevelMapping(t *testing.T) {
	tests := map[tracelog.LogLevel]zerolog.Level{
		tracelog.LogLevelTrace: zerolog.TraceLevel,
		tracelog.LogLevelDebug: zerolog.DebugLevel,
		tracelog.LogLevelInfo:  zerolog.InfoLevel,
		tracelog.LogLevelWarn:  zerolog.WarnLevel,
		tracelog.LogLevelError: zerolog.ErrorLevel,
		tracelog.LogLevelNone:  zerolog.NoLevel,
	}
	for in, want := range tests {
		if got := pgxLevel(in); got != want {
			t.Errorf("pgxLevel(%v) = %v, want %v", in, got, want)
		}
	}
}
