package app

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "unknown", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
	}

	for _, tc := range cases {
		got := parseLogLevel(tc.in)
		if got != tc.want {
			t.Fatalf("parseLogLevel(%q)=%v want=%v", tc.in, got, tc.want)
		}
	}
}

func TestNewLogger_FormatSelection(t *testing.T) {
	t.Parallel()

	var jsonBuf, prettyBuf bytes.Buffer
	newLogger(&jsonBuf, "warn", "json", false).Warn("server.start", "addr", ":5656")
	newLogger(&prettyBuf, "warn", "pretty", false).Warn("server.start", "addr", ":5656")
	newLogger(&prettyBuf, "warn", "pretty", false).Info("dropped")

	if !strings.HasPrefix(jsonBuf.String(), "{") || !strings.Contains(jsonBuf.String(), `"msg":"server.start"`) {
		t.Fatalf("json output=%q", jsonBuf.String())
	}
	if !strings.Contains(prettyBuf.String(), "msg=server.start") || strings.Contains(prettyBuf.String(), "dropped") {
		t.Fatalf("pretty output=%q", prettyBuf.String())
	}
}
