package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		value string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" Warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ParseLevel(tc.value), "level %q", tc.value)
	}
}

func TestNewWithWriterHonorsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "warn")

	logger.Info("ingest started")
	logger.Warn("feed unreachable")

	out := buf.String()
	require.NotContains(t, out, "ingest started")
	require.Contains(t, out, "feed unreachable")
}

func TestComponentTagsRecords(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := NewWithWriter(&buf, "info")

	Component(base, "mail").Info("digest sent")

	require.Contains(t, buf.String(), "component=mail")
}

func TestComponentNilBaseDoesNotPanic(t *testing.T) {
	t.Parallel()

	require.NotPanics(t, func() {
		Component(nil, "pipeline")
	})
}
