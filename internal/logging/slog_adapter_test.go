// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogHandler_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelInfo, `"level":"info"`},
		{slog.LevelWarn, `"level":"warn"`},
		{slog.LevelError, `"level":"error"`},
		{slog.LevelError + 4, `"level":"error"`},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		slogger := slog.New(NewSlogHandler(zerolog.New(&buf).Level(zerolog.DebugLevel)))
		slogger.Log(context.Background(), tt.level, "msg")

		if !strings.Contains(buf.String(), tt.want) {
			t.Errorf("level %v: output %s, want %s", tt.level, buf.String(), tt.want)
		}
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	h := NewSlogHandler(zerolog.New(&bytes.Buffer{}).Level(zerolog.WarnLevel))
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Enabled(info) = true for warn logger")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("Enabled(error) = false for warn logger")
	}
}

func TestSlogHandler_Attrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	slogger := slog.New(NewSlogHandler(zerolog.New(&buf)))

	slogger.With("service", "trainer").Info("event",
		"attempt", 3,
		"ok", true,
		"ratio", 0.5,
		"took", time.Second,
		"err", errors.New("backoff"),
	)

	output := buf.String()
	for _, want := range []string{
		`"service":"trainer"`,
		`"attempt":3`,
		`"ok":true`,
		`"ratio":0.5`,
		`"err":"backoff"`,
		`"message":"event"`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %s: %s", want, output)
		}
	}
}

func TestSlogHandler_Groups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	slogger := slog.New(NewSlogHandler(zerolog.New(&buf)))

	slogger.WithGroup("supervisor").WithGroup("api").Info("restart", "count", 2)
	slogger.Info("nested", slog.Group("fit", slog.String("strategy", "autoencoder")))

	output := buf.String()
	if !strings.Contains(output, `"supervisor.api.count":2`) {
		t.Errorf("missing nested group key: %s", output)
	}
	if !strings.Contains(output, `"fit.strategy":"autoencoder"`) {
		t.Errorf("missing inline group key: %s", output)
	}
}

func TestSlogHandler_WithGroupEmpty(t *testing.T) {
	t.Parallel()

	h := NewSlogHandler(zerolog.Nop())
	if h.WithGroup("") != h {
		t.Error("WithGroup(\"\") should return the same handler")
	}
}
