package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestNewRequestID(t *testing.T) {
	a, b := NewRequestID(), NewRequestID()
	if len(a) != 8 || len(b) != 8 {
		t.Fatalf("expected 8-character ids, got %q and %q", a, b)
	}
	if a == b {
		t.Errorf("expected distinct ids, got %q twice", a)
	}
}

func TestContextIDs(t *testing.T) {
	ctx := context.Background()
	if RequestIDFromContext(ctx) != "" || JobIDFromContext(ctx) != "" {
		t.Fatal("expected empty ids on a bare context")
	}
	ctx = WithJobID(WithRequestID(ctx, "req1"), "job1")
	if got := RequestIDFromContext(ctx); got != "req1" {
		t.Errorf("expected req1, got %q", got)
	}
	if got := JobIDFromContext(ctx); got != "job1" {
		t.Errorf("expected job1, got %q", got)
	}
}

func TestForRequest_AddsFields(t *testing.T) {
	orig := log.Logger
	defer func() { log.Logger = orig }()

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	ctx := WithJobID(WithRequestID(context.Background(), "abc"), "j-9")

	l := ForRequest(ctx)
	l.Info().Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"requestId":"abc"`) || !strings.Contains(out, `"jobId":"j-9"`) {
		t.Errorf("expected both ids in %s", out)
	}
}

func TestInitWriter_Level(t *testing.T) {
	orig := log.Logger
	defer func() {
		log.Logger = orig
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}()
	t.Setenv("LOG_FILE", "")

	var buf bytes.Buffer
	InitWriter("warn", &buf)
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Errorf("expected warn, got %s", zerolog.GlobalLevel())
	}
	log.Info().Msg("quiet")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn, got %q", buf.String())
	}

	InitWriter("nonsense", &buf)
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("expected fallback to info, got %s", zerolog.GlobalLevel())
	}
}
