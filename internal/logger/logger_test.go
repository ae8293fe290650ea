package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
)

func TestTickContext(t *testing.T) {
	ctx := context.Background()
	if got := TickFromContext(ctx); got != -1 {
		t.Errorf("TickFromContext(empty) = %d, want -1", got)
	}
	ctx = WithTick(ctx, 12)
	if got := TickFromContext(ctx); got != 12 {
		t.Errorf("TickFromContext = %d, want 12", got)
	}
}

func TestForTick_AddsField(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	defer func() { log.Logger = prev }()
	log.Logger = log.Output(&buf)

	l := ForTick(WithTick(context.Background(), 7))
	l.Info().Msg("decided")

	if !strings.Contains(buf.String(), `"tick":7`) {
		t.Errorf("log line missing tick field: %s", buf.String())
	}
}
