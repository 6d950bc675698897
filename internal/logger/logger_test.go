package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestBuildLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := Build(Config{Level: "warn", Component: "test"}, &buf)

	log.Info().Msg("dropped")
	log.Warn().Msg("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info event must be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("warn event missing: %s", out)
	}
	if !strings.Contains(out, `"component":"test"`) {
		t.Fatalf("component field missing: %s", out)
	}
}

func TestBuildUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := Build(Config{Level: "chatty"}, &buf)

	log.Debug().Msg("dropped")
	log.Info().Msg("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("debug event must be filtered at default level: %s", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("info event missing: %s", out)
	}
}
