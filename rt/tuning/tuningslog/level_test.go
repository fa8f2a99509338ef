package tuningslog

import (
	"log/slog"
	"testing"

	"github.com/evan-idocoding/restmachine/rt/tuning"
)

func TestLevelVarCaseInsensitiveSet(t *testing.T) {
	tu := tuning.New()
	ev, lv, err := LevelVar(tu, "log.level", slog.LevelInfo)
	if err != nil {
		t.Fatal(err)
	}

	if err := ev.Set("ERROR"); err != nil {
		t.Fatal(err)
	}
	if got := lv.Level(); got != slog.LevelError {
		t.Fatalf("expected slog.LevelError, got %v", got)
	}

	if err := ev.Set("warning"); err != nil {
		t.Fatal(err)
	}
	if got := lv.Level(); got != slog.LevelWarn {
		t.Fatalf("expected slog.LevelWarn, got %v", got)
	}
}

func TestLevelVarRejectsUnknownLevel(t *testing.T) {
	tu := tuning.New()
	ev, _, err := LevelVar(tu, "log.level", slog.LevelInfo)
	if err != nil {
		t.Fatal(err)
	}
	if err := ev.Set("verbose"); err == nil {
		t.Fatal("expected error for unrecognized level name")
	}
}
