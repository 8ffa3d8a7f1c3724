package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/ecocycle/config"
	"github.com/pthm-cable/ecocycle/ecosystem"
)

func TestOutputManager_Disabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}

	// Nil manager is a no-op
	if err := om.WriteSnapshot(ecosystem.Snapshot{}); err != nil {
		t.Errorf("WriteSnapshot on nil: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
}

func TestOutputManager_WritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for day := 0; day < 3; day++ {
		if err := om.WriteSnapshot(ecosystem.Snapshot{Day: day, Foxes: 10, Rabbits: 50, Carrots: 200}); err != nil {
			t.Fatalf("WriteSnapshot: %v", err)
		}
	}
	if err := om.WriteTelemetry(WindowStats{WindowEndDay: 10, Foxes: 9}); err != nil {
		t.Fatalf("WriteTelemetry: %v", err)
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkPreyCrash, Day: 10, Description: "crash"}); err != nil {
		t.Fatalf("WriteBookmark: %v", err)
	}
	if err := om.WritePerf(PerfStats{}, 10); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	if err := om.WriteConfig(config.Cfg()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	history, err := os.ReadFile(filepath.Join(dir, "history.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(history)), "\n")
	if len(lines) != 4 {
		t.Fatalf("history.csv has %d lines, want header + 3", len(lines))
	}
	if lines[0] != "day,foxes,rabbits,carrots" {
		t.Errorf("history header = %q", lines[0])
	}
	if lines[3] != "2,10,50,200" {
		t.Errorf("last history row = %q", lines[3])
	}

	telemetry, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(telemetry), "window_end,days,foxes,") {
		t.Errorf("telemetry header = %q", strings.SplitN(string(telemetry), "\n", 2)[0])
	}

	bookmarks, err := os.ReadFile(filepath.Join(dir, "bookmarks.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(bookmarks), "prey_crash,10,crash") {
		t.Errorf("bookmarks.csv = %q", bookmarks)
	}

	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
}
