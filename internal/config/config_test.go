package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	s := Defaults()

	if s.Heuristics.StatusWindow != 300 {
		t.Errorf("StatusWindow: got %d, want 300", s.Heuristics.StatusWindow)
	}
	if s.Heuristics.TripDateBack != 50 {
		t.Errorf("TripDateBack: got %d, want 50", s.Heuristics.TripDateBack)
	}
	if s.Heuristics.SegDateBack != 100 || s.Heuristics.SegDateForward != 300 {
		t.Errorf("segment window: got %d/%d, want 100/300",
			s.Heuristics.SegDateBack, s.Heuristics.SegDateForward)
	}
	if s.CycleStart != CycleStartDerived {
		t.Errorf("CycleStart: got %q, want derived", s.CycleStart)
	}
	if s.ServerAddr != ":8080" {
		t.Errorf("ServerAddr: got %q, want :8080", s.ServerAddr)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skystatus.yaml")
	content := []byte("heuristics:\n  trip_date_back: 80\nreconcile:\n  cycle_start: explicit\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Heuristics.TripDateBack != 80 {
		t.Errorf("TripDateBack: got %d, want 80", s.Heuristics.TripDateBack)
	}
	if s.CycleStart != CycleStartExplicit {
		t.Errorf("CycleStart: got %q, want explicit", s.CycleStart)
	}
	// Untouched keys keep their defaults.
	if s.Heuristics.StatusWindow != 300 {
		t.Errorf("StatusWindow: got %d, want 300", s.Heuristics.StatusWindow)
	}
}

func TestLoadRejectsBadCycleStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skystatus.yaml")
	if err := os.WriteFile(path, []byte("reconcile:\n  cycle_start: sideways\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for invalid cycle_start")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
