package main

import (
	"errors"
	"testing"
	"time"

	"github.com/fentz26/critterfocus/internal/models"
)

func TestParseDeadline(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	got, err := parseDeadline("48h", now)
	if err != nil || !got.Equal(now.Add(48*time.Hour)) {
		t.Errorf("duration: got %v, %v", got, err)
	}

	got, err = parseDeadline("2026-04-01T12:00:00Z", now)
	if err != nil || !got.Equal(time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("rfc3339: got %v, %v", got, err)
	}

	got, err = parseDeadline("2026-04-01", now)
	if err != nil {
		t.Fatalf("date: %v", err)
	}
	if got.Year() != 2026 || got.Month() != time.April || got.Day() != 1 || got.Hour() != 23 {
		t.Errorf("date should mean end of that local day, got %v", got)
	}

	if _, err := parseDeadline("next tuesday", now); !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestResolveID(t *testing.T) {
	ids := []string{"a1b2c3d4-0000", "a1b2ffff-0000", "e5f6a7b8-0000"}

	tests := []struct {
		ref     string
		want    string
		wantErr error
	}{
		{"e5f6", "e5f6a7b8-0000", nil},
		{"a1b2c3d4-0000", "a1b2c3d4-0000", nil},
		{"a1b2", "", models.ErrConflict},
		{"zz", "", models.ErrNotFound},
		{" ", "", models.ErrInvalidArgument},
	}
	for _, tt := range tests {
		got, err := resolveID("task", tt.ref, ids)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("resolveID(%q): expected %v, got %v", tt.ref, tt.wantErr, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("resolveID(%q)=%q, %v; want %q", tt.ref, got, err, tt.want)
		}
	}
}

func TestFormatHelpers(t *testing.T) {
	amounts := map[float64]string{0: "0", 10: "10", 2.5: "2.5", 1.25: "1.25", 100: "100"}
	for v, want := range amounts {
		if got := formatAmount(v); got != want {
			t.Errorf("formatAmount(%v)=%q, want %q", v, got, want)
		}
	}

	if got := truncate("Read the whole book", 10); got != "Read th..." {
		t.Errorf("truncate: got %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate: got %q", got)
	}
	if got := truncateID("0123456789"); got != "01234567" {
		t.Errorf("truncateID: got %q", got)
	}
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"task", "add"}, {"task", "progress"}, {"focus", "run"}, {"focus", "end"},
		{"creature", "heal"}, {"shop", "redeem"}, {"status"}, {"history"}, {"config", "init"},
	} {
		cmd, _, err := rootCmd.Find(path)
		if err != nil || cmd.Name() != path[len(path)-1] {
			t.Errorf("command %v not registered: %v", path, err)
		}
	}
}
