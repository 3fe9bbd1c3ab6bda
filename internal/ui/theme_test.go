package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/fentz26/critterfocus/internal/models"
)

func TestProgressBarWidth(t *testing.T) {
	tests := []struct {
		ratio  float64
		filled int
	}{
		{0, 0},
		{0.5, 10},
		{1, 20},
		{1.7, 20},
		{-3, 0},
	}
	for _, tt := range tests {
		bar := ProgressBar(tt.ratio, 20)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("ProgressBar(%v): expected %d filled cells, got %d", tt.ratio, tt.filled, got)
		}
		if got := strings.Count(bar, "█") + strings.Count(bar, "░"); got != 20 {
			t.Errorf("ProgressBar(%v): expected 20 cells, got %d", tt.ratio, got)
		}
	}
}

func TestRenderedTextKeepsContent(t *testing.T) {
	if !strings.Contains(Heading("", "Tasks"), "Tasks") {
		t.Error("Heading should contain its title")
	}
	if !strings.Contains(LabelValue("Level", 3), "3") {
		t.Error("LabelValue should contain its value")
	}
	if !strings.Contains(Error(errors.New("boom")), "boom") {
		t.Error("Error should contain the message")
	}
	if !strings.Contains(Stat(42), "42/100") {
		t.Error("Stat should contain the value")
	}

	c := &models.Creature{Name: "Study Buddy", Appearance: models.Appearance{Emoji: "🦉", BaseColor: "#2563eb"}}
	if badge := CreatureBadge(c); !strings.Contains(badge, "🦉") || !strings.Contains(badge, "Study Buddy") {
		t.Errorf("Unexpected badge %q", badge)
	}
	if !strings.Contains(TaskState(&models.Task{IsCompleted: true}), "done") {
		t.Error("Completed task should render done")
	}
}
