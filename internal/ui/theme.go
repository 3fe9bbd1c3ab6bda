// Package ui holds the shared lipgloss theme for the CLI and the focus screen.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fentz26/critterfocus/internal/models"
)

const (
	IconTask    = "📝"
	IconFocus   = "⏱️"
	IconDone    = "✅"
	IconCoin    = "🪙"
	IconHeart   = "❤️"
	IconSparkle = "✨"
	IconLevelUp = "⬆️"
	IconInjury  = "🩹"
	IconShop    = "🛍️"
	IconWarn    = "⚠️"
	IconError   = "❌"
)

var (
	PrimaryColor = lipgloss.Color("#7C3AED")
	SuccessColor = lipgloss.Color("#10B981")
	WarningColor = lipgloss.Color("#F59E0B")
	ErrorColor   = lipgloss.Color("#EF4444")
	MutedColor   = lipgloss.Color("#6B7280")
	GoldColor    = lipgloss.Color("#FACC15")
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)
	Muted = lipgloss.NewStyle().Foreground(MutedColor)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(SuccessColor)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(WarningColor)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(ErrorColor)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(GoldColor)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Padding(0, 1)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(GoldColor).Render("LEVEL UP")
)

func Heading(icon, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// Error renders an error line for stderr.
func Error(err error) string {
	return Bad.Render(IconError + " " + err.Error())
}

// Stat colours a 0..100 stat by band.
func Stat(v int) string {
	s := fmt.Sprintf("%d/100", v)
	switch {
	case v >= 80:
		return Good.Render(s)
	case v >= 40:
		return Warn.Render(s)
	default:
		return Bad.Render(s)
	}
}

// CreatureBadge renders the creature's emoji and name in its base colour.
func CreatureBadge(c *models.Creature) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Appearance.BaseColor))
	return c.Appearance.Emoji + " " + style.Render(c.Name)
}

// ProgressBar draws a fixed-width text bar for ratio in [0,1].
func ProgressBar(ratio float64, width int) string {
	if width <= 0 {
		width = 20
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio*float64(width) + 0.5)
	return Good.Render(strings.Repeat("█", filled)) + Muted.Render(strings.Repeat("░", width-filled))
}

// TaskState renders a task's completion state.
func TaskState(t *models.Task) string {
	if t.IsCompleted {
		return Good.Render("done")
	}
	return Warn.Render("open")
}
