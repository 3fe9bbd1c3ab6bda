// Package models defines the core domain types for critterfocus.
package models

import (
	"math"
	"strings"
	"time"
)

// MeasurementUnit is how a task's progress is counted.
type MeasurementUnit string

const (
	UnitHours     MeasurementUnit = "hours"
	UnitExercises MeasurementUnit = "exercises"
	UnitPages     MeasurementUnit = "pages"
	UnitCustom    MeasurementUnit = "custom"
)

// IsValid reports whether u is one of the known units.
func (u MeasurementUnit) IsValid() bool {
	switch u {
	case UnitHours, UnitExercises, UnitPages, UnitCustom:
		return true
	default:
		return false
	}
}

// Task represents a unit of user work with a numeric progress goal.
type Task struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	Deadline        time.Time       `json:"deadline"`
	CompletionGoal  float64         `json:"completionGoal"`
	CurrentProgress float64         `json:"currentProgress"`
	MeasurementUnit MeasurementUnit `json:"measurementUnit"`
	CustomUnit      string          `json:"customUnit,omitempty"`
	SharedWith      []string        `json:"sharedWith,omitempty"`
	IsCompleted     bool            `json:"isCompleted"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// UnitLabel returns the label shown next to progress values.
func (t *Task) UnitLabel() string {
	if t.MeasurementUnit == UnitCustom && t.CustomUnit != "" {
		return t.CustomUnit
	}
	return string(t.MeasurementUnit)
}

// ProgressRatio returns CurrentProgress/CompletionGoal bounded to [0,1].
func (t *Task) ProgressRatio() float64 {
	if t.CompletionGoal <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, t.CurrentProgress/t.CompletionGoal))
}

// SessionOutcome records how a focus session ended.
type SessionOutcome string

const (
	OutcomeNone      SessionOutcome = ""
	OutcomeCompleted SessionOutcome = "completed"
	OutcomeAborted   SessionOutcome = "aborted"
)

// FocusSession is a timed work interval tied to one task.
type FocusSession struct {
	ID            string         `json:"id"`
	TaskID        string         `json:"taskId"`
	Duration      int            `json:"duration"` // minutes
	IsActive      bool           `json:"isActive"`
	StartTime     time.Time      `json:"startTime"`
	EndTime       *time.Time     `json:"endTime,omitempty"`
	Collaborators []string       `json:"collaborators,omitempty"`
	Outcome       SessionOutcome `json:"outcome,omitempty"`
}

// Redemption is a reward-shop purchase.
type Redemption struct {
	Code       string    `json:"code"`
	Cost       int       `json:"cost"`
	RedeemedAt time.Time `json:"redeemedAt"`
}

// Economy is the process-wide currency and legacy single-creature state.
type Economy struct {
	VirtualCurrency int          `json:"virtualCurrency"`
	CreatureHealth  int          `json:"creatureHealth"`
	CreatureLevel   int          `json:"creatureLevel"`
	Redemptions     []Redemption `json:"redemptions,omitempty"`
}

// EvolutionStage is a creature's maturity tier.
type EvolutionStage string

const (
	StageBaby  EvolutionStage = "baby"
	StageChild EvolutionStage = "child"
	StageTeen  EvolutionStage = "teen"
	StageAdult EvolutionStage = "adult"
	StageElder EvolutionStage = "elder"
)

// Rank orders stages from baby (0) to elder (4). Unknown stages rank -1.
func (s EvolutionStage) Rank() int {
	switch s {
	case StageBaby:
		return 0
	case StageChild:
		return 1
	case StageTeen:
		return 2
	case StageAdult:
		return 3
	case StageElder:
		return 4
	default:
		return -1
	}
}

// Appearance is the fixed look of a creature, derived from its category.
type Appearance struct {
	Emoji          string   `json:"emoji"`
	BaseColor      string   `json:"baseColor"`
	SecondaryColor string   `json:"secondaryColor"`
	Description    string   `json:"description"`
	Accessories    []string `json:"accessories"`
	Traits         []string `json:"traits"`
}

// Creature is a persistent companion whose growth reflects effort.
type Creature struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Category          string         `json:"category"`
	Level             int            `json:"level"`
	Health            int            `json:"health"`
	Experience        int            `json:"experience"`
	Happiness         int            `json:"happiness"`
	AssociatedTaskIDs []string       `json:"associatedTaskIds"`
	Injuries          []string       `json:"injuries"`
	EvolutionStage    EvolutionStage `json:"evolutionStage"`
	Appearance        Appearance     `json:"appearance"`
	CreatedAt         time.Time      `json:"createdAt"`
	LastFed           time.Time      `json:"lastFed"`
}

// HealthStatus buckets health into a display label.
func (c *Creature) HealthStatus() string {
	switch {
	case c.Health >= 80:
		return "Healthy"
	case c.Health >= 60:
		return "Okay"
	case c.Health >= 40:
		return "Tired"
	default:
		return "Injured"
	}
}

// Mood buckets happiness into a display label.
func (c *Creature) Mood() string {
	switch {
	case c.Happiness >= 80:
		return "ecstatic"
	case c.Happiness >= 60:
		return "happy"
	case c.Happiness >= 40:
		return "neutral"
	case c.Happiness >= 20:
		return "sad"
	default:
		return "miserable"
	}
}

// ExperienceToNext is the experience still needed for the next level.
func (c *Creature) ExperienceToNext() int {
	return c.Level*100 - c.Experience
}

// HasTask reports whether taskID is in the creature's association list.
func (c *Creature) HasTask(taskID string) bool {
	for _, id := range c.AssociatedTaskIDs {
		if id == taskID {
			return true
		}
	}
	return false
}

// PDREntry represents a Process Decision Record for audit.
type PDREntry struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	InputsHash string    `json:"inputs_hash"`
	Outcome    string    `json:"outcome"`
	SubjectID  string    `json:"subject_id,omitempty"`
	Details    string    `json:"details,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NormalizeKey lower-cases and trims a lookup key.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
