package creatures

import "github.com/fentz26/critterfocus/internal/models"

const (
	// MaxLevel is the hard level cap.
	MaxLevel = 20

	// XPPerLevel scales the experience needed to leave a level: level*XPPerLevel.
	XPPerLevel = 100
)

// Stage thresholds, checked from the top down.
const (
	LevelChild = 3
	LevelTeen  = 6
	LevelAdult = 10
	LevelElder = 15
)

// Starting stats of a new creature.
const (
	StartLevel     = 1
	StartHealth    = 100
	StartHappiness = 80
)

// Injury, heal, and feeding effects.
const (
	InjuryHealthPenalty    = 20
	InjuryHappinessPenalty = 15
	HealHealth             = 30
	HealHappiness          = 20
	FeedHappiness          = 10
)

// StageOf returns the evolution stage for a level.
func StageOf(level int) models.EvolutionStage {
	switch {
	case level >= LevelElder:
		return models.StageElder
	case level >= LevelAdult:
		return models.StageAdult
	case level >= LevelTeen:
		return models.StageTeen
	case level >= LevelChild:
		return models.StageChild
	default:
		return models.StageBaby
	}
}

// XPForNextLevel is the experience needed to level up from level.
func XPForNextLevel(level int) int {
	return level * XPPerLevel
}

// applyLevelUp performs at most one level-up. It reports whether the level
// changed. The stage is only recomputed on a level-up.
func applyLevelUp(c *models.Creature) bool {
	if c.Level >= MaxLevel {
		return false
	}
	need := XPForNextLevel(c.Level)
	if c.Experience < need {
		return false
	}
	c.Level++
	c.Experience -= need
	c.EvolutionStage = StageOf(c.Level)
	return true
}
