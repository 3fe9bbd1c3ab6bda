package engine

import (
	"fmt"
	"math"

	"github.com/fentz26/critterfocus/internal/creatures"
	"github.com/fentz26/critterfocus/internal/models"
)

// FocusOutcome is how a focus session ended, as reported by the countdown.
type FocusOutcome struct {
	Completed bool
	// ProgressDelta is added to the task on completion, bounded by its goal.
	ProgressDelta float64
	// InjuryLabel is recorded on abort. Empty uses the service default.
	InjuryLabel string
}

// FocusResult describes everything ApplyFocusOutcome changed.
type FocusResult struct {
	Session  *models.FocusSession
	Task     *models.Task
	Creature *models.Creature // nil when no creature took part

	LevelBefore int
	LevelUp     bool
	StageBefore models.EvolutionStage
	Evolved     bool
	Linked      bool
	Injury      string

	Currency int
}

// ApplyFocusOutcome ends the task's active session and applies its effects
// to the task and, when creatureID is set, to that creature. Everything is
// validated before the first write.
func (s *Service) ApplyFocusOutcome(taskID, creatureID string, out FocusOutcome) (*FocusResult, error) {
	action := focusAction(out.Completed)
	inputs := map[string]interface{}{
		"task_id":     taskID,
		"creature_id": creatureID,
		"completed":   out.Completed,
		"delta":       out.ProgressDelta,
	}

	fs, task, creature, err := s.resolveFocus(taskID, creatureID, out)
	if err != nil {
		s.record(action, inputs, taskID, err)
		return nil, err
	}

	res := &FocusResult{Task: task}
	if creature != nil {
		res.LevelBefore = creature.Level
		res.StageBefore = creature.EvolutionStage
	}

	ended, err := s.tasks.EndFocusSession(fs.ID, out.Completed)
	if err != nil {
		s.record(action, inputs, fs.ID, err)
		return nil, err
	}
	res.Session = ended

	if out.Completed {
		err = s.applyCompleted(res, task, creature, ended.Duration, out.ProgressDelta)
	} else {
		err = s.applyAborted(res, creature, out.InjuryLabel)
	}
	s.record(action, inputs, fs.ID, err)
	if err != nil {
		s.log.Printf("focus %s on task %s: session ended but effects failed: %v", fs.ID, taskID, err)
		return nil, err
	}

	res.Currency = s.tasks.Economy().VirtualCurrency
	return res, nil
}

func (s *Service) resolveFocus(taskID, creatureID string, out FocusOutcome) (*models.FocusSession, *models.Task, *models.Creature, error) {
	if math.IsNaN(out.ProgressDelta) || math.IsInf(out.ProgressDelta, 0) || out.ProgressDelta < 0 {
		return nil, nil, nil, fmt.Errorf("progress delta must be a non-negative number, got %v: %w", out.ProgressDelta, models.ErrInvalidArgument)
	}
	task, err := s.tasks.Task(taskID)
	if err != nil {
		return nil, nil, nil, err
	}
	fs, ok := s.tasks.ActiveSession(taskID)
	if !ok {
		return nil, nil, nil, fmt.Errorf("task %s: %w", taskID, ErrNoActiveSession)
	}
	var creature *models.Creature
	if creatureID != "" {
		if creature, err = s.creatures.Creature(creatureID); err != nil {
			return nil, nil, nil, err
		}
	}
	return fs, task, creature, nil
}

func (s *Service) applyCompleted(res *FocusResult, task *models.Task, creature *models.Creature, minutes int, delta float64) error {
	progress := math.Min(task.CompletionGoal, math.Max(0, task.CurrentProgress+delta))
	updated, err := s.tasks.UpdateTaskProgress(task.ID, progress)
	if err != nil {
		return err
	}
	res.Task = updated

	if creature == nil {
		return nil
	}
	xp := creature.Experience + minutes
	stats, err := s.creatures.UpdateCreatureStats(creature.ID, creatures.StatsPatch{Experience: &xp})
	if err != nil {
		return err
	}
	s.noteProgress(stats)
	res.Creature = stats.Creature
	res.LevelUp = stats.LevelUp
	res.Evolved = stats.Evolved

	if !stats.Creature.HasTask(task.ID) {
		linked, err := s.creatures.AddTaskToCreature(creature.ID, task.ID)
		if err != nil {
			return err
		}
		res.Creature = linked
		res.Linked = true
	}
	return nil
}

func (s *Service) applyAborted(res *FocusResult, creature *models.Creature, label string) error {
	if creature == nil {
		return nil
	}
	if label == "" {
		label = s.injuryLabel
	}
	hurt, err := s.AddInjury(creature.ID, label)
	if err != nil {
		return err
	}
	res.Creature = hurt
	res.Injury = label
	return nil
}
