package tasks

import (
	"math"
	"strings"
	"time"

	"github.com/fentz26/critterfocus/internal/models"
)

// Rewards granted by CompleteTask.
const (
	TaskCompletionReward = 50
	TaskCompletionHealth = 10
)

// NewTask holds the caller-supplied fields of a task.
type NewTask struct {
	Title           string
	Description     string
	Deadline        time.Time
	CompletionGoal  float64
	MeasurementUnit models.MeasurementUnit
	CustomUnit      string
	SharedWith      []string
}

// TaskPatch lists the editable fields of a task. Nil fields are left as is.
type TaskPatch struct {
	Title           *string
	Description     *string
	Deadline        *time.Time
	CompletionGoal  *float64
	MeasurementUnit *models.MeasurementUnit
	CustomUnit      *string
	SharedWith      []string
}

func validateTask(t *models.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return invalid("title is required")
	}
	if t.Deadline.IsZero() {
		return invalid("deadline is required")
	}
	if math.IsNaN(t.CompletionGoal) || t.CompletionGoal <= 0 {
		return invalid("completion goal must be positive, got %v", t.CompletionGoal)
	}
	if !t.MeasurementUnit.IsValid() {
		return invalid("unknown measurement unit %q", t.MeasurementUnit)
	}
	if t.MeasurementUnit == models.UnitCustom && strings.TrimSpace(t.CustomUnit) == "" {
		return invalid("custom unit label is required")
	}
	return nil
}

func (st *Snapshot) taskIndex(id string) int {
	for i := range st.Tasks {
		if st.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// AddTask validates and stores a new task.
func (s *Store) AddTask(in NewTask) (*models.Task, error) {
	task := models.Task{
		Title:           strings.TrimSpace(in.Title),
		Description:     in.Description,
		Deadline:        in.Deadline.UTC(),
		CompletionGoal:  in.CompletionGoal,
		MeasurementUnit: in.MeasurementUnit,
		CustomUnit:      strings.TrimSpace(in.CustomUnit),
		SharedWith:      in.SharedWith,
	}
	if task.MeasurementUnit != models.UnitCustom {
		task.CustomUnit = ""
	}
	if err := validateTask(&task); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = s.newID()
	task.CreatedAt = s.timestamp()
	task = cloneTask(task)

	if err := s.mutate(func(st *Snapshot) error {
		st.Tasks = append(st.Tasks, task)
		return nil
	}); err != nil {
		return nil, err
	}
	out := cloneTask(task)
	return &out, nil
}

// Task returns a copy of the task with the given id.
func (s *Store) Task(id string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.state.taskIndex(id)
	if i < 0 {
		return nil, taskNotFound(id)
	}
	out := cloneTask(s.state.Tasks[i])
	return &out, nil
}

// Tasks returns copies of all tasks in creation order.
func (s *Store) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Task, len(s.state.Tasks))
	for i := range s.state.Tasks {
		out[i] = cloneTask(s.state.Tasks[i])
	}
	return out
}

// UpdateTask merges patch into the task and returns the result.
func (s *Store) UpdateTask(id string, patch TaskPatch) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated models.Task
	err := s.mutate(func(st *Snapshot) error {
		i := st.taskIndex(id)
		if i < 0 {
			return taskNotFound(id)
		}
		t := st.Tasks[i]
		if patch.Title != nil {
			t.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.Deadline != nil {
			t.Deadline = patch.Deadline.UTC()
		}
		if patch.CompletionGoal != nil {
			t.CompletionGoal = *patch.CompletionGoal
		}
		if patch.MeasurementUnit != nil {
			t.MeasurementUnit = *patch.MeasurementUnit
		}
		if patch.CustomUnit != nil {
			t.CustomUnit = strings.TrimSpace(*patch.CustomUnit)
		}
		if patch.SharedWith != nil {
			t.SharedWith = append([]string(nil), patch.SharedWith...)
		}
		if t.MeasurementUnit != models.UnitCustom {
			t.CustomUnit = ""
		}
		if err := validateTask(&t); err != nil {
			return err
		}
		st.Tasks[i] = t
		updated = cloneTask(t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTask removes a task. Its focus sessions are kept as orphaned records.
func (s *Store) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(func(st *Snapshot) error {
		i := st.taskIndex(id)
		if i < 0 {
			return taskNotFound(id)
		}
		st.Tasks = append(st.Tasks[:i], st.Tasks[i+1:]...)
		return nil
	})
}

// UpdateTaskProgress sets the task's progress. The value is not clamped to
// the goal and does not mark the task completed.
func (s *Store) UpdateTaskProgress(id string, progress float64) (*models.Task, error) {
	if math.IsNaN(progress) || math.IsInf(progress, 0) || progress < 0 {
		return nil, invalid("progress must be a non-negative number, got %v", progress)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var updated models.Task
	err := s.mutate(func(st *Snapshot) error {
		i := st.taskIndex(id)
		if i < 0 {
			return taskNotFound(id)
		}
		st.Tasks[i].CurrentProgress = progress
		updated = cloneTask(st.Tasks[i])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// CompleteTask marks the task done with progress at its goal, then grants
// the completion reward. There is no already-completed guard: every call
// pays out.
func (s *Store) CompleteTask(id string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated models.Task
	err := s.mutate(func(st *Snapshot) error {
		i := st.taskIndex(id)
		if i < 0 {
			return taskNotFound(id)
		}
		st.Tasks[i].IsCompleted = true
		st.Tasks[i].CurrentProgress = st.Tasks[i].CompletionGoal
		st.CreatureHealth = models.ClampStat(st.CreatureHealth + TaskCompletionHealth)
		st.VirtualCurrency += TaskCompletionReward
		updated = cloneTask(st.Tasks[i])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
