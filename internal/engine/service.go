// Package engine composes the task and creature stores into the
// progression and reward engine used by the CLI.
package engine

import (
	"log"
	"sort"

	"github.com/fentz26/critterfocus/internal/audit"
	"github.com/fentz26/critterfocus/internal/creatures"
	"github.com/fentz26/critterfocus/internal/models"
	"github.com/fentz26/critterfocus/internal/tasks"
)

// TaskCompletionXP is awarded to every creature linked to a completed task.
const TaskCompletionXP = 100

// DefaultInjuryLabel is recorded when an aborted session carries no label.
const DefaultInjuryLabel = "Abandoned focus session"

// Recorder persists audit entries.
type Recorder interface {
	Record(action string, inputs interface{}, outcome, subjectID, details string) (*models.PDREntry, error)
	History(subjectID string, limit int) ([]models.PDREntry, error)
}

// Service provides the engine business logic.
type Service struct {
	tasks     *tasks.Store
	creatures *creatures.Store
	pdr       Recorder
	log       *log.Logger

	maxFocusMinutes int
	injuryLabel     string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger for level-ups, injuries, and failures.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithMaxFocusMinutes caps the length of a focus session. Zero disables the cap.
func WithMaxFocusMinutes(n int) Option {
	return func(s *Service) { s.maxFocusMinutes = n }
}

// WithInjuryLabel overrides DefaultInjuryLabel.
func WithInjuryLabel(label string) Option {
	return func(s *Service) {
		if label != "" {
			s.injuryLabel = label
		}
	}
}

// NewService creates a new engine service.
func NewService(t *tasks.Store, c *creatures.Store, pdr Recorder, opts ...Option) *Service {
	s := &Service{
		tasks:       t,
		creatures:   c,
		pdr:         pdr,
		log:         log.Default(),
		injuryLabel: DefaultInjuryLabel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// record writes a PDR entry. Audit failures are logged, never returned.
func (s *Service) record(action string, inputs interface{}, subjectID string, err error) {
	outcome, details := audit.OutcomeSuccess, ""
	if err != nil {
		outcome, details = audit.OutcomeError, err.Error()
	}
	if _, werr := s.pdr.Record(action, inputs, outcome, subjectID, details); werr != nil {
		s.log.Printf("audit: record %s: %v", action, werr)
	}
}

// --- Task Operations ---

// AddTask creates a new task.
func (s *Service) AddTask(in tasks.NewTask) (*models.Task, error) {
	task, err := s.tasks.AddTask(in)
	id := ""
	if task != nil {
		id = task.ID
	}
	s.record("task.add", map[string]interface{}{"title": in.Title, "goal": in.CompletionGoal, "unit": in.MeasurementUnit}, id, err)
	return task, err
}

// Task retrieves a task by ID.
func (s *Service) Task(id string) (*models.Task, error) {
	return s.tasks.Task(id)
}

// Tasks returns all tasks, open ones first, each group ordered by deadline.
func (s *Service) Tasks() []models.Task {
	list := s.tasks.Tasks()
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].IsCompleted != list[j].IsCompleted {
			return !list[i].IsCompleted
		}
		return list[i].Deadline.Before(list[j].Deadline)
	})
	return list
}

// UpdateTask edits a task.
func (s *Service) UpdateTask(id string, patch tasks.TaskPatch) (*models.Task, error) {
	task, err := s.tasks.UpdateTask(id, patch)
	s.record("task.update", map[string]string{"id": id}, id, err)
	return task, err
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(id string) error {
	err := s.tasks.DeleteTask(id)
	s.record("task.delete", map[string]string{"id": id}, id, err)
	return err
}

// UpdateTaskProgress sets a task's progress.
func (s *Service) UpdateTaskProgress(id string, progress float64) (*models.Task, error) {
	task, err := s.tasks.UpdateTaskProgress(id, progress)
	s.record("task.progress", map[string]interface{}{"id": id, "progress": progress}, id, err)
	return task, err
}

// CompleteResult describes the effect of CompleteTask.
type CompleteResult struct {
	Task      *models.Task
	Creatures []creatures.StatsResult
	Currency  int
}

// CompleteTask completes a task and awards TaskCompletionXP to every
// creature linked to it.
func (s *Service) CompleteTask(id string) (*CompleteResult, error) {
	task, err := s.tasks.CompleteTask(id)
	s.record("task.complete", map[string]string{"id": id}, id, err)
	if err != nil {
		return nil, err
	}

	res := &CompleteResult{Task: task}
	for _, c := range s.creatures.CreaturesForTask(id) {
		xp := c.Experience + TaskCompletionXP
		stats, err := s.creatures.UpdateCreatureStats(c.ID, creatures.StatsPatch{Experience: &xp})
		if err != nil {
			s.log.Printf("complete task %s: award xp to %s: %v", id, c.ID, err)
			return nil, err
		}
		s.noteProgress(stats)
		res.Creatures = append(res.Creatures, *stats)
	}
	res.Currency = s.tasks.Economy().VirtualCurrency
	return res, nil
}

// --- Focus Operations ---

// StartFocusSession opens a focus session on a task.
func (s *Service) StartFocusSession(taskID string, minutes int, collaborators []string) (*models.FocusSession, error) {
	inputs := map[string]interface{}{"task_id": taskID, "minutes": minutes}
	if s.maxFocusMinutes > 0 && minutes > s.maxFocusMinutes {
		s.record("focus.start", inputs, taskID, ErrFocusTooLong)
		return nil, ErrFocusTooLong
	}
	fs, err := s.tasks.StartFocusSession(taskID, minutes, collaborators)
	subject := taskID
	if fs != nil {
		subject = fs.ID
	}
	s.record("focus.start", inputs, subject, err)
	return fs, err
}

// EndFocusSession ends a session without touching any creature.
func (s *Service) EndFocusSession(sessionID string, completed bool) (*models.FocusSession, error) {
	fs, err := s.tasks.EndFocusSession(sessionID, completed)
	s.record(focusAction(completed), map[string]interface{}{"session_id": sessionID}, sessionID, err)
	return fs, err
}

// Session retrieves a focus session by ID.
func (s *Service) Session(id string) (*models.FocusSession, error) {
	return s.tasks.Session(id)
}

// Sessions lists the sessions of a task, or all sessions for "".
func (s *Service) Sessions(taskID string) []models.FocusSession {
	return s.tasks.Sessions(taskID)
}

// ActiveSession returns the task's active session, if any.
func (s *Service) ActiveSession(taskID string) (*models.FocusSession, bool) {
	return s.tasks.ActiveSession(taskID)
}

func focusAction(completed bool) string {
	if completed {
		return "focus.complete"
	}
	return "focus.abort"
}

// --- Economy Operations ---

// Economy returns the currency and legacy creature state.
func (s *Service) Economy() models.Economy {
	return s.tasks.Economy()
}

// AddVirtualCurrency credits currency.
func (s *Service) AddVirtualCurrency(amount int) (int, error) {
	balance, err := s.tasks.AddVirtualCurrency(amount)
	s.record("economy.credit", map[string]int{"amount": amount}, "", err)
	return balance, err
}

// UpdateCreatureHealth adjusts the legacy creature health.
func (s *Service) UpdateCreatureHealth(delta int) (int, error) {
	health, err := s.tasks.UpdateCreatureHealth(delta)
	s.record("economy.health", map[string]int{"delta": delta}, "", err)
	return health, err
}

// UpdateCreatureLevel sets the legacy creature level.
func (s *Service) UpdateCreatureLevel(level int) error {
	err := s.tasks.UpdateCreatureLevel(level)
	s.record("economy.level", map[string]int{"level": level}, "", err)
	return err
}

// RewardCatalog returns the reward shop items.
func (s *Service) RewardCatalog() []tasks.Reward {
	return tasks.RewardCatalog()
}

// RedeemReward buys a reward shop item.
func (s *Service) RedeemReward(code string) (*models.Redemption, error) {
	red, err := s.tasks.RedeemReward(code)
	s.record("reward.redeem", map[string]string{"code": code}, code, err)
	return red, err
}

// --- Creature Operations ---

// CreateCreature hatches a creature. A non-empty taskID must name an
// existing task.
func (s *Service) CreateCreature(category, taskID string) (*models.Creature, error) {
	inputs := map[string]string{"category": category, "task_id": taskID}
	if taskID != "" {
		if _, err := s.tasks.Task(taskID); err != nil {
			s.record("creature.create", inputs, taskID, err)
			return nil, err
		}
	}
	c, err := s.creatures.CreateCreature(category, taskID)
	subject := ""
	if c != nil {
		subject = c.ID
	}
	s.record("creature.create", inputs, subject, err)
	return c, err
}

// AddTaskToCreature links an existing task to a creature.
func (s *Service) AddTaskToCreature(creatureID, taskID string) (*models.Creature, error) {
	inputs := map[string]string{"creature_id": creatureID, "task_id": taskID}
	if _, err := s.tasks.Task(taskID); err != nil {
		s.record("creature.link", inputs, creatureID, err)
		return nil, err
	}
	c, err := s.creatures.AddTaskToCreature(creatureID, taskID)
	s.record("creature.link", inputs, creatureID, err)
	return c, err
}

// UpdateCreatureStats merges stats into a creature and applies leveling.
func (s *Service) UpdateCreatureStats(creatureID string, patch creatures.StatsPatch) (*creatures.StatsResult, error) {
	res, err := s.creatures.UpdateCreatureStats(creatureID, patch)
	s.record("creature.stats", patch, creatureID, err)
	if err != nil {
		return nil, err
	}
	s.noteProgress(res)
	return res, nil
}

// AddInjury injures a creature.
func (s *Service) AddInjury(creatureID, label string) (*models.Creature, error) {
	if label == "" {
		label = s.injuryLabel
	}
	c, err := s.creatures.AddInjury(creatureID, label)
	s.record("creature.injure", map[string]string{"label": label}, creatureID, err)
	if err == nil {
		s.log.Printf("creature %s injured: %s (health %d, happiness %d)", c.Name, label, c.Health, c.Happiness)
	}
	return c, err
}

// HealCreature heals a creature.
func (s *Service) HealCreature(creatureID string) (*models.Creature, error) {
	c, err := s.creatures.HealCreature(creatureID)
	s.record("creature.heal", map[string]string{"id": creatureID}, creatureID, err)
	return c, err
}

// FeedCreature feeds a creature.
func (s *Service) FeedCreature(creatureID string) (*models.Creature, error) {
	c, err := s.creatures.FeedCreature(creatureID)
	s.record("creature.feed", map[string]string{"id": creatureID}, creatureID, err)
	return c, err
}

// SelectCreature changes the selected creature.
func (s *Service) SelectCreature(creatureID string) error {
	err := s.creatures.SelectCreature(creatureID)
	s.record("creature.select", map[string]string{"id": creatureID}, creatureID, err)
	return err
}

// Creature retrieves a creature by ID.
func (s *Service) Creature(id string) (*models.Creature, error) {
	return s.creatures.Creature(id)
}

// Creatures returns all creatures.
func (s *Service) Creatures() []models.Creature {
	return s.creatures.Creatures()
}

// Selected returns the selected creature, if it exists.
func (s *Service) Selected() (*models.Creature, bool) {
	return s.creatures.Selected()
}

// CreaturesForTask returns the creatures linked to a task.
func (s *Service) CreaturesForTask(taskID string) []models.Creature {
	return s.creatures.CreaturesForTask(taskID)
}

// History returns recent audit entries for a subject, or all for "".
func (s *Service) History(subjectID string, limit int) ([]models.PDREntry, error) {
	return s.pdr.History(subjectID, limit)
}

// noteProgress logs and records level-ups and evolutions.
func (s *Service) noteProgress(res *creatures.StatsResult) {
	c := res.Creature
	if res.LevelUp {
		s.log.Printf("creature %s reached level %d", c.Name, c.Level)
		s.record("creature.levelup", map[string]int{"from": res.LevelBefore, "to": c.Level}, c.ID, nil)
	}
	if res.Evolved {
		s.log.Printf("creature %s evolved: %s -> %s", c.Name, res.StageBefore, c.EvolutionStage)
		s.record("creature.evolve", map[string]string{"from": string(res.StageBefore), "to": string(c.EvolutionStage)}, c.ID, nil)
	}
}
