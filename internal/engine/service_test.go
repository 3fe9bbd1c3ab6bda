package engine

import (
	"bytes"
	"errors"
	"io"
	"log"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fentz26/critterfocus/internal/audit"
	"github.com/fentz26/critterfocus/internal/creatures"
	"github.com/fentz26/critterfocus/internal/models"
	"github.com/fentz26/critterfocus/internal/store"
	"github.com/fentz26/critterfocus/internal/tasks"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	svc *Service
	db  *store.Store
	log *bytes.Buffer
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	db, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	clock := func() time.Time { return testNow }
	ts, err := tasks.New(db, tasks.WithClock(clock))
	if err != nil {
		t.Fatalf("tasks.New failed: %v", err)
	}
	cs, err := creatures.New(db, creatures.WithClock(clock))
	if err != nil {
		t.Fatalf("creatures.New failed: %v", err)
	}

	buf := &bytes.Buffer{}
	opts = append([]Option{WithLogger(log.New(buf, "", 0))}, opts...)
	return &testEnv{
		svc: NewService(ts, cs, audit.NewPDRWriter(db), opts...),
		db:  db,
		log: buf,
	}
}

func (e *testEnv) addPagesTask(t *testing.T, goal float64) *models.Task {
	t.Helper()
	task, err := e.svc.AddTask(tasks.NewTask{
		Title:           "Read chapter 3",
		Deadline:        testNow.Add(48 * time.Hour),
		CompletionGoal:  goal,
		MeasurementUnit: models.UnitPages,
	})
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	return task
}

func TestApplyFocusOutcomeCompleted(t *testing.T) {
	e := newTestEnv(t)
	task := e.addPagesTask(t, 10)

	c, err := e.svc.CreateCreature("study", "")
	if err != nil {
		t.Fatalf("CreateCreature failed: %v", err)
	}
	if c.Appearance.Emoji != "🦉" || c.Level != 1 || c.EvolutionStage != models.StageBaby {
		t.Errorf("Unexpected new study creature: %+v", c)
	}

	if _, err := e.svc.StartFocusSession(task.ID, 25, nil); err != nil {
		t.Fatalf("StartFocusSession failed: %v", err)
	}

	res, err := e.svc.ApplyFocusOutcome(task.ID, c.ID, FocusOutcome{Completed: true, ProgressDelta: 1})
	if err != nil {
		t.Fatalf("ApplyFocusOutcome failed: %v", err)
	}

	if res.Session.IsActive || res.Session.Outcome != models.OutcomeCompleted || res.Session.EndTime == nil {
		t.Errorf("Session should be ended as completed: %+v", res.Session)
	}
	if res.Currency != 25 {
		t.Errorf("Expected 25 currency, got %d", res.Currency)
	}
	if eco := e.svc.Economy(); eco.CreatureHealth != 100 {
		t.Errorf("Legacy health should stay capped at 100, got %d", eco.CreatureHealth)
	}
	if res.Task.CurrentProgress != 1 || res.Task.IsCompleted {
		t.Errorf("Expected progress 1 and not completed, got %+v", res.Task)
	}
	if res.Creature.Experience != 25 || res.Creature.Level != 1 || res.LevelUp {
		t.Errorf("Expected 25 xp at level 1, got %+v", res.Creature)
	}
	if !res.Linked || !res.Creature.HasTask(task.ID) {
		t.Error("Task should be linked to the creature")
	}
	if _, ok := e.svc.ActiveSession(task.ID); ok {
		t.Error("No session should remain active")
	}

	// A second session must not link the task twice.
	e.svc.StartFocusSession(task.ID, 25, nil)
	res, err = e.svc.ApplyFocusOutcome(task.ID, c.ID, FocusOutcome{Completed: true, ProgressDelta: 1})
	if err != nil {
		t.Fatalf("second ApplyFocusOutcome failed: %v", err)
	}
	if res.Linked || len(res.Creature.AssociatedTaskIDs) != 1 {
		t.Errorf("Expected a single link, got %v", res.Creature.AssociatedTaskIDs)
	}
}

func TestApplyFocusOutcomeClampsProgress(t *testing.T) {
	e := newTestEnv(t)
	task := e.addPagesTask(t, 10)
	e.svc.UpdateTaskProgress(task.ID, 9.5)

	e.svc.StartFocusSession(task.ID, 30, nil)
	res, err := e.svc.ApplyFocusOutcome(task.ID, "", FocusOutcome{Completed: true, ProgressDelta: 3})
	if err != nil {
		t.Fatalf("ApplyFocusOutcome failed: %v", err)
	}
	if res.Task.CurrentProgress != 10 {
		t.Errorf("Expected progress clamped to 10, got %v", res.Task.CurrentProgress)
	}
	if res.Creature != nil {
		t.Error("No creature should be involved")
	}
	if res.Currency != 30 {
		t.Errorf("Expected 30 currency, got %d", res.Currency)
	}
}

func TestApplyFocusOutcomeAbortedInjures(t *testing.T) {
	e := newTestEnv(t)
	task := e.addPagesTask(t, 10)
	c, _ := e.svc.CreateCreature("fitness", task.ID)
	health, happiness := 10, 5
	e.svc.UpdateCreatureStats(c.ID, creatures.StatsPatch{Health: &health, Happiness: &happiness})

	e.svc.StartFocusSession(task.ID, 25, nil)
	res, err := e.svc.ApplyFocusOutcome(task.ID, c.ID, FocusOutcome{Completed: false})
	if err != nil {
		t.Fatalf("ApplyFocusOutcome failed: %v", err)
	}

	if res.Session.Outcome != models.OutcomeAborted || res.Session.IsActive {
		t.Errorf("Session should be ended as aborted: %+v", res.Session)
	}
	if res.Creature.Health != 0 || res.Creature.Happiness != 0 {
		t.Errorf("Expected 0/0 after injury, got %d/%d", res.Creature.Health, res.Creature.Happiness)
	}
	if res.Injury != DefaultInjuryLabel || len(res.Creature.Injuries) != 1 {
		t.Errorf("Expected default injury label, got %v", res.Creature.Injuries)
	}
	if res.Currency != 0 {
		t.Errorf("Aborted session should pay nothing, got %d", res.Currency)
	}
	if eco := e.svc.Economy(); eco.CreatureHealth != 85 {
		t.Errorf("Expected legacy health 85, got %d", eco.CreatureHealth)
	}
	if res.Task.CurrentProgress != 0 {
		t.Errorf("Aborted session should not add progress, got %v", res.Task.CurrentProgress)
	}
	if !strings.Contains(e.log.String(), "injured") {
		t.Errorf("Expected injury to be logged, got %q", e.log.String())
	}
}

func TestApplyFocusOutcomeValidatesFirst(t *testing.T) {
	e := newTestEnv(t)
	task := e.addPagesTask(t, 10)

	if _, err := e.svc.ApplyFocusOutcome(task.ID, "", FocusOutcome{Completed: true}); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("Expected ErrNoActiveSession, got %v", err)
	}
	if _, err := e.svc.ApplyFocusOutcome("missing", "", FocusOutcome{Completed: true}); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown task, got %v", err)
	}

	fs, _ := e.svc.StartFocusSession(task.ID, 25, nil)
	_, err := e.svc.ApplyFocusOutcome(task.ID, "ghost", FocusOutcome{Completed: true, ProgressDelta: 1})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown creature, got %v", err)
	}
	_, err = e.svc.ApplyFocusOutcome(task.ID, "", FocusOutcome{Completed: true, ProgressDelta: -1})
	if !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for negative delta, got %v", err)
	}

	active, ok := e.svc.ActiveSession(task.ID)
	if !ok || active.ID != fs.ID {
		t.Error("Failed validation must leave the session active")
	}
	if eco := e.svc.Economy(); eco.VirtualCurrency != 0 {
		t.Errorf("Failed validation must not pay out, got %d", eco.VirtualCurrency)
	}
}

func TestCompleteTaskAwardsLinkedCreatures(t *testing.T) {
	e := newTestEnv(t)
	task := e.addPagesTask(t, 10)
	linked, _ := e.svc.CreateCreature("reading", task.ID)
	other, _ := e.svc.CreateCreature("gaming", "")

	res, err := e.svc.CompleteTask(task.ID)
	if err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}
	if !res.Task.IsCompleted || res.Task.CurrentProgress != 10 {
		t.Errorf("Task should be complete at goal: %+v", res.Task)
	}
	if res.Currency != tasks.TaskCompletionReward {
		t.Errorf("Expected %d currency, got %d", tasks.TaskCompletionReward, res.Currency)
	}
	if len(res.Creatures) != 1 || res.Creatures[0].Creature.ID != linked.ID {
		t.Fatalf("Expected only the linked creature to gain xp, got %+v", res.Creatures)
	}
	got := res.Creatures[0]
	if !got.LevelUp || got.Creature.Level != 2 || got.Creature.Experience != 0 {
		t.Errorf("Expected level 2 with 0 xp, got %+v", got.Creature)
	}
	if o, _ := e.svc.Creature(other.ID); o.Experience != 0 {
		t.Errorf("Unlinked creature should not gain xp, got %d", o.Experience)
	}

	again, err := e.svc.CompleteTask(task.ID)
	if err != nil {
		t.Fatalf("second CompleteTask failed: %v", err)
	}
	if again.Currency != 2*tasks.TaskCompletionReward {
		t.Errorf("Expected rewards on every call, got %d", again.Currency)
	}
}

func TestStartFocusSessionLimit(t *testing.T) {
	e := newTestEnv(t, WithMaxFocusMinutes(120))
	task := e.addPagesTask(t, 10)

	if _, err := e.svc.StartFocusSession(task.ID, 121, nil); !errors.Is(err, ErrFocusTooLong) {
		t.Errorf("Expected ErrFocusTooLong, got %v", err)
	}
	if _, err := e.svc.StartFocusSession(task.ID, 120, nil); err != nil {
		t.Errorf("Expected 120 minutes to be accepted, got %v", err)
	}
	if _, err := e.svc.StartFocusSession(task.ID, 10, nil); !errors.Is(err, models.ErrConflict) {
		t.Errorf("Expected ErrConflict for a second active session, got %v", err)
	}
}

func TestCreatureLinksRequireTask(t *testing.T) {
	e := newTestEnv(t)

	if _, err := e.svc.CreateCreature("art", "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	c, _ := e.svc.CreateCreature("art", "")
	if _, err := e.svc.AddTaskToCreature(c.ID, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestHistoryRecordsOutcomes(t *testing.T) {
	e := newTestEnv(t)
	task := e.addPagesTask(t, 10)
	e.svc.CompleteTask("missing")
	e.svc.CompleteTask(task.ID)

	entries, err := e.svc.History("", 10)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	var failed, succeeded int
	for _, en := range entries {
		if en.Action != "task.complete" {
			continue
		}
		switch en.Outcome {
		case audit.OutcomeError:
			failed++
		case audit.OutcomeSuccess:
			succeeded++
		}
	}
	if failed != 1 || succeeded != 1 {
		t.Errorf("Expected one failed and one successful completion, got %d/%d", failed, succeeded)
	}

	forTask, _ := e.svc.History(task.ID, 10)
	if len(forTask) != 2 {
		t.Errorf("Expected 2 entries for the task, got %d", len(forTask))
	}
}

func TestEvolutionIsLogged(t *testing.T) {
	e := newTestEnv(t)
	c, _ := e.svc.CreateCreature("coding", "")

	for i := 0; i < 2; i++ {
		cur, _ := e.svc.Creature(c.ID)
		xp := cur.Experience + 1000
		e.svc.UpdateCreatureStats(c.ID, creatures.StatsPatch{Experience: &xp})
	}
	got, _ := e.svc.Creature(c.ID)
	if got.Level != 3 || got.EvolutionStage != models.StageChild {
		t.Fatalf("Expected level 3 child, got level %d %s", got.Level, got.EvolutionStage)
	}
	if !strings.Contains(e.log.String(), "evolved: baby -> child") {
		t.Errorf("Expected evolution log line, got %q", e.log.String())
	}
}

func TestStatus(t *testing.T) {
	e := newTestEnv(t)
	a := e.addPagesTask(t, 10)
	b := e.addPagesTask(t, 5)
	e.svc.CompleteTask(b.ID)
	e.svc.StartFocusSession(a.ID, 25, nil)
	c, _ := e.svc.CreateCreature("garden", a.ID)

	st := e.svc.Status()
	if st.OpenTasks != 1 || st.CompletedTasks != 1 {
		t.Errorf("Expected 1 open and 1 completed, got %d/%d", st.OpenTasks, st.CompletedTasks)
	}
	if len(st.ActiveSessions) != 1 || st.ActiveSessions[0].TaskID != a.ID {
		t.Errorf("Expected one active session on %s, got %+v", a.ID, st.ActiveSessions)
	}
	if st.Creatures != 1 || st.Selected == nil || st.Selected.ID != c.ID {
		t.Errorf("Unexpected creature summary: %+v", st)
	}
	if st.Economy.VirtualCurrency != tasks.TaskCompletionReward {
		t.Errorf("Expected %d currency, got %d", tasks.TaskCompletionReward, st.Economy.VirtualCurrency)
	}
}

func TestTasksOrdering(t *testing.T) {
	e := newTestEnv(t)
	late, _ := e.svc.AddTask(tasks.NewTask{Title: "late", Deadline: testNow.Add(72 * time.Hour), CompletionGoal: 1, MeasurementUnit: models.UnitHours})
	done, _ := e.svc.AddTask(tasks.NewTask{Title: "done", Deadline: testNow, CompletionGoal: 1, MeasurementUnit: models.UnitHours})
	soon, _ := e.svc.AddTask(tasks.NewTask{Title: "soon", Deadline: testNow.Add(time.Hour), CompletionGoal: 1, MeasurementUnit: models.UnitHours})
	e.svc.CompleteTask(done.ID)

	list := e.svc.Tasks()
	want := []string{soon.ID, late.ID, done.ID}
	for i, id := range want {
		if list[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, list[i].Title)
		}
	}
}

func TestNewServiceDefaults(t *testing.T) {
	db, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New failed: %v", err)
	}
	defer db.Close()
	ts, _ := tasks.New(db)
	cs, _ := creatures.New(db)

	svc := NewService(ts, cs, audit.NewPDRWriter(db), WithInjuryLabel(""), WithLogger(log.New(io.Discard, "", 0)))
	if svc.injuryLabel != DefaultInjuryLabel {
		t.Errorf("Empty label should keep the default, got %q", svc.injuryLabel)
	}
	if svc.maxFocusMinutes != 0 {
		t.Errorf("Expected no focus cap by default, got %d", svc.maxFocusMinutes)
	}
}
