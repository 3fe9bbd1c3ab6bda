package tasks

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/fentz26/critterfocus/internal/models"
	"github.com/fentz26/critterfocus/internal/store"
)

type memPort struct {
	data    map[string][]byte
	saves   int
	failErr error
}

func newMemPort() *memPort {
	return &memPort{data: map[string][]byte{}}
}

func (p *memPort) Load(name string) ([]byte, error) {
	return p.data[name], nil
}

func (p *memPort) Save(name string, data []byte) error {
	if p.failErr != nil {
		return p.failErr
	}
	p.saves++
	p.data[name] = append([]byte(nil), data...)
	return nil
}

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestTaskStore(t *testing.T, port Persister) *Store {
	t.Helper()
	s, err := New(port, WithClock(func() time.Time { return testNow }), WithIDGenerator(sequentialIDs()))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func pagesTask(goal float64) NewTask {
	return NewTask{
		Title:           "Read chapter",
		Deadline:        testNow.Add(72 * time.Hour),
		CompletionGoal:  goal,
		MeasurementUnit: models.UnitPages,
	}
}

func TestNewDefaults(t *testing.T) {
	s := newTestTaskStore(t, newMemPort())

	eco := s.Economy()
	if eco.VirtualCurrency != 0 || eco.CreatureHealth != 100 || eco.CreatureLevel != 1 {
		t.Errorf("Unexpected default economy: %+v", eco)
	}
	if got := s.Tasks(); len(got) != 0 {
		t.Errorf("Expected no tasks, got %d", len(got))
	}
}

func TestNewRejectsCorruptSnapshot(t *testing.T) {
	port := newMemPort()
	port.data[SnapshotName] = []byte("{not json")

	if _, err := New(port); err == nil {
		t.Fatal("Expected error decoding corrupt snapshot")
	}
}

func TestAddTask(t *testing.T) {
	port := newMemPort()
	s := newTestTaskStore(t, port)

	task, err := s.AddTask(pagesTask(10))
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if task.ID != "id-1" {
		t.Errorf("Expected id-1, got %s", task.ID)
	}
	if !task.CreatedAt.Equal(testNow) {
		t.Errorf("Expected CreatedAt %v, got %v", testNow, task.CreatedAt)
	}
	if task.IsCompleted || task.CurrentProgress != 0 {
		t.Errorf("New task should start open with zero progress: %+v", task)
	}
	if port.saves != 1 {
		t.Errorf("Expected one snapshot write, got %d", port.saves)
	}
}

func TestAddTaskValidation(t *testing.T) {
	tests := []struct {
		name string
		edit func(*NewTask)
	}{
		{"blank title", func(n *NewTask) { n.Title = "   " }},
		{"missing deadline", func(n *NewTask) { n.Deadline = time.Time{} }},
		{"zero goal", func(n *NewTask) { n.CompletionGoal = 0 }},
		{"negative goal", func(n *NewTask) { n.CompletionGoal = -3 }},
		{"unknown unit", func(n *NewTask) { n.MeasurementUnit = "miles" }},
		{"custom without label", func(n *NewTask) { n.MeasurementUnit = models.UnitCustom }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port := newMemPort()
			s := newTestTaskStore(t, port)
			in := pagesTask(10)
			tt.edit(&in)

			_, err := s.AddTask(in)
			if !errors.Is(err, models.ErrInvalidArgument) {
				t.Fatalf("Expected ErrInvalidArgument, got %v", err)
			}
			if len(s.Tasks()) != 0 {
				t.Error("Invalid task should not be stored")
			}
			if port.saves != 0 {
				t.Error("Invalid task should not be persisted")
			}
		})
	}
}

func TestAddTaskCustomUnit(t *testing.T) {
	s := newTestTaskStore(t, newMemPort())

	in := pagesTask(5)
	in.MeasurementUnit = models.UnitCustom
	in.CustomUnit = " songs "
	task, err := s.AddTask(in)
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if task.UnitLabel() != "songs" {
		t.Errorf("Expected unit label songs, got %q", task.UnitLabel())
	}
}

func TestUpdateTask(t *testing.T) {
	s := newTestTaskStore(t, newMemPort())
	task, _ := s.AddTask(pagesTask(10))

	title := "Read two chapters"
	goal := 20.0
	updated, err := s.UpdateTask(task.ID, TaskPatch{Title: &title, CompletionGoal: &goal, SharedWith: []string{"sam"}})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if updated.Title != title || updated.CompletionGoal != goal {
		t.Errorf("Patch not applied: %+v", updated)
	}
	if updated.ID != task.ID || !updated.CreatedAt.Equal(task.CreatedAt) {
		t.Error("Identity fields must not change")
	}
	if !reflect.DeepEqual(updated.SharedWith, []string{"sam"}) {
		t.Errorf("Unexpected SharedWith: %v", updated.SharedWith)
	}

	bad := 0.0
	if _, err := s.UpdateTask(task.ID, TaskPatch{CompletionGoal: &bad}); !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
	got, _ := s.Task(task.ID)
	if got.CompletionGoal != goal {
		t.Errorf("Rejected patch must not change the task, goal=%v", got.CompletionGoal)
	}

	if _, err := s.UpdateTask("missing", TaskPatch{Title: &title}); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTaskKeepsSessions(t *testing.T) {
	s := newTestTaskStore(t, newMemPort())
	task, _ := s.AddTask(pagesTask(10))
	fs, err := s.StartFocusSession(task.ID, 25, nil)
	if err != nil {
		t.Fatalf("StartFocusSession failed: %v", err)
	}

	if err := s.DeleteTask(task.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if _, err := s.Task(task.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected deleted task to be gone, got %v", err)
	}
	if _, err := s.Session(fs.ID); err != nil {
		t.Errorf("Orphaned session should be kept: %v", err)
	}
	if err := s.DeleteTask(task.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestUpdateTaskProgress(t *testing.T) {
	s := newTestTaskStore(t, newMemPort())
	task, _ := s.AddTask(pagesTask(10))

	updated, err := s.UpdateTaskProgress(task.ID, 12.5)
	if err != nil {
		t.Fatalf("UpdateTaskProgress failed: %v", err)
	}
	if updated.CurrentProgress != 12.5 {
		t.Errorf("Progress must not be clamped, got %v", updated.CurrentProgress)
	}
	if updated.IsCompleted {
		t.Error("Progress alone must not complete a task")
	}

	if _, err := s.UpdateTaskProgress(task.ID, -1); !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
	if _, err := s.UpdateTaskProgress("missing", 1); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCompleteTaskRewardsEveryCall(t *testing.T) {
	s := newTestTaskStore(t, newMemPort())
	task, _ := s.AddTask(pagesTask(10))
	if _, err := s.UpdateCreatureHealth(-30); err != nil {
		t.Fatalf("UpdateCreatureHealth failed: %v", err)
	}
	s.UpdateTaskProgress(task.ID, 3)

	first, err := s.CompleteTask(task.ID)
	if err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}
	second, err := s.CompleteTask(task.ID)
	if err != nil {
		t.Fatalf("second CompleteTask failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Completing twice should leave the same task state: %+v vs %+v", first, second)
	}
	if !second.IsCompleted || second.CurrentProgress != 10 {
		t.Errorf("Expected completed task at goal, got %+v", second)
	}

	eco := s.Economy()
	if eco.VirtualCurrency != 100 {
		t.Errorf("Expected 2x50 currency, got %d", eco.VirtualCurrency)
	}
	if eco.CreatureHealth != 90 {
		t.Errorf("Expected health 70+10+10=90, got %d", eco.CreatureHealth)
	}

	s.CompleteTask(task.ID)
	if got := s.Economy().CreatureHealth; got != 100 {
		t.Errorf("Expected health capped at 100, got %d", got)
	}
}

func TestFocusSessionCompleted(t *testing.T) {
	s := newTestTaskStore(t, newMemPort())
	task, _ := s.AddTask(pagesTask(10))

	fs, err := s.StartFocusSession(task.ID, 25, []string{"ana"})
	if err != nil {
		t.Fatalf("StartFocusSession failed: %v", err)
	}
	if !fs.IsActive || fs.Duration != 25 || fs.TaskID != task.ID {
		t.Errorf("Unexpected session: %+v", fs)
	}
	if active, ok := s.ActiveSession(task.ID); !ok || active.ID != fs.ID {
		t.Error("Expected session to be active for task")
	}

	ended, err := s.EndFocusSession(fs.ID, true)
	if err != nil {
		t.Fatalf("EndFocusSession failed: %v", err)
	}
	if ended.IsActive || ended.EndTime == nil || ended.Outcome != models.OutcomeCompleted {
		t.Errorf("Unexpected ended session: %+v", ended)
	}

	eco := s.Economy()
	if eco.VirtualCurrency != 25 {
		t.Errorf("Expected 25 currency, got %d", eco.VirtualCurrency)
	}
	if eco.CreatureHealth != 100 {
		t.Errorf("Expected health capped at 100, got %d", eco.CreatureHealth)
	}
	if _, ok := s.ActiveSession(task.ID); ok {
		t.Error("No session should remain active")
	}
}

func TestFocusSessionAborted(t *testing.T) {
	s := newTestTaskStore(t, newMemPort())
	task, _ := s.AddTask(pagesTask(10))
	s.UpdateCreatureHealth(-90)

	fs, _ := s.StartFocusSession(task.ID, 30, nil)
	ended, err := s.EndFocusSession(fs.ID, false)
	if err != nil {
		t.Fatalf("EndFocusSession failed: %v", err)
	}
	if ended.Outcome != models.OutcomeAborted {
		t.Errorf("Expected aborted outcome, got %q", ended.Outcome)
	}

	eco := s.Economy()
	if eco.VirtualCurrency != 0 {
		t.Errorf("Aborted session must not pay, got %d", eco.VirtualCurrency)
	}
	if eco.CreatureHealth != 0 {
		t.Errorf("Expected health floored at 0, got %d", eco.CreatureHealth)
	}
}

func TestFocusSessionGuards(t *testing.T) {
	s := newTestTaskStore(t, newMemPort())
	task, _ := s.AddTask(pagesTask(10))

	if _, err := s.StartFocusSession("missing", 25, nil); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown task, got %v", err)
	}
	if _, err := s.StartFocusSession(task.ID, 0, nil); !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for zero duration, got %v", err)
	}

	fs, err := s.StartFocusSession(task.ID, 25, nil)
	if err != nil {
		t.Fatalf("StartFocusSession failed: %v", err)
	}
	if _, err := s.StartFocusSession(task.ID, 10, nil); !errors.Is(err, models.ErrConflict) {
		t.Errorf("Expected ErrConflict for second active session, got %v", err)
	}

	if _, err := s.EndFocusSession(fs.ID, true); err != nil {
		t.Fatalf("EndFocusSession failed: %v", err)
	}
	if _, err := s.EndFocusSession(fs.ID, true); !errors.Is(err, models.ErrConflict) {
		t.Errorf("Expected ErrConflict ending twice, got %v", err)
	}
	if got := s.Economy().VirtualCurrency; got != 25 {
		t.Errorf("Ending twice must not pay twice, got %d", got)
	}
	if _, err := s.EndFocusSession("missing", true); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if _, err := s.StartFocusSession(task.ID, 10, nil); err != nil {
		t.Errorf("A new session should start once the previous one ended: %v", err)
	}
	if got := len(s.Sessions(task.ID)); got != 2 {
		t.Errorf("Expected 2 sessions for task, got %d", got)
	}
}

func TestEconomyMutators(t *testing.T) {
	s := newTestTaskStore(t, newMemPort())

	if _, err := s.AddVirtualCurrency(-5); !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
	balance, err := s.AddVirtualCurrency(40)
	if err != nil || balance != 40 {
		t.Errorf("Expected balance 40, got %d (err=%v)", balance, err)
	}

	if h, _ := s.UpdateCreatureHealth(25); h != 100 {
		t.Errorf("Expected health capped at 100, got %d", h)
	}
	if h, _ := s.UpdateCreatureHealth(-250); h != 0 {
		t.Errorf("Expected health floored at 0, got %d", h)
	}

	if err := s.UpdateCreatureLevel(7); err != nil {
		t.Fatalf("UpdateCreatureLevel failed: %v", err)
	}
	if got := s.Economy().CreatureLevel; got != 7 {
		t.Errorf("Expected level set to 7, got %d", got)
	}
	if err := s.UpdateCreatureLevel(0); !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestRedeemReward(t *testing.T) {
	s := newTestTaskStore(t, newMemPort())
	s.AddVirtualCurrency(120)

	red, err := s.RedeemReward("Coffee")
	if err != nil {
		t.Fatalf("RedeemReward failed: %v", err)
	}
	if red.Code != "coffee" || red.Cost != 100 {
		t.Errorf("Unexpected redemption: %+v", red)
	}

	_, err = s.RedeemReward("hat")
	if !errors.Is(err, ErrInsufficientFunds) || !errors.Is(err, models.ErrConflict) {
		t.Errorf("Expected ErrInsufficientFunds, got %v", err)
	}
	if _, err := s.RedeemReward("unicorn"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	eco := s.Economy()
	if eco.VirtualCurrency != 20 || len(eco.Redemptions) != 1 {
		t.Errorf("Unexpected economy after redemption: %+v", eco)
	}
}

func TestFailedSaveRollsBack(t *testing.T) {
	port := newMemPort()
	s := newTestTaskStore(t, port)
	task, _ := s.AddTask(pagesTask(10))

	port.failErr = errors.New("disk full")
	if _, err := s.CompleteTask(task.ID); err == nil {
		t.Fatal("Expected save error")
	}

	got, _ := s.Task(task.ID)
	if got.IsCompleted {
		t.Error("Task must be rolled back after a failed save")
	}
	if s.Economy().VirtualCurrency != 0 {
		t.Error("Currency must be rolled back after a failed save")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	db, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New failed: %v", err)
	}
	defer db.Close()

	s := newTestTaskStore(t, db)
	task, _ := s.AddTask(pagesTask(10))
	custom := pagesTask(3)
	custom.MeasurementUnit = models.UnitCustom
	custom.CustomUnit = "songs"
	custom.SharedWith = []string{"ana", "li"}
	s.AddTask(custom)
	fs, _ := s.StartFocusSession(task.ID, 25, []string{"ana"})
	s.EndFocusSession(fs.ID, true)
	s.StartFocusSession(task.ID, 15, nil)
	s.UpdateTaskProgress(task.ID, 4.5)
	s.AddVirtualCurrency(100)
	s.RedeemReward("hat")
	s.UpdateCreatureLevel(3)

	before := s.Snapshot()

	reloaded, err := New(db)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	after := reloaded.Snapshot()

	if !reflect.DeepEqual(before, after) {
		t.Errorf("Snapshot changed across reload:\nbefore: %+v\nafter:  %+v", before, after)
	}
}
