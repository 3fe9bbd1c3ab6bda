// Package tasks owns tasks, focus sessions, and the currency economy.
//
// A Store keeps its whole state in memory and writes a full JSON snapshot
// through its Persister after every successful mutation. A mutation whose
// snapshot cannot be written is rolled back.
package tasks

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/fentz26/critterfocus/internal/models"
	"github.com/google/uuid"
)

// SnapshotName is the key the task store persists under.
const SnapshotName = "task-store"

// Defaults for a fresh economy.
const (
	DefaultCreatureHealth = 100
	DefaultCreatureLevel  = 1
)

// Persister loads and saves named snapshots. Load returns nil, nil when no
// snapshot exists.
type Persister interface {
	Load(name string) ([]byte, error)
	Save(name string, data []byte) error
}

// Snapshot is the persisted form of a Store.
type Snapshot struct {
	Tasks         []models.Task         `json:"tasks"`
	FocusSessions []models.FocusSession `json:"focusSessions"`
	models.Economy
}

// DefaultSnapshot returns the state of a store that has never been saved.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Tasks:         []models.Task{},
		FocusSessions: []models.FocusSession{},
		Economy: models.Economy{
			VirtualCurrency: 0,
			CreatureHealth:  DefaultCreatureHealth,
			CreatureLevel:   DefaultCreatureLevel,
		},
	}
}

// Store provides task, session, and economy operations.
type Store struct {
	mu    sync.Mutex
	port  Persister
	now   func() time.Time
	newID func() string
	state Snapshot
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New creates a Store and rehydrates it from the port's last snapshot.
func New(port Persister, opts ...Option) (*Store, error) {
	s := &Store{
		port:  port,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
		state: DefaultSnapshot(),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := port.Load(SnapshotName)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", SnapshotName, err)
	}
	if data != nil {
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("decode %s: %w", SnapshotName, err)
		}
		if snap.Tasks == nil {
			snap.Tasks = []models.Task{}
		}
		if snap.FocusSessions == nil {
			snap.FocusSessions = []models.FocusSession{}
		}
		s.state = snap
	}
	return s, nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// mutate applies fn and persists the result. Callers must hold s.mu.
func (s *Store) mutate(fn func(st *Snapshot) error) error {
	prev := s.state.clone()
	if err := fn(&s.state); err != nil {
		s.state = prev
		return err
	}
	data, err := json.Marshal(s.state)
	if err != nil {
		s.state = prev
		return fmt.Errorf("encode %s: %w", SnapshotName, err)
	}
	if err := s.port.Save(SnapshotName, data); err != nil {
		s.state = prev
		return fmt.Errorf("save %s: %w", SnapshotName, err)
	}
	return nil
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

func (st *Snapshot) clone() Snapshot {
	out := Snapshot{
		Tasks:         make([]models.Task, len(st.Tasks)),
		FocusSessions: make([]models.FocusSession, len(st.FocusSessions)),
		Economy:       st.Economy,
	}
	for i := range st.Tasks {
		out.Tasks[i] = cloneTask(st.Tasks[i])
	}
	for i := range st.FocusSessions {
		out.FocusSessions[i] = cloneSession(st.FocusSessions[i])
	}
	if st.Redemptions != nil {
		out.Redemptions = append([]models.Redemption(nil), st.Redemptions...)
	}
	return out
}

func cloneTask(t models.Task) models.Task {
	if t.SharedWith != nil {
		t.SharedWith = append([]string(nil), t.SharedWith...)
	}
	return t
}

func cloneSession(fs models.FocusSession) models.FocusSession {
	if fs.Collaborators != nil {
		fs.Collaborators = append([]string(nil), fs.Collaborators...)
	}
	if fs.EndTime != nil {
		end := *fs.EndTime
		fs.EndTime = &end
	}
	return fs
}
