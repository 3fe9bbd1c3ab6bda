// Package creatures owns the creature companions and their progression rules.
package creatures

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/fentz26/critterfocus/internal/models"
	"github.com/google/uuid"
)

// SnapshotName is the key the creature store persists under.
const SnapshotName = "creature-store"

// Persister loads and saves named snapshots. Load returns nil, nil when no
// snapshot exists.
type Persister interface {
	Load(name string) ([]byte, error)
	Save(name string, data []byte) error
}

// Snapshot is the persisted form of a Store.
type Snapshot struct {
	Creatures          []models.Creature `json:"creatures"`
	SelectedCreatureID *string           `json:"selectedCreatureId"`
}

// Store provides creature operations backed by a snapshot port.
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
		state: Snapshot{Creatures: []models.Creature{}},
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
		if snap.Creatures == nil {
			snap.Creatures = []models.Creature{}
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

// update runs fn on the creature with the given id and persists.
func (s *Store) update(id string, fn func(c *models.Creature) error) (*models.Creature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out models.Creature
	err := s.mutate(func(st *Snapshot) error {
		i := st.index(id)
		if i < 0 {
			return creatureNotFound(id)
		}
		if err := fn(&st.Creatures[i]); err != nil {
			return err
		}
		out = cloneCreature(st.Creatures[i])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (st *Snapshot) index(id string) int {
	for i := range st.Creatures {
		if st.Creatures[i].ID == id {
			return i
		}
	}
	return -1
}

func (st *Snapshot) clone() Snapshot {
	out := Snapshot{Creatures: make([]models.Creature, len(st.Creatures))}
	for i := range st.Creatures {
		out.Creatures[i] = cloneCreature(st.Creatures[i])
	}
	if st.SelectedCreatureID != nil {
		id := *st.SelectedCreatureID
		out.SelectedCreatureID = &id
	}
	return out
}

func cloneCreature(c models.Creature) models.Creature {
	c.AssociatedTaskIDs = append([]string{}, c.AssociatedTaskIDs...)
	c.Injuries = append([]string{}, c.Injuries...)
	c.Appearance.Accessories = append([]string{}, c.Appearance.Accessories...)
	c.Appearance.Traits = append([]string{}, c.Appearance.Traits...)
	return c
}

func creatureNotFound(id string) error {
	return fmt.Errorf("creature %s: %w", id, models.ErrNotFound)
}
