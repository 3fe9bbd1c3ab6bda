package creatures

import (
	"fmt"
	"strings"

	"github.com/fentz26/critterfocus/internal/models"
)

// StatsPatch holds absolute stat values to merge into a creature.
type StatsPatch struct {
	Health     *int
	Experience *int
	Happiness  *int
}

// StatsResult describes the effect of UpdateCreatureStats.
type StatsResult struct {
	Creature    *models.Creature
	LevelBefore int
	LevelUp     bool
	StageBefore models.EvolutionStage
	Evolved     bool
}

// CreateCreature hatches a creature for category, optionally bound to a task,
// and selects it.
func (s *Store) CreateCreature(category, taskID string) (*models.Creature, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, fmt.Errorf("category is required: %w", models.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	c := models.Creature{
		ID:                s.newID(),
		Name:              NameFor(category),
		Category:          category,
		Level:             StartLevel,
		Health:            StartHealth,
		Experience:        0,
		Happiness:         StartHappiness,
		AssociatedTaskIDs: []string{},
		Injuries:          []string{},
		EvolutionStage:    models.StageBaby,
		Appearance:        AppearanceFor(ParseCategory(category)),
		CreatedAt:         now,
		LastFed:           now,
	}
	if taskID != "" {
		c.AssociatedTaskIDs = append(c.AssociatedTaskIDs, taskID)
	}
	c = cloneCreature(c)

	err := s.mutate(func(st *Snapshot) error {
		st.Creatures = append(st.Creatures, c)
		id := c.ID
		st.SelectedCreatureID = &id
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := cloneCreature(c)
	return &out, nil
}

// AddTaskToCreature appends taskID to the creature's task list. Duplicates
// are kept.
func (s *Store) AddTaskToCreature(creatureID, taskID string) (*models.Creature, error) {
	if taskID == "" {
		return nil, fmt.Errorf("task id is required: %w", models.ErrInvalidArgument)
	}
	return s.update(creatureID, func(c *models.Creature) error {
		c.AssociatedTaskIDs = append(c.AssociatedTaskIDs, taskID)
		return nil
	})
}

// UpdateCreatureStats merges patch into the creature, then applies at most
// one level-up.
func (s *Store) UpdateCreatureStats(creatureID string, patch StatsPatch) (*StatsResult, error) {
	res := &StatsResult{}
	c, err := s.update(creatureID, func(c *models.Creature) error {
		res.LevelBefore = c.Level
		res.StageBefore = c.EvolutionStage
		if patch.Health != nil {
			c.Health = models.ClampStat(*patch.Health)
		}
		if patch.Happiness != nil {
			c.Happiness = models.ClampStat(*patch.Happiness)
		}
		if patch.Experience != nil {
			c.Experience = *patch.Experience
			if c.Experience < 0 {
				c.Experience = 0
			}
		}
		res.LevelUp = applyLevelUp(c)
		res.Evolved = c.EvolutionStage != res.StageBefore
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Creature = c
	return res, nil
}

// AddInjury records an injury and lowers health and happiness.
func (s *Store) AddInjury(creatureID, label string) (*models.Creature, error) {
	return s.update(creatureID, func(c *models.Creature) error {
		c.Injuries = append(c.Injuries, label)
		c.Health = models.ClampStat(c.Health - InjuryHealthPenalty)
		c.Happiness = models.ClampStat(c.Happiness - InjuryHappinessPenalty)
		return nil
	})
}

// HealCreature clears all injuries and restores health and happiness.
func (s *Store) HealCreature(creatureID string) (*models.Creature, error) {
	return s.update(creatureID, func(c *models.Creature) error {
		c.Injuries = []string{}
		c.Health = models.ClampStat(c.Health + HealHealth)
		c.Happiness = models.ClampStat(c.Happiness + HealHappiness)
		return nil
	})
}

// FeedCreature stamps LastFed and cheers the creature up.
func (s *Store) FeedCreature(creatureID string) (*models.Creature, error) {
	return s.update(creatureID, func(c *models.Creature) error {
		c.LastFed = s.now().UTC()
		c.Happiness = models.ClampStat(c.Happiness + FeedHappiness)
		return nil
	})
}

// SelectCreature points the selection at creatureID. The id is not checked.
func (s *Store) SelectCreature(creatureID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(func(st *Snapshot) error {
		id := creatureID
		st.SelectedCreatureID = &id
		return nil
	})
}

// Creature returns a copy of the creature with the given id.
func (s *Store) Creature(id string) (*models.Creature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.state.index(id)
	if i < 0 {
		return nil, creatureNotFound(id)
	}
	out := cloneCreature(s.state.Creatures[i])
	return &out, nil
}

// Creatures returns copies of all creatures in creation order.
func (s *Store) Creatures() []models.Creature {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Creature, len(s.state.Creatures))
	for i := range s.state.Creatures {
		out[i] = cloneCreature(s.state.Creatures[i])
	}
	return out
}

// Selected returns the selected creature. ok is false when nothing is
// selected or the selection points at an unknown id.
func (s *Store) Selected() (c *models.Creature, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.SelectedCreatureID == nil {
		return nil, false
	}
	i := s.state.index(*s.state.SelectedCreatureID)
	if i < 0 {
		return nil, false
	}
	out := cloneCreature(s.state.Creatures[i])
	return &out, true
}

// SelectedID returns the raw selection pointer.
func (s *Store) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.SelectedCreatureID == nil {
		return ""
	}
	return *s.state.SelectedCreatureID
}

// CreaturesForTask returns the creatures whose task list contains taskID.
func (s *Store) CreaturesForTask(taskID string) []models.Creature {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Creature
	for i := range s.state.Creatures {
		if s.state.Creatures[i].HasTask(taskID) {
			out = append(out, cloneCreature(s.state.Creatures[i]))
		}
	}
	return out
}
