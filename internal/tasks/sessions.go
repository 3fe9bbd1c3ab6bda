package tasks

import (
	"fmt"

	"github.com/fentz26/critterfocus/internal/models"
)

// Legacy creature health effects of ending a focus session.
const (
	FocusCompletedHealth      = 5
	FocusAbortedHealthPenalty = 15
)

func (st *Snapshot) sessionIndex(id string) int {
	for i := range st.FocusSessions {
		if st.FocusSessions[i].ID == id {
			return i
		}
	}
	return -1
}

func (st *Snapshot) activeSessionIndex(taskID string) int {
	for i := range st.FocusSessions {
		if st.FocusSessions[i].TaskID == taskID && st.FocusSessions[i].IsActive {
			return i
		}
	}
	return -1
}

// StartFocusSession opens an active session on an existing task. A task may
// have at most one active session.
func (s *Store) StartFocusSession(taskID string, minutes int, collaborators []string) (*models.FocusSession, error) {
	if minutes <= 0 {
		return nil, invalid("focus duration must be positive, got %d", minutes)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var started models.FocusSession
	err := s.mutate(func(st *Snapshot) error {
		if st.taskIndex(taskID) < 0 {
			return taskNotFound(taskID)
		}
		if i := st.activeSessionIndex(taskID); i >= 0 {
			return fmt.Errorf("task %s already has active session %s: %w", taskID, st.FocusSessions[i].ID, models.ErrConflict)
		}
		fs := models.FocusSession{
			ID:        s.newID(),
			TaskID:    taskID,
			Duration:  minutes,
			IsActive:  true,
			StartTime: s.timestamp(),
		}
		if len(collaborators) > 0 {
			fs.Collaborators = append([]string(nil), collaborators...)
		}
		st.FocusSessions = append(st.FocusSessions, fs)
		started = cloneSession(fs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &started, nil
}

// EndFocusSession closes an active session. A completed session pays its
// planned minutes as currency and heals the legacy creature; an aborted one
// hurts it. A session can only be ended once.
func (s *Store) EndFocusSession(sessionID string, completed bool) (*models.FocusSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ended models.FocusSession
	err := s.mutate(func(st *Snapshot) error {
		i := st.sessionIndex(sessionID)
		if i < 0 {
			return sessionNotFound(sessionID)
		}
		fs := &st.FocusSessions[i]
		if !fs.IsActive {
			return fmt.Errorf("focus session %s already ended: %w", sessionID, models.ErrConflict)
		}

		end := s.timestamp()
		fs.IsActive = false
		fs.EndTime = &end
		if completed {
			fs.Outcome = models.OutcomeCompleted
			st.VirtualCurrency += fs.Duration
			st.CreatureHealth = models.ClampStat(st.CreatureHealth + FocusCompletedHealth)
		} else {
			fs.Outcome = models.OutcomeAborted
			st.CreatureHealth = models.ClampStat(st.CreatureHealth - FocusAbortedHealthPenalty)
		}
		ended = cloneSession(*fs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ended, nil
}

// Session returns a copy of the session with the given id.
func (s *Store) Session(id string) (*models.FocusSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.state.sessionIndex(id)
	if i < 0 {
		return nil, sessionNotFound(id)
	}
	out := cloneSession(s.state.FocusSessions[i])
	return &out, nil
}

// ActiveSession returns the task's active session, if any.
func (s *Store) ActiveSession(taskID string) (*models.FocusSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.state.activeSessionIndex(taskID)
	if i < 0 {
		return nil, false
	}
	out := cloneSession(s.state.FocusSessions[i])
	return &out, true
}

// Sessions returns the sessions recorded for a task, or all sessions when
// taskID is empty.
func (s *Store) Sessions(taskID string) []models.FocusSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.FocusSession
	for _, fs := range s.state.FocusSessions {
		if taskID == "" || fs.TaskID == taskID {
			out = append(out, cloneSession(fs))
		}
	}
	return out
}
