package engine

import "github.com/fentz26/critterfocus/internal/models"

// Status is a summary of the whole engine state.
type Status struct {
	Economy        models.Economy
	OpenTasks      int
	CompletedTasks int
	ActiveSessions []models.FocusSession
	Creatures      int
	Selected       *models.Creature
}

// Status summarises tasks, sessions, creatures, and the economy.
func (s *Service) Status() Status {
	st := Status{Economy: s.tasks.Economy()}
	for _, t := range s.tasks.Tasks() {
		if t.IsCompleted {
			st.CompletedTasks++
		} else {
			st.OpenTasks++
		}
	}
	for _, fs := range s.tasks.Sessions("") {
		if fs.IsActive {
			st.ActiveSessions = append(st.ActiveSessions, fs)
		}
	}
	st.Creatures = len(s.creatures.Creatures())
	if c, ok := s.creatures.Selected(); ok {
		st.Selected = c
	}
	return st
}
