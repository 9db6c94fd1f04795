package round

import "sdlc-quest/internal/domain"

// Machine is the behavior shared by plain and timed rounds.
type Machine interface {
	ChooseSubject(subjectID string) error
	ChooseOption(optionID string) (domain.Outcome, error)
	Retry() error
	Reset()
	Cleared() bool
	Subject() (domain.Subject, bool)
	Level() domain.Level
	View() domain.RoundView
}

var (
	_ Machine = (*Round)(nil)
	_ Machine = (*Timed)(nil)
)

// ForLevel builds the round a level is played with: timed when the level
// has a time limit, plain otherwise.
func ForLevel(level domain.Level, pick Picker) Machine {
	r := New(level)
	if level.Timed() {
		return NewTimed(r, pick)
	}
	return r
}
