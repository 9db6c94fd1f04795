// Package round implements the matching round played on every level:
// pick a subject, pick an option, retry on a wrong answer.
package round

import (
	"sdlc-quest/internal/domain"
)

// Round tracks one play-through of a subject from a level catalog.
type Round struct {
	level    domain.Level
	state    domain.RoundState
	subject  domain.Subject
	chosen   string
	correct  bool
	attempts int
}

func New(level domain.Level) *Round {
	return &Round{level: level}
}

// Level returns the catalog the round plays against.
func (r *Round) Level() domain.Level {
	return r.level
}

// ChooseSubject starts a fresh round on subjectID from any state.
func (r *Round) ChooseSubject(subjectID string) error {
	subject, ok := r.level.Subject(subjectID)
	if !ok {
		return domain.ErrUnknownSubject
	}
	r.subject = subject
	r.state = domain.RoundSubjectChosen
	r.chosen = ""
	r.correct = false
	r.attempts = 0
	return nil
}

// ChooseOption resolves the round. Only valid once a subject is chosen and
// the round is not already resolved.
func (r *Round) ChooseOption(optionID string) (domain.Outcome, error) {
	switch r.state {
	case domain.RoundIdle:
		return domain.Outcome{}, domain.ErrNoActiveSubject
	case domain.RoundResolved:
		return domain.Outcome{}, domain.ErrRoundResolved
	}
	if _, ok := r.level.Option(optionID); !ok {
		return domain.Outcome{}, domain.ErrUnknownOption
	}

	r.chosen = optionID
	r.correct = optionID == r.subject.CorrectOptionID
	r.state = domain.RoundResolved
	r.attempts++

	out := domain.Outcome{
		SubjectID: r.subject.ID,
		OptionID:  optionID,
		Correct:   r.correct,
		Attempt:   r.attempts,
		Reasoning: r.subject.Reasoning,
	}
	if r.correct {
		out.Awarded = r.level.RetryBonus
		if r.attempts == 1 {
			out.Awarded = r.level.FirstTryBonus
		}
	} else {
		out.Critique = r.subject.Critiques[optionID]
	}
	return out, nil
}

// Retry clears a wrong answer and keeps the attempt count.
func (r *Round) Retry() error {
	if r.state != domain.RoundResolved || r.correct {
		return domain.ErrNotRetryable
	}
	r.chosen = ""
	r.correct = false
	r.state = domain.RoundSubjectChosen
	return nil
}

// Reset returns to Idle.
func (r *Round) Reset() {
	r.state = domain.RoundIdle
	r.subject = domain.Subject{}
	r.chosen = ""
	r.correct = false
	r.attempts = 0
}

// Cleared reports whether the round ended with the correct answer.
func (r *Round) Cleared() bool {
	return r.state == domain.RoundResolved && r.correct
}

func (r *Round) State() domain.RoundState {
	return r.state
}

// Subject returns the active subject, if any.
func (r *Round) Subject() (domain.Subject, bool) {
	if r.state == domain.RoundIdle {
		return domain.Subject{}, false
	}
	return r.subject, true
}

func (r *Round) View() domain.RoundView {
	return domain.RoundView{
		Level:          r.level.Number,
		State:          r.state,
		SubjectID:      r.subject.ID,
		ChosenOptionID: r.chosen,
		Correct:        r.correct,
		AttemptCount:   r.attempts,
	}
}
