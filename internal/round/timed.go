package round

import (
	"math/rand"

	"sdlc-quest/internal/domain"
)

// Picker returns an index in [0, n).
type Picker func(n int) int

// NewRandomPicker returns a uniform picker. It is safe to share between
// sessions.
func NewRandomPicker() Picker {
	return rand.Intn
}

// Timed adds a countdown to a Round. When the countdown reaches zero on an
// unresolved round, a random incorrect option is submitted on the player's behalf.
type Timed struct {
	*Round
	duration  int
	remaining int
	active    bool
	pick      Picker
}

// NewTimed wraps r with the level's time limit. A nil picker uses NewRandomPicker.
func NewTimed(r *Round, pick Picker) *Timed {
	if pick == nil {
		pick = NewRandomPicker()
	}
	d := r.Level().TimeLimit
	return &Timed{Round: r, duration: d, remaining: d, pick: pick}
}

// ChooseSubject starts the round and arms the countdown at full duration.
func (t *Timed) ChooseSubject(subjectID string) error {
	if err := t.Round.ChooseSubject(subjectID); err != nil {
		return err
	}
	t.arm()
	return nil
}

// ChooseOption resolves the round manually and stops the countdown.
// A correct answer earns the remaining seconds as a time bonus.
func (t *Timed) ChooseOption(optionID string) (domain.Outcome, error) {
	out, err := t.Round.ChooseOption(optionID)
	if err != nil {
		return out, err
	}
	if out.Correct {
		out.Awarded += t.remaining * t.Round.Level().TimeBonusPerSecond
	}
	t.active = false
	return out, nil
}

// Retry reopens a wrong answer and re-arms the countdown at full duration.
func (t *Timed) Retry() error {
	if err := t.Round.Retry(); err != nil {
		return err
	}
	t.arm()
	return nil
}

func (t *Timed) Reset() {
	t.Round.Reset()
	t.active = false
	t.remaining = t.duration
}

// Tick advances the countdown by one unit. fired is true when this tick
// expired the timer and produced an auto-resolution.
func (t *Timed) Tick() (out domain.Outcome, fired bool, err error) {
	if !t.active {
		return domain.Outcome{}, false, nil
	}
	t.remaining--
	if t.remaining > 0 {
		return domain.Outcome{}, false, nil
	}
	t.remaining = 0
	t.active = false

	subject, _ := t.Round.Subject()
	wrong := t.Round.Level().IncorrectOptions(subject)
	if len(wrong) == 0 {
		return domain.Outcome{}, true, domain.ErrNoIncorrectOption
	}
	out, err = t.Round.ChooseOption(wrong[t.pick(len(wrong))].ID)
	if err != nil {
		return out, true, err
	}
	out.TimedOut = true
	return out, true, nil
}

// Active reports whether the countdown is running.
func (t *Timed) Active() bool {
	return t.active
}

// Remaining returns the seconds left on the countdown.
func (t *Timed) Remaining() int {
	return t.remaining
}

func (t *Timed) View() domain.RoundView {
	v := t.Round.View()
	v.Timed = true
	v.SecondsLeft = t.remaining
	v.TimerActive = t.active
	return v
}

func (t *Timed) arm() {
	t.remaining = t.duration
	t.active = t.duration > 0
}
