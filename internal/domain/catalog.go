package domain

import "fmt"

// Subject is a quiz prompt: a software project with exactly one best-fitting model.
type Subject struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Icon            string            `json:"icon"`
	Description     string            `json:"description"`
	CorrectOptionID string            `json:"correctOptionId"`
	Reasoning       string            `json:"reasoning"`
	Critiques       map[string]string `json:"critiques,omitempty"`
}

// Option is a candidate answer shared by every subject of a level.
type Option struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

// Model is an entry of the learn gallery.
type Model struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	Quote       string `json:"quote"`
	Description string `json:"description"`
}

// Level is the fixed catalog and scoring rules of one matching level.
type Level struct {
	Number             int       `json:"number"`
	Title              string    `json:"title"`
	Subjects           []Subject `json:"subjects"`
	Options            []Option  `json:"options"`
	FirstTryBonus      int       `json:"firstTryBonus"`
	RetryBonus         int       `json:"retryBonus"`
	TimeLimit          int       `json:"timeLimit,omitempty"` // seconds, 0 when untimed
	TimeBonusPerSecond int       `json:"timeBonusPerSecond,omitempty"`
}

// Timed reports whether rounds of this level run against a countdown.
func (l Level) Timed() bool {
	return l.TimeLimit > 0
}

// Subject looks up a subject by ID.
func (l Level) Subject(id string) (Subject, bool) {
	for _, s := range l.Subjects {
		if s.ID == id {
			return s, true
		}
	}
	return Subject{}, false
}

// Option looks up an option by ID.
func (l Level) Option(id string) (Option, bool) {
	for _, o := range l.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// IncorrectOptions returns the options that do not answer the given subject.
func (l Level) IncorrectOptions(subject Subject) []Option {
	wrong := make([]Option, 0, len(l.Options))
	for _, o := range l.Options {
		if o.ID != subject.CorrectOptionID {
			wrong = append(wrong, o)
		}
	}
	return wrong
}

// Validate checks the catalog invariants a round relies on.
func (l Level) Validate() error {
	if len(l.Subjects) == 0 {
		return fmt.Errorf("level %d: no subjects", l.Number)
	}
	if len(l.Options) < 2 {
		return fmt.Errorf("level %d: need at least two options", l.Number)
	}
	if l.FirstTryBonus <= 0 || l.RetryBonus <= 0 {
		return fmt.Errorf("level %d: bonuses must be positive", l.Number)
	}
	if l.TimeLimit < 0 || l.TimeBonusPerSecond < 0 {
		return fmt.Errorf("level %d: negative time settings", l.Number)
	}

	options := make(map[string]struct{}, len(l.Options))
	for _, o := range l.Options {
		if _, dup := options[o.ID]; dup {
			return fmt.Errorf("level %d: duplicate option %q", l.Number, o.ID)
		}
		options[o.ID] = struct{}{}
	}
	subjects := make(map[string]struct{}, len(l.Subjects))
	for _, s := range l.Subjects {
		if _, dup := subjects[s.ID]; dup {
			return fmt.Errorf("level %d: duplicate subject %q", l.Number, s.ID)
		}
		subjects[s.ID] = struct{}{}
		if _, ok := options[s.CorrectOptionID]; !ok {
			return fmt.Errorf("level %d: subject %q answer %q is not an option", l.Number, s.ID, s.CorrectOptionID)
		}
	}
	return nil
}

// Public strips answer keys and critiques so a catalog can be sent to players.
func (l Level) Public() Level {
	out := l
	out.Subjects = make([]Subject, len(l.Subjects))
	for i, s := range l.Subjects {
		out.Subjects[i] = Subject{
			ID:          s.ID,
			Name:        s.Name,
			Icon:        s.Icon,
			Description: s.Description,
		}
	}
	out.Options = append([]Option(nil), l.Options...)
	return out
}
