// Package catalog holds the built-in game content: the learn gallery and
// the six matching levels.
package catalog

import "sdlc-quest/internal/domain"

var models = []domain.Model{
	{ID: "waterfall", Name: "Waterfall", Emoji: "🧓", Quote: "Step-by-step — follow the plan!", Description: "Linear sequential approach"},
	{ID: "agile", Name: "Agile", Emoji: "👟", Quote: "We sprint and adapt!", Description: "Iterative and flexible"},
	{ID: "iterative", Name: "Iterative", Emoji: "🔁", Quote: "Build → Test → Improve!", Description: "Continuous improvement cycles"},
	{ID: "spiral", Name: "Spiral", Emoji: "🌀", Quote: "I love solving risky problems!", Description: "Risk-driven development"},
	{ID: "vmodel", Name: "V-Model", Emoji: "🧪", Quote: "Build and test side-by-side.", Description: "Verification and validation"},
}

// Models returns the learn gallery.
func Models() []domain.Model {
	return append([]domain.Model(nil), models...)
}

// Model looks up a gallery entry.
func Model(id string) (domain.Model, bool) {
	for _, m := range models {
		if m.ID == id {
			return m, true
		}
	}
	return domain.Model{}, false
}

// ModelCount is how many models must be learned before the first level.
func ModelCount() int {
	return len(models)
}

func option(id string) domain.Option {
	m, _ := Model(id)
	return domain.Option{ID: m.ID, Name: m.Name, Emoji: m.Emoji}
}

func options(ids ...string) []domain.Option {
	out := make([]domain.Option, 0, len(ids))
	for _, id := range ids {
		out = append(out, option(id))
	}
	return out
}

var (
	basicOptions = []string{"waterfall", "agile", "iterative"}
	allOptions   = []string{"waterfall", "agile", "iterative", "spiral", "vmodel"}
)
