package domain

import (
	"slices"
	"sort"
)

// ScoreState is the running total and completion record of one play session.
type ScoreState struct {
	Score            int      `json:"score"`
	CompletedLevels  []int    `json:"completedLevels"`
	ModelsLearned    []string `json:"modelsLearned"`
	Level            int      `json:"level"`
	SelectedSoftware string   `json:"selectedSoftware"`
	SelectedModel    string   `json:"selectedModel"`
}

// ScoreUpdate is a partial update merged into a ScoreState.
// Score is a delta; set fields are unioned; pointer fields overwrite when set.
type ScoreUpdate struct {
	Score            int
	CompletedLevels  []int
	ModelsLearned    []string
	Level            *int
	SelectedSoftware *string
	SelectedModel    *string
}

// NewScoreState returns the state a fresh session starts from.
func NewScoreState() ScoreState {
	return ScoreState{
		Level:           1,
		CompletedLevels: []int{},
		ModelsLearned:   []string{},
	}
}

// Merge applies a partial update.
func (s *ScoreState) Merge(u ScoreUpdate) {
	s.Score += u.Score
	s.CompletedLevels = unionInts(s.CompletedLevels, u.CompletedLevels)
	s.ModelsLearned = unionStrings(s.ModelsLearned, u.ModelsLearned)
	if u.Level != nil {
		s.Level = *u.Level
	}
	if u.SelectedSoftware != nil {
		s.SelectedSoftware = *u.SelectedSoftware
	}
	if u.SelectedModel != nil {
		s.SelectedModel = *u.SelectedModel
	}
}

// Reset returns the state to a fresh session.
func (s *ScoreState) Reset() {
	*s = NewScoreState()
}

// Clone returns a copy that shares no slices with s.
func (s ScoreState) Clone() ScoreState {
	out := s
	out.CompletedLevels = append([]int{}, s.CompletedLevels...)
	out.ModelsLearned = append([]string{}, s.ModelsLearned...)
	return out
}

// HasLearned reports whether the model was visited in the learn scene.
func (s ScoreState) HasLearned(modelID string) bool {
	return slices.Contains(s.ModelsLearned, modelID)
}

func unionInts(base, add []int) []int {
	out := append([]int{}, base...)
	for _, v := range add {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}

func unionStrings(base, add []string) []string {
	out := append([]string{}, base...)
	for _, v := range add {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// Rating maps a final score to the victory rating.
func Rating(score int) string {
	switch {
	case score >= 400:
		return "LEGENDARY"
	case score >= 300:
		return "EXPERT"
	case score >= 200:
		return "ADVANCED"
	default:
		return "COMPLETE"
	}
}
