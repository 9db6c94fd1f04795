package domain

import (
	"encoding/json"
	"time"
)

// RoundState is the phase of a quiz round.
type RoundState uint8

const (
	RoundIdle RoundState = iota
	RoundSubjectChosen
	RoundResolved
)

func (s RoundState) String() string {
	switch s {
	case RoundSubjectChosen:
		return "subjectChosen"
	case RoundResolved:
		return "resolved"
	default:
		return "idle"
	}
}

// MarshalJSON encodes the state by name.
func (s RoundState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Outcome summarizes one resolution of a round.
type Outcome struct {
	SubjectID string `json:"subjectId"`
	OptionID  string `json:"optionId"`
	Correct   bool   `json:"correct"`
	Attempt   int    `json:"attempt"`
	Awarded   int    `json:"awarded"`
	TimedOut  bool   `json:"timedOut,omitempty"`
	Reasoning string `json:"reasoning,omitempty"`
	Critique  string `json:"critique,omitempty"`
}

// RoundView is a read-only snapshot of a round.
type RoundView struct {
	Level          int        `json:"level"`
	State          RoundState `json:"state"`
	SubjectID      string     `json:"subjectId,omitempty"`
	ChosenOptionID string     `json:"chosenOptionId,omitempty"`
	Correct        bool       `json:"correct"`
	AttemptCount   int        `json:"attemptCount"`
	Timed          bool       `json:"timed"`
	SecondsLeft    int        `json:"secondsLeft,omitempty"`
	TimerActive    bool       `json:"timerActive"`
}

// GameSnapshot is everything a client needs to render the current scene.
type GameSnapshot struct {
	PlayerID   string     `json:"playerId"`
	Name       string     `json:"name"`
	Scene      Scene      `json:"scene"`
	Score      ScoreState `json:"score"`
	Round      *RoundView `json:"round,omitempty"`
	LearnedAll bool       `json:"learnedAll"`
	Rating     string     `json:"rating,omitempty"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Event types published to session subscribers.
const (
	EventState  = "state"
	EventTick   = "tick"
	EventResult = "result"
)

// Event is a session update pushed to subscribers.
type Event struct {
	Type     string       `json:"type"`
	Snapshot GameSnapshot `json:"snapshot"`
	Outcome  *Outcome     `json:"outcome,omitempty"`
}
