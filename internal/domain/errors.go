package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a player has no game session.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrLevelNotFound indicates the level catalog could not be loaded.
	ErrLevelNotFound = errors.New("level not found")
	// ErrUnknownSubject indicates a subject ID that is not part of the active level.
	ErrUnknownSubject = errors.New("subject not found in level")
	// ErrUnknownOption indicates an option ID that is not part of the active level.
	ErrUnknownOption = errors.New("option not found in level")
	// ErrUnknownModel indicates a model ID that is not in the learn gallery.
	ErrUnknownModel = errors.New("model not found")
	// ErrNoActiveSubject is returned when an option is chosen before a subject.
	ErrNoActiveSubject = errors.New("no subject chosen")
	// ErrRoundResolved is returned when an option is chosen on a resolved round.
	ErrRoundResolved = errors.New("round already resolved")
	// ErrNotRetryable is returned when retry is requested outside a wrong answer.
	ErrNotRetryable = errors.New("round cannot be retried")
	// ErrNoIncorrectOption means a timed round expired on a catalog without a wrong option.
	ErrNoIncorrectOption = errors.New("level has no incorrect option")
	// ErrLevelNotCleared is returned when advancing past a level that was not answered correctly.
	ErrLevelNotCleared = errors.New("level not cleared")
	// ErrModelsNotLearned is returned when leaving the learn scene before visiting every model.
	ErrModelsNotLearned = errors.New("not every model has been learned")
	// ErrWrongScene is returned when an action does not belong to the current scene.
	ErrWrongScene = errors.New("action not available in current scene")
)
