package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sdlc-quest/internal/domain"
	"sdlc-quest/internal/round"
)

// SessionRepository abstracts how player sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(playerID string) *Session
	Get(playerID string) (*Session, bool)
	DeleteIfEmpty(playerID string)
	// Touch records activity on a live session.
	Touch(playerID string)
}

// LevelRepository loads level catalogs (from cache/backing store).
type LevelRepository interface {
	GetLevel(ctx context.Context, number int) (domain.Level, error)
}

// GameService contains the game use cases. Every call is keyed by player ID.
type GameService struct {
	sessions  SessionRepository
	levels    LevelRepository
	log       *zap.Logger
	tickEvery time.Duration
	pick      round.Picker
}

// Option configures a GameService.
type Option func(*GameService)

func WithLogger(log *zap.Logger) Option {
	return func(s *GameService) { s.log = log }
}

// WithTickInterval sets how long one countdown unit of a timed round lasts.
func WithTickInterval(d time.Duration) Option {
	return func(s *GameService) {
		if d > 0 {
			s.tickEvery = d
		}
	}
}

// WithPicker replaces the random source used when a timed round expires.
func WithPicker(p round.Picker) Option {
	return func(s *GameService) { s.pick = p }
}

func NewGameService(store SessionRepository, levels LevelRepository, opts ...Option) *GameService {
	s := &GameService{
		sessions:  store,
		levels:    levels,
		log:       zap.NewNop(),
		tickEvery: time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pick == nil {
		s.pick = round.NewRandomPicker()
	}
	return s
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id string) *Session {
	return newSession(id)
}

// Start registers a connection for the player, creating the session on first use.
func (s *GameService) Start(_ context.Context, playerID, name string) (domain.GameSnapshot, error) {
	session := s.sessions.GetOrCreate(playerID)
	return session.join(name, sessionConfig{tickEvery: s.tickEvery, pick: s.pick, log: s.log}), nil
}

// GoTo moves the player to the named scene; unknown names go to welcome.
func (s *GameService) GoTo(ctx context.Context, playerID, sceneName string) (domain.GameSnapshot, error) {
	session, err := s.session(playerID)
	if err != nil {
		return domain.GameSnapshot{}, err
	}
	scene, _ := domain.ParseScene(sceneName)
	return session.goTo(scene, s.loader(ctx))
}

// Next advances to the following scene once the current one allows it.
func (s *GameService) Next(ctx context.Context, playerID string) (domain.GameSnapshot, error) {
	session, err := s.session(playerID)
	if err != nil {
		return domain.GameSnapshot{}, err
	}
	return session.next(s.loader(ctx))
}

// Back returns to the scene before the current one.
func (s *GameService) Back(ctx context.Context, playerID string) (domain.GameSnapshot, error) {
	session, err := s.session(playerID)
	if err != nil {
		return domain.GameSnapshot{}, err
	}
	return session.back(s.loader(ctx))
}

// LearnModel records a visit to a model in the learn gallery.
func (s *GameService) LearnModel(_ context.Context, playerID, modelID string) (domain.GameSnapshot, error) {
	session, err := s.session(playerID)
	if err != nil {
		return domain.GameSnapshot{}, err
	}
	return session.learn(modelID)
}

// ChooseSubject starts a round on a subject of the current level.
func (s *GameService) ChooseSubject(_ context.Context, playerID, subjectID string) (domain.GameSnapshot, error) {
	session, err := s.session(playerID)
	if err != nil {
		return domain.GameSnapshot{}, err
	}
	return session.chooseSubject(subjectID)
}

// ChooseOption answers the active round and merges any award into the score.
func (s *GameService) ChooseOption(_ context.Context, playerID, optionID string) (domain.Outcome, domain.GameSnapshot, error) {
	session, err := s.session(playerID)
	if err != nil {
		return domain.Outcome{}, domain.GameSnapshot{}, err
	}
	return session.chooseOption(optionID)
}

// Retry reopens a wrongly answered round.
func (s *GameService) Retry(_ context.Context, playerID string) (domain.GameSnapshot, error) {
	session, err := s.session(playerID)
	if err != nil {
		return domain.GameSnapshot{}, err
	}
	return session.retry()
}

// ResetRound drops the active subject so another one can be picked.
func (s *GameService) ResetRound(_ context.Context, playerID string) (domain.GameSnapshot, error) {
	session, err := s.session(playerID)
	if err != nil {
		return domain.GameSnapshot{}, err
	}
	return session.resetRound()
}

// Snapshot returns the player's current view.
func (s *GameService) Snapshot(_ context.Context, playerID string) (domain.GameSnapshot, error) {
	session, err := s.session(playerID)
	if err != nil {
		return domain.GameSnapshot{}, err
	}
	return session.snapshot(), nil
}

// Subscribe returns a channel that receives session events for a player.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(_ context.Context, playerID string) (<-chan domain.Event, func(), error) {
	session, err := s.session(playerID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Leave releases one connection and drops the session once none remain.
func (s *GameService) Leave(_ context.Context, playerID string) {
	session, ok := s.sessions.Get(playerID)
	if !ok {
		return
	}
	session.leave()
	if session.IsEmpty() {
		s.sessions.DeleteIfEmpty(playerID)
	}
}

func (s *GameService) session(playerID string) (*Session, error) {
	session, ok := s.sessions.Get(playerID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	s.sessions.Touch(playerID)
	return session, nil
}

func (s *GameService) loader(ctx context.Context) levelLoader {
	return func(number int) (domain.Level, error) {
		level, err := s.levels.GetLevel(ctx, number)
		if err != nil {
			s.log.Warn("load level failed", zap.Int("level", number), zap.Error(err))
			return domain.Level{}, err
		}
		if err := level.Validate(); err != nil {
			return domain.Level{}, fmt.Errorf("invalid catalog: %w", err)
		}
		return level, nil
	}
}
