package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"sdlc-quest/internal/catalog"
	"sdlc-quest/internal/domain"
	"sdlc-quest/internal/round"
)

type levelLoader func(number int) (domain.Level, error)

type sessionConfig struct {
	tickEvery time.Duration
	pick      round.Picker
	log       *zap.Logger
}

// Session is the in-memory state of one player's game: the navigator with
// its score, the round of the level being played, and any running countdown.
type Session struct {
	id  string
	now func() time.Time

	mu          sync.Mutex
	cfg         sessionConfig
	name        string
	nav         *domain.Navigator
	play        round.Machine
	connections int
	subscribers map[chan domain.Event]struct{}
	stopTimer   context.CancelFunc
	timerGen    uint64
	updatedAt   time.Time
}

func newSession(id string) *Session {
	return newSessionWithClock(id, time.Now)
}

// newSessionWithClock allows deterministic timestamps in tests.
func newSessionWithClock(id string, now func() time.Time) *Session {
	return &Session{
		id:  id,
		now: now,
		cfg: sessionConfig{
			tickEvery: time.Second,
			pick:      round.NewRandomPicker(),
			log:       zap.NewNop(),
		},
		nav:         domain.NewNavigator(),
		subscribers: make(map[chan domain.Event]struct{}),
		updatedAt:   now(),
	}
}

// ID returns the player ID the session belongs to.
func (s *Session) ID() string {
	return s.id
}

func (s *Session) join(name string, cfg sessionConfig) domain.GameSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg = cfg
	if name != "" {
		s.name = name
	}
	s.connections++
	return s.broadcastLocked(domain.EventState, nil).Snapshot
}

func (s *Session) leave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connections > 0 {
		s.connections--
	}
	if s.connections == 0 {
		s.stopTimerLocked()
	}
}

func (s *Session) isEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connections == 0
}

// IsEmpty reports whether no connection holds the session.
func (s *Session) IsEmpty() bool {
	return s.isEmpty()
}

func (s *Session) goTo(scene domain.Scene, load levelLoader) (domain.GameSnapshot, error) {
	return s.move(load, func() (domain.Scene, error) { return scene, nil })
}

func (s *Session) next(load levelLoader) (domain.GameSnapshot, error) {
	return s.move(load, s.nextTargetLocked)
}

func (s *Session) back(load levelLoader) (domain.GameSnapshot, error) {
	return s.move(load, func() (domain.Scene, error) { return s.nav.BackScene(), nil })
}

// nextTargetLocked returns the scene Next leads to once the current scene
// allows leaving it.
func (s *Session) nextTargetLocked() (domain.Scene, error) {
	switch scene := s.nav.Scene(); {
	case scene == domain.SceneLearn:
		if !s.learnedAllLocked() {
			return 0, domain.ErrModelsNotLearned
		}
	default:
		if _, isLevel := scene.LevelNumber(); isLevel && (s.play == nil || !s.play.Cleared()) {
			return 0, domain.ErrLevelNotCleared
		}
	}
	return s.nav.NextScene(), nil
}

// move switches to the scene chosen by target, which runs under the lock.
// The level catalog is loaded with the lock released; if the session moved
// on in the meantime the target is resolved again.
func (s *Session) move(load levelLoader, target func() (domain.Scene, error)) (domain.GameSnapshot, error) {
	for {
		s.mu.Lock()
		from := s.nav.Scene()
		scene, err := target()
		s.mu.Unlock()
		if err != nil {
			return domain.GameSnapshot{}, err
		}

		var level domain.Level
		if number, isLevel := scene.LevelNumber(); isLevel {
			if level, err = load(number); err != nil {
				return domain.GameSnapshot{}, err
			}
		}

		s.mu.Lock()
		again, err := target()
		if err != nil {
			s.mu.Unlock()
			return domain.GameSnapshot{}, err
		}
		if s.nav.Scene() != from || again != scene {
			s.mu.Unlock()
			continue
		}
		s.enterLocked(scene, level)
		snap := s.broadcastLocked(domain.EventState, nil).Snapshot
		s.mu.Unlock()
		return snap, nil
	}
}

// enterLocked switches scene. The previous level's round and timer are
// discarded; a level scene gets a fresh round on level.
func (s *Session) enterLocked(scene domain.Scene, level domain.Level) {
	s.stopTimerLocked()
	s.play = nil
	s.nav.GoTo(scene)
	if number, isLevel := scene.LevelNumber(); isLevel {
		s.play = round.ForLevel(level, s.cfg.pick)
		s.nav.Merge(domain.ScoreUpdate{Level: &number})
	}
}

func (s *Session) learn(modelID string) (domain.GameSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nav.Scene() != domain.SceneLearn {
		return domain.GameSnapshot{}, domain.ErrWrongScene
	}
	if _, ok := catalog.Model(modelID); !ok {
		return domain.GameSnapshot{}, domain.ErrUnknownModel
	}
	s.nav.Merge(domain.ScoreUpdate{ModelsLearned: []string{modelID}})
	return s.broadcastLocked(domain.EventState, nil).Snapshot, nil
}

func (s *Session) chooseSubject(subjectID string) (domain.GameSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.play == nil {
		return domain.GameSnapshot{}, domain.ErrWrongScene
	}
	if err := s.play.ChooseSubject(subjectID); err != nil {
		return domain.GameSnapshot{}, err
	}
	s.restartTimerLocked()
	return s.broadcastLocked(domain.EventState, nil).Snapshot, nil
}

func (s *Session) chooseOption(optionID string) (domain.Outcome, domain.GameSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.play == nil {
		return domain.Outcome{}, domain.GameSnapshot{}, domain.ErrWrongScene
	}
	out, err := s.play.ChooseOption(optionID)
	if err != nil {
		return domain.Outcome{}, domain.GameSnapshot{}, err
	}
	s.stopTimerLocked()
	s.applyOutcomeLocked(out)
	return out, s.broadcastLocked(domain.EventResult, &out).Snapshot, nil
}

func (s *Session) retry() (domain.GameSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.play == nil {
		return domain.GameSnapshot{}, domain.ErrWrongScene
	}
	if err := s.play.Retry(); err != nil {
		return domain.GameSnapshot{}, err
	}
	s.restartTimerLocked()
	return s.broadcastLocked(domain.EventState, nil).Snapshot, nil
}

func (s *Session) resetRound() (domain.GameSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.play == nil {
		return domain.GameSnapshot{}, domain.ErrWrongScene
	}
	s.stopTimerLocked()
	s.play.Reset()
	return s.broadcastLocked(domain.EventState, nil).Snapshot, nil
}

func (s *Session) snapshot() domain.GameSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// applyOutcomeLocked merges the score of a correct answer.
func (s *Session) applyOutcomeLocked(out domain.Outcome) {
	if !out.Correct {
		return
	}
	level := s.play.Level()
	subject, _ := level.Subject(out.SubjectID)
	option, _ := level.Option(out.OptionID)
	s.nav.Merge(domain.ScoreUpdate{
		Score:            out.Awarded,
		CompletedLevels:  []int{level.Number},
		SelectedSoftware: &subject.Name,
		SelectedModel:    &option.Name,
	})
}

func (s *Session) restartTimerLocked() {
	s.stopTimerLocked()
	timed, ok := s.play.(*round.Timed)
	if !ok || !timed.Active() {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.stopTimer = cancel
	go s.runTimer(ctx, s.timerGen, s.cfg.tickEvery)
}

// stopTimerLocked cancels the countdown goroutine. Bumping the generation
// makes a tick that already fired before the cancel a no-op.
func (s *Session) stopTimerLocked() {
	if s.stopTimer != nil {
		s.stopTimer()
		s.stopTimer = nil
	}
	s.timerGen++
}

func (s *Session) runTimer(ctx context.Context, gen uint64, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.tick(gen) {
				return
			}
		}
	}
}

// tick advances the countdown of the round armed as generation gen and
// reports whether the timer should keep running.
func (s *Session) tick(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.timerGen {
		return false
	}
	timed, ok := s.play.(*round.Timed)
	if !ok {
		return false
	}
	out, fired, err := timed.Tick()
	if !fired {
		s.broadcastLocked(domain.EventTick, nil)
		return true
	}

	s.stopTimerLocked()
	if err != nil {
		s.cfg.log.Warn("timed round expired without auto-answer", zap.String("player", s.id), zap.Error(err))
		s.broadcastLocked(domain.EventState, nil)
		return false
	}
	s.cfg.log.Info("timed round expired",
		zap.String("player", s.id),
		zap.Int("level", timed.Level().Number),
		zap.String("subject", out.SubjectID),
		zap.String("autoOption", out.OptionID),
	)
	s.applyOutcomeLocked(out)
	s.broadcastLocked(domain.EventResult, &out)
	return false
}

func (s *Session) subscribe() (<-chan domain.Event, func()) {
	ch := make(chan domain.Event, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := domain.Event{Type: domain.EventState, Snapshot: s.snapshotLocked()}
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked(eventType string, out *domain.Outcome) domain.Event {
	s.updatedAt = s.now()
	ev := domain.Event{Type: eventType, Snapshot: s.snapshotLocked(), Outcome: out}
	for ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			// Slow subscriber: drop its oldest pending event so the newest always lands.
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
	return ev
}

func (s *Session) snapshotLocked() domain.GameSnapshot {
	snap := domain.GameSnapshot{
		PlayerID:   s.id,
		Name:       s.name,
		Scene:      s.nav.Scene(),
		Score:      s.nav.Score(),
		LearnedAll: s.learnedAllLocked(),
		UpdatedAt:  s.updatedAt,
	}
	if s.play != nil {
		view := s.play.View()
		snap.Round = &view
	}
	if snap.Scene == domain.SceneVictory {
		snap.Rating = domain.Rating(snap.Score.Score)
	}
	return snap
}

func (s *Session) learnedAllLocked() bool {
	score := s.nav.Score()
	for _, m := range catalog.Models() {
		if !score.HasLearned(m.ID) {
			return false
		}
	}
	return true
}
