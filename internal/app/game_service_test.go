package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sdlc-quest/internal/app"
	"sdlc-quest/internal/catalog"
	"sdlc-quest/internal/domain"
	"sdlc-quest/internal/infra/memory"
)

func TestStartAndWalkToFirstLevel(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	snap, err := service.Start(ctx, "p1", "Alice")
	require.NoError(t, err)
	assert.Equal(t, domain.SceneWelcome, snap.Scene)

	snap, err = service.Next(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.SceneLearn, snap.Scene)

	_, err = service.Next(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrModelsNotLearned)

	learnAll(t, service, "p1")
	snap, err = service.Next(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.SceneLevel1, snap.Scene)
	require.NotNil(t, snap.Round)
	assert.Equal(t, domain.RoundIdle, snap.Round.State)
	assert.Equal(t, 1, snap.Score.Level)
	assert.Len(t, snap.Score.ModelsLearned, catalog.ModelCount())
}

func TestThreeFirstTryLevelsScore450(t *testing.T) {
	ctx := context.Background()
	levels := []domain.Level{
		simpleLevel(1, 100, 50),
		simpleLevel(2, 150, 75),
		simpleLevel(3, 200, 100),
	}
	service := app.NewGameService(memory.NewSessionStore(), memory.NewLevelRepository(catalog.NewStaticLoader(levels...), time.Minute))
	_, _ = service.Start(ctx, "p1", "Alice")

	_, err := service.GoTo(ctx, "p1", "level1")
	require.NoError(t, err)
	for i := range levels {
		_, err := service.ChooseSubject(ctx, "p1", "s1")
		require.NoError(t, err)
		out, _, err := service.ChooseOption(ctx, "p1", "right")
		require.NoError(t, err)
		assert.Equal(t, levels[i].FirstTryBonus, out.Awarded)
		if i < len(levels)-1 {
			_, err = service.Next(ctx, "p1")
			require.NoError(t, err)
		}
	}

	snap, err := service.Snapshot(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 450, snap.Score.Score)
	assert.Equal(t, []int{1, 2, 3}, snap.Score.CompletedLevels)
	assert.Equal(t, "Project", snap.Score.SelectedSoftware)
	assert.Equal(t, "Right", snap.Score.SelectedModel)
}

func TestWrongAnswerBlocksNextUntilRetried(t *testing.T) {
	ctx := context.Background()
	service := newTestService()
	_, _ = service.Start(ctx, "p1", "Alice")
	_, err := service.GoTo(ctx, "p1", "level1")
	require.NoError(t, err)

	_, err = service.ChooseSubject(ctx, "p1", "banking")
	require.NoError(t, err)
	out, snap, err := service.ChooseOption(ctx, "p1", "agile")
	require.NoError(t, err)
	assert.False(t, out.Correct)
	assert.Zero(t, snap.Score.Score)

	_, err = service.Next(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrLevelNotCleared)

	_, err = service.Retry(ctx, "p1")
	require.NoError(t, err)
	out, snap, err = service.ChooseOption(ctx, "p1", "waterfall")
	require.NoError(t, err)
	assert.Equal(t, 50, out.Awarded)
	assert.Equal(t, 50, snap.Score.Score)

	snap, err = service.Next(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.SceneLevel2, snap.Scene)
}

func TestActionsOutsideTheirScene(t *testing.T) {
	ctx := context.Background()
	service := newTestService()
	_, _ = service.Start(ctx, "p1", "Alice")

	_, err := service.ChooseSubject(ctx, "p1", "banking")
	assert.ErrorIs(t, err, domain.ErrWrongScene)
	_, err = service.LearnModel(ctx, "p1", "agile")
	assert.ErrorIs(t, err, domain.ErrWrongScene)

	_, _ = service.GoTo(ctx, "p1", "learn")
	_, err = service.LearnModel(ctx, "p1", "kanban")
	assert.ErrorIs(t, err, domain.ErrUnknownModel)
}

func TestRestartResetsScoreAndVictoryRates(t *testing.T) {
	ctx := context.Background()
	service := newTestService()
	_, _ = service.Start(ctx, "p1", "Alice")
	_, _ = service.GoTo(ctx, "p1", "level6")
	_, err := service.ChooseSubject(ctx, "p1", "mars-mission")
	require.NoError(t, err)
	_, snap, err := service.ChooseOption(ctx, "p1", "waterfall")
	require.NoError(t, err)
	assert.Equal(t, 300+20*15, snap.Score.Score)

	snap, err = service.Next(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.SceneVictory, snap.Scene)
	assert.Equal(t, "LEGENDARY", snap.Rating)

	snap, err = service.Next(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.SceneWelcome, snap.Scene)
	assert.Zero(t, snap.Score.Score)
	assert.Empty(t, snap.Score.CompletedLevels)
}

func TestUnknownSceneFallsBackToWelcome(t *testing.T) {
	ctx := context.Background()
	service := newTestService()
	_, _ = service.Start(ctx, "p1", "Alice")
	snap, err := service.GoTo(ctx, "p1", "level42")
	require.NoError(t, err)
	assert.Equal(t, domain.SceneWelcome, snap.Scene)
}

func TestTimedRoundExpiresThroughService(t *testing.T) {
	ctx := context.Background()
	level := simpleLevel(1, 200, 100)
	level.TimeLimit = 3
	level.TimeBonusPerSecond = 10
	service := app.NewGameService(
		memory.NewSessionStore(),
		memory.NewLevelRepository(catalog.NewStaticLoader(level), time.Minute),
		app.WithTickInterval(5*time.Millisecond),
		app.WithPicker(func(int) int { return 0 }),
	)
	_, _ = service.Start(ctx, "p1", "Alice")
	_, err := service.GoTo(ctx, "p1", "level1")
	require.NoError(t, err)

	events, cancel, err := service.Subscribe(ctx, "p1")
	require.NoError(t, err)
	defer cancel()

	snap, err := service.ChooseSubject(ctx, "p1", "s1")
	require.NoError(t, err)
	assert.True(t, snap.Round.TimerActive)

	result := waitForResult(t, events)
	require.NotNil(t, result.Outcome)
	assert.True(t, result.Outcome.TimedOut)
	assert.False(t, result.Outcome.Correct)
	assert.Equal(t, "wrong", result.Outcome.OptionID)
	assert.False(t, result.Snapshot.Round.TimerActive)
	assert.Zero(t, result.Snapshot.Score.Score)

	// No second auto-resolution: the round stays as the timer left it.
	time.Sleep(30 * time.Millisecond)
	snap, err = service.Snapshot(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Round.AttemptCount)
	assert.Equal(t, domain.RoundResolved, snap.Round.State)
}

func TestLeavingLevelCancelsTimer(t *testing.T) {
	ctx := context.Background()
	level := simpleLevel(1, 200, 100)
	level.TimeLimit = 2
	service := app.NewGameService(
		memory.NewSessionStore(),
		memory.NewLevelRepository(catalog.NewStaticLoader(level), time.Minute),
		app.WithTickInterval(5*time.Millisecond),
	)
	_, _ = service.Start(ctx, "p1", "Alice")
	_, _ = service.GoTo(ctx, "p1", "level1")
	_, err := service.ChooseSubject(ctx, "p1", "s1")
	require.NoError(t, err)

	snap, err := service.Back(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.SceneLearn, snap.Scene)

	time.Sleep(40 * time.Millisecond)
	snap, err = service.Snapshot(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, snap.Round)
	assert.Equal(t, domain.SceneLearn, snap.Scene)
}

func TestManualAnswerStopsTimer(t *testing.T) {
	ctx := context.Background()
	level := simpleLevel(1, 200, 100)
	level.TimeLimit = 4
	service := app.NewGameService(
		memory.NewSessionStore(),
		memory.NewLevelRepository(catalog.NewStaticLoader(level), time.Minute),
		app.WithTickInterval(5*time.Millisecond),
	)
	_, _ = service.Start(ctx, "p1", "Alice")
	_, _ = service.GoTo(ctx, "p1", "level1")
	_, _ = service.ChooseSubject(ctx, "p1", "s1")

	_, snap, err := service.ChooseOption(ctx, "p1", "wrong")
	require.NoError(t, err)
	assert.False(t, snap.Round.TimerActive)

	time.Sleep(40 * time.Millisecond)
	snap, err = service.Snapshot(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Round.AttemptCount)
	assert.Equal(t, "wrong", snap.Round.ChosenOptionID)
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	_, err := service.Next(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, _ = service.Start(ctx, "p1", "Alice")
	_, _ = service.Start(ctx, "p1", "")
	service.Leave(ctx, "p1")
	snap, err := service.Snapshot(ctx, "p1")
	require.NoError(t, err, "second connection still holds the session")
	assert.Equal(t, "Alice", snap.Name)

	service.Leave(ctx, "p1")
	_, err = service.Snapshot(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	ctx := context.Background()
	service := newTestService()
	_, _ = service.Start(ctx, "p1", "Alice")

	ch, cancel, err := service.Subscribe(ctx, "p1")
	require.NoError(t, err)
	defer cancel()
	<-ch // initial snapshot

	_, err = service.Next(ctx, "p1")
	require.NoError(t, err)
	update := <-ch
	assert.Equal(t, domain.EventState, update.Type)
	assert.Equal(t, domain.SceneLearn, update.Snapshot.Scene)
}

type touchCountingStore struct {
	*memory.SessionStore
	touches map[string]int
}

func (s *touchCountingStore) Touch(playerID string) {
	s.touches[playerID]++
	s.SessionStore.Touch(playerID)
}

func TestActionsTouchSession(t *testing.T) {
	ctx := context.Background()
	store := &touchCountingStore{SessionStore: memory.NewSessionStore(), touches: map[string]int{}}
	service := app.NewGameService(store, memory.NewLevelRepository(catalog.NewStaticLoader(), time.Minute))

	_, _ = service.Start(ctx, "p1", "Alice")
	_, err := service.Next(ctx, "p1")
	require.NoError(t, err)
	_, err = service.LearnModel(ctx, "p1", "agile")
	require.NoError(t, err)
	assert.Equal(t, 2, store.touches["p1"])

	_, err = service.Next(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Zero(t, store.touches["ghost"])
}

func learnAll(t *testing.T, service *app.GameService, playerID string) {
	t.Helper()
	for _, m := range catalog.Models() {
		_, err := service.LearnModel(context.Background(), playerID, m.ID)
		require.NoError(t, err)
	}
}

func waitForResult(t *testing.T, events <-chan domain.Event) domain.Event {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Type == domain.EventResult {
				return ev
			}
		case <-timeout:
			t.Fatalf("timed out waiting for result event")
		}
	}
}

func simpleLevel(number, first, retry int) domain.Level {
	return domain.Level{
		Number: number,
		Subjects: []domain.Subject{
			{ID: "s1", Name: "Project", CorrectOptionID: "right"},
		},
		Options: []domain.Option{
			{ID: "right", Name: "Right"},
			{ID: "wrong", Name: "Wrong"},
		},
		FirstTryBonus: first,
		RetryBonus:    retry,
	}
}

func newTestService() *app.GameService {
	return app.NewGameService(
		memory.NewSessionStore(),
		memory.NewLevelRepository(catalog.NewStaticLoader(), 5*time.Minute),
	)
}
