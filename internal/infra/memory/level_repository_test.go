package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sdlc-quest/internal/catalog"
	"sdlc-quest/internal/domain"
)

func TestLevelRepositoryCaches(t *testing.T) {
	loader := &countingLoader{LevelLoader: catalog.NewStaticLoader()}
	repo := NewLevelRepository(loader, time.Minute)

	level, err := repo.GetLevel(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, level.Number)
	assert.Equal(t, 1, loader.calls)

	_, err = repo.GetLevel(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 1, loader.calls, "expected cache hit")
}

func TestLevelRepositoryExpires(t *testing.T) {
	loader := &countingLoader{LevelLoader: catalog.NewStaticLoader()}
	repo := NewLevelRepository(loader, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	_, err := repo.GetLevel(context.Background(), 1)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = repo.GetLevel(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, loader.calls)
}

func TestLevelRepositoryPropagatesMiss(t *testing.T) {
	repo := NewLevelRepository(catalog.NewStaticLoader(), time.Minute)
	_, err := repo.GetLevel(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrLevelNotFound)
}

type countingLoader struct {
	LevelLoader
	calls int
}

func (l *countingLoader) LoadLevel(ctx context.Context, number int) (domain.Level, error) {
	l.calls++
	return l.LevelLoader.LoadLevel(ctx, number)
}
