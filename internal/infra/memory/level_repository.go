package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"sdlc-quest/internal/domain"
)

// LevelLoader fetches a level catalog from a backing store (built-in data, Postgres, SQLite).
type LevelLoader interface {
	LoadLevel(ctx context.Context, number int) (domain.Level, error)
}

// LevelRepository caches level catalogs with TTL to avoid repeated loader hits.
type LevelRepository struct {
	loader LevelLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[int]cachedLevel
}

type cachedLevel struct {
	level     domain.Level
	expiresAt time.Time
}

func NewLevelRepository(loader LevelLoader, ttl time.Duration) *LevelRepository {
	return &LevelRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[int]cachedLevel),
	}
}

func (r *LevelRepository) GetLevel(ctx context.Context, number int) (domain.Level, error) {
	if level, ok := r.cached(number, r.clock()); ok {
		return level, nil
	}

	result, err, _ := r.sf.Do(strconv.Itoa(number), func() (interface{}, error) {
		now := r.clock()
		if level, ok := r.cached(number, now); ok {
			return level, nil
		}

		level, err := r.loader.LoadLevel(ctx, number)
		if err != nil {
			return domain.Level{}, err
		}

		expiresAt := now.Add(r.ttlWithJitter())
		r.mu.Lock()
		r.cache[number] = cachedLevel{level: level, expiresAt: expiresAt}
		r.mu.Unlock()
		return level, nil
	})
	if err != nil {
		return domain.Level{}, err
	}
	return result.(domain.Level), nil
}

func (r *LevelRepository) cached(number int, now time.Time) (domain.Level, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[number]
	if !ok || !entry.expiresAt.After(now) {
		return domain.Level{}, false
	}
	return entry.level, true
}

func (r *LevelRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
