package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"sdlc-quest/internal/domain"
)

// LevelLoader fetches a level catalog from a backing store.
type LevelLoader interface {
	LoadLevel(ctx context.Context, number int) (domain.Level, error)
}

// LevelRepository caches level catalogs in Redis and falls back to a loader on miss.
// Each level is stored as a JSON document: SET sdlc:level:{number} {json} EX ttl
type LevelRepository struct {
	client redis.Cmdable
	loader LevelLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewLevelRepository(client redis.Cmdable, loader LevelLoader, ttl time.Duration) *LevelRepository {
	return &LevelRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *LevelRepository) GetLevel(ctx context.Context, number int) (domain.Level, error) {
	if level, ok := r.fromCache(ctx, number); ok {
		return level, nil
	}

	result, err, _ := r.sf.Do(strconv.Itoa(number), func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if level, ok := r.fromCache(ctx, number); ok {
			return level, nil
		}

		level, err := r.loader.LoadLevel(ctx, number)
		if err != nil {
			return domain.Level{}, err
		}
		if data, err := json.Marshal(level); err == nil {
			_ = r.client.Set(ctx, levelKey(number), string(data), r.ttlWithJitter()).Err()
		}
		return level, nil
	})
	if err != nil {
		return domain.Level{}, err
	}
	return result.(domain.Level), nil
}

// Invalidate drops a cached level so the next read goes to the loader.
func (r *LevelRepository) Invalidate(ctx context.Context, number int) error {
	return r.client.Del(ctx, levelKey(number)).Err()
}

func (r *LevelRepository) fromCache(ctx context.Context, number int) (domain.Level, bool) {
	raw, err := r.client.Get(ctx, levelKey(number)).Result()
	if err != nil {
		return domain.Level{}, false
	}
	var level domain.Level
	if err := json.Unmarshal([]byte(raw), &level); err != nil {
		return domain.Level{}, false
	}
	return level, true
}

func levelKey(number int) string {
	return "sdlc:level:" + strconv.Itoa(number)
}

func (r *LevelRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
