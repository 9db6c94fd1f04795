package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"sdlc-quest/internal/domain"
)

// LevelLoader loads level catalogs stored as JSONB in Postgres.
type LevelLoader struct {
	pool *pgxpool.Pool
}

func NewLevelLoader(pool *pgxpool.Pool) *LevelLoader {
	return &LevelLoader{pool: pool}
}

func (l *LevelLoader) LoadLevel(ctx context.Context, number int) (domain.Level, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM levels WHERE number=$1`, number).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Level{}, fmt.Errorf("level %d: %w", number, domain.ErrLevelNotFound)
	}
	if err != nil {
		return domain.Level{}, fmt.Errorf("load level: %w", err)
	}
	var level domain.Level
	if err := json.Unmarshal(raw, &level); err != nil {
		return domain.Level{}, fmt.Errorf("unmarshal level: %w", err)
	}
	level.Number = number
	return level, nil
}
