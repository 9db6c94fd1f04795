package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"sdlc-quest/internal/domain"
)

type levelRow struct {
	bun.BaseModel `bun:"table:levels"`

	Number    int             `bun:"number,pk"`
	Title     string          `bun:"title,notnull"`
	Data      json.RawMessage `bun:"data,type:jsonb,notnull"`
	UpdatedAt time.Time       `bun:"updated_at,notnull"`
}

// Seeder upserts level catalogs into the levels table.
type Seeder struct {
	db *bun.DB
}

func NewSeeder(db *bun.DB) *Seeder {
	return &Seeder{db: db}
}

// Seed writes every level, replacing rows that already exist.
func (s *Seeder) Seed(ctx context.Context, levels []domain.Level) error {
	if len(levels) == 0 {
		return nil
	}
	rows := make([]levelRow, 0, len(levels))
	now := time.Now().UTC()
	for _, level := range levels {
		if err := level.Validate(); err != nil {
			return err
		}
		data, err := json.Marshal(level)
		if err != nil {
			return fmt.Errorf("marshal level %d: %w", level.Number, err)
		}
		rows = append(rows, levelRow{Number: level.Number, Title: level.Title, Data: data, UpdatedAt: now})
	}

	_, err := s.db.NewInsert().
		Model(&rows).
		On("CONFLICT (number) DO UPDATE").
		Set("title = EXCLUDED.title").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("seed levels: %w", err)
	}
	return nil
}
