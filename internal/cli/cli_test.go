package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"sdlc-quest/internal/config"
	"sdlc-quest/internal/infra/sqlite"
)

func TestPrintLevels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printLevels(&buf))

	var out struct {
		Levels []levelInfo `yaml:"levels"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out.Levels, 6)
	assert.Equal(t, "Basic Matching", out.Levels[0].Title)
	assert.Equal(t, 20, out.Levels[5].TimeLimit)
}

func TestSeedSQLite(t *testing.T) {
	cfg := config.Config{}
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "levels.db")
	require.NoError(t, runSeed(context.Background(), cfg, zap.NewNop()))

	store, err := sqlite.Open(cfg.SQLite.Path)
	require.NoError(t, err)
	defer store.Close()
	level, err := store.LoadLevel(context.Background(), 6)
	require.NoError(t, err)
	assert.Len(t, level.Subjects, 15)
}

func TestSeedRequiresTarget(t *testing.T) {
	assert.Error(t, runSeed(context.Background(), config.Config{}, zap.NewNop()))
}

func TestCORSDefaults(t *testing.T) {
	opts := corsOptions(config.Config{})
	assert.Equal(t, []string{"*"}, opts.AllowedOrigins)
	assert.NotEmpty(t, opts.AllowedMethods)
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"start", "migrate", "seed", "levels"})
}
