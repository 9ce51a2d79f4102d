package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, Default().Validate())
	})

	t.Run("overriding the defaults", func(t *testing.T) {
		path := writeConfig(t, `
game: connect4
mode: match
search:
  duration: 250ms
  processes: 4
  seed: 9
match:
  games: 3
  opponents:
    - iterations: 500
    - duration: 1s
      processes: 2
`)

		cfg, err := Load(path)

		require.NoError(t, err)
		require.Equal(t, "connect4", cfg.Game)
		require.Equal(t, 250*time.Millisecond, cfg.Search.Duration)
		require.Equal(t, 1000, cfg.Search.Iterations, "Unset fields keep their defaults")
		require.Equal(t, 4, cfg.Search.Processes)
		require.Equal(t, uint64(9), cfg.Search.Seed)
		require.Equal(t, 3, cfg.Match.Games)
		require.Len(t, cfg.Match.Opponents, 2)
		require.Equal(t, time.Second, cfg.Match.Opponents[1].Duration)
		require.Equal(t, ":8080", cfg.Server.Addr)
	})

	t.Run("rejecting unknown games and modes", func(t *testing.T) {
		_, err := Load(writeConfig(t, "game: chess\n"))
		require.ErrorIs(t, err, ErrInvalidConfig)

		_, err = Load(writeConfig(t, "mode: tournament\n"))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("rejecting a match without opponents", func(t *testing.T) {
		_, err := Load(writeConfig(t, "mode: match\n"))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("rejecting a search without budget", func(t *testing.T) {
		_, err := Load(writeConfig(t, "search:\n  iterations: 0\n"))
		require.ErrorContains(t, err, "search needs iterations or a duration")
	})

	t.Run("reporting missing and malformed files", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)

		_, err = Load(writeConfig(t, "search: [\n"))
		require.ErrorContains(t, err, "failed to parse config")
	})
}

func TestResolve(t *testing.T) {
	t.Run("flags override the file before validation", func(t *testing.T) {
		path := writeConfig(t, "mode: match\n")

		cfg, err := Resolve(path, "serve", "othello")

		require.NoError(t, err)
		require.Equal(t, "serve", cfg.Mode)
		require.Equal(t, "othello", cfg.Game)
	})

	t.Run("defaults without a file", func(t *testing.T) {
		cfg, err := Resolve("", "", "connect4")

		require.NoError(t, err)
		require.Equal(t, "selfplay", cfg.Mode)
		require.Equal(t, "connect4", cfg.Game)
	})

	t.Run("overrides are validated too", func(t *testing.T) {
		_, err := Resolve("", "match", "")
		require.ErrorIs(t, err, ErrInvalidConfig)

		_, err = Resolve("", "", "chess")
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestSearchOptions(t *testing.T) {
	require.Len(t, Default().Search.Options(), 6, "No seed option without a seed")

	search := Default().Search
	search.Seed = 4
	require.Len(t, search.Options(), 7)
}
