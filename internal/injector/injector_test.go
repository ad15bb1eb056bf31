package injector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/tiltmaze/internal/config"
	"github.com/zeusync/tiltmaze/internal/core/game"
	"github.com/zeusync/tiltmaze/internal/core/level"
)

func TestInitializeServer(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "error"

	srv, cleanup, err := InitializeServer(cfg)
	require.NoError(t, err)
	defer cleanup()

	stats := srv.GetStats()
	assert.Equal(t, len(level.Builtin()), stats.Levels)
	assert.False(t, stats.Running)
	assert.Equal(t, game.DefaultConfig(), ProvideGameConfig(cfg))
}

func TestInitializeServerBadLevels(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "error"
	cfg.Levels.Dir = t.TempDir()

	_, _, err := InitializeServer(cfg)
	assert.ErrorIs(t, err, level.ErrNoLevels)
}
