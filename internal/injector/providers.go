package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/tiltmaze/internal/config"
	"github.com/zeusync/tiltmaze/internal/core/game"
	"github.com/zeusync/tiltmaze/internal/core/level"
	"github.com/zeusync/tiltmaze/internal/core/observability/log"
	"github.com/zeusync/tiltmaze/internal/server"
)

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideCatalog,
	ProvideServerConfig,
	ProvideGameConfig,
	ProvideServer,
)

func ProvideLogger(cfg config.Config) (*log.Logger, func()) {
	logger := log.NewWithOptions(cfg.LogOptions())
	return logger, func() { _ = logger.Sync() }
}

func ProvideCatalog(cfg config.Config, logger *log.Logger) (*level.Catalog, error) {
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	logger.Info("Levels loaded",
		log.Int("count", catalog.Len()),
		log.String("dir", cfg.Levels.Dir))
	return catalog, nil
}

func ProvideServerConfig(cfg config.Config) server.Config { return cfg.ServerConfig() }

func ProvideGameConfig(cfg config.Config) game.Config { return cfg.GameConfig() }

func ProvideServer(cfg server.Config, gameCfg game.Config, catalog *level.Catalog, logger *log.Logger) *server.Server {
	return server.NewServer(cfg, gameCfg, catalog, logger)
}
