//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/tiltmaze/internal/config"
	"github.com/zeusync/tiltmaze/internal/server"
)

func InitializeServer(cfg config.Config) (*server.Server, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
