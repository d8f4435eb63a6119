//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"
	"github.com/zeusync/spatial/internal/core/spatial"
)

func InitializeRuntime(cfg spatial.Config) *Runtime {
	wire.Build(ProviderSet)
	return nil
}
