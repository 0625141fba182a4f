//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/devkit/internal/config"
	"github.com/zeusync/devkit/internal/core/markdown"
	"github.com/zeusync/devkit/internal/core/workspace"
)

func InitializeComparison(cfg *config.Config) (*workspace.Comparison, error) {
	wire.Build(ProviderSet)
	return nil, nil
}

func InitializeRenderer(cfg *config.Config) (*markdown.Renderer, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
