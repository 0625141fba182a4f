package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/devkit/internal/config"
	"github.com/zeusync/devkit/internal/core/events"
	"github.com/zeusync/devkit/internal/core/markdown"
	"github.com/zeusync/devkit/internal/core/observability/log"
	"github.com/zeusync/devkit/internal/core/workspace"
)

var ProviderSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideBus,
	ProvideComparison,
	ProvideRenderer,
)

func ProvideLogger(cfg *config.Config) (*log.Logger, error) {
	return cfg.NewLogger()
}

func ProvideBus(logger log.Log) events.Bus {
	bus := events.New()
	bus.AddObserver(events.NewLogObserver(logger))
	return bus
}

func ProvideComparison(cfg *config.Config, bus events.Bus, logger log.Log) *workspace.Comparison {
	opts := []workspace.Option{
		workspace.WithBus(bus),
		workspace.WithLogger(logger),
		workspace.WithMaxDepth(cfg.History.MaxDepth),
		workspace.WithDiffOptions(cfg.DiffOptions()...),
	}
	if cfg.History.Dedup {
		opts = append(opts, workspace.WithDedup())
	}
	return workspace.NewComparison(opts...)
}

func ProvideRenderer(cfg *config.Config, logger log.Log) *markdown.Renderer {
	return markdown.New(cfg.MarkdownConfig(logger))
}
