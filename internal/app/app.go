package app

import (
	"context"

	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"

	"usage-report/internal/api"
	"usage-report/internal/chart"
	"usage-report/internal/config"
	"usage-report/internal/publisher"
	"usage-report/internal/report"
	"usage-report/internal/storage"
)

// App wires the report service dependencies.
type App struct {
	server    *api.Server
	store     storage.Store
	publisher *publisher.MQTT
	logger    *zap.Logger
}

// New constructs application components.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return nil, err
	}

	a := &App{store: store, logger: logger}

	var opts []report.Option
	if cfg.MQTT.Enabled {
		pub, err := publisher.NewMQTT(cfg.MQTT)
		if err != nil {
			store.Close()
			return nil, err
		}
		a.publisher = pub
		opts = append(opts, report.WithPublisher(pub))
	}

	svc := report.NewService(store, NewRenderer(cfg.Report), logger, opts...)
	a.server = api.NewServer(cfg, svc, logger)

	logger.Info("application configured",
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("mqtt", cfg.MQTT.Enabled),
		zap.Bool("include_end_day", cfg.Report.IncludeEndDay))
	return a, nil
}

// NewRenderer builds the chart renderer from the report geometry.
func NewRenderer(cfg config.ReportConfig) *chart.Renderer {
	return chart.NewRenderer(chart.Options{
		Width:  vg.Length(cfg.WidthInches) * vg.Inch,
		Height: vg.Length(cfg.HeightInches) * vg.Inch,
		DPI:    cfg.DPI,
	})
}

// Run starts serving HTTP requests.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.publisher != nil {
		a.publisher.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("failed to close store", zap.Error(err))
		}
	}
}
