package app

import (
	"context"
	"fmt"
	"net/http"

	"codebundle/internal/cache/analysis"
	"codebundle/internal/gateway/config"
	"codebundle/internal/gateway/handler"
	"codebundle/internal/gateway/handler/rpc"
	"codebundle/internal/gateway/server"
	"codebundle/internal/gateway/service/events"
	gatewayexport "codebundle/internal/gateway/service/export"
	"codebundle/internal/scan"
)

type App struct {
	server *server.Server
	stores *gatewayStores
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewWithConfig(context.Background(), cfg)
}

func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	// Dependencies
	stores := initStores(ctx, cfg)
	ignore := scan.DefaultIgnoreDirs()
	ignore = append(ignore, cfg.Bundle.IgnoreDirs...)
	cache := analysis.New(cfg.Cache.MaxEntries, cfg.Cache.TTL, gatewayexport.NewLoader(ignore))

	exportSvc, err := gatewayexport.New(gatewayexport.Deps{
		Cache:       cache,
		Sink:        stores.sink,
		History:     stores.history,
		Counter:     stores.counter,
		Hub:         events.NewHub(),
		AllowedRoot: cfg.Bundle.AllowedRoot,
	})
	if err != nil {
		_ = stores.Close()
		return nil, fmt.Errorf("failed to init export service: %w", err)
	}

	exportHandler := handler.NewExportHandler(exportSvc)
	eventsHandler := handler.NewEventsHandler(exportSvc.Hub())
	rpcHandler := rpc.NewExportHandler(exportSvc)

	// Routing & Server
	mux := server.NewMux(exportHandler, eventsHandler, rpcHandler, cfg.AllowedOrigins)
	srv := server.New(cfg.Port, mux)

	return &App{
		server: srv,
		stores: stores,
	}, nil
}

func (a *App) Handler() http.Handler {
	return a.server.Handler()
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	if cerr := a.stores.Close(); err == nil {
		err = cerr
	}
	return err
}
