package server

import (
	"net/http"

	"codebundle/internal/gateway/handler"
	"codebundle/internal/gateway/handler/rpc"
	"codebundle/internal/gateway/middleware"
)

func NewMux(
	exportHandler *handler.ExportHandler,
	eventsHandler *handler.EventsHandler,
	rpcHandler *rpc.ExportHandler,
	allowedOrigins []string,
) http.Handler {
	mux := http.NewServeMux()

	// RPC Handlers
	for path, h := range rpcHandler.Routes() {
		mux.Handle(path, h)
	}

	// JSON Handlers
	mux.HandleFunc("/api/tree", exportHandler.HandleTree)
	mux.HandleFunc("/export", exportHandler.HandleExport)
	mux.HandleFunc("/api/exports", exportHandler.HandleHistory)
	mux.HandleFunc("/health", handler.HandleHealth)

	// Websocket
	mux.HandleFunc("/ws/exports", eventsHandler.HandleExportEvents)

	// Middleware
	return middleware.CORS(mux, allowedOrigins...)
}
