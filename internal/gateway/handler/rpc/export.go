package rpc

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"codebundle/internal/gateway/service/export"
	"codebundle/internal/rpcapi"
	t "codebundle/internal/types"
)

type ExportHandler struct {
	svc *export.Service
}

func NewExportHandler(svc *export.Service) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// Export reports export failures inside the response (ok=false) so clients
// see the same body as the plain JSON endpoint. Only malformed requests are
// rejected with a Connect error.
func (h *ExportHandler) Export(ctx context.Context, req *connect.Request[t.ExportRequest]) (*connect.Response[t.ExportResponse], error) {
	if req.Msg == nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("request body is required"))
	}
	resp, _ := h.svc.Export(ctx, *req.Msg)
	return connect.NewResponse(&resp), nil
}

func (h *ExportHandler) GetTree(ctx context.Context, req *connect.Request[t.TreeRequest]) (*connect.Response[t.Tree], error) {
	root := ""
	if req.Msg != nil {
		root = strings.TrimSpace(req.Msg.Root)
	}
	tree, err := h.svc.Tree(ctx, root)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&tree), nil
}

func toConnectError(err error) error {
	switch {
	case errors.Is(err, export.ErrRootNotAllowed):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, fs.ErrNotExist):
		return connect.NewError(connect.CodeNotFound, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// Routes returns the Connect handlers to mount on the gateway mux.
func (h *ExportHandler) Routes() map[string]http.Handler {
	opts := rpcapi.HandlerOptions()
	return map[string]http.Handler{
		rpcapi.ExportProcedure:  connect.NewUnaryHandler(rpcapi.ExportProcedure, h.Export, opts...),
		rpcapi.GetTreeProcedure: connect.NewUnaryHandler(rpcapi.GetTreeProcedure, h.GetTree, opts...),
	}
}
