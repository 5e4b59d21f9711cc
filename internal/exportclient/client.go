// Package exportclient submits export requests and loads trees from the
// bundle gateway over Connect.
package exportclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"

	"codebundle/internal/rpcapi"
	t "codebundle/internal/types"
)

const DefaultTimeout = 30 * time.Second

// ErrExportFailed wraps every failed export: transport errors, timeouts and
// ok=false responses alike.
var ErrExportFailed = errors.New("export failed")

type Options struct {
	BaseURL string
	// Timeout bounds each call; zero means DefaultTimeout.
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	timeout time.Duration
	export  *connect.Client[t.ExportRequest, t.ExportResponse]
	tree    *connect.Client[t.TreeRequest, t.Tree]
}

func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("base url is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		timeout: timeout,
		export:  connect.NewClient[t.ExportRequest, t.ExportResponse](httpClient, base+rpcapi.ExportProcedure, rpcapi.ClientOptions()...),
		tree:    connect.NewClient[t.TreeRequest, t.Tree](httpClient, base+rpcapi.GetTreeProcedure, rpcapi.ClientOptions()...),
	}, nil
}

// Export submits req once. There are no retries.
func (c *Client) Export(ctx context.Context, req t.ExportRequest) (t.ExportResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.export.CallUnary(ctx, connect.NewRequest(&req))
	if err != nil {
		return t.ExportResponse{}, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	out := *res.Msg
	if !out.OK {
		msg := strings.TrimSpace(out.Error)
		if msg == "" {
			msg = "server reported failure"
		}
		return out, fmt.Errorf("%w: %s", ErrExportFailed, msg)
	}
	return out, nil
}

func (c *Client) Tree(ctx context.Context, root string) (t.Tree, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.tree.CallUnary(ctx, connect.NewRequest(&t.TreeRequest{Root: root}))
	if err != nil {
		return t.Tree{}, fmt.Errorf("load tree: %w", err)
	}
	return *res.Msg, nil
}
