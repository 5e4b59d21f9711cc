// Package rpcapi names the Connect procedures shared by the gateway and its
// clients. Messages are the plain structs in internal/types carried by a JSON
// codec, so a Connect unary call is wire-compatible with a JSON POST.
package rpcapi

import (
	"encoding/json"

	"connectrpc.com/connect"
)

const (
	ExportServiceName = "codebundle.v1.ExportService"
	TreeServiceName   = "codebundle.v1.TreeService"

	ExportProcedure  = "/" + ExportServiceName + "/Export"
	GetTreeProcedure = "/" + TreeServiceName + "/GetTree"
)

// JSONCodec replaces Connect's protobuf-JSON codec for non-proto messages.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Options is the codec option set used on both ends.
func Options() []connect.Option {
	return []connect.Option{connect.WithCodec(JSONCodec{})}
}

// ClientOptions is Options typed for connect.NewClient.
func ClientOptions() []connect.ClientOption {
	opts := Options()
	out := make([]connect.ClientOption, len(opts))
	for i, o := range opts {
		out[i] = o
	}
	return out
}

// HandlerOptions is Options typed for connect handler constructors.
func HandlerOptions() []connect.HandlerOption {
	opts := Options()
	out := make([]connect.HandlerOption, len(opts))
	for i, o := range opts {
		out[i] = o
	}
	return out
}
