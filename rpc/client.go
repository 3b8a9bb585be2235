package rpc

import (
	"context"
	"encoding/json"

	"maze-server/maze"
	"maze-server/solve"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls a remote Solver service.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in any, out any, opts ...grpc.CallOption) error {
	req := new(structpb.Struct)
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		if err := protojson.Unmarshal(b, req); err != nil {
			return err
		}
	}
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, resp, opts...); err != nil {
		return err
	}
	return decodeStruct(resp, out)
}

func (c *Client) Solve(ctx context.Context, req solve.Request, opts ...grpc.CallOption) (*solve.Response, error) {
	out := new(solve.Response)
	if err := c.invoke(ctx, "Solve", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Compare(ctx context.Context, req solve.Request, opts ...grpc.CallOption) (*solve.Comparison, error) {
	out := new(solve.Comparison)
	if err := c.invoke(ctx, "Compare", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListMazes(ctx context.Context, opts ...grpc.CallOption) ([]maze.Summary, error) {
	var out mazeList
	if err := c.invoke(ctx, "ListMazes", nil, &out, opts...); err != nil {
		return nil, err
	}
	return out.Mazes, nil
}
