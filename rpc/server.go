// Package rpc serves the solver over gRPC. Messages are google.protobuf.Struct
// values carrying the same JSON documents as the REST API, so clients need no
// generated stubs.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"maze-server/maze"
	"maze-server/solve"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "mazeserver.v1.Solver"

// SolverServer is the server API for the Solver service.
type SolverServer interface {
	Solve(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Compare(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListMazes(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes the Solver service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SolverServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Solve", Handler: unaryHandler("Solve", SolverServer.Solve)},
		{MethodName: "Compare", Handler: unaryHandler("Compare", SolverServer.Compare)},
		{MethodName: "ListMazes", Handler: unaryHandler("ListMazes", SolverServer.ListMazes)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mazeserver/v1/solver.proto",
}

func unaryHandler(method string, call func(SolverServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SolverServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SolverServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Register adds the Solver service to s.
func Register(s grpc.ServiceRegistrar, srv SolverServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// NewGRPCServer builds a grpc.Server with logging and panic recovery and the
// Solver service registered.
func NewGRPCServer(svc *solve.Service, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(logInterceptor, recoverInterceptor))
	s := grpc.NewServer(opts...)
	Register(s, NewServer(svc))
	return s
}

func logInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	began := time.Now()
	resp, err := handler(ctx, req)
	log.Printf("gRPC %s %s in %v", info.FullMethod, status.Code(err), time.Since(began))
	return resp, err
}

func recoverInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] panic in %s: %v\n%s", info.FullMethod, r, debug.Stack())
			err = status.Error(codes.Internal, "internal error")
		}
	}()
	return handler(ctx, req)
}

// Server implements SolverServer on top of a solve.Service.
type Server struct {
	svc *solve.Service
}

func NewServer(svc *solve.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) Solve(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req solve.Request
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	resp, err := s.svc.Solve(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(resp)
}

func (s *Server) Compare(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req solve.Request
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	cmp, err := s.svc.Compare(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(cmp)
}

// mazeList is the ListMazes response document.
type mazeList struct {
	Mazes []maze.Summary `json:"mazes"`
}

func (s *Server) ListMazes(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	entries := s.svc.Store().List()
	out := mazeList{Mazes: make([]maze.Summary, 0, len(entries))}
	for _, e := range entries {
		out.Mazes = append(out.Mazes, e.Summary(false))
	}
	return toStruct(out)
}

// toStatus maps domain errors onto gRPC codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, maze.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case solve.IsClientError(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func fromStruct(in *structpb.Struct, out any) error {
	b, err := protojson.Marshal(in)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "encoding request: %v", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	return nil
}

func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	return out, nil
}

// decodeStruct is fromStruct for clients, returning plain errors.
func decodeStruct(in *structpb.Struct, out any) error {
	b, err := protojson.Marshal(in)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", ServiceName, err)
	}
	return nil
}
