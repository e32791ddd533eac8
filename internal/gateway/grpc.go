// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package gateway

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	perrors "plugctl/cli/internal/errors"
	"plugctl/cli/internal/logging"
)

var errInvalidValue error = perrors.New(perrors.ConfigError, "values must be strings, numbers or booleans")

// Relay method names. Messages are google.protobuf.Struct on both sides so
// that no generated code is needed.
const (
	RelayServiceName        = "plugctl.v1.Relay"
	ListCommandsFullMethod  = "/plugctl.v1.Relay/ListCommands"
	DispatchFullMethod      = "/plugctl.v1.Relay/Dispatch"
	RequestIDMetadataHeader = "x-request-id"
)

// RelayServer is the server API for the Relay service.
type RelayServer interface {
	ListCommands(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Dispatch(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RelayServiceDesc describes the Relay service to grpc.Server.
var RelayServiceDesc = grpc.ServiceDesc{
	ServiceName: RelayServiceName,
	HandlerType: (*RelayServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListCommands", Handler: unaryHandler(ListCommandsFullMethod, RelayServer.ListCommands)},
		{MethodName: "Dispatch", Handler: unaryHandler(DispatchFullMethod, RelayServer.Dispatch)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "plugctl/v1/relay.proto",
}

// RegisterRelayServer registers srv with s.
func RegisterRelayServer(s grpc.ServiceRegistrar, srv RelayServer) {
	s.RegisterService(&RelayServiceDesc, srv)
}

type relayMethod func(RelayServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call relayMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RelayServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(RelayServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

type relayServer struct {
	svc *Service
}

// NewRelayServer adapts a Service to the gRPC Relay API.
func NewRelayServer(svc *Service) RelayServer {
	return &relayServer{svc: svc}
}

func (r *relayServer) ListCommands(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	cmds := r.svc.Commands()
	list := make([]any, 0, len(cmds))
	for _, c := range cmds {
		ph := make([]any, len(c.Placeholders))
		for i, p := range c.Placeholders {
			ph[i] = p
		}
		list = append(list, map[string]any{
			"id":            c.ID,
			"mutates_state": c.MutatesState,
			"placeholders":  ph,
		})
	}
	return structpb.NewStruct(map[string]any{"commands": list})
}

func (r *relayServer) Dispatch(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id := requestID(ctx)
	_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDMetadataHeader, id))

	req, err := requestFromStruct(in)
	if err != nil {
		return nil, status.Errorf(Code(err), "%s (request %s)", err, id)
	}
	res, err := r.svc.Dispatch(ctx, id, req)
	if err != nil {
		return nil, status.Errorf(Code(err), "%s (request %s)", logging.Mask(err.Error()), id)
	}
	return structpb.NewStruct(map[string]any{
		"request_id":  res.RequestID,
		"command":     res.Command,
		"destination": res.Destination,
		"status":      res.Status,
		"response":    res.Response,
		"dry_run":     res.DryRun,
	})
}

// requestID reuses a caller-supplied ID so that logs on both sides line up.
func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(RequestIDMetadataHeader); len(v) > 0 && v[0] != "" {
			return v[0]
		}
	}
	return uuid.NewString()
}

func requestFromStruct(in *structpb.Struct) (Request, error) {
	f := in.GetFields()
	req := Request{
		Command:     f["command"].GetStringValue(),
		Destination: f["destination"].GetStringValue(),
		DryRun:      f["dry_run"].GetBoolValue(),
		Values:      map[string]string{},
	}
	for name, v := range f["values"].GetStructValue().GetFields() {
		s, err := scalarString(v)
		if err != nil {
			return Request{}, fmt.Errorf("value %q: %w", name, err)
		}
		req.Values[name] = s
	}
	return req, nil
}

// scalarString renders a Struct value the way it would appear in a payload.
func scalarString(v *structpb.Value) (string, error) {
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue, nil
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(k.NumberValue, 'f', -1, 64), nil
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(k.BoolValue), nil
	}
	return "", errInvalidValue
}
