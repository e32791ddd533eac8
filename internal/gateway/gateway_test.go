// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"plugctl/cli/internal/catalog"
	perrors "plugctl/cli/internal/errors"
	"plugctl/cli/internal/executor"
)

type fakePlug struct {
	mu       sync.Mutex
	payloads []string
	dests    []string
	err      error
}

func (f *fakePlug) Execute(_ context.Context, dest, payload string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	f.dests = append(f.dests, dest)
	if f.err != nil {
		return "", f.err
	}
	return `{"err_code":0}`, nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	outcomes []executor.Outcome
}

func (p *recordingPublisher) Publish(_ context.Context, o executor.Outcome) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.outcomes = append(p.outcomes, o)
	return nil
}

func (p *recordingPublisher) Close() {}

func newService(plug *fakePlug, pub *recordingPublisher) *Service {
	exec := executor.New(catalog.Default(), plug, executor.Options{CheckJSON: true})
	if pub == nil {
		return NewService(exec, nil, zerolog.Nop())
	}
	return NewService(exec, pub, zerolog.Nop())
}

func dialBufconn(t *testing.T, svc *Service) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	RegisterRelayServer(s, NewRelayServer(svc))
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestCodeMapping(t *testing.T) {
	tests := []struct {
		kind perrors.Kind
		code codes.Code
		http int
	}{
		{perrors.UnknownCommand, codes.NotFound, 404},
		{perrors.MissingPlaceholder, codes.InvalidArgument, 400},
		{perrors.InvalidSubstitution, codes.InvalidArgument, 400},
		{perrors.ConfigError, codes.InvalidArgument, 400},
		{perrors.ConnectionError, codes.Unavailable, 502},
		{perrors.ProtocolError, codes.DataLoss, 502},
		{perrors.CIError, codes.Internal, 500},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := perrors.New(tt.kind, "x")
			if got := Code(err); got != tt.code {
				t.Errorf("Code() = %v, want %v", got, tt.code)
			}
			if got := HTTPStatus(err); got != tt.http {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.http)
			}
		})
	}
}

func TestServiceDispatch(t *testing.T) {
	plug := &fakePlug{}
	pub := &recordingPublisher{}
	svc := newService(plug, pub)

	res, err := svc.Dispatch(context.Background(), "req-1", Request{
		Command:     "SET_DEVICE_ALIAS",
		Destination: "10.0.0.5",
		Values:      map[string]string{"deviceAlias": "porch light"},
	})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res.RequestID != "req-1" || res.Status != "executed" || res.Response != `{"err_code":0}` {
		t.Errorf("result = %+v", res)
	}
	if plug.payloads[0] != `{"system":{"set_dev_alias":{"alias":"porch light"}}}` {
		t.Errorf("payload = %s", plug.payloads[0])
	}
	if len(pub.outcomes) != 1 || pub.outcomes[0].Command != "SET_DEVICE_ALIAS" {
		t.Errorf("published = %+v", pub.outcomes)
	}

	if _, err := svc.Dispatch(context.Background(), "req-2", Request{Command: "PLUG_ON", Destination: "host:abc"}); !perrors.IsKind(err, perrors.ConfigError) {
		t.Errorf("bad destination error = %v", err)
	}
	if len(plug.payloads) != 1 {
		t.Errorf("plug contacted for a bad destination")
	}
}

func TestGRPCListCommands(t *testing.T) {
	conn := dialBufconn(t, newService(&fakePlug{}, nil))

	out := new(structpb.Struct)
	if err := conn.Invoke(context.Background(), ListCommandsFullMethod, &structpb.Struct{}, out); err != nil {
		t.Fatalf("ListCommands error = %v", err)
	}
	list := out.GetFields()["commands"].GetListValue().GetValues()
	if len(list) != len(catalog.Default().All()) {
		t.Fatalf("got %d commands", len(list))
	}
	found := false
	for _, v := range list {
		f := v.GetStructValue().GetFields()
		if f["id"].GetStringValue() == "CONNECT_TO_AP" {
			found = true
			if !f["mutates_state"].GetBoolValue() {
				t.Error("CONNECT_TO_AP should mutate state")
			}
			if n := len(f["placeholders"].GetListValue().GetValues()); n != 2 {
				t.Errorf("CONNECT_TO_AP placeholders = %d, want 2", n)
			}
		}
	}
	if !found {
		t.Error("CONNECT_TO_AP missing from listing")
	}
}

func TestGRPCDispatch(t *testing.T) {
	plug := &fakePlug{}
	conn := dialBufconn(t, newService(plug, nil))

	in, err := structpb.NewStruct(map[string]any{
		"command":     "SET_LOCATION",
		"destination": "10.0.0.5:9999",
		"values":      map[string]any{"longitude": 13.4, "latitude": "52.5"},
	})
	if err != nil {
		t.Fatal(err)
	}
	ctx := metadata.AppendToOutgoingContext(context.Background(), RequestIDMetadataHeader, "abc-123")
	var header metadata.MD
	out := new(structpb.Struct)
	if err := conn.Invoke(ctx, DispatchFullMethod, in, out, grpc.Header(&header)); err != nil {
		t.Fatalf("Dispatch error = %v", err)
	}
	f := out.GetFields()
	if f["status"].GetStringValue() != "executed" || f["request_id"].GetStringValue() != "abc-123" {
		t.Errorf("reply = %v", out)
	}
	if got := header.Get(RequestIDMetadataHeader); len(got) != 1 || got[0] != "abc-123" {
		t.Errorf("header = %v", header)
	}
	want := `{"system":{"set_dev_location":{"longitude":13.4,"latitude":52.5}}}`
	if plug.payloads[0] != want {
		t.Errorf("payload = %s, want %s", plug.payloads[0], want)
	}
}

func TestGRPCDispatchErrors(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		err  error
		code codes.Code
	}{
		{"unknown command", map[string]any{"command": "NOPE", "destination": "10.0.0.5"}, nil, codes.NotFound},
		{"missing value", map[string]any{"command": "SET_DEVICE_ALIAS", "destination": "10.0.0.5"}, nil, codes.InvalidArgument},
		{"non scalar value", map[string]any{"command": "SET_DEVICE_ALIAS", "destination": "10.0.0.5", "values": map[string]any{"deviceAlias": []any{"a"}}}, nil, codes.InvalidArgument},
		{"plug unreachable", map[string]any{"command": "PLUG_ON", "destination": "10.0.0.5"}, perrors.Wrap(perrors.ConnectionError, "connect", errors.New("refused")), codes.Unavailable},
		{"short reply", map[string]any{"command": "PLUG_ON", "destination": "10.0.0.5"}, perrors.New(perrors.ProtocolError, "short frame"), codes.DataLoss},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := dialBufconn(t, newService(&fakePlug{err: tt.err}, nil))
			in, err := structpb.NewStruct(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			err = conn.Invoke(context.Background(), DispatchFullMethod, in, new(structpb.Struct))
			if got := status.Code(err); got != tt.code {
				t.Fatalf("code = %v (%v), want %v", got, err, tt.code)
			}
			if !strings.Contains(status.Convert(err).Message(), "(request ") {
				t.Errorf("message lacks request id: %q", status.Convert(err).Message())
			}
		})
	}
}

func TestHTTPCommands(t *testing.T) {
	srv := httptest.NewServer(NewHTTP(newService(&fakePlug{}, nil)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/commands")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var cmds []CommandInfo
	if err := json.NewDecoder(resp.Body).Decode(&cmds); err != nil {
		t.Fatal(err)
	}
	if len(cmds) == 0 || cmds[0].ID > cmds[len(cmds)-1].ID {
		t.Errorf("commands not sorted: %v", cmds)
	}
}

func TestHTTPDispatch(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		plugErr    error
		wantStatus int
		wantKind   string
		wantResult string
	}{
		{
			name:       "dry run mutating",
			path:       "/devices/10.0.0.5/commands/PLUG_ON",
			body:       `{"dry_run":true}`,
			wantStatus: http.StatusOK,
			wantResult: "skipped_dry_run",
		},
		{
			name:       "query with port",
			path:       "/devices/10.0.0.5:10000/commands/GET_SYSTEM_INFO",
			wantStatus: http.StatusOK,
			wantResult: "executed",
		},
		{
			name:       "ipv6 destination",
			path:       "/devices/%5B::1%5D:9999/commands/GET_TIME",
			wantStatus: http.StatusOK,
			wantResult: "executed",
		},
		{
			name:       "unknown",
			path:       "/devices/10.0.0.5/commands/FLY",
			wantStatus: http.StatusNotFound,
			wantKind:   "unknown_command",
		},
		{
			name:       "missing value",
			path:       "/devices/10.0.0.5/commands/CONNECT_TO_AP",
			body:       `{"values":{"ssid":"home"}}`,
			wantStatus: http.StatusBadRequest,
			wantKind:   "missing_placeholder",
		},
		{
			name:       "unreachable",
			path:       "/devices/10.0.0.5/commands/PLUG_OFF",
			plugErr:    perrors.Wrap(perrors.ConnectionError, "connect", errors.New("refused")),
			wantStatus: http.StatusBadGateway,
			wantKind:   "connection_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(NewHTTP(newService(&fakePlug{err: tt.plugErr}, nil)))
			defer srv.Close()

			resp, err := http.Post(srv.URL+tt.path, "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			id := resp.Header.Get("X-Request-Id")
			if id == "" {
				t.Error("missing X-Request-Id header")
			}

			if tt.wantKind != "" {
				var body ErrorBody
				if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
					t.Fatal(err)
				}
				if body.Kind != tt.wantKind || body.RequestID != id {
					t.Errorf("error body = %+v", body)
				}
				return
			}
			var res Result
			if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
				t.Fatal(err)
			}
			if res.Status != tt.wantResult || res.RequestID != id {
				t.Errorf("result = %+v", res)
			}
		})
	}
}

func TestServerServeAndShutdown(t *testing.T) {
	grpcLn, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	httpLn, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewServer(newService(&fakePlug{}, nil)).Serve(ctx, grpcLn, httpLn) }()

	resp, err := http.Get("http://" + httpLn.Addr().String() + "/commands")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Serve() error = %v", err)
	}
}
