// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session_test

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	perrors "plugctl/cli/internal/errors"
	"plugctl/cli/internal/session"
	"plugctl/cli/internal/session/sessiontest"
)

const sysinfo = `{"system":{"get_sysinfo":{"relay_state":1,"alias":"porch light"}}}`

func TestExecuteRoundTrip(t *testing.T) {
	dev := sessiontest.Start(t, func(req string) string { return sysinfo })

	got, err := session.New(session.Options{Timeout: 5 * time.Second}).
		Execute(context.Background(), dev.Addr(), `{"system":{"get_sysinfo":null}}`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got != sysinfo {
		t.Errorf("Execute() = %q, want %q", got, sysinfo)
	}
	if reqs := dev.Requests(); len(reqs) != 1 || reqs[0] != `{"system":{"get_sysinfo":null}}` {
		t.Errorf("device saw %v", reqs)
	}
}

func TestExecuteOpensConnectionPerCall(t *testing.T) {
	dev := sessiontest.Start(t, func(req string) string { return `{}` })
	s := session.New(session.Options{Timeout: 5 * time.Second})

	for i := 0; i < 3; i++ {
		if _, err := s.Execute(context.Background(), dev.Addr(), `{"system":{"get_sysinfo":null}}`); err != nil {
			t.Fatalf("Execute() #%d error = %v", i, err)
		}
	}
	if got := dev.Connections(); got != 3 {
		t.Errorf("device accepted %d connections, want 3", got)
	}
}

func TestExecuteDefaultPort(t *testing.T) {
	var dialed string
	dialer := dialerFunc(func(ctx context.Context, network, addr string) (net.Conn, error) {
		dialed = addr
		return nil, &net.OpError{Op: "dial", Net: network, Err: errRefused}
	})

	_, err := session.New(session.Options{Dialer: dialer}).Execute(context.Background(), "10.0.0.5", `{}`)
	if !perrors.IsKind(err, perrors.ConnectionError) {
		t.Fatalf("Execute() error = %v, want ConnectionError", err)
	}
	if dialed != "10.0.0.5:9999" {
		t.Errorf("dialed %q, want 10.0.0.5:9999", dialed)
	}
}

func TestExecuteShortResponse(t *testing.T) {
	dev := sessiontest.StartRaw(t, func(req string) []byte { return []byte{0, 0} })

	_, err := session.New(session.Options{Timeout: 5 * time.Second}).
		Execute(context.Background(), dev.Addr(), `{"system":{"get_sysinfo":null}}`)
	if !perrors.IsKind(err, perrors.ProtocolError) {
		t.Fatalf("Execute() error = %v, want ProtocolError", err)
	}
}

func TestExecuteConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	_, err = session.New(session.Options{Timeout: 2 * time.Second}).Execute(context.Background(), addr, `{}`)
	if !perrors.IsKind(err, perrors.ConnectionError) {
		t.Fatalf("Execute() error = %v, want ConnectionError", err)
	}
}

func TestExecuteTimeout(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	done := make(chan struct{})
	defer close(done)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		<-done
	}()

	_, err = session.New(session.Options{Timeout: 100 * time.Millisecond}).Execute(context.Background(), ln.Addr().String(), `{}`)
	if !perrors.IsKind(err, perrors.ConnectionError) {
		t.Fatalf("Execute() error = %v, want ConnectionError", err)
	}
	if !strings.Contains(err.Error(), "read response") {
		t.Errorf("Execute() error = %v, want read failure", err)
	}
}

func TestExecuteBadDestination(t *testing.T) {
	_, err := session.New(session.Options{}).Execute(context.Background(), "", `{}`)
	if !perrors.IsKind(err, perrors.ConfigError) {
		t.Fatalf("Execute() error = %v, want ConfigError", err)
	}
}

type dialerFunc func(ctx context.Context, network, addr string) (net.Conn, error)

func (f dialerFunc) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	return f(ctx, network, addr)
}

type refusedError struct{}

func (refusedError) Error() string { return "connection refused" }

var errRefused error = refusedError{}
