// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session performs one request/response exchange with a plug.
//
// Every call opens its own TCP connection, writes one frame, reads until the
// plug closes the stream and decrypts what arrived. Connections are never
// reused; the firmware does not support keep-alive and the response has no
// length field, so end-of-stream is the only message boundary.
package session

import (
	"context"
	"io"
	"net"
	"time"

	"plugctl/cli/internal/destination"
	perrors "plugctl/cli/internal/errors"
	"plugctl/cli/internal/protocol"
)

// Dialer opens the transport connection. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Options configure a Session.
type Options struct {
	// Port is used when the destination carries none. Defaults to 9999.
	Port int
	// Timeout bounds the whole exchange. Zero means wait for the peer forever.
	Timeout time.Duration
	// Dialer overrides the default net.Dialer.
	Dialer Dialer
}

// Session exchanges payloads with plugs. It holds no per-connection state and
// is safe for concurrent use.
type Session struct {
	port    int
	timeout time.Duration
	dialer  Dialer
}

// New creates a Session.
func New(opts Options) *Session {
	s := &Session{port: opts.Port, timeout: opts.Timeout, dialer: opts.Dialer}
	if s.port == 0 {
		s.port = protocol.DefaultPort
	}
	if s.dialer == nil {
		s.dialer = &net.Dialer{}
	}
	return s
}

// Execute sends payload to dest and returns the decrypted response text.
func (s *Session) Execute(ctx context.Context, dest string, payload string) (string, error) {
	addr, err := destination.Parse(dest, s.port)
	if err != nil {
		return "", perrors.Wrap(perrors.ConfigError, "parse destination", err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	conn, err := s.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", perrors.Wrap(perrors.ConnectionError, "connect to "+addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return "", perrors.Wrap(perrors.ConnectionError, "set deadline", err)
		}
	}

	if _, err := conn.Write(protocol.Encrypt([]byte(payload))); err != nil {
		return "", perrors.Wrap(perrors.ConnectionError, "write request", err)
	}

	raw, err := io.ReadAll(conn)
	if err != nil {
		return "", perrors.Wrap(perrors.ConnectionError, "read response", err)
	}

	plain, err := protocol.Decrypt(raw)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
