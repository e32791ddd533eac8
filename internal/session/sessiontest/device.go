// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package sessiontest provides an in-process plug that speaks the wire protocol.
package sessiontest

import (
	"encoding/json"
	"net"
	"sync"
	"testing"

	"plugctl/cli/internal/protocol"
)

// Device is a fake plug listening on a loopback port.
type Device struct {
	ln      net.Listener
	respond func(req string) []byte

	mu       sync.Mutex
	requests []string
	conns    int
	wg       sync.WaitGroup
}

// Start launches a fake plug that answers each request with the encrypted
// result of respond. The device stops when the test finishes.
func Start(t testing.TB, respond func(req string) string) *Device {
	return StartRaw(t, func(req string) []byte {
		return protocol.Encrypt([]byte(respond(req)))
	})
}

// StartRaw is like Start but writes whatever bytes respond returns, unframed.
func StartRaw(t testing.TB, respond func(req string) []byte) *Device {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	d := &Device{ln: ln, respond: respond}
	d.wg.Add(1)
	go d.serve()
	t.Cleanup(func() {
		_ = ln.Close()
		d.wg.Wait()
	})
	return d
}

// Addr is the "host:port" the device listens on.
func (d *Device) Addr() string { return d.ln.Addr().String() }

// Requests returns the decrypted requests received so far.
func (d *Device) Requests() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.requests))
	copy(out, d.requests)
	return out
}

// Connections returns how many connections the device accepted.
func (d *Device) Connections() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.conns
}

func (d *Device) serve() {
	defer d.wg.Done()
	for {
		conn, err := d.ln.Accept()
		if err != nil {
			return
		}
		d.mu.Lock()
		d.conns++
		d.mu.Unlock()
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.handle(conn)
		}()
	}
}

// handle reads until the buffered bytes decrypt to a JSON document, since the
// request frame has no length either.
func (d *Device) handle(conn net.Conn) {
	defer conn.Close()
	var buf []byte
	chunk := make([]byte, 1024)
	var req string
	for {
		n, err := conn.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if plain, derr := protocol.Decrypt(buf); derr == nil && json.Valid(plain) {
			req = string(plain)
			break
		}
		if err != nil {
			return
		}
	}
	d.mu.Lock()
	d.requests = append(d.requests, req)
	d.mu.Unlock()
	_, _ = conn.Write(d.respond(req))
}
