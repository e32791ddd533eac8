// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	mochi "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"
	"github.com/mochi-mqtt/server/v2/packets"

	"plugctl/cli/internal/catalog"
	"plugctl/cli/internal/executor"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	l.Close()
	return addr
}

// startBroker runs an in-process broker that only admits plugctl/broker-pw
// and forwards everything published under plugctl/# to the returned channel.
func startBroker(t *testing.T) (string, <-chan packets.Packet) {
	t.Helper()
	server := mochi.New(&mochi.Options{InlineClient: true})
	err := server.AddHook(new(auth.Hook), &auth.Options{
		Ledger: &auth.Ledger{
			Auth: auth.AuthRules{
				{Username: "plugctl", Password: "broker-pw", Allow: true},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	addr := freeAddr(t)
	if err := server.AddListener(listeners.NewTCP(listeners.Config{ID: "t1", Address: addr})); err != nil {
		t.Fatal(err)
	}
	go func() { _ = server.Serve() }()
	t.Cleanup(func() { server.Close() })

	received := make(chan packets.Packet, 4)
	err = server.Subscribe("plugctl/#", 1, func(cl *mochi.Client, sub packets.Subscription, pk packets.Packet) {
		received <- pk
	})
	if err != nil {
		t.Fatal(err)
	}
	return "tcp://" + addr, received
}

func TestPublishOutcome(t *testing.T) {
	broker, received := startBroker(t)
	ctx := context.Background()

	pub, err := Connect(ctx, Options{
		Broker:   broker,
		ClientID: "plugctl-test",
		Username: "plugctl",
		Password: "broker-pw",
	})
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer pub.Close()

	o := executor.Outcome{
		Command:     catalog.PlugOn,
		Destination: "10.0.0.5:9999",
		Status:      executor.Executed,
		Response:    `{"system":{"set_relay_state":{"err_code":0}}}`,
	}
	if err := pub.Publish(ctx, o); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case pk := <-received:
		if pk.TopicName != "plugctl/10.0.0.5/state" {
			t.Errorf("topic = %q", pk.TopicName)
		}
		var msg Message
		if err := json.Unmarshal(pk.Payload, &msg); err != nil {
			t.Fatal(err)
		}
		if msg.Command != "PLUG_ON" || msg.Status != "executed" || msg.DryRun || msg.Response != o.Response {
			t.Errorf("message = %+v", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no message reached the broker")
	}
}

func TestConnectRejectedCredentials(t *testing.T) {
	broker, _ := startBroker(t)
	_, err := Connect(context.Background(), Options{
		Broker:   broker,
		ClientID: "intruder",
		Username: "plugctl",
		Password: "wrong",
		Timeout:  2 * time.Second,
	})
	if err == nil {
		t.Fatal("Connect() with bad password succeeded")
	}
}

func TestConnectRequiresBroker(t *testing.T) {
	if _, err := Connect(context.Background(), Options{}); err == nil {
		t.Fatal("Connect() without broker succeeded")
	}
}

func TestMessageFrom(t *testing.T) {
	o := executor.Outcome{
		Command:     catalog.PlugOff,
		Destination: "plug.lan",
		DryRun:      true,
		Status:      executor.Failed,
		Err:         errors.New("connection refused"),
	}
	m := MessageFrom(o)
	if m.Status != "failed" || !m.DryRun || m.Error != "connection refused" || m.Response != "" {
		t.Errorf("MessageFrom() = %+v", m)
	}

	b, _ := json.Marshal(MessageFrom(executor.Outcome{Command: catalog.PlugOn, Status: executor.SkippedDryRun, DryRun: true}))
	want := `{"command":"PLUG_ON","destination":"","status":"skipped_dry_run","dry_run":true}`
	if string(b) != want {
		t.Errorf("json = %s, want %s", b, want)
	}
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	if err := p.Publish(context.Background(), executor.Outcome{}); err != nil {
		t.Fatal(err)
	}
	p.Close()
}
