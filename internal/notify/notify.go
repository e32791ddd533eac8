// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package notify publishes dispatch outcomes to an MQTT broker so that home
// automation systems can follow the relay state.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"plugctl/cli/internal/destination"
	"plugctl/cli/internal/executor"
)

// Message is the JSON document published for every outcome.
type Message struct {
	Command     string `json:"command"`
	Destination string `json:"destination"`
	Status      string `json:"status"`
	Response    string `json:"response,omitempty"`
	DryRun      bool   `json:"dry_run"`
	Error       string `json:"error,omitempty"`
}

// MessageFrom converts an outcome. Errors are included as plain text.
func MessageFrom(o executor.Outcome) Message {
	m := Message{
		Command:     string(o.Command),
		Destination: o.Destination,
		Status:      o.Status.String(),
		Response:    o.Response,
		DryRun:      o.DryRun,
	}
	if o.Err != nil {
		m.Error = o.Err.Error()
	}
	return m
}

// Publisher sends outcomes somewhere. Publish errors never change the
// outcome itself; callers log them.
type Publisher interface {
	Publish(ctx context.Context, o executor.Outcome) error
	Close()
}

// Nop discards everything. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, executor.Outcome) error { return nil }
func (Nop) Close()                                          {}

// Options configure the MQTT publisher.
type Options struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      byte
	Retain   bool
	// Topic returns the topic for a plug host.
	Topic func(host string) string
	// Timeout bounds connect and each publish; zero means 5 seconds.
	Timeout time.Duration
	Logger  zerolog.Logger
}

// MQTT publishes outcomes with paho.
type MQTT struct {
	client  paho.Client
	opts    Options
	timeout time.Duration
}

// Connect opens a session with the broker.
func Connect(ctx context.Context, opts Options) (*MQTT, error) {
	if opts.Broker == "" {
		return nil, errors.New("mqtt broker is not set")
	}
	if opts.Topic == nil {
		opts.Topic = func(host string) string { return "plugctl/" + host + "/state" }
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	co := paho.NewClientOptions()
	co.AddBroker(opts.Broker)
	co.SetClientID(opts.ClientID)
	co.SetUsername(opts.Username)
	co.SetPassword(opts.Password)
	co.SetConnectTimeout(timeout)
	co.SetAutoReconnect(false)
	co.SetConnectionLostHandler(func(_ paho.Client, err error) {
		opts.Logger.Warn().Err(err).Msg("mqtt connection lost")
	})

	client := paho.NewClient(co)
	if err := wait(ctx, client.Connect(), timeout); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", opts.Broker, err)
	}
	opts.Logger.Debug().Str("broker", opts.Broker).Msg("mqtt connected")
	return &MQTT{client: client, opts: opts, timeout: timeout}, nil
}

// Publish sends the outcome to the topic for its destination host.
func (m *MQTT) Publish(ctx context.Context, o executor.Outcome) error {
	payload, err := json.Marshal(MessageFrom(o))
	if err != nil {
		return err
	}
	topic := m.opts.Topic(destination.Host(o.Destination))
	if err := wait(ctx, m.client.Publish(topic, m.opts.QoS, m.opts.Retain, payload), m.timeout); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	m.opts.Logger.Debug().Str("topic", topic).Str("status", o.Status.String()).Msg("outcome published")
	return nil
}

// Close disconnects, giving in-flight messages a quarter second.
func (m *MQTT) Close() {
	if m.client.IsConnected() {
		m.client.Disconnect(250)
	}
}

func wait(ctx context.Context, tok paho.Token, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-tok.Done():
		return tok.Error()
	case <-timer.C:
		return errors.New("timed out")
	case <-ctx.Done():
		return ctx.Err()
	}
}
