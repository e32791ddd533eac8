// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package gateway exposes the executor to other processes over gRPC and
// HTTP. Both transports share one Service, so catalog listing, dispatch,
// error mapping and outcome publishing behave the same on either.
package gateway

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"

	"plugctl/cli/internal/destination"
	perrors "plugctl/cli/internal/errors"
	"plugctl/cli/internal/executor"
	"plugctl/cli/internal/notify"
	"plugctl/cli/internal/protocol"
	"plugctl/cli/internal/template"
)

// CommandInfo describes one catalog entry to remote callers.
type CommandInfo struct {
	ID           string   `json:"id"`
	MutatesState bool     `json:"mutates_state"`
	Placeholders []string `json:"placeholders"`
}

// Request is one remote dispatch. Values replace the interactive prompt;
// a placeholder without a value fails the dispatch.
type Request struct {
	Command     string            `json:"-"`
	Destination string            `json:"-"`
	DryRun      bool              `json:"dry_run"`
	Values      map[string]string `json:"values"`
}

// Result is the reply to a successful dispatch.
type Result struct {
	RequestID   string `json:"request_id"`
	Command     string `json:"command"`
	Destination string `json:"destination"`
	Status      string `json:"status"`
	Response    string `json:"response,omitempty"`
	DryRun      bool   `json:"dry_run"`
}

// Service is the transport-independent core of the gateway.
type Service struct {
	exec *executor.Executor
	pub  notify.Publisher
	log  zerolog.Logger
}

// NewService wires the executor and an outcome publisher. A nil publisher
// disables publishing.
func NewService(exec *executor.Executor, pub notify.Publisher, log zerolog.Logger) *Service {
	if pub == nil {
		pub = notify.Nop{}
	}
	return &Service{exec: exec, pub: pub, log: log}
}

// Commands lists the catalog, sorted by identifier.
func (s *Service) Commands() []CommandInfo {
	all := s.exec.Catalog().All()
	out := make([]CommandInfo, 0, len(all))
	for _, c := range all {
		ph := c.Placeholders()
		if ph == nil {
			ph = []string{}
		}
		out = append(out, CommandInfo{ID: string(c.ID), MutatesState: c.MutatesState, Placeholders: ph})
	}
	return out
}

// Dispatch runs req and returns its result, or an error carrying the
// failure kind.
func (s *Service) Dispatch(ctx context.Context, requestID string, req Request) (Result, error) {
	log := s.log.With().Str("request_id", requestID).Str("command", req.Command).Logger()

	if _, err := destination.Parse(req.Destination, protocol.DefaultPort); err != nil {
		log.Warn().Err(err).Msg("rejected destination")
		return Result{}, perrors.Wrap(perrors.ConfigError, "destination", err)
	}

	o := s.exec.Dispatch(ctx, req.Command, req.Destination, req.DryRun, template.Map(req.Values))
	if err := s.pub.Publish(ctx, o); err != nil {
		log.Warn().Err(err).Msg("publishing outcome failed")
	}
	if !o.OK() {
		log.Warn().Err(o.Err).Msg("dispatch failed")
		return Result{}, o.Err
	}
	log.Info().Str("status", o.Status.String()).Msg("dispatched")
	return Result{
		RequestID:   requestID,
		Command:     string(o.Command),
		Destination: o.Destination,
		Status:      o.Status.String(),
		Response:    o.Response,
		DryRun:      o.DryRun,
	}, nil
}

// Code maps a failure kind to a gRPC status code.
func Code(err error) codes.Code {
	switch perrors.KindOf(err) {
	case perrors.UnknownCommand:
		return codes.NotFound
	case perrors.MissingPlaceholder, perrors.InvalidSubstitution, perrors.ConfigError:
		return codes.InvalidArgument
	case perrors.ConnectionError:
		return codes.Unavailable
	case perrors.ProtocolError:
		return codes.DataLoss
	}
	return codes.Internal
}

// HTTPStatus maps a failure kind to an HTTP status code.
func HTTPStatus(err error) int {
	switch Code(err) {
	case codes.NotFound:
		return http.StatusNotFound
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.Unavailable, codes.DataLoss:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
