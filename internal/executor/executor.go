// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package executor turns a command identifier and a value source into a plug
// round-trip, honouring dry-run mode.
//
// A dispatch moves through Idle → Resolving → (DryRunSkip | Dispatching) → Done.
// Resolution failures go straight to Done with a Failed outcome and never
// touch the network. Dry-run only suppresses commands that change device
// state; read-only queries still reach the plug.
package executor

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"plugctl/cli/internal/catalog"
	perrors "plugctl/cli/internal/errors"
	"plugctl/cli/internal/template"
)

// DryRunPrefix marks log lines for sends that were simulated.
const DryRunPrefix = "DRY-RUN: "

// Exchanger performs one request/response with a plug. *session.Session
// satisfies it.
type Exchanger interface {
	Execute(ctx context.Context, dest string, payload string) (string, error)
}

// Options configure an Executor.
type Options struct {
	// Verbose logs which command is sent.
	Verbose bool
	// Debug logs payloads and raw responses. These may contain credentials.
	Debug bool
	// CheckJSON re-validates payloads after substitution.
	CheckJSON bool
	// Redact, if set, is applied to payloads and responses before debug logging.
	Redact func(string) string
	// Logger receives verbose and debug output.
	Logger zerolog.Logger
}

// Executor dispatches catalog commands. It keeps no per-dispatch state and may
// be shared between goroutines as long as the Exchanger allows it.
type Executor struct {
	catalog  *catalog.Catalog
	exchange Exchanger
	opts     Options
}

// New creates an Executor over cat that talks to plugs through ex.
func New(cat *catalog.Catalog, ex Exchanger, opts Options) *Executor {
	if opts.Redact == nil {
		opts.Redact = func(s string) string { return s }
	}
	return &Executor{catalog: cat, exchange: ex, opts: opts}
}

// CommandIDs lists every dispatchable identifier, sorted.
func (e *Executor) CommandIDs() []string {
	return e.catalog.IDs()
}

// Catalog returns the command table the executor dispatches from.
func (e *Executor) Catalog() *catalog.Catalog {
	return e.catalog
}

type state int

const (
	stateIdle state = iota
	stateResolving
	stateDryRunSkip
	stateDispatching
	stateDone
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateResolving:
		return "resolving"
	case stateDryRunSkip:
		return "dry_run_skip"
	case stateDispatching:
		return "dispatching"
	case stateDone:
		return "done"
	default:
		return "unknown"
	}
}

// afterResolving picks the branch taken once a payload has been resolved.
func afterResolving(cmd catalog.Command, dryRun bool) state {
	if dryRun && cmd.MutatesState {
		return stateDryRunSkip
	}
	return stateDispatching
}

// Dispatch runs the command id against dest. Values for placeholders come
// from r; a nil r behaves like template.None.
func (e *Executor) Dispatch(ctx context.Context, id string, dest string, dryRun bool, r template.Resolver) Outcome {
	out := Outcome{Command: catalog.ID(id), Destination: dest, DryRun: dryRun}
	st := stateIdle
	var (
		cmd     catalog.Command
		payload string
	)

	for st != stateDone {
		switch st {
		case stateIdle:
			var err error
			cmd, err = e.catalog.Lookup(catalog.ID(id))
			if err != nil {
				return out.fail(err)
			}
			st = stateResolving

		case stateResolving:
			var err error
			payload, err = template.Resolve(cmd.Template, r, template.Options{CheckJSON: e.opts.CheckJSON})
			if err != nil {
				return out.fail(fmt.Errorf("resolve %s: %w", cmd.ID, err))
			}
			prefix := ""
			if dryRun {
				prefix = DryRunPrefix
			}
			e.verbose("%sSending command %s", prefix, cmd.ID)
			st = afterResolving(cmd, dryRun)

		case stateDryRunSkip:
			e.debug("Sending command %s to %s", cmd.ID, dest)
			e.debug("%s", e.opts.Redact(payload))
			out.Status = SkippedDryRun
			st = stateDone

		case stateDispatching:
			e.debug("Sending command %s to %s", e.opts.Redact(payload), dest)
			resp, err := e.exchange.Execute(ctx, dest, payload)
			if err != nil {
				return out.fail(fmt.Errorf("send %s: %w", cmd.ID, err))
			}
			e.debug("received: %s", e.opts.Redact(resp))
			out.Status = Executed
			out.Response = resp
			st = stateDone
		}
	}
	return out
}

// Switch turns the relay on or off. It is the entry point for status-driven
// callers such as the CI monitor.
func (e *Executor) Switch(ctx context.Context, dest string, activate bool, dryRun bool) Outcome {
	id := catalog.PlugOff
	if activate {
		id = catalog.PlugOn
	}
	return e.Dispatch(ctx, string(id), dest, dryRun, template.None)
}

func (e *Executor) verbose(format string, args ...any) {
	if e.opts.Verbose {
		e.opts.Logger.Info().Msgf(format, args...)
	}
}

func (e *Executor) debug(format string, args ...any) {
	if e.opts.Debug {
		e.opts.Logger.Debug().Msgf(format, args...)
	}
}

// KindOf is a convenience for callers that switch on the failure category.
func KindOf(o Outcome) perrors.Kind {
	return perrors.KindOf(o.Err)
}
