// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errors defines typed errors with categories for user-friendly reporting.
// Every failure that leaves the protocol core carries a machine-readable Kind so
// the CLI, the gateway and the status-decision logic can react to it without
// parsing messages.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// UnknownCommand indicates the identifier is not in the catalog.
	UnknownCommand Kind = "unknown_command"
	// MissingPlaceholder indicates the resolver had no value for a placeholder.
	MissingPlaceholder Kind = "missing_placeholder"
	// InvalidSubstitution indicates the resolved payload is not valid JSON.
	InvalidSubstitution Kind = "invalid_substitution"
	// ConnectionError indicates a connect, write or read failure on the device socket.
	ConnectionError Kind = "connection_error"
	// ProtocolError indicates a malformed or truncated response frame.
	ProtocolError Kind = "protocol_error"
	// ConfigError indicates invalid user configuration or arguments.
	ConfigError Kind = "config_error"
	// CIError indicates the CI status source could not be queried or parsed.
	CIError Kind = "ci_error"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the kind of the first *E in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
