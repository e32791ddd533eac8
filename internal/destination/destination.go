// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package destination normalizes the plug address given on the command line.
package destination

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ParseError represents an address that cannot be used as a plug destination.
type ParseError struct {
	Input  string
	Reason string
	Hint   string
}

func (e *ParseError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("invalid destination %q: %s\nHint: %s", e.Input, e.Reason, e.Hint)
	}
	return fmt.Sprintf("invalid destination %q: %s", e.Input, e.Reason)
}

// NewParseError creates a new ParseError
func NewParseError(input, reason, hint string) *ParseError {
	return &ParseError{
		Input:  input,
		Reason: reason,
		Hint:   hint,
	}
}

// Parse turns "host", "host:port" or "[v6]:port" into a dialable "host:port".
// A missing port is filled with defaultPort.
func Parse(input string, defaultPort int) (string, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return "", NewParseError(input, "empty destination", "pass the plug's IP address or hostname")
	}

	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		// No port present. Bare IPv6 literals contain colons, so accept them as hosts.
		host = strings.TrimSuffix(strings.TrimPrefix(raw, "["), "]")
		if strings.ContainsAny(host, "[]") {
			return "", NewParseError(input, "unbalanced brackets", "use [fe80::1]:9999 for IPv6 with a port")
		}
		if strings.Count(host, ":") == 1 {
			return "", NewParseError(input, "missing port after ':'", "use host or host:port")
		}
		port = strconv.Itoa(defaultPort)
	}

	if host == "" {
		return "", NewParseError(input, "empty host", "pass the plug's IP address or hostname")
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return "", NewParseError(input, "port must be between 1 and 65535", "the plug listens on 9999")
	}
	return net.JoinHostPort(host, port), nil
}

// Host returns the host part of a destination, used for topic names and logs.
func Host(dest string) string {
	if h, _, err := net.SplitHostPort(dest); err == nil {
		return h
	}
	return dest
}
