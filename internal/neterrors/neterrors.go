// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package neterrors turns transport failures talking to a plug or to Jenkins
// into messages a user can act on.
package neterrors

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
)

// Class is the broad cause of a network failure.
type Class int

const (
	Other Class = iota
	Timeout
	DNS
	Refused
	Unreachable
	TLS
)

// Classify inspects err's chain and, failing that, its text.
func Classify(err error) Class {
	if err == nil {
		return Other
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return DNS
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Timeout
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return Refused
	}
	if errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETUNREACH) {
		return Unreachable
	}

	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "timeout") || strings.Contains(s, "deadline exceeded"):
		return Timeout
	case strings.Contains(s, "connection refused"):
		return Refused
	case strings.Contains(s, "no route to host") || strings.Contains(s, "network is unreachable"):
		return Unreachable
	case strings.Contains(s, "tls") || strings.Contains(s, "certificate") || strings.Contains(s, "x509"):
		return TLS
	}
	return Other
}

// Describe returns a headline and a list of likely causes for a failure
// reaching peer (e.g. "the plug at 10.0.0.5" or "Jenkins at ci.lan").
func Describe(err error, peer string) (string, []string) {
	switch Classify(err) {
	case Timeout:
		return fmt.Sprintf("Timed out waiting for %s", peer), []string{
			"The device is busy or on a slow Wi-Fi link",
			"A firewall silently drops the traffic",
		}
	case DNS:
		return fmt.Sprintf("Cannot resolve the address of %s", peer), []string{
			"The host name is misspelled",
			"Local DNS does not know the device; try its IP address",
		}
	case Refused:
		return fmt.Sprintf("Connection refused by %s", peer), []string{
			"Wrong port",
			"The service is not running on that host",
		}
	case Unreachable:
		return fmt.Sprintf("No route to %s", peer), []string{
			"The host is offline",
			"You are on a different network or VLAN",
		}
	case TLS:
		return fmt.Sprintf("Secure connection to %s failed", peer), []string{
			"The certificate is self-signed or expired",
			"The scheme should be http, not https",
		}
	}
	return fmt.Sprintf("Cannot reach %s", peer), []string{
		"Check the address and your network connection",
	}
}

// Show prints Describe's result with pterm.
func Show(err error, peer string) {
	headline, causes := Describe(err, peer)
	pterm.Error.Println(headline)
	for _, c := range causes {
		pterm.Println("  • " + c)
	}
	pterm.Println()
}
