// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	perrors "plugctl/cli/internal/errors"
)

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugctl.log")
	log, closer, err := NewLogger(path, true, false)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	log.Info().Msg("Sending command PLUG_ON")
	log.Debug().Msg("debug line")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Sending command PLUG_ON", "debug line"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log file missing %q:\n%s", want, data)
		}
	}
}

func TestNewLoggerQuietByDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugctl.log")
	log, closer, err := NewLogger(path, false, false)
	if err != nil {
		t.Fatal(err)
	}
	log.Info().Msg("should not appear")
	closer.Close()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "should not appear") {
		t.Errorf("info logged without verbose/debug:\n%s", data)
	}
}

func TestFormatFailureMasksDetails(t *testing.T) {
	err := perrors.Wrap(perrors.ConnectionError, "connect", errors.New(`dial http://u:p@host failed password=abc`))
	out := FormatFailure("CONNECT_TO_AP", err)

	if !strings.Contains(out, "CONNECT_TO_AP") {
		t.Errorf("missing command name:\n%s", out)
	}
	if !strings.Contains(out, "TCP port 9999") {
		t.Errorf("missing connection hint:\n%s", out)
	}
	if strings.Contains(out, "password=abc") || strings.Contains(out, "u:p@") {
		t.Errorf("secrets not masked:\n%s", out)
	}
}

func TestPresentError(t *testing.T) {
	if PresentError("ctx", nil) != "" {
		t.Error("nil error should present as empty string")
	}
	if got := PresentError("jenkins", errors.New("token=abc")); got != "jenkins: token=***" {
		t.Errorf("PresentError() = %q", got)
	}
}
