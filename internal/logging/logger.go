// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// NewLogger builds the diagnostic logger. Output goes to stderr, or is
// appended to path when one is given. The level admits debug events whenever
// verbose or debug output is requested; the executor decides what to emit.
func NewLogger(path string, verbose, debug bool) (zerolog.Logger, io.Closer, error) {
	var w io.Writer = os.Stderr
	var closer io.Closer = io.NopCloser(nil)
	if path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return zerolog.Nop(), closer, err
		}
		w = file
		closer = file
	}

	level := zerolog.WarnLevel
	if verbose || debug {
		level = zerolog.DebugLevel
	}

	cw := zerolog.ConsoleWriter{Out: w, NoColor: path != ""}
	return zerolog.New(cw).Level(level).With().Timestamp().Logger(), closer, nil
}
