// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package terminal wipes typed credentials from the screen.
package terminal

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Width returns the terminal width of stdout, or 80 when unknown.
func Width() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// IsInteractive reports whether stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// linesFor returns how many rows n characters took at the given width, plus
// the empty row the cursor sits on after Enter.
func linesFor(n, width int) int {
	if width <= 0 {
		width = 80
	}
	rows := (n + width - 1) / width
	if rows < 1 {
		rows = 1
	}
	return rows + 1
}

// ClearPrompt erases a prompt and the answer typed after it.
func ClearPrompt(w io.Writer, textLength int) {
	n := linesFor(textLength, Width())
	for i := 0; i < n; i++ {
		fmt.Fprint(w, "\r\x1b[2K")
		if i < n-1 {
			fmt.Fprint(w, "\x1b[1A")
		}
	}
}
