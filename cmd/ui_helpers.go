// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"atomicgo.dev/cursor"
	"golang.org/x/term"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// startInlineSpinner animates text on the current line of w until the
// returned function is called. Nothing is drawn when w is not a terminal or
// diagnostic output is enabled, since both would interleave with the frames.
func startInlineSpinner(w io.Writer, text string) func() {
	if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) || flagVerbose || flagDebug {
		return func() {}
	}

	cursor.Hide()
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(120 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			line := fmt.Sprintf("%s %s", spinnerFrames[i%len(spinnerFrames)], text)
			select {
			case <-stop:
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s", line)
			}
		}
	}()
	return func() {
		close(stop)
		wg.Wait()
		cursor.Show()
	}
}

// prettyJSON indents a plug response for display, leaving invalid JSON as is.
func prettyJSON(s string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(s), "", "  "); err != nil {
		return s
	}
	return buf.String()
}

// joinOrDash renders a list for table cells.
func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
