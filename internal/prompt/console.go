// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package prompt provides the value sources for template placeholders:
// an interactive console, a YAML values file, and --set pairs.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"plugctl/cli/internal/terminal"
)

// Console asks the user for each placeholder value. Names that look like
// secrets are read without echo when the input is a terminal.
type Console struct {
	out    io.Writer
	reader *bufio.Reader
	fd     int
	isTTY  bool
}

// NewConsole reads from in and writes prompts to out.
func NewConsole(in io.Reader, out io.Writer) *Console {
	c := &Console{out: out, reader: bufio.NewReader(in), fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		c.fd = int(f.Fd())
		c.isTTY = true
	}
	return c
}

// Stdin is a Console on the process's standard streams.
func Stdin() *Console { return NewConsole(os.Stdin, os.Stdout) }

// Resolve prints the prompt for name and returns the line the user typed.
// End of input without any text means no value.
func (c *Console) Resolve(name string) (string, bool) {
	label := fmt.Sprintf("Please enter a value for '%s' : ", name)
	var (
		v   string
		err error
	)
	if IsSecret(name) {
		v, err = c.Secret(label)
	} else {
		fmt.Fprint(c.out, label)
		v, err = c.line()
	}
	return v, err == nil
}

// Secret prints label and reads one answer. On a terminal the input is not
// echoed and the prompt is wiped once the user presses Enter.
func (c *Console) Secret(label string) (string, error) {
	fmt.Fprint(c.out, label)
	if !c.isTTY {
		return c.line()
	}
	b, err := term.ReadPassword(c.fd)
	fmt.Fprintln(c.out)
	terminal.ClearPrompt(c.out, len(label))
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return string(b), nil
}

func (c *Console) line() (string, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// IsSecret reports whether a placeholder carries a credential.
func IsSecret(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "password") || strings.Contains(n, "passwd") || strings.Contains(n, "token")
}
