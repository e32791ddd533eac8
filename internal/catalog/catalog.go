// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package catalog holds the fixed table of plug commands.
//
// Each command is plain data: an identifier, a JSON template with optional
// ${name} placeholders, and whether sending it changes device state. The table
// is validated once when it is built and is read-only afterwards, so a Catalog
// can be shared freely between goroutines.
package catalog

import (
	"fmt"
	"sort"
	"sync"

	perrors "plugctl/cli/internal/errors"
	"plugctl/cli/internal/template"
)

// ID identifies a command, e.g. PLUG_ON.
type ID string

// Well-known identifiers used outside the generic exec path.
const (
	GetSystemInfo ID = "GET_SYSTEM_INFO"
	PlugOn        ID = "PLUG_ON"
	PlugOff       ID = "PLUG_OFF"
)

// Command is one catalog entry.
type Command struct {
	ID           ID
	Template     string
	MutatesState bool
}

// Placeholders returns the distinct placeholder names used by the command.
func (c Command) Placeholders() []string {
	return template.Placeholders(c.Template)
}

// Catalog is an immutable, validated command table.
type Catalog struct {
	byID   map[ID]Command
	sorted []Command
}

// New validates entries and builds a Catalog. Duplicate identifiers and
// templates that are not JSON once placeholders are neutralized are rejected.
func New(entries []Command) (*Catalog, error) {
	c := &Catalog{byID: make(map[ID]Command, len(entries))}
	for _, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("catalog: entry with empty identifier")
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate identifier %s", e.ID)
		}
		if !template.Validate(e.Template) {
			return nil, fmt.Errorf("catalog: template for %s is not valid JSON", e.ID)
		}
		c.byID[e.ID] = e
		c.sorted = append(c.sorted, e)
	}
	sort.Slice(c.sorted, func(i, j int) bool { return c.sorted[i].ID < c.sorted[j].ID })
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in catalog. A malformed built-in table is a
// programming error and panics on first use.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := New(builtin)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Lookup returns the command for id or an UnknownCommand error.
func (c *Catalog) Lookup(id ID) (Command, error) {
	cmd, ok := c.byID[id]
	if !ok {
		return Command{}, perrors.New(perrors.UnknownCommand, fmt.Sprintf("no such command '%s'", id))
	}
	return cmd, nil
}

// All returns every command sorted by identifier. The slice is a copy.
func (c *Catalog) All() []Command {
	out := make([]Command, len(c.sorted))
	copy(out, c.sorted)
	return out
}

// IDs returns every identifier, sorted.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.sorted))
	for i, cmd := range c.sorted {
		out[i] = string(cmd.ID)
	}
	return out
}
