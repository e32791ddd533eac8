// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package template turns command templates into wire payloads.
//
// A template is JSON text with embedded ${name} placeholders. Substitution is
// purely textual: templates carry their own quotes where a string is expected,
// and the value source is responsible for producing text that fits its slot.
package template

import (
	"encoding/json"
	"strings"

	perrors "plugctl/cli/internal/errors"
)

// NeutralValue replaces placeholders when a template is checked for JSON
// well-formedness. It is valid both inside quotes and as a bare value.
const NeutralValue = "0"

// segment is either literal text or a placeholder reference.
type segment struct {
	text        string
	placeholder bool
}

func isNameByte(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// scan splits tpl into literal and placeholder segments, left to right.
// A "${" that is not followed by a name and a closing brace stays literal.
func scan(tpl string) []segment {
	var segs []segment
	lit := 0
	for i := 0; i < len(tpl); {
		if tpl[i] != '$' || i+1 >= len(tpl) || tpl[i+1] != '{' {
			i++
			continue
		}
		j := i + 2
		for j < len(tpl) && isNameByte(tpl[j]) {
			j++
		}
		if j == i+2 || j >= len(tpl) || tpl[j] != '}' {
			i++
			continue
		}
		if lit < i {
			segs = append(segs, segment{text: tpl[lit:i]})
		}
		segs = append(segs, segment{text: tpl[i+2 : j], placeholder: true})
		i = j + 1
		lit = i
	}
	if lit < len(tpl) {
		segs = append(segs, segment{text: tpl[lit:]})
	}
	return segs
}

// Placeholders returns the distinct placeholder names in tpl in order of first
// appearance.
func Placeholders(tpl string) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, s := range scan(tpl) {
		if !s.placeholder {
			continue
		}
		if _, ok := seen[s.text]; ok {
			continue
		}
		seen[s.text] = struct{}{}
		names = append(names, s.text)
	}
	return names
}

// Neutralize replaces every placeholder in tpl with NeutralValue.
func Neutralize(tpl string) string {
	var b strings.Builder
	for _, s := range scan(tpl) {
		if s.placeholder {
			b.WriteString(NeutralValue)
		} else {
			b.WriteString(s.text)
		}
	}
	return b.String()
}

// Validate reports whether tpl is well-formed JSON once its placeholders are
// neutralized.
func Validate(tpl string) bool {
	return json.Valid([]byte(Neutralize(tpl)))
}

// Options tune a resolution pass.
type Options struct {
	// CheckJSON re-validates the substituted payload and fails with
	// InvalidSubstitution when it no longer parses.
	CheckJSON bool
}

// Resolve substitutes every placeholder in tpl with the value returned by r.
// r is consulted once per distinct name. If any name is absent, Resolve fails
// with MissingPlaceholder and returns no payload.
func Resolve(tpl string, r Resolver, opts Options) (string, error) {
	if r == nil {
		r = None
	}
	segs := scan(tpl)
	values := make(map[string]string)
	for _, s := range segs {
		if !s.placeholder {
			continue
		}
		if _, ok := values[s.text]; ok {
			continue
		}
		v, ok := r.Resolve(s.text)
		if !ok {
			return "", perrors.New(perrors.MissingPlaceholder, "no value for placeholder '"+s.text+"'")
		}
		values[s.text] = v
	}

	var b strings.Builder
	b.Grow(len(tpl))
	for _, s := range segs {
		if s.placeholder {
			b.WriteString(values[s.text])
		} else {
			b.WriteString(s.text)
		}
	}
	out := b.String()

	if opts.CheckJSON && !json.Valid([]byte(out)) {
		return "", perrors.New(perrors.InvalidSubstitution, "substituted payload is not valid JSON")
	}
	return out, nil
}
