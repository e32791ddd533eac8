// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package template

// Resolver supplies placeholder values. The second result is false when no
// value is available for name.
type Resolver interface {
	Resolve(name string) (string, bool)
}

// Func adapts a plain function to Resolver.
type Func func(name string) (string, bool)

func (f Func) Resolve(name string) (string, bool) { return f(name) }

// Map resolves names from a fixed set of values.
type Map map[string]string

func (m Map) Resolve(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// None never has a value. Templates without placeholders resolve fine with it.
var None Resolver = Func(func(string) (string, bool) { return "", false })

// Chain consults each resolver in order and returns the first value found.
type Chain []Resolver

func (c Chain) Resolve(name string) (string, bool) {
	for _, r := range c {
		if r == nil {
			continue
		}
		if v, ok := r.Resolve(name); ok {
			return v, true
		}
	}
	return "", false
}
