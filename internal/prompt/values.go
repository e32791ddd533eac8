// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package prompt

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	perrors "plugctl/cli/internal/errors"
	"plugctl/cli/internal/template"
)

// LoadValues reads a flat YAML mapping of placeholder names to scalar values:
//
//	deviceAlias: porch light
//	longitude: 13.4
//
// Values are used verbatim, so numbers stay unquoted in the payload.
func LoadValues(path string) (template.Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, perrors.Wrap(perrors.ConfigError, "read values file", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, perrors.Wrap(perrors.ConfigError, "parse values file "+path, err)
	}
	values := template.Map{}
	if len(root.Content) == 0 {
		return values, nil
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, perrors.New(perrors.ConfigError, path+": values file must be a mapping")
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		k, v := doc.Content[i], doc.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return nil, perrors.New(perrors.ConfigError, fmt.Sprintf("%s:%d: value for %q must be a scalar", path, v.Line, k.Value))
		}
		values[k.Value] = v.Value
	}
	return values, nil
}

// ParseSet turns name=value pairs from --set into a Map. The value may
// itself contain '='.
func ParseSet(pairs []string) (template.Map, error) {
	values := template.Map{}
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, perrors.New(perrors.ConfigError, fmt.Sprintf("--set %q: expected name=value", p))
		}
		values[name] = value
	}
	return values, nil
}
