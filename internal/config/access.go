package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// GetPath retrieves a value from the configuration using a
// dot-notation path such as "engine.default_language" or
// "api.auth.tokens.0.scopes". List elements are addressed by index.
func (c *Config) GetPath(path string) (any, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return getValue(m, path)
}

func getValue(root map[string]any, path string) (any, error) {
	var current any = root

	for _, part := range strings.Split(path, ".") {
		if part == "" {
			continue
		}

		switch node := current.(type) {
		case map[string]any:
			value, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("path %q: key %q not found", path, part)
			}
			current = value

		case []any:
			index, err := strconv.Atoi(part)
			if err != nil || index < 0 || index >= len(node) {
				return nil, fmt.Errorf("path %q: %q is not a valid index", path, part)
			}
			current = node[index]

		default:
			return nil, fmt.Errorf("path %q breaks at %q (not a map)", path, part)
		}
	}

	return current, nil
}

// Redacted returns a copy of the configuration with credential values
// masked, suitable for printing.
func (c *Config) Redacted() *Config {
	out := *c
	if out.API.Auth.APIKey != "" {
		out.API.Auth.APIKey = "<redacted>"
	}
	if len(c.API.Auth.Tokens) > 0 {
		out.API.Auth.Tokens = make([]APIToken, len(c.API.Auth.Tokens))
		for i, token := range c.API.Auth.Tokens {
			out.API.Auth.Tokens[i] = APIToken{Token: "<redacted>", Scopes: token.Scopes}
		}
	}
	return &out
}
