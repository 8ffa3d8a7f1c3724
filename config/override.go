package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"
)

// ErrUnknownKey is returned for an override naming a key that does not exist.
var ErrUnknownKey = errors.New("config: unknown key")

// OverrideError describes a rejected key=value override.
type OverrideError struct {
	Key        string
	Value      string
	Suggestion string // closest known key, if any
	Err        error
}

func (e *OverrideError) Error() string {
	msg := fmt.Sprintf("override %s=%s: %v", e.Key, e.Value, e.Err)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

func (e *OverrideError) Unwrap() error {
	return e.Err
}

// ApplyOverrides applies "key=value" assignments on top of the config.
// Keys are dotted YAML paths ("simulation.tick_ms"); a bare key is looked
// up in the params section first ("fox_death_rate"). Either every override
// applies and the result validates, or the config is left untouched.
func (c *Config) ApplyOverrides(assignments []string) error {
	if len(assignments) == 0 {
		return nil
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	tree := map[string]any{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("decoding config tree: %w", err)
	}

	leaves := map[string]any{}
	collectLeaves("", tree, leaves)

	for _, a := range assignments {
		key, raw, ok := strings.Cut(a, "=")
		key = strings.TrimSpace(key)
		raw = strings.TrimSpace(raw)
		if !ok || key == "" {
			return &OverrideError{Key: a, Err: errors.New("expected key=value")}
		}

		path, found := resolveKey(key, leaves)
		if !found {
			return &OverrideError{Key: key, Value: raw, Suggestion: suggestKey(key, leaves), Err: ErrUnknownKey}
		}

		v, err := parseLike(leaves[path], raw)
		if err != nil {
			return &OverrideError{Key: key, Value: raw, Err: err}
		}
		leaves[path] = v
		setPath(tree, strings.Split(path, "."), v)
	}

	data, err = yaml.Marshal(tree)
	if err != nil {
		return fmt.Errorf("encoding overridden config: %w", err)
	}
	next := &Config{}
	if err := yaml.Unmarshal(data, next); err != nil {
		return fmt.Errorf("decoding overridden config: %w", err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	next.computeDerived()

	*c = *next
	return nil
}

// Keys returns every dotted key accepted by ApplyOverrides, sorted.
func (c *Config) Keys() []string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil
	}
	tree := map[string]any{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil
	}
	leaves := map[string]any{}
	collectLeaves("", tree, leaves)

	keys := make([]string, 0, len(leaves))
	for k := range leaves {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func collectLeaves(prefix string, node map[string]any, out map[string]any) {
	for k, v := range node {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if child, ok := v.(map[string]any); ok {
			collectLeaves(path, child, out)
			continue
		}
		out[path] = v
	}
}

func resolveKey(key string, leaves map[string]any) (string, bool) {
	if _, ok := leaves[key]; ok {
		return key, true
	}
	if _, ok := leaves["params."+key]; ok {
		return "params." + key, true
	}
	return "", false
}

// suggestKey returns the known key closest to key, or "" when nothing is
// close enough to be a plausible typo.
func suggestKey(key string, leaves map[string]any) string {
	best := ""
	bestDist := -1
	for path := range leaves {
		candidates := []string{path}
		if short, ok := strings.CutPrefix(path, "params."); ok {
			candidates = append(candidates, short)
		}
		for _, cand := range candidates {
			dist := levenshtein.ComputeDistance(key, cand)
			if dist > levenshteinLimit(len(cand)) {
				continue
			}
			if bestDist < 0 || dist < bestDist || (dist == bestDist && cand < best) {
				best, bestDist = cand, dist
			}
		}
	}
	return best
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// parseLike parses raw into the same kind of value as current.
func parseLike(current any, raw string) (any, error) {
	switch current.(type) {
	case bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("not a boolean: %q", raw)
		}
		return b, nil
	case int, float64:
		// YAML round-trips whole floats as ints, so both accept either form.
		if n, err := strconv.Atoi(raw); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", raw)
		}
		return f, nil
	default:
		return raw, nil
	}
}

func setPath(tree map[string]any, parts []string, v any) {
	node := tree
	for _, p := range parts[:len(parts)-1] {
		child, ok := node[p].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[p] = child
		}
		node = child
	}
	node[parts[len(parts)-1]] = v
}
