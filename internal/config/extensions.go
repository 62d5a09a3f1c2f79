package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsite/internal/transform"
)

var errUnsupportedFormat = errors.New("unsupported config format (want .yaml, .yml or .toml)")

// ExtensionSpec registers one extension. An empty Transform means raw read.
type ExtensionSpec struct {
	Extension string
	Transform string
}

// Extensions is an ordered list of extension registrations. In YAML it may
// be written as a sequence of extensions, a mapping of extension to
// transform name, or a sequence mixing both forms:
//
//	extensions: [html, txt, {md: markdown}]
type Extensions []ExtensionSpec

// UnmarshalYAML keeps document order for both mapping and sequence forms.
func (e *Extensions) UnmarshalYAML(node *yaml.Node) error {
	out, err := extensionsFromNode(node)
	if err != nil {
		return err
	}
	*e = out
	return nil
}

// MarshalYAML writes raw entries as scalars and keyed ones as single-key maps.
func (e Extensions) MarshalYAML() (any, error) {
	out := make([]any, 0, len(e))
	for _, s := range e {
		if s.Transform == "" {
			out = append(out, s.Extension)
			continue
		}
		out = append(out, map[string]string{s.Extension: s.Transform})
	}
	return out, nil
}

func extensionsFromNode(node *yaml.Node) (Extensions, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return Extensions{{Extension: node.Value}}, nil
	case yaml.MappingNode:
		out := make(Extensions, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			out = append(out, ExtensionSpec{Extension: node.Content[i].Value, Transform: node.Content[i+1].Value})
		}
		return out, nil
	case yaml.SequenceNode:
		var out Extensions
		for _, item := range node.Content {
			sub, err := extensionsFromNode(item)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("line %d: extensions must be a list or a mapping", node.Line)
	}
}

// extensionsFromAny converts decoded TOML values. Table keys are sorted
// because TOML tables carry no order.
func extensionsFromAny(v any) (Extensions, error) {
	switch t := v.(type) {
	case []any:
		var out Extensions
		for _, item := range t {
			sub, err := extensionsFromAny(item)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(Extensions, 0, len(keys))
		for _, k := range keys {
			name, err := cast.ToStringE(t[k])
			if err != nil {
				return nil, fmt.Errorf("extension %q: %w", k, err)
			}
			out = append(out, ExtensionSpec{Extension: k, Transform: name})
		}
		return out, nil
	default:
		ext, err := cast.ToStringE(v)
		if err != nil {
			return nil, fmt.Errorf("extensions: %w", err)
		}
		return Extensions{{Extension: ext}}, nil
	}
}

// Entries resolves transform names into registry entries.
func (e Extensions) Entries() ([]transform.Entry, error) {
	out := make([]transform.Entry, 0, len(e))
	for _, s := range e {
		entry, err := transform.Named(s.Extension, s.Transform)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}
