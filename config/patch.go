package config

import (
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bmatsuo/img2anim/fx"
)

// ErrUnknownSetting is returned for patch keys the effect does not define.
var ErrUnknownSetting = fmt.Errorf("%w: unknown setting", fx.ErrInvalidSettings)

// Keys returns the patchable setting names of s, sorted.
func Keys(s fx.Settings) []string {
	t := reflect.TypeOf(s)
	var keys []string
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("yaml"), ",")
		if name != "" && name != "-" {
			keys = append(keys, name)
		}
	}
	sort.Strings(keys)
	return keys
}

// ApplyPatch returns a copy of s with the fields named in the YAML mapping
// node replaced.  An empty node returns s unchanged.  The result is
// validated.
func ApplyPatch(s fx.Settings, node *yaml.Node) (fx.Settings, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: no settings", fx.ErrInvalidSettings)
	}
	node = unwrap(node)
	if node == nil {
		return s, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s settings must be a mapping", fx.ErrInvalidSettings, s.Kind())
	}
	known := Keys(s)
	for i := 0; i < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if j := sort.SearchStrings(known, key); j == len(known) || known[j] != key {
			return nil, fmt.Errorf("%w %q for %s (have %s)", ErrUnknownSetting, key, s.Kind(), strings.Join(known, ", "))
		}
	}

	var out fx.Settings
	var err error
	switch v := s.(type) {
	case fx.RotateSettings:
		out, err = decode(v, node)
	case fx.StampSettings:
		out, err = decode(v, node)
	case fx.ShakeSettings:
		out, err = decode(v, node)
	case fx.GlowSettings:
		out, err = decode(v, node)
	case fx.WaveSettings:
		out, err = decode(v, node)
	default:
		return nil, fmt.Errorf("%w %q", fx.ErrUnknownKind, s.Kind())
	}
	if err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func decode[S fx.Settings](s S, node *yaml.Node) (fx.Settings, error) {
	if err := node.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", fx.ErrInvalidSettings, s.Kind(), err)
	}
	return s, nil
}

// unwrap returns the root of a document node, or nil for an empty node.
func unwrap(node *yaml.Node) *yaml.Node {
	if node == nil || node.Kind == 0 {
		return nil
	}
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil
		}
		return unwrap(node.Content[0])
	}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	return node
}

// ParseAssignments builds a patch from key=value arguments.  Values are
// typed the way plain YAML scalars are.  A key given twice keeps the last
// value.
func ParseAssignments(args []string) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q is not key=value", fx.ErrInvalidSettings, arg)
		}
		set(node, key, &yaml.Node{Kind: yaml.ScalarNode, Value: strings.TrimSpace(value)})
	}
	return node, nil
}

// LoadPatch reads a settings patch from a YAML file.
func LoadPatch(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", fx.ErrInvalidSettings, path, err)
	}
	return &node, nil
}

// Merge combines patches into one.  Later patches win.
func Merge(patches ...*yaml.Node) (*yaml.Node, error) {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, p := range patches {
		p = unwrap(p)
		if p == nil {
			continue
		}
		if p.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: settings patch must be a mapping", fx.ErrInvalidSettings)
		}
		for i := 0; i+1 < len(p.Content); i += 2 {
			set(out, p.Content[i].Value, p.Content[i+1])
		}
	}
	return out, nil
}

func set(m *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value
			return
		}
	}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, value)
}
