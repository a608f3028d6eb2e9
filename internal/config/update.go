package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/pulse/internal/errors"
)

// Keys lists the settable top-level config keys.
var Keys = []string{
	"update_interval",
	"history_len",
	"top_processes",
	"gpu_timeout",
	"core_layout_timeout",
	"menu_bar_display",
	"show_sparkline",
	"listen",
}

// IsKey reports whether key is a settable config key.
func IsKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// SetValue sets one top-level key in the config file at path.
// It preserves the existing YAML structure and comments. A missing file is
// created. The result is validated before it replaces the original.
func SetValue(path, key, value string) error {
	if !IsKey(key) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown config key '%s'", key),
			"Valid keys: "+strings.Join(Keys, ", "))
	}

	var root yaml.Node
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &root); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to parse config file",
				"Fix the YAML in "+path+" or delete it and run 'pulse config init'")
		}
	case os.IsNotExist(err):
	default:
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to read config file", "Check file permissions")
	}

	doc, err := documentMapping(&root)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Fix the YAML in "+path)
	}

	setScalar(doc, key, value)

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&root); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode config", "")
	}
	encoder.Close()

	return replaceValidated(path, []byte(buf.String()))
}

// documentMapping returns the top-level mapping, initialising an empty document.
func documentMapping(root *yaml.Node) (*yaml.Node, error) {
	if root.Kind == 0 {
		root.Kind = yaml.DocumentNode
	}
	if root.Kind != yaml.DocumentNode {
		return nil, fmt.Errorf("invalid YAML document structure")
	}
	if len(root.Content) == 0 {
		root.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected mapping at document root")
	}
	return doc, nil
}

// setScalar replaces key's value in a mapping, appending the key if absent.
// The tag is cleared so the encoder resolves numbers and booleans.
func setScalar(node *yaml.Node, key, value string) {
	if v := findMapValue(node, key); v != nil {
		v.Kind = yaml.ScalarNode
		v.Tag = ""
		v.Style = 0
		v.Value = value
		v.Content = nil
		return
	}
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: value},
	)
}

// replaceValidated writes data next to path, loads and validates it, then
// renames it over path.
func replaceValidated(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Couldn't create config directory "+dir, "Check directory permissions")
	}

	tmp, err := os.CreateTemp(dir, ".pulse-config-*.yaml")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Couldn't write config file", "Check directory permissions")
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.WrapWithCode(err, errors.ErrConfig, "Couldn't write config file", "")
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Couldn't write config file", "")
	}

	cfg, err := Load(tmpPath)
	if err != nil {
		return err
	}
	if err := Validate(cfg); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Couldn't replace config file "+path, "Check file permissions")
	}
	return nil
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return valueNode
		}
	}

	return nil
}
