// Package config provides configuration types, defaults, and persistence for branchdiff.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SetValue sets a dotted key (e.g. "ui.file_list_ratio") in the config file.
// This preserves comments and formatting in other sections by using yaml.Node.
// The edited file must still decode into a valid Config.
func SetValue(configPath, key, value string) error {
	segments := strings.Split(key, ".")
	for _, s := range segments {
		if s == "" {
			return fmt.Errorf("invalid key %q", key)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("parsing config: top level is not a mapping")
	}

	if err := setPath(doc.Content[0], segments, value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	cfg := Defaults()
	if err := yaml.Unmarshal(buf.Bytes(), &cfg); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	return writeAtomic(configPath, buf.Bytes())
}

// setPath walks or creates mapping nodes along segments and stores value
// as a scalar at the last one.
func setPath(node *yaml.Node, segments []string, value string) error {
	for i, seg := range segments {
		last := i == len(segments)-1

		var child *yaml.Node
		for j := 0; j < len(node.Content)-1; j += 2 {
			if node.Content[j].Value == seg {
				child = node.Content[j+1]
				break
			}
		}

		if last {
			scalar := &yaml.Node{Kind: yaml.ScalarNode, Value: value}
			if strings.HasPrefix(value, "#") {
				scalar.Style = yaml.DoubleQuotedStyle
			}
			if child == nil {
				node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: seg}, scalar)
				return nil
			}
			if child.Kind != yaml.ScalarNode {
				return fmt.Errorf("%q is a section, not a value", seg)
			}
			child.Value = value
			child.Tag = ""
			child.Style = scalar.Style
			return nil
		}

		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode}
			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: seg}, child)
		}
		if child.Kind == yaml.ScalarNode && child.Value == "" {
			// "theme:" with every entry commented out decodes as a null scalar.
			child.Kind = yaml.MappingNode
			child.Tag = ""
		}
		if child.Kind != yaml.MappingNode {
			return fmt.Errorf("%q is a value, not a section", seg)
		}
		node = child
	}
	return nil
}

// writeAtomic writes to a temp file in the same directory, then renames.
func writeAtomic(configPath string, data []byte) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".branchdiff.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Dump renders cfg as YAML, the effective settings after every source is merged.
func Dump(cfg Config) (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()
	return buf.String(), nil
}
