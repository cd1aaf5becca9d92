package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/renameio"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/bpgroup/internal/log"
)

var settableKeys = []string{
	"attribute",
	"join_function",
	"merge_library",
	"language",
	"indent",
	"watch_debounce",
	"tracing.enabled",
	"tracing.exporter",
	"tracing.file_path",
	"tracing.otlp_endpoint",
	"tracing.sample_rate",
	"tracing.service_name",
}

// SettableKeys returns the keys accepted by SetValue, excluding the open
// "flags.<name>" family.
func SettableKeys() []string {
	return slices.Clone(settableKeys)
}

// SetValue sets a dotted key such as "tracing.enabled" in the config file
// at configPath, creating the file and intermediate mappings as needed.
// Comments and the order of other keys are preserved by editing the
// yaml.Node tree.
func SetValue(configPath, key, value string) error {
	if !slices.Contains(settableKeys, key) && !strings.HasPrefix(key, "flags.") {
		return fmt.Errorf("unknown config key %q", key)
	}
	path := strings.Split(key, ".")
	if slices.Contains(path, "") {
		return fmt.Errorf("invalid config key %q", key)
	}

	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}
	if doc.Kind == 0 {
		doc.Kind = yaml.DocumentNode
	}
	if doc.Kind == yaml.DocumentNode && len(doc.Content) == 0 {
		doc.Content = []*yaml.Node{{Kind: yaml.MappingNode}}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("parsing config: top level is not a mapping")
	}

	node := doc.Content[0]
	for _, part := range path[:len(path)-1] {
		child := lookup(node, part)
		if child == nil || child.Kind != yaml.MappingNode {
			fresh := &yaml.Node{Kind: yaml.MappingNode}
			setChild(node, part, fresh)
			child = fresh
		}
		node = child
	}
	leaf := path[len(path)-1]
	scalar := &yaml.Node{Kind: yaml.ScalarNode, Value: value}
	if old := lookup(node, leaf); old != nil && old.Kind == yaml.ScalarNode {
		scalar.LineComment = old.LineComment
		scalar.HeadComment = old.HeadComment
	}
	setChild(node, leaf, scalar)

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	if err := os.MkdirAll(filepath.Dir(configPath), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := renameio.WriteFile(configPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	log.Info(log.CatConfig, "updated config", "path", configPath, "key", key)
	return nil
}

// lookup returns the value node for key in a mapping node.
func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// setChild replaces the value for key, or appends the pair.
func setChild(m *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value
			return
		}
	}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, value)
}
