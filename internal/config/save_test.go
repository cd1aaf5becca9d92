package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func readMap(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, yaml.Unmarshal(data, &m))
	return m
}

func TestSetValue_CreatesNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".bpgroup", "config.yaml")

	require.NoError(t, SetValue(path, "join_function", "cn"))

	m := readMap(t, path)
	require.Equal(t, "cn", m["join_function"])
}

func TestSetValue_PreservesCommentsAndOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SetValue(path, "merge_library", "@/lib/utils"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "# JSX attribute holding the class list")

	m := readMap(t, path)
	require.Equal(t, "@/lib/utils", m["merge_library"])
	require.Equal(t, "className", m["attribute"])
	require.Equal(t, 2, m["indent"])
}

func TestSetValue_NestedKeyCreatesMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("attribute: class\n"), 0o600))

	require.NoError(t, SetValue(path, "tracing.enabled", "true"))
	require.NoError(t, SetValue(path, "tracing.sample_rate", "0.5"))

	m := readMap(t, path)
	require.Equal(t, "class", m["attribute"])
	tr, ok := m["tracing"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, true, tr["enabled"])
	require.Equal(t, 0.5, tr["sample_rate"])
}

func TestSetValue_Flag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SetValue(path, "flags.literal-only", "true"))

	m := readMap(t, path)
	fl, ok := m["flags"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, true, fl["literal-only"])
}

func TestSetValue_ReplacesExistingValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("indent: 2\nlanguage: auto\n"), 0o600))

	require.NoError(t, SetValue(path, "indent", "4"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "indent: 4\nlanguage: auto\n", string(data))
}

func TestSetValue_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := SetValue(path, "colour", "red")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown config key")
	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
}

func TestSetValue_RejectsNonMappingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- a\n- b\n"), 0o600))
	require.Error(t, SetValue(path, "indent", "4"))
}

func TestSettableKeys(t *testing.T) {
	keys := SettableKeys()
	require.Contains(t, keys, "join_function")
	require.Contains(t, keys, "tracing.enabled")
}
