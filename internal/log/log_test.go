package log

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLog_FormatsCategoryAndFields(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)
	t.Cleanup(Reset)

	Info(CatScan, "found candidates", "count", 3, "uri", "a.tsx")

	line := buf.String()
	require.Contains(t, line, "[INFO] [scan] found candidates")
	require.Contains(t, line, "count=3")
	require.Contains(t, line, "uri=a.tsx")
	require.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n")))
}

func TestLog_OddFieldCount(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)
	t.Cleanup(Reset)

	Debug(CatEdit, "orphan", "key")

	require.Contains(t, buf.String(), "key=<missing>")
}

func TestLog_MinLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelWarn)
	t.Cleanup(Reset)

	Debug(CatHost, "hidden")
	Info(CatHost, "hidden too")
	Warn(CatHost, "shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "[WARN] [host] shown")
}

func TestLog_ErrorErr(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)
	t.Cleanup(Reset)

	ErrorErr(CatPipeline, "apply failed", errors.New("disk full"), "uri", "x.tsx")
	ErrorErr(CatPipeline, "nil error", nil)

	require.Contains(t, buf.String(), "error=disk full")
	require.Contains(t, buf.String(), "error=<nil>")
}

func TestLog_DisabledWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)
	t.Cleanup(Reset)

	SetEnabled(false)
	Error(CatConfig, "nope")
	require.Zero(t, buf.Len())
}

func TestLog_NoLoggerIsSafe(t *testing.T) {
	Reset()
	require.NotPanics(t, func() {
		Info(CatWatcher, "nobody listening")
		SetEnabled(true)
		SetMinLevel(LevelDebug)
	})
}

func TestLog_MirrorWritesBoth(t *testing.T) {
	var primary, mirror bytes.Buffer
	InitWriter(&primary, LevelDebug)
	t.Cleanup(Reset)

	Mirror(&mirror)
	Info(CatCache, "hit", "key", "a")

	require.Contains(t, primary.String(), "hit key=a")
	require.Contains(t, mirror.String(), "hit key=a")
}

func TestInit_WritesToFile(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	path := filepath.Join(t.TempDir(), "debug.log")
	cleanup, err := Init(path)
	require.NoError(t, err)

	Info(CatPipeline, "started")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[INFO] [pipeline] started")
}
