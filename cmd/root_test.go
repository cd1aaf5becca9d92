package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/bpgroup/internal/config"
	"github.com/zjrosen/bpgroup/internal/host"
	"github.com/zjrosen/bpgroup/internal/presentation"
	"github.com/zjrosen/bpgroup/internal/rewrite"
)

const source = "const A = () => <div className=\"p-4 sm:p-8 text-center\" />;\n"

const rewritten = "import { twMerge } from \"tailwind-merge\";\n" +
	"const A = () => <div className={twMerge(\n  \"p-4 text-center\",\n  \"sm:p-8\"\n)} />;\n"

func testOptions(t *testing.T, stdin string) (runOptions, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	popts, err := config.Defaults().PipelineOptions()
	require.NoError(t, err)
	var out, errOut bytes.Buffer
	return runOptions{
		mode:      host.ModeDiff,
		pipeline:  popts,
		stdinName: "stdin.tsx",
		stdin:     strings.NewReader(stdin),
		stdout:    &out,
		stderr:    &errOut,
	}, &out, &errOut
}

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunner_WriteMode(t *testing.T) {
	path := writeSource(t, "App.tsx", source)
	opts, out, _ := testOptions(t, "")
	opts.mode, opts.explicitMode = host.ModeWrite, true

	r := newRunner(opts)
	r.runFile(context.Background(), path)
	require.NoError(t, r.finish())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, rewritten, string(data))
	require.Contains(t, out.String(), "1 rewritten, 2 edits")
}

func TestRunner_DefaultDiffLeavesFile(t *testing.T) {
	path := writeSource(t, "App.tsx", source)
	opts, out, _ := testOptions(t, "")

	r := newRunner(opts)
	r.runFile(context.Background(), path)
	require.NoError(t, r.finish())

	require.Contains(t, out.String(), "+import { twMerge } from \"tailwind-merge\";")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, source, string(data))
}

func TestRunner_CheckFailsWhenChangesNeeded(t *testing.T) {
	dirty := writeSource(t, "Dirty.tsx", source)
	clean := writeSource(t, "Clean.tsx", "const A = () => <div className=\"flex\" />;\n")
	opts, out, _ := testOptions(t, "")
	opts.mode, opts.explicitMode = host.ModeCheck, true

	r := newRunner(opts)
	r.runFile(context.Background(), dirty)
	r.runFile(context.Background(), clean)
	require.ErrorIs(t, r.finish(), errCheckFailed)
	require.Equal(t, dirty+"\n", out.String())
}

func TestRunner_CheckPassesOnCanonicalFile(t *testing.T) {
	path := writeSource(t, "App.tsx", rewritten)
	opts, out, _ := testOptions(t, "")
	opts.mode, opts.explicitMode = host.ModeCheck, true

	r := newRunner(opts)
	r.runFile(context.Background(), path)
	require.NoError(t, r.finish())
	require.Empty(t, out.String())
}

func TestRunner_ParseErrorIsCountedAndReported(t *testing.T) {
	bad := writeSource(t, "Bad.tsx", "const A = () => <div className=\"md:a\" ;\n")
	good := writeSource(t, "Good.tsx", source)
	opts, _, errOut := testOptions(t, "")
	opts.mode, opts.explicitMode = host.ModeWrite, true

	r := newRunner(opts)
	r.runFile(context.Background(), bad)
	r.runFile(context.Background(), good)
	err := r.finish()
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 of 2 files failed")
	require.Contains(t, errOut.String(), "syntax error")

	data, err := os.ReadFile(good)
	require.NoError(t, err)
	require.Equal(t, rewritten, string(data))
}

func TestRunner_MissingFile(t *testing.T) {
	opts, _, errOut := testOptions(t, "")
	r := newRunner(opts)
	r.runFile(context.Background(), filepath.Join(t.TempDir(), "nope.tsx"))
	require.Error(t, r.finish())
	require.NotEmpty(t, errOut.String())
}

func TestRunner_StdinPrintsResult(t *testing.T) {
	opts, out, _ := testOptions(t, source)

	r := newRunner(opts)
	r.runStdin(context.Background())
	require.NoError(t, r.finish())
	require.Equal(t, rewritten, out.String())
}

func TestRunner_StdinLines(t *testing.T) {
	first := "const A = () => <div className=\"md:a\" />;\n"
	opts, out, _ := testOptions(t, first+source)
	opts.lines = &[2]int{2, 2}

	r := newRunner(opts)
	r.runStdin(context.Background())
	require.NoError(t, r.finish())
	require.Contains(t, out.String(), first, "line 1 is outside the selection")
	require.Contains(t, out.String(), "\"sm:p-8\"")
}

func TestRunner_StdinParseErrorGoesToStderr(t *testing.T) {
	opts, out, errOut := testOptions(t, "<div className=\"md:a\" ")

	r := newRunner(opts)
	r.runStdin(context.Background())
	require.Error(t, r.finish())
	require.Empty(t, out.String())
	require.Contains(t, errOut.String(), "cannot parse")
}

func TestRunner_JSONReport(t *testing.T) {
	path := writeSource(t, "App.tsx", source)
	opts, out, _ := testOptions(t, "")
	opts.json = true

	r := newRunner(opts)
	r.runFile(context.Background(), path)
	require.NoError(t, r.finish())

	var reports []presentation.ReportDTO
	require.NoError(t, json.Unmarshal(out.Bytes(), &reports))
	require.Len(t, reports, 1)
	require.Equal(t, path, reports[0].File)
	require.Equal(t, 1, reports[0].Rewritten)
	require.Len(t, reports[0].Edits, 2)
	require.True(t, reports[0].Edits[1].Import)
	require.Equal(t, 0, reports[0].Edits[0].Range.Start.Line)
}

func TestParsePair(t *testing.T) {
	a, b, err := parsePair("3:10")
	require.NoError(t, err)
	require.Equal(t, 3, a)
	require.Equal(t, 10, b)

	for _, bad := range []string{"", "3", "a:4", "4:b", "5:2", "-1:2"} {
		_, _, err := parsePair(bad)
		require.Error(t, err, bad)
	}
}

func TestClassify(t *testing.T) {
	dto := classify("p-4 sm:p-8 text-center", rewriteOptionsForTest())
	require.Equal(t, []string{"p-4", "text-center"}, dto.Base)
	require.Len(t, dto.Groups, 1)
	require.Equal(t, "sm:", dto.Groups[0].Prefix)
	require.Equal(t, "{twMerge(\n  \"p-4 text-center\",\n  \"sm:p-8\"\n)}", dto.Call)
	require.Equal(t, "p-4 text-center sm:p-8", dto.Merged)
}

func TestClassify_NoPrefixesHasNoCall(t *testing.T) {
	dto := classify("flex items-center", rewriteOptionsForTest())
	require.Empty(t, dto.Call)
	require.Empty(t, dto.Groups)
}

func TestClassify_MergeResolvesConflicts(t *testing.T) {
	dto := classify("p-2 p-4 md:p-6", rewriteOptionsForTest())
	require.Equal(t, "p-4 md:p-6", dto.Merged)
}

func TestClassify_MergedOrderIsStable(t *testing.T) {
	for range 20 {
		dto := classify("text-center flex p-2 md:p-6 p-4 lg:hidden", rewriteOptionsForTest())
		require.Equal(t, "text-center flex p-4 md:p-6 lg:hidden", dto.Merged)
	}
}

func TestMerge_KeepsInputOrder(t *testing.T) {
	require.Equal(t, "flex p-2", merge([]string{"p-4", "flex", "p-2"}))
	require.Empty(t, merge(nil))
}

func TestClassifyOptions(t *testing.T) {
	c := config.Defaults()
	c.Indent = 4
	opts, err := classifyOptions(c)
	require.NoError(t, err)
	require.Equal(t, "twMerge", opts.JoinFunction)
	require.Equal(t, "    ", opts.Indent)

	bad := config.Defaults()
	bad.JoinFunction = "not valid()"
	_, err = classifyOptions(bad)
	require.ErrorContains(t, err, "invalid configuration")

	bad = config.Defaults()
	bad.Indent = 0
	_, err = classifyOptions(bad)
	require.Error(t, err)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("join_function: cn\nindent: 4\nflags:\n  literal-only: true\n"), 0o600))

	c, err := loadConfig(viper.New(), path)
	require.NoError(t, err)
	require.Equal(t, "cn", c.JoinFunction)
	require.Equal(t, 4, c.Indent)
	require.Equal(t, "className", c.Attribute)
	require.True(t, c.Flags["literal-only"])
}

func TestLoadConfig_BrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("indent: [\n"), 0o600))

	_, err := loadConfig(viper.New(), path)
	require.Error(t, err)
}

func TestCheckSetting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))

	require.NoError(t, checkSetting(path, "indent", "4"))
	require.Error(t, checkSetting(path, "indent", "0"))
	require.Error(t, checkSetting(path, "join_function", "not valid"))
	require.NoError(t, checkSetting(filepath.Join(t.TempDir(), "missing.yaml"), "language", "jsx"))
}

func TestConfigTarget(t *testing.T) {
	require.Equal(t, "a.yaml", configTarget("a.yaml", "b.yaml"))
	require.Equal(t, "b.yaml", configTarget("", "b.yaml"))
	require.Equal(t, config.LocalConfigPath, configTarget("", ""))
}

func rewriteOptionsForTest() rewrite.Options {
	return rewrite.Options{JoinFunction: "twMerge", Indent: "  "}
}
