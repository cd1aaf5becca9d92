package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/bpgroup/internal/config"
	"github.com/zjrosen/bpgroup/internal/host"
	"github.com/zjrosen/bpgroup/internal/log"
	"github.com/zjrosen/bpgroup/internal/presentation"
	"github.com/zjrosen/bpgroup/internal/tracing"
)

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
	cfgErr  error

	debugFlag     bool
	verboseFlag   bool
	writeFlag     bool
	diffFlag      bool
	listFlag      bool
	checkFlag     bool
	watchFlag     bool
	rangeFlag     string
	linesFlag     string
	formatFlag    string
	stdinFilename string
)

var rootCmd = &cobra.Command{
	Use:   "bpgroup [flags] [files...]",
	Short: "Group responsive Tailwind classes in JSX className attributes",
	Long: `bpgroup rewrites JSX class attributes so that breakpoint-prefixed classes
(sm:, md:, lg:, xl:, 2xl:, mobile:, tablet:, desktop:) are grouped into
separate arguments of a join call such as twMerge.

  <div className="p-4 sm:p-8 text-center" />

becomes

  <div className={twMerge(
    "p-4 text-center",
    "sm:p-8"
  )} />

and the import of the join function is added when missing.

With no files, or "-", the source is read from stdin and the result is
written to stdout. Files are shown as a diff unless -w, -l or --check is
given.

Examples:
  bpgroup -w src/App.tsx
  bpgroup --check $(git ls-files '*.tsx')
  bpgroup --lines 10:40 -d src/Page.jsx
  cat App.tsx | bpgroup --stdin-filename App.tsx
  bpgroup --watch -w src/App.tsx`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .bpgroup/config.yaml, then ~/.config/bpgroup/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"write debug log to debug.log (or $BPGROUP_LOG)")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false,
		"mirror log entries to stderr")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "text",
		"output format: text or json")

	rootCmd.Flags().BoolVarP(&writeFlag, "write", "w", false, "write result to the file instead of printing a diff")
	rootCmd.Flags().BoolVarP(&diffFlag, "diff", "d", false, "print a unified diff (default for files)")
	rootCmd.Flags().BoolVarP(&listFlag, "list", "l", false, "list files whose attributes would change")
	rootCmd.Flags().BoolVar(&checkFlag, "check", false, "list files that would change and exit non-zero if any")
	rootCmd.Flags().BoolVar(&watchFlag, "watch", false, "re-run on every change to the given files")
	rootCmd.Flags().StringVar(&rangeFlag, "range", "", "only rewrite within byte range start:end")
	rootCmd.Flags().StringVar(&linesFlag, "lines", "", "only rewrite within lines first:last (1-based, inclusive)")
	rootCmd.Flags().StringVar(&stdinFilename, "stdin-filename", "stdin.tsx",
		"file name used to pick the grammar for stdin")

	rootCmd.MarkFlagsMutuallyExclusive("write", "diff", "list", "check")
	rootCmd.MarkFlagsMutuallyExclusive("range", "lines")
}

func initConfig() {
	cfg, cfgErr = loadConfig(viper.GetViper(), cfgFile)
}

// loadConfig reads the config file into v and decodes it over the defaults.
// Lookup order: path, .bpgroup/config.yaml, ~/.config/bpgroup/config.yaml.
// A missing file is not an error.
func loadConfig(v *viper.Viper, path string) (config.Config, error) {
	setDefaults(v, config.Defaults())

	v.SetEnvPrefix("BPGROUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	switch {
	case path != "":
		v.SetConfigFile(path)
	case fileExists(config.LocalConfigPath):
		v.SetConfigFile(config.LocalConfigPath)
	default:
		if p := config.DefaultConfigPath(); p != "" {
			v.AddConfigPath(filepath.Dir(p))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config.Defaults(), fmt.Errorf("reading config: %w", err)
		}
	} else {
		log.Debug(log.CatConfig, "loaded config", "path", v.ConfigFileUsed())
	}

	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return config.Defaults(), fmt.Errorf("decoding config: %w", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper, d config.Config) {
	v.SetDefault("attribute", d.Attribute)
	v.SetDefault("join_function", d.JoinFunction)
	v.SetDefault("merge_library", d.MergeLibrary)
	v.SetDefault("language", d.Language)
	v.SetDefault("indent", d.Indent)
	v.SetDefault("watch_debounce", d.WatchDebounce)
	v.SetDefault("flags", d.Flags)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// setupLogging enables the file log for --debug and mirrors to stderr for
// --verbose. The returned cleanup is never nil.
func setupLogging() (func(), error) {
	cleanup := func() {}
	if debugFlag || os.Getenv("BPGROUP_DEBUG") != "" {
		logPath := os.Getenv("BPGROUP_LOG")
		if logPath == "" {
			logPath = "debug.log"
		}
		c, err := log.Init(logPath)
		if err != nil {
			return cleanup, fmt.Errorf("initializing logging: %w", err)
		}
		cleanup = c
		log.Info(log.CatConfig, "bpgroup starting", "version", version, "logPath", logPath)
	}
	if verboseFlag {
		log.Mirror(os.Stderr)
	}
	return cleanup, nil
}

func colorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func selectedMode() (host.Mode, bool) {
	switch {
	case writeFlag:
		return host.ModeWrite, true
	case listFlag:
		return host.ModeList, true
	case checkFlag:
		return host.ModeCheck, true
	case diffFlag:
		return host.ModeDiff, true
	default:
		return host.ModeDiff, false
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	if cfgErr != nil {
		return cfgErr
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if formatFlag != "text" && formatFlag != "json" {
		return fmt.Errorf("unknown format %q (expected text or json)", formatFlag)
	}

	cleanup, err := setupLogging()
	defer cleanup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := tracing.NewProvider(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() { _ = provider.Shutdown(context.Background()) }()

	popts, err := cfg.PipelineOptions()
	if err != nil {
		return err
	}
	popts.Tracer = provider.Tracer()

	mode, explicit := selectedMode()
	opts := runOptions{
		mode:         mode,
		explicitMode: explicit,
		json:         formatFlag == "json",
		pipeline:     popts,
		stdinName:    stdinFilename,
		stdin:        cmd.InOrStdin(),
		stdout:       cmd.OutOrStdout(),
		stderr:       cmd.ErrOrStderr(),
		styles:       presentation.NewStyles(colorEnabled(os.Stdout)),
	}
	if rangeFlag != "" {
		a, b, err := parsePair(rangeFlag)
		if err != nil {
			return fmt.Errorf("--range: %w", err)
		}
		opts.byteRange = &host.Selection{Start: a, End: b}
	}
	if linesFlag != "" {
		a, b, err := parsePair(linesFlag)
		if err != nil {
			return fmt.Errorf("--lines: %w", err)
		}
		opts.lines = &[2]int{a, b}
	}

	files := args
	useStdin := len(files) == 0 || (len(files) == 1 && files[0] == "-")

	if watchFlag {
		if useStdin {
			return fmt.Errorf("--watch needs at least one file")
		}
		return watch(ctx, opts, files, cfg.WatchDebounce)
	}

	r := newRunner(opts)
	if useStdin {
		r.runStdin(ctx)
	} else {
		for _, f := range files {
			if ctx.Err() != nil {
				break
			}
			r.runFile(ctx, f)
		}
	}
	return r.finish()
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
