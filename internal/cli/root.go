// Package cli implements the textkit command tree on top of package textfile.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Adithya-Monish-Kumar-K/textkit/internal/display"
	"github.com/Adithya-Monish-Kumar-K/textkit/internal/freqcache"
	"github.com/Adithya-Monish-Kumar-K/textkit/internal/textfile"
	"github.com/Adithya-Monish-Kumar-K/textkit/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/textkit/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/textkit/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/textkit/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/textkit/pkg/redis"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath  string
	ignoreCase  bool
	metricsFile string
	logLevel    string
	noColor     bool
}

// app is the state shared by every command of one invocation.
type app struct {
	flags   rootFlags
	cfg     *config.Config
	metrics *metrics.Metrics
	logger  *slog.Logger
	stderr  io.Writer

	// connectCache opens the frequency cache; replaced in tests.
	connectCache func(ctx context.Context) (*freqcache.Cache, func(), error)
}

func newApp(stderr io.Writer) *app {
	a := &app{
		metrics: metrics.New(),
		stderr:  stderr,
	}
	a.connectCache = a.dialCache
	return a
}

func (a *app) rootCommand(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "textkit",
		Short: "Read, search and analyse plain-text files.",
		Long: `textkit reads UTF-8 text files lazily by line or by chunk, counts and ranks
words, finds regex matches, filters lines with a small predicate language, and
concatenates or merges files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperrors.New(apperrors.ErrInvalidArgument, err.Error())
	})

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "path to a YAML config file")
	pf.BoolVarP(&a.flags.ignoreCase, "ignore-case", "i", false, "analyse words and patterns case-insensitively")
	pf.StringVar(&a.flags.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile on exit")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&a.flags.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		a.showCommand(),
		a.linesCommand(),
		a.chunksCommand(),
		a.countCommand(),
		a.freqCommand(),
		a.matchCommand(),
		a.filterCommand(),
		a.concatCommand(),
		a.mergeCommand(),
		a.probeCommand(),
		a.cacheCommand(),
	)
	return cmd
}

// setup loads configuration and installs the logger before any command runs.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.flags.logLevel != "" {
		cfg.Logging.Level = a.flags.logLevel
	}
	if a.flags.metricsFile != "" {
		cfg.Metrics.Textfile = a.flags.metricsFile
	}
	if a.flags.ignoreCase {
		cfg.Analyzer.CaseSensitive = false
	}
	if a.flags.noColor {
		display.SetEnabled(false)
	}
	a.cfg = cfg

	logger.SetupWriter(a.stderr, cfg.Logging.Level, cfg.Logging.Format)
	a.logger = logger.WithComponent("cli")
	a.logger.Debug("configuration loaded",
		"command", cmd.Name(),
		"config", a.flags.configPath,
		"case_sensitive", cfg.Analyzer.CaseSensitive,
		"redis", cfg.Redis.Enabled,
	)
	return nil
}

// writeMetrics flushes the registry to the configured textfile, if any.
func (a *app) writeMetrics() error {
	if a.cfg == nil || a.cfg.Metrics.Textfile == "" {
		return nil
	}
	return a.metrics.WriteTextfile(a.cfg.Metrics.Textfile)
}

func (a *app) readerOptions() []textfile.Option {
	return []textfile.Option{
		textfile.WithPreviewLength(a.cfg.Reader.PreviewLength),
		textfile.WithColor(display.ParseColor(a.cfg.Display.ReaderColor)),
	}
}

func (a *app) analyzerOptions() []textfile.Option {
	return []textfile.Option{
		textfile.WithPreviewLength(a.cfg.Reader.PreviewLength),
		textfile.WithColor(display.ParseColor(a.cfg.Display.AnalyzerColor)),
	}
}

func (a *app) newReader(path string) *textfile.Reader {
	return textfile.NewReader(path, a.readerOptions()...)
}

func (a *app) newAnalyzer(path string) *textfile.Analyzer {
	return textfile.NewAnalyzer(path, a.cfg.Analyzer.CaseSensitive, a.analyzerOptions()...)
}

// content loads src and records it in the read metrics.
func (a *app) content(src textfile.Source) (string, error) {
	text, err := src.Content()
	if err != nil {
		return "", err
	}
	a.metrics.FilesReadTotal.Inc()
	a.metrics.BytesAnalyzedTotal.Add(float64(len(text)))
	return text, nil
}

// dialCache connects to Redis when it is enabled. A nil cache with a nil
// error means caching is off.
func (a *app) dialCache(ctx context.Context) (*freqcache.Cache, func(), error) {
	if !a.cfg.Redis.Enabled {
		return nil, func() {}, nil
	}
	client, err := pkgredis.NewClient(ctx, a.cfg.Redis)
	if err != nil {
		return nil, func() {}, err
	}
	a.logger.Debug("frequency cache enabled", "addr", a.cfg.Redis.Addr, "ttl", a.cfg.Redis.CacheTTL)
	closeFn := func() {
		if err := client.Close(); err != nil {
			a.logger.Warn("closing redis client", "error", err)
		}
	}
	return freqcache.New(client, a.cfg.Redis, a.metrics), closeFn, nil
}

// Execute runs the command line in args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return newApp(stderr).execute(ctx, args, stdout, stderr)
}

func (a *app) execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := a.rootCommand(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if mErr := a.writeMetrics(); mErr != nil {
		fmt.Fprintf(stderr, "warning: %v\n", mErr)
	}
	if err != nil {
		fmt.Fprintln(stderr, display.Colorize("error: "+err.Error(), display.Red))
		return apperrors.ExitCode(err)
	}
	return apperrors.ExitOK
}

// Main is Execute over the process arguments and standard streams.
func Main() int {
	return Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}
