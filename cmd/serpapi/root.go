package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	serpapi "github.com/kitbuilder587/serpapi-go"
	"github.com/kitbuilder587/serpapi-go/internal/config"
	"github.com/kitbuilder587/serpapi-go/internal/metrics"
)

// Version is the CLI version
var Version = "0.1.0"

// searcherFactory builds the client used by every subcommand.
type searcherFactory func(cfg *config.Config, logger *zap.Logger, rec serpapi.Recorder) serpapi.Searcher

func defaultFactory(cfg *config.Config, logger *zap.Logger, rec serpapi.Recorder) serpapi.Searcher {
	return serpapi.New(serpapi.Config{
		APIKey:   cfg.SerpAPI.APIKey,
		BaseURL:  cfg.SerpAPI.BaseURL,
		Timeout:  cfg.SerpAPI.Timeout,
		Retries:  cfg.SerpAPI.Retries,
		Recorder: rec,
	}, logger)
}

type options struct {
	configPath  string
	apiKey      string
	timeout     time.Duration
	retries     int
	logLevel    string
	format      string
	metricsFile string
}

// app carries the state shared by subcommands once the root pre-run is done.
type app struct {
	searcher serpapi.Searcher
	logger   *zap.Logger
	metrics  *metrics.Metrics
	cfg      *config.Config
	format   string
}

func newRootCmd(factory searcherFactory) (*cobra.Command, *app) {
	opts := &options{}
	a := &app{}

	root := &cobra.Command{
		Use:   "serpapi",
		Short: "Query the SerpApi search results API",
		Long: `serpapi runs searches against https://serpapi.com and prints the results.

Search parameters are passed as key=value pairs.

Examples:
  serpapi search engine=google q=coffee
  serpapi search q=coffee --mode object --path search_metadata.id
  serpapi html q=coffee --select "h3"
  serpapi location q=Austin limit=3
  serpapi archive 64a1b2c3 --mode html
  serpapi account`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, opts, factory)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to config file (default "+config.DefaultPath+")")
	flags.StringVar(&opts.apiKey, "api-key", "", "SerpApi key (overrides SERPAPI_API_KEY)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "HTTP timeout (default 60s)")
	flags.IntVar(&opts.retries, "retries", 0, "Transport retry count")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.format, "format", "json", "Output format for JSON results: json or yaml")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "Write prometheus metrics to this file on exit")

	root.AddCommand(
		newSearchCmd(a),
		newHTMLCmd(a),
		newLocationCmd(a),
		newArchiveCmd(a),
		newAccountCmd(a),
	)

	return root, a
}

// execute runs the command tree and tears the app down whether or not the
// command failed. cobra skips post-run hooks after a RunE error.
func execute(root *cobra.Command, a *app) error {
	err := root.Execute()
	if terr := a.teardown(); terr != nil {
		err = errors.Join(err, terr)
	}
	return err
}

func (a *app) setup(cmd *cobra.Command, opts *options, factory searcherFactory) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("api-key") {
		cfg.SerpAPI.APIKey = opts.apiKey
	}
	if flags.Changed("timeout") {
		cfg.SerpAPI.Timeout = opts.timeout
	}
	if flags.Changed("retries") {
		cfg.SerpAPI.Retries = opts.retries
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.File = opts.metricsFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	switch opts.format {
	case "json", "yaml":
	default:
		return fmt.Errorf("%w: unknown format %q, want json or yaml", errBadParam, opts.format)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	a.format = opts.format
	a.metrics = metrics.New()
	a.searcher = factory(cfg, logger, a.metrics)
	return nil
}

func (a *app) teardown() error {
	if a.logger != nil {
		defer a.logger.Sync()
	}
	if a.cfg == nil || a.cfg.Metrics.File == "" {
		return nil
	}
	if err := a.metrics.WriteFile(a.cfg.Metrics.File); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
