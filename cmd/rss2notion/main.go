package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"github.com/samber/lo"

	"github.com/umputun/rss2notion/pkg/config"
	"github.com/umputun/rss2notion/pkg/domain"
	"github.com/umputun/rss2notion/pkg/feed"
	"github.com/umputun/rss2notion/pkg/ingest"
	"github.com/umputun/rss2notion/pkg/llm"
	"github.com/umputun/rss2notion/pkg/notion"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" description:"configuration file (optional)"`

	NotionKey       string `long:"notion-key" env:"NOTION_API_KEY" description:"notion integration token"`
	FeedsDatabase   string `long:"feeds-db" env:"NOTION_URL_DATABASE_ID" description:"notion database id of the feed registry"`
	ReadingDatabase string `long:"reading-db" env:"NOTION_READING_DATABASE_ID" description:"notion database id of the entries table"`
	LLMKey          string `long:"llm-key" env:"GEMINI_API_KEY" description:"llm api key, enrichment disabled if empty"`
	NoEnrich        bool   `long:"no-enrich" description:"disable enrichment even if llm key is set"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	color.NoColor = color.NoColor || opts.NoColor
	setupLog(opts.Debug, opts.NotionKey, opts.LLMKey)
	log.Printf("[INFO] starting rss2notion version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()
	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

// run makes a single ingestion pass with the given options
func run(ctx context.Context, opts Opts) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if cfg.Notion.APIKey == "" {
		return fmt.Errorf("notion api key is not set, define NOTION_API_KEY or notion.api_key: %w", ingest.ErrNoStoreCredential)
	}

	store, err := notion.New(cfg.Notion)
	if err != nil {
		return fmt.Errorf("failed to create notion client: %w", err)
	}

	icfg := ingest.Config{
		Store:        store,
		Fetcher:      feed.NewParser(cfg.Feed.Timeout, cfg.Feed.UserAgent),
		SuccessDelay: cfg.LLM.SuccessDelay,
		FailureDelay: cfg.LLM.FailureDelay,
	}
	if enricher := makeEnricher(ctx, cfg.LLM, opts.NoEnrich); enricher != nil {
		icfg.Enricher = enricher // assign only non-nil, otherwise the interface holds a typed nil
	}

	report, err := ingest.New(icfg).Run(ctx)
	logSummary(report)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	return nil
}

// loadConfig reads the config file if set, or uses defaults, and applies non-empty CLI overrides
func loadConfig(opts Opts) (*config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(opts.Config); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if opts.NotionKey != "" {
		cfg.Notion.APIKey = opts.NotionKey
	}
	if opts.FeedsDatabase != "" {
		cfg.Notion.FeedsDatabase = opts.FeedsDatabase
	}
	if opts.ReadingDatabase != "" {
		cfg.Notion.ReadingDatabase = opts.ReadingDatabase
	}
	if opts.LLMKey != "" {
		cfg.LLM.APIKey = opts.LLMKey
	}
	return cfg, nil
}

// makeEnricher returns nil if enrichment is disabled or the provider can't be used
func makeEnricher(ctx context.Context, cfg config.LLMConfig, disabled bool) *llm.Enricher {
	if disabled {
		log.Print("[INFO] enrichment disabled")
		return nil
	}
	enricher, err := llm.NewEnricher(ctx, cfg)
	if errors.Is(err, llm.ErrNoAPIKey) {
		log.Print("[INFO] llm api key is not set, enrichment disabled")
		return nil
	}
	if err != nil {
		log.Printf("[WARN] can't initialize llm, enrichment disabled: %v", err)
		return nil
	}
	log.Printf("[INFO] enrichment enabled, model %s", enricher.Model())
	return enricher
}

func logSummary(report domain.RunReport) {
	seen, repeated, created := report.Totals()
	log.Printf("[INFO] run completed, feeds: %d (processed %d, empty %d, failed %d, skipped %d, canceled %d), "+
		"entries: %d seen, %d repeated, %d created",
		len(report.Feeds), report.Count(domain.FeedProcessed), report.Count(domain.FeedNoEntries),
		report.Count(domain.FeedFailed), report.Count(domain.FeedSkipped), report.Count(domain.FeedCanceled),
		seen, repeated, created)
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	if secrets := lo.Compact(secs); len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
