package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/rickgao/pricestamp/internal/annotator"
	"github.com/rickgao/pricestamp/internal/api"
	"github.com/rickgao/pricestamp/internal/config"
	"github.com/rickgao/pricestamp/internal/database"
	"github.com/rickgao/pricestamp/internal/document"
	"github.com/rickgao/pricestamp/internal/market"
	"github.com/rickgao/pricestamp/internal/metrics"
	"github.com/rickgao/pricestamp/internal/report"
	"github.com/rickgao/pricestamp/internal/version"
	"github.com/rickgao/pricestamp/internal/writer"
)

type options struct {
	configPath string
	input      string
	xlsx       string
	dryRun     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to config file (built-in defaults when empty)")
	flag.StringVar(&opts.input, "input", "", "messages file to annotate (overrides input.path)")
	flag.StringVar(&opts.xlsx, "xlsx", "", "also write the annotation table to this XLSX file")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "print the table without rewriting the messages file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := run(ctx, opts, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		if errors.Is(err, annotator.ErrNoData) {
			fmt.Println("ERROR: no data returned")
		}
		slog.Error("pricestamp failed", "error", err)
		os.Exit(1)
	}
}

// run annotates the configured document. The table goes to stdout, logs to stderr.
func run(ctx context.Context, opts options, stdout, stderr io.Writer) (err error) {
	// Bootstrap logger until the config says otherwise
	logger := slog.New(slog.NewTextHandler(stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadAndValidate(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.input != "" {
		cfg.Input.Path = opts.input
	}
	if opts.xlsx != "" {
		cfg.Report.XLSXPath = opts.xlsx
	}

	logger = newLogger(cfg.Logging, stderr)
	slog.SetDefault(logger)

	logger.Info("starting pricestamp",
		"version", version.Version,
		"commit", version.Commit,
		"config", opts.configPath,
		"input", cfg.Input.Path,
	)

	started := time.Now()
	runMetrics := metrics.New()
	defer func() {
		runMetrics.ObserveRun(time.Since(started), err == nil, time.Now())
		if cfg.Metrics.TextfilePath == "" {
			return
		}
		if werr := runMetrics.WriteTextfile(cfg.Metrics.TextfilePath); werr != nil {
			logger.Warn("failed to write metrics", "path", cfg.Metrics.TextfilePath, "error", werr)
		}
	}()

	session, err := market.NewSession(cfg.Market.Timezone, cfg.Market.Open, cfg.Market.Close)
	if err != nil {
		return fmt.Errorf("market session: %w", err)
	}

	doc, err := document.Load(cfg.Input.Path, session)
	if err != nil {
		return fmt.Errorf("load %s: %w", cfg.Input.Path, err)
	}

	client := api.NewClient(
		cfg.API.BaseURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, cfg.API.RetryBackoff),
		api.WithRateLimit(cfg.API.RateLimit, cfg.API.RateBurst),
		api.WithUserAgent(cfg.API.UserAgent),
	)

	ann := annotator.New(client, session,
		annotator.WithPadding(cfg.Fetch.Padding),
		annotator.WithMetrics(runMetrics),
		annotator.WithLogger(logger),
	)

	result, err := ann.Annotate(ctx, doc)
	if err != nil {
		return fmt.Errorf("annotate %s: %w", doc.Ticker, err)
	}
	if err := result.Apply(doc); err != nil {
		return err
	}

	if err := report.WriteTable(stdout, result); err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	if opts.dryRun {
		logger.Info("dry run, document not written", "path", cfg.Input.Path)
	} else {
		if err := doc.Save(cfg.Input.Path, cfg.Input.BackupEnabled()); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "\nUpdated %s\n", filepath.Base(cfg.Input.Path))
	}

	if cfg.Report.XLSXPath != "" {
		if err := report.WriteXLSX(cfg.Report.XLSXPath, result); err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}
		logger.Info("xlsx written", "path", cfg.Report.XLSXPath)
	}

	if cfg.Archive.Enabled {
		if err := archive(ctx, cfg.Archive, result, logger); err != nil {
			return err
		}
	}

	logger.Info("annotation complete",
		"ticker", result.Ticker,
		"messages", len(result.Rows),
		"not_found", result.NotFound(),
		"settlement", result.SettlementQuote.Price.StringFixed(2),
		"duration", time.Since(started),
	)
	return nil
}

// archive writes the run to the configured database.
func archive(ctx context.Context, cfg config.ArchiveConfig, result *annotator.Result, logger *slog.Logger) error {
	logger.Info("connecting to archive",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect archive: %w", err)
	}
	defer pool.Close()

	w := writer.NewArchiveWriter(writer.WriterConfig{BatchSize: cfg.BatchSize}, pool, logger)
	if err := w.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := w.Write(ctx, result); err != nil {
		return err
	}

	stats := w.Stats()
	logger.Info("archive written",
		"run_id", w.RunID(),
		"inserts", stats.Inserts,
		"conflicts", stats.Conflicts,
	)
	return nil
}

func newLogger(cfg config.LoggingConfig, out io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(cfg.Format) == "json" {
		return slog.New(slog.NewJSONHandler(out, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(out, handlerOpts))
}
