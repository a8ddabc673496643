package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tianzeyuan99/website-monitor/internal/alert"
	"github.com/tianzeyuan99/website-monitor/internal/browser"
	"github.com/tianzeyuan99/website-monitor/internal/config"
	"github.com/tianzeyuan99/website-monitor/internal/domain"
	"github.com/tianzeyuan99/website-monitor/internal/export"
	"github.com/tianzeyuan99/website-monitor/internal/extract"
	"github.com/tianzeyuan99/website-monitor/internal/linkcheck"
	"github.com/tianzeyuan99/website-monitor/internal/monitor"
	"github.com/tianzeyuan99/website-monitor/internal/renderer"
	"github.com/tianzeyuan99/website-monitor/internal/storage"
	"github.com/tianzeyuan99/website-monitor/internal/web"
)

const (
	gcInterval    = 5 * time.Minute
	finishTimeout = 30 * time.Second
)

func main() {
	configDir := flag.String("config", "./configs", "directory holding config.yaml")
	serve := flag.Bool("serve", false, "run the web interface instead of a single pass")
	flag.Parse()

	// --- Configuration Loading ---
	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Setup ---
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
		log.WithField("log_level", cfg.LogLevel).Warn("Unknown log level, falling back to info")
	}
	log.SetLevel(level)

	log.WithFields(logrus.Fields{
		"websites":      len(cfg.Websites),
		"renderer":      cfg.Renderer,
		"badgerdb_path": cfg.BadgerDBPath,
	}).Info("Configuration loaded successfully")

	// --- Initialize Components ---
	log.Info("Initializing components...")

	// Database
	repo, err := storage.NewBadgerRepository(cfg.BadgerDBPath, log)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.WithError(err).Error("Error closing database")
		}
	}()

	// Renderer
	rend, err := newRenderer(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize renderer: %v", err)
	}
	defer func() {
		if err := rend.Close(); err != nil {
			log.WithError(err).Error("Error closing renderer")
		}
	}()

	// Link checker
	checker, err := linkcheck.New(linkcheck.Config{
		Workers:       cfg.MaxWorkers,
		Timeout:       cfg.LinkTestTimeout(),
		UserAgent:     cfg.UserAgent,
		RatePerSecond: cfg.ProbeRateLimit,
	}, log)
	if err != nil {
		log.Fatalf("Failed to initialize link checker: %v", err)
	}

	// Monitor
	limits := extract.DefaultLimits()
	limits.MaxAnchors = cfg.MaxLinksPerPage
	limits.MaxImages = cfg.MaxImagesPerPage
	mon := monitor.New(monitor.Options{
		Websites: cfg.Websites,
		Limits:   limits,
	}, rend, checker, log)

	// Notifier (optional)
	var notifier alert.Notifier
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		n, err := alert.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID, log)
		if err != nil {
			log.Fatalf("Failed to initialize Telegram notifier: %v", err)
		}
		notifier = n
	}

	exporters := []export.Exporter{
		&export.JSONExporter{},
		&export.CSVExporter{},
		&export.SummaryExporter{},
	}

	// --- Application Startup ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// finish persists and exports one completed run. It runs on its own
	// context so a shutdown signal cannot cut off artifacts of a run that
	// already finished.
	finish := func(run *domain.MonitoringRun) {
		finishCtx, cancel := context.WithTimeout(context.Background(), finishTimeout)
		defer cancel()

		if err := repo.SaveRun(finishCtx, *run); err != nil {
			log.WithError(err).Error("Failed to persist run")
		}

		for _, e := range exporters {
			path, err := e.Export(run, cfg.OutputDir)
			if err != nil {
				log.WithError(err).Error("Failed to export run artifact")
				continue
			}
			log.WithField("path", path).Info("Run artifact written")
		}

		export.PrintFailureTable(os.Stdout, run.FailureRecords(http.StatusNotFound))

		if notifier != nil {
			if err := notifier.NotifyRun(finishCtx, *run); err != nil {
				log.WithError(err).Error("Failed to send run notification")
			}
		}
	}

	// --- Serve Mode ---
	if *serve {
		go repo.StartGC(ctx, gcInterval)

		starter := func() error {
			return mon.Start(ctx, finish)
		}
		server := web.NewServer(mon.Tracker(), repo, starter, log)
		if err := server.Serve(ctx, cfg.ListenAddr); err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}
		log.Info("Website monitor shut down gracefully.")
		return
	}

	// --- One-Shot Mode ---
	run, err := mon.Run(ctx)
	if err != nil {
		log.Fatalf("Failed to run monitoring pass: %v", err)
	}
	if ctx.Err() != nil {
		log.Warn("Monitoring pass interrupted, skipping artifacts")
		return
	}
	finish(run)

	totals := run.Totals()
	log.WithFields(logrus.Fields{
		"websites":     totals.Websites,
		"parsed":       totals.Parsed,
		"failed":       totals.Failed,
		"links_tested": totals.LinksTested,
		"inaccessible": totals.Inaccessible,
		"skipped":      totals.Skipped,
	}).Info("Monitoring pass complete")
}

// newRenderer builds the configured renderer implementation.
func newRenderer(cfg config.Config, log logrus.FieldLogger) (renderer.Renderer, error) {
	opts := renderer.Options{
		PageTimeout: cfg.PageLoadTimeout(),
		SettleDelay: renderer.DefaultSettleDelay,
		UserAgent:   cfg.UserAgent,
	}

	if cfg.Renderer == config.RendererStatic {
		return renderer.NewStaticRenderer(opts, log), nil
	}

	bin, name := browser.Resolve(cfg.BrowserPath)
	log.WithFields(logrus.Fields{
		"browser": name,
		"path":    bin,
	}).Info("Browser selected")
	opts.BrowserBin = bin
	return renderer.NewRodRenderer(opts, log)
}
