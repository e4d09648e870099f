package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"sydevents/internal/config"
	appLog "sydevents/internal/log"
	"sydevents/internal/scrape"
	"sydevents/internal/store"
	"sydevents/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
	once       bool
	dryRun     bool
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		// The configured level is unavailable; bring the logger up at the
		// default so the failure is visible.
		_ = appLog.Init("")
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	if err := appLog.Init(conf.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer appLog.Sync()

	appLog.Info("sydevents starting",
		"listen", conf.Listen,
		"metrics_listen", conf.MetricsListen,
		"harvest_cron", conf.HarvestCron,
		"horizon_days", conf.HorizonDays,
		"sources", len(conf.Sources),
		"once", flags.once,
		"dry_run", flags.dryRun,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	// Dry runs persist into an in-memory store so nothing reaches Mongo.
	var (
		events store.EventStore
		emails store.EmailStore
		health web.HealthFunc
	)
	if flags.dryRun {
		mem := store.NewMemoryStore()
		events, emails = mem, mem
	} else {
		connectCtx, connectCancel := context.WithTimeout(ctx, 15*time.Second)
		ms, err := store.NewMongoStore(connectCtx, conf.Mongo.URI, conf.Mongo.Database)
		connectCancel()
		if err != nil {
			appLog.Error("failed to connect to mongodb", err, "database", conf.Mongo.Database)
			os.Exit(1)
		}
		defer func() {
			closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer closeCancel()
			if err := ms.Close(closeCtx); err != nil {
				appLog.Error("mongodb disconnect failed", err)
			}
		}()
		events, emails = ms, ms
		health = ms.Health
	}

	sources := scrape.FromConfigs(conf.Sources, scrape.Options{
		UserAgent: conf.UserAgent,
		Horizon:   time.Duration(conf.HorizonDays) * 24 * time.Hour,
	})
	harvester := scrape.NewHarvester(sources, events)

	runHarvest := func() {
		summary := harvester.Run(ctx)
		if !summary.Success {
			appLog.Error("harvest run failed", errors.New(summary.Error), "run_id", summary.RunID)
		}
	}

	// An immediate run on startup, then the cron cadence.
	runHarvest()
	if flags.once {
		appLog.Info("single harvest complete, exiting")
		return
	}

	sched := cron.New()
	if _, err := sched.AddFunc(conf.HarvestCron, runHarvest); err != nil {
		appLog.Error("invalid harvest schedule", err, "cron", conf.HarvestCron)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	if conf.MetricsListen != "" {
		go serveMetrics(conf.MetricsListen)
	}

	srv := web.NewServer(events, emails, health)
	go func() {
		appLog.Info("http api listening", "addr", conf.Listen)
		if err := srv.Listen(conf.Listen); err != nil {
			appLog.Error("http server stopped", err)
			cancel()
		}
	}()

	<-ctx.Done()

	if err := srv.Shutdown(); err != nil {
		appLog.Error("http server shutdown failed", err)
	}
	appLog.Info("sydevents exiting")
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	appLog.Info("metrics listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		appLog.Error("metrics server stopped", err)
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/sydevents/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Run one harvest and exit")
	flag.BoolVar(&cfg.dryRun, "dry-run", false, "Harvest into an in-memory store; do not touch MongoDB")

	flag.Parse()

	return cfg
}
