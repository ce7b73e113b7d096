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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"FinSoft/internal/cli/api"
	"FinSoft/internal/cli/bootstrap"
	"FinSoft/internal/cli/commands"
	"FinSoft/internal/config"
	"FinSoft/internal/logger"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, commands.FormatGlobalUsage())
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flag.PrintDefaults()
	}
	// env + .env + флаги
	cfg := config.NewConfig()

	if cfg.Version {
		printVersion()
		return
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var metrics *api.Metrics
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		m, err := api.NewMetrics(reg)
		if err != nil {
			log.Fatalw("register metrics", "error", err)
		}
		metrics = m
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warnw("metrics server stopped", "addr", cfg.MetricsAddr, "error", err)
			}
		}()
		defer func() { _ = srv.Shutdown(context.Background()) }()
	}

	storage, closeStorage, err := bootstrap.OpenStorage(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() {
		if err := closeStorage(); err != nil {
			log.Warnw("close storage", "error", err)
		}
	}()

	client := api.NewClient(api.Options{
		BaseURL:   cfg.APIBaseURL,
		Timeout:   cfg.APITimeout,
		RateLimit: cfg.APIRateLimit,
		Logger:    log.Named("api"),
		Metrics:   metrics,
	})
	app := commands.NewApp(cfg, log, client, storage)

	// dispatcher
	exitCode := commands.Dispatch(ctx, app, flag.Args())
	if exitCode == 0 {
		return
	}
	// os.Exit не выполняет defer: закрываем хранилище явно
	_ = closeStorage()
	os.Exit(exitCode)
}

func printVersion() {
	fmt.Printf("FinSoft console\nVersion: %s\nBuild date: %s\n", version, buildDate)
}
