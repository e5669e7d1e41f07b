package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "modernc.org/sqlite"

	"github.com/applyo/livepoll/cliparse"
	"github.com/applyo/livepoll/db"
	"github.com/applyo/livepoll/metrics"
	"github.com/applyo/livepoll/middleware"
	"github.com/applyo/livepoll/pubsub"
	"github.com/applyo/livepoll/router"
	"github.com/applyo/livepoll/vote"
)

func main() {
	// Load .env if present; real env vars still win
	_ = godotenv.Load()

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	driver := "sqlite"
	if cfg.DatabaseType == "postgres" {
		driver = "postgres"
	}

	dbConn, err := sql.Open(driver, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	if err := dbConn.Ping(); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// sqlite allows a single writer
	if driver == "sqlite" {
		dbConn.SetMaxOpenConns(1)
	}

	if err := db.CreateSchema(dbConn, cfg.UniqueByIP); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "unique_by_ip", cfg.UniqueByIP)

	// Broadcast hub: created at process start, torn down at shutdown,
	// injected by reference everywhere needed
	hub := pubsub.NewHub()
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	registry := prometheus.NewRegistry()
	voteMetrics := metrics.NewVoteMetrics(registry)

	coordinator := vote.NewCoordinator(dbConn, vote.Policy{
		UniqueByIP:     cfg.UniqueByIP,
		DeviceCooldown: cfg.DeviceCooldown,
	}, hub, voteMetrics, cfg.TokenSalt)

	mux := router.NewRouter(dbConn, cfg, coordinator, hub,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := http.Server{
		Handler: middleware.CORS(mux, cfg.ClientURL),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		stopHub()
		server.Close()
	}()

	slog.Info("Listening", "port", cfg.Port,
		"device_cooldown", cfg.DeviceCooldown.String())
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
