package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/walletlens/walletlens/internal/alchemy"
	"github.com/walletlens/walletlens/internal/api"
	"github.com/walletlens/walletlens/internal/bio"
	"github.com/walletlens/walletlens/internal/cache"
	"github.com/walletlens/walletlens/internal/config"
	"github.com/walletlens/walletlens/internal/etherscan"
	"github.com/walletlens/walletlens/internal/metrics"
	"github.com/walletlens/walletlens/internal/persona"
	"github.com/walletlens/walletlens/internal/storage"
	"github.com/walletlens/walletlens/internal/wallet"
)

func main() {
	_ = godotenv.Load(".env", ".env.local")

	// Initialize logger
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	log.Info("Starting walletlens service...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	log.WithFields(logrus.Fields{
		"environment":      cfg.Environment,
		"port":             cfg.Port,
		"tx_history_limit": cfg.TxHistoryLimit,
		"cache_ttl":        cfg.CacheTTL.String(),
		"bio_enabled":      cfg.BioEnabled(),
	}).Info("Configuration loaded")

	// Initialize database (analysis audit log)
	db, err := storage.New(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		log.WithError(err).Fatal("Failed to run database migrations")
	}

	log.Info("Database migrations complete")

	// Wallet snapshot cache: Redis when reachable, in-memory otherwise
	walletCache := cache.New(cfg.RedisURL, log)

	// Upstream clients and the fetcher
	etherscanClient := etherscan.NewClient(cfg)
	alchemyClient := alchemy.NewClient(cfg)
	fetcher := wallet.NewFetcher(cfg, etherscanClient, alchemyClient, walletCache, log)

	log.Info("API clients initialized")

	// Core services
	classifier := persona.NewClassifier()
	generator := bio.NewGenerator(cfg, log)

	// HTTP API
	handlers := api.New(cfg, log, fetcher, classifier, generator, db)
	router := api.NewRouter(cfg, log, handlers)

	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Starting API server")
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("API server failed")
		}
	}()

	// Health + metrics server
	go startOpsServer(cfg.MetricsPort, db, log)

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.WithField("signal", sig).Info("Received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.WithError(err).Error("API server shutdown failed")
	}

	log.Info("Graceful shutdown complete")
}

func startOpsServer(port int, db *storage.DB, log *logrus.Logger) {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		metrics.RecordHealthCheck(true)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy"}`)
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		metrics.RecordHealthCheck(true)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ready"}`)
	})

	// Recent audit entries, for operators
	mux.HandleFunc("/audit/recent", func(w http.ResponseWriter, r *http.Request) {
		entries, err := db.RecentAnalyses(r.Context(), 50)
		if err != nil {
			log.WithError(err).Error("Failed to load recent analyses")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(entries)
	})

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	log.WithField("port", port).Info("Starting HTTP server (health + metrics)")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Error("HTTP server failed")
	}
}
