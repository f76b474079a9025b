package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/rgoyard/prepanote/internal/ai"
	"github.com/rgoyard/prepanote/internal/config"
	"github.com/rgoyard/prepanote/internal/review"
	"github.com/rgoyard/prepanote/internal/storage"
	"github.com/rgoyard/prepanote/internal/web"
)

func main() {
	defaults := config.Default()
	flags := pflag.NewFlagSet("prepanote", pflag.ExitOnError)
	configPath := flags.String("config", "prepanote.yaml", "Path to the YAML configuration file")
	flags.String("db-path", defaults.DBPath, "Path to the SQLite database file")
	flags.String("listen", defaults.Listen, "Address to serve the API on")
	flags.String("repos-dir", defaults.ReposDir, "Directory where notes repositories are cloned")
	if err := flags.Parse(os.Args[1:]); err != nil {
		log.Fatalf("Failed to parse flags: %v", err)
	}

	cfg, err := config.Load(*configPath, flags.Changed("config"), flags)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	aiClient := ai.NewClient(ai.Config{
		BaseURL:   cfg.AI.BaseURL,
		APIKey:    cfg.AI.APIKey,
		Model:     cfg.AI.Model,
		MaxTokens: cfg.AI.MaxTokens,
		Timeout:   cfg.AI.Timeout,
		Retry: ai.RetryPolicy{
			MaxAttempts: cfg.AI.MaxAttempts,
			BaseDelay:   cfg.AI.RetryDelay,
			Factor:      cfg.AI.RetryFactor,
		},
	})
	if cfg.AI.APIKey == "" {
		slog.Warn("no AI API key configured, generation endpoints will be unavailable")
	}

	policy := review.Policy{
		DeadlineHorizonDays: cfg.Review.DeadlineHorizonDays,
		PullForwardDays:     cfg.Review.PullForwardDays,
		PullForwardLimit:    cfg.Review.PullForwardLimit,
	}

	server := web.NewServer(db, aiClient, policy, cfg.ReposDir)
	slog.Info("listening", "addr", cfg.Listen)
	if err := http.ListenAndServe(cfg.Listen, server); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
