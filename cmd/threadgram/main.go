package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"threadgram-scraper/internal/app"
	"threadgram-scraper/internal/browser"
	"threadgram-scraper/internal/collector"
	"threadgram-scraper/internal/config"
	"threadgram-scraper/internal/observability"
	"threadgram-scraper/internal/storage"
	"threadgram-scraper/internal/storage/jsonfile"
	"threadgram-scraper/internal/storage/mssql"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-config path] <username> [max_scrolls]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Example: %s -config configs/config.yaml boooooook__ 50\n", os.Args[0])
}

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}

	username := strings.TrimPrefix(args[0], "@")
	if username == "" {
		log.Fatalf("Username must not be empty")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	maxScrolls := cfg.Scroll.MaxIterations
	if len(args) > 1 {
		maxScrolls, err = strconv.Atoi(args[1])
		if err != nil || maxScrolls <= 0 {
			log.Fatalf("max_scrolls must be a positive integer, got %q", args[1])
		}
	}

	logger := observability.NewLogger(cfg.Observability.LogPath, cfg.Observability.LogLevel)
	defer func() {
		if err := logger.Close(); err != nil {
			log.Printf("Warning: failed to close logger: %v", err)
		}
	}()

	repo, err := newRepository(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", "driver", cfg.Storage.Driver, "error", err.Error())
		os.Exit(1)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("Failed to close storage", "error", err.Error())
		}
	}()

	session, err := browser.NewSession(cfg, logger)
	if err != nil {
		logger.Error("Failed to start browser session", "error", err.Error())
		fmt.Fprintln(os.Stderr, "Browser setup failed:", err)
		fmt.Fprintln(os.Stderr, "Install Chromium (e.g. 'apt install chromium') or set browser.chrome_path in the config.")
		os.Exit(1)
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Error("Failed to close browser session", "error", err.Error())
		}
	}()

	ctx, cancel := app.GracefulShutdown(logger)
	defer cancel()

	c := collector.NewCollector(session, cfg, logger)
	orchestrator := app.NewOrchestrator(cfg, logger, c, repo)

	result, err := orchestrator.Run(ctx, username, maxScrolls)
	if err != nil {
		logger.Error("Scrape failed", "username", username, "error", err.Error())
		os.Exit(1)
	}

	fmt.Printf("Collected %d images in %d posts for @%s\n", result.TotalImages, result.TotalPosts, result.Username)
}

func newRepository(cfg *config.Config, logger *observability.Logger) (storage.Repository, error) {
	switch cfg.Storage.Driver {
	case "mssql":
		return mssql.NewRepository(cfg.Storage.DSN, cfg.Storage.CommandTimeoutMS, logger)
	default:
		return jsonfile.NewRepository(cfg.Storage.OutputDir, logger)
	}
}
