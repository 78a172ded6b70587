package app

import (
	"context"
	"fmt"
	"time"

	"threadgram-scraper/internal/collector"
	"threadgram-scraper/internal/config"
	"threadgram-scraper/internal/grouper"
	"threadgram-scraper/internal/observability"
	"threadgram-scraper/internal/storage"
)

type Orchestrator struct {
	cfg       *config.Config
	logger    *observability.Logger
	collector *collector.Collector
	repo      storage.Repository
}

func NewOrchestrator(
	cfg *config.Config,
	logger *observability.Logger,
	c *collector.Collector,
	repo storage.Repository,
) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		logger:    logger,
		collector: c,
		repo:      repo,
	}
}

// Run выполняет полный прогон: сбор URL → группировка → сохранение.
// Любая ошибка сбора фатальна; частичный результат не сохраняется.
func (o *Orchestrator) Run(ctx context.Context, username string, maxScrolls int) (*storage.ScrapeResult, error) {
	profileURL := o.cfg.ProfileURL(username)

	o.logger.Info("Starting scrape",
		"username", username,
		"url", profileURL,
		"max_scrolls", maxScrolls,
	)

	urls, stats, err := o.collector.Collect(ctx, profileURL, maxScrolls)
	if err != nil {
		o.logger.Error("Collection failed",
			"username", username,
			"error", err.Error(),
		)
		return nil, err
	}

	posts := grouper.GroupImages(urls)

	result := &storage.ScrapeResult{
		Username:    username,
		ScrapedAt:   time.Now().UTC(),
		TotalImages: len(urls),
		TotalPosts:  len(posts),
		Posts:       make([][]string, 0, len(posts)),
	}
	for _, post := range posts {
		result.Posts = append(result.Posts, post.Images)
	}

	if err := o.repo.SaveResult(ctx, result); err != nil {
		o.logger.Error("Save failed",
			"username", username,
			"error", err.Error(),
		)
		return nil, fmt.Errorf("failed to save result: %w", err)
	}

	o.logger.Info("Scrape completed",
		"username", username,
		"iterations", stats.Iterations,
		"total_images", result.TotalImages,
		"total_posts", result.TotalPosts,
		"reason", stats.StoppedReason,
	)

	return result, nil
}
