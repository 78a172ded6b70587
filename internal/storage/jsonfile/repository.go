package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"threadgram-scraper/internal/observability"
	"threadgram-scraper/internal/storage"
)

type Repository struct {
	outputDir string
	logger    *observability.Logger
}

// document — JSON-схема выходного файла
type document struct {
	Username    string     `json:"username"`
	ScrapedAt   string     `json:"scraped_at"`
	TotalImages int        `json:"total_images"`
	TotalPosts  int        `json:"total_posts"`
	Posts       [][]string `json:"posts"`
}

func NewRepository(outputDir string, logger *observability.Logger) (*Repository, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	return &Repository{
		outputDir: outputDir,
		logger:    logger,
	}, nil
}

// SaveResult пишет <output_dir>/<username>.json, перезаписывая прежний файл
func (r *Repository) SaveResult(ctx context.Context, result *storage.ScrapeResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := document{
		Username:    result.Username,
		ScrapedAt:   result.ScrapedAt.Format(time.RFC3339),
		TotalImages: result.TotalImages,
		TotalPosts:  result.TotalPosts,
		Posts:       result.Posts,
	}
	if doc.Posts == nil {
		doc.Posts = [][]string{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	path := filepath.Join(r.outputDir, result.Username+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write result file: %w", err)
	}

	r.logger.Info("Result saved",
		"path", path,
		"total_images", result.TotalImages,
		"total_posts", result.TotalPosts,
	)

	return nil
}

func (r *Repository) Close() error {
	return nil
}
