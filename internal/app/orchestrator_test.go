package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"threadgram-scraper/internal/collector"
	"threadgram-scraper/internal/config"
	"threadgram-scraper/internal/observability"
	"threadgram-scraper/internal/storage/jsonfile"
)

// staticDriver всегда отдаёт один и тот же набор URL
type staticDriver struct {
	urls []string
}

func (d *staticDriver) Navigate(ctx context.Context, url string) error { return nil }

func (d *staticDriver) ImageURLs(ctx context.Context) ([]string, error) { return d.urls, nil }

func (d *staticDriver) ScrollBy(ctx context.Context, offsetPx int) error { return nil }

func TestOrchestratorRun(t *testing.T) {
	dir := t.TempDir()

	cfg := &config.Config{
		Browser: config.BrowserConfig{InitialDelayMS: 0},
		Scroll: config.ScrollConfig{
			MaxIterations:   30,
			OffsetPX:        1000,
			SettleDelayMS:   0,
			StagnationLimit: 5,
		},
		Profile: config.ProfileConfig{BaseURL: "https://www.threads.net"},
	}
	logger := observability.NewNop()

	driver := &staticDriver{
		urls: []string{
			"https://scontent.cdninstagram.com/v/p/111_123456789_n.jpg",
			"https://scontent.cdninstagram.com/v/p/111_123456789_n_s640x640.jpg",
			"https://scontent.cdninstagram.com/v/p/222_987654321_n.jpg",
		},
	}

	repo, err := jsonfile.NewRepository(dir, logger)
	if err != nil {
		t.Fatalf("NewRepository error: %v", err)
	}

	o := NewOrchestrator(cfg, logger, collector.NewCollector(driver, cfg, logger), repo)

	result, err := o.Run(context.Background(), "someuser", 10)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if result.TotalImages != 3 {
		t.Errorf("TotalImages = %d, want 3", result.TotalImages)
	}
	if result.TotalPosts != 2 {
		t.Errorf("TotalPosts = %d, want 2", result.TotalPosts)
	}

	data, err := os.ReadFile(filepath.Join(dir, "someuser.json"))
	if err != nil {
		t.Fatalf("Output file not written: %v", err)
	}

	var doc struct {
		Username string     `json:"username"`
		Posts    [][]string `json:"posts"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if doc.Username != "someuser" {
		t.Errorf("username = %q, want %q", doc.Username, "someuser")
	}
	// Размерная версия s640x640 должна схлопнуться в полноразмерную
	if len(doc.Posts) != 2 || len(doc.Posts[0]) != 1 || len(doc.Posts[1]) != 1 {
		t.Errorf("posts shape mismatch: %v", doc.Posts)
	}
	if doc.Posts[0][0] != "https://scontent.cdninstagram.com/v/p/111_123456789_n.jpg" {
		t.Errorf("first post image = %q, want full-size URL", doc.Posts[0][0])
	}
}
