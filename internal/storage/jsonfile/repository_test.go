package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"threadgram-scraper/internal/observability"
	"threadgram-scraper/internal/storage"
)

func TestSaveResult(t *testing.T) {
	dir := t.TempDir()

	repo, err := NewRepository(filepath.Join(dir, "data"), observability.NewNop())
	if err != nil {
		t.Fatalf("NewRepository error: %v", err)
	}

	result := &storage.ScrapeResult{
		Username:    "someuser",
		ScrapedAt:   time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		TotalImages: 3,
		TotalPosts:  2,
		Posts: [][]string{
			{"https://cdn.example.com/p/111_123456789_222_n.jpg", "https://cdn.example.com/p/333_123456789_444_n.jpg"},
			{"https://cdn.example.com/p/555_987654321_666_n.jpg"},
		},
	}

	if err := repo.SaveResult(context.Background(), result); err != nil {
		t.Fatalf("SaveResult error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "data", "someuser.json"))
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}

	var doc struct {
		Username    string     `json:"username"`
		ScrapedAt   string     `json:"scraped_at"`
		TotalImages int        `json:"total_images"`
		TotalPosts  int        `json:"total_posts"`
		Posts       [][]string `json:"posts"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	if doc.Username != "someuser" {
		t.Errorf("username = %q, want %q", doc.Username, "someuser")
	}
	if doc.ScrapedAt != "2026-08-30T12:00:00Z" {
		t.Errorf("scraped_at = %q, want RFC3339 timestamp", doc.ScrapedAt)
	}
	if doc.TotalImages != 3 || doc.TotalPosts != 2 {
		t.Errorf("totals = (%d, %d), want (3, 2)", doc.TotalImages, doc.TotalPosts)
	}
	if len(doc.Posts) != 2 || len(doc.Posts[0]) != 2 || len(doc.Posts[1]) != 1 {
		t.Errorf("posts shape mismatch: %v", doc.Posts)
	}
}

func TestSaveResultOverwrites(t *testing.T) {
	dir := t.TempDir()

	repo, err := NewRepository(dir, observability.NewNop())
	if err != nil {
		t.Fatalf("NewRepository error: %v", err)
	}

	first := &storage.ScrapeResult{
		Username:    "someuser",
		ScrapedAt:   time.Now().UTC(),
		TotalImages: 1,
		TotalPosts:  1,
		Posts:       [][]string{{"https://cdn.example.com/old.jpg"}},
	}
	second := &storage.ScrapeResult{
		Username:    "someuser",
		ScrapedAt:   time.Now().UTC(),
		TotalImages: 0,
		TotalPosts:  0,
	}

	if err := repo.SaveResult(context.Background(), first); err != nil {
		t.Fatalf("SaveResult error: %v", err)
	}
	if err := repo.SaveResult(context.Background(), second); err != nil {
		t.Fatalf("SaveResult error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "someuser.json"))
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}

	var doc struct {
		TotalImages int        `json:"total_images"`
		Posts       [][]string `json:"posts"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if doc.TotalImages != 0 {
		t.Errorf("total_images = %d after overwrite, want 0", doc.TotalImages)
	}
	if doc.Posts == nil || len(doc.Posts) != 0 {
		t.Errorf("posts = %v after overwrite, want empty array", doc.Posts)
	}
}
