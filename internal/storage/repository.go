package storage

import (
	"context"
	"time"
)

// ScrapeResult — итоговая запись одного прогона; после сборки не меняется
type ScrapeResult struct {
	Username    string
	ScrapedAt   time.Time
	TotalImages int
	TotalPosts  int
	Posts       [][]string // пост = упорядоченный список URL изображений
}

// Repository интерфейс для сохранения результатов скрейпа
type Repository interface {
	// SaveResult сохраняет результат, перезаписывая предыдущий для того же username
	SaveResult(ctx context.Context, result *ScrapeResult) error

	Close() error
}
