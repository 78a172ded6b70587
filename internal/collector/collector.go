package collector

import (
	"context"
	"fmt"
	"time"

	"threadgram-scraper/internal/config"
	"threadgram-scraper/internal/observability"
)

// PageDriver — контракт браузерного коллаборатора. Реализуется
// internal/browser поверх rod; в тестах подменяется скриптованным драйвером.
type PageDriver interface {
	// Navigate открывает страницу и ждёт затишья сети
	Navigate(ctx context.Context, url string) error

	// ImageURLs возвращает URL всех отрисованных изображений, прошедших фильтр
	ImageURLs(ctx context.Context) ([]string, error)

	// ScrollBy прокручивает viewport вниз на offsetPx пикселей
	ScrollBy(ctx context.Context, offsetPx int) error
}

type Collector struct {
	driver PageDriver
	cfg    *config.Config
	logger *observability.Logger
}

type CollectStats struct {
	Iterations    int
	TotalImages   int
	StoppedReason string
}

func NewCollector(driver PageDriver, cfg *config.Config, logger *observability.Logger) *Collector {
	return &Collector{
		driver: driver,
		cfg:    cfg,
		logger: logger,
	}
}

// Collect прокручивает страницу профиля до исчерпания бюджета итераций либо
// до stagnation_limit подряд итераций без новых изображений. Возвращает
// уникальные URL в порядке первого появления.
func (c *Collector) Collect(ctx context.Context, profileURL string, maxScrolls int) ([]string, *CollectStats, error) {
	if maxScrolls <= 0 {
		return nil, nil, fmt.Errorf("scroll budget must be > 0, got %d", maxScrolls)
	}

	c.logger.Info("Starting collection",
		"url", profileURL,
		"max_scrolls", maxScrolls,
		"stagnation_limit", c.cfg.Scroll.StagnationLimit,
	)

	if err := c.driver.Navigate(ctx, profileURL); err != nil {
		return nil, nil, fmt.Errorf("navigation failed: %w", err)
	}

	// Пауза на первичную отрисовку ленты
	if err := c.wait(ctx, c.cfg.GetInitialDelay()); err != nil {
		return nil, nil, err
	}

	stats := &CollectStats{}
	acc := newURLSet()
	lastCount := 0
	stagnation := 0

	for i := 1; i <= maxScrolls; i++ {
		urls, err := c.driver.ImageURLs(ctx)
		if err != nil {
			stats.StoppedReason = fmt.Sprintf("extraction error at iteration %d: %v", i, err)
			return nil, stats, fmt.Errorf("extraction failed at iteration %d: %w", i, err)
		}

		for _, url := range urls {
			acc.add(url)
		}

		stats.Iterations = i
		currentCount := acc.size()

		c.logger.Debug("Scroll iteration",
			"iteration", i,
			"max_scrolls", maxScrolls,
			"unique_images", currentCount,
			"stagnation", stagnation,
		)

		if currentCount == lastCount {
			stagnation++
			if stagnation >= c.cfg.Scroll.StagnationLimit {
				stats.StoppedReason = fmt.Sprintf("no new images for %d consecutive iterations at iteration %d", stagnation, i)
				break
			}
		} else {
			stagnation = 0
		}
		lastCount = currentCount

		if err := c.driver.ScrollBy(ctx, c.cfg.Scroll.OffsetPX); err != nil {
			stats.StoppedReason = fmt.Sprintf("scroll error at iteration %d: %v", i, err)
			return nil, stats, fmt.Errorf("scroll failed at iteration %d: %w", i, err)
		}

		// Даём lazy-load контенту отрисоваться перед следующим снимком
		if err := c.wait(ctx, c.cfg.GetSettleDelay()); err != nil {
			return nil, stats, err
		}
	}

	if stats.StoppedReason == "" {
		stats.StoppedReason = fmt.Sprintf("scroll budget exhausted after %d iterations", stats.Iterations)
	}
	stats.TotalImages = acc.size()

	c.logger.Info("Collection completed",
		"iterations", stats.Iterations,
		"total_images", stats.TotalImages,
		"reason", stats.StoppedReason,
	)

	return acc.ordered, stats, nil
}

func (c *Collector) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// urlSet — аккумулятор уникальных URL с сохранением порядка вставки
type urlSet struct {
	seen    map[string]struct{}
	ordered []string
}

func newURLSet() *urlSet {
	return &urlSet{seen: make(map[string]struct{})}
}

func (s *urlSet) add(url string) {
	if _, ok := s.seen[url]; ok {
		return
	}
	s.seen[url] = struct{}{}
	s.ordered = append(s.ordered, url)
}

func (s *urlSet) size() int {
	return len(s.ordered)
}
