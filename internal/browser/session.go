package browser

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"threadgram-scraper/internal/config"
	"threadgram-scraper/internal/observability"
	"threadgram-scraper/internal/scrape"
)

// Session — headless-сессия Chromium поверх rod. Реализует collector.PageDriver.
type Session struct {
	browser *rod.Browser
	page    *rod.Page
	cfg     *config.Config
	filter  scrape.Filter
	logger  *observability.Logger
}

// NewSession запускает headless-браузер и открывает пустую вкладку.
// Отсутствие бинарника Chromium — фатальная ошибка настройки окружения.
func NewSession(cfg *config.Config, logger *observability.Logger) (*Session, error) {
	binPath := cfg.Browser.ChromePath
	if binPath == "" {
		found, ok := launcher.LookPath()
		if !ok {
			return nil, fmt.Errorf("no Chromium/Chrome binary found: install chromium or set browser.chrome_path in the config")
		}
		binPath = found
	}

	l := launcher.New().
		Bin(binPath).
		Headless(cfg.Browser.Headless)

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser (%s): %w", binPath, err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		closeErr := b.Close()
		if closeErr != nil {
			logger.Error("Failed to close browser after page error", "error", closeErr.Error())
		}
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	if cfg.Browser.UserAgent != "" {
		override := &proto.NetworkSetUserAgentOverride{UserAgent: cfg.Browser.UserAgent}
		if err := page.SetUserAgent(override); err != nil {
			logger.Warn("Failed to override user agent", "error", err.Error())
		}
	}

	logger.Info("Browser session started",
		"bin", binPath,
		"headless", cfg.Browser.Headless,
	)

	return &Session{
		browser: b,
		page:    page,
		cfg:     cfg,
		filter: scrape.Filter{
			HostSubstring:   cfg.Filter.HostSubstring,
			ExcludedMarkers: cfg.Filter.ExcludedMarkers,
		},
		logger: logger,
	}, nil
}

// Navigate открывает URL и ждёт, пока сеть почти затихнет
func (s *Session) Navigate(ctx context.Context, url string) error {
	page := s.page.Context(ctx).Timeout(s.cfg.GetPageTimeout())

	wait := page.WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	wait()

	return nil
}

// ImageURLs снимает текущий DOM и извлекает отфильтрованные src изображений
func (s *Session) ImageURLs(ctx context.Context) ([]string, error) {
	page := s.page.Context(ctx).Timeout(s.cfg.GetPageTimeout())

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot DOM: %w", err)
	}

	return scrape.ExtractImageURLs(html, s.filter)
}

// ScrollBy прокручивает страницу вниз inline-скриптом
func (s *Session) ScrollBy(ctx context.Context, offsetPx int) error {
	page := s.page.Context(ctx).Timeout(s.cfg.GetPageTimeout())

	_, err := page.Eval(`(offset) => window.scrollBy(0, offset)`, offsetPx)
	if err != nil {
		return fmt.Errorf("failed to scroll: %w", err)
	}
	return nil
}

// Close закрывает вкладку и браузер; вызывать на всех путях выхода
func (s *Session) Close() error {
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			s.logger.Error("Failed to close page", "error", err.Error())
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			return fmt.Errorf("failed to close browser: %w", err)
		}
	}
	return nil
}
