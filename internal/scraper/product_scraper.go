package scraper

import (
	"fmt"
	"log/slog"

	"github.com/playwright-community/playwright-go"

	"github.com/maltedev/marketplace-scraper/internal/browser"
	"github.com/maltedev/marketplace-scraper/internal/config"
	"github.com/maltedev/marketplace-scraper/internal/models"
	"github.com/maltedev/marketplace-scraper/internal/parser"
	"github.com/maltedev/marketplace-scraper/internal/ratelimit"
)

// DetailScraper turns one product detail page into a record.
type DetailScraper struct {
	browser *browser.Browser
	cfg     config.CrawlerConfig
	logger  *slog.Logger
}

func NewDetailScraper(b *browser.Browser, cfg config.CrawlerConfig) *DetailScraper {
	return &DetailScraper{
		browser: b,
		cfg:     cfg,
		logger:  slog.Default().With("component", "detail"),
	}
}

// Extract navigates to the product URL, lets the lazy sections render,
// and assembles the record from the page snapshot. A navigation failure
// is an error; a page that renders but yields few fields is not.
func (s *DetailScraper) Extract(page playwright.Page, productURL string) (*models.Product, error) {
	if err := s.browser.NavigateWithRetry(page, productURL, s.cfg.NavTimeout, s.cfg.IdleTimeout, s.cfg.ItemRetries+1); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrItemSkipped, err)
	}

	s.browser.WheelScroll(page, lazyLoadScrolls, 800, ratelimit.Jitter(s.cfg.DelayMin, s.cfg.DelayMax)/lazyLoadScrolls)

	// Gallery and description lazy-load; wait briefly but proceed
	// with whatever rendered.
	_, err := page.WaitForSelector("div[data-widget='webGallery']", playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(float64(s.cfg.SelectorTimeout.Milliseconds())),
	})
	if err != nil {
		s.logger.Debug("gallery did not render", "url", productURL)
	}

	html, bodyText, err := s.browser.Snapshot(page)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrItemSkipped, err)
	}

	snapshot, err := parser.NewPage(html, bodyText, page.URL())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrItemSkipped, err)
	}

	product := snapshot.Product()
	if product.Category == "" {
		// Leave the field empty on failure so the caller can retry
		// with a fresh tab before settling on the sentinel.
		if c := parser.ResolveCategory(snapshot.Document(), snapshot.URL(), product.Brand); c != parser.CategoryUndetermined {
			product.Category = c
		}
	}

	return product, nil
}
