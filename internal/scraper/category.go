package scraper

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/maltedev/marketplace-scraper/internal/browser"
	"github.com/maltedev/marketplace-scraper/internal/config"
	"github.com/maltedev/marketplace-scraper/internal/parser"
)

// CategoryResolver re-resolves a product's category in a secondary
// tab when the primary snapshot carried no usable breadcrumbs.
type CategoryResolver struct {
	browser *browser.Browser
	cfg     config.CrawlerConfig
	logger  *slog.Logger
}

func NewCategoryResolver(b *browser.Browser, cfg config.CrawlerConfig) *CategoryResolver {
	return &CategoryResolver{
		browser: b,
		cfg:     cfg,
		logger:  slog.Default().With("component", "category"),
	}
}

// Resolve opens the product URL in a fresh tab and runs the category
// resolution ladder on it. The tab is closed on every path; any
// failure degrades to the undetermined sentinel instead of an error.
func (r *CategoryResolver) Resolve(productURL, brand string) string {
	page, err := r.browser.NewPage()
	if err != nil {
		r.logger.Warn("failed to open category tab", "error", err)
		return parser.CategoryUndetermined
	}
	defer page.Close()

	if err := r.browser.Navigate(page, productURL, r.cfg.NavTimeout, r.cfg.IdleTimeout); err != nil {
		r.logger.Warn("category tab navigation failed", "url", productURL, "error", err)
		return parser.CategoryUndetermined
	}

	html, _, err := r.browser.Snapshot(page)
	if err != nil {
		r.logger.Warn("category tab snapshot failed", "url", productURL, "error", err)
		return parser.CategoryUndetermined
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		r.logger.Warn("category tab parse failed", "url", productURL, "error", err)
		return parser.CategoryUndetermined
	}

	return parser.ResolveCategory(doc, page.URL(), brand)
}
