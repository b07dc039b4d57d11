package scraper

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"

	"github.com/maltedev/marketplace-scraper/internal/browser"
	"github.com/maltedev/marketplace-scraper/internal/config"
	"github.com/maltedev/marketplace-scraper/internal/parser"
)

// SellerInfo is the seller landing header: display name plus the
// aggregate figures shown next to it.
type SellerInfo struct {
	Name  string
	Stats parser.SellerStats
}

// SellerResolver reads the header of a seller landing page.
type SellerResolver struct {
	browser *browser.Browser
	cfg     config.CrawlerConfig
	logger  *slog.Logger
}

func NewSellerResolver(b *browser.Browser, cfg config.CrawlerConfig) *SellerResolver {
	return &SellerResolver{
		browser: b,
		cfg:     cfg,
		logger:  slog.Default().With("component", "seller"),
	}
}

// Resolve expects the page to already be on the seller landing and
// pulls the shop name and header stats from it.
func (r *SellerResolver) Resolve(page playwright.Page) (*SellerInfo, error) {
	html, bodyText, err := r.browser.Snapshot(page)
	if err != nil {
		return nil, fmt.Errorf("failed to read seller landing: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse seller landing: %w", err)
	}

	info := &SellerInfo{
		Stats: parser.ParseSellerStats(bodyText),
	}

	if name := parser.CollapseSpaces(doc.Find("h1").First().Text()); name != "" {
		info.Name = name
	} else if name := parser.SellerNameFromText(bodyText); name != "" {
		info.Name = name
	}

	return info, nil
}
