package scraper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"github.com/maltedev/marketplace-scraper/internal/browser"
	"github.com/maltedev/marketplace-scraper/internal/config"
	"github.com/maltedev/marketplace-scraper/internal/entity"
	"github.com/maltedev/marketplace-scraper/internal/models"
	"github.com/maltedev/marketplace-scraper/internal/ratelimit"
)

// Service runs a complete crawl: resolve the target, discover links,
// extract every detail page, assemble the result.
type Service struct {
	browser    *browser.Browser
	discoverer *Discoverer
	detail     *DetailScraper
	categories *CategoryResolver
	sellers    *SellerResolver
	limiter    *ratelimit.BackoffLimiter
	cfg        config.CrawlerConfig
	logger     *slog.Logger
}

func NewService(b *browser.Browser, cfg config.CrawlerConfig) *Service {
	return &Service{
		browser:    b,
		discoverer: NewDiscoverer(b, cfg),
		detail:     NewDetailScraper(b, cfg),
		categories: NewCategoryResolver(b, cfg),
		sellers:    NewSellerResolver(b, cfg),
		limiter:    ratelimit.NewBackoffLimiter(cfg.DelayMin, cfg.DelayMax),
		cfg:        cfg,
		logger:     slog.Default().With("component", "service"),
	}
}

// Run executes a crawl for the raw input (query or URL). A listing
// that yields no links produces an empty result with a diagnostic
// message, not an error; individual item failures are logged and
// skipped.
func (s *Service) Run(ctx context.Context, input string) (*models.CrawlResult, error) {
	target, err := entity.Resolve(input)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve crawl target: %w", err)
	}

	s.logger.Info("crawl started",
		"entity_type", target.Type, "entity_id", target.ID, "entity_name", target.DisplayName)

	page, err := s.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()

	result := &models.CrawlResult{RunID: uuid.New().String()}

	var (
		links      []string
		sellerInfo *SellerInfo
	)

	switch target.Type {
	case entity.TypeSearch:
		links, err = s.discoverer.DiscoverSearch(page, target.ID)
	case entity.TypeProduct:
		links = []string{target.URL}
	case entity.TypeSeller:
		links, sellerInfo, err = s.discoverSeller(page, target.URL)
	case entity.TypeBrand:
		links, err = s.discoverer.DiscoverScroll(page, target.URL)
	default:
		return nil, fmt.Errorf("unsupported entity type: %s", target.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("link discovery failed: %w", err)
	}

	if sellerInfo != nil && sellerInfo.Name != "" {
		target.DisplayName = sellerInfo.Name
	}

	if len(links) == 0 {
		s.logger.Warn("no product links discovered", "entity_id", target.ID)
		result.Summary = s.buildSummary(result, target, sellerInfo)
		result.Summary.Message = ErrNoProducts.Error()
		return result, nil
	}

	s.logger.Info("link discovery finished", "links", len(links))

	for i, link := range links {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("crawl interrupted: %w", err)
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("crawl interrupted: %w", err)
		}

		product, err := s.extractItem(page, link, sellerInfo)
		if err != nil {
			s.limiter.RecordError()
			s.logger.Warn("item failed, continuing", "index", i+1, "url", link, "error", err)
			continue
		}
		s.limiter.RecordSuccess()

		result.Products = append(result.Products, product)
		s.logger.Info("item extracted",
			"index", i+1, "total", len(links), "id", product.ID, "name", product.Name)
	}

	result.Summary = s.buildSummary(result, target, sellerInfo)
	return result, nil
}

func (s *Service) discoverSeller(page playwright.Page, sellerURL string) ([]string, *SellerInfo, error) {
	links, err := s.discoverer.DiscoverPaged(page, sellerURL)
	if err != nil {
		return nil, nil, err
	}

	// The paged walk leaves the page on the last listing; go back to
	// the landing so the header is the seller's own.
	if err := s.browser.Navigate(page, sellerURL, s.cfg.NavTimeout, s.cfg.IdleTimeout); err != nil {
		s.logger.Warn("failed to reload seller landing", "error", err)
		return links, nil, nil
	}
	info, err := s.sellers.Resolve(page)
	if err != nil {
		s.logger.Warn("failed to read seller header", "error", err)
		return links, nil, nil
	}
	return links, info, nil
}

func (s *Service) extractItem(page playwright.Page, link string, sellerInfo *SellerInfo) (*models.Product, error) {
	product, err := s.detail.Extract(page, link)
	if err != nil {
		return nil, err
	}

	if product.Category == "" {
		product.Category = s.categories.Resolve(link, product.Brand)
	}

	if sellerInfo != nil {
		if product.Seller == "" {
			product.Seller = sellerInfo.Name
		}
		product.SellerRating = sellerInfo.Stats.Rating
		product.SellerFeedback = sellerInfo.Stats.Feedback
		product.SellerOrders = sellerInfo.Stats.Orders
	}

	return product, nil
}

func (s *Service) buildSummary(result *models.CrawlResult, target *entity.Descriptor, sellerInfo *SellerInfo) models.Summary {
	summary := models.BuildSummary(result.Products)
	summary.RunID = result.RunID
	summary.EntityType = string(target.Type)
	summary.EntityID = target.ID
	summary.EntityName = target.DisplayName
	if sellerInfo != nil {
		summary.SellerRating = sellerInfo.Stats.Rating
		summary.SellerFeedback = sellerInfo.Stats.Feedback
		summary.SellerOrders = sellerInfo.Stats.Orders
	}
	return summary
}
