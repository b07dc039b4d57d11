package scraper

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"

	"github.com/maltedev/marketplace-scraper/internal/browser"
	"github.com/maltedev/marketplace-scraper/internal/config"
	"github.com/maltedev/marketplace-scraper/internal/ratelimit"
)

// listingContainers are tried in order; the first that holds anchors
// scopes the link scan, the document itself is the final fallback.
var listingContainers = []string{
	"div[data-widget='searchResultsV2']",
	"div[data-widget='megaPaginator']",
	"#paginatorContent",
	"div[data-widget='skuGrid']",
}

var productAnchors = []string{
	"a[href*='/product/']",
	"a[href*='/catalog/'][href*='/detail']",
}

// lazyLoadScrolls is the wheel burst used to coax lazy sections into
// rendering; its pauses spread one politeness delay across the burst.
const lazyLoadScrolls = 6

// LinkCollector accumulates product links preserving first-seen order,
// dropping exact duplicates, and stopping at a cap.
type LinkCollector struct {
	seen  map[string]struct{}
	links []string
	max   int
}

// NewLinkCollector creates a collector; max <= 0 means unbounded.
func NewLinkCollector(max int) *LinkCollector {
	return &LinkCollector{
		seen: make(map[string]struct{}),
		max:  max,
	}
}

// Add records a link unless it is a duplicate or the collector is
// full. Returns true when the link was actually added.
func (c *LinkCollector) Add(link string) bool {
	if c.Full() {
		return false
	}
	if _, ok := c.seen[link]; ok {
		return false
	}
	c.seen[link] = struct{}{}
	c.links = append(c.links, link)
	return true
}

// AddAll adds every link in order and returns how many were new.
func (c *LinkCollector) AddAll(links []string) int {
	added := 0
	for _, link := range links {
		if c.Add(link) {
			added++
		}
	}
	return added
}

func (c *LinkCollector) Links() []string { return c.links }

func (c *LinkCollector) Len() int { return len(c.links) }

func (c *LinkCollector) Full() bool { return c.max > 0 && len(c.links) >= c.max }

// stabilityTracker decides when an infinite-scroll listing has stopped
// growing: two consecutive observations with an unchanged item count.
type stabilityTracker struct {
	lastCount int
	streak    int
}

func (s *stabilityTracker) Observe(count int) bool {
	if count == s.lastCount {
		s.streak++
	} else {
		s.streak = 0
		s.lastCount = count
	}
	return s.streak >= 2
}

// ExtractProductLinks pulls product detail links out of a rendered
// listing snapshot: absolutized against the page origin, stripped of
// query and fragment, in document order.
func ExtractProductLinks(doc *goquery.Document, origin string) []string {
	scope := doc.Selection
	for _, container := range listingContainers {
		if sel := doc.Find(container); sel.Length() > 0 && sel.Find("a").Length() > 0 {
			scope = sel
			break
		}
	}

	var links []string
	for _, anchor := range productAnchors {
		scope.Find(anchor).Each(func(_ int, s *goquery.Selection) {
			href, ok := s.Attr("href")
			if !ok {
				return
			}
			if link := normalizeProductLink(href, origin); link != "" {
				links = append(links, link)
			}
		})
		if len(links) > 0 {
			break
		}
	}
	return links
}

func normalizeProductLink(href, origin string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if strings.HasPrefix(href, "/") {
		return strings.TrimRight(origin, "/") + href
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return ""
}

// buildSearchURL composes the storefront search URL for a free-text
// query. fromGlobal pins the query to the global index.
func buildSearchURL(baseURL, query string, fromGlobal bool) string {
	v := url.Values{}
	v.Set("text", query)
	if fromGlobal {
		v.Set("from_global", "true")
	}
	return strings.TrimRight(baseURL, "/") + "/search/?" + v.Encode()
}

// searchURLs returns the primary search URL (pinned to the global
// index) and the plain fallback used after a category redirect.
func searchURLs(baseURL, query string) (primary, fallback string) {
	return buildSearchURL(baseURL, query, true), buildSearchURL(baseURL, query, false)
}

// buildPagedURL sets or replaces the page query parameter of a listing URL.
func buildPagedURL(rawURL string, page int) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

func originOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// Discoverer walks listing pages and harvests product links.
type Discoverer struct {
	browser *browser.Browser
	cfg     config.CrawlerConfig
	logger  *slog.Logger
}

func NewDiscoverer(b *browser.Browser, cfg config.CrawlerConfig) *Discoverer {
	return &Discoverer{
		browser: b,
		cfg:     cfg,
		logger:  slog.Default().With("component", "discovery"),
	}
}

func (d *Discoverer) navigate(page playwright.Page, target string) error {
	return d.browser.NavigateWithRetry(page, target, d.cfg.NavTimeout, d.cfg.IdleTimeout, d.cfg.ItemRetries+1)
}

func (d *Discoverer) collectVisible(page playwright.Page) ([]string, error) {
	html, _, err := d.browser.Snapshot(page)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing HTML: %w", err)
	}
	return ExtractProductLinks(doc, originOf(page.URL())), nil
}

// DiscoverSearch resolves a free-text query through the storefront
// search, pinned to the global index. When the storefront still
// redirects into a category landing, the plain search URL is tried
// once before giving up on search results.
func (d *Discoverer) DiscoverSearch(page playwright.Page, query string) ([]string, error) {
	primary, fallback := searchURLs(d.cfg.BaseURL, query)
	if err := d.navigate(page, primary); err != nil {
		return nil, fmt.Errorf("failed to open search results: %w", err)
	}

	if !strings.Contains(page.URL(), "/search") {
		d.logger.Info("search redirected, retrying without global index", "landed", page.URL())
		if err := d.navigate(page, fallback); err != nil {
			return nil, fmt.Errorf("failed to open plain search results: %w", err)
		}
	}

	return d.scrollAndCollect(page)
}

// DiscoverPaged walks a listing through its page query parameter until
// a page contributes nothing new or the limits are reached.
func (d *Discoverer) DiscoverPaged(page playwright.Page, listingURL string) ([]string, error) {
	collector := NewLinkCollector(d.cfg.MaxItems)

	for pageNum := 1; pageNum <= d.cfg.MaxPages && !collector.Full(); pageNum++ {
		target := listingURL
		if pageNum > 1 {
			target = buildPagedURL(listingURL, pageNum)
		}

		if err := d.navigate(page, target); err != nil {
			if pageNum == 1 {
				return nil, fmt.Errorf("failed to open listing: %w", err)
			}
			d.logger.Warn("listing page failed, stopping pagination", "page", pageNum, "error", err)
			break
		}

		d.browser.WheelScroll(page, lazyLoadScrolls, 800, ratelimit.Jitter(d.cfg.DelayMin, d.cfg.DelayMax)/lazyLoadScrolls)

		links, err := d.collectVisible(page)
		if err != nil {
			return nil, err
		}

		added := collector.AddAll(links)
		d.logger.Info("listing page collected", "page", pageNum, "new", added, "total", collector.Len())
		if added == 0 {
			break
		}
	}

	return collector.Links(), nil
}

// DiscoverScroll harvests an infinite-scroll listing: scroll to the
// bottom, wait for the next batch, and stop once the link count stays
// flat for two rounds or the scroll budget runs out.
func (d *Discoverer) DiscoverScroll(page playwright.Page, listingURL string) ([]string, error) {
	if err := d.navigate(page, listingURL); err != nil {
		return nil, fmt.Errorf("failed to open listing: %w", err)
	}
	return d.scrollAndCollect(page)
}

func (d *Discoverer) scrollAndCollect(page playwright.Page) ([]string, error) {
	collector := NewLinkCollector(d.cfg.MaxItems)
	var tracker stabilityTracker

	for scroll := 0; scroll < d.cfg.MaxScrolls; scroll++ {
		links, err := d.collectVisible(page)
		if err != nil {
			return nil, err
		}
		collector.AddAll(links)

		if collector.Full() || tracker.Observe(collector.Len()) {
			break
		}

		if err := d.browser.ScrollToBottom(page); err != nil {
			d.logger.Warn("scroll failed, stopping discovery", "error", err)
			break
		}
		time.Sleep(ratelimit.Jitter(d.cfg.DelayMin, d.cfg.DelayMax))
	}

	d.logger.Info("scroll discovery finished", "links", collector.Len())
	return collector.Links(), nil
}
