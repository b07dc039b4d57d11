// Package parser extracts product records from rendered storefront
// pages. It operates on HTML snapshots and visible-text dumps only, so
// every extraction path is testable against fixtures without a browser.
package parser

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/maltedev/marketplace-scraper/internal/entity"
	"github.com/maltedev/marketplace-scraper/internal/models"
)

// Page is a parsed snapshot of a rendered detail page.
type Page struct {
	doc      *goquery.Document
	bodyText string
	url      string
	origin   string
}

// NewPage parses a rendered page's HTML together with its visible body
// text and the final (post-redirect) URL.
func NewPage(html, bodyText, pageURL string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page HTML: %w", err)
	}
	return &Page{
		doc:      doc,
		bodyText: bodyText,
		url:      pageURL,
		origin:   originOf(pageURL),
	}, nil
}

func originOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// Document exposes the underlying DOM for secondary extraction steps.
func (p *Page) Document() *goquery.Document { return p.doc }

// BodyText returns the page's visible text dump.
func (p *Page) BodyText() string { return p.bodyText }

// URL returns the final page URL the snapshot was taken from.
func (p *Page) URL() string { return p.url }

// Product assembles a record from the snapshot. Structured ld+json data
// wins over DOM selectors per field; a field that no strategy can fill
// stays empty rather than failing the record.
func (p *Page) Product() *models.Product {
	product := models.NewProduct(p.url)
	product.ID = entity.ProductID(p.url)

	structured := ExtractStructuredProduct(p.doc)
	if structured == nil {
		structured = &StructuredProduct{}
	}

	if structured.Name != "" {
		product.Name = structured.Name
	} else if name := extractName(p.doc); name != "" {
		product.Name = name
	}

	product.Brand = firstNonEmpty(structured.Brand, extractBrand(p.doc))
	product.Description = firstNonEmpty(structured.Description, extractDescription(p.doc))

	product.Price = extractPrice(p.doc)
	product.OldPrice = extractOldPrice(p.doc)
	if product.OldPrice == product.Price {
		product.OldPrice = ""
	}
	product.DiscountPercent = DiscountPercent(product.Price, product.OldPrice)

	product.Rating = firstNonEmpty(structured.Rating, extractRating(p.doc))
	product.Feedbacks = firstNonEmpty(structured.ReviewCount, extractFeedbacks(p.doc))

	images := append([]string{}, structured.Images...)
	images = append(images, extractGalleryImages(p.doc)...)
	product.Images = NormalizeImages(images, p.origin)

	product.Seller = firstNonEmpty(
		structured.Seller,
		extractSellerLink(p.doc),
		SellerNameFromText(p.bodyText),
	)

	if crumbs := BreadcrumbItems(p.doc); len(crumbs) > 0 {
		product.Category, product.Subcategory = SplitBreadcrumbs(crumbs)
	}

	return product
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
