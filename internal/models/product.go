package models

import (
	"time"
)

// NamePlaceholder is used when no name could be extracted from a detail page.
const NamePlaceholder = "Без названия"

// Product is a single extracted catalog record. Numeric-looking fields
// (Price, Rating, Feedbacks and the seller stats) are kept as normalized
// strings: prices are digit-only, ratings use a dot decimal separator.
// An empty string means the field could not be extracted.
type Product struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Name        string `json:"name"`
	Brand       string `json:"brand,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`

	Price           string `json:"price,omitempty"`
	OldPrice        string `json:"old_price,omitempty"`
	DiscountPercent int    `json:"discount_percent,omitempty"`

	Rating    string `json:"rating,omitempty"`
	Feedbacks string `json:"feedbacks,omitempty"`

	Images []string `json:"images,omitempty"`

	Seller         string `json:"seller,omitempty"`
	SellerRating   string `json:"seller_rating,omitempty"`
	SellerFeedback string `json:"seller_feedback,omitempty"`
	SellerOrders   string `json:"seller_orders,omitempty"`

	ScrapedAt time.Time `json:"scraped_at"`
}

func NewProduct(url string) *Product {
	return &Product{
		URL:       url,
		Name:      NamePlaceholder,
		Images:    make([]string, 0),
		ScrapedAt: time.Now(),
	}
}

// Summary holds run-level statistics emitted alongside an export.
type Summary struct {
	RunID      string `json:"run_id"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`

	Total         int `json:"total"`
	WithPrice     int `json:"with_price"`
	WithRating    int `json:"with_rating"`
	WithFeedbacks int `json:"with_feedbacks"`

	SellerRating   string `json:"seller_rating,omitempty"`
	SellerFeedback string `json:"seller_feedback,omitempty"`
	SellerOrders   string `json:"seller_orders,omitempty"`

	// Message carries the diagnostic for empty results (e.g. no links found).
	Message string `json:"message,omitempty"`
}

// CrawlResult is the ordered record collection of one crawl run. Records
// appear in the same order the link discovery collected them.
type CrawlResult struct {
	RunID    string     `json:"run_id"`
	Products []*Product `json:"products"`
	Summary  Summary    `json:"summary"`
}

// BuildSummary computes populated-field counts over a record set.
func BuildSummary(products []*Product) Summary {
	s := Summary{Total: len(products)}
	for _, p := range products {
		if p.Price != "" {
			s.WithPrice++
		}
		if p.Rating != "" {
			s.WithRating++
		}
		if p.Feedbacks != "" {
			s.WithFeedbacks++
		}
	}
	return s
}
