// Package scraper drives the crawl: it discovers product links on
// listing pages and extracts records from detail pages, pacing every
// navigation through the shared rate limiter.
package scraper

import (
	"errors"
)

var (
	// ErrNoProducts signals a listing that rendered but exposed no
	// product links. Callers report it as a diagnostic, not a failure.
	ErrNoProducts = errors.New("no product links found")

	// ErrItemSkipped marks a detail page that failed extraction after
	// retries; the crawl continues with the remaining items.
	ErrItemSkipped = errors.New("item skipped after failed extraction")
)
