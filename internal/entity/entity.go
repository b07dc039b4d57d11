package entity

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Type classifies what kind of storefront target a crawl input refers to.
type Type string

const (
	TypeSearch  Type = "search"
	TypeProduct Type = "product"
	TypeSeller  Type = "seller"
	TypeBrand   Type = "brand"
)

// ErrUnresolved is returned for URLs that match none of the known
// storefront patterns.
var ErrUnresolved = errors.New("could not resolve entity from URL")

// Descriptor identifies a resolved crawl target.
type Descriptor struct {
	Type        Type
	ID          string
	DisplayName string
	URL         string
}

var (
	sellerPathRe  = regexp.MustCompile(`/seller/(\d+)`)
	sellerQueryRe = regexp.MustCompile(`[?&]seller=(\d+)`)
	brandsPathRe  = regexp.MustCompile(`/brands/([^/?]+)`)
	brandPathRe   = regexp.MustCompile(`/brand/([^/?]+)`)
	productPathRe = regexp.MustCompile(`/product/`)
	detailPathRe  = regexp.MustCompile(`/catalog/(\d+)/detail`)
	productIDRe   = regexp.MustCompile(`/product/[^/]*?(\d+)(?:/|\?|$)`)
)

// Resolve classifies the raw crawl input. Anything that does not look
// like a URL is treated as a free-text search query. URL patterns are
// tried in a fixed order so that seller links with embedded product
// paths still resolve as sellers.
func Resolve(input string) (*Descriptor, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty crawl input")
	}

	if !strings.HasPrefix(input, "http://") && !strings.HasPrefix(input, "https://") {
		return &Descriptor{
			Type:        TypeSearch,
			ID:          input,
			DisplayName: input,
			URL:         "",
		}, nil
	}

	if m := sellerPathRe.FindStringSubmatch(input); m != nil {
		return sellerDescriptor(m[1], input), nil
	}
	if m := sellerQueryRe.FindStringSubmatch(input); m != nil {
		return sellerDescriptor(m[1], input), nil
	}
	if m := brandsPathRe.FindStringSubmatch(input); m != nil {
		return brandDescriptor(m[1], input), nil
	}
	if m := brandPathRe.FindStringSubmatch(input); m != nil {
		return brandDescriptor(m[1], input), nil
	}
	if productPathRe.MatchString(input) || detailPathRe.MatchString(input) {
		return &Descriptor{
			Type:        TypeProduct,
			ID:          ProductID(input),
			DisplayName: "product",
			URL:         input,
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnresolved, input)
}

// ProductID pulls the trailing numeric article out of a product URL.
// Returns "" when the URL carries no recognizable article.
func ProductID(url string) string {
	if m := productIDRe.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	if m := detailPathRe.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}

func sellerDescriptor(id, url string) *Descriptor {
	return &Descriptor{
		Type:        TypeSeller,
		ID:          id,
		DisplayName: "Продавец " + id,
		URL:         url,
	}
}

func brandDescriptor(slug, url string) *Descriptor {
	return &Descriptor{
		Type:        TypeBrand,
		ID:          slug,
		DisplayName: HumanizeSlug(slug),
		URL:         url,
	}
}

// HumanizeSlug turns a hyphenated URL slug into a title-cased display name.
func HumanizeSlug(slug string) string {
	words := strings.Split(strings.ReplaceAll(slug, "-", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
