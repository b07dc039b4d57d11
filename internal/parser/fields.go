package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// strategy attempts one way of extracting a field from the document.
// It returns "" when its source is absent or yields nothing usable.
type strategy func(doc *goquery.Document) string

// firstMatch runs strategies in order and returns the first non-empty
// result. Later strategies never override an earlier hit.
func firstMatch(doc *goquery.Document, strategies ...strategy) string {
	for _, s := range strategies {
		if v := s(doc); v != "" {
			return v
		}
	}
	return ""
}

// selectorText builds a strategy that returns the collapsed text of the
// first element matching any of the selectors, tried in order.
func selectorText(selectors ...string) strategy {
	return func(doc *goquery.Document) string {
		for _, sel := range selectors {
			if text := CollapseSpaces(doc.Find(sel).First().Text()); text != "" {
				return text
			}
		}
		return ""
	}
}

// attrValue builds a strategy that returns the named attribute of the
// first element matching any of the selectors.
func attrValue(attr string, selectors ...string) strategy {
	return func(doc *goquery.Document) string {
		for _, sel := range selectors {
			if v, ok := doc.Find(sel).First().Attr(attr); ok {
				if v = CollapseSpaces(v); v != "" {
					return v
				}
			}
		}
		return ""
	}
}

var (
	ratingAnchorRe    = regexp.MustCompile(`(\d+[.,]\d+)`)
	feedbacksAnchorRe = regexp.MustCompile(`(\d[\d\s]*)\s+отзыв`)
)

func extractName(doc *goquery.Document) string {
	return firstMatch(doc,
		selectorText("div[data-widget='webProductHeading'] h1", "h1"),
	)
}

func extractBrand(doc *goquery.Document) string {
	return firstMatch(doc,
		selectorText(
			"[itemprop='brand'] [itemprop='name']",
			"a[href*='/brands/']",
			"a[href*='/brand/']",
			"div[data-widget='webBrand'] a",
		),
		attrValue("content", "meta[itemprop='brand']"),
	)
}

func extractPrice(doc *goquery.Document) string {
	return firstMatch(doc,
		digitsFromSelectors(
			"div[data-widget='webPrice'] span",
			"div[style*='price'] span",
			"span[slot='price']",
		),
	)
}

func extractOldPrice(doc *goquery.Document) string {
	return firstMatch(doc,
		digitsFromSelectors(
			"div[data-widget='webPrice'] span[style*='line-through']",
			"span[class*='old-price']",
			"del",
			"s",
		),
	)
}

// digitsFromSelectors is like selectorText but normalizes the hit to
// digits and rejects elements whose text carries none.
func digitsFromSelectors(selectors ...string) strategy {
	return func(doc *goquery.Document) string {
		for _, sel := range selectors {
			var found string
			doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
				if digits := DigitsOnly(s.Text()); digits != "" {
					found = digits
					return false
				}
				return true
			})
			if found != "" {
				return found
			}
		}
		return ""
	}
}

func extractRating(doc *goquery.Document) string {
	return firstMatch(doc,
		func(doc *goquery.Document) string {
			text := doc.Find("a[href*='#section-reviews']").First().Text()
			if m := ratingAnchorRe.FindStringSubmatch(text); m != nil {
				return strings.ReplaceAll(m[1], ",", ".")
			}
			return ""
		},
		func(doc *goquery.Document) string {
			return NormalizeRating(firstMatch(doc,
				attrValue("content", "meta[itemprop='ratingValue']"),
				selectorText("[itemprop='ratingValue']"),
			))
		},
	)
}

func extractFeedbacks(doc *goquery.Document) string {
	return firstMatch(doc,
		func(doc *goquery.Document) string {
			text := doc.Find("a[href*='#section-reviews']").First().Text()
			if m := feedbacksAnchorRe.FindStringSubmatch(text); m != nil {
				return DigitsOnly(m[1])
			}
			return ""
		},
		func(doc *goquery.Document) string {
			return CountFromText(firstMatch(doc,
				attrValue("content", "meta[itemprop='reviewCount']"),
				selectorText("[itemprop='reviewCount']"),
			))
		},
	)
}

func extractDescription(doc *goquery.Document) string {
	return firstMatch(doc,
		selectorText(
			"[itemprop='description']",
			"div[data-widget='webDescription']",
		),
		attrValue("content", "meta[name='description']"),
	)
}

func extractSellerLink(doc *goquery.Document) string {
	return firstMatch(doc,
		selectorText(
			"div[data-widget='webCurrentSeller'] a[href*='/seller/']",
			"a[href*='/seller/']",
		),
	)
}

// extractGalleryImages walks the gallery collecting each image's best
// available source: src, then the first srcset entry, then data-src.
func extractGalleryImages(doc *goquery.Document) []string {
	var urls []string
	doc.Find("div[data-widget='webGallery'] img").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && strings.TrimSpace(src) != "" {
			urls = append(urls, src)
			return
		}
		if srcset, ok := s.Attr("srcset"); ok {
			if u := FirstSrcsetURL(srcset); u != "" {
				urls = append(urls, u)
				return
			}
		}
		if dataSrc, ok := s.Attr("data-src"); ok && strings.TrimSpace(dataSrc) != "" {
			urls = append(urls, dataSrc)
		}
	})
	return urls
}
