package parser

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CategoryUndetermined is the sentinel used when no resolution step
// produced a usable category.
const CategoryUndetermined = "Не определена"

var breadcrumbSelectors = []string{
	"div[data-widget='breadCrumbs'] a",
	"nav[aria-label*='breadcrumb'] a",
	"ol.breadcrumb a",
	".breadcrumbs a",
	"[itemtype*='BreadcrumbList'] [itemprop='name']",
}

// navigationNoise holds crumb texts that are site chrome, not categories.
var navigationNoise = map[string]struct{}{
	"главная":     {},
	"каталог":     {},
	"корзина":     {},
	"избранное":   {},
	"доставка":    {},
	"бренды":      {},
	"акции":       {},
	"скидки":      {},
	"wildberries": {},
	"ozon":        {},
	"wb":          {},
}

var adKeywords = []string{
	"реклама", "акция", "скидка", "распродажа", "новинка", "хит", "купить", "цена",
}

var (
	allCapsRe   = regexp.MustCompile(`^[A-Z]{2,10}$`)
	pureDigitRe = regexp.MustCompile(`^\d+$`)
	longDigitRe = regexp.MustCompile(`\d{4,}`)
	threeDigRe  = regexp.MustCompile(`\d{3,}`)
	letterRe    = regexp.MustCompile(`[a-zA-Zа-яА-ЯёЁ]`)
)

// BreadcrumbItems collects the crumb texts from the first breadcrumb
// container selector that yields anything.
func BreadcrumbItems(doc *goquery.Document) []string {
	for _, sel := range breadcrumbSelectors {
		var items []string
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if text := CollapseSpaces(s.Text()); text != "" {
				items = append(items, text)
			}
		})
		if len(items) > 0 {
			return items
		}
	}
	return nil
}

// FilterBreadcrumbs drops navigation chrome, numeric artifacts and
// brand repetitions from a raw crumb list.
func FilterBreadcrumbs(items []string, brand string) []string {
	brandLower := strings.ToLower(strings.TrimSpace(brand))
	var out []string
	for _, item := range items {
		lower := strings.ToLower(item)
		if _, noise := navigationNoise[lower]; noise {
			continue
		}
		if len([]rune(item)) < 2 || len([]rune(item)) > 50 {
			continue
		}
		if threeDigRe.MatchString(item) {
			continue
		}
		if brandLower != "" && lower == brandLower {
			continue
		}
		out = append(out, item)
	}
	return out
}

// PickCategory selects the most specific crumb: when more than two
// survive filtering, the endpoints (root section and product name) are
// dropped and the remaining crumbs are scanned from the deepest up for
// one of plausible length.
func PickCategory(filtered []string) string {
	if len(filtered) == 0 {
		return ""
	}
	candidates := filtered
	if len(filtered) > 2 {
		candidates = filtered[1 : len(filtered)-1]
	}
	for i := len(candidates) - 1; i >= 0; i-- {
		if n := len([]rune(candidates[i])); n >= 3 && n <= 40 {
			return candidates[i]
		}
	}
	return ""
}

// SplitBreadcrumbs maps a crumb trail to the category pair: the first
// crumb after the home link is the category, the rest join into the
// subcategory path.
func SplitBreadcrumbs(items []string) (category, subcategory string) {
	var crumbs []string
	for _, item := range items {
		if strings.EqualFold(item, "главная") {
			continue
		}
		crumbs = append(crumbs, item)
	}
	if len(crumbs) == 0 {
		return "", ""
	}
	category = crumbs[0]
	if len(crumbs) > 1 {
		subcategory = strings.Join(crumbs[1:], " > ")
	}
	return category, subcategory
}

var structuredCategoryKeys = []string{"category", "productCategory", "genre", "keywords"}

// CategoryFromStructuredData checks the ld+json Product block for any
// of the category-bearing keys.
func CategoryFromStructuredData(doc *goquery.Document) string {
	var found string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		node := decodeProductObject(s.Text())
		if node == nil {
			return true
		}
		for _, key := range structuredCategoryKeys {
			if v := nameOrString(node[key]); v != "" {
				if key == "keywords" {
					v = strings.TrimSpace(strings.Split(v, ",")[0])
				}
				found = v
				return false
			}
		}
		return true
	})
	return found
}

var metaCategorySelectors = []string{
	"meta[name='category']",
	"meta[property='product:category']",
	"meta[itemprop='category']",
}

func CategoryFromMeta(doc *goquery.Document) string {
	return attrValue("content", metaCategorySelectors...)(doc)
}

var dataCategoryAttrs = []string{"data-category", "data-category-name", "data-section-name"}

func CategoryFromDataAttrs(doc *goquery.Document) string {
	for _, attr := range dataCategoryAttrs {
		if v, ok := doc.Find("[" + attr + "]").First().Attr(attr); ok {
			if v = CollapseSpaces(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// CategoryFromURL derives a category from the path segment following
// "catalog", humanizing its slug.
func CategoryFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, seg := range segments {
		if seg != "catalog" || i+1 >= len(segments) {
			continue
		}
		next := segments[i+1]
		if pureDigitRe.MatchString(next) {
			continue
		}
		next = strings.NewReplacer("-", " ", "_", " ").Replace(next)
		next = CollapseSpaces(next)
		if next == "" {
			return ""
		}
		return strings.ToUpper(next[:1]) + next[1:]
	}
	return ""
}

// CleanCategory validates a candidate category: rejects advertising
// text, numeric artifacts and letterless strings, and truncates
// overlong values.
func CleanCategory(s, brand string) string {
	s = CollapseSpaces(s)
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	if brand != "" && lower == strings.ToLower(brand) {
		return ""
	}
	for _, kw := range adKeywords {
		if strings.Contains(lower, kw) {
			return ""
		}
	}
	if allCapsRe.MatchString(s) || pureDigitRe.MatchString(s) ||
		longDigitRe.MatchString(s) || !letterRe.MatchString(s) {
		return ""
	}
	if runes := []rune(s); len(runes) > 50 {
		s = string(runes[:50])
	}
	return s
}

// ResolveCategory runs the resolution ladder: breadcrumbs, structured
// data, meta tags, data attributes, then the URL path. Every candidate
// passes CleanCategory; when nothing survives the sentinel is returned.
func ResolveCategory(doc *goquery.Document, pageURL, brand string) string {
	if crumbs := FilterBreadcrumbs(BreadcrumbItems(doc), brand); len(crumbs) > 0 {
		if c := CleanCategory(PickCategory(crumbs), brand); c != "" {
			return c
		}
	}
	for _, candidate := range []string{
		CategoryFromStructuredData(doc),
		CategoryFromMeta(doc),
		CategoryFromDataAttrs(doc),
		CategoryFromURL(pageURL),
	} {
		if c := CleanCategory(candidate, brand); c != "" {
			return c
		}
	}
	return CategoryUndetermined
}
