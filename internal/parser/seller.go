package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// SellerStats are the aggregate figures shown in a seller page header.
// All fields are normalized strings; empty means not found.
type SellerStats struct {
	Rating   string
	Feedback string
	Orders   string
}

// Digit runs match spaces only, never newlines: the body-text dump is
// one header figure per line and runs must not bleed across lines.
var (
	sellerRatingSlashRe = regexp.MustCompile(`(\d+[.,]\d+) */ *5`)
	sellerRatingOutOfRe = regexp.MustCompile(`(\d+[.,]\d+) *из *5`)
	sellerFeedbackRe    = regexp.MustCompile(`(\d[\d ]*) *отзыв`)
	sellerOrdersRe      = regexp.MustCompile(`(\d[\d ]*(?:[.,]\d+)?) *([КK])? *заказ`)
)

// ParseSellerStats scans a seller page's visible text for the header
// figures: rating ("4,8 / 5" or "4,8 из 5"), review count and order
// count. Order counts abbreviated with К are expanded to thousands.
func ParseSellerStats(bodyText string) SellerStats {
	var stats SellerStats
	bodyText = strings.ReplaceAll(bodyText, " ", " ")

	if m := sellerRatingSlashRe.FindStringSubmatch(bodyText); m != nil {
		stats.Rating = strings.ReplaceAll(m[1], ",", ".")
	} else if m := sellerRatingOutOfRe.FindStringSubmatch(bodyText); m != nil {
		stats.Rating = strings.ReplaceAll(m[1], ",", ".")
	}

	if m := sellerFeedbackRe.FindStringSubmatch(bodyText); m != nil {
		stats.Feedback = DigitsOnly(m[1])
	}

	if m := sellerOrdersRe.FindStringSubmatch(bodyText); m != nil {
		stats.Orders = expandOrderCount(m[1], m[2] != "")
	}

	return stats
}

// expandOrderCount turns "19,1" plus the К marker into "19100";
// unabbreviated counts just lose their digit-group spaces.
func expandOrderCount(raw string, thousands bool) string {
	raw = strings.ReplaceAll(raw, " ", "")
	raw = strings.ReplaceAll(raw, " ", "")
	if !thousands {
		return DigitsOnly(raw)
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return DigitsOnly(raw)
	}
	return strconv.Itoa(int(f * 1000))
}

var (
	sellerLabelRe       = regexp.MustCompile(`(?i)магазин`)
	sellerBoilerplateRe = regexp.MustCompile(`(?i)(перейти|подписаться|подтвержд[ёе]нн|бренд)`)
	anyDigitRe          = regexp.MustCompile(`\d`)
)

// SellerNameFromText finds the shop name in visible page text: the
// line after one mentioning "Магазин", skipping lines with digits and
// button boilerplate. At most a handful of following lines are
// considered per label.
func SellerNameFromText(bodyText string) string {
	lines := strings.Split(bodyText, "\n")
	for i, line := range lines {
		if !sellerLabelRe.MatchString(line) {
			continue
		}
		limit := i + 8
		if limit > len(lines) {
			limit = len(lines)
		}
		for _, candidate := range lines[i+1 : limit] {
			candidate = CollapseSpaces(candidate)
			if candidate == "" || len([]rune(candidate)) < 2 {
				continue
			}
			if anyDigitRe.MatchString(candidate) {
				continue
			}
			if sellerBoilerplateRe.MatchString(candidate) {
				continue
			}
			return candidate
		}
	}
	return ""
}
