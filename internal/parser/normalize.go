package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	nonDigitRe     = regexp.MustCompile(`[^\d]`)
	decimalTokenRe = regexp.MustCompile(`(\d+[.,]\d+)`)
	intTokenRe     = regexp.MustCompile(`(\d[\d\s]*)`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// DigitsOnly strips everything but digits from a price-like string:
// "12 990 ₽" becomes "12990". Returns "" when no digits remain.
func DigitsOnly(s string) string {
	return nonDigitRe.ReplaceAllString(s, "")
}

// NormalizeRating extracts the first decimal token from a rating string
// and rewrites the comma separator to a dot: "4,7 из 5" becomes "4.7".
// A bare integer like "5" is returned as-is.
func NormalizeRating(s string) string {
	if m := decimalTokenRe.FindStringSubmatch(s); m != nil {
		return strings.ReplaceAll(m[1], ",", ".")
	}
	if m := intTokenRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// CountFromText extracts the first integer run from a string like
// "1 259 отзывов", collapsing its internal spaces: "1259".
func CountFromText(s string) string {
	if m := intTokenRe.FindStringSubmatch(s); m != nil {
		return DigitsOnly(m[1])
	}
	return ""
}

// DiscountPercent computes the rounded percent discount between the old
// and current price. Returns 0 unless both parse and old > current > 0.
func DiscountPercent(price, oldPrice string) int {
	p, err := strconv.ParseFloat(price, 64)
	if err != nil || p <= 0 {
		return 0
	}
	o, err := strconv.ParseFloat(oldPrice, 64)
	if err != nil || o <= p {
		return 0
	}
	return int(math.Round((o - p) / o * 100))
}

// CollapseSpaces trims a string and folds internal whitespace runs
// (including non-breaking spaces) into single spaces.
func CollapseSpaces(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
