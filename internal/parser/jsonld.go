package parser

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StructuredProduct holds the fields recoverable from an ld+json
// Product block. Empty fields mean the block did not carry them.
type StructuredProduct struct {
	Name        string
	Brand       string
	Description string
	Seller      string
	Rating      string
	ReviewCount string
	Images      []string
}

// ExtractStructuredProduct scans the document's ld+json scripts for the
// first Product block and pulls the standard product fields out of it.
// Malformed blocks are skipped, never fatal.
func ExtractStructuredProduct(doc *goquery.Document) *StructuredProduct {
	var found *StructuredProduct
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if obj := decodeProductObject(s.Text()); obj != nil {
			found = decodeProduct(obj)
			return false
		}
		return true
	})
	return found
}

// decodeProductObject unmarshals an ld+json script body and returns its
// Product object, or nil when the block is malformed or carries none.
func decodeProductObject(text string) map[string]any {
	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil
	}
	return findProductObject(raw)
}

// findProductObject walks a decoded ld+json value looking for an object
// whose @type is Product, descending into arrays and @graph containers.
func findProductObject(node any) map[string]any {
	switch v := node.(type) {
	case []any:
		for _, item := range v {
			if obj := findProductObject(item); obj != nil {
				return obj
			}
		}
	case map[string]any:
		if typeMatches(v["@type"], "Product") {
			return v
		}
		if graph, ok := v["@graph"]; ok {
			return findProductObject(graph)
		}
	}
	return nil
}

func typeMatches(t any, want string) bool {
	switch v := t.(type) {
	case string:
		return strings.EqualFold(v, want)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.EqualFold(s, want) {
				return true
			}
		}
	}
	return false
}

func decodeProduct(obj map[string]any) *StructuredProduct {
	p := &StructuredProduct{
		Name:        stringField(obj, "name"),
		Description: stringField(obj, "description"),
		Brand:       nameOrString(obj["brand"]),
	}

	if rating, ok := obj["aggregateRating"].(map[string]any); ok {
		p.Rating = NormalizeRating(anyToString(rating["ratingValue"]))
		p.ReviewCount = DigitsOnly(anyToString(rating["reviewCount"]))
	}

	if offers, ok := obj["offers"].(map[string]any); ok {
		p.Seller = nameOrString(offers["seller"])
	}
	if p.Seller == "" {
		p.Seller = nameOrString(obj["seller"])
	}

	switch img := obj["image"].(type) {
	case string:
		p.Images = []string{img}
	case []any:
		for _, item := range img {
			if s, ok := item.(string); ok {
				p.Images = append(p.Images, s)
			}
		}
	}

	return p
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return CollapseSpaces(s)
}

// nameOrString handles values that appear either as a plain string or
// as a nested object with a name field, as brand and seller do.
func nameOrString(v any) string {
	switch val := v.(type) {
	case string:
		return CollapseSpaces(val)
	case map[string]any:
		return stringField(val, "name")
	}
	return ""
}

func anyToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	}
	return ""
}
