package parser

import (
	"strings"
)

const maxImages = 20

// UpgradeImageURL rewrites thumbnail CDN paths to their full-resolution
// variant and strips any query string.
func UpgradeImageURL(url string) string {
	if i := strings.IndexAny(url, "?"); i >= 0 {
		url = url[:i]
	}
	url = strings.ReplaceAll(url, "/wc50/", "/wc1000/")
	url = strings.ReplaceAll(url, "/wc75/", "/wc1000/")
	return url
}

// NormalizeImages upgrades, absolutizes, deduplicates and caps a raw
// image URL list, preserving the original order. URLs that cannot be
// made absolute are dropped.
func NormalizeImages(urls []string, baseURL string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" || strings.HasPrefix(u, "data:") {
			continue
		}
		if strings.HasPrefix(u, "//") {
			u = "https:" + u
		} else if strings.HasPrefix(u, "/") {
			u = strings.TrimRight(baseURL, "/") + u
		}
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			continue
		}
		u = UpgradeImageURL(u)
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
		if len(out) >= maxImages {
			break
		}
	}
	return out
}

// FirstSrcsetURL returns the first URL of a srcset attribute value.
func FirstSrcsetURL(srcset string) string {
	srcset = strings.TrimSpace(srcset)
	if srcset == "" {
		return ""
	}
	fields := strings.Fields(strings.Split(srcset, ",")[0])
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
