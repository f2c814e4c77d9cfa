// Package avatar finds image URLs inside arbitrary JSON exports and
// downloads them to a local directory, one at a time.
package avatar

import (
	"net/url"
	"path"
	"regexp"
	"sort"
	"strings"
)

// DefaultMaxDepth bounds the recursive scan on deep or adversarial input.
// Hitting the bound is not an error; whatever was collected so far is kept.
const DefaultMaxDepth = 20

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".webp": true, ".svg": true,
}

// looseExtPattern matches an image extension followed by a query separator
// or end of string anywhere in a URL, catching CDN URLs that bury the real
// filename in a path segment or parameter.
var looseExtPattern = regexp.MustCompile(`\.(png|jpg|jpeg|gif|bmp|webp|svg)(\?|$)`)

// IsImageURL reports whether s looks like a downloadable image URL. The
// strict rule requires an http(s) scheme and an image extension at the end
// of the URL path. With loose enabled the pattern match above is accepted as
// well; strict is the default because the loose rule also fires on URLs
// whose extension only appears in an unrelated query parameter.
func IsImageURL(s string, loose bool) bool {
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false
	}
	if u, err := url.Parse(lower); err == nil && imageExts[path.Ext(u.Path)] {
		return true
	}
	return loose && looseExtPattern.MatchString(lower)
}

// Scan walks v collecting every string that passes IsImageURL. Objects,
// arrays and bare strings are visited; recursion stops silently past
// maxDepth. The result is deduplicated and sorted so runs are reproducible.
func Scan(v any, maxDepth int, loose bool) []string {
	seen := make(map[string]struct{})
	walk(v, 0, maxDepth, loose, seen)

	urls := make([]string, 0, len(seen))
	for u := range seen {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}

func walk(v any, depth, maxDepth int, loose bool, seen map[string]struct{}) {
	if depth > maxDepth {
		return
	}
	switch val := v.(type) {
	case map[string]any:
		for _, child := range val {
			walk(child, depth+1, maxDepth, loose, seen)
		}
	case []any:
		for _, child := range val {
			walk(child, depth+1, maxDepth, loose, seen)
		}
	case string:
		if IsImageURL(val, loose) {
			seen[val] = struct{}{}
		}
	}
}
