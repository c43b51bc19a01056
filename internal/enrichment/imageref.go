package enrichment

import (
	"regexp"
	"strings"
)

var rasterExtension = regexp.MustCompile(`(?i)\.(jpe?g|png|gif|webp)$`)

// IsDirectImage reports whether ref can be rendered as-is: an embedded image
// data URI, or an http(s) URL whose path ends in a raster image extension.
// Links to web pages are rejected.
func IsDirectImage(ref string) bool {
	if ref == "" {
		return false
	}
	if strings.HasPrefix(ref, "data:image/") {
		return true
	}
	if !strings.HasPrefix(ref, "http") {
		return false
	}
	path, _, _ := strings.Cut(ref, "?")
	path, _, _ = strings.Cut(path, "#")
	return rasterExtension.MatchString(path)
}
