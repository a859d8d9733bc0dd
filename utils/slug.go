package utils

import (
	"regexp"
	"strings"
)

var (
	slugSpaces   = regexp.MustCompile(`\s+`)
	nonSlugChars = regexp.MustCompile(`[^\w-]+`)
)

// Slugify derives a URL slug from a display name: lowercased, whitespace
// runs to dashes, everything else stripped.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugSpaces.ReplaceAllString(slug, "-")
	return nonSlugChars.ReplaceAllString(slug, "")
}
