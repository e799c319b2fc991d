package util

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// TitleCase capitalizes a role label for display ("best friend" -> "Best Friend").
func TitleCase(s string) string {
	return titleCaser.String(strings.TrimSpace(s))
}

// Slug lowers a label and replaces runs of non-alphanumeric characters with
// a single dash, for use in deterministic group ids.
func Slug(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}
	return b.String()
}
