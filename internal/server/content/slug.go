package content

import "strings"

const maxSlugLen = 80

// Slugify turns a post title into a URL path segment: lowercase ASCII
// letters and digits, everything else collapsed to single hyphens, trimmed
// and capped. Callers must handle the empty result (e.g. an all-symbol
// title) themselves.
func Slugify(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(s) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pending = b.Len() > 0
			continue
		}
		if pending {
			b.WriteByte('-')
			pending = false
		}
		b.WriteRune(r)
	}
	out := b.String()
	if len(out) > maxSlugLen {
		out = strings.TrimRight(out[:maxSlugLen], "-")
	}
	return out
}
