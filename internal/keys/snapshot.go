package keys

import (
	"fmt"
	"strings"

	"amenitymap/internal/events"
)

// sanitizeKey lowercases s and replaces anything outside [a-z0-9_-] with a
// hyphen. Runs of hyphens collapse into one.
func sanitizeKey(s string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// Snapshot returns the canonical object key for an archived render event.
func Snapshot(ev events.Rendered) string {
	name := sanitizeKey(ev.Name)
	if name == "" {
		name = "unnamed"
	}
	at := ev.RenderedAt.UTC()
	return fmt.Sprintf("renders/%s/%04d/%02d/%02d/%s-%s.json",
		sanitizeKey(string(ev.Amenity)),
		at.Year(), int(at.Month()), at.Day(),
		name,
		sanitizeKey(ev.ID),
	)
}
