package resume

import "strings"

// SplitSkills normalizes a free-text skill set into an ordered list of
// trimmed, non-empty tokens. Both the comma and the Arabic semicolon act as
// separators. Normalizing an already-normalized list yields the same list.
func SplitSkills(raw string) []string {
	parts := strings.Split(strings.ReplaceAll(raw, "؛", ","), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// SplitBullets turns a multi-line message into achievement lines, stripping
// leading bullet glyphs and surrounding whitespace and dropping empty lines.
func SplitBullets(raw string) []string {
	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "•-*"))
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
