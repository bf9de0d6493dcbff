package compliance

import "strings"

var severities = map[string]struct{}{
	"low":    {},
	"medium": {},
	"high":   {},
}

var statuses = map[string]struct{}{
	"open":        {},
	"in_progress": {},
	"done":        {},
}

func ValidSeverity(s string) bool {
	_, ok := severities[s]
	return ok
}

func ValidStatus(s string) bool {
	_, ok := statuses[s]
	return ok
}

// ParseFrameworks splits a comma-separated framework list, normalized
// to lowercase and deduped.
func ParseFrameworks(raw string) []string {
	parts := strings.Split(raw, ",")

	seen := map[string]struct{}{}
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		f := strings.ToLower(strings.TrimSpace(p))
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)

		if len(out) >= 20 { // cap
			break
		}
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
