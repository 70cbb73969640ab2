package routing

import "strings"

// Classify maps a URL path onto its rule. Pure: no I/O, no state.
// Parameter segments (":id") match any non-empty literal segment and
// never affect the result; only the route shape does. Unregistered
// paths get the public not-found catch-all.
func Classify(path string) Rule {
	segs := splitPath(path)
	for _, rule := range ruleTable {
		if matchPattern(rule.Pattern, segs) {
			return rule
		}
	}
	return notFoundRule
}

func splitPath(path string) []string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func matchPattern(pattern string, segs []string) bool {
	psegs := splitPath(pattern)
	if len(psegs) != len(segs) {
		return false
	}
	for i, pseg := range psegs {
		if strings.HasPrefix(pseg, ":") {
			if segs[i] == "" {
				return false
			}
			continue // any non-empty segment
		}
		if pseg != segs[i] {
			return false
		}
	}
	return true
}
