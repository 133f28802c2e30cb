package report

import "strings"

// NormalizeRepoURL reduces a repository URL to the canonical key used for
// joining CSV rows to C4 elements: lowercase host+path with no scheme,
// no "www." prefix, no trailing slash and no ".git" suffix. Blank input
// normalizes to "", the sentinel that never matches anything.
//
// The function is pure and idempotent; malformed input is kept best-effort
// rather than rejected, so the worst case is a key that matches nothing.
func NormalizeRepoURL(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return ""
	}
	key = strings.TrimPrefix(key, "http://")
	key = strings.TrimPrefix(key, "https://")
	key = strings.TrimPrefix(key, "www.")
	for {
		switch {
		case strings.HasSuffix(key, "/"):
			key = strings.TrimSuffix(key, "/")
		case strings.HasSuffix(key, ".git"):
			key = strings.TrimSuffix(key, ".git")
		default:
			return key
		}
	}
}
