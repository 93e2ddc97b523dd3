package authz

import (
	"path"
	"strings"
)

// MatchPath reports whether urlPath matches a slash-separated glob pattern.
//
//   - "*" (or any path.Match pattern) matches exactly one segment
//   - "**" matches any number of remaining segments, including none
//   - anything else matches the segment literally
//
// Empty segments are ignored, so "/a//b/" is the same path as "/a/b".
func MatchPath(pattern, urlPath string) bool {
	return matchSegments(segments(pattern), segments(urlPath))
}

// MatchAny returns true if any of the patterns match urlPath.
func MatchAny(patterns []string, urlPath string) bool {
	for _, p := range patterns {
		if MatchPath(p, urlPath) {
			return true
		}
	}
	return false
}

func matchSegments(pat, segs []string) bool {
	for len(pat) > 0 {
		if pat[0] == "**" {
			rest := pat[1:]
			if len(rest) == 0 {
				return true
			}
			for i := 0; i <= len(segs); i++ {
				if matchSegments(rest, segs[i:]) {
					return true
				}
			}
			return false
		}
		if len(segs) == 0 || !matchSegment(pat[0], segs[0]) {
			return false
		}
		pat, segs = pat[1:], segs[1:]
	}
	return len(segs) == 0
}

func matchSegment(pattern, value string) bool {
	if pattern == "*" || pattern == value {
		return true
	}
	if !strings.ContainsAny(pattern, "*?[") {
		return false
	}
	ok, err := path.Match(pattern, value)
	return err == nil && ok
}

func segments(p string) []string {
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
