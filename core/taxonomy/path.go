package taxonomy

import "strings"

// Separator joins the segments of a category path.
const Separator = " > "

// SplitPath splits a path into trimmed, non-empty segments.
// Loosely formatted input such as "A>B" or "A >  B" is accepted.
func SplitPath(path string) []string {
	raw := strings.Split(path, ">")
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// JoinPath joins segments with the path separator.
func JoinPath(segments ...string) string {
	return strings.Join(segments, Separator)
}

// NormalizePath rewrites a loosely formatted path into canonical form.
func NormalizePath(path string) string {
	return JoinPath(SplitPath(path)...)
}

// LeafName returns the last segment of a path, or "" for an empty path.
func LeafName(path string) string {
	parts := SplitPath(path)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// ParentPath returns the path without its last segment.
func ParentPath(path string) string {
	parts := SplitPath(path)
	if len(parts) <= 1 {
		return ""
	}
	return JoinPath(parts[:len(parts)-1]...)
}

// Level returns the number of segments in a path.
func Level(path string) int {
	return len(SplitPath(path))
}

// IsWithin reports whether path equals root or lies below it.
func IsWithin(path, root string) bool {
	return path == root || strings.HasPrefix(path, root+Separator)
}
