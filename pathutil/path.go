package pathutil

import "strings"

// WindowsDriveLetters controls whether NormalizePath lowercases and
// preserves a leading "X:\" drive letter. Off by
// default for POSIX-only deployments.
var WindowsDriveLetters = false

// IsAbsolute reports whether path starts with a separator (after an
// optional Windows drive letter when WindowsDriveLetters is enabled).
func IsAbsolute(path string) bool {
	if path == "" {
		return false
	}
	if WindowsDriveLetters && len(path) >= 2 && isAlpha(path[0]) && path[1] == ':' {
		path = path[2:]
		if path == "" {
			return false
		}
	}
	return isSlash(path[0])
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSlash(c byte) bool {
	return c == '/' || (WindowsDriveLetters && c == '\\')
}

// NormalizeURL collapses repeated "/", drops "." segments, and resolves
// ".." by popping the preceding segment (silently dropped at root). The
// slash is always the URL separator "/" even when WindowsDriveLetters is
// set, matching nsd/pathname.c's IsSlashInPath distinction between URL
// and filesystem normalization.
func NormalizeURL(path string) string {
	return normalize(path, true)
}

// NormalizePath is NormalizeURL's filesystem-path counterpart: it also
// accepts "\" as a separator when WindowsDriveLetters is enabled, and
// preserves a lowercased leading drive letter.
func NormalizePath(path string) string {
	return normalize(path, false)
}

func normalize(path string, urlMode bool) string {
	var drive string
	if !urlMode && WindowsDriveLetters && len(path) >= 2 && isAlpha(path[0]) && path[1] == ':' {
		drive = strings.ToLower(path[:1]) + ":"
		path = path[2:]
	}

	trailingSlash := len(path) > 0 && isSlashCh(path[len(path)-1], urlMode)

	segments := splitSegments(path, urlMode)
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
			// else: silently dropped at root
		default:
			out = append(out, seg)
		}
	}

	result := "/" + strings.Join(out, "/")
	if result == "/" {
		if drive != "" {
			return drive + "/"
		}
		return "/"
	}
	if trailingSlash && len(out) > 0 {
		result += "/"
	}
	return drive + result
}

func isSlashCh(c byte, urlMode bool) bool {
	if urlMode {
		return c == '/'
	}
	return isSlash(c)
}

func splitSegments(path string, urlMode bool) []string {
	var segs []string
	start := 0
	for i := 0; i < len(path); i++ {
		if isSlashCh(path[i], urlMode) {
			if i > start {
				segs = append(segs, path[start:i])
			}
			start = i + 1
		}
	}
	if start < len(path) {
		segs = append(segs, path[start:])
	}
	return segs
}

// MakePath joins segments with "/", collapsing duplicate separators
// inside each segment, matching nsd/pathname.c's MakePath/Ns_MakePath.
func MakePath(segments ...string) string {
	var b strings.Builder
	for i, seg := range segments {
		seg = strings.Trim(seg, "/")
		if seg == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('/')
		}
		b.WriteString(collapseSlashes(seg))
		_ = i
	}
	return b.String()
}

func collapseSlashes(seg string) string {
	var b strings.Builder
	prevSlash := false
	for i := 0; i < len(seg); i++ {
		if seg[i] == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteByte(seg[i])
	}
	return b.String()
}

// HashPath returns "/<c0>/<c1>/.../<cN-1>" built from the first
// non-dot/non-slash characters of path, padding with "_" when path is
// shorter than levels, matching nsd/pathname.c's Ns_HashPath.
func HashPath(path string, levels int) string {
	if levels <= 0 {
		return ""
	}

	// Skip leading dots and slashes, as the original does when hashing
	// a dotfile or an absolute path.
	i := 0
	for i < len(path) && (path[i] == '.' || path[i] == '/') {
		i++
	}
	rest := path[i:]

	var b strings.Builder
	for lvl := 0; lvl < levels; lvl++ {
		b.WriteByte('/')
		if lvl < len(rest) {
			b.WriteByte(rest[lvl])
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
