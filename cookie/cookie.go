package cookie

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// SameSite mirrors the cookie SameSite attribute.
type SameSite int

const (
	SameSiteDefault SameSite = iota
	SameSiteStrict
	SameSiteLax
	SameSiteNone
)

func (s SameSite) String() string {
	switch s {
	case SameSiteStrict:
		return "Strict"
	case SameSiteLax:
		return "Lax"
	case SameSiteNone:
		return "None"
	default:
		return ""
	}
}

const (
	expireNowDate  = "Fri, 01-Jan-1980 01:00:00 GMT"
	expireFarDate  = "Fri, 01-Jan-2035 01:00:00 GMT"
	setCookieField = "Set-Cookie"
	cookieField    = "Cookie"
)

// Options controls how SetCookie renders a Set-Cookie header value.
// The zero value produces a session cookie (no Expires/Max-Age) with
// no Domain or Path restriction, HttpOnly set, and no SameSite
// attribute.
type Options struct {
	// MaxAge, in seconds, is emitted as Max-Age when positive. It is
	// ignored when ExpireNow or Infinite is set.
	MaxAge int64
	// ExpireNow forces an Expires date in the past, used to delete a
	// cookie from the client.
	ExpireNow bool
	// Infinite forces a far-future Expires date instead of Max-Age.
	Infinite bool

	Domain string
	Path   string

	Secure     bool
	Discard    bool
	Scriptable bool // if true, HttpOnly is omitted
	SameSite   SameSite

	// Replace removes any existing Set-Cookie header already present
	// for name before appending the new one.
	Replace bool
}

// SetCookie appends a Set-Cookie header to headers for name/value
// under opts, matching Ns_ConnSetCookieEx's fixed attribute order:
// Expires/Max-Age, Domain, Path, Secure, Discard, HttpOnly (unless
// Scriptable), SameSite.
func SetCookie(headers http.Header, name, value string, opts Options) {
	if opts.Replace {
		DeleteNamed(headers, setCookieField, name)
	}

	var b strings.Builder
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(url.QueryEscape(value))
	b.WriteString(`"`)

	switch {
	case opts.ExpireNow:
		b.WriteString("; Expires=")
		b.WriteString(expireNowDate)
	case opts.Infinite:
		b.WriteString("; Expires=")
		b.WriteString(expireFarDate)
	case opts.MaxAge > 0:
		fmt.Fprintf(&b, "; Max-Age=%d", opts.MaxAge)
	}

	// An empty domain is dropped: some clients reject a "Domain=" with
	// no value.
	if opts.Domain != "" {
		b.WriteString("; Domain=")
		b.WriteString(opts.Domain)
	}
	if opts.Path != "" {
		b.WriteString("; Path=")
		b.WriteString(opts.Path)
	}
	if opts.Secure {
		b.WriteString("; Secure")
	}
	if opts.Discard {
		b.WriteString("; Discard")
	}
	if !opts.Scriptable {
		b.WriteString("; HttpOnly")
	}
	sameSite := opts.SameSite
	if sameSite == SameSiteNone && !opts.Secure {
		slog.Warn("cookie: SameSite=None requires Secure, falling back to Lax", "name", name)
		sameSite = SameSiteLax
	}
	if s := sameSite.String(); s != "" {
		b.WriteString("; SameSite=")
		b.WriteString(s)
	}

	headers.Add(setCookieField, b.String())
}

// DeleteCookie appends a Set-Cookie header that expires name
// immediately for the given domain/path, matching Ns_ConnDeleteCookie.
func DeleteCookie(headers http.Header, name, domain, path string, secure bool) {
	SetCookie(headers, name, "", Options{
		Domain:    domain,
		Path:      path,
		Secure:    secure,
		ExpireNow: true,
	})
}

// GetCookie returns the first value of name found in headers' Cookie
// header(s), matching Ns_ConnGetCookie.
func GetCookie(headers http.Header, name string) (string, bool) {
	for _, line := range headers.Values(cookieField) {
		rest := line
		for rest != "" {
			n, v, tail, ok := nextPair(rest)
			if !ok {
				break
			}
			if n == name {
				return decode(v), true
			}
			rest = tail
		}
	}
	return "", false
}

// GetAllCookies returns every value of name found in the first Cookie
// header present in headers, matching Ns_GetAllNamedCookies (which
// only scans the first matching header field).
func GetAllCookies(headers http.Header, name string) []string {
	values := headers.Values(cookieField)
	if len(values) == 0 {
		return nil
	}
	var out []string
	rest := values[0]
	for rest != "" {
		n, v, tail, ok := nextPair(rest)
		if !ok {
			break
		}
		if n == name {
			out = append(out, decode(v))
		}
		rest = tail
	}
	return out
}

// GetSetCookie returns the value of the first Set-Cookie header whose
// leading name=value pair matches name, matching
// GetFromSetCookieHeader (which only examines the leading pair of
// each header value; later semicolons are attributes, not more
// cookies).
func GetSetCookie(headers http.Header, name string) (string, bool) {
	for _, line := range headers.Values(setCookieField) {
		n, v, ok := leadingPair(line)
		if ok && n == name {
			return decode(v), true
		}
	}
	return "", false
}

// DeleteNamed removes every value of headerName whose leading cookie
// name matches name, matching DeleteNamedCookies. It reports whether
// anything was removed.
func DeleteNamed(headers http.Header, headerName, name string) bool {
	values := headers.Values(headerName)
	if len(values) == 0 {
		return false
	}
	kept := make([]string, 0, len(values))
	removed := false
	for _, v := range values {
		if n, _, ok := leadingPair(v); ok && n == name {
			removed = true
			continue
		}
		kept = append(kept, v)
	}
	if !removed {
		return false
	}
	headers.Del(headerName)
	for _, v := range kept {
		headers.Add(headerName, v)
	}
	return true
}

// nextPair scans one semicolon-delimited segment off rest, returning
// its name, raw (still quoted/encoded) value, and the remainder after
// that segment. ok is false once rest has no more "name=value"
// segments to offer.
func nextPair(rest string) (name, value, tail string, ok bool) {
	for {
		seg, after, hasMore := cutSegment(rest)
		trimmed := strings.TrimLeft(seg, " \t")
		idx := strings.IndexByte(trimmed, '=')
		if idx >= 0 {
			name = strings.TrimRight(trimmed[:idx], " \t")
			value = stripQuotes(trimmed[idx+1:])
			tail = after
			ok = true
			return
		}
		if !hasMore {
			return "", "", "", false
		}
		rest = after
	}
}

// leadingPair returns only the first segment of line, matching
// GetFromSetCookieHeader's single name=value check.
func leadingPair(line string) (name, value string, ok bool) {
	seg, _, _ := cutSegment(line)
	seg = strings.TrimSpace(seg)
	idx := strings.IndexByte(seg, '=')
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(seg[:idx]), stripQuotes(strings.TrimSpace(seg[idx+1:])), true
}

func cutSegment(s string) (seg, rest string, hasMore bool) {
	if idx := strings.IndexByte(s, ';'); idx >= 0 {
		return s[:idx], s[idx+1:], true
	}
	return s, "", false
}

func stripQuotes(s string) string {
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return s
}

func decode(v string) string {
	if d, err := url.QueryUnescape(v); err == nil {
		return d
	}
	return v
}
