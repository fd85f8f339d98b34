package httprequest

import (
	"net/url"
	"strconv"
	"strings"

	coreerrors "github.com/naviserver-project/naviserver-sub001/errors"
	"github.com/naviserver-project/naviserver-sub001/pathutil"
)

// Type classifies the shape of the request line's target, mirroring
// nsd/request.c's NS_REQUEST_TYPE_* enumeration.
type Type int

const (
	// TypePlain is an ordinary origin-form request: "GET /path HTTP/1.1".
	TypePlain Type = iota
	// TypeProxy is a scheme-qualified request an explicit proxy receives:
	// "GET http://host/path HTTP/1.1".
	TypeProxy
	// TypeConnect is a CONNECT tunnel request: "CONNECT host:port HTTP/1.1".
	TypeConnect
)

func (t Type) String() string {
	switch t {
	case TypeProxy:
		return "proxy"
	case TypeConnect:
		return "CONNECT"
	default:
		return "plain"
	}
}

// Request is the parsed form of one HTTP request line plus the
// derived URL breakdown, matching the fields nsd/request.c's
// Ns_Request fills in.
type Request struct {
	Line        string
	Method      string
	Version     float64
	Protocol    string
	Host        string
	Port        uint16
	Type        Type
	URL         string
	URLSegments []string
	Query       string
}

const httpVersionPrefix = "HTTP/"

// MethodBad is the sentinel method a caller assigns to a Conn built
// from a request line that failed to parse, so the dispatcher can
// still route it to a canned 400 response instead of treating the
// miss as an unsupported method, matching nsd/op.c's comparison
// against the literal method "BAD".
const MethodBad = "BAD"

// Parse parses one request line (without the trailing CRLF) into a
// Request. It rejects input that looks like the start of a TLS
// handshake before attempting anything else, since such a line is
// binary and never a meaningful parse error.
func Parse(line string) (*Request, error) {
	if len(line) >= 3 && line[0] == 0x16 && line[1] >= 3 && line[2] == 1 {
		return nil, coreerrors.NewParseError(coreerrors.ReasonLooksLikeTLS, 0, "request line begins like a TLS ClientHello")
	}

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, coreerrors.NewParseError(coreerrors.ReasonMalformedRequest, 0, "empty request line")
	}

	req := &Request{Line: trimmed}

	methodEnd := strings.IndexAny(trimmed, " \t")
	if methodEnd < 0 {
		return nil, coreerrors.NewParseError(coreerrors.ReasonMalformedRequest, 0, "no method found")
	}
	req.Method = trimmed[:methodEnd]

	rest := strings.TrimLeft(trimmed[methodEnd:], " \t")
	if rest == "" {
		return nil, coreerrors.NewParseError(coreerrors.ReasonMalformedRequest, methodEnd, "no version information found")
	}

	// Search from the end for a trailing "HTTP/n.n" token.
	url := rest
	if sp := strings.LastIndexAny(rest, " \t"); sp >= 0 {
		tail := rest[sp+1:]
		if !strings.HasPrefix(tail, httpVersionPrefix) {
			return nil, coreerrors.NewParseError(coreerrors.ReasonMalformedRequest, methodEnd+sp, "version information invalid")
		}
		url = rest[:sp]
		versionStr := tail[len(httpVersionPrefix):]
		if v, err := strconv.ParseFloat(versionStr, 64); err == nil {
			req.Version = v
		}
	} else {
		// No trailing token at all: treat as HTTP/0.9, which requires
		// an origin-form URL.
		if !strings.HasPrefix(url, "/") {
			return nil, coreerrors.NewParseError(coreerrors.ReasonMalformedRequest, methodEnd, "HTTP 0.9 URL does not start with a slash")
		}
	}

	url = strings.TrimRight(url, " \t")
	if url == "" {
		return nil, coreerrors.NewParseError(coreerrors.ReasonMalformedRequest, 0, "URL is empty")
	}

	if url[0] != '/' {
		var err error
		url, err = parseSchemeHostPort(req, url)
		if err != nil {
			return nil, err
		}
	}

	if err := req.setURL(url); err != nil {
		return nil, err
	}
	return req, nil
}

// parseSchemeHostPort handles the proxy and CONNECT forms, where the
// request target isn't a bare origin-form path. It returns the
// remaining path (possibly empty, for CONNECT).
func parseSchemeHostPort(req *Request, url string) (string, error) {
	i := 0
	for i < len(url) && isAlpha(url[i]) {
		i++
	}

	var p string
	if i < len(url) && url[i] == ':' {
		req.Type = TypeProxy
		req.Protocol = url[:i]
		p = url[i+1:]
		if strings.HasPrefix(p, "//") {
			p = p[2:]
		}
	} else {
		req.Type = TypeConnect
		p = url
	}

	if p == "" || p[0] == '/' {
		// No host:port segment at all; leave url alone.
		return finishSchemeHostPort(req, p)
	}

	hostPort := p
	remainder := ""
	if slash := strings.IndexByte(p, '/'); slash >= 0 {
		hostPort = p[:slash]
		remainder = p[slash:]
	}

	host, port, err := parseHostPort(hostPort)
	if err != nil {
		return "", coreerrors.NewParseError(coreerrors.ReasonMalformedRequest, 0, "invalid host:port in request target")
	}
	req.Host = host
	req.Port = port

	return finishSchemeHostPort(req, remainder)
}

func finishSchemeHostPort(req *Request, url string) (string, error) {
	switch req.Type {
	case TypeProxy:
		if url == "" {
			return "", coreerrors.NewParseError(coreerrors.ReasonMalformedRequest, 0, "invalid proxy request: path must not be empty")
		}
		if req.Protocol == "" {
			return "", coreerrors.NewParseError(coreerrors.ReasonMalformedRequest, 0, "invalid proxy request: protocol must be specified")
		}
	case TypeConnect:
		if url != "" {
			return "", coreerrors.NewParseError(coreerrors.ReasonMalformedRequest, 0, "invalid CONNECT request: path must be empty")
		}
	}
	return url, nil
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// parseHostPort splits "host:port", "host", "[v6]:port", or "[v6]"
// without involving net.SplitHostPort's stricter rejection of bare
// hostnames, since a CONNECT target is routinely just a hostname.
func parseHostPort(s string) (host string, port uint16, err error) {
	if strings.HasPrefix(s, "[") {
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return "", 0, coreerrors.NewParseError(coreerrors.ReasonMalformedRequest, 0, "unterminated IPv6 literal")
		}
		host = s[1:end]
		rest := s[end+1:]
		if rest == "" {
			return host, 0, nil
		}
		if rest[0] != ':' {
			return "", 0, coreerrors.NewParseError(coreerrors.ReasonMalformedRequest, 0, "expected ':' after IPv6 literal")
		}
		p, perr := strconv.ParseUint(rest[1:], 10, 16)
		if perr != nil {
			return host, 0, nil
		}
		return host, uint16(p), nil
	}

	if colon := strings.LastIndexByte(s, ':'); colon >= 0 {
		host = s[:colon]
		p, perr := strconv.ParseUint(s[colon+1:], 10, 16)
		if perr != nil {
			return s, 0, nil
		}
		return host, uint16(p), nil
	}
	return s, 0, nil
}

// setURL splits off the query string, URL-decodes the path's
// percent-escapes, normalizes the result, and rebuilds the segment
// list, mirroring nsd/request.c's SetUrl.
func (r *Request) setURL(rawURL string) error {
	if r.Type == TypeConnect && rawURL == "" {
		// A CONNECT target has no path; URL stays empty.
		return nil
	}
	path := rawURL
	if q := strings.IndexByte(rawURL, '?'); q >= 0 {
		path = rawURL[:q]
		r.Query = rawURL[q+1:]
	}

	decoded, err := url.PathUnescape(path)
	if err != nil {
		return coreerrors.NewParseError(coreerrors.ReasonMalformedRequest, 0, "invalid percent-escape in request path")
	}

	normalized := pathutil.NormalizeURL(decoded)
	r.URL = normalized

	trimmed := strings.Trim(normalized, "/")
	if trimmed == "" {
		r.URLSegments = nil
		return nil
	}
	r.URLSegments = strings.Split(trimmed, "/")
	return nil
}

// Skip returns the URL suffix beginning n path segments in, matching
// nsd/request.c's Ns_SkipUrl. It returns "" if n exceeds the number
// of segments.
func (r *Request) Skip(n int) string {
	if n < 0 || n > len(r.URLSegments) {
		return ""
	}
	return "/" + strings.Join(r.URLSegments[n:], "/")
}
