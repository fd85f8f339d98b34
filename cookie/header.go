package cookie

import (
	"net/http"
	"strings"

	coreerrors "github.com/naviserver-project/naviserver-sub001/errors"
)

// RawHeaders accumulates raw header lines into an http.Header, folding
// continuation lines (lines starting with whitespace) onto the value
// of the most recently added header, matching Ns_ParseHeader.
type RawHeaders struct {
	Header  http.Header
	lastKey string
}

// NewRawHeaders returns an empty header accumulator.
func NewRawHeaders() *RawHeaders {
	return &RawHeaders{Header: make(http.Header)}
}

// AddLine consumes one header line. A line beginning with a space or
// tab continues the previous header's value (space-joined); any other
// line must be in "key: value" form. A continuation line arriving
// before any header has been seen, or a line with no colon, is
// reported as a malformed header.
func (r *RawHeaders) AddLine(line string) error {
	if line == "" {
		return nil
	}
	if line[0] == ' ' || line[0] == '\t' {
		if r.lastKey == "" {
			return coreerrors.ErrMalformedHeader
		}
		cont := strings.TrimLeft(line, " \t")
		if cont == "" {
			return nil
		}
		vals := r.Header[r.lastKey]
		if len(vals) == 0 {
			r.Header[r.lastKey] = []string{cont}
		} else {
			vals[len(vals)-1] = vals[len(vals)-1] + " " + cont
		}
		return nil
	}

	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return coreerrors.ErrMalformedHeader
	}
	key := http.CanonicalHeaderKey(strings.TrimSpace(line[:idx]))
	value := strings.TrimLeft(line[idx+1:], " \t")
	r.Header.Add(key, value)
	r.lastKey = key
	return nil
}
