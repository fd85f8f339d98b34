package filterchain

import "sync"

// When identifies the point in the request lifecycle a filter runs at,
// mirroring nsd/filter.c's Ns_FilterType.
type When int

const (
	// PreAuth runs before request authorization.
	PreAuth When = iota
	// PostAuth runs after authorization succeeds, before the handler.
	PostAuth
	// Trace runs after a successful handler invocation, in FIFO order.
	// A Trace filter returning Return is coerced to OK.
	Trace
	// VoidTrace behaves exactly like Trace (including the RETURN→OK
	// coercion) but exists as a distinct value so a caller registering
	// a void-result trace never accidentally participates in a filter
	// chain that inspects Trace specifically.
	VoidTrace
)

// Status is the result a Filter returns, matching nsd/filter.c's
// NS_OK/NS_FILTER_BREAK/NS_FILTER_RETURN/NS_ERROR algebra.
type Status int

const (
	// StatusOK lets the chain continue to the next filter.
	StatusOK Status = iota
	// StatusBreak stops the chain and is reported to the caller as OK.
	StatusBreak
	// StatusReturn stops the chain; the handler must not run afterward.
	// During a Trace/VoidTrace run this is coerced to StatusOK.
	StatusReturn
	// StatusError stops the chain and is reported as an error.
	StatusError
)

// Conn is the minimal per-request context a filter, trace, or cleanup
// needs: the parsed request line plus a generic bag for handler state.
type Conn struct {
	Method string
	URL    string
	State  map[string]any
}

// Proc is a filter callback.
type Proc func(arg any, conn *Conn, when When) Status

// TraceProc is a trace or cleanup callback; its return value is never
// inspected by the chain.
type TraceProc func(arg any, conn *Conn)

// Filter is one registered (method, url, when) filter entry.
type Filter struct {
	Proc   Proc
	Method string
	URL    string
	When   When
	Arg    any
}

type trace struct {
	proc TraceProc
	arg  any
}

// Chain holds a server's filters, traces, and cleanups. A single mutex
// serializes both registration and the copy-out read that RunFilters
// performs before iterating, matching the copy-then-iterate pattern
// the rest of this module's lifecycle hook queues use.
type Chain struct {
	mu       sync.Mutex
	filters  []*Filter
	traces   []*trace
	cleanups []*trace
}

// NewChain returns an empty filter chain.
func NewChain() *Chain {
	return &Chain{}
}

// Register adds a filter for (method, url) at the given phase. When
// first is true the filter is prepended instead of appended, matching
// Ns_RegisterFilter's "first" flag.
func (c *Chain) Register(method, url string, proc Proc, when When, arg any, first bool) *Filter {
	f := &Filter{Proc: proc, Method: method, URL: url, When: when, Arg: arg}

	c.mu.Lock()
	defer c.mu.Unlock()
	if first {
		c.filters = append([]*Filter{f}, c.filters...)
	} else {
		c.filters = append(c.filters, f)
	}
	return f
}

// RegisterTrace appends a trace, run in FIFO order after a successful
// request.
func (c *Chain) RegisterTrace(proc TraceProc, arg any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.traces = append(c.traces, &trace{proc: proc, arg: arg})
}

// RegisterCleanup appends a cleanup, run in LIFO order at the end of
// every request regardless of outcome.
func (c *Chain) RegisterCleanup(proc TraceProc, arg any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanups = append(c.cleanups, &trace{proc: proc, arg: arg})
}

// RunFilters executes every registered filter matching (conn.Method,
// conn.URL, why), stopping at the first non-OK result. It copies the
// filter slice under the lock, then iterates without holding it, so a
// filter that registers another filter mid-chain cannot deadlock.
func (c *Chain) RunFilters(conn *Conn, why When) Status {
	c.mu.Lock()
	filters := make([]*Filter, len(c.filters))
	copy(filters, c.filters)
	c.mu.Unlock()

	status := StatusOK
	for _, f := range filters {
		if f.When != why {
			continue
		}
		if !globMatch(f.Method, conn.Method) || !globMatch(f.URL, conn.URL) {
			continue
		}
		status = f.Proc(f.Arg, conn, why)
		if status != StatusOK {
			break
		}
	}

	switch {
	case status == StatusBreak:
		return StatusOK
	case (why == Trace || why == VoidTrace) && status == StatusReturn:
		return StatusOK
	default:
		return status
	}
}

// RunTraces runs every registered trace in FIFO (registration) order.
func (c *Chain) RunTraces(conn *Conn) {
	c.mu.Lock()
	traces := make([]*trace, len(c.traces))
	copy(traces, c.traces)
	c.mu.Unlock()

	for _, t := range traces {
		t.proc(t.arg, conn)
	}
}

// RunCleanups runs every registered cleanup in LIFO (reverse
// registration) order, matching Ns_RegisterConnCleanup's contract.
func (c *Chain) RunCleanups(conn *Conn) {
	c.mu.Lock()
	cleanups := make([]*trace, len(c.cleanups))
	copy(cleanups, c.cleanups)
	c.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i].proc(cleanups[i].arg, conn)
	}
}

// globMatch implements the Tcl_StringMatch subset nsd/filter.c relies
// on: "*" matches any run of characters (including "/"), "?" matches
// exactly one character, everything else matches literally.
func globMatch(pattern, s string) bool {
	return globMatchBytes([]byte(pattern), []byte(s))
}

func globMatchBytes(pattern, s []byte) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			for len(pattern) > 1 && pattern[1] == '*' {
				pattern = pattern[1:]
			}
			if len(pattern) == 1 {
				return true
			}
			for i := 0; i <= len(s); i++ {
				if globMatchBytes(pattern[1:], s[i:]) {
					return true
				}
			}
			return false
		case '?':
			if len(s) == 0 {
				return false
			}
			pattern = pattern[1:]
			s = s[1:]
		default:
			if len(s) == 0 || s[0] != pattern[0] {
				return false
			}
			pattern = pattern[1:]
			s = s[1:]
		}
	}
	return len(s) == 0
}
