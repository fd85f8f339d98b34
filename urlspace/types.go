package urlspace

import "sync"

// Flags is the bitmap controlling how a Set or Destroy call treats
// inheritance, recursion, and delete-callback invocation.
type Flags uint32

const (
	// NoInherit restricts a Set registration (or a Destroy call) to an
	// exact path match instead of matching subpaths.
	NoInherit Flags = 1 << iota
	// Recurse tells Destroy to remove every entry at or below url for
	// the given method and for the "*" wildcard method, instead of just
	// one entry at url. Entries of other methods are kept.
	Recurse
	// NoDelete suppresses the delete callback when the refcount
	// reaches zero; the caller owns the value's lifetime instead.
	NoDelete
)

// DeleteCallback is invoked when a RegisteredProc's refcount reaches
// zero, unless NoDelete is set. It receives the same arg word the
// handler itself was registered with; the core never interprets it.
type DeleteCallback func(arg any)

// RegisteredProc is the reference-counted handler descriptor stored at
// each trie node. Value holds whatever the registering subsystem stored
// (a handler, a url2file entry, a filter record, ...); the id-space
// mechanism keeps different subsystems' values from colliding.
type RegisteredProc struct {
	Value    any
	Arg      any
	Flags    Flags
	deleteCb DeleteCallback

	mu     sync.Mutex
	refcnt int
}

func newRegisteredProc(value, arg any, flags Flags, deleteCb DeleteCallback) *RegisteredProc {
	LiveRegisteredProcs.Inc()
	return &RegisteredProc{
		Value:    value,
		Arg:      arg,
		Flags:    flags,
		deleteCb: deleteCb,
		refcnt:   1,
	}
}

// IncRef bumps the reference count and returns the new count. Get
// calls this automatically; callers that hold onto a RegisteredProc
// beyond the call that returned it (e.g. across an async handler
// invocation) should call IncRef themselves and DecRef exactly once
// when done.
func (p *RegisteredProc) IncRef() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refcnt++
	return p.refcnt
}

// DecRef releases one reference. When the count reaches zero the
// delete callback (if any, and unless NoDelete is set) runs exactly
// once.
func (p *RegisteredProc) DecRef() {
	p.mu.Lock()
	p.refcnt--
	n := p.refcnt
	cb := p.deleteCb
	arg := p.Arg
	noDelete := p.Flags&NoDelete != 0
	p.mu.Unlock()

	if n == 0 {
		LiveRegisteredProcs.Dec()
		if cb != nil && !noDelete {
			cb(arg)
		}
	}
}

// RefCount returns the current reference count, for tests and
// diagnostics.
func (p *RegisteredProc) RefCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refcnt
}

// MatchInfo describes how a Get call resolved.
type MatchInfo struct {
	// Exact is true when the match was an exact segment match rather
	// than an inherited prefix match.
	Exact bool
	// PrefixLen is the byte offset of the matched prefix within the
	// queried url.
	PrefixLen int
}

// ContextFilter lets a caller reject a candidate match based on
// request context (host header, client address, ...) not encoded in
// the trie itself. Resolution continues with the next-best candidate
// when the filter rejects one.
type ContextFilter func(candidate *RegisteredProc, ctx any) bool
