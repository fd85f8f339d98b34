package urlspace

import (
	"strings"
	"sync"
	"sync/atomic"

	coreerrors "github.com/naviserver-project/naviserver-sub001/errors"
)

// IDSpace partitions the registry so independent subsystems (request
// handlers, url2file, filters-by-URL) can share one Space without key
// collisions.
type IDSpace int

const wildcardMethod = "*"

// bucket holds the exact and inherited entries a single node carries
// for one HTTP method (or the "*" wildcard method).
type bucket struct {
	exact   *RegisteredProc
	inherit *RegisteredProc
}

// node is one path segment of the trie, scoped to a single (server,
// id space) pair.
type node struct {
	children map[string]*node
	methods  map[string]*bucket
}

func newNode() *node {
	return &node{children: make(map[string]*node), methods: make(map[string]*bucket)}
}

func (n *node) bucketFor(method string, create bool) *bucket {
	b, ok := n.methods[method]
	if !ok {
		if !create {
			return nil
		}
		b = &bucket{}
		n.methods[method] = b
	}
	return b
}

// perServer is the set of tries for one virtual server, one per id
// space that has been used on that server.
type perServer struct {
	spaces map[IDSpace]*node
}

// Space is the URL-space registry. A single
// global mutex serializes mutations; reads may use a RWMutex instead
// when the caller opts into RWLocks.
type Space struct {
	rwlocks bool
	mu      sync.RWMutex

	servers map[string]*perServer
	nextID  int32
}

// Option configures a Space at construction time.
type Option func(*Space)

// WithRWLocks lets concurrent Get calls proceed in parallel, serializing
// only Set/Destroy, serializing writers but not readers.
func WithRWLocks() Option {
	return func(s *Space) { s.rwlocks = true }
}

// NewSpace constructs an empty URL-space registry.
func NewSpace(opts ...Option) *Space {
	s := &Space{servers: make(map[string]*perServer)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AllocIDSpace returns a fresh id space; distinct calls never collide.
func (s *Space) AllocIDSpace() IDSpace {
	return IDSpace(atomic.AddInt32(&s.nextID, 1) - 1)
}

func (s *Space) lock()   { s.mu.Lock() }
func (s *Space) unlock() { s.mu.Unlock() }
func (s *Space) rlock() {
	if s.rwlocks {
		s.mu.RLock()
	} else {
		s.mu.Lock()
	}
}
func (s *Space) runlock() {
	if s.rwlocks {
		s.mu.RUnlock()
	} else {
		s.mu.Unlock()
	}
}

func (s *Space) serverFor(server string, create bool) *perServer {
	ps, ok := s.servers[server]
	if !ok {
		if !create {
			return nil
		}
		ps = &perServer{spaces: make(map[IDSpace]*node)}
		s.servers[server] = ps
	}
	return ps
}

func splitURLSegments(url string) []string {
	trimmed := strings.Trim(url, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// Set registers value under (server, method, url) within id, per
// Replacing an existing entry invokes the previous
// entry's delete callback (via DecRef, so concurrent readers that
// already hold a reference keep it alive until they release it).
func (s *Space) Set(server, method, url string, id IDSpace, value, arg any, flags Flags, deleteCb DeleteCallback) *RegisteredProc {
	s.lock()
	defer s.unlock()

	ps := s.serverFor(server, true)
	root, ok := ps.spaces[id]
	if !ok {
		root = newNode()
		ps.spaces[id] = root
	}

	segs := splitURLSegments(url)
	cur := root
	for _, seg := range segs {
		child, ok := cur.children[seg]
		if !ok {
			child = newNode()
			cur.children[seg] = child
		}
		cur = child
	}

	b := cur.bucketFor(method, true)
	proc := newRegisteredProc(value, arg, flags, deleteCb)

	var prev *RegisteredProc
	if flags&NoInherit != 0 {
		prev = b.exact
		b.exact = proc
	} else {
		prev = b.inherit
		b.inherit = proc
	}
	if prev != nil {
		prev.DecRef()
	}
	return proc
}

// Get resolves the best-matching entry for (server, method, url)
// within id, applying an optional contextFilter to reject candidates
// that don't match the caller's request context. The returned
// RegisteredProc has had IncRef called on it; the caller must call
// DecRef when finished.
func (s *Space) Get(server, method, url string, id IDSpace, filter ContextFilter, ctx any) (*RegisteredProc, MatchInfo, error) {
	s.rlock()
	defer s.runlock()

	ps := s.serverFor(server, false)
	if ps == nil {
		return nil, MatchInfo{}, coreerrors.ErrNotFound
	}
	root, ok := ps.spaces[id]
	if !ok {
		return nil, MatchInfo{}, coreerrors.ErrNotFound
	}

	segs := splitURLSegments(url)

	type candidate struct {
		proc *RegisteredProc
		info MatchInfo
	}
	var inheritStack []candidate

	cur := root
	offset := 0
	considerInherit := func(n *node, prefixLen int) {
		for _, m := range []string{method, wildcardMethod} {
			if b, ok := n.methods[m]; ok && b.inherit != nil {
				inheritStack = append(inheritStack, candidate{proc: b.inherit, info: MatchInfo{Exact: false, PrefixLen: prefixLen}})
			}
		}
	}

	considerInherit(cur, 0)

	reached := true
	for _, seg := range segs {
		child, ok := cur.children[seg]
		if !ok {
			reached = false
			break
		}
		cur = child
		offset += len(seg) + 1
		considerInherit(cur, offset)
	}

	// Exact match only counts if traversal reached the full path.
	if reached {
		for _, m := range []string{method, wildcardMethod} {
			if b, ok := cur.methods[m]; ok && b.exact != nil {
				c := candidate{proc: b.exact, info: MatchInfo{Exact: true, PrefixLen: len(url)}}
				if filter == nil || filter(c.proc, ctx) {
					c.proc.IncRef()
					return c.proc, c.info, nil
				}
			}
		}
	}

	// Walk inherited candidates from deepest to shallowest (most
	// recently pushed = deepest, since we appended while descending);
	// on a filter rejection, continue with the next-best candidate.
	for i := len(inheritStack) - 1; i >= 0; i-- {
		c := inheritStack[i]
		if filter == nil || filter(c.proc, ctx) {
			c.proc.IncRef()
			return c.proc, c.info, nil
		}
	}

	return nil, MatchInfo{}, coreerrors.ErrNotFound
}

// Destroy removes one entry (or, with Recurse, every entry at or
// below url for method and for the "*" wildcard method) from
// (server, method, url) within id, returning the
// number of entries removed, mirroring the recursive removal count nsd/op.c's TclDestroy path returns.
func (s *Space) Destroy(server, method, url string, id IDSpace, flags Flags) int {
	s.lock()
	defer s.unlock()

	ps := s.serverFor(server, false)
	if ps == nil {
		return 0
	}
	root, ok := ps.spaces[id]
	if !ok {
		return 0
	}

	segs := splitURLSegments(url)
	cur := root
	for _, seg := range segs {
		child, ok := cur.children[seg]
		if !ok {
			return 0
		}
		cur = child
	}

	if flags&Recurse != 0 {
		return destroySubtree(cur, method)
	}
	return destroyNodeEntry(cur, method, flags)
}

func destroyNodeEntry(n *node, method string, flags Flags) int {
	b, ok := n.methods[method]
	if !ok {
		return 0
	}
	removed := 0
	if flags&NoInherit != 0 {
		if b.exact != nil {
			b.exact.DecRef()
			b.exact = nil
			removed++
		}
	} else {
		if b.inherit != nil {
			b.inherit.DecRef()
			b.inherit = nil
			removed++
		}
	}
	return removed
}

func destroySubtree(n *node, method string) int {
	removed := 0
	methodsToClear := []string{method}
	if method != wildcardMethod {
		methodsToClear = append(methodsToClear, wildcardMethod)
	}
	for _, m := range methodsToClear {
		if b, ok := n.methods[m]; ok {
			if b.exact != nil {
				b.exact.DecRef()
				b.exact = nil
				removed++
			}
			if b.inherit != nil {
				b.inherit.DecRef()
				b.inherit = nil
				removed++
			}
		}
	}
	for _, child := range n.children {
		removed += destroySubtree(child, method)
	}
	return removed
}

// WalkFunc is invoked once per registered entry during Walk.
type WalkFunc func(method, url string, proc *RegisteredProc)

// Walk iterates every entry for (server, id), for introspection
// callers.
func (s *Space) Walk(server string, id IDSpace, visit WalkFunc) {
	s.rlock()
	defer s.runlock()

	ps := s.serverFor(server, false)
	if ps == nil {
		return
	}
	root, ok := ps.spaces[id]
	if !ok {
		return
	}
	walkNode(root, "", visit)
}

func walkNode(n *node, prefix string, visit WalkFunc) {
	url := prefix
	if url == "" {
		url = "/"
	}
	for method, b := range n.methods {
		if b.exact != nil {
			visit(method, url, b.exact)
		}
		if b.inherit != nil {
			visit(method, url, b.inherit)
		}
	}
	for seg, child := range n.children {
		walkNode(child, prefix+"/"+seg, visit)
	}
}
