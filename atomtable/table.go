package atomtable

import (
	"sync"

	coreerrors "github.com/naviserver-project/naviserver-sub001/errors"
)

// ID identifies an interned atom. Core atoms have stable ids assigned in
// registration order at NewTable time; dynamic atoms are assigned the
// next free id at AtomRegister time.
type ID int

// Obj is the opaque per-atom object reference handed out by AtomObj.
// The core never interprets the contents; it exists so callers have a
// stable reference-counted handle distinct from the raw name bytes.
type Obj struct {
	ID   ID
	Name string
}

type entry struct {
	name  string
	owned bool // true for dynamically registered atoms holding their own copy
}

// Table is the process-wide atom registry. Construct one with NewTable,
// register any additional core atoms before calling Seal, and only call
// AtomRegister for dynamic atoms prior to Seal.
type Table struct {
	mu     sync.Mutex
	byName map[string]ID
	atoms  []entry
	inited bool
	sealed bool
}

// NewTable creates an atom table preloaded with the given core atom
// names. Core atoms are assigned ids 0..len(core)-1 in order, matching
// a fixed compile-time enumeration of well-known names.
func NewTable(core ...string) *Table {
	t := &Table{
		byName: make(map[string]ID, len(core)),
		atoms:  make([]entry, 0, len(core)),
		inited: true,
	}
	for _, name := range core {
		t.atoms = append(t.atoms, entry{name: name, owned: false})
		t.byName[name] = ID(len(t.atoms) - 1)
	}
	return t
}

// AtomRegister interns name, returning its id. If name is already
// registered, the existing id is returned. Fails with ErrSealed once
// Seal has been called.
func (t *Table) AtomRegister(name string) (ID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id, ok := t.byName[name]; ok {
		return id, nil
	}
	if t.sealed {
		return -1, coreerrors.ErrSealed
	}

	t.atoms = append(t.atoms, entry{name: name, owned: true})
	id := ID(len(t.atoms) - 1)
	t.byName[name] = id
	return id, nil
}

// Seal freezes the registry. After Seal, AtomRegister fails for any
// name not already registered; a known name still returns its id.
// Lookups (AtomName, AtomObj, AtomID) remain available and lock-free
// in spirit (they still take the mutex for map safety, but never block
// on a writer after Seal since there are no more writers).
func (t *Table) Seal() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sealed = true
}

// Sealed reports whether the table has been sealed.
func (t *Table) Sealed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sealed
}

// AtomName returns the bytes of the atom with the given id, or "" if the
// id is out of range.
func (t *Table) AtomName(id ID) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id < 0 || int(id) >= len(t.atoms) {
		return ""
	}
	return t.atoms[id].name
}

// AtomID returns the id for name if it has been registered, with ok=false
// otherwise. This does not register the name as a side effect.
func (t *Table) AtomID(name string) (ID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id, ok := t.byName[name]
	return id, ok
}

// AtomObj returns the opaque per-thread-cached object reference for id.
// Callers should obtain a *Cache (via NewCache or a pool) and pass it in
// rather than reconstructing the Obj from scratch on every call, mirroring
// the per-thread cache in nsd/nsatoms.c.
func (t *Table) AtomObj(id ID, cache *Cache) *Obj {
	if cache != nil {
		if obj := cache.get(id); obj != nil {
			return obj
		}
	}
	name := t.AtomName(id)
	if name == "" {
		return nil
	}
	obj := &Obj{ID: id, Name: name}
	if cache != nil {
		cache.put(id, obj)
	}
	return obj
}

// Cache is the Go analogue of the C atom table's per-thread Tcl_Obj
// cache: a small map from atom id to the cached Obj, scoped to one
// goroutine (or one pooled worker) to avoid contending on the shared
// table's mutex for every lookup of a hot atom.
type Cache struct {
	mu   sync.Mutex
	objs map[ID]*Obj
}

// NewCache returns an empty per-goroutine atom object cache.
func NewCache() *Cache {
	return &Cache{objs: make(map[ID]*Obj, 16)}
}

// Reset drops all cached references. Call this when a pooled worker
// finishes a request, the Go substitute for the C thread-exit hook that
// releases the per-thread Tcl_Obj references.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.objs)
}

func (c *Cache) get(id ID) *Obj {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.objs[id]
}

func (c *Cache) put(id ID, obj *Obj) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.objs[id] = obj
}

// CachePool hands out *Cache values; PutCache resets a cache before
// putting it back, modeled after the worker-pool pattern in router/pool.go.
var CachePool = sync.Pool{New: func() any { return NewCache() }}

// GetCache pulls a reset cache from the pool.
func GetCache() *Cache {
	return CachePool.Get().(*Cache)
}

// PutCache resets and returns a cache to the pool.
func PutCache(c *Cache) {
	c.Reset()
	CachePool.Put(c)
}
