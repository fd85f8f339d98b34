package pathutil

import (
	"github.com/naviserver-project/naviserver-sub001/urlspace"
)

// URLToFileRegistry maps URLs to filesystem paths per server, backed by
// its own urlspace.IDSpace so it can share a Space with request
// handlers and filters without key collisions, mirroring NsUrlToFile's
// use of a dedicated url2file id space.
type URLToFileRegistry struct {
	space *urlspace.Space
	id    urlspace.IDSpace
	// pageRoot resolves the default prefix a miss falls back to; nil
	// registries (constructed without a page root) return only
	// explicitly registered mappings.
	pageRoot func(rawHost string) string
}

// NewURLToFileRegistry allocates a fresh id space on space for url2file
// entries. pageRoot, if non-nil, is consulted by UrlToFile whenever no
// registered mapping matches; it is typically ServerRoot/PageRoot bound
// to a fixed configuration.
func NewURLToFileRegistry(space *urlspace.Space, pageRoot func(rawHost string) string) *URLToFileRegistry {
	return &URLToFileRegistry{space: space, id: space.AllocIDSpace(), pageRoot: pageRoot}
}

// Register maps url (and, unless noInherit is set, everything beneath
// it) to file for server.
func (r *URLToFileRegistry) Register(server, url, file string, noInherit bool) {
	var flags urlspace.Flags
	if noInherit {
		flags |= urlspace.NoInherit
	}
	r.space.Set(server, wildcardURLToFileMethod, url, r.id, file, nil, flags, nil)
}

// wildcardURLToFileMethod is the single pseudo-method url2file entries
// are stored under; url2file mappings aren't scoped per HTTP verb.
const wildcardURLToFileMethod = "*"

// UrlToFile resolves url to a filesystem path for server, mirroring
// Ns_UrlToFile: a registered mapping wins; otherwise, when a page root
// resolver was configured, the page root is joined with url itself (the
// default mapper nsd/urlspace.c installs when nothing more specific is
// registered).
func (r *URLToFileRegistry) UrlToFile(server, url, rawHost string) (string, bool) {
	proc, _, err := r.space.Get(server, wildcardURLToFileMethod, url, r.id, nil, nil)
	if err == nil {
		defer proc.DecRef()
		if file, ok := proc.Value.(string); ok {
			return file, true
		}
	}

	if r.pageRoot == nil {
		return "", false
	}
	return joinServerPath(r.pageRoot(rawHost), url), true
}
