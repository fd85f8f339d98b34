package pathutil

import "strings"

// ServerRootHook overrides server-root computation entirely, mirroring
// Ns_ServerRootProc. It receives the raw, unvalidated Host header value
// (or "" if none was supplied) and reports the computed path, or ok=false
// to fall through to the built-in resolution.
type ServerRootHook func(rawHost string) (path string, ok bool)

// VhostOptions controls ServerRoot's virtual-hosting behavior, mirroring
// NsServer's vhost.* fields.
type VhostOptions struct {
	// Enabled turns on host-header-based server root resolution.
	Enabled bool
	// StripWWW strips a leading "www." from the lowercased host.
	StripWWW bool
	// StripPort strips a trailing ":port" from the host.
	StripPort bool
	// HostHashLevel, if > 0, inserts HashPath(host, HostHashLevel)
	// ahead of the normalized host segment.
	HostHashLevel int
	// HostPrefix is an extra path segment inserted between ServerDir
	// and the hashed/host-derived path, matching vhost.hostprefix.
	HostPrefix string
}

// ServerRootConfig holds everything ServerRoot needs to compute a
// server's root directory.
type ServerRootConfig struct {
	// ServerDir is the static server root, used whenever no hook
	// applies and vhost resolution is disabled or inapplicable.
	ServerDir string
	// Hook, if non-nil, is consulted first; see ServerRootHook.
	Hook  ServerRootHook
	Vhost VhostOptions
}

// ServerRoot computes the server root directory for rawHost, mirroring
// nsd/pathname.c's ServerRoot: a hook takes priority (a relative path it
// returns is prepended with ServerDir); otherwise, when vhost resolution
// is enabled and rawHost is present and looks like a valid Host header,
// the lowercased (optionally www-/port-stripped, optionally hashed) host
// is appended to ServerDir; otherwise ServerDir itself is returned.
func ServerRoot(cfg ServerRootConfig, rawHost string) string {
	if cfg.Hook != nil {
		if path, ok := cfg.Hook(rawHost); ok {
			if IsAbsolute(path) {
				return path
			}
			return joinServerPath(cfg.ServerDir, path)
		}
	}

	if cfg.Vhost.Enabled && rawHost != "" && isValidHostHeaderContent(rawHost) {
		safehost := strings.ToLower(rawHost)
		if cfg.Vhost.StripWWW && strings.HasPrefix(safehost, "www.") {
			safehost = safehost[4:]
		}
		if cfg.Vhost.StripPort {
			if i := strings.LastIndexByte(safehost, ':'); i >= 0 {
				safehost = safehost[:i]
			}
		}

		path := joinServerPath(cfg.ServerDir, cfg.Vhost.HostPrefix)
		if cfg.Vhost.HostHashLevel > 0 {
			path = joinServerPath(path, strings.TrimPrefix(HashPath(safehost, cfg.Vhost.HostHashLevel), "/"))
		}
		return NormalizePath(joinServerPath(path, safehost))
	}

	return cfg.ServerDir
}

// PageRootConfig holds what PageRoot needs in addition to ServerRoot's
// inputs.
type PageRootConfig struct {
	ServerRoot ServerRootConfig
	// PageDir is the configured page directory: either absolute (used
	// as-is) or relative to the computed server root, mirroring
	// NsServer's fastpath.pagedir.
	PageDir string
}

// PageRoot computes the server's page directory, mirroring
// nsd/pathname.c's NsPageRoot: an absolute PageDir is returned
// unchanged, otherwise it's appended to ServerRoot's result.
func PageRoot(cfg PageRootConfig, rawHost string) string {
	if IsAbsolute(cfg.PageDir) {
		return cfg.PageDir
	}
	root := ServerRoot(cfg.ServerRoot, rawHost)
	return joinServerPath(root, cfg.PageDir)
}

// joinServerPath appends parts to base, trimming the slashes at each
// seam (base's trailing slashes, each part's leading and trailing
// ones) while keeping base's leading slash, so an absolute base stays
// absolute (unlike MakePath, which trims every segment's slashes and
// is meant for joining bare segments, not a rooted path).
func joinServerPath(base string, parts ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(p)
	}
	return b.String()
}

// isValidHostHeaderContent rejects control characters and whitespace,
// mirroring Ns_StrIsValidHostHeaderContent's guard against a Host
// header being used to construct a filesystem path.
func isValidHostHeaderContent(host string) bool {
	for i := 0; i < len(host); i++ {
		c := host[i]
		if c < 0x20 || c == 0x7f || c == ' ' {
			return false
		}
	}
	return true
}
