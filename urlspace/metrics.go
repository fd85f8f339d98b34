package urlspace

import "github.com/prometheus/client_golang/prometheus"

// LiveRegisteredProcs tracks how many RegisteredProc entries currently
// hold at least one reference, across every Space in the process. It
// rises on every Set call and falls whenever a refcount reaches zero,
// giving an operator a signal independent of trie depth or fan-out.
var LiveRegisteredProcs = prometheus.NewGauge(prometheus.GaugeOpts{
	Namespace: "naviserver",
	Subsystem: "urlspace",
	Name:      "live_registered_procs",
	Help:      "Number of RegisteredProc entries with a nonzero reference count.",
})
