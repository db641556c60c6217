// Package tracer walks the caller graph upward from a changed method to
// every reachable HTTP endpoint.
package tracer

import (
	"log/slog"
	"strings"

	"jimpact/internal/callers"
	"jimpact/internal/endpoint"
	"jimpact/internal/index"
	"jimpact/internal/javaparse"
)

// DefaultMaxDepth bounds the number of caller hops followed per branch.
const DefaultMaxDepth = 8

// Affected pairs a reachable endpoint with the call site that reached it.
type Affected struct {
	Endpoint endpoint.Endpoint `json:"endpoint"`
	Site     callers.CallSite  `json:"site"`
}

// Tracer performs bounded, cycle-safe upward call-graph search over one
// project root. Safe for sequential reuse across queries in a run; a single
// Trace invocation owns its visited-set exclusively.
type Tracer struct {
	root     string
	index    *index.Index
	resolver *callers.Resolver
	detector *endpoint.Detector
	maxDepth int
	logger   *slog.Logger
}

// New creates a Tracer for one project root. maxDepth <= 0 selects
// DefaultMaxDepth.
func New(root string, ix *index.Index, arena *javaparse.Arena, excludeDirs []string, maxDepth int, logger *slog.Logger) *Tracer {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracer{
		root:     root,
		index:    ix,
		resolver: callers.NewResolver(arena, excludeDirs, logger),
		detector: endpoint.NewDetector(arena, logger),
		maxDepth: maxDepth,
		logger:   logger,
	}
}

// FindAffectedAPIs returns every endpoint reachable upward from
// (class, method), deduplicated by endpoint string.
//
// The trace is seeded with the changed pair itself, plus one
// (interface, method) pair per interface the class declares, because
// callers typically hold the interface type rather than the concrete
// implementation. All seeds share one visited-set so aliases that collapse
// to the same "class.method" key are scanned once.
func (t *Tracer) FindAffectedAPIs(class, method string) []Affected {
	type seed struct{ class, method string }
	seeds := []seed{{class, method}}
	for _, iface := range t.index.InterfacesOf(simpleName(class)) {
		seeds = append(seeds, seed{iface, method})
	}

	visited := make(map[string]bool)
	acc := newAccumulator()
	for _, s := range seeds {
		t.trace(s.class, s.method, 0, visited, acc)
	}
	return acc.results
}

// trace recursively resolves callers of (class, method). A caller that is
// itself an endpoint is terminal; anything else is traced one hop further.
// Per-file parse failures surface as "no callers in that file" and never
// abort the trace.
func (t *Tracer) trace(class, method string, depth int, visited map[string]bool, acc *accumulator) {
	key := simpleName(class) + "." + method
	if depth >= t.maxDepth {
		t.logger.Debug("trace: depth bound reached", "target", key, "depth", depth)
		return
	}
	if visited[key] {
		t.logger.Debug("trace: cycle pruned", "target", key)
		return
	}
	visited[key] = true

	for _, site := range t.resolver.FindCallers(t.root, simpleName(class), method) {
		if ep := t.detector.Detect(site.File, site.CallerMethod); ep != nil {
			acc.add(*ep, site)
			continue // endpoints are terminal: no recursion past a confirmed entry point
		}
		t.trace(site.CallerClass, site.CallerMethod, depth+1, visited, acc)
	}
}

// accumulator collects results deduplicated by endpoint string, preserving
// discovery order.
type accumulator struct {
	seen    map[string]bool
	results []Affected
}

func newAccumulator() *accumulator {
	return &accumulator{seen: make(map[string]bool)}
}

func (a *accumulator) add(ep endpoint.Endpoint, site callers.CallSite) {
	key := ep.String()
	if a.seen[key] {
		return
	}
	a.seen[key] = true
	a.results = append(a.results, Affected{Endpoint: ep, Site: site})
}

// simpleName reduces an FQN to its simple class name; simple names pass
// through unchanged.
func simpleName(class string) string {
	if idx := strings.LastIndex(class, "."); idx >= 0 {
		return class[idx+1:]
	}
	return class
}
