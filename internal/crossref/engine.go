package crossref

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"jimpact/internal/tracer"
)

// DefaultMaxCrossRefDepth bounds the recursive cross-repository
// escalation.
const DefaultMaxCrossRefDepth = 5

// Options configures an Engine.
type Options struct {
	MaxTraceDepth    int
	MaxCrossRefDepth int
	ArenaSize        int
	ExcludeDirs      []string
	Logger           *slog.Logger
}

// Engine is the top-level orchestrator over one primary root and M sibling
// roots. Setup builds one index and one tracer per root; they are reused
// for every query in the run.
//
// The engine itself is synchronous. A caller that wants parallelism may
// run one Analyze per goroutine, because each invocation owns its own
// visited-sets and record accumulator; results merge only after each unit
// completes.
type Engine struct {
	primary  *Project
	siblings []*Project
	opts     Options
	logger   *slog.Logger
	runID    string
}

// intermediateLayer matches caller classes worth reporting even without a
// confirmed downstream endpoint.
var intermediateLayer = regexp.MustCompile(`(Service|ServiceImpl|Client|Manager|Helper|Util|Utils)$`)

// NewEngine builds per-root state for the primary and every sibling.
func NewEngine(primary RootSpec, siblings []RootSpec, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxCrossRefDepth <= 0 {
		opts.MaxCrossRefDepth = DefaultMaxCrossRefDepth
	}

	e := &Engine{
		primary: newProject(primary, opts, logger),
		opts:    opts,
		logger:  logger,
		runID:   uuid.NewString(),
	}
	for _, s := range siblings {
		e.siblings = append(e.siblings, newProject(s, opts, logger))
	}
	return e
}

// RunID identifies this analysis run.
func (e *Engine) RunID() string { return e.runID }

// Primary returns the primary project.
func (e *Engine) Primary() *Project { return e.primary }

// Siblings returns the sibling projects.
func (e *Engine) Siblings() []*Project { return e.siblings }

// Analyze surfaces every cross-repository impact of changing the named
// methods of fullyQualifiedClass. All phases run per sibling root; the
// union is deduplicated by (project, file, line, kind, endpoint,
// callerMethod).
func (e *Engine) Analyze(fullyQualifiedClass string, changedMethods []string) []ImpactRecord {
	simple := simpleName(fullyQualifiedClass)
	out := newRecordSet()

	for _, p := range e.siblings {
		e.logger.Info("cross-reference scan",
			"run", e.runID, "project", p.Name, "class", fullyQualifiedClass)

		e.usagePhase(p, fullyQualifiedClass, out)
		e.directAPIPhase(p, simple, changedMethods, out)
		e.intermediatePhase(p, simple, changedMethods, out)
		e.escalationPhase(p, fullyQualifiedClass, out)
	}

	e.logger.Info("cross-reference complete", "run", e.runID, "impacts", len(out.records))
	return out.records
}

// usagePhase records each sibling file's strongest reference to the
// changed class.
func (e *Engine) usagePhase(p *Project, fqcn string, out *recordSet) {
	for _, u := range p.findUsages(fqcn, e.opts.ExcludeDirs) {
		out.add(ImpactRecord{
			Project:     p.Name,
			Kind:        KindClassReference,
			File:        u.file,
			Line:        u.line,
			Snippet:     u.snippet,
			CallerClass: u.refClass,
			Depth:       1,
			Detail:      fmt.Sprintf("%s references %s (%s)", u.refClass, fqcn, u.matchKind),
		})
	}
}

// directAPIPhase traces each changed method upward inside the sibling
// root.
func (e *Engine) directAPIPhase(p *Project, simple string, methods []string, out *recordSet) {
	for _, m := range methods {
		for _, hit := range p.tracer.FindAffectedAPIs(simple, m) {
			out.add(ImpactRecord{
				Project:      p.Name,
				Kind:         KindAPICall,
				File:         hit.Site.File,
				Line:         hit.Site.Line,
				Snippet:      hit.Site.Snippet,
				Endpoint:     hit.Endpoint.String(),
				CallerClass:  hit.Site.CallerClass,
				CallerMethod: hit.Site.CallerMethod,
				Detail: fmt.Sprintf("%s %s reachable from %s.%s",
					hit.Endpoint.Verb, hit.Endpoint.Path, hit.Site.CallerClass, hit.Site.CallerMethod),
			})
		}
	}
}

// intermediatePhase reports service/client/manager-style callers that are
// not controllers, so a reviewer sees "something consumes this" even
// without a confirmed external entry point.
func (e *Engine) intermediatePhase(p *Project, simple string, methods []string, out *recordSet) {
	for _, m := range methods {
		for _, site := range p.resolver.FindCallers(p.Root, simple, m) {
			if !intermediateLayer.MatchString(site.CallerClass) {
				continue
			}
			if p.detector.IsControllerFile(site.File) {
				continue
			}
			out.add(ImpactRecord{
				Project:      p.Name,
				Kind:         KindMethodCall,
				File:         site.File,
				Line:         site.Line,
				Snippet:      site.Snippet,
				CallerClass:  site.CallerClass,
				CallerMethod: site.CallerMethod,
				Detail: fmt.Sprintf("intermediate layer %s.%s calls %s.%s",
					site.CallerClass, site.CallerMethod, simple, m),
			})
		}
	}
}

// escalationPhase re-runs the usage search against each newly discovered
// caller class, up to the configured depth. The visited-class set belongs
// to this invocation alone and is separate from any tracer visited-set.
// Callers classified as controllers yield an endpoint impact tagged with
// their discovery depth.
func (e *Engine) escalationPhase(p *Project, fqcn string, out *recordSet) {
	visited := make(map[string]bool)
	visited[simpleName(fqcn)] = true
	e.escalate(p, fqcn, 1, visited, out)
}

func (e *Engine) escalate(p *Project, target string, depth int, visited map[string]bool, out *recordSet) {
	if depth > e.opts.MaxCrossRefDepth {
		e.logger.Debug("escalation: depth bound reached", "target", target, "depth", depth)
		return
	}

	for _, u := range p.findUsages(target, e.opts.ExcludeDirs) {
		if visited[u.refClass] {
			continue
		}
		visited[u.refClass] = true

		if p.detector.IsControllerFile(u.file) {
			ep := ""
			if base, ok := p.detector.ClassBasePath(u.file); ok && base != "" {
				ep = "ALL " + base
			}
			out.add(ImpactRecord{
				Project:     p.Name,
				Kind:        KindAPICall,
				File:        u.file,
				Line:        u.line,
				Snippet:     u.snippet,
				Endpoint:    ep,
				CallerClass: u.refClass,
				Depth:       depth,
				Detail: fmt.Sprintf("controller %s reaches %s at depth %d",
					u.refClass, target, depth),
			})
			continue
		}
		e.escalate(p, u.refClass, depth+1, visited, out)
	}
}

func simpleName(class string) string {
	if idx := strings.LastIndex(class, "."); idx >= 0 {
		return class[idx+1:]
	}
	return class
}

// TraceInPrimary runs the upward tracer inside the primary root, for
// changes whose impact stays within one repository.
func (e *Engine) TraceInPrimary(class, method string) []tracer.Affected {
	return e.primary.tracer.FindAffectedAPIs(simpleName(class), method)
}
