package crossref

import (
	"log/slog"

	"jimpact/internal/callers"
	"jimpact/internal/endpoint"
	"jimpact/internal/index"
	"jimpact/internal/javaparse"
	"jimpact/internal/tracer"
)

// RootSpec names one project root.
type RootSpec struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Project owns the per-root analysis state: one parse arena, one source
// index, and one upward tracer, built once per run and reused for every
// query against that root.
type Project struct {
	Name string
	Root string

	arena    *javaparse.Arena
	index    *index.Index
	tracer   *tracer.Tracer
	resolver *callers.Resolver
	detector *endpoint.Detector
}

func newProject(spec RootSpec, opts Options, logger *slog.Logger) *Project {
	arena := javaparse.NewArena(opts.ArenaSize)
	ix := index.Build(spec.Path, arena, opts.ExcludeDirs, logger)
	return &Project{
		Name:     spec.Name,
		Root:     spec.Path,
		arena:    arena,
		index:    ix,
		tracer:   tracer.New(spec.Path, ix, arena, opts.ExcludeDirs, opts.MaxTraceDepth, logger),
		resolver: callers.NewResolver(arena, opts.ExcludeDirs, logger),
		detector: endpoint.NewDetector(arena, logger),
	}
}

// Index exposes the project's alias maps.
func (p *Project) Index() *index.Index { return p.index }

// Tracer exposes the project's upward tracer.
func (p *Project) Tracer() *tracer.Tracer { return p.tracer }
