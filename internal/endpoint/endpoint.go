// Package endpoint classifies (file, method) pairs as externally reachable
// HTTP endpoints based on Spring MVC annotations.
package endpoint

import (
	"log/slog"
	"os"
	"strings"

	"jimpact/internal/javaparse"
)

// Endpoint is an externally reachable (HTTP verb, path) pair.
type Endpoint struct {
	Verb string `json:"verb"` // GET, POST, PUT, DELETE, or ALL
	Path string `json:"path"`
}

// String renders "GET /user/info". Used as the dedup key for trace results.
func (e Endpoint) String() string { return e.Verb + " " + e.Path }

// verb-specific mapping annotations.
var mappingVerbs = map[string]string{
	"GetMapping":    "GET",
	"PostMapping":   "POST",
	"PutMapping":    "PUT",
	"DeleteMapping": "DELETE",
}

// controllerMarkers are the class annotations that make methods externally
// reachable.
var controllerMarkers = []string{"RestController", "Controller"}

// Detector decides whether a method is an API entry point.
type Detector struct {
	arena  *javaparse.Arena
	logger *slog.Logger
}

// NewDetector creates a Detector sharing the run's parse arena.
func NewDetector(arena *javaparse.Arena, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{arena: arena, logger: logger}
}

// IsControllerFile cheaply checks the raw text for a controller marker
// annotation without parsing.
func (d *Detector) IsControllerFile(file string) bool {
	raw, err := os.ReadFile(file)
	if err != nil {
		return false
	}
	text := string(raw)
	for _, marker := range controllerMarkers {
		if strings.Contains(text, "@"+marker) {
			return true
		}
	}
	return false
}

// Detect returns the endpoint exposed by methodName in file, or nil when
// the file is not a controller or the method carries no mapping annotation.
//
// A generic @RequestMapping defaults to verb ALL unless it carries an
// explicit method attribute. When a method has several mapping annotations
// the first encountered wins.
func (d *Detector) Detect(file, methodName string) *Endpoint {
	if !d.IsControllerFile(file) {
		return nil
	}

	unit, err := d.arena.Load(file)
	if err != nil {
		d.logger.Debug("endpoint: skipping unparsable file", "path", file, "error", err)
		return nil
	}

	for i := range unit.Classes {
		cls := &unit.Classes[i]
		if !cls.HasAnnotation(controllerMarkers...) {
			continue
		}

		basePath := ""
		for _, a := range cls.Annotations {
			if a.Name == "RequestMapping" {
				basePath = a.Value()
				break
			}
		}

		m := cls.FindMethod(methodName)
		if m == nil {
			continue
		}
		for _, a := range m.Annotations {
			verb, sub, ok := mappingOf(a)
			if !ok {
				continue
			}
			return &Endpoint{Verb: verb, Path: CombinePath(basePath, sub)}
		}
	}
	return nil
}

// ClassBasePath returns the class-level base path of the file's controller,
// and whether the file declares a controller at all. Used when a controller
// is discovered through cross-repository escalation without a known method.
func (d *Detector) ClassBasePath(file string) (string, bool) {
	if !d.IsControllerFile(file) {
		return "", false
	}
	unit, err := d.arena.Load(file)
	if err != nil {
		return "", false
	}
	for i := range unit.Classes {
		cls := &unit.Classes[i]
		if !cls.HasAnnotation(controllerMarkers...) {
			continue
		}
		for _, a := range cls.Annotations {
			if a.Name == "RequestMapping" {
				return CombinePath(a.Value(), ""), true
			}
		}
		return "", true
	}
	return "", false
}

// mappingOf resolves one annotation to a (verb, path). Verb-specific
// annotations resolve directly; RequestMapping yields ALL unless an
// explicit method attribute names a verb.
func mappingOf(a javaparse.Annotation) (verb, path string, ok bool) {
	if v, found := mappingVerbs[a.Name]; found {
		return v, a.Value(), true
	}
	if a.Name != "RequestMapping" {
		return "", "", false
	}
	verb = "ALL"
	if m := a.Args["method"]; m != "" {
		// e.g. "RequestMethod.GET" or "{RequestMethod.POST}"
		for _, v := range []string{"GET", "POST", "PUT", "DELETE"} {
			if strings.Contains(m, v) {
				verb = v
				break
			}
		}
	}
	return verb, a.Value(), true
}

// CombinePath joins a class-level base path with a method-level path:
// single separator between segments, repeated separators collapsed, a
// guaranteed leading separator, and no trailing separator unless the
// result is the root path alone.
func CombinePath(base, sub string) string {
	joined := "/" + base + "/" + sub
	for strings.Contains(joined, "//") {
		joined = strings.ReplaceAll(joined, "//", "/")
	}
	if len(joined) > 1 {
		joined = strings.TrimSuffix(joined, "/")
	}
	if joined == "" {
		return "/"
	}
	return joined
}
