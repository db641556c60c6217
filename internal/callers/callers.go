// Package callers finds call sites of a (class, method) pair across one
// project tree.
package callers

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"jimpact/internal/javaparse"
	"jimpact/internal/walk"
)

// CallSite is one location where a method invokes the target method.
type CallSite struct {
	File         string `json:"file"`
	CallerClass  string `json:"callerClass"`
	CallerMethod string `json:"callerMethod"`
	// Signature is the caller's own declared signature, name plus
	// parameter types. Recorded for diagnostics only; overload
	// resolution is intentionally name-based.
	Signature string `json:"signature"`
	Line      int    `json:"line"`
	Snippet   string `json:"snippet"`
}

// Resolver scans a tree for invocations of a target method.
type Resolver struct {
	arena       *javaparse.Arena
	excludeDirs []string
	logger      *slog.Logger
}

// NewResolver creates a Resolver sharing the run's parse arena.
func NewResolver(arena *javaparse.Arena, excludeDirs []string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{arena: arena, excludeDirs: excludeDirs, logger: logger}
}

// FindCallers returns every call site of (class, method) under root.
//
// Files whose raw text does not contain the method name token are skipped
// before parsing. Filenames containing "Test" are excluded so results stay
// focused on production entry points. At most one CallSite is recorded per
// (file, enclosing method); the first matching invocation wins.
func (r *Resolver) FindCallers(root, class, method string) []CallSite {
	var sites []CallSite
	token := []byte(method)

	w := walk.New(root, r.excludeDirs)
	_ = w.Sources(".java", func(path string) error {
		if strings.Contains(filepath.Base(path), "Test") {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		// Cheap pre-check: a file that never mentions the method name
		// cannot contain a call site.
		if !bytes.Contains(raw, token) {
			return nil
		}

		unit, err := r.arena.LoadBytes(path, raw)
		if err != nil {
			r.logger.Debug("callers: skipping unparsable file", "path", path, "error", err)
			return nil
		}

		cls := unit.PrimaryClass()
		if cls == nil {
			return nil
		}
		// The changed class's own file contributes self-calls only when
		// another method invokes the target, which still counts.
		for i := range cls.Methods {
			m := &cls.Methods[i]
			for _, inv := range m.Invocations {
				if inv.Name != method {
					continue
				}
				sites = append(sites, CallSite{
					File:         path,
					CallerClass:  cls.Name,
					CallerMethod: m.Name,
					Signature:    signature(m),
					Line:         inv.Line,
					Snippet:      inv.Snippet,
				})
				break // first match wins per enclosing method
			}
		}
		return nil
	})

	return sites
}

// signature renders "name(TypeA, TypeB)" from the caller's declared
// parameter types.
func signature(m *javaparse.Method) string {
	return fmt.Sprintf("%s(%s)", m.Name, strings.Join(m.Params, ", "))
}
