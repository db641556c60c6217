// Package index builds the interface/implementation alias maps for one
// project tree. Callers usually reference interface types rather than
// concrete implementations, so the upward tracer needs both directions.
package index

import (
	"log/slog"
	"sort"

	"jimpact/internal/javaparse"
	"jimpact/internal/walk"
)

// Index holds interface/implementation relationships for one project root.
// It is built once per analysis run and read-only afterward.
type Index struct {
	Root string

	// InterfaceImpls maps an interface simple name to the FQNs of the
	// classes implementing it.
	InterfaceImpls map[string][]string
	// ImplInterfaces maps an implementation simple name to the simple
	// names of the interfaces it declares.
	ImplInterfaces map[string][]string
	// ClassFiles maps a class simple name to the files declaring it.
	ClassFiles map[string][]string

	filesScanned int
	filesSkipped int
}

// Build scans every Java source file under root once and records both
// alias directions. Parse failures skip the file and never abort the build.
func Build(root string, arena *javaparse.Arena, excludeDirs []string, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	ix := &Index{
		Root:           root,
		InterfaceImpls: make(map[string][]string),
		ImplInterfaces: make(map[string][]string),
		ClassFiles:     make(map[string][]string),
	}

	w := walk.New(root, excludeDirs)
	_ = w.Sources(".java", func(path string) error {
		unit, err := arena.Load(path)
		if err != nil {
			ix.filesSkipped++
			logger.Debug("index: skipping unparsable file", "path", path, "error", err)
			return nil
		}
		ix.filesScanned++
		for i := range unit.Classes {
			ix.record(unit, &unit.Classes[i])
		}
		return nil
	})

	ix.sortAll()
	logger.Debug("index built",
		"root", root,
		"scanned", ix.filesScanned,
		"skipped", ix.filesSkipped,
		"interfaces", len(ix.InterfaceImpls),
	)
	return ix
}

func (ix *Index) record(unit *javaparse.Unit, cls *javaparse.Class) {
	ix.ClassFiles[cls.Name] = append(ix.ClassFiles[cls.Name], unit.Path)

	if cls.Kind != "class" || len(cls.Interfaces) == 0 {
		return
	}
	fqn := unit.FQN(cls)
	for _, iface := range cls.Interfaces {
		ix.InterfaceImpls[iface] = appendUnique(ix.InterfaceImpls[iface], fqn)
		ix.ImplInterfaces[cls.Name] = appendUnique(ix.ImplInterfaces[cls.Name], iface)
	}
}

// InterfacesOf returns the interface simple names declared by the class
// with the given simple name, or nil when it is not a known implementation.
func (ix *Index) InterfacesOf(className string) []string {
	return ix.ImplInterfaces[className]
}

// ImplementationsOf returns the implementation FQNs of an interface simple
// name.
func (ix *Index) ImplementationsOf(ifaceName string) []string {
	return ix.InterfaceImpls[ifaceName]
}

// FilesScanned returns the number of files successfully indexed.
func (ix *Index) FilesScanned() int { return ix.filesScanned }

// FilesSkipped returns the number of files skipped due to parse failure.
func (ix *Index) FilesSkipped() int { return ix.filesSkipped }

// sortAll makes map values deterministic so identical trees produce
// identical indexes.
func (ix *Index) sortAll() {
	for _, v := range ix.InterfaceImpls {
		sort.Strings(v)
	}
	for _, v := range ix.ImplInterfaces {
		sort.Strings(v)
	}
	for _, v := range ix.ClassFiles {
		sort.Strings(v)
	}
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
