// Package javaparse provides heuristic Java source parsing for impact
// analysis. It extracts class, method, annotation, and invocation facts from
// a tree-sitter AST into plain structs so downstream packages never touch
// the parser directly.
package javaparse

import (
	"errors"
	"strings"
)

// ErrUnavailable is returned when the tree-sitter parser was compiled out
// (cgo disabled). Callers treat it like any other parse failure.
var ErrUnavailable = errors.New("javaparse: tree-sitter parser not available")

// Unit is one parsed Java source file.
type Unit struct {
	Path    string
	Package string
	Imports []string // import targets as written, e.g. "com.a.B" or "com.a.*"
	Classes []Class

	lines []string
}

// Class is a top-level class, interface, or enum declaration.
type Class struct {
	Name        string
	Kind        string // "class", "interface", "enum"
	Interfaces  []string
	Annotations []Annotation
	Methods     []Method
	StartLine   int // 1-indexed
}

// Method is a method or constructor declaration.
type Method struct {
	Name        string
	Params      []string // declared parameter type names, in order
	Annotations []Annotation
	Invocations []Invocation
	StartLine   int // 1-indexed, includes leading annotations
	EndLine     int
}

// Annotation is a single annotation with its arguments.
// A lone unnamed value (e.g. @GetMapping("/x")) is stored under Args[""].
type Annotation struct {
	Name string
	Args map[string]string
}

// Invocation is one method call site inside a method body.
type Invocation struct {
	Name    string // invoked member name, receiver-agnostic
	Line    int    // 1-indexed
	Snippet string // trimmed source line
}

// Available reports whether real parsing is compiled in.
func Available() bool { return available }

// Parse parses Java source bytes into a Unit. Returns ErrUnavailable when
// the parser is compiled out, or a parse error for unusable source.
func Parse(path string, src []byte) (*Unit, error) {
	return parse(path, src)
}

// LineText returns the trimmed text of a 1-indexed source line, or "" when
// out of range.
func (u *Unit) LineText(n int) string {
	if n < 1 || n > len(u.lines) {
		return ""
	}
	return strings.TrimSpace(u.lines[n-1])
}

// LineCount returns the number of source lines in the unit.
func (u *Unit) LineCount() int { return len(u.lines) }

// PrimaryClass returns the file's primary declared class: the first
// top-level class declaration, falling back to the first declaration of any
// kind. Returns nil for files without declarations.
func (u *Unit) PrimaryClass() *Class {
	for i := range u.Classes {
		if u.Classes[i].Kind == "class" {
			return &u.Classes[i]
		}
	}
	if len(u.Classes) > 0 {
		return &u.Classes[0]
	}
	return nil
}

// FQN returns the fully-qualified name of a class in this unit.
func (u *Unit) FQN(c *Class) string {
	if u.Package == "" {
		return c.Name
	}
	return u.Package + "." + c.Name
}

// Value returns the annotation's path-like value: the unnamed argument, or
// the "value"/"path" argument. Quotes are already stripped.
func (a Annotation) Value() string {
	if v, ok := a.Args[""]; ok {
		return v
	}
	if v, ok := a.Args["value"]; ok {
		return v
	}
	return a.Args["path"]
}

// FindMethod returns the first declared method with the given name.
func (c *Class) FindMethod(name string) *Method {
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			return &c.Methods[i]
		}
	}
	return nil
}

// HasAnnotation reports whether any of the class's annotations has one of
// the given simple names.
func (c *Class) HasAnnotation(names ...string) bool {
	for _, a := range c.Annotations {
		for _, n := range names {
			if a.Name == n {
				return true
			}
		}
	}
	return false
}
