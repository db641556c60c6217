//go:build cgo

package javaparse

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

const available = true

// parse parses Java source into a Unit using tree-sitter.
func parse(path string, src []byte) (*Unit, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("parse %s: no syntax tree", path)
	}

	u := &Unit{
		Path:  path,
		lines: strings.Split(string(src), "\n"),
	}

	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "package_declaration":
			u.Package = packageName(child, src)
		case "import_declaration":
			if imp := importTarget(child, src); imp != "" {
				u.Imports = append(u.Imports, imp)
			}
		case "class_declaration", "interface_declaration", "enum_declaration":
			if cls := extractClass(child, src, u.lines); cls != nil {
				u.Classes = append(u.Classes, *cls)
			}
		}
	}

	return u, nil
}

func nodeText(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return string(src[n.StartByte():n.EndByte()])
}

func packageName(n *sitter.Node, src []byte) string {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c != nil && (c.Type() == "scoped_identifier" || c.Type() == "identifier") {
			return nodeText(c, src)
		}
	}
	return ""
}

// importTarget returns the imported name, keeping a trailing ".*" for
// wildcard imports.
func importTarget(n *sitter.Node, src []byte) string {
	text := strings.TrimSpace(nodeText(n, src))
	text = strings.TrimPrefix(text, "import")
	text = strings.TrimSuffix(strings.TrimSpace(text), ";")
	text = strings.TrimPrefix(strings.TrimSpace(text), "static ")
	return strings.TrimSpace(text)
}

func extractClass(n *sitter.Node, src []byte, lines []string) *Class {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	cls := &Class{
		Name:      nodeText(nameNode, src),
		StartLine: int(n.StartPoint().Row) + 1,
	}
	switch n.Type() {
	case "interface_declaration":
		cls.Kind = "interface"
	case "enum_declaration":
		cls.Kind = "enum"
	default:
		cls.Kind = "class"
	}

	cls.Annotations = extractAnnotations(n, src)
	cls.Interfaces = extractInterfaces(n, src)

	body := n.ChildByFieldName("body")
	if body != nil {
		for i := 0; i < int(body.ChildCount()); i++ {
			c := body.Child(i)
			if c == nil {
				continue
			}
			if c.Type() == "method_declaration" || c.Type() == "constructor_declaration" {
				if m := extractMethod(c, src, lines); m != nil {
					cls.Methods = append(cls.Methods, *m)
				}
			}
		}
	}

	return cls
}

// extractInterfaces collects implemented interface simple names from the
// "interfaces" clause. Generic arguments are stripped: List<User> -> List.
func extractInterfaces(n *sitter.Node, src []byte) []string {
	var out []string
	ifaces := n.ChildByFieldName("interfaces")
	if ifaces == nil {
		return nil
	}
	var walk func(*sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}
		switch node.Type() {
		case "type_identifier":
			out = append(out, nodeText(node, src))
			return
		case "scoped_type_identifier":
			// Keep the simple name only.
			text := nodeText(node, src)
			if idx := strings.LastIndex(text, "."); idx >= 0 {
				text = text[idx+1:]
			}
			out = append(out, text)
			return
		case "generic_type":
			// First child is the raw type name.
			walk(node.Child(0))
			return
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	walk(ifaces)
	return out
}

func extractMethod(n *sitter.Node, src []byte, lines []string) *Method {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	m := &Method{
		Name:        nodeText(nameNode, src),
		StartLine:   int(n.StartPoint().Row) + 1,
		EndLine:     int(n.EndPoint().Row) + 1,
		Annotations: extractAnnotations(n, src),
	}

	if params := n.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.ChildCount()); i++ {
			p := params.Child(i)
			if p == nil {
				continue
			}
			if p.Type() == "formal_parameter" || p.Type() == "spread_parameter" {
				if t := p.ChildByFieldName("type"); t != nil {
					m.Params = append(m.Params, nodeText(t, src))
				}
			}
		}
	}

	if body := n.ChildByFieldName("body"); body != nil {
		m.Invocations = extractInvocations(body, src, lines)
	}

	return m
}

func extractInvocations(body *sitter.Node, src []byte, lines []string) []Invocation {
	var out []Invocation
	var walk func(*sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}
		if node.Type() == "method_invocation" {
			if name := node.ChildByFieldName("name"); name != nil {
				line := int(node.StartPoint().Row) + 1
				snippet := ""
				if line >= 1 && line <= len(lines) {
					snippet = strings.TrimSpace(lines[line-1])
				}
				out = append(out, Invocation{
					Name:    nodeText(name, src),
					Line:    line,
					Snippet: snippet,
				})
			}
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	walk(body)
	return out
}

// extractAnnotations reads annotations from a declaration's modifiers node.
func extractAnnotations(n *sitter.Node, src []byte) []Annotation {
	var out []Annotation
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil || c.Type() != "modifiers" {
			continue
		}
		for j := 0; j < int(c.ChildCount()); j++ {
			a := c.Child(j)
			if a == nil {
				continue
			}
			switch a.Type() {
			case "marker_annotation":
				if name := a.ChildByFieldName("name"); name != nil {
					out = append(out, Annotation{Name: nodeText(name, src)})
				}
			case "annotation":
				if ann := extractAnnotation(a, src); ann != nil {
					out = append(out, *ann)
				}
			}
		}
	}
	return out
}

func extractAnnotation(n *sitter.Node, src []byte) *Annotation {
	name := n.ChildByFieldName("name")
	if name == nil {
		return nil
	}
	ann := &Annotation{Name: nodeText(name, src), Args: map[string]string{}}

	args := n.ChildByFieldName("arguments")
	if args == nil {
		return ann
	}
	for i := 0; i < int(args.ChildCount()); i++ {
		c := args.Child(i)
		if c == nil {
			continue
		}
		switch c.Type() {
		case "element_value_pair":
			key := nodeText(c.ChildByFieldName("key"), src)
			ann.Args[key] = annotationValue(c.ChildByFieldName("value"), src)
		case "string_literal", "field_access", "identifier", "element_value_array_initializer":
			ann.Args[""] = annotationValue(c, src)
		}
	}
	return ann
}

// annotationValue renders an annotation argument as a plain string: string
// literals lose their quotes, array initializers keep their first element.
func annotationValue(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case "string_literal":
		return strings.Trim(nodeText(n, src), `"`)
	case "element_value_array_initializer":
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if c != nil && c.Type() == "string_literal" {
				return strings.Trim(nodeText(c, src), `"`)
			}
		}
		return ""
	default:
		return nodeText(n, src)
	}
}
