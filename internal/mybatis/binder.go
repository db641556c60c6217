// Package mybatis maps changed mapper XML files to the Java interface
// methods their SQL statements bind to.
package mybatis

import (
	"encoding/xml"
	"log/slog"
	"os"
	"regexp"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"
)

// StatementRef is one (mapper interface FQN, statement id) pair derived
// from a changed mapper XML. The statement id equals the interface method
// name it binds to.
type StatementRef struct {
	Namespace   string `json:"namespace"`
	StatementID string `json:"statementId"`
}

// sqlTagID matches a statement id declared on a recognized SQL tag.
var sqlTagID = regexp.MustCompile(`<(?:select|insert|update|delete)\b[^>]*\bid="([^"]+)"`)

// anyID matches any id attribute. Used only by the whole-diff fallback.
var anyID = regexp.MustCompile(`\bid="([^"]+)"`)

// namespaceAttr recovers the namespace from diff text when the mapper file
// itself is unreadable.
var namespaceAttr = regexp.MustCompile(`\bnamespace="([^"]+)"`)

// Binder resolves mapper XML changes to trace targets.
type Binder struct {
	logger *slog.Logger
}

// NewBinder creates a Binder.
func NewBinder(logger *slog.Logger) *Binder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Binder{logger: logger}
}

// AnalyzeXMLChange maps a changed mapper XML file plus its unified diff to
// the (namespace, statementId) pairs affected by the change.
//
// The namespace comes from the mapper file's root element; a mapper with
// no namespace contributes no mappings. Statement ids are collected from
// added/removed diff lines that declare a recognized SQL tag. When only
// statement bodies changed, the whole diff is scanned for any id
// occurrence instead; this fallback is knowingly over-inclusive and may
// attribute unrelated statement ids as changed. Downstream consumers rely
// on the conservative superset.
func (b *Binder) AnalyzeXMLChange(xmlPath, diffText string) []StatementRef {
	ns := b.namespace(xmlPath, diffText)
	if ns == "" {
		b.logger.Debug("mybatis: mapper has no namespace, no mappings", "path", xmlPath)
		return nil
	}

	ids := changedStatementIDs(diffText)
	if len(ids) == 0 {
		ids = fallbackStatementIDs(diffText)
		if len(ids) > 0 {
			b.logger.Debug("mybatis: no SQL tag on changed lines, using whole-diff id scan",
				"path", xmlPath, "ids", len(ids))
		}
	}

	refs := make([]StatementRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, StatementRef{Namespace: ns, StatementID: id})
	}
	return refs
}

// namespace reads the mapper's namespace attribute, preferring the file on
// disk and falling back to the diff text when the file is unavailable.
func (b *Binder) namespace(xmlPath, diffText string) string {
	if raw, err := os.ReadFile(xmlPath); err == nil {
		if ns := parseNamespace(raw); ns != "" {
			return ns
		}
		return ""
	}
	if m := namespaceAttr.FindStringSubmatch(diffText); m != nil {
		return m[1]
	}
	return ""
}

// parseNamespace pulls the namespace attribute off the <mapper> root
// element. Malformed XML past the root element does not matter.
func parseNamespace(raw []byte) string {
	dec := xml.NewDecoder(strings.NewReader(string(raw)))
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "mapper" {
			return ""
		}
		for _, attr := range start.Attr {
			if attr.Name.Local == "namespace" {
				return attr.Value
			}
		}
		return ""
	}
}

// changedStatementIDs collects statement ids declared on added or removed
// diff lines, in first-seen order.
func changedStatementIDs(diffText string) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, line := range changedLines(diffText) {
		if m := sqlTagID.FindStringSubmatch(line); m != nil && !seen[m[1]] {
			seen[m[1]] = true
			ids = append(ids, m[1])
		}
	}
	return ids
}

// fallbackStatementIDs scans every hunk line, changed or not, for any id
// attribute. Deliberately over-inclusive; see AnalyzeXMLChange.
func fallbackStatementIDs(diffText string) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, line := range hunkLines(diffText) {
		if m := anyID.FindStringSubmatch(line); m != nil && !seen[m[1]] {
			seen[m[1]] = true
			ids = append(ids, m[1])
		}
	}
	return ids
}

// changedLines returns the content of added and removed lines across all
// hunks. Unparsable diff text degrades to a plain line scan of lines that
// look added/removed.
func changedLines(diffText string) []string {
	var out []string
	hunks, err := parseHunks(diffText)
	if err != nil {
		for _, line := range strings.Split(diffText, "\n") {
			if isChangeLine(line) {
				out = append(out, line[1:])
			}
		}
		return out
	}
	for _, h := range hunks {
		for _, line := range strings.Split(string(h.Body), "\n") {
			if isChangeLine(line) {
				out = append(out, line[1:])
			}
		}
	}
	return out
}

// hunkLines returns every line of every hunk body, including context.
func hunkLines(diffText string) []string {
	hunks, err := parseHunks(diffText)
	if err != nil {
		return strings.Split(diffText, "\n")
	}
	var out []string
	for _, h := range hunks {
		for _, line := range strings.Split(string(h.Body), "\n") {
			out = append(out, strings.TrimLeft(line, "+- "))
		}
	}
	return out
}

// parseHunks accepts either a full file diff or bare hunk text.
func parseHunks(diffText string) ([]*godiff.Hunk, error) {
	if fd, err := godiff.ParseFileDiff([]byte(diffText)); err == nil {
		return fd.Hunks, nil
	}
	return godiff.ParseHunks([]byte(diffText))
}

func isChangeLine(line string) bool {
	if len(line) < 1 {
		return false
	}
	if strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---") {
		return false
	}
	return line[0] == '+' || line[0] == '-'
}
