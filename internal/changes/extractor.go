// Package changes maps a unified diff's changed lines to the enclosing
// method names in the post-change file.
package changes

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"

	"jimpact/internal/javaparse"
)

// Extractor attributes diff changes to precise method names.
type Extractor struct {
	arena  *javaparse.Arena
	logger *slog.Logger
}

// NewExtractor creates an Extractor sharing the run's parse arena.
func NewExtractor(arena *javaparse.Arena, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{arena: arena, logger: logger}
}

// ExtractChangedMethods returns the names of the methods containing the
// diff's added lines, in first-seen order.
//
// When the post-change file at filePath parses, each method's span runs
// from its declaration start to the line before the next method's start
// (the last span runs to end of file), and every added line is attributed
// to the span containing it. When the file is missing or unparsable, a
// weaker heuristic matches method-declaration-shaped tokens in hunk
// section headers and added lines instead.
func (e *Extractor) ExtractChangedMethods(diffText, filePath string) []string {
	hunks, err := parseHunks(diffText)
	if err != nil {
		e.logger.Debug("changes: unparsable diff", "error", err)
		return nil
	}

	if filePath != "" {
		if unit, err := e.arena.Load(filePath); err == nil {
			if names := attributeBySpans(unit, addedLineNumbers(hunks)); len(names) > 0 {
				return names
			}
			// A parsed file with no attributable lines (e.g. changes
			// outside any method) yields nothing rather than guesses.
			return nil
		}
		e.logger.Debug("changes: file unavailable, falling back to declaration heuristic", "path", filePath)
	}

	return heuristicMethodNames(hunks)
}

// addedLineNumbers recomputes the resulting line number of every added
// line in the new file: context and added lines advance the counter,
// removed lines do not.
func addedLineNumbers(hunks []*godiff.Hunk) []int {
	var lines []int
	for _, h := range hunks {
		newLine := int(h.NewStartLine)
		for _, line := range strings.Split(string(h.Body), "\n") {
			if line == "" {
				continue
			}
			switch line[0] {
			case '+':
				lines = append(lines, newLine)
				newLine++
			case '-':
				// removed line: no line exists in the new file
			case '\\':
				// "\ No newline at end of file"
			default:
				newLine++
			}
		}
	}
	return lines
}

// methodSpan is one method's line range in the post-change file.
type methodSpan struct {
	name  string
	start int
	end   int
}

// attributeBySpans maps added line numbers to enclosing methods.
func attributeBySpans(unit *javaparse.Unit, lines []int) []string {
	var spans []methodSpan
	for i := range unit.Classes {
		for _, m := range unit.Classes[i].Methods {
			spans = append(spans, methodSpan{name: m.Name, start: m.StartLine})
		}
	}
	if len(spans) == 0 {
		return nil
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	for i := range spans {
		if i+1 < len(spans) {
			spans[i].end = spans[i+1].start - 1
		} else {
			spans[i].end = unit.LineCount()
		}
	}

	var names []string
	seen := make(map[string]bool)
	for _, line := range lines {
		for _, s := range spans {
			if line >= s.start && line <= s.end {
				if !seen[s.name] {
					seen[s.name] = true
					names = append(names, s.name)
				}
				break
			}
		}
	}
	return names
}

// methodDecl matches method-declaration-shaped tokens. Capture group 1 is
// the candidate method name.
var methodDecl = regexp.MustCompile(`(?:public|protected|private|static|final|synchronized|default)\s+[\w$<>\[\].,\s]*?([A-Za-z_$][\w$]*)\s*\(`)

// notMethods filters control-flow and allocation tokens the declaration
// regex can capture.
var notMethods = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true,
	"catch": true, "return": true, "new": true, "super": true, "this": true,
}

// heuristicMethodNames is the no-parse fallback: scan hunk section headers
// and added lines for declaration-shaped tokens.
func heuristicMethodNames(hunks []*godiff.Hunk) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(text string) {
		for _, m := range methodDecl.FindAllStringSubmatch(text, -1) {
			name := m[1]
			if notMethods[name] || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}

	for _, h := range hunks {
		add(h.Section)
		for _, line := range strings.Split(string(h.Body), "\n") {
			if len(line) > 0 && line[0] == '+' {
				add(line[1:])
			}
		}
	}
	return names
}

// parseHunks accepts either a full file diff or bare hunk text.
func parseHunks(diffText string) ([]*godiff.Hunk, error) {
	if fd, err := godiff.ParseFileDiff([]byte(diffText)); err == nil {
		return fd.Hunks, nil
	}
	return godiff.ParseHunks([]byte(diffText))
}
