package crossref

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"jimpact/internal/walk"
)

// usage is one sibling file's strongest reference to a class.
type usage struct {
	file      string
	line      int
	snippet   string
	matchKind string // "import", "fqn", "same-package", "wildcard-import"
	rank      int    // 3 call/instantiation, 2 declaration/annotation, 1 bare import
	refClass  string // simple name of the referencing file's class
}

// findUsages scans every source file of a project for references to the
// target class. The target may be fully qualified or a bare simple name
// (during recursive escalation the package is unknown).
//
// Per file only the single highest-confidence line is kept, ranked
// call/instantiation > declaration/annotation > bare import.
func (p *Project) findUsages(target string, excludeDirs []string) []usage {
	simple := target
	pkg := ""
	if idx := strings.LastIndex(target, "."); idx >= 0 {
		simple = target[idx+1:]
		pkg = target[:idx]
	}

	token := []byte(simple)
	callRe := regexp.MustCompile(`new\s+` + regexp.QuoteMeta(simple) + `\s*\(|\b` + regexp.QuoteMeta(simple) + `\s*\.\s*\w+`)
	declRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(simple) + `(?:<[^>]*>)?\s+\w+`)

	var usages []usage
	w := walk.New(p.Root, excludeDirs)
	_ = w.Sources(".java", func(path string) error {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		if !containsToken(raw, token) {
			return nil
		}
		text := string(raw)
		lines := strings.Split(text, "\n")

		// A file declaring the class itself is its declaration, not a
		// usage of it.
		if declaresClass(lines, simple) {
			return nil
		}

		kind := classifyFile(text, lines, simple, pkg)
		if kind == "" {
			return nil
		}

		best := usage{rank: 0}
		for i, line := range lines {
			trimmed := strings.TrimSpace(line)
			if !strings.Contains(trimmed, simple) {
				continue
			}
			rank := rankLine(trimmed, simple, callRe, declRe)
			if rank > best.rank {
				best = usage{
					file:      path,
					line:      i + 1,
					snippet:   trimmed,
					matchKind: kind,
					rank:      rank,
					refClass:  strings.TrimSuffix(filepath.Base(path), ".java"),
				}
			}
		}
		if best.rank > 0 {
			usages = append(usages, best)
		}
		return nil
	})
	return usages
}

// classifyFile decides how a file can see the target class. An empty
// return means the file cannot legally reference it and any token match is
// coincidence.
func classifyFile(text string, lines []string, simple, pkg string) string {
	if pkg == "" {
		// Simple-name target: visibility cannot be verified, accept the
		// token match as-is.
		return "same-package"
	}
	fqn := pkg + "." + simple
	if strings.Contains(text, "import "+fqn+";") {
		return "import"
	}
	if strings.Contains(text, "import "+pkg+".*;") {
		return "wildcard-import"
	}
	if strings.Contains(text, fqn) {
		return "fqn"
	}
	if filePackage(lines) == pkg {
		return "same-package"
	}
	return ""
}

// rankLine scores one referencing line.
func rankLine(line, simple string, callRe, declRe *regexp.Regexp) int {
	if callRe.MatchString(line) {
		return 3
	}
	if strings.HasPrefix(line, "@") || declRe.MatchString(line) {
		return 2
	}
	if strings.HasPrefix(line, "import ") {
		return 1
	}
	// A bare mention (javadoc, string literal) scores like an import.
	return 1
}

var packageLine = regexp.MustCompile(`^\s*package\s+([\w.]+)\s*;`)

func filePackage(lines []string) string {
	for _, line := range lines {
		if m := packageLine.FindStringSubmatch(line); m != nil {
			return m[1]
		}
		if strings.Contains(line, "class ") || strings.Contains(line, "interface ") {
			break
		}
	}
	return ""
}

// declaresClass reports whether the file declares the named class,
// interface, or enum at top level.
func declaresClass(lines []string, simple string) bool {
	re := regexp.MustCompile(`\b(?:class|interface|enum)\s+` + regexp.QuoteMeta(simple) + `\b`)
	for _, line := range lines {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// containsToken checks for the simple name as a whole word, cheaply.
func containsToken(raw, token []byte) bool {
	for idx := 0; ; {
		i := bytes.Index(raw[idx:], token)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(token)
		beforeOK := start == 0 || !isWordByte(raw[start-1])
		afterOK := end >= len(raw) || !isWordByte(raw[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
		if idx >= len(raw) {
			return false
		}
	}
}

func isWordByte(b byte) bool {
	return b == '_' || b == '$' ||
		(b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
