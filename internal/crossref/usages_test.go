package crossref

import (
	"regexp"
	"testing"

	"jimpact/internal/slogutil"
)

func newUsageProject(t *testing.T, files map[string]string) *Project {
	t.Helper()
	return newProject(RootSpec{Name: "p", Path: writeTree(t, files)},
		Options{ArenaSize: 16, Logger: slogutil.Discard()}, slogutil.Discard())
}

func TestFindUsagesClassification(t *testing.T) {
	p := newUsageProject(t, map[string]string{
		"Imported.java": `package com.a;
import com.svc.UserService;
public class Imported {
    private UserService userService;
}
`,
		"Wildcard.java": `package com.b;
import com.svc.*;
public class Wildcard {
    private UserService userService;
}
`,
		"Neighbor.java": `package com.svc;
public class Neighbor {
    private UserService userService;
}
`,
		// Mentions the token but has no legal way to see the class.
		"Stranger.java": `package com.other;
public class Stranger {
    // relies on UserService indirectly
}
`,
		// The declaration itself is never a usage.
		"UserService.java": `package com.svc;
public interface UserService {
}
`,
	})

	got := p.findUsages("com.svc.UserService", nil)
	kinds := make(map[string]string)
	for _, u := range got {
		kinds[u.refClass] = u.matchKind
	}

	want := map[string]string{
		"Imported": "import",
		"Wildcard": "wildcard-import",
		"Neighbor": "same-package",
	}
	if len(got) != len(want) {
		t.Fatalf("findUsages returned %d usages (%v), want %d", len(got), kinds, len(want))
	}
	for class, kind := range want {
		if kinds[class] != kind {
			t.Errorf("%s classified %q, want %q", class, kinds[class], kind)
		}
	}
}

func TestFindUsagesKeepsStrongestLine(t *testing.T) {
	p := newUsageProject(t, map[string]string{
		"Caller.java": `package com.a;
import com.svc.UserService;
public class Caller {
    private UserService userService;
    public void go() {
        UserDto u = UserService.defaultInstance();
    }
}
`,
	})

	got := p.findUsages("com.svc.UserService", nil)
	if len(got) != 1 {
		t.Fatalf("got %d usages, want 1", len(got))
	}
	if got[0].rank != 3 {
		t.Errorf("rank = %d, want 3 (static call beats field declaration)", got[0].rank)
	}
	if got[0].line != 6 {
		t.Errorf("line = %d, want 6", got[0].line)
	}
}

func TestRankLine(t *testing.T) {
	simple := "UserService"
	callRe := regexp.MustCompile(`new\s+UserService\s*\(|\bUserService\s*\.\s*\w+`)
	declRe := regexp.MustCompile(`\bUserService(?:<[^>]*>)?\s+\w+`)

	tests := []struct {
		line string
		want int
	}{
		{"new UserService(repo);", 3},
		{"UserService.lookup(id);", 3},
		{"private UserService userService;", 2},
		{"@Autowired UserService svc;", 2},
		{"import com.svc.UserService;", 1},
		{"// see UserService for details", 1},
	}
	for _, tt := range tests {
		if got := rankLine(tt.line, simple, callRe, declRe); got != tt.want {
			t.Errorf("rankLine(%q) = %d, want %d", tt.line, got, tt.want)
		}
	}
}

func TestRecordSetDeduplicates(t *testing.T) {
	s := newRecordSet()
	r := ImpactRecord{Project: "p", Kind: KindAPICall, File: "A.java", Line: 3, Endpoint: "GET /x", CallerMethod: "go"}
	s.add(r)
	s.add(r)
	// Same location, different phase detail: still one record.
	r2 := r
	r2.Detail = "other phase"
	s.add(r2)
	if len(s.records) != 1 {
		t.Fatalf("recordSet holds %d records, want 1", len(s.records))
	}

	// Changing any identity field admits the record.
	r3 := r
	r3.Line = 4
	s.add(r3)
	if len(s.records) != 2 {
		t.Errorf("recordSet holds %d records, want 2", len(s.records))
	}
}

func TestContainsToken(t *testing.T) {
	tests := []struct {
		raw   string
		token string
		want  bool
	}{
		{"private UserService svc;", "UserService", true},
		{"private UserServiceImpl svc;", "UserService", false},
		{"userService.get()", "UserService", false},
		{"UserService", "UserService", true},
		{"x", "UserService", false},
	}
	for _, tt := range tests {
		if got := containsToken([]byte(tt.raw), []byte(tt.token)); got != tt.want {
			t.Errorf("containsToken(%q, %q) = %v, want %v", tt.raw, tt.token, got, tt.want)
		}
	}
}
