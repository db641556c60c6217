package crossref

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"jimpact/internal/javaparse"
	"jimpact/internal/slogutil"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func requireParser(t *testing.T) {
	t.Helper()
	if !javaparse.Available() {
		t.Skip("tree-sitter parser not available (cgo disabled)")
	}
}

var primaryTree = map[string]string{
	"service/UserService.java": `package com.svc;
public interface UserService {
    UserDto getUserById(Long id);
}
`,
	"service/UserServiceImpl.java": `package com.svc;
public class UserServiceImpl implements UserService {
    public UserDto getUserById(Long id) { return null; }
}
`,
}

var siblingTree = map[string]string{
	"client/OrderClient.java": `package com.order.client;

import com.svc.UserService;

public class OrderClient {
    private UserService userService;

    public UserDto load(Long id) {
        return userService.getUserById(id);
    }
}
`,
	"web/OrderController.java": `package com.order.web;

import com.order.client.OrderClient;

@RestController
@RequestMapping("/order")
public class OrderController {
    private OrderClient orderClient;

    @GetMapping("/detail")
    public OrderDto detail(Long id) {
        return orderClient.load(id);
    }
}
`,
}

func newTestEngine(t *testing.T, siblingFiles map[string]string, maxCrossRefDepth int) *Engine {
	t.Helper()
	requireParser(t)
	primary := RootSpec{Name: "user-core", Path: writeTree(t, primaryTree)}
	sibling := RootSpec{Name: "order-api", Path: writeTree(t, siblingFiles)}
	return NewEngine(primary, []RootSpec{sibling}, Options{
		ArenaSize:        64,
		MaxCrossRefDepth: maxCrossRefDepth,
		Logger:           slogutil.Discard(),
	})
}

func TestAnalyzeAcrossProjects(t *testing.T) {
	e := newTestEngine(t, siblingTree, 0)

	records := e.Analyze("com.svc.UserService", []string{"getUserById"})
	if len(records) == 0 {
		t.Fatal("no impact records")
	}

	byKind := make(map[Kind][]ImpactRecord)
	for _, r := range records {
		if r.Project != "order-api" {
			t.Errorf("record project = %q, want order-api", r.Project)
		}
		byKind[r.Kind] = append(byKind[r.Kind], r)
	}

	// OrderClient imports and holds the changed class.
	refs := byKind[KindClassReference]
	if len(refs) != 1 || refs[0].CallerClass != "OrderClient" {
		t.Errorf("class references = %+v, want one from OrderClient", refs)
	}

	// Direct trace: OrderClient.load is reached by OrderController.detail.
	// Escalation independently flags the controller holding an OrderClient.
	apis := byKind[KindAPICall]
	if len(apis) != 2 {
		t.Fatalf("api calls = %+v, want 2", apis)
	}
	endpoints := map[string]ImpactRecord{}
	for _, r := range apis {
		endpoints[r.Endpoint] = r
	}
	direct, ok := endpoints["GET /order/detail"]
	if !ok {
		t.Fatalf("no GET /order/detail record in %+v", apis)
	}
	if direct.CallerClass != "OrderController" || direct.CallerMethod != "detail" {
		t.Errorf("direct hit attributed to %s.%s, want OrderController.detail",
			direct.CallerClass, direct.CallerMethod)
	}
	escalated, ok := endpoints["ALL /order"]
	if !ok {
		t.Fatalf("no escalated ALL /order record in %+v", apis)
	}
	if escalated.Depth != 2 {
		t.Errorf("escalated depth = %d, want 2", escalated.Depth)
	}

	// OrderClient matches the intermediate-layer shape.
	mids := byKind[KindMethodCall]
	if len(mids) != 1 || mids[0].CallerClass != "OrderClient" || mids[0].CallerMethod != "load" {
		t.Errorf("intermediate calls = %+v, want OrderClient.load", mids)
	}
}

func TestAnalyzeNoDuplicatesAndRepeatable(t *testing.T) {
	e := newTestEngine(t, siblingTree, 0)

	first := e.Analyze("com.svc.UserService", []string{"getUserById"})
	seen := make(map[string]bool)
	for _, r := range first {
		key := r.dedupKey()
		if seen[key] {
			t.Errorf("duplicate record in one run: %+v", r)
		}
		seen[key] = true
	}

	second := e.Analyze("com.svc.UserService", []string{"getUserById"})
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated analysis differs:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestEscalationDepthBound(t *testing.T) {
	deepTree := map[string]string{
		"Core.java": "package com.x;\npublic class Core {\n    public void run() {}\n}\n",
		"W1.java":   "package com.x;\npublic class W1 {\n    private Core core;\n}\n",
		"W2.java":   "package com.x;\npublic class W2 {\n    private W1 w1;\n}\n",
		"DeepController.java": `package com.x;

@RestController
@RequestMapping("/deep")
public class DeepController {
    private W2 w2;
}
`,
	}

	countDeep := func(records []ImpactRecord) int {
		n := 0
		for _, r := range records {
			if r.Kind == KindAPICall && r.Endpoint == "ALL /deep" {
				n++
			}
		}
		return n
	}

	// The controller sits three escalation steps from Core; a bound of 2
	// stops short of it.
	e := newTestEngine(t, deepTree, 2)
	if n := countDeep(e.Analyze("com.x.Core", nil)); n != 0 {
		t.Errorf("depth 2: found %d deep controller records, want 0", n)
	}

	e = newTestEngine(t, deepTree, 3)
	records := e.Analyze("com.x.Core", nil)
	if n := countDeep(records); n != 1 {
		t.Fatalf("depth 3: found %d deep controller records, want 1", n)
	}
	for _, r := range records {
		if r.Endpoint == "ALL /deep" && r.Depth != 3 {
			t.Errorf("deep controller depth = %d, want 3", r.Depth)
		}
	}
}

func TestRunIDStable(t *testing.T) {
	e := newTestEngine(t, siblingTree, 0)
	if e.RunID() == "" {
		t.Fatal("empty run id")
	}
	if e.RunID() != e.RunID() {
		t.Error("run id changed between calls")
	}
}
