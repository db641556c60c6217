package index

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

func TestBuildRecordsBothDirections(t *testing.T) {
	requireParser(t)

	root := writeTree(t, map[string]string{
		"service/UserService.java": `package com.demo.service;
public interface UserService {
    UserDto getUserById(Long id);
}
`,
		"service/UserServiceImpl.java": `package com.demo.service;
public class UserServiceImpl implements UserService, AuditAware {
    public UserDto getUserById(Long id) { return null; }
}
`,
		"service/CacheUserService.java": `package com.demo.service;
public class CacheUserService implements UserService {
    public UserDto getUserById(Long id) { return null; }
}
`,
		// Build output must not be indexed.
		"target/Copied.java": `package com.demo.gen;
public class Copied implements UserService {
}
`,
	})

	ix := Build(root, javaparse.NewArena(32), nil, slogutil.Discard())

	wantImpls := []string{"com.demo.service.CacheUserService", "com.demo.service.UserServiceImpl"}
	if got := ix.ImplementationsOf("UserService"); !reflect.DeepEqual(got, wantImpls) {
		t.Errorf("ImplementationsOf(UserService) = %v, want %v", got, wantImpls)
	}

	wantIfaces := []string{"AuditAware", "UserService"}
	if got := ix.InterfacesOf("UserServiceImpl"); !reflect.DeepEqual(got, wantIfaces) {
		t.Errorf("InterfacesOf(UserServiceImpl) = %v, want %v", got, wantIfaces)
	}

	if got := ix.InterfacesOf("UserService"); got != nil {
		t.Errorf("InterfacesOf(UserService) = %v, want nil (interfaces implement nothing)", got)
	}
	if ix.FilesScanned() != 3 {
		t.Errorf("FilesScanned = %d, want 3", ix.FilesScanned())
	}
}

func TestBuildSurvivesUnreadableAndOddFiles(t *testing.T) {
	requireParser(t)

	root := writeTree(t, map[string]string{
		"Ok.java":      "package com.demo;\npublic class Ok implements Runnable {\n    public void run() {}\n}\n",
		"Broken.java":  "this is not java at all {{{",
		"Notes.java":   "",
		"readme.md":    "not scanned",
		"sub/Two.java": "package com.demo.sub;\npublic class Two implements Runnable {\n    public void run() {}\n}\n",
	})

	ix := Build(root, javaparse.NewArena(32), nil, slogutil.Discard())

	if got := len(ix.ImplementationsOf("Runnable")); got != 2 {
		t.Errorf("ImplementationsOf(Runnable) has %d entries, want 2", got)
	}
}

func TestBuildEmptyTree(t *testing.T) {
	ix := Build(t.TempDir(), javaparse.NewArena(8), nil, slogutil.Discard())
	if len(ix.InterfaceImpls) != 0 || len(ix.ImplInterfaces) != 0 {
		t.Errorf("empty tree produced entries: %+v %+v", ix.InterfaceImpls, ix.ImplInterfaces)
	}
}
