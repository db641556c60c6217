package walk

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
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

func collect(t *testing.T, w *Walker, root, ext string) []string {
	t.Helper()
	var got []string
	err := w.Sources(ext, func(path string) error {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		got = append(got, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.Fatalf("Sources failed: %v", err)
	}
	sort.Strings(got)
	return got
}

func TestSourcesSkipsBuildAndHiddenDirs(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/A.java":          "class A {}",
		"src/deep/B.java":     "class B {}",
		"target/Gen.java":     "class Gen {}",
		"node_modules/X.java": "class X {}",
		".idea/Y.java":        "class Y {}",
		".hidden/Z.java":      "class Z {}",
		"src/notes.txt":       "txt",
	})

	got := collect(t, New(root, nil), root, ".java")
	want := []string{"src/A.java", "src/deep/B.java"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Sources = %v, want %v", got, want)
	}
}

func TestSourcesExtraSkips(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/A.java":       "class A {}",
		"generated/G.java": "class G {}",
	})

	got := collect(t, New(root, []string{"generated"}), root, ".java")
	if len(got) != 1 || got[0] != "src/A.java" {
		t.Errorf("Sources = %v, want [src/A.java]", got)
	}
}

func TestSourcesHonorsGitignore(t *testing.T) {
	root := writeTree(t, map[string]string{
		".gitignore":     "ignored/\n*.gen.java\n",
		"src/A.java":     "class A {}",
		"src/B.gen.java": "class B {}",
		"ignored/C.java": "class C {}",
		"kept/D.java":    "class D {}",
	})

	got := collect(t, New(root, nil), root, ".java")
	want := []string{"kept/D.java", "src/A.java"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Sources = %v, want %v", got, want)
	}
}

func TestSourcesExtensionFilter(t *testing.T) {
	root := writeTree(t, map[string]string{
		"m/UserMapper.xml": "<mapper/>",
		"m/User.java":      "class User {}",
	})

	got := collect(t, New(root, nil), root, ".xml")
	if len(got) != 1 || got[0] != "m/UserMapper.xml" {
		t.Errorf("Sources(.xml) = %v, want [m/UserMapper.xml]", got)
	}
}
