package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	writeFile(t, path, contents)
	return path
}

func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	loader, err := NewLoader(DefaultConfig(t.TempDir()), nil)
	if err != nil {
		t.Fatalf("NewLoader error: %v", err)
	}
	t.Cleanup(loader.Close)
	return loader
}
