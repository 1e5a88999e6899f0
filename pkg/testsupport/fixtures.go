package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteLocaleData writes one locale data file under dir and returns its path.
func WriteLocaleData(tb testing.TB, dir, name, content string) string {
	tb.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		tb.Fatalf("create locale data dir: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		tb.Fatalf("write locale data %s: %v", name, err)
	}
	return path
}

// LocaleDataDir populates a temp directory with locale data files keyed by
// file name and returns the directory path.
func LocaleDataDir(tb testing.TB, files map[string]string) string {
	tb.Helper()

	dir := tb.TempDir()
	for name, content := range files {
		WriteLocaleData(tb, dir, name, content)
	}
	return dir
}
