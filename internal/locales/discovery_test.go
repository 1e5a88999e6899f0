package locales

import (
	"os"
	"path/filepath"
	"testing"
)

var testExtensions = []string{".yml", ".yaml", ".toml"}

func writeLocaleFile(tb testing.TB, dir, name, body string) {
	tb.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		tb.Fatalf("write %s: %v", name, err)
	}
}

func TestDiscovererScansTopLevelFiles(t *testing.T) {
	dir := t.TempDir()
	writeLocaleFile(t, dir, "fr.yml", "fr:\n  paths:\n    about: a-propos\n")
	writeLocaleFile(t, dir, "en.yml", "en:\n  paths:\n    about: about\n")
	writeLocaleFile(t, dir, "notes.md", "not locale data\n")
	if err := os.MkdirAll(filepath.Join(dir, "shared"), 0o755); err != nil {
		t.Fatalf("mkdir shared: %v", err)
	}
	writeLocaleFile(t, dir, filepath.Join("shared", "de.yml"), "de: {}\n")

	d := NewDiscoverer(DiscoveryConfig{DataFS: os.DirFS(dir), Extensions: testExtensions}, nil)

	known, err := d.Known()
	if err != nil {
		t.Fatalf("Known: %v", err)
	}
	if len(known) != 2 || known[0] != "en" || known[1] != "fr" {
		t.Fatalf("expected sorted [en fr], got %v", known)
	}

	mount, err := d.MountLocale()
	if err != nil {
		t.Fatalf("MountLocale: %v", err)
	}
	if mount != "en" {
		t.Fatalf("expected first known locale en as mount, got %q", mount)
	}
}

func TestDiscovererExplicitListVerbatim(t *testing.T) {
	dir := t.TempDir()
	writeLocaleFile(t, dir, "zz.yml", "zz: {}\n")

	d := NewDiscoverer(DiscoveryConfig{
		Explicit:   []string{"fr", " en ", "", "de"},
		DataFS:     os.DirFS(dir),
		Extensions: testExtensions,
	}, nil)

	known, err := d.Known()
	if err != nil {
		t.Fatalf("Known: %v", err)
	}
	// Explicit config wins over scanning and keeps its order unsorted.
	if len(known) != 3 || known[0] != "fr" || known[1] != "en" || known[2] != "de" {
		t.Fatalf("expected verbatim [fr en de], got %v", known)
	}

	mount, err := d.MountLocale()
	if err != nil {
		t.Fatalf("MountLocale: %v", err)
	}
	if mount != "fr" {
		t.Fatalf("expected first explicit locale fr, got %q", mount)
	}
}

func TestDiscovererExplicitMountOverride(t *testing.T) {
	d := NewDiscoverer(DiscoveryConfig{
		Explicit:    []string{"en", "fr"},
		MountAtRoot: "fr",
	}, nil)

	mount, err := d.MountLocale()
	if err != nil {
		t.Fatalf("MountLocale: %v", err)
	}
	if mount != "fr" {
		t.Fatalf("expected explicit mount fr, got %q", mount)
	}
}

func TestDiscovererDuplicateStemsCollapse(t *testing.T) {
	dir := t.TempDir()
	writeLocaleFile(t, dir, "en.yml", "en: {}\n")
	writeLocaleFile(t, dir, "en.yaml", "en: {}\n")
	writeLocaleFile(t, dir, "es.yml", "es: {}\n")

	d := NewDiscoverer(DiscoveryConfig{DataFS: os.DirFS(dir), Extensions: testExtensions}, nil)

	known, err := d.Known()
	if err != nil {
		t.Fatalf("Known: %v", err)
	}
	if len(known) != 2 || known[0] != "en" || known[1] != "es" {
		t.Fatalf("expected [en es], got %v", known)
	}
}

func TestDiscovererEmptySetIsValid(t *testing.T) {
	d := NewDiscoverer(DiscoveryConfig{DataFS: os.DirFS(t.TempDir()), Extensions: testExtensions}, nil)

	known, err := d.Known()
	if err != nil {
		t.Fatalf("Known: %v", err)
	}
	if len(known) != 0 {
		t.Fatalf("expected empty set, got %v", known)
	}

	mount, err := d.MountLocale()
	if err != nil {
		t.Fatalf("MountLocale: %v", err)
	}
	if mount != "" {
		t.Fatalf("expected empty mount locale, got %q", mount)
	}
}

func TestDiscovererMissingDataDir(t *testing.T) {
	d := NewDiscoverer(DiscoveryConfig{
		DataFS:     os.DirFS(filepath.Join(t.TempDir(), "does-not-exist")),
		Extensions: testExtensions,
	}, nil)

	known, err := d.Known()
	if err != nil {
		t.Fatalf("Known on missing dir: %v", err)
	}
	if len(known) != 0 {
		t.Fatalf("expected empty set for missing dir, got %v", known)
	}
}

func TestDiscovererInvalidateRescans(t *testing.T) {
	dir := t.TempDir()
	writeLocaleFile(t, dir, "en.yml", "en: {}\n")
	writeLocaleFile(t, dir, "fr.yml", "fr: {}\n")

	d := NewDiscoverer(DiscoveryConfig{DataFS: os.DirFS(dir), Extensions: testExtensions}, nil)

	known, err := d.Known()
	if err != nil {
		t.Fatalf("Known: %v", err)
	}
	if len(known) != 2 {
		t.Fatalf("expected [en fr], got %v", known)
	}

	if err := os.Remove(filepath.Join(dir, "fr.yml")); err != nil {
		t.Fatalf("remove fr.yml: %v", err)
	}

	// Cached until invalidated.
	known, err = d.Known()
	if err != nil {
		t.Fatalf("Known cached: %v", err)
	}
	if len(known) != 2 {
		t.Fatalf("expected cached [en fr], got %v", known)
	}

	d.Invalidate()

	known, err = d.Known()
	if err != nil {
		t.Fatalf("Known after invalidate: %v", err)
	}
	if len(known) != 1 || known[0] != "en" {
		t.Fatalf("expected [en] after fr.yml removal, got %v", known)
	}
}

func TestDiscovererIsKnown(t *testing.T) {
	d := NewDiscoverer(DiscoveryConfig{Explicit: []string{"en", "fr"}}, nil)

	ok, err := d.IsKnown("FR")
	if err != nil {
		t.Fatalf("IsKnown: %v", err)
	}
	if !ok {
		t.Fatalf("expected FR to match fr case-insensitively")
	}

	ok, err = d.IsKnown("de")
	if err != nil {
		t.Fatalf("IsKnown: %v", err)
	}
	if ok {
		t.Fatalf("did not expect de to be known")
	}
}
