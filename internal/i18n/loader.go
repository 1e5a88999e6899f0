package i18n

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DataFile describes one locale data file found at the top level of the
// locale-data directory.
type DataFile struct {
	// Stem is the file name without its data extension, i.e. the locale code.
	Stem string
	// Path is the file path relative to the scanned filesystem root.
	Path string
}

// ListDataFiles scans the root of fsys for locale data files. Only depth-one
// entries participate; nested directories are ignored so shared fragments can
// live in subfolders without becoming locales.
func ListDataFiles(fsys fs.FS, extensions []string) ([]DataFile, error) {
	if fsys == nil {
		return nil, nil
	}
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("i18n: read locale data dir: %w", err)
	}

	files := make([]DataFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := matchExtension(name, extensions)
		if ext == "" {
			continue
		}
		files = append(files, DataFile{
			Stem: strings.TrimSuffix(name, ext),
			Path: name,
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Stem < files[j].Stem })
	return files, nil
}

// LoadDir parses every locale data file at the top level of fsys into a
// flattened bundle map keyed by locale code. Later files for the same stem
// (en.yml next to en.yaml) merge over earlier ones key by key.
func LoadDir(fsys fs.FS, extensions []string) (map[string]map[string]string, error) {
	files, err := ListDataFiles(fsys, extensions)
	if err != nil {
		return nil, err
	}

	bundles := make(map[string]map[string]string, len(files))
	for _, file := range files {
		parsed, err := LoadFile(fsys, file)
		if err != nil {
			return nil, err
		}
		bundle, ok := bundles[file.Stem]
		if !ok {
			bundle = make(map[string]string, len(parsed))
			bundles[file.Stem] = bundle
		}
		for key, value := range parsed {
			bundle[key] = value
		}
	}
	return bundles, nil
}

// LoadFile parses a single locale data file into flattened dot-path keys.
// Rails-style documents that nest everything under the locale code are
// unwrapped, so `en: {paths: {about: ...}}` and `paths: {about: ...}` load
// identically.
func LoadFile(fsys fs.FS, file DataFile) (map[string]string, error) {
	raw, err := fs.ReadFile(fsys, file.Path)
	if err != nil {
		return nil, fmt.Errorf("i18n: read %s: %w", file.Path, err)
	}

	doc := map[string]any{}
	switch strings.ToLower(path.Ext(file.Path)) {
	case ".toml":
		if err := toml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", file.Path, err)
		}
	default:
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", file.Path, err)
		}
	}

	doc = unwrapLocaleRoot(file.Stem, doc)

	flat := map[string]string{}
	flatten("", doc, flat)
	return flat, nil
}

func unwrapLocaleRoot(stem string, doc map[string]any) map[string]any {
	if len(doc) != 1 {
		return doc
	}
	for key, value := range doc {
		if !strings.EqualFold(key, stem) {
			return doc
		}
		nested, ok := normalizeMap(value)
		if !ok {
			return doc
		}
		return nested
	}
	return doc
}

func flatten(prefix string, value any, out map[string]string) {
	switch typed := value.(type) {
	case map[string]any:
		for key, nested := range typed {
			flatten(joinKey(prefix, key), nested, out)
		}
	case map[any]any:
		for key, nested := range typed {
			flatten(joinKey(prefix, fmt.Sprint(key)), nested, out)
		}
	case []any:
		// Sequences carry no path translations.
	case nil:
	default:
		if prefix != "" {
			out[prefix] = fmt.Sprint(typed)
		}
	}
}

func joinKey(prefix, key string) string {
	key = strings.TrimSpace(key)
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func normalizeMap(value any) (map[string]any, bool) {
	switch typed := value.(type) {
	case map[string]any:
		return typed, true
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, nested := range typed {
			out[fmt.Sprint(key)] = nested
		}
		return out, true
	default:
		return nil, false
	}
}

func matchExtension(name string, extensions []string) string {
	lowered := strings.ToLower(name)
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if strings.HasSuffix(lowered, ext) && len(name) > len(ext) {
			return name[len(name)-len(ext):]
		}
	}
	return ""
}
