package source

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-localize/internal/logging"
	"github.com/goliatone/go-localize/pkg/interfaces"
	"github.com/goliatone/go-localize/sitemap"
)

// Config shapes how a site source tree is scanned into a resource list.
type Config struct {
	// Pattern limits discovered files to the supplied glob. Empty matches
	// every file.
	Pattern string
	// TemplateExtensions are stripped from source names when deriving the
	// destination path ("about.html.tmpl" renders to "about.html").
	TemplateExtensions []string
	// OutputExt is appended when extension stripping leaves a bare name
	// ("about.md" renders to "about.html").
	OutputExt string
	// ParseFrontmatter extracts metadata blocks from renderable sources.
	ParseFrontmatter bool
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger overrides the scanner logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Scanner walks a site source tree and produces the resource list the
// expansion pass consumes. Hosts with their own build pipeline skip this and
// hand the engine their resource list directly.
type Scanner struct {
	fs     fs.FS
	cfg    Config
	logger interfaces.Logger
}

// NewScanner constructs a scanner over the provided filesystem.
func NewScanner(filesystem fs.FS, cfg Config, opts ...Option) *Scanner {
	if len(cfg.TemplateExtensions) == 0 {
		cfg.TemplateExtensions = []string{".tmpl", ".tpl", ".erb", ".md"}
	}
	if cfg.OutputExt == "" {
		cfg.OutputExt = ".html"
	}

	s := &Scanner{
		fs:     filesystem,
		cfg:    cfg,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan walks the tree and returns one resource per renderable file, sorted by
// destination path. Partials (underscore-prefixed) and hidden entries are
// skipped.
func (s *Scanner) Scan(ctx context.Context) (sitemap.List, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var resources sitemap.List

	walkErr := fs.WalkDir(s.fs, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		name := d.Name()
		if d.IsDir() {
			if p != "." && skippable(name) {
				return fs.SkipDir
			}
			return nil
		}
		if skippable(name) {
			return nil
		}

		rel := path.Clean(p)
		if !s.matchesPattern(rel) {
			return nil
		}

		resource, err := s.buildResource(rel)
		if err != nil {
			return err
		}
		resources = append(resources, resource)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(resources, func(i, j int) bool {
		return resources[i].Path < resources[j].Path
	})

	s.logger.Debug("source.scan.completed", "resources", len(resources))
	return resources, nil
}

func (s *Scanner) buildResource(rel string) (*sitemap.Resource, error) {
	dest := s.destinationPath(rel)
	resource := sitemap.New(dest, rel)

	if s.cfg.ParseFrontmatter && s.renderable(rel) {
		meta, err := s.readMetadata(rel)
		if err != nil {
			return nil, err
		}
		if len(meta.Raw) > 0 {
			resource.Metadata = meta.Raw
		}
		if meta.Ignore {
			resource.Ignore()
		}
	}
	return resource, nil
}

// destinationPath strips template-engine extensions until a plain output name
// remains, appending the output extension when nothing is left.
func (s *Scanner) destinationPath(rel string) string {
	out := rel
	for {
		ext := path.Ext(out)
		if ext == "" || !s.isTemplateExt(ext) {
			break
		}
		out = strings.TrimSuffix(out, ext)
	}
	if path.Ext(out) == "" {
		out += s.cfg.OutputExt
	}
	return out
}

func (s *Scanner) isTemplateExt(ext string) bool {
	lowered := strings.ToLower(ext)
	for _, candidate := range s.cfg.TemplateExtensions {
		if lowered == strings.ToLower(strings.TrimSpace(candidate)) {
			return true
		}
	}
	return false
}

// renderable reports whether the source may carry a frontmatter block: it
// used a template extension or renders to the output extension.
func (s *Scanner) renderable(rel string) bool {
	if s.isTemplateExt(path.Ext(rel)) {
		return true
	}
	return strings.EqualFold(path.Ext(rel), s.cfg.OutputExt)
}

func (s *Scanner) matchesPattern(rel string) bool {
	pattern := strings.TrimSpace(s.cfg.Pattern)
	if pattern == "" {
		return true
	}
	target := rel
	if !strings.Contains(pattern, "/") {
		target = path.Base(rel)
	}
	match, err := path.Match(pattern, target)
	if err != nil {
		return false
	}
	return match
}

// metadataEnvelope mirrors the frontmatter keys the localization pass cares
// about while preserving everything else inline.
type metadataEnvelope struct {
	Title  string         `yaml:"title"`
	Layout string         `yaml:"layout"`
	Lang   string         `yaml:"lang"`
	Ignore bool           `yaml:"ignore"`
	Custom map[string]any `yaml:",inline"`
}

type metadata struct {
	Ignore bool
	Raw    map[string]any
}

func (s *Scanner) readMetadata(rel string) (metadata, error) {
	data, err := fs.ReadFile(s.fs, rel)
	if err != nil {
		return metadata{}, fmt.Errorf("source scan read %s: %w", rel, err)
	}

	var envelope metadataEnvelope
	if _, err := frontmatter.Parse(bytes.NewReader(data), &envelope); err != nil {
		return metadata{}, fmt.Errorf("source scan frontmatter %s: %w", rel, err)
	}

	raw := make(map[string]any, len(envelope.Custom)+4)
	for key, value := range envelope.Custom {
		raw[key] = value
	}
	if envelope.Title != "" {
		raw["title"] = envelope.Title
	}
	if envelope.Layout != "" {
		raw["layout"] = envelope.Layout
	}
	if envelope.Lang != "" {
		raw["lang"] = envelope.Lang
	}
	if envelope.Ignore {
		raw["ignore"] = true
	}

	return metadata{Ignore: envelope.Ignore, Raw: raw}, nil
}

func skippable(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}
