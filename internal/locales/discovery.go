package locales

import (
	"errors"
	"io/fs"
	"strings"
	"sync"

	"github.com/goliatone/go-localize/internal/i18n"
	"github.com/goliatone/go-localize/internal/logging"
	"github.com/goliatone/go-localize/pkg/interfaces"
)

// DiscoveryConfig controls how the known-locale set is determined.
type DiscoveryConfig struct {
	// Explicit, when non-empty, is the known-locale list returned verbatim.
	// Scanning is skipped entirely.
	Explicit []string
	// DataFS is rooted at the locale-data directory. A nil filesystem means
	// no locale data and an empty discovered set.
	DataFS fs.FS
	// Extensions lists the recognised data-file extensions.
	Extensions []string
	// MountAtRoot optionally pins the locale mounted at the URL root.
	MountAtRoot string
}

// Discoverer resolves the ordered known-locale set, either from explicit
// configuration or by scanning top-level locale-data files. Results are
// cached until Invalidate is called by the data-watch pipeline.
type Discoverer struct {
	mu     sync.Mutex
	cfg    DiscoveryConfig
	cached []string
	valid  bool
	logger interfaces.Logger
}

// NewDiscoverer constructs a Discoverer.
func NewDiscoverer(cfg DiscoveryConfig, logger interfaces.Logger) *Discoverer {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Discoverer{cfg: cfg, logger: logger}
}

// Known returns the ordered known-locale set. Explicit configuration is
// returned in its configured order; scanned locales come back sorted. An
// empty set is valid and means no localization.
func (d *Discoverer) Known() ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.valid {
		return append([]string(nil), d.cached...), nil
	}

	known, err := d.discover()
	if err != nil {
		return nil, err
	}
	d.cached = known
	d.valid = true
	d.logger.Debug("locales.discovered",
		"count", len(known),
		"explicit", len(d.cfg.Explicit) > 0,
	)
	return append([]string(nil), known...), nil
}

// MountLocale returns the locale mounted at the URL root: the explicit
// configuration when present, otherwise the first known locale. Empty when
// no locales are known.
func (d *Discoverer) MountLocale() (string, error) {
	if explicit := strings.TrimSpace(d.cfg.MountAtRoot); explicit != "" {
		return explicit, nil
	}
	known, err := d.Known()
	if err != nil {
		return "", err
	}
	if len(known) == 0 {
		return "", nil
	}
	return known[0], nil
}

// IsKnown reports whether code belongs to the known set. Comparison is
// case-insensitive.
func (d *Discoverer) IsKnown(code string) (bool, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return false, nil
	}
	known, err := d.Known()
	if err != nil {
		return false, err
	}
	for _, candidate := range known {
		if strings.EqualFold(candidate, trimmed) {
			return true, nil
		}
	}
	return false, nil
}

// Invalidate drops the cached set so the next Known call rescans. Called on
// every locale-data change notification.
func (d *Discoverer) Invalidate() {
	d.mu.Lock()
	d.cached = nil
	d.valid = false
	d.mu.Unlock()
	d.logger.Debug("locales.cache.invalidated")
}

func (d *Discoverer) discover() ([]string, error) {
	if len(d.cfg.Explicit) > 0 {
		out := make([]string, 0, len(d.cfg.Explicit))
		for _, code := range d.cfg.Explicit {
			trimmed := strings.TrimSpace(code)
			if trimmed == "" {
				continue
			}
			out = append(out, trimmed)
		}
		return out, nil
	}

	if d.cfg.DataFS == nil {
		return nil, nil
	}

	files, err := i18n.ListDataFiles(d.cfg.DataFS, d.cfg.Extensions)
	if err != nil {
		// A missing data directory means zero locales, not a failure.
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	out := make([]string, 0, len(files))
	last := ""
	for _, file := range files {
		// Files are sorted by stem; en.yml next to en.yaml collapses.
		if file.Stem == last {
			continue
		}
		out = append(out, file.Stem)
		last = file.Stem
	}
	return out, nil
}
