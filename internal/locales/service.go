package locales

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-localize/internal/identity"
	"github.com/goliatone/go-localize/internal/logging"
	"github.com/goliatone/go-localize/pkg/interfaces"
)

// ErrDiscovererRequired indicates a service was constructed without discovery.
var ErrDiscovererRequired = errors.New("locales: discoverer required")

// Service exposes the known-locale set enriched with registry metadata.
type Service interface {
	// Known returns the ordered known-locale codes.
	Known(ctx context.Context) ([]string, error)
	// MountLocale returns the locale mounted at the URL root, empty when no
	// locales are known.
	MountLocale(ctx context.Context) (string, error)
	// IsKnown reports known-set membership, case-insensitively.
	IsKnown(ctx context.Context, code string) (bool, error)
	// AliasFor resolves the display alias substituted into URL prefix
	// templates: configured aliases first, then registry aliases, then the
	// code itself.
	AliasFor(ctx context.Context, code string) string
	// Records returns one registry record per known locale, synthesising
	// records for codes the registry has not seen.
	Records(ctx context.Context) ([]*Locale, error)
	// Sync persists registry records for every known locale.
	Sync(ctx context.Context) error
	// Invalidate drops the cached known-locale set.
	Invalidate()
}

// ServiceOption configures service behaviour.
type ServiceOption func(*service)

// WithRepository attaches a registry repository; without one the service
// serves purely discovered codes.
func WithRepository(repo Repository) ServiceOption {
	return func(s *service) {
		s.repo = repo
	}
}

// WithAliases installs the configured locale display alias map.
func WithAliases(aliases map[string]string) ServiceOption {
	return func(s *service) {
		if len(aliases) == 0 {
			return
		}
		s.aliases = make(map[string]string, len(aliases))
		for code, alias := range aliases {
			s.aliases[codeKey(code)] = alias
		}
	}
}

// WithLogger overrides the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithNow overrides the time source (primarily for tests).
func WithNow(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

type service struct {
	discoverer *Discoverer
	repo       Repository
	aliases    map[string]string
	logger     interfaces.Logger
	now        func() time.Time
}

// NewService constructs a locale service around a discoverer.
func NewService(discoverer *Discoverer, opts ...ServiceOption) Service {
	if discoverer == nil {
		panic(ErrDiscovererRequired)
	}

	s := &service{
		discoverer: discoverer,
		logger:     logging.NoOp(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Known(context.Context) ([]string, error) {
	return s.discoverer.Known()
}

func (s *service) MountLocale(context.Context) (string, error) {
	return s.discoverer.MountLocale()
}

func (s *service) IsKnown(_ context.Context, code string) (bool, error) {
	return s.discoverer.IsKnown(code)
}

func (s *service) AliasFor(ctx context.Context, code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return ""
	}
	if alias, ok := s.aliases[codeKey(trimmed)]; ok && alias != "" {
		return alias
	}
	if s.repo != nil {
		record, err := s.repo.GetByCode(ctx, trimmed)
		if err == nil && record != nil {
			if alias := record.Alias(); alias != "" {
				return alias
			}
		}
	}
	return trimmed
}

func (s *service) Records(ctx context.Context) ([]*Locale, error) {
	known, err := s.discoverer.Known()
	if err != nil {
		return nil, err
	}

	mount, err := s.discoverer.MountLocale()
	if err != nil {
		return nil, err
	}

	out := make([]*Locale, 0, len(known))
	for _, code := range known {
		record := s.lookupRecord(ctx, code)
		if record == nil {
			record = s.synthesizeRecord(code)
		}
		record.MountAtRoot = strings.EqualFold(code, mount)
		out = append(out, record)
	}
	return out, nil
}

func (s *service) Sync(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	records, err := s.Records(ctx)
	if err != nil {
		return err
	}

	for _, record := range records {
		existing, err := s.repo.GetByCode(ctx, record.Code)
		if err != nil {
			var notFound *NotFoundError
			if !errors.As(err, &notFound) {
				return err
			}
			if _, err := s.repo.Create(ctx, record); err != nil {
				return err
			}
			s.logger.Debug("locales.registry.seeded", "locale", record.Code)
			continue
		}
		if existing.MountAtRoot == record.MountAtRoot && existing.IsActive {
			continue
		}
		existing.MountAtRoot = record.MountAtRoot
		existing.IsActive = true
		if _, err := s.repo.Update(ctx, existing); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) Invalidate() {
	s.discoverer.Invalidate()
}

func (s *service) lookupRecord(ctx context.Context, code string) *Locale {
	if s.repo == nil {
		return nil
	}
	record, err := s.repo.GetByCode(ctx, code)
	if err != nil || record == nil {
		return nil
	}
	return record
}

func (s *service) synthesizeRecord(code string) *Locale {
	record := &Locale{
		ID:        identity.LocaleUUID(code),
		Code:      code,
		Display:   code,
		IsActive:  true,
		CreatedAt: s.now().UTC(),
	}
	if alias, ok := s.aliases[codeKey(code)]; ok && alias != "" {
		value := alias
		record.URLAlias = &value
	}
	return record
}
