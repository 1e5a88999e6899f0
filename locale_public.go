package localize

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-localize/internal/i18n"
	"github.com/goliatone/go-localize/internal/locales"
)

// Sentinel errors returned by locale lookups and switches. They re-export the
// store's sentinels so errors.Is works across package boundaries.
var (
	ErrLocaleCodeRequired = i18n.ErrLocaleRequired
	ErrUnknownLocale      = i18n.ErrUnknownLocale
	ErrNoAlternateLocales = i18n.ErrNoAlternateLocales
	ErrTranslationMissing = i18n.ErrTranslationMissing
	ErrLocaleDataInvalid  = i18n.ErrDataInvalid
)

// LocaleNotFoundError reports a locale code outside the known set.
type LocaleNotFoundError = i18n.LocaleNotFoundError

// LocaleInfo is the read-only projection of one known locale handed to hosts.
type LocaleInfo struct {
	ID          uuid.UUID
	Code        string
	Display     string
	NativeName  *string
	URLAlias    *string
	IsActive    bool
	MountAtRoot bool
	Metadata    map[string]any
}

// LocaleResolver resolves known locales into public records.
type LocaleResolver interface {
	ResolveByCode(ctx context.Context, code string) (LocaleInfo, error)
	List(ctx context.Context) ([]LocaleInfo, error)
}

// Locales returns a resolver over the known locale set. Records come from the
// registry when one is configured and are synthesized from discovery
// otherwise.
func (m *Module) Locales() LocaleResolver {
	if m == nil || m.container == nil {
		return nil
	}
	return &localeResolver{module: m}
}

type localeResolver struct {
	module *Module
}

func (r *localeResolver) ResolveByCode(ctx context.Context, code string) (LocaleInfo, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return LocaleInfo{}, ErrLocaleCodeRequired
	}
	records, err := r.module.container.LocaleService().Records(ctx)
	if err != nil {
		return LocaleInfo{}, err
	}
	for _, rec := range records {
		if strings.EqualFold(rec.Code, trimmed) {
			return localeInfoFromRecord(rec), nil
		}
	}
	return LocaleInfo{}, &LocaleNotFoundError{Code: trimmed}
}

func (r *localeResolver) List(ctx context.Context) ([]LocaleInfo, error) {
	records, err := r.module.container.LocaleService().Records(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]LocaleInfo, 0, len(records))
	for _, rec := range records {
		out = append(out, localeInfoFromRecord(rec))
	}
	return out, nil
}

func localeInfoFromRecord(rec *locales.Locale) LocaleInfo {
	if rec == nil {
		return LocaleInfo{}
	}
	return LocaleInfo{
		ID:          rec.ID,
		Code:        rec.Code,
		Display:     rec.Display,
		NativeName:  cloneStringPtr(rec.NativeName),
		URLAlias:    cloneStringPtr(rec.URLAlias),
		IsActive:    rec.IsActive,
		MountAtRoot: rec.MountAtRoot,
		Metadata:    cloneMetadata(rec.Metadata),
	}
}

func cloneStringPtr(v *string) *string {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneMetadata(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
