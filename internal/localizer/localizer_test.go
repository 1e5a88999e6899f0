package localizer

import (
	"testing"

	"github.com/goliatone/go-localize/internal/i18n"
)

func newTestStore(tb testing.TB, disableFallbacks bool, bundles map[string]map[string]string) *i18n.Store {
	tb.Helper()

	store := i18n.NewStore(i18n.Config{
		DefaultLocale:    "en",
		DisableFallbacks: disableFallbacks,
	}, nil)

	known := []string{"en", "es", "fr"}
	if bundles == nil {
		bundles = map[string]map[string]string{}
	}
	store.Replace(known, "en", bundles)
	return store
}

func TestLocalizeMountLocaleAtRoot(t *testing.T) {
	store := newTestStore(t, false, map[string]map[string]string{
		"fr": {"paths.about": "a-propos"},
	})
	loc := New(Config{MountLocale: "en", TemplatesDir: "localizable"}, store)

	en := loc.Localize("about.html", "localizable/about.html", "about", "en")
	if en.Path != "about.html" {
		t.Fatalf("expected mount locale at root, got %q", en.Path)
	}
	if en.Locale != "en" || en.SourcePath != "localizable/about.html" {
		t.Fatalf("unexpected descriptor %+v", en)
	}

	fr := loc.Localize("about.html", "localizable/about.html", "about", "fr")
	if fr.Path != "fr/a-propos.html" {
		t.Fatalf("expected prefixed translated path, got %q", fr.Path)
	}
	if fr.PageID != "a-propos" {
		t.Fatalf("expected translated page id, got %q", fr.PageID)
	}
}

func TestLocalizeCustomPrefixTemplate(t *testing.T) {
	store := newTestStore(t, false, nil)
	loc := New(Config{
		MountLocale:       "en",
		URLPrefixTemplate: "/lang-:locale/",
		TemplatesDir:      "localizable",
	}, store)

	got := loc.Localize("about.html", "localizable/about.html", "about", "fr")
	if got.Path != "lang-fr/about.html" {
		t.Fatalf("expected custom template applied, got %q", got.Path)
	}
}

func TestLocalizeLegacyLangPlaceholder(t *testing.T) {
	store := newTestStore(t, false, nil)
	loc := New(Config{
		MountLocale:       "en",
		URLPrefixTemplate: "/:lang/",
		TemplatesDir:      "localizable",
	}, store)

	got := loc.Localize("about.html", "localizable/about.html", "about", "es")
	if got.Path != "es/about.html" {
		t.Fatalf("expected :lang placeholder substituted, got %q", got.Path)
	}
}

func TestLocalizeDisplayAlias(t *testing.T) {
	store := newTestStore(t, false, nil)
	loc := New(
		Config{MountLocale: "en", TemplatesDir: "localizable"},
		store,
		WithAliasFunc(func(locale string) string {
			if locale == "fr" {
				return "francais"
			}
			return locale
		}),
	)

	got := loc.Localize("about.html", "localizable/about.html", "about", "fr")
	if got.Path != "francais/about.html" {
		t.Fatalf("expected alias in prefix, got %q", got.Path)
	}
}

func TestLocalizePageIDWithoutFallbackChain(t *testing.T) {
	// paths.about exists only in the default locale; the page id lookup must
	// not leak it into other locales.
	store := newTestStore(t, false, map[string]map[string]string{
		"en": {"paths.about": "about-page"},
	})
	loc := New(Config{MountLocale: "en", TemplatesDir: "localizable"}, store)

	es := loc.Localize("about.html", "localizable/about.html", "about", "es")
	if es.Path != "es/about.html" {
		t.Fatalf("expected untranslated page id for es, got %q", es.Path)
	}
	if es.PageID != "about" {
		t.Fatalf("expected page id default, got %q", es.PageID)
	}
}

func TestLocalizeDirectorySegmentsUseFallbacks(t *testing.T) {
	store := newTestStore(t, false, map[string]map[string]string{
		"en": {"paths.company": "company-inc"},
		"es": {},
	})
	loc := New(Config{MountLocale: "en", TemplatesDir: "localizable"}, store)

	es := loc.Localize("company/team.html", "localizable/company/team.html", "team", "es")
	if es.Path != "es/company-inc/team.html" {
		t.Fatalf("expected directory fallback translation, got %q", es.Path)
	}
}

func TestLocalizeDisableFallbacks(t *testing.T) {
	store := newTestStore(t, true, map[string]map[string]string{
		"en": {"paths.company": "company-inc"},
		"es": {},
	})
	loc := New(Config{MountLocale: "en", TemplatesDir: "localizable"}, store)

	es := loc.Localize("company/team.html", "localizable/company/team.html", "team", "es")
	if es.Path != "es/company/team.html" {
		t.Fatalf("expected untranslated segment without fallbacks, got %q", es.Path)
	}
}

func TestLocalizeNestedDirectoryAndPageID(t *testing.T) {
	store := newTestStore(t, false, map[string]map[string]string{
		"fr": {
			"paths.company": "entreprise",
			"paths.team":    "equipe",
		},
	})
	loc := New(Config{MountLocale: "en", TemplatesDir: "localizable"}, store)

	fr := loc.Localize("company/team.html", "localizable/company/team.html", "team", "fr")
	if fr.Path != "fr/entreprise/equipe.html" {
		t.Fatalf("expected nested translation, got %q", fr.Path)
	}
}

func TestLocalizeStripsTemplatesDirComponent(t *testing.T) {
	store := newTestStore(t, false, nil)
	loc := New(Config{MountLocale: "en", TemplatesDir: "localizable"}, store)

	// Extension-localized files can live inside the localizable folder; their
	// stripped path still carries the dir component after the prefix join.
	fr := loc.Localize("localizable/about.html", "localizable/about.fr.html", "about", "fr")
	if fr.Path != "fr/about.html" {
		t.Fatalf("expected templates dir stripped after prefixing, got %q", fr.Path)
	}
}

func TestLocalizeSlugifyTranslations(t *testing.T) {
	store := newTestStore(t, false, map[string]map[string]string{
		"fr": {"paths.about": "A Propos"},
	})
	loc := New(Config{
		MountLocale:         "en",
		TemplatesDir:        "localizable",
		SlugifyTranslations: true,
	}, store)

	fr := loc.Localize("about.html", "localizable/about.html", "about", "fr")
	if fr.Path != "fr/a-propos.html" {
		t.Fatalf("expected slugified translation, got %q", fr.Path)
	}
}

func TestLocalizeRestoresCurrentLocale(t *testing.T) {
	store := newTestStore(t, false, nil)
	loc := New(Config{MountLocale: "en", TemplatesDir: "localizable"}, store)

	if err := store.SetLocale("es"); err != nil {
		t.Fatalf("SetLocale: %v", err)
	}
	loc.Localize("about.html", "localizable/about.html", "about", "fr")

	if store.CurrentLocale() != "es" {
		t.Fatalf("expected current locale restored to es, got %q", store.CurrentLocale())
	}
}
