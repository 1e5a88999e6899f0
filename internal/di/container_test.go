package di

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-localize/internal/locales"
	"github.com/goliatone/go-localize/internal/runtimeconfig"
	"github.com/goliatone/go-localize/internal/watch"
	"github.com/goliatone/go-localize/pkg/interfaces"
)

func testConfig() runtimeconfig.Config {
	return runtimeconfig.DefaultConfig()
}

func localeDataFS() fstest.MapFS {
	return fstest.MapFS{
		"en.yml": &fstest.MapFile{Data: []byte("en:\n  paths:\n    about: about\n")},
		"fr.yml": &fstest.MapFile{Data: []byte("fr:\n  paths:\n    about: a-propos\n")},
	}
}

func TestNewContainer_WiresCoreServices(t *testing.T) {
	container, err := NewContainer(testConfig(), WithDataFS(localeDataFS()))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	if container.TranslationStore() == nil {
		t.Fatal("expected translation store")
	}
	if container.Discoverer() == nil {
		t.Fatal("expected discoverer")
	}
	if container.LocaleService() == nil {
		t.Fatal("expected locale service")
	}
	if container.PathLocalizer() == nil {
		t.Fatal("expected path localizer")
	}
	if container.Expander() == nil {
		t.Fatal("expected expander")
	}
	if container.LinkResolver() == nil {
		t.Fatal("expected link resolver")
	}
	if container.Broadcaster() == nil {
		t.Fatal("expected broadcaster")
	}

	known, err := container.LocaleService().Known(context.Background())
	if err != nil {
		t.Fatalf("Known returned error: %v", err)
	}
	if want := []string{"en", "fr"}; !reflect.DeepEqual(known, want) {
		t.Fatalf("expected known locales %v, got %v", want, known)
	}
}

func TestNewContainer_ValidatesConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Paths.TemplatesDir = ""

	if _, err := NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrTemplatesDirRequired) {
		t.Fatalf("expected templates dir validation error, got %v", err)
	}
}

func TestContainer_RegistryDisabledLeavesRepositoryNil(t *testing.T) {
	container, err := NewContainer(testConfig(), WithDataFS(localeDataFS()))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if repo := container.LocaleRepository(); repo != nil {
		t.Fatalf("expected nil locale repository, got %T", repo)
	}
}

func TestContainer_RegistryMemoryProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Features.Registry = true

	container, err := NewContainer(cfg, WithDataFS(localeDataFS()))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if _, ok := container.LocaleRepository().(*locales.MemoryRepository); !ok {
		t.Fatalf("expected memory repository, got %T", container.LocaleRepository())
	}
}

func TestContainer_BunProviderWithoutDBFallsBackToMemory(t *testing.T) {
	cfg := testConfig()
	cfg.Features.Registry = true
	cfg.Storage.Provider = "bun"

	container, err := NewContainer(cfg, WithDataFS(localeDataFS()))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if _, ok := container.LocaleRepository().(*locales.MemoryRepository); !ok {
		t.Fatalf("expected memory fallback, got %T", container.LocaleRepository())
	}
}

func TestContainer_LocaleRepositoryOverride(t *testing.T) {
	repo := locales.NewMemoryRepository()
	cfg := testConfig()
	cfg.Features.Registry = true

	container, err := NewContainer(cfg, WithDataFS(localeDataFS()), WithLocaleRepository(repo))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.LocaleRepository() != locales.Repository(repo) {
		t.Fatalf("expected injected repository, got %T", container.LocaleRepository())
	}
}

func TestContainer_AdvancedCacheBuildsDefaultService(t *testing.T) {
	cfg := testConfig()
	cfg.Features.AdvancedCache = true

	container, err := NewContainer(cfg, WithDataFS(localeDataFS()))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.cacheService == nil {
		t.Fatal("expected default cache service")
	}
	if container.keySerializer == nil {
		t.Fatal("expected default key serializer")
	}
}

func TestContainer_NavigationBuildsURLKitResolver(t *testing.T) {
	cfg := testConfig()
	cfg.Navigation.RouteConfig = &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "site",
				BaseURL: "https://example.com",
				Paths:   map[string]string{"asset": "/:path"},
			},
		},
	}
	cfg.Navigation.URLKit.DefaultGroup = "site"
	cfg.Navigation.URLKit.DefaultRoute = "asset"

	container, err := NewContainer(cfg, WithDataFS(localeDataFS()))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.RouteManager() == nil {
		t.Fatal("expected route manager")
	}
	if container.BaseResolver() == nil {
		t.Fatal("expected urlkit base resolver")
	}

	got, err := container.LinkResolver().Resolve("about.html", interfaces.ResolveOptions{})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if want := "https://example.com/about.html"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestContainer_PathResolverOverrideSkipsNavigation(t *testing.T) {
	base := interfaces.PathResolverFunc(func(link string, _ interfaces.ResolveOptions) (string, error) {
		return link, nil
	})
	cfg := testConfig()
	cfg.Navigation.RouteConfig = &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{Name: "site", BaseURL: "https://example.com", Paths: map[string]string{"asset": "/:path"}},
		},
	}

	container, err := NewContainer(cfg, WithDataFS(localeDataFS()), WithPathResolver(base))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.RouteManager() != nil {
		t.Fatal("expected no route manager when a host resolver is injected")
	}
}

func TestContainer_LocalizedPathLookupFeedsLinkResolver(t *testing.T) {
	base := interfaces.PathResolverFunc(func(link string, _ interfaces.ResolveOptions) (string, error) {
		if !strings.HasPrefix(link, "/") {
			link = "/" + link
		}
		return link, nil
	})

	container, err := NewContainer(testConfig(), WithDataFS(localeDataFS()), WithPathResolver(base))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	container.SetLocalizedPathLookup(func(path, locale string) (string, bool) {
		if path == "/about.html" && locale == "fr" {
			return "/fr/a-propos.html", true
		}
		return "", false
	})

	got, err := container.LinkResolver().Resolve("/about.html", interfaces.ResolveOptions{Locale: "fr"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got != "/fr/a-propos.html" {
		t.Fatalf("expected localized link, got %q", got)
	}
}

func TestContainer_RebuildLocalizationSwapsLocalizer(t *testing.T) {
	container, err := NewContainer(testConfig(), WithDataFS(localeDataFS()))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	before := container.PathLocalizer()
	container.RebuildLocalization("en")
	after := container.PathLocalizer()

	if before == after {
		t.Fatal("expected rebuild to swap the localizer")
	}
	if container.Expander() == nil {
		t.Fatal("expected expander after rebuild")
	}
}

func TestContainer_WatcherDisabledByDefault(t *testing.T) {
	container, err := NewContainer(testConfig(), WithDataFS(localeDataFS()))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.Watcher() != nil {
		t.Fatalf("expected no watcher, got %T", container.Watcher())
	}
}

func TestContainer_WatcherEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.Features.Watcher = true
	cfg.Watch.Enabled = true

	container, err := NewContainer(cfg, WithDataFS(localeDataFS()))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if _, ok := container.Watcher().(*watch.DirWatcher); !ok {
		t.Fatalf("expected directory watcher, got %T", container.Watcher())
	}
}

func TestContainer_WatcherOverride(t *testing.T) {
	fake := &stubWatcher{}
	cfg := testConfig()
	cfg.Features.Watcher = true
	cfg.Watch.Enabled = true

	container, err := NewContainer(cfg, WithDataFS(localeDataFS()), WithWatcher(fake))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.Watcher() != interfaces.LocaleDataWatcher(fake) {
		t.Fatalf("expected injected watcher, got %T", container.Watcher())
	}
}

func TestContainer_ClockOverride(t *testing.T) {
	fixed := time.Date(2025, time.March, 9, 12, 0, 0, 0, time.UTC)

	container, err := NewContainer(testConfig(), WithDataFS(localeDataFS()), WithClock(func() time.Time {
		return fixed
	}))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if got := container.Clock()(); !got.Equal(fixed) {
		t.Fatalf("expected fixed clock, got %v", got)
	}
}

type stubWatcher struct{}

func (s *stubWatcher) Watch(context.Context) (<-chan interfaces.ChangeSet, error) {
	ch := make(chan interfaces.ChangeSet)
	close(ch)
	return ch, nil
}

func (s *stubWatcher) Close() error { return nil }
