package resolver

import (
	"testing"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-localize/pkg/interfaces"
)

func newTestRouteManager() *urlkit.RouteManager {
	return urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "site",
				BaseURL: "https://example.com",
				Paths: map[string]string{
					"asset": "/:path",
				},
				Groups: []urlkit.GroupConfig{
					{
						Name: "fr",
						Path: "/fr",
						Paths: map[string]string{
							"asset": "/:path",
						},
					},
				},
			},
		},
	})
}

func TestURLKitResolver_Resolve(t *testing.T) {
	resolver := NewURLKitResolver(URLKitResolverOptions{
		Manager:      newTestRouteManager(),
		DefaultGroup: "site",
		DefaultRoute: "asset",
	})

	got, err := resolver.Resolve("/about.html", interfaces.ResolveOptions{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://example.com/about.html" {
		t.Fatalf("expected absolute url, got %q", got)
	}
}

func TestURLKitResolver_LocaleGroup(t *testing.T) {
	resolver := NewURLKitResolver(URLKitResolverOptions{
		Manager:      newTestRouteManager(),
		DefaultGroup: "site",
		LocaleGroups: map[string]string{
			"fr": "site.fr",
		},
		DefaultRoute: "asset",
	})

	got, err := resolver.Resolve("about.html", interfaces.ResolveOptions{Locale: "fr"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://example.com/fr/about.html" {
		t.Fatalf("expected locale group url, got %q", got)
	}

	got, err = resolver.Resolve("about.html", interfaces.ResolveOptions{Locale: "en"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://example.com/about.html" {
		t.Fatalf("expected default group url, got %q", got)
	}
}

func TestURLKitResolver_RelativeAndAnchor(t *testing.T) {
	resolver := NewURLKitResolver(URLKitResolverOptions{
		Manager:      newTestRouteManager(),
		DefaultGroup: "site",
		DefaultRoute: "asset",
	})

	relative := true
	got, err := resolver.Resolve("about.html", interfaces.ResolveOptions{
		Relative: &relative,
		Anchor:   "#team",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "/about.html#team" {
		t.Fatalf("expected relative anchored url, got %q", got)
	}
}

func TestURLKitResolver_AbsoluteLinkPassesThrough(t *testing.T) {
	resolver := NewURLKitResolver(URLKitResolverOptions{
		Manager:      newTestRouteManager(),
		DefaultGroup: "site",
		DefaultRoute: "asset",
	})

	got, err := resolver.Resolve("https://example.com/about.html", interfaces.ResolveOptions{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://example.com/about.html" {
		t.Fatalf("expected absolute link untouched, got %q", got)
	}

	relative := true
	got, err = resolver.Resolve("https://example.com/about.html", interfaces.ResolveOptions{Relative: &relative})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "/about.html" {
		t.Fatalf("expected relative reduction, got %q", got)
	}

	got, err = resolver.Resolve("mailto:team@example.com", interfaces.ResolveOptions{Relative: &relative})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "mailto:team@example.com" {
		t.Fatalf("expected mailto link untouched, got %q", got)
	}
}

func TestURLKitResolver_UnknownGroup(t *testing.T) {
	resolver := NewURLKitResolver(URLKitResolverOptions{
		Manager:      newTestRouteManager(),
		DefaultGroup: "missing",
		DefaultRoute: "asset",
	})

	if _, err := resolver.Resolve("about.html", interfaces.ResolveOptions{}); err == nil {
		t.Fatal("expected unknown group error")
	}
}

func TestURLKitResolver_NilManagerPassesThrough(t *testing.T) {
	resolver := NewURLKitResolver(URLKitResolverOptions{DefaultGroup: "site", DefaultRoute: "asset"})

	got, err := resolver.Resolve("/about.html", interfaces.ResolveOptions{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "/about.html" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}
