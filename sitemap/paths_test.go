package sitemap

import "testing"

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/about.html", "about.html"},
		{"about.html", "about.html"},
		{"/fr//a-propos.html", "fr/a-propos.html"},
		{"./blog/index.html", "blog/index.html"},
		{"", ""},
		{"/", ""},
		{"localizable\\about.html", "localizable/about.html"},
	}
	for _, tc := range cases {
		if got := NormalizePath(tc.in); got != tc.want {
			t.Fatalf("NormalizePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStripPrefixDir(t *testing.T) {
	if got := StripPrefixDir("localizable/about.html", "localizable"); got != "about.html" {
		t.Fatalf("expected prefix stripped, got %q", got)
	}
	if got := StripPrefixDir("pages/about.html", "localizable"); got != "pages/about.html" {
		t.Fatalf("expected path untouched, got %q", got)
	}
	if got := StripPrefixDir("localizable", "localizable"); got != "" {
		t.Fatalf("expected empty remainder, got %q", got)
	}
}

func TestStripDirComponent(t *testing.T) {
	cases := []struct {
		in   string
		dir  string
		want string
	}{
		{"localizable/about.html", "localizable", "about.html"},
		{"fr/localizable/about.html", "localizable", "fr/about.html"},
		{"fr/about.html", "localizable", "fr/about.html"},
		{"not-localizable/about.html", "localizable", "not-localizable/about.html"},
		{"fr/localizable", "localizable", "fr"},
		{"localizable", "localizable", ""},
		{"fr/about.html", "", "fr/about.html"},
	}
	for _, tc := range cases {
		if got := StripDirComponent(tc.in, tc.dir); got != tc.want {
			t.Fatalf("StripDirComponent(%q, %q) = %q, want %q", tc.in, tc.dir, got, tc.want)
		}
	}
}

func TestPageID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"localizable/about.html", "about"},
		{"blog/news.html", "news"},
		{"README", "README"},
		{"docs/guide.en.html", "guide.en"},
	}
	for _, tc := range cases {
		if got := PageID(tc.in); got != tc.want {
			t.Fatalf("PageID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestURLPath(t *testing.T) {
	if got := URLPath("fr/a-propos.html"); got != "/fr/a-propos.html" {
		t.Fatalf("unexpected url path %q", got)
	}
	if got := URLPath("/about.html"); got != "/about.html" {
		t.Fatalf("unexpected url path %q", got)
	}
}
