package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	localize "github.com/goliatone/go-localize"
	"github.com/goliatone/go-localize/cmd/preview/internal/bootstrap"
	"github.com/goliatone/go-localize/internal/source"
	"github.com/goliatone/go-localize/sitemap"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runPreview(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("preview: %v", err)
	}
}

func runPreview(args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("preview", flag.ContinueOnError)

	var (
		siteDir      = flags.String("site-dir", ".", "Path to the site source root")
		dataDir      = flags.String("data-dir", "locales", "Path to the locale data directory")
		templatesDir = flags.String("templates-dir", "", "Folder whose templates localize for every known locale")
		localesList  = flags.String("locales", "", "Comma separated locale list (defaults to scanning the data directory)")
		mountLocale  = flags.String("mount", "", "Locale mounted at the URL root (defaults to the first known locale)")
		aliasPairs   = flags.String("aliases", "", "Comma separated locale=alias pairs applied to URL prefixes")
		urlPrefix    = flags.String("prefix", "", "URL prefix template for non-root locales")
		indexFile    = flags.String("index-file", "", "File name appended to directory style lookups")
		pattern      = flags.String("pattern", "", "Glob applied when discovering site sources")
		pagePath     = flags.String("page", "", "Source page to inspect (relative to the site root)")
		renderHTML   = flags.Bool("render-html", false, "Render the inspected page body into HTML")
		validateData = flags.Bool("validate-data", false, "Validate locale data files before loading")
		watchData    = flags.Bool("watch", false, "Watch the locale data directory and re-expand on changes")
	)

	if err := flags.Parse(args); err != nil {
		return err
	}

	aliases, err := bootstrap.ParseAliases(*aliasPairs)
	if err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		DataDir:      *dataDir,
		TemplatesDir: *templatesDir,
		IndexFile:    *indexFile,
		URLPrefix:    *urlPrefix,
		MountLocale:  *mountLocale,
		Locales:      bootstrap.SplitLocales(*localesList),
		Aliases:      aliases,
		ValidateData: *validateData,
		Watch:        *watchData,
	})
	if err != nil {
		return err
	}
	engine := module.Engine
	defer engine.Close()

	ctx := context.Background()
	siteFS := os.DirFS(*siteDir)

	scanner := source.NewScanner(siteFS, source.Config{
		Pattern:          *pattern,
		ParseFrontmatter: true,
	})
	resources, err := scanner.Scan(ctx)
	if err != nil {
		return fmt.Errorf("scan site sources: %w", err)
	}

	result, err := engine.Expand(ctx, resources)
	if err != nil {
		return fmt.Errorf("expand resources: %w", err)
	}

	known, err := engine.KnownLocales(ctx)
	if err != nil {
		return fmt.Errorf("resolve known locales: %w", err)
	}
	mount, err := engine.MountLocale(ctx)
	if err != nil {
		return fmt.Errorf("resolve mount locale: %w", err)
	}

	fmt.Fprintf(stdout, "Locales: %s (mount %s)\n", strings.Join(known, ", "), mount)
	fmt.Fprintf(stdout, "Sources: %d  Localized: %d\n\n", len(resources), len(result.Descriptors))

	writeRouteTable(stdout, result.Resources)

	if *pagePath != "" {
		if err := inspectPage(stdout, siteFS, result.Resources, *pagePath, *renderHTML); err != nil {
			return err
		}
	}

	if *watchData {
		return watchChanges(ctx, stdout, engine)
	}
	return nil
}

// writeRouteTable prints one row per generated proxy, grouped under the
// source template it renders through.
func writeRouteTable(stdout io.Writer, resources sitemap.List) {
	proxies := resources.Proxies()
	if len(proxies) == 0 {
		fmt.Fprintln(stdout, "No localized routes generated.")
		return
	}

	width := len("SOURCE")
	for _, proxy := range proxies {
		if ref := proxy.Proxy(); ref != nil && len(ref.Target) > width {
			width = len(ref.Target)
		}
	}

	fmt.Fprintf(stdout, "%-*s  %-8s %s\n", width, "SOURCE", "LOCALE", "ROUTE")
	previous := ""
	for _, proxy := range proxies {
		ref := proxy.Proxy()
		if ref == nil {
			continue
		}
		label := ref.Target
		if label == previous {
			label = ""
		} else {
			previous = ref.Target
		}
		fmt.Fprintf(stdout, "%-*s  %-8s %s\n", width, label, ref.Locale, sitemap.URLPath(proxy.Path))
	}
	fmt.Fprintln(stdout)
}

// inspectPage prints the localized routes for one source page plus its
// frontmatter, and optionally the markdown body rendered to HTML. The page
// argument is the on disk file; proxies reference its destination path.
func inspectPage(stdout io.Writer, siteFS fs.FS, resources sitemap.List, page string, renderHTML bool) error {
	target := page
	for _, res := range resources {
		if res.IsProxy() {
			continue
		}
		if res.SourcePath == page || res.Path == page {
			target = res.Path
			break
		}
	}

	matches := make(sitemap.List, 0, 4)
	for _, res := range resources {
		if ref := res.Proxy(); ref != nil && ref.Target == target {
			matches = append(matches, res)
		}
	}

	fmt.Fprintf(stdout, "Page: %s\n", page)
	if len(matches) == 0 {
		fmt.Fprintln(stdout, "No localized routes for this page.")
	}
	for _, res := range matches {
		fmt.Fprintf(stdout, "  %s -> %s\n", res.Locale(), sitemap.URLPath(res.Path))
	}

	data, err := fs.ReadFile(siteFS, page)
	if err != nil {
		return fmt.Errorf("read page %s: %w", page, err)
	}

	meta := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return fmt.Errorf("parse frontmatter %s: %w", page, err)
	}

	if len(meta) > 0 {
		if encoded, err := json.MarshalIndent(meta, "", "  "); err == nil {
			fmt.Fprintf(stdout, "\nFrontmatter:\n%s\n", encoded)
		}
	}

	if renderHTML {
		md := goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Linkify,
			),
		)
		var rendered bytes.Buffer
		if err := md.Convert(body, &rendered); err != nil {
			return fmt.Errorf("render page %s: %w", page, err)
		}
		fmt.Fprintf(stdout, "\nRendered HTML:\n%s\n", rendered.String())
	}
	return nil
}

// watchChanges blocks until interrupted, reporting every locale data reload
// the engine performs.
func watchChanges(ctx context.Context, stdout io.Writer, engine *localize.Module) error {
	watchCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := engine.StartWatching(watchCtx); err != nil {
		return fmt.Errorf("start locale data watch: %w", err)
	}

	changes, err := engine.SubscribeChanges(watchCtx)
	if err != nil {
		return fmt.Errorf("subscribe to locale data changes: %w", err)
	}

	fmt.Fprintln(stdout, "Watching locale data; press ctrl-c to stop.")
	for {
		select {
		case <-watchCtx.Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			fmt.Fprintf(stdout, "reloaded: updated=%v removed=%v entries=%d\n",
				change.Updated, change.Removed, engine.Index().Len())
		}
	}
}
