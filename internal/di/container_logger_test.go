package di_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-localize/internal/di"
	"github.com/goliatone/go-localize/internal/runtimeconfig"
	"github.com/goliatone/go-localize/pkg/interfaces"
)

func TestContainerRegistryFallbackLogsThroughProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Registry = true
	cfg.Storage.Provider = "bun"

	rec := newRecordingProvider()

	if _, err := di.NewContainer(cfg, di.WithLoggerProvider(rec)); err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	entry := rec.find("locales.registry.fallback")
	if entry == nil {
		t.Fatalf("expected locales.registry.fallback log entry, got %#v", rec.entries)
	}
	if got := entry.fields["module"]; got != "localize" {
		t.Fatalf("expected module field to be localize, got %v", got)
	}
}

func TestContainerDiscoveryLogsUnderLocalesModule(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	rec := newRecordingProvider()
	data := fstest.MapFS{
		"en.yml": &fstest.MapFile{Data: []byte("en:\n  greeting: hello\n")},
	}

	container, err := di.NewContainer(cfg, di.WithLoggerProvider(rec), di.WithDataFS(data))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	if _, err := container.LocaleService().Known(context.Background()); err != nil {
		t.Fatalf("Known returned error: %v", err)
	}

	entry := rec.find("locales.discovered")
	if entry == nil {
		t.Fatalf("expected locales.discovered log entry, got %#v", rec.entries)
	}
	if got := entry.fields["module"]; got != "localize.locales" {
		t.Fatalf("expected module field to be localize.locales, got %v", got)
	}
	if got := entry.fields["logger"]; got != "localize.locales" {
		t.Fatalf("expected logger name to be localize.locales, got %v", got)
	}
}

type recordingProvider struct {
	entries []recordedEntry
}

type recordedEntry struct {
	level  string
	msg    string
	fields map[string]any
}

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{entries: []recordedEntry{}}
}

func (p *recordingProvider) GetLogger(name string) interfaces.Logger {
	return &recordingLogger{
		provider: p,
		fields: map[string]any{
			"logger": name,
		},
	}
}

func (p *recordingProvider) record(entry recordedEntry) {
	p.entries = append(p.entries, entry)
}

func (p *recordingProvider) find(msg string) *recordedEntry {
	for i := range p.entries {
		if p.entries[i].msg == msg {
			return &p.entries[i]
		}
	}
	return nil
}

type recordingLogger struct {
	provider *recordingProvider
	fields   map[string]any
}

var _ interfaces.Logger = (*recordingLogger)(nil)

func (l *recordingLogger) Trace(msg string, args ...any) { l.log("TRACE", msg, args...) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.log("DEBUG", msg, args...) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.log("INFO", msg, args...) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.log("WARN", msg, args...) }
func (l *recordingLogger) Error(msg string, args ...any) { l.log("ERROR", msg, args...) }
func (l *recordingLogger) Fatal(msg string, args ...any) { l.log("FATAL", msg, args...) }

func (l *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	merged := make(map[string]any, len(l.fields)+len(fields))
	for key, value := range l.fields {
		merged[key] = value
	}
	for key, value := range fields {
		merged[key] = value
	}
	return &recordingLogger{
		provider: l.provider,
		fields:   merged,
	}
}

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger {
	return &recordingLogger{
		provider: l.provider,
		fields:   cloneFields(l.fields),
	}
}

func (l *recordingLogger) log(level, msg string, args ...any) {
	fields := cloneFields(l.fields)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			break
		}
		key, _ := args[i].(string)
		if key == "" {
			continue
		}
		fields[key] = args[i+1]
	}
	l.provider.record(recordedEntry{
		level:  level,
		msg:    msg,
		fields: fields,
	})
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}
