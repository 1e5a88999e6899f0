package interfaces

import "context"

// LocalizationEngine is the operational surface the command layer drives:
// explicit reloads after locale-data edits, index rebuilds over the last
// expanded resource list, and cleanup of generated localized state.
type LocalizationEngine interface {
	// Reload re-reads locale data, refreshes the known-locale set, and
	// replaces the translation store contents.
	Reload(ctx context.Context) error
	// RebuildIndex re-runs localization over the most recent resource list
	// and reports the number of lookup index entries produced.
	RebuildIndex(ctx context.Context) (int, error)
	// CleanIndex removes generated localized proxies and clears the lookup
	// index, reporting how many proxies were dropped.
	CleanIndex(ctx context.Context) (int, error)
}
