package interfaces

import "context"

// ChangeSet describes a batch of locale-data file changes. Updated covers
// created and modified files, Removed covers deletes and renames away.
// Paths are relative to the watched directory.
type ChangeSet struct {
	Updated []string
	Removed []string
}

// Empty reports whether the change set carries no paths.
func (c ChangeSet) Empty() bool {
	return len(c.Updated) == 0 && len(c.Removed) == 0
}

// LocaleDataWatcher observes the locale-data directory and delivers coalesced
// change sets until the context is cancelled or Close is called.
type LocaleDataWatcher interface {
	Watch(ctx context.Context) (<-chan ChangeSet, error)
	Close() error
}
