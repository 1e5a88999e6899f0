package localeops

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	reloadLocalesMessageType = "localize.locales.reload"
	rebuildIndexMessageType  = "localize.index.rebuild"
	cleanIndexMessageType    = "localize.index.clean"
)

// ReloadLocalesCommand re-reads locale data files and refreshes the known
// locale set. Watch-driven reloads dispatch this after each change set; hosts
// can dispatch it directly after editing data files out of band.
type ReloadLocalesCommand struct {
	// Force reloads even when the engine believes nothing changed.
	Force bool `json:"force,omitempty"`
}

// Type implements command.Message.
func (ReloadLocalesCommand) Type() string { return reloadLocalesMessageType }

// Validate satisfies command.Message.
func (cmd ReloadLocalesCommand) Validate() error {
	return validation.ValidateStruct(&cmd)
}

// RebuildIndexCommand re-runs localization over the most recent resource list
// so the lookup index reflects the current locale set and translations.
type RebuildIndexCommand struct{}

// Type implements command.Message.
func (RebuildIndexCommand) Type() string { return rebuildIndexMessageType }

// Validate satisfies command.Message.
func (RebuildIndexCommand) Validate() error {
	return validation.ValidateStruct(&RebuildIndexCommand{})
}

// CleanIndexCommand drops generated localized proxies and clears the lookup
// index, returning the engine to its pre-expansion state.
type CleanIndexCommand struct{}

// Type implements command.Message.
func (CleanIndexCommand) Type() string { return cleanIndexMessageType }

// Validate satisfies command.Message.
func (CleanIndexCommand) Validate() error {
	return validation.ValidateStruct(&CleanIndexCommand{})
}
