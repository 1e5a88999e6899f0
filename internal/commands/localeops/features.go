package localeops

// FeatureGates exposes runtime feature toggles required by locale command
// handlers. Callers supply closures reading the engine configuration so
// handlers stay decoupled from it while honouring feature flags.
type FeatureGates struct {
	LocalizationEnabled func() bool
}

func (g FeatureGates) localizationEnabled() bool {
	if g.LocalizationEnabled == nil {
		return true
	}
	return g.LocalizationEnabled()
}
