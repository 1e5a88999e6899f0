package locales

import localizelocales "github.com/goliatone/go-localize/locales"

type (
	Locale = localizelocales.Locale
)
