package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// LocaleUUID identifies a locale registry record by its canonical code.
func LocaleUUID(localeCode string) uuid.UUID {
	return UUID("go-localize:locale:" + strings.ToLower(strings.TrimSpace(localeCode)))
}

// PageUUID identifies a localized proxy resource by its source template and
// the locale it serves. Re-expansions of the same sitemap yield stable IDs.
func PageUUID(sourcePath, locale string) uuid.UUID {
	return UUID("go-localize:page:" + strings.TrimSpace(sourcePath) + ":" + strings.ToLower(strings.TrimSpace(locale)))
}
