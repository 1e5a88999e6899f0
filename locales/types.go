package locales

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Locale is the registry record for one locale the engine localizes for.
// Registry entries enrich discovered locale codes with display metadata and
// the URL alias substituted into prefix templates.
type Locale struct {
	bun.BaseModel `bun:"table:locales,alias:l"`

	ID          uuid.UUID      `bun:",pk,type:uuid"         json:"id"`
	Code        string         `bun:"code,notnull"          json:"code"`
	Display     string         `bun:"display_name,notnull"  json:"display_name"`
	NativeName  *string        `bun:"native_name"           json:"native_name,omitempty"`
	URLAlias    *string        `bun:"url_alias"             json:"url_alias,omitempty"`
	IsActive    bool           `bun:"is_active,notnull,default:true"   json:"is_active"`
	MountAtRoot bool           `bun:"mount_at_root,notnull,default:false" json:"mount_at_root"`
	Metadata    map[string]any `bun:"metadata,type:jsonb"   json:"metadata,omitempty"`
	DeletedAt   *time.Time     `bun:"deleted_at,nullzero"   json:"deleted_at,omitempty"`
	CreatedAt   time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// Alias returns the URL alias for the locale, falling back to its code.
func (l *Locale) Alias() string {
	if l == nil {
		return ""
	}
	if l.URLAlias != nil && *l.URLAlias != "" {
		return *l.URLAlias
	}
	return l.Code
}

// Clone returns a deep copy of the registry record.
func (l *Locale) Clone() *Locale {
	if l == nil {
		return nil
	}
	out := *l
	if l.NativeName != nil {
		v := *l.NativeName
		out.NativeName = &v
	}
	if l.URLAlias != nil {
		v := *l.URLAlias
		out.URLAlias = &v
	}
	if l.DeletedAt != nil {
		v := *l.DeletedAt
		out.DeletedAt = &v
	}
	if l.Metadata != nil {
		out.Metadata = make(map[string]any, len(l.Metadata))
		for k, v := range l.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}
