package locales

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-localize/internal/identity"
)

// MemoryRepository is an in-memory registry implementation for scaffolding
// and tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	records   map[uuid.UUID]*Locale
	codeIndex map[string]uuid.UUID
}

// NewMemoryRepository creates an empty in-memory locale registry.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records:   make(map[uuid.UUID]*Locale),
		codeIndex: make(map[string]uuid.UUID),
	}
}

// Create inserts the supplied locale record. A zero ID is assigned
// deterministically from the locale code.
func (m *MemoryRepository) Create(_ context.Context, record *Locale) (*Locale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := record.Clone()
	if copied.ID == uuid.Nil {
		copied.ID = identity.LocaleUUID(copied.Code)
	}
	m.records[copied.ID] = copied
	m.codeIndex[codeKey(copied.Code)] = copied.ID
	return copied.Clone(), nil
}

// GetByCode retrieves a locale record by code, returning NotFoundError when
// absent. Codes match case-insensitively.
func (m *MemoryRepository) GetByCode(_ context.Context, code string) (*Locale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.codeIndex[codeKey(code)]
	if !ok {
		return nil, &NotFoundError{Resource: "locale", Key: code}
	}
	return m.records[id].Clone(), nil
}

// List returns all registry records.
func (m *MemoryRepository) List(_ context.Context) ([]*Locale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Locale, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec.Clone())
	}
	return out, nil
}

// Update replaces the stored record with the same ID.
func (m *MemoryRepository) Update(_ context.Context, record *Locale) (*Locale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "locale", Key: record.ID.String()}
	}
	delete(m.codeIndex, codeKey(existing.Code))

	copied := record.Clone()
	m.records[copied.ID] = copied
	m.codeIndex[codeKey(copied.Code)] = copied.ID
	return copied.Clone(), nil
}

// Delete removes the record with the supplied ID.
func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[id]
	if !ok {
		return &NotFoundError{Resource: "locale", Key: id.String()}
	}
	delete(m.codeIndex, codeKey(existing.Code))
	delete(m.records, id)
	return nil
}

func codeKey(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
