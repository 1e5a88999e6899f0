package locales

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository persists locale registry records using a Bun-backed database.
type BunRepository struct {
	repo repository.Repository[*Locale]
}

// NewBunRepository constructs a Bun-backed registry without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache constructs a Bun-backed registry with optional
// read-through caching.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	base := NewLocaleRecordRepository(db)
	return &BunRepository{repo: wrapWithCache(base, cacheService, keySerializer)}
}

// Create inserts the supplied locale record.
func (r *BunRepository) Create(ctx context.Context, record *Locale) (*Locale, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "locale", record.Code)
	}
	return created, nil
}

// GetByCode retrieves a locale record by code.
func (r *BunRepository) GetByCode(ctx context.Context, code string) (*Locale, error) {
	result, err := r.repo.GetByIdentifier(ctx, code)
	if err != nil {
		return nil, mapRepositoryError(err, "locale", code)
	}
	return result, nil
}

// List returns all registry records.
func (r *BunRepository) List(ctx context.Context) ([]*Locale, error) {
	records, _, err := r.repo.List(ctx)
	if err != nil {
		return nil, mapRepositoryError(err, "locale", "")
	}
	return records, nil
}

// Update persists changes to an existing record.
func (r *BunRepository) Update(ctx context.Context, record *Locale) (*Locale, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "locale", record.Code)
	}
	return updated, nil
}

// Delete removes the record with the supplied ID.
func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Locale{ID: id}); err != nil {
		return mapRepositoryError(err, "locale", id.String())
	}
	return nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
