package cache

import (
	"context"
	"encoding/json"
	"errors"

	"inkwell/internal/model"
	"inkwell/internal/store"
)

const (
	keySite       = "site:details"
	keyCategories = "site:categories"
)

// SiteCache is a read-through cache for the site details singleton and the
// category list. Both appear on every rendered page, so they are the hottest
// queries in the application.
type SiteCache struct {
	cache   Cache
	queries *store.Queries
}

// NewSiteCache wraps the given backend and query layer.
func NewSiteCache(c Cache, q *store.Queries) *SiteCache {
	return &SiteCache{cache: c, queries: q}
}

// Site returns the site details, fetching from the database on a miss.
func (s *SiteCache) Site(ctx context.Context) (model.Site, error) {
	if data, err := s.cache.Get(ctx, keySite); err == nil {
		var site model.Site
		if err := json.Unmarshal(data, &site); err == nil {
			return site, nil
		}
		// Corrupt entry, fall through to the database.
		_ = s.cache.Delete(ctx, keySite)
	} else if !errors.Is(err, ErrCacheMiss) && !errors.Is(err, ErrCacheClosed) {
		return model.Site{}, err
	}

	site, err := s.queries.GetSite(ctx)
	if err != nil {
		return model.Site{}, err
	}

	if data, err := json.Marshal(site); err == nil {
		_ = s.cache.Set(ctx, keySite, data, 0)
	}
	return site, nil
}

// Categories returns all categories, fetching from the database on a miss.
func (s *SiteCache) Categories(ctx context.Context) ([]model.Category, error) {
	if data, err := s.cache.Get(ctx, keyCategories); err == nil {
		var categories []model.Category
		if err := json.Unmarshal(data, &categories); err == nil {
			return categories, nil
		}
		_ = s.cache.Delete(ctx, keyCategories)
	} else if !errors.Is(err, ErrCacheMiss) && !errors.Is(err, ErrCacheClosed) {
		return nil, err
	}

	categories, err := s.queries.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(categories); err == nil {
		_ = s.cache.Set(ctx, keyCategories, data, 0)
	}
	return categories, nil
}

// InvalidateSite drops the cached site details after an admin edit.
func (s *SiteCache) InvalidateSite(ctx context.Context) {
	_ = s.cache.Delete(ctx, keySite)
}

// InvalidateCategories drops the cached category list after a category change.
func (s *SiteCache) InvalidateCategories(ctx context.Context) {
	_ = s.cache.Delete(ctx, keyCategories)
}
