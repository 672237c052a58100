package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"wildlens_tours/internal/adapters/observability"
	"wildlens_tours/internal/catalog"
	"wildlens_tours/internal/domain"
)

const catalogSnapshotKey = "catalog:tours"

// Loader populates the Catalog Store from the remote service, with a Redis
// snapshot in front so a session restart inside the TTL skips the remote
// fetch. Concurrent loads collapse into one flight.
type Loader struct {
	api   domain.TourAPI
	cache domain.Cache
	store *catalog.Store
	ttl   time.Duration
	log   zerolog.Logger
	sf    singleflight.Group
}

func NewLoader(api domain.TourAPI, cache domain.Cache, store *catalog.Store, ttl time.Duration, log zerolog.Logger) *Loader {
	return &Loader{api: api, cache: cache, store: store, ttl: ttl, log: log}
}

// Load fills the store, preferring the cached snapshot.
func (l *Loader) Load(ctx context.Context) error {
	_, err, _ := l.sf.Do("load", func() (any, error) {
		if l.cache != nil {
			var tours []domain.Tour
			if ok, err := l.cache.Get(ctx, catalogSnapshotKey, &tours); err == nil && ok && len(tours) > 0 {
				l.store.Load(tours)
				observability.ObserveCatalogRefresh("cache")
				l.log.Info().Int("tours", len(tours)).Msg("catalog loaded from snapshot")
				return nil, nil
			}
		}
		return nil, l.fetch(ctx)
	})
	return err
}

// Refresh bypasses the snapshot and rewrites it from the remote catalog.
func (l *Loader) Refresh(ctx context.Context) error {
	_, err, _ := l.sf.Do("refresh", func() (any, error) {
		return nil, l.fetch(ctx)
	})
	return err
}

func (l *Loader) fetch(ctx context.Context) error {
	tours, err := l.api.FetchTours(ctx)
	if err != nil {
		return err
	}
	l.store.Load(tours)
	if l.cache != nil {
		_ = l.cache.Set(ctx, catalogSnapshotKey, tours, int(l.ttl.Seconds()))
	}
	observability.ObserveCatalogRefresh("remote")
	l.log.Info().Int("tours", len(tours)).Msg("catalog loaded from remote")
	return nil
}
