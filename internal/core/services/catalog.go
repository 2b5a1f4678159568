package services

import (
	"AidDesk/internal/core/domain"
	"AidDesk/internal/core/ports"
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Catalog is the read-only public listing of curated requests.
type Catalog struct {
	repo ports.RequestRepository
	log  zerolog.Logger
}

func NewCatalog(repo ports.RequestRepository, baseLogger *zerolog.Logger) *Catalog {
	return &Catalog{
		repo: repo,
		log:  baseLogger.With().Str("component", "catalog_service").Logger(),
	}
}

// List returns published entries matching filter.
func (s *Catalog) List(ctx context.Context, filter domain.CatalogFilter) ([]PublicView, error) {
	projections, err := s.repo.ListPublished(ctx, filter)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list published requests")
		return nil, err
	}

	views := make([]PublicView, 0, len(projections))
	for _, p := range projections {
		views = append(views, newPublicView(p))
	}
	return views, nil
}

// Get returns one published entry, or domain.ErrNotFound when it is missing
// or not public.
func (s *Catalog) Get(ctx context.Context, id uuid.UUID) (PublicView, error) {
	p, err := s.repo.GetProjection(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Str("request_id", id.String()).Msg("Failed to load projection")
		return PublicView{}, err
	}
	if !p.IsPublished() {
		return PublicView{}, domain.ErrNotFound
	}
	return newPublicView(p), nil
}
