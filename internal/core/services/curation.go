package services

import (
	"AidDesk/internal/core/curation"
	"AidDesk/internal/core/domain"
	"AidDesk/internal/core/ports"
	"AidDesk/internal/shared/metrics"
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CurateInput is one admin curation pass.
type CurateInput struct {
	Edits domain.CurationEdits
	// AdminNotes replaces the internal notes when not nil.
	AdminNotes *string
	// ExpectedVersion, when non-zero, must equal the stored version.
	ExpectedVersion int64
}

// Curation stores admin-curated projections.
type Curation struct {
	repo    ports.RequestRepository
	authz   ports.CuratorAuthorizer
	metrics *metrics.Metrics
	now     func() time.Time
	log     zerolog.Logger
}

func NewCuration(repo ports.RequestRepository, authz ports.CuratorAuthorizer, m *metrics.Metrics, baseLogger *zerolog.Logger) *Curation {
	return &Curation{
		repo:    repo,
		authz:   authz,
		metrics: m,
		now:     time.Now,
		log:     baseLogger.With().Str("component", "curation_service").Logger(),
	}
}

// Curate rebuilds the projection of request id from the edits and saves it
// together with the admin notes. The previous projection is replaced whole.
func (s *Curation) Curate(ctx context.Context, actor domain.Actor, id uuid.UUID, in CurateInput) (*domain.PublicProjection, error) {
	log := s.log.With().Str("request_id", id.String()).Str("actor", actor.String()).Logger()

	if !s.authz.IsAuthorizedCurator(actor) {
		log.Warn().Msg("Unauthorized curation attempt")
		return nil, domain.ErrUnauthorized
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load request")
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if in.ExpectedVersion != 0 && in.ExpectedVersion != req.Version {
		return nil, domain.ErrConcurrentModification
	}
	if req.Status.IsTerminal() {
		return nil, domain.NewValidationError("status", "request is "+string(req.Status)+" and can no longer be curated")
	}

	now := s.now().UTC()
	projection, err := curation.Curate(req, in.Edits, actor.String(), now)
	if err != nil {
		log.Info().Err(err).Msg("Curation refused")
		return nil, err
	}

	if projection.IsPublished() {
		previous, err := s.repo.GetProjection(ctx, id)
		if err != nil {
			log.Error().Err(err).Msg("Failed to load current projection")
			return nil, err
		}
		// Copy edits keep the catalog position of a live entry.
		if previous.IsPublished() && previous.PublishedAt != nil {
			publishedAt := *previous.PublishedAt
			projection.PublishedAt = &publishedAt
		}
	}

	if in.AdminNotes != nil {
		req.AdminNotes = strings.TrimSpace(*in.AdminNotes)
	}
	req.UpdatedAt = now

	if err := s.repo.Save(ctx, req, projection, req.Version); err != nil {
		log.Info().Err(err).Msg("Failed to save curation")
		return nil, err
	}

	log.Info().Str("visibility", string(projection.Visibility)).Msg("Request curated")
	s.metrics.IncCuration()
	return projection, nil
}
