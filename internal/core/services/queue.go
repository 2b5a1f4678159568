package services

import (
	"AidDesk/internal/core/domain"
	"AidDesk/internal/core/ports"
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultQueueLimit = 50

// AdminDetail is the full record an authorized curator works from.
type AdminDetail struct {
	Request    *domain.RawRequest
	Projection *domain.PublicProjection // Nullable
}

// Queue gives curators the review queue and request details.
type Queue struct {
	repo  ports.RequestRepository
	authz ports.CuratorAuthorizer
	log   zerolog.Logger
}

func NewQueue(repo ports.RequestRepository, authz ports.CuratorAuthorizer, baseLogger *zerolog.Logger) *Queue {
	return &Queue{
		repo:  repo,
		authz: authz,
		log:   baseLogger.With().Str("component", "queue_service").Logger(),
	}
}

// Pending lists requests waiting on an admin, oldest first, without PII.
func (s *Queue) Pending(ctx context.Context, actor domain.Actor, limit int) ([]domain.RequestSummary, error) {
	if !s.authz.IsAuthorizedCurator(actor) {
		return nil, domain.ErrUnauthorized
	}
	if limit <= 0 {
		limit = defaultQueueLimit
	}

	reqs, err := s.repo.ListByStatus(ctx, []domain.Status{domain.StatusPending, domain.StatusReviewing}, limit)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list review queue")
		return nil, err
	}

	out := make([]domain.RequestSummary, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.Summary())
	}
	return out, nil
}

// Detail returns the raw request and its projection.
func (s *Queue) Detail(ctx context.Context, actor domain.Actor, id uuid.UUID) (*AdminDetail, error) {
	if !s.authz.IsAuthorizedCurator(actor) {
		return nil, domain.ErrUnauthorized
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	projection, err := s.repo.GetProjection(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("request_id", id.String()).Str("actor", actor.String()).Msg("Admin opened request")
	return &AdminDetail{Request: req, Projection: projection}, nil
}
