package lifecycle

import (
	"AidDesk/internal/core/domain"
	"AidDesk/internal/core/ports"
	"AidDesk/internal/shared/metrics"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TransitionOptions carries the optional inputs of a transition.
type TransitionOptions struct {
	RejectionReason string
	// ExpectedVersion, when non-zero, must equal the stored version.
	// Zero means "the version just read".
	ExpectedVersion int64
}

// Controller applies status transitions and emits one event per success.
type Controller struct {
	repo     ports.RequestRepository
	authz    ports.CuratorAuthorizer
	notifier ports.Notifier
	metrics  *metrics.Metrics
	now      func() time.Time
	log      zerolog.Logger
}

// NewController creates the lifecycle controller.
func NewController(
	repo ports.RequestRepository,
	authz ports.CuratorAuthorizer,
	notifier ports.Notifier,
	m *metrics.Metrics,
	baseLogger *zerolog.Logger,
) *Controller {
	return &Controller{
		repo:     repo,
		authz:    authz,
		notifier: notifier,
		metrics:  m,
		now:      time.Now,
		log:      baseLogger.With().Str("component", "lifecycle_controller").Logger(),
	}
}

// Transition moves request id to target on behalf of actor.
func (c *Controller) Transition(ctx context.Context, actor domain.Actor, id uuid.UUID, target domain.Status, opts TransitionOptions) (*domain.RawRequest, error) {
	log := c.log.With().
		Str("request_id", id.String()).
		Str("actor", actor.String()).
		Str("target", string(target)).
		Logger()

	if !c.authz.IsAuthorizedCurator(actor) {
		log.Warn().Msg("Unauthorized transition attempt")
		return nil, domain.ErrUnauthorized
	}
	if !target.Valid() {
		return nil, domain.NewValidationError("status", "unknown status")
	}

	req, err := c.repo.GetByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load request")
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}

	expected := req.Version
	if opts.ExpectedVersion != 0 {
		if opts.ExpectedVersion != req.Version {
			log.Info().Int64("expected", opts.ExpectedVersion).Int64("stored", req.Version).Msg("Stale version")
			return nil, domain.ErrConcurrentModification
		}
		expected = opts.ExpectedVersion
	}

	var projection *domain.PublicProjection
	if target == domain.StatusPublished || req.Status == domain.StatusPublished {
		projection, err = c.repo.GetProjection(ctx, id)
		if err != nil {
			log.Error().Err(err).Msg("Failed to load projection")
			return nil, err
		}
	}

	now := c.now().UTC()
	change, err := Apply(req, projection, target, opts.RejectionReason, now)
	if err != nil {
		log.Info().Err(err).Msg("Transition refused")
		return nil, err
	}

	if err := c.repo.Save(ctx, req, change.Projection, expected); err != nil {
		if errors.Is(err, domain.ErrConcurrentModification) || errors.Is(err, domain.ErrNotFound) {
			log.Info().Err(err).Msg("Transition lost a race")
		} else {
			log.Error().Err(err).Msg("Failed to save transition")
		}
		return nil, err
	}

	log.Info().Str("from", string(change.From)).Msg("Request transitioned")
	c.metrics.IncTransition(string(change.From), string(change.To))
	c.notifier.Notify(ctx, change.Event)

	return req, nil
}
