package services

import (
	"AidDesk/internal/core/domain"
	"AidDesk/internal/core/ports"
	"AidDesk/internal/shared/metrics"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SubmitInput is everything a requester may provide. Status, notes and
// timestamps are never taken from the caller.
type SubmitInput struct {
	Category            domain.Category
	RequesterName       string
	PhoneNumber         string
	SecondaryContacts   domain.SecondaryContacts
	Location            domain.Location
	NeedDescription     string
	FinancialCapability domain.FinancialCapability
	ApproximateAmount   *float64
	UrgencyDeclared     domain.Urgency
	VitalEmergency      bool
	Attachments         []domain.AttachmentRef
}

// Intake accepts new submissions.
type Intake struct {
	repo     ports.RequestRepository
	notifier ports.Notifier
	metrics  *metrics.Metrics
	now      func() time.Time
	log      zerolog.Logger
}

func NewIntake(repo ports.RequestRepository, notifier ports.Notifier, m *metrics.Metrics, baseLogger *zerolog.Logger) *Intake {
	return &Intake{
		repo:     repo,
		notifier: notifier,
		metrics:  m,
		now:      time.Now,
		log:      baseLogger.With().Str("component", "intake_service").Logger(),
	}
}

// Submit validates and stores a new request as pending, then alerts admins.
func (s *Intake) Submit(ctx context.Context, in SubmitInput) (*domain.RawRequest, error) {
	now := s.now().UTC()
	req := &domain.RawRequest{
		ID:                  uuid.New(),
		Category:            in.Category,
		RequesterName:       in.RequesterName,
		PhoneNumber:         in.PhoneNumber,
		SecondaryContacts:   in.SecondaryContacts,
		Location:            in.Location,
		NeedDescription:     in.NeedDescription,
		FinancialCapability: in.FinancialCapability,
		ApproximateAmount:   in.ApproximateAmount,
		UrgencyDeclared:     in.UrgencyDeclared,
		VitalEmergency:      in.VitalEmergency,
		Attachments:         append([]domain.AttachmentRef(nil), in.Attachments...),
		Status:              domain.StatusPending,
		CreatedAt:           now,
		UpdatedAt:           now,
		Version:             1,
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		s.log.Info().Err(err).Str("category", string(in.Category)).Msg("Rejected invalid submission")
		return nil, err
	}

	if err := s.repo.Create(ctx, req); err != nil {
		s.log.Error().Err(err).Str("request_id", req.ID.String()).Msg("Failed to store submission")
		return nil, err
	}

	s.log.Info().
		Str("request_id", req.ID.String()).
		Str("category", string(req.Category)).
		Msg("New request submitted")
	s.metrics.IncSubmission(string(req.Category))

	s.notifier.Notify(ctx, domain.TransitionEvent{
		Kind:       domain.EventSubmitted,
		RequestID:  req.ID,
		Category:   req.Category,
		To:         domain.StatusPending,
		OccurredAt: now,
	})
	return req, nil
}
