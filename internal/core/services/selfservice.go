package services

import (
	"AidDesk/internal/core/domain"
	"AidDesk/internal/core/phone"
	"AidDesk/internal/core/ports"
	"AidDesk/internal/shared/metrics"
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SelfService lets requesters find and delete their own submissions using
// only a phone number. Knowing the number is the whole proof of ownership;
// phone.Matches is the one place to swap for a stronger check.
type SelfService struct {
	repo    ports.RequestRepository
	metrics *metrics.Metrics
	log     zerolog.Logger
}

func NewSelfService(repo ports.RequestRepository, m *metrics.Metrics, baseLogger *zerolog.Logger) *SelfService {
	return &SelfService{
		repo:    repo,
		metrics: m,
		log:     baseLogger.With().Str("component", "self_service").Logger(),
	}
}

// Lookup returns every request filed under any spelling of phoneInput, newest first.
func (s *SelfService) Lookup(ctx context.Context, phoneInput string) ([]RequesterView, error) {
	if err := checkPhoneInput(phoneInput); err != nil {
		s.metrics.IncSelfService("lookup", "invalid")
		return nil, err
	}

	found, err := s.repo.FindByPhone(ctx, phone.Expand(phoneInput))
	if err != nil {
		s.log.Error().Err(err).Msg("Phone lookup failed")
		s.metrics.IncSelfService("lookup", "error")
		return nil, err
	}

	views := make([]RequesterView, 0, len(found))
	for _, r := range found {
		views = append(views, newRequesterView(r))
	}
	s.metrics.IncSelfService("lookup", "ok")
	return views, nil
}

// Delete removes request id if phoneInput matches its stored phone.
// A published projection goes with it.
func (s *SelfService) Delete(ctx context.Context, id uuid.UUID, phoneInput string) error {
	log := s.log.With().Str("request_id", id.String()).Logger()

	if err := checkPhoneInput(phoneInput); err != nil {
		s.metrics.IncSelfService("delete", "invalid")
		return err
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load request for deletion")
		s.metrics.IncSelfService("delete", "error")
		return err
	}
	if req == nil {
		s.metrics.IncSelfService("delete", "not_found")
		return domain.ErrNotFound
	}
	if !phone.Matches(phoneInput, req.PhoneNumber) {
		log.Warn().Msg("Self-service delete with non-matching phone")
		s.metrics.IncSelfService("delete", "denied")
		return domain.ErrAuthorization
	}

	if err := s.repo.Delete(ctx, id, req.Version); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.metrics.IncSelfService("delete", "not_found")
			return domain.ErrNotFound
		}
		log.Info().Err(err).Msg("Self-service delete failed")
		s.metrics.IncSelfService("delete", "error")
		return err
	}

	log.Info().Str("status", string(req.Status)).Msg("Request deleted by requester")
	s.metrics.IncSelfService("delete", "ok")
	return nil
}

// checkPhoneInput refuses input without a single digit. Short numbers are
// still accepted.
func checkPhoneInput(input string) error {
	if phone.Digits(input) == "" {
		return domain.NewValidationError("phoneNumber", "must contain digits")
	}
	return nil
}
