// Package lifecycle owns the request status state machine.
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"AidDesk/internal/core/domain"
)

// transitions is the whole state machine. handled and rejected have no exits.
var transitions = map[domain.Status][]domain.Status{
	domain.StatusPending:   {domain.StatusReviewing},
	domain.StatusReviewing: {domain.StatusPublished, domain.StatusHandled, domain.StatusRejected},
	domain.StatusPublished: {domain.StatusHandled, domain.StatusRejected},
}

// CanTransition reports whether from -> to is an edge of the state machine.
func CanTransition(from, to domain.Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses lists the legal targets from s.
func NextStatuses(s domain.Status) []domain.Status {
	return append([]domain.Status(nil), transitions[s]...)
}

// Change is the outcome of applying a transition in memory.
type Change struct {
	From       domain.Status
	To         domain.Status
	Projection *domain.PublicProjection // Non-nil when the projection must be written with the status
	Event      domain.TransitionEvent
}

// Apply validates and applies the transition of req to target. req and
// projection are modified in place; nothing is persisted.
func Apply(req *domain.RawRequest, projection *domain.PublicProjection, target domain.Status, rejectionReason string, now time.Time) (*Change, error) {
	from := req.Status
	if !CanTransition(from, target) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, target)
	}

	change := &Change{From: from, To: target}

	switch target {
	case domain.StatusPublished:
		if !projection.Publishable() {
			return nil, domain.ErrIncompleteCuration
		}
		projection.Visibility = domain.VisibilityPublished
		publishedAt := now
		projection.PublishedAt = &publishedAt
		change.Projection = projection

	case domain.StatusRejected:
		reason := strings.TrimSpace(rejectionReason)
		if reason == "" && req.Category.IsHelpRequest() {
			return nil, domain.ErrMissingRejectionReason
		}
		req.RejectionReason = reason
	}

	if from == domain.StatusPublished && projection != nil {
		projection.Visibility = domain.VisibilityUnpublished
		change.Projection = projection
	}

	req.Status = target
	req.UpdatedAt = now

	change.Event = domain.TransitionEvent{
		Kind:            domain.EventTransitioned,
		RequestID:       req.ID,
		Category:        req.Category,
		From:            from,
		To:              target,
		RejectionReason: req.RejectionReason,
		OccurredAt:      now,
	}
	if target != domain.StatusRejected {
		change.Event.RejectionReason = ""
	}
	return change, nil
}
