package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind separates the submission alert from ordinary transitions.
type EventKind string

const (
	EventSubmitted    EventKind = "submitted"
	EventTransitioned EventKind = "transitioned"
)

// TransitionEvent is the only payload notifications carry.
// It deliberately holds no requester data.
type TransitionEvent struct {
	Kind            EventKind
	RequestID       uuid.UUID
	Category        Category
	From            Status // Empty on submission
	To              Status
	RejectionReason string
	OccurredAt      time.Time
}
