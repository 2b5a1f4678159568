package lifecycle

import (
	"AidDesk/internal/adapters/memory"
	"AidDesk/internal/core/domain"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, event domain.TransitionEvent) {
	m.Called(ctx, event)
}

// MockAuthorizer
type MockAuthorizer struct {
	mock.Mock
}

func (m *MockAuthorizer) IsAuthorizedCurator(actor domain.Actor) bool {
	args := m.Called(actor)
	return args.Bool(0)
}

func TestController_Transition(t *testing.T) {
	// 1. Setup
	ctx := context.Background()
	nopLogger := zerolog.Nop()
	repo := memory.NewRequestRepository(&nopLogger)

	actor := domain.Actor{Channel: domain.ChannelTelegram, ID: "42"}
	authz := new(MockAuthorizer)
	authz.On("IsAuthorizedCurator", actor).Return(true)
	notifier := new(MockNotifier)
	notifier.On("Notify", ctx, mock.Anything).Return()

	c := NewController(repo, authz, notifier, nil, &nopLogger)
	fixed := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	req := &domain.RawRequest{
		ID:          uuid.New(),
		Category:    domain.CategoryForeignMedicine,
		PhoneNumber: "0550123456",
		Status:      domain.StatusPending,
		Version:     1,
	}
	if err := repo.Create(ctx, req); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// 2. Run
	updated, err := c.Transition(ctx, actor, req.ID, domain.StatusReviewing, TransitionOptions{ExpectedVersion: 1})
	if err != nil {
		t.Fatalf("Transition failed: %v", err)
	}

	// 3. Verify
	if updated.Status != domain.StatusReviewing || updated.Version != 2 || !updated.UpdatedAt.Equal(fixed) {
		t.Errorf("unexpected result: %+v", updated)
	}
	notifier.AssertNumberOfCalls(t, "Notify", 1)
	notifier.AssertCalled(t, "Notify", ctx, domain.TransitionEvent{
		Kind:       domain.EventTransitioned,
		RequestID:  req.ID,
		Category:   domain.CategoryForeignMedicine,
		From:       domain.StatusPending,
		To:         domain.StatusReviewing,
		OccurredAt: fixed,
	})

	// 4. Stale version is refused without a second event.
	_, err = c.Transition(ctx, actor, req.ID, domain.StatusHandled, TransitionOptions{ExpectedVersion: 1})
	if !errors.Is(err, domain.ErrConcurrentModification) {
		t.Fatalf("expected ErrConcurrentModification, got %v", err)
	}
	notifier.AssertNumberOfCalls(t, "Notify", 1)
}

func TestController_RefusedTransitionsEmitNothing(t *testing.T) {
	ctx := context.Background()
	nopLogger := zerolog.Nop()
	repo := memory.NewRequestRepository(&nopLogger)

	curator := domain.Actor{Channel: domain.ChannelHTTP, ID: "ops"}
	outsider := domain.Actor{Channel: domain.ChannelHTTP, ID: "intruder"}
	authz := new(MockAuthorizer)
	authz.On("IsAuthorizedCurator", curator).Return(true)
	authz.On("IsAuthorizedCurator", outsider).Return(false)
	notifier := new(MockNotifier)

	c := NewController(repo, authz, notifier, nil, &nopLogger)

	req := &domain.RawRequest{ID: uuid.New(), Category: domain.CategoryLocalMedicine, Status: domain.StatusPending, Version: 1}
	_ = repo.Create(ctx, req)

	testCases := []struct {
		name    string
		actor   domain.Actor
		id      uuid.UUID
		target  domain.Status
		wantErr error
	}{
		{name: "outsider", actor: outsider, id: req.ID, target: domain.StatusReviewing, wantErr: domain.ErrUnauthorized},
		{name: "unknown request", actor: curator, id: uuid.New(), target: domain.StatusReviewing, wantErr: domain.ErrNotFound},
		{name: "skips review", actor: curator, id: req.ID, target: domain.StatusPublished, wantErr: domain.ErrInvalidTransition},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Transition(ctx, tc.actor, tc.id, tc.target, TransitionOptions{})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}

	_, err := c.Transition(ctx, curator, req.ID, "archived", TransitionOptions{})
	if !domain.IsValidation(err) {
		t.Errorf("expected validation error for unknown status, got %v", err)
	}
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}
