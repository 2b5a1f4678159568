package services

import (
	"AidDesk/internal/adapters/memory"
	"AidDesk/internal/core/domain"
	"AidDesk/internal/core/lifecycle"
	"AidDesk/internal/core/ports"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
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

var (
	admin    = domain.Actor{Channel: domain.ChannelHTTP, ID: "ops"}
	stranger = domain.Actor{Channel: domain.ChannelHTTP, ID: "nobody"}
)

type harness struct {
	repo      ports.RequestRepository
	notifier  *MockNotifier
	intake    *Intake
	curation  *Curation
	lifecycle *lifecycle.Controller
	self      *SelfService
	catalog   *Catalog
	queue     *Queue
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	nopLogger := zerolog.Nop()

	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.Anything).Return()
	authz := new(MockAuthorizer)
	authz.On("IsAuthorizedCurator", admin).Return(true)
	authz.On("IsAuthorizedCurator", stranger).Return(false)

	repo := memory.NewRequestRepository(&nopLogger)
	return &harness{
		repo:      repo,
		notifier:  notifier,
		intake:    NewIntake(repo, notifier, nil, &nopLogger),
		curation:  NewCuration(repo, authz, nil, &nopLogger),
		lifecycle: lifecycle.NewController(repo, authz, notifier, nil, &nopLogger),
		self:      NewSelfService(repo, nil, &nopLogger),
		catalog:   NewCatalog(repo, &nopLogger),
		queue:     NewQueue(repo, authz, &nopLogger),
	}
}

func insulinRequest(phoneNumber string) SubmitInput {
	return SubmitInput{
		Category:        domain.CategoryLocalMedicine,
		RequesterName:   "Samir Haddad",
		PhoneNumber:     phoneNumber,
		Location:        domain.Location{Wilaya: "Alger", City: "El Harrach"},
		NeedDescription: "Insulin pens, call me on " + phoneNumber,
	}
}

func (h *harness) submitAndPublish(t *testing.T, in SubmitInput, edits domain.CurationEdits) *domain.RawRequest {
	t.Helper()
	ctx := context.Background()

	req, err := h.intake.Submit(ctx, in)
	require.NoError(t, err)
	_, err = h.lifecycle.Transition(ctx, admin, req.ID, domain.StatusReviewing, lifecycle.TransitionOptions{})
	require.NoError(t, err)
	_, err = h.curation.Curate(ctx, admin, req.ID, CurateInput{Edits: edits})
	require.NoError(t, err)
	published, err := h.lifecycle.Transition(ctx, admin, req.ID, domain.StatusPublished, lifecycle.TransitionOptions{})
	require.NoError(t, err)
	return published
}

func TestSubmitCuratePublish_CatalogShowsOnlyCuratedFields(t *testing.T) {
	// 1. Setup
	h := newHarness(t)
	ctx := context.Background()

	// 2. Run
	req := h.submitAndPublish(t, insulinRequest("0550123456"), domain.CurationEdits{
		Title:   "Insulin needed in Algiers",
		Summary: "Two boxes of insulin pens for an elderly patient",
		Wilaya:  "Alger",
	})

	list, err := h.catalog.List(ctx, domain.CatalogFilter{Category: domain.CategoryLocalMedicine})
	require.NoError(t, err)

	// 3. Verify
	require.Len(t, list, 1)
	entry := list[0]
	assert.Equal(t, req.ID, entry.ID)
	assert.Equal(t, "Insulin needed in Algiers", entry.Title)
	assert.Empty(t, entry.Description)

	for _, field := range []string{entry.Title, entry.Summary, entry.Description, entry.Wilaya, entry.Area} {
		assert.NotContains(t, field, "550123456")
		assert.NotContains(t, field, "Samir")
	}

	got, err := h.catalog.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entry, got)
}

func TestSubmit_EmitsOneEvent(t *testing.T) {
	h := newHarness(t)

	req, err := h.intake.Submit(context.Background(), insulinRequest("0550123456"))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, req.Status)
	assert.Equal(t, int64(1), req.Version)
	h.notifier.AssertNumberOfCalls(t, "Notify", 1)
	h.notifier.AssertCalled(t, "Notify", mock.Anything, mock.MatchedBy(func(e domain.TransitionEvent) bool {
		return e.Kind == domain.EventSubmitted && e.RequestID == req.ID && e.To == domain.StatusPending
	}))
}

func TestSubmit_InvalidIsNotStored(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	in := insulinRequest("")
	_, err := h.intake.Submit(ctx, in)
	require.True(t, domain.IsValidation(err), "expected validation error, got %v", err)

	queue, err := h.queue.Pending(ctx, admin, 0)
	require.NoError(t, err)
	assert.Empty(t, queue)
	h.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestSelfService_LookupAcrossFormats(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	req, err := h.intake.Submit(ctx, insulinRequest("+213550123456"))
	require.NoError(t, err)
	_, err = h.intake.Submit(ctx, insulinRequest("0661000000"))
	require.NoError(t, err)

	found, err := h.self.Lookup(ctx, "00213550123456")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, req.ID, found[0].ID)
	assert.Equal(t, "Samir Haddad", found[0].RequesterName)

	none, err := h.self.Lookup(ctx, "0770999999")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSelfService_ShowsRejectionReasonAndFeedback(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	req, err := h.intake.Submit(ctx, insulinRequest("0550123456"))
	require.NoError(t, err)
	_, err = h.lifecycle.Transition(ctx, admin, req.ID, domain.StatusReviewing, lifecycle.TransitionOptions{})
	require.NoError(t, err)
	notes := "Please attach the prescription"
	_, err = h.curation.Curate(ctx, admin, req.ID, CurateInput{AdminNotes: &notes})
	require.NoError(t, err)
	_, err = h.lifecycle.Transition(ctx, admin, req.ID, domain.StatusRejected, lifecycle.TransitionOptions{RejectionReason: "No prescription"})
	require.NoError(t, err)

	found, err := h.self.Lookup(ctx, "550123456")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, domain.StatusRejected, found[0].Status)
	assert.Equal(t, "No prescription", found[0].RejectionReason)
	assert.Equal(t, notes, found[0].Feedback)
}

func TestLifecycle_PublishRequiresCuration(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	req, err := h.intake.Submit(ctx, insulinRequest("0550123456"))
	require.NoError(t, err)
	_, err = h.lifecycle.Transition(ctx, admin, req.ID, domain.StatusReviewing, lifecycle.TransitionOptions{})
	require.NoError(t, err)

	_, err = h.lifecycle.Transition(ctx, admin, req.ID, domain.StatusPublished, lifecycle.TransitionOptions{})
	assert.ErrorIs(t, err, domain.ErrIncompleteCuration)

	// Title alone is not enough.
	_, err = h.curation.Curate(ctx, admin, req.ID, CurateInput{Edits: domain.CurationEdits{Title: "Insulin"}})
	require.NoError(t, err)
	_, err = h.lifecycle.Transition(ctx, admin, req.ID, domain.StatusPublished, lifecycle.TransitionOptions{})
	assert.ErrorIs(t, err, domain.ErrIncompleteCuration)

	stored, err := h.repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReviewing, stored.Status)

	list, err := h.catalog.List(ctx, domain.CatalogFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLifecycle_RejectPublishedHidesEntry(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	req := h.submitAndPublish(t, insulinRequest("0550123456"), domain.CurationEdits{Title: "Insulin", Summary: "Pens"})

	_, err := h.lifecycle.Transition(ctx, admin, req.ID, domain.StatusRejected, lifecycle.TransitionOptions{})
	require.ErrorIs(t, err, domain.ErrMissingRejectionReason)

	_, err = h.lifecycle.Transition(ctx, admin, req.ID, domain.StatusRejected, lifecycle.TransitionOptions{RejectionReason: "Duplicate of an earlier request"})
	require.NoError(t, err)

	_, err = h.catalog.Get(ctx, req.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	list, err := h.catalog.List(ctx, domain.CatalogFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	// Terminal: no way back.
	_, err = h.lifecycle.Transition(ctx, admin, req.ID, domain.StatusPublished, lifecycle.TransitionOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestLifecycle_HandledHidesEntry(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	req := h.submitAndPublish(t, insulinRequest("0550123456"), domain.CurationEdits{Title: "Insulin", Summary: "Pens"})
	_, err := h.lifecycle.Transition(ctx, admin, req.ID, domain.StatusHandled, lifecycle.TransitionOptions{})
	require.NoError(t, err)

	_, err = h.catalog.Get(ctx, req.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSelfService_Delete(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	req := h.submitAndPublish(t, insulinRequest("0550123456"), domain.CurationEdits{Title: "Insulin", Summary: "Pens"})

	// 1. Unrelated phone is refused and nothing changes.
	err := h.self.Delete(ctx, req.ID, "0661000000")
	require.ErrorIs(t, err, domain.ErrAuthorization)
	stored, err := h.repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, req.Version, stored.Version)

	// 2. Same phone, different format.
	require.NoError(t, h.self.Delete(ctx, req.ID, "+213 550 12 34 56"))

	// 3. Gone everywhere.
	stored, err = h.repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
	_, err = h.catalog.Get(ctx, req.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, h.self.Delete(ctx, req.ID, "0550123456"), domain.ErrNotFound)
}

func TestLifecycle_ConcurrentTransitionsOneWins(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	req, err := h.intake.Submit(ctx, insulinRequest("0550123456"))
	require.NoError(t, err)
	reviewing, err := h.lifecycle.Transition(ctx, admin, req.ID, domain.StatusReviewing, lifecycle.TransitionOptions{})
	require.NoError(t, err)
	_, err = h.curation.Curate(ctx, admin, req.ID, CurateInput{
		Edits:           domain.CurationEdits{Title: "Insulin", Summary: "Pens"},
		ExpectedVersion: reviewing.Version,
	})
	require.NoError(t, err)

	current, err := h.repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	opts := lifecycle.TransitionOptions{ExpectedVersion: current.Version}

	targets := []domain.Status{domain.StatusPublished, domain.StatusHandled}
	errs := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target domain.Status) {
			defer wg.Done()
			_, errs[i] = h.lifecycle.Transition(ctx, admin, req.ID, target, opts)
		}(i, target)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrConcurrentModification)
	}
	assert.Equal(t, 1, succeeded)

	final, err := h.repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, current.Version+1, final.Version)
}

func TestCuration_Authorization(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	req, err := h.intake.Submit(ctx, insulinRequest("0550123456"))
	require.NoError(t, err)

	_, err = h.curation.Curate(ctx, stranger, req.ID, CurateInput{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = h.lifecycle.Transition(ctx, stranger, req.ID, domain.StatusReviewing, lifecycle.TransitionOptions{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = h.queue.Detail(ctx, stranger, req.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = h.curation.Curate(ctx, admin, uuid.New(), CurateInput{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCuration_ScrubsAndClosedRequestsAreFrozen(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	req := h.submitAndPublish(t, insulinRequest("0550123456"), domain.CurationEdits{
		Title:   "Help for samir haddad",
		Summary: "Reach out via 0550123456",
	})

	entry, err := h.catalog.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.False(t, strings.Contains(strings.ToLower(entry.Title), "samir"))
	assert.NotContains(t, entry.Summary, "550123456")

	_, err = h.lifecycle.Transition(ctx, admin, req.ID, domain.StatusHandled, lifecycle.TransitionOptions{})
	require.NoError(t, err)
	_, err = h.curation.Curate(ctx, admin, req.ID, CurateInput{Edits: domain.CurationEdits{Title: "x", Summary: "y"}})
	assert.True(t, domain.IsValidation(err), "expected validation error, got %v", err)
}

func TestQueue_PendingWithoutPII(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first, err := h.intake.Submit(ctx, insulinRequest("0550123456"))
	require.NoError(t, err)
	second, err := h.intake.Submit(ctx, insulinRequest("0661000000"))
	require.NoError(t, err)
	h.submitAndPublish(t, insulinRequest("0770000000"), domain.CurationEdits{Title: "t", Summary: "s"})

	queue, err := h.queue.Pending(ctx, admin, 10)
	require.NoError(t, err)
	require.Len(t, queue, 2)
	ids := []uuid.UUID{queue[0].ID, queue[1].ID}
	assert.ElementsMatch(t, []uuid.UUID{first.ID, second.ID}, ids)

	detail, err := h.queue.Detail(ctx, admin, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "0550123456", detail.Request.PhoneNumber)
	assert.Nil(t, detail.Projection)

	_, err = h.queue.Detail(ctx, admin, uuid.New())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCuration_RecuratingPublishedKeepsPublishedAt(t *testing.T) {
	// 1. Setup
	h := newHarness(t)
	ctx := context.Background()

	req := h.submitAndPublish(t, insulinRequest("0550123456"), domain.CurationEdits{Title: "Insulin", Summary: "Pens"})
	before, err := h.repo.GetProjection(ctx, req.ID)
	require.NoError(t, err)
	require.NotNil(t, before.PublishedAt)

	// 2. Run a copy edit a day later
	h.curation.now = func() time.Time { return before.PublishedAt.Add(24 * time.Hour) }
	_, err = h.curation.Curate(ctx, admin, req.ID, CurateInput{Edits: domain.CurationEdits{Title: "Insulin pens", Summary: "Two boxes"}})
	require.NoError(t, err)

	// 3. Verify
	after, err := h.repo.GetProjection(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "Insulin pens", after.Title)
	assert.True(t, after.IsPublished())
	require.NotNil(t, after.PublishedAt)
	assert.True(t, before.PublishedAt.Equal(*after.PublishedAt), "publication time moved from %v to %v", before.PublishedAt, after.PublishedAt)
}

func TestSelfService_RejectsInputWithoutDigits(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	req, err := h.intake.Submit(ctx, insulinRequest("0"))
	require.NoError(t, err)

	for _, input := range []string{"", "   ", "call me"} {
		_, err := h.self.Lookup(ctx, input)
		assert.True(t, domain.IsValidation(err), "lookup %q: got %v", input, err)

		err = h.self.Delete(ctx, req.ID, input)
		assert.True(t, domain.IsValidation(err), "delete %q: got %v", input, err)
	}

	stored, err := h.repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored)

	found, err := h.self.Lookup(ctx, "0")
	require.NoError(t, err)
	assert.Len(t, found, 1, "short numbers are still looked up")
}
