package handlers

import (
	"AidDesk/internal/adapters/authz"
	"AidDesk/internal/adapters/memory"
	"AidDesk/internal/bot/messages"
	"AidDesk/internal/bot/moderator"
	"AidDesk/internal/core/domain"
	"AidDesk/internal/core/lifecycle"
	"AidDesk/internal/core/ports"
	"AidDesk/internal/core/services"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const moderatorID int64 = 4242

// MockBotClient
type MockBotClient struct {
	mock.Mock
}

func (m *MockBotClient) SendMessage(ctx context.Context, params ports.SendMessageParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}
func (m *MockBotClient) AnswerCallbackQuery(ctx context.Context, callbackQueryID, text string) error {
	args := m.Called(ctx, callbackQueryID, text)
	return args.Error(0)
}
func (m *MockBotClient) SetMenuCommands(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, domain.TransitionEvent) {}

type fixture struct {
	repo ports.RequestRepository
	bot  *MockBotClient
	deps moderator.Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	nopLogger := zerolog.Nop()
	repo := memory.NewRequestRepository(&nopLogger)
	policy := authz.NewStaticPolicy(nil, []int64{moderatorID})
	bot := new(MockBotClient)

	return &fixture{
		repo: repo,
		bot:  bot,
		deps: moderator.Deps{
			Lifecycle: lifecycle.NewController(repo, policy, noopNotifier{}, nil, &nopLogger),
			Queue:     services.NewQueue(repo, policy, &nopLogger),
			Bot:       bot,
		},
	}
}

func (f *fixture) seed(t *testing.T, status domain.Status) *domain.RawRequest {
	t.Helper()
	now := time.Now().UTC()
	req := &domain.RawRequest{
		ID:            uuid.New(),
		Category:      domain.CategoryBloodDonor,
		RequesterName: "Rania",
		PhoneNumber:   "0550123456",
		Location:      domain.Location{Wilaya: "Setif"},
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
		Version:       1,
	}
	require.NoError(t, f.repo.Create(context.Background(), req))
	return req
}

func (f *fixture) command(name string) ports.CommandHandler {
	nopLogger := zerolog.Nop()
	for _, c := range []moderator.CommandHandlerConstructor{
		NewPendingHandler,
		transitionCommand("review", domain.StatusReviewing),
		transitionCommand("publish", domain.StatusPublished),
		transitionCommand("handle", domain.StatusHandled),
		transitionCommand("reject", domain.StatusRejected),
	} {
		if h := c(f.deps, &nopLogger); h.Command() == name {
			return h
		}
	}
	return nil
}

func sentText(contains string) interface{} {
	return mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.ChatID == 1000 && strings.Contains(p.Text, contains)
	})
}

func TestPendingHandler_ListsQueueWithoutPII(t *testing.T) {
	// 1. Setup
	f := newFixture(t)
	req := f.seed(t, domain.StatusPending)
	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return strings.Contains(p.Text, req.ID.String()) &&
			!strings.Contains(p.Text, "0550123456") &&
			!strings.Contains(p.Text, "Rania")
	})).Return(nil).Once()

	// 2. Run
	err := f.command("pending").Handle(context.Background(), &ports.BotUpdate{ChatID: 1000, UserID: moderatorID, Command: "pending"})

	// 3. Verify
	require.NoError(t, err)
	f.bot.AssertExpectations(t)
}

func TestTransitionHandler_Review(t *testing.T) {
	f := newFixture(t)
	req := f.seed(t, domain.StatusPending)
	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return strings.Contains(p.Text, "reviewing") && p.ReplyMarkup != nil && len(p.ReplyMarkup.Buttons[0]) == 2
	})).Return(nil).Once()

	err := f.command("review").Handle(context.Background(), &ports.BotUpdate{
		ChatID: 1000, UserID: moderatorID, Command: "review", Args: req.ID.String(),
	})
	require.NoError(t, err)
	f.bot.AssertExpectations(t)

	stored, _ := f.repo.GetByID(context.Background(), req.ID)
	assert.Equal(t, domain.StatusReviewing, stored.Status)
}

func TestTransitionHandler_RejectNeedsReason(t *testing.T) {
	f := newFixture(t)
	req := f.seed(t, domain.StatusReviewing)
	ctx := context.Background()

	f.bot.On("SendMessage", mock.Anything, sentText("need a reason")).Return(nil).Once()
	require.NoError(t, f.command("reject").Handle(ctx, &ports.BotUpdate{
		ChatID: 1000, UserID: moderatorID, Command: "reject", Args: req.ID.String(),
	}))

	f.bot.On("SendMessage", mock.Anything, sentText("rejected")).Return(nil).Once()
	require.NoError(t, f.command("reject").Handle(ctx, &ports.BotUpdate{
		ChatID: 1000, UserID: moderatorID, Command: "reject", Args: req.ID.String() + "  donor already found",
	}))
	f.bot.AssertExpectations(t)

	stored, _ := f.repo.GetByID(ctx, req.ID)
	assert.Equal(t, domain.StatusRejected, stored.Status)
	assert.Equal(t, "donor already found", stored.RejectionReason)
}

func TestTransitionHandler_BadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.bot.On("SendMessage", mock.Anything, sentText("Usage: /publish")).Return(nil).Once()
	require.NoError(t, f.command("publish").Handle(ctx, &ports.BotUpdate{ChatID: 1000, UserID: moderatorID, Args: "nope"}))

	f.bot.On("SendMessage", mock.Anything, sentText("No request")).Return(nil).Once()
	require.NoError(t, f.command("publish").Handle(ctx, &ports.BotUpdate{ChatID: 1000, UserID: moderatorID, Args: uuid.NewString()}))

	f.bot.AssertExpectations(t)
}

func TestTransitionCallback(t *testing.T) {
	f := newFixture(t)
	req := f.seed(t, domain.StatusReviewing)
	ctx := context.Background()
	nopLogger := zerolog.Nop()
	cb := NewTransitionCallback(f.deps, &nopLogger)

	// Publishing an uncurated request is refused.
	data := messages.TransitionCallbackData(domain.StatusPublished, req.ID)
	f.bot.On("AnswerCallbackQuery", mock.Anything, "cb1", "Refused").Return(nil).Once()
	f.bot.On("SendMessage", mock.Anything, sentText("title and summary")).Return(nil).Once()
	require.NoError(t, cb.Handle(ctx, &ports.BotUpdate{ChatID: 1000, UserID: moderatorID, CallbackQueryID: "cb1", CallbackData: &data}))

	// Handled works from reviewing.
	data = messages.TransitionCallbackData(domain.StatusHandled, req.ID)
	f.bot.On("AnswerCallbackQuery", mock.Anything, "cb2", "Done").Return(nil).Once()
	f.bot.On("SendMessage", mock.Anything, sentText("handled")).Return(nil).Once()
	require.NoError(t, cb.Handle(ctx, &ports.BotUpdate{ChatID: 1000, UserID: moderatorID, CallbackQueryID: "cb2", CallbackData: &data}))

	f.bot.AssertExpectations(t)
	stored, _ := f.repo.GetByID(ctx, req.ID)
	assert.Equal(t, domain.StatusHandled, stored.Status)
}

func TestTransitionHandler_NonModeratorRefusedByCore(t *testing.T) {
	f := newFixture(t)
	req := f.seed(t, domain.StatusPending)

	f.bot.On("SendMessage", mock.Anything, sentText("not allowed")).Return(nil).Once()
	require.NoError(t, f.command("review").Handle(context.Background(), &ports.BotUpdate{
		ChatID: 1000, UserID: 1, Args: req.ID.String(),
	}))
	f.bot.AssertExpectations(t)

	stored, _ := f.repo.GetByID(context.Background(), req.ID)
	assert.Equal(t, domain.StatusPending, stored.Status)
}
