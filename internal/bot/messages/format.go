package messages

import (
	"AidDesk/internal/core/domain"
	"AidDesk/internal/core/ports"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TransitionCallbackPrefix starts the data of every lifecycle button.
const TransitionCallbackPrefix = "tr:"

// TransitionCallbackData encodes a button that moves id to target.
func TransitionCallbackData(target domain.Status, id uuid.UUID) string {
	return TransitionCallbackPrefix + string(target) + ":" + id.String()
}

// ParseTransitionCallback is the inverse of TransitionCallbackData.
func ParseTransitionCallback(data string) (domain.Status, uuid.UUID, error) {
	rest, ok := strings.CutPrefix(data, TransitionCallbackPrefix)
	if !ok {
		return "", uuid.Nil, fmt.Errorf("not a transition callback: %q", data)
	}
	status, rawID, ok := strings.Cut(rest, ":")
	if !ok {
		return "", uuid.Nil, fmt.Errorf("malformed transition callback: %q", data)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("malformed request id in callback: %w", err)
	}
	return domain.Status(status), id, nil
}

var buttonLabels = map[domain.Status]string{
	domain.StatusReviewing: "🔎 Review",
	domain.StatusPublished: "📢 Publish",
	domain.StatusHandled:   "✅ Handled",
}

// ActionButtons offers the one-tap transitions from status. Rejection needs a
// reason, so it stays a typed command.
func ActionButtons(id uuid.UUID, next []domain.Status) []ports.Button {
	var row []ports.Button
	for _, s := range next {
		if label, ok := buttonLabels[s]; ok {
			row = append(row, ports.Button{Text: label, Data: TransitionCallbackData(s, id)})
		}
	}
	return row
}

// SubmittedAlert announces a new request to the admin chat. It carries no
// requester data.
func SubmittedAlert(event domain.TransitionEvent) string {
	return fmt.Sprintf("🆕 *New %s request*\nID: `%s`\nStatus: %s",
		Escape(string(event.Category)), event.RequestID, Escape(string(event.To)))
}

// TransitionAlert reports a status change to the admin chat.
func TransitionAlert(event domain.TransitionEvent) string {
	text := fmt.Sprintf("🔁 *%s request* `%s`\n%s → %s",
		Escape(string(event.Category)), event.RequestID,
		Escape(string(event.From)), Escape(string(event.To)))
	if event.RejectionReason != "" {
		text += "\nReason: " + Escape(event.RejectionReason)
	}
	return text
}

// QueueList renders the review queue.
func QueueList(items []domain.RequestSummary) string {
	if len(items) == 0 {
		return "Nothing is waiting for review\\."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*%d request\\(s\\) waiting*\n", len(items))
	for _, s := range items {
		flags := ""
		if s.VitalEmergency {
			flags += " 🚨"
		}
		if s.UrgencyDeclared == domain.UrgencyUrgent {
			flags += " ⚡"
		}
		place := s.Wilaya
		if place == "" {
			place = s.Country
		}
		fmt.Fprintf(&b, "\n• `%s` %s, %s, %s%s",
			s.ID, Escape(string(s.Category)), Escape(string(s.Status)), Escape(place), flags)
	}
	return b.String()
}

// Transitioned confirms a successful command to the moderator.
func Transitioned(req *domain.RawRequest) string {
	return fmt.Sprintf("Done: `%s` is now *%s*", req.ID, Escape(string(req.Status)))
}

// ErrorText turns a core error into a short reply for the moderator.
func ErrorText(err error) string {
	var vErr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "No request with that ID\\."
	case errors.Is(err, domain.ErrUnauthorized):
		return "You are not allowed to do that\\."
	case errors.Is(err, domain.ErrInvalidTransition):
		return "That status change is not allowed from the current status\\."
	case errors.Is(err, domain.ErrIncompleteCuration):
		return "Curate a public title and summary before publishing\\."
	case errors.Is(err, domain.ErrMissingRejectionReason):
		return "Help requests need a reason: /reject \\<id\\> \\<reason\\>"
	case errors.Is(err, domain.ErrConcurrentModification):
		return "Someone else changed this request just now\\. Check it and try again\\."
	case errors.As(err, &vErr):
		return Escape(vErr.Error())
	default:
		return "Something went wrong\\. Please try again\\."
	}
}
