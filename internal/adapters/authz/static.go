package authz

import (
	"AidDesk/internal/core/domain"
	"AidDesk/internal/core/ports"
	"strconv"
)

var _ ports.CuratorAuthorizer = (*StaticPolicy)(nil) // Ensure compliance

// StaticPolicy authorizes the admins named in configuration: HTTP admins by
// the name attached to their token, Telegram moderators by user ID.
type StaticPolicy struct {
	httpAdmins map[string]bool
	moderators map[string]bool
}

// NewStaticPolicy builds the policy. adminTokens maps token to admin name.
func NewStaticPolicy(adminTokens map[string]string, moderatorIDs []int64) *StaticPolicy {
	p := &StaticPolicy{
		httpAdmins: make(map[string]bool, len(adminTokens)),
		moderators: make(map[string]bool, len(moderatorIDs)),
	}
	for _, name := range adminTokens {
		p.httpAdmins[name] = true
	}
	for _, id := range moderatorIDs {
		p.moderators[strconv.FormatInt(id, 10)] = true
	}
	return p
}

func (p *StaticPolicy) IsAuthorizedCurator(actor domain.Actor) bool {
	switch actor.Channel {
	case domain.ChannelHTTP:
		return p.httpAdmins[actor.ID]
	case domain.ChannelTelegram:
		return p.moderators[actor.ID]
	default:
		return false
	}
}

// IsModerator is the Telegram-side shortcut used by the bot router.
func (p *StaticPolicy) IsModerator(telegramID int64) bool {
	return p.moderators[strconv.FormatInt(telegramID, 10)]
}
