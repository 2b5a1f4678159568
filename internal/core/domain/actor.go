package domain

import "fmt"

// ActorChannel says where an admin action came from.
type ActorChannel string

const (
	ChannelHTTP     ActorChannel = "http"
	ChannelTelegram ActorChannel = "telegram"
)

// Actor identifies whoever is acting on a request in an admin capacity.
// Whether the actor may curate is decided by a ports.CuratorAuthorizer.
type Actor struct {
	Channel ActorChannel
	ID      string
}

func (a Actor) String() string {
	return fmt.Sprintf("%s:%s", a.Channel, a.ID)
}
