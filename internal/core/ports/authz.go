package ports

import "AidDesk/internal/core/domain"

// CuratorAuthorizer is the admin capability check consumed by curation and
// lifecycle transitions. How admins authenticate is decided elsewhere.
type CuratorAuthorizer interface {
	IsAuthorizedCurator(actor domain.Actor) bool
}
