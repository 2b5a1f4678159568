package ports

import (
	"AidDesk/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

// RequestRepository is the single source of truth for raw requests and their
// public projections. Reads return (nil, nil) when nothing is found.
type RequestRepository interface {
	// Create saves a new raw request. The caller sets ID, status and Version.
	Create(ctx context.Context, req *domain.RawRequest) error

	// GetByID finds a raw request by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.RawRequest, error)

	// GetProjection returns the projection of a request, whatever its visibility.
	GetProjection(ctx context.Context, id uuid.UUID) (*domain.PublicProjection, error)

	// FindByPhone returns every request whose stored phone expands to at least
	// one of variants, newest first.
	FindByPhone(ctx context.Context, variants []string) ([]*domain.RawRequest, error)

	// ListByStatus returns requests in any of statuses, oldest first.
	ListByStatus(ctx context.Context, statuses []domain.Status, limit int) ([]*domain.RawRequest, error)

	// Save writes the mutable fields of req and, when projection is not nil,
	// replaces its projection, as one atomic step. It fails with
	// domain.ErrConcurrentModification unless the stored version equals
	// expectedVersion, and with domain.ErrNotFound if the request is gone.
	// On success req.Version is expectedVersion+1.
	Save(ctx context.Context, req *domain.RawRequest, projection *domain.PublicProjection, expectedVersion int64) error

	// Delete removes a request and its projection under the same version check as Save.
	Delete(ctx context.Context, id uuid.UUID, expectedVersion int64) error

	// ListPublished returns published projections matching filter,
	// urgent first, then most recently published.
	ListPublished(ctx context.Context, filter domain.CatalogFilter) ([]*domain.PublicProjection, error)
}
