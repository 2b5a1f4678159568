package memory

import (
	"AidDesk/internal/core/domain"
	"AidDesk/internal/core/phone"
	"AidDesk/internal/core/ports"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var _ ports.RequestRepository = (*requestRepository)(nil) // Ensure compliance

type record struct {
	req        *domain.RawRequest
	projection *domain.PublicProjection
}

// requestRepository keeps requests in a map. One mutex guards both the raw
// record and its projection, which makes Save atomic.
type requestRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*record
	log     zerolog.Logger
}

// NewRequestRepository creates an empty in-memory store, used in dev mode and tests.
func NewRequestRepository(baseLogger *zerolog.Logger) ports.RequestRepository {
	return &requestRepository{
		records: make(map[uuid.UUID]*record),
		log:     baseLogger.With().Str("component", "memory_request_repo").Logger(),
	}
}

func (r *requestRepository) Create(ctx context.Context, req *domain.RawRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[req.ID]; exists {
		return fmt.Errorf("request %s already exists", req.ID)
	}
	r.records[req.ID] = &record{req: req.Clone()}
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.RawRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	return rec.req.Clone(), nil
}

func (r *requestRepository) GetProjection(ctx context.Context, id uuid.UUID) (*domain.PublicProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	return rec.projection.Clone(), nil
}

func (r *requestRepository) FindByPhone(ctx context.Context, variants []string) ([]*domain.RawRequest, error) {
	wanted := make(map[string]bool, len(variants))
	for _, v := range variants {
		wanted[v] = true
	}

	r.mu.RLock()
	var out []*domain.RawRequest
	for _, rec := range r.records {
		for _, v := range phone.Expand(rec.req.PhoneNumber) {
			if wanted[v] {
				out = append(out, rec.req.Clone())
				break
			}
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *requestRepository) ListByStatus(ctx context.Context, statuses []domain.Status, limit int) ([]*domain.RawRequest, error) {
	wanted := make(map[domain.Status]bool, len(statuses))
	for _, s := range statuses {
		wanted[s] = true
	}

	r.mu.RLock()
	var out []*domain.RawRequest
	for _, rec := range r.records {
		if wanted[rec.req.Status] {
			out = append(out, rec.req.Clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *requestRepository) Save(ctx context.Context, req *domain.RawRequest, projection *domain.PublicProjection, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[req.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if rec.req.Version != expectedVersion {
		r.log.Info().
			Str("request_id", req.ID.String()).
			Int64("expected", expectedVersion).
			Int64("stored", rec.req.Version).
			Msg("Version mismatch on save")
		return domain.ErrConcurrentModification
	}

	req.Version = expectedVersion + 1
	rec.req = req.Clone()
	if projection != nil {
		rec.projection = projection.Clone()
	}
	return nil
}

func (r *requestRepository) Delete(ctx context.Context, id uuid.UUID, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	if rec.req.Version != expectedVersion {
		return domain.ErrConcurrentModification
	}
	delete(r.records, id)
	return nil
}

func (r *requestRepository) ListPublished(ctx context.Context, filter domain.CatalogFilter) ([]*domain.PublicProjection, error) {
	r.mu.RLock()
	var out []*domain.PublicProjection
	for _, rec := range r.records {
		if rec.projection != nil && filter.Matches(rec.projection) {
			out = append(out, rec.projection.Clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].IsUrgent != out[j].IsUrgent {
			return out[i].IsUrgent
		}
		return publishedAt(out[i]).After(publishedAt(out[j]))
	})
	return out, nil
}

func publishedAt(p *domain.PublicProjection) time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.PostedOn
}
