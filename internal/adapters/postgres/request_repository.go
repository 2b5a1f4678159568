package postgres

import (
	"AidDesk/internal/core/domain"
	"AidDesk/internal/core/phone"
	"AidDesk/internal/core/ports"
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

var _ ports.RequestRepository = (*requestRepository)(nil) // Ensure compliance

// requestRepository stores raw requests with their PII encrypted. Phone lookup
// goes through phone_keys, the keyed digests of every variant of the stored
// phone, so the plaintext number is never queryable.
type requestRepository struct {
	db     *DB
	secSvc ports.SecurityPort
	log    zerolog.Logger
}

func NewRequestRepository(db *DB, secSvc ports.SecurityPort, baseLogger *zerolog.Logger) ports.RequestRepository {
	return &requestRepository{
		db:     db,
		secSvc: secSvc,
		log:    baseLogger.With().Str("component", "request_repo").Logger(),
	}
}

const requestCols = `
	id, category, status, requester_name, phone_number, contacts,
	wilaya, city, country, need_description, financial_capability,
	approximate_amount, urgency_declared, vital_emergency, attachments,
	admin_notes, rejection_reason, version, created_at, updated_at
`

const projectionCols = `
	source_id, category, posted_on, title, summary, description, wilaya, area,
	gallery, is_urgent, visibility, curated_by, curated_at, published_at
`

func (r *requestRepository) encrypt(plain string) (string, error) {
	enc, err := r.secSvc.Encrypt([]byte(plain))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(enc), nil
}

func (r *requestRepository) decrypt(stored string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return "", fmt.Errorf("base64-decode column: %w", err)
	}
	dec, err := r.secSvc.Decrypt(raw)
	if err != nil {
		return "", err
	}
	return string(dec), nil
}

func (r *requestRepository) phoneKeys(variants []string) []string {
	keys := make([]string, 0, len(variants))
	for _, v := range variants {
		keys = append(keys, hex.EncodeToString(r.secSvc.Digest([]byte(v))))
	}
	return keys
}

func (r *requestRepository) Create(ctx context.Context, req *domain.RawRequest) error {
	encName, err := r.encrypt(req.RequesterName)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to encrypt requester name")
		return err
	}
	encPhone, err := r.encrypt(req.PhoneNumber)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to encrypt phone number")
		return err
	}
	contactsJSON, err := json.Marshal(req.SecondaryContacts)
	if err != nil {
		return err
	}
	encContacts, err := r.encrypt(string(contactsJSON))
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to encrypt contacts")
		return err
	}

	query := `
		INSERT INTO requests (
			id, category, status, requester_name, phone_number, phone_keys, contacts,
			wilaya, city, country, need_description, financial_capability,
			approximate_amount, urgency_declared, vital_emergency, attachments,
			admin_notes, rejection_reason, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`
	_, err = r.db.pool.Exec(ctx, query,
		req.ID,
		req.Category,
		req.Status,
		encName,
		encPhone,
		r.phoneKeys(phone.Expand(req.PhoneNumber)),
		encContacts,
		req.Location.Wilaya,
		req.Location.City,
		req.Location.Country,
		req.NeedDescription,
		req.FinancialCapability,
		req.ApproximateAmount,
		req.UrgencyDeclared,
		req.VitalEmergency,
		attachmentStrings(req.Attachments),
		req.AdminNotes,
		req.RejectionReason,
		req.Version,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		r.log.Error().Err(err).Str("request_id", req.ID.String()).Msg("Failed to insert request")
	}
	return err
}

func (r *requestRepository) scanRequest(row pgx.Row) (*domain.RawRequest, error) {
	var req domain.RawRequest
	var encName, encPhone, encContacts string
	var attachments []string

	err := row.Scan(
		&req.ID,
		&req.Category,
		&req.Status,
		&encName,
		&encPhone,
		&encContacts,
		&req.Location.Wilaya,
		&req.Location.City,
		&req.Location.Country,
		&req.NeedDescription,
		&req.FinancialCapability,
		&req.ApproximateAmount,
		&req.UrgencyDeclared,
		&req.VitalEmergency,
		&attachments,
		&req.AdminNotes,
		&req.RejectionReason,
		&req.Version,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if req.RequesterName, err = r.decrypt(encName); err != nil {
		r.log.Error().Err(err).Str("request_id", req.ID.String()).Msg("Failed to decrypt requester name")
		return nil, err
	}
	if req.PhoneNumber, err = r.decrypt(encPhone); err != nil {
		r.log.Error().Err(err).Str("request_id", req.ID.String()).Msg("Failed to decrypt phone number")
		return nil, err
	}
	contactsJSON, err := r.decrypt(encContacts)
	if err != nil {
		r.log.Error().Err(err).Str("request_id", req.ID.String()).Msg("Failed to decrypt contacts")
		return nil, err
	}
	if err := json.Unmarshal([]byte(contactsJSON), &req.SecondaryContacts); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}

	for _, a := range attachments {
		req.Attachments = append(req.Attachments, domain.AttachmentRef(a))
	}
	req.CreatedAt = req.CreatedAt.UTC()
	req.UpdatedAt = req.UpdatedAt.UTC()
	return &req, nil
}

func (r *requestRepository) scanRequests(rows pgx.Rows) ([]*domain.RawRequest, error) {
	defer rows.Close()

	var out []*domain.RawRequest
	for rows.Next() {
		req, err := r.scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (r *requestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.RawRequest, error) {
	query := `SELECT ` + requestCols + ` FROM requests WHERE id = $1`

	req, err := r.scanRequest(r.db.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error().Err(err).Str("request_id", id.String()).Msg("Failed to load request")
		return nil, err
	}
	return req, nil
}

func (r *requestRepository) FindByPhone(ctx context.Context, variants []string) ([]*domain.RawRequest, error) {
	if len(variants) == 0 {
		return nil, nil
	}
	query := `SELECT ` + requestCols + ` FROM requests WHERE phone_keys && $1 ORDER BY created_at DESC`

	rows, err := r.db.pool.Query(ctx, query, r.phoneKeys(variants))
	if err != nil {
		r.log.Error().Err(err).Msg("Phone lookup query failed")
		return nil, err
	}
	return r.scanRequests(rows)
}

func (r *requestRepository) ListByStatus(ctx context.Context, statuses []domain.Status, limit int) ([]*domain.RawRequest, error) {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, string(s))
	}
	var lim *int
	if limit > 0 {
		lim = &limit
	}

	query := `SELECT ` + requestCols + ` FROM requests WHERE status = ANY($1) ORDER BY created_at ASC LIMIT $2`
	rows, err := r.db.pool.Query(ctx, query, names, lim)
	if err != nil {
		r.log.Error().Err(err).Msg("Status listing query failed")
		return nil, err
	}
	return r.scanRequests(rows)
}

// missOrStale tells a vanished row from a lost version race after a
// conditional write matched nothing.
func missOrStale(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM requests WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrConcurrentModification
}

func (r *requestRepository) Save(ctx context.Context, req *domain.RawRequest, projection *domain.PublicProjection, expectedVersion int64) error {
	err := r.db.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE requests
			SET status = $3, admin_notes = $4, rejection_reason = $5, updated_at = $6, version = version + 1
			WHERE id = $1 AND version = $2
		`, req.ID, expectedVersion, req.Status, req.AdminNotes, req.RejectionReason, req.UpdatedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return missOrStale(ctx, tx, req.ID)
		}

		if projection == nil {
			return nil
		}
		gallery, err := json.Marshal(projection.Gallery)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO public_projections (`+projectionCols+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (source_id) DO UPDATE SET
				category = EXCLUDED.category, posted_on = EXCLUDED.posted_on,
				title = EXCLUDED.title, summary = EXCLUDED.summary, description = EXCLUDED.description,
				wilaya = EXCLUDED.wilaya, area = EXCLUDED.area, gallery = EXCLUDED.gallery,
				is_urgent = EXCLUDED.is_urgent, visibility = EXCLUDED.visibility,
				curated_by = EXCLUDED.curated_by, curated_at = EXCLUDED.curated_at,
				published_at = EXCLUDED.published_at
		`,
			req.ID,
			projection.Category,
			projection.PostedOn,
			projection.Title,
			projection.Summary,
			projection.Description,
			projection.Wilaya,
			projection.Area,
			gallery,
			projection.IsUrgent,
			projection.Visibility,
			projection.CuratedBy,
			projection.CuratedAt,
			projection.PublishedAt,
		)
		return err
	})
	if err != nil {
		if !errors.Is(err, domain.ErrConcurrentModification) && !errors.Is(err, domain.ErrNotFound) {
			r.log.Error().Err(err).Str("request_id", req.ID.String()).Msg("Failed to save request")
		}
		return err
	}

	req.Version = expectedVersion + 1
	return nil
}

func (r *requestRepository) Delete(ctx context.Context, id uuid.UUID, expectedVersion int64) error {
	return r.db.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM requests WHERE id = $1 AND version = $2`, id, expectedVersion)
		if err != nil {
			r.log.Error().Err(err).Str("request_id", id.String()).Msg("Failed to delete request")
			return err
		}
		if tag.RowsAffected() == 0 {
			return missOrStale(ctx, tx, id)
		}
		return nil
	})
}

func scanProjection(row pgx.Row) (*domain.PublicProjection, error) {
	var p domain.PublicProjection
	var gallery []byte

	err := row.Scan(
		&p.SourceID,
		&p.Category,
		&p.PostedOn,
		&p.Title,
		&p.Summary,
		&p.Description,
		&p.Wilaya,
		&p.Area,
		&gallery,
		&p.IsUrgent,
		&p.Visibility,
		&p.CuratedBy,
		&p.CuratedAt,
		&p.PublishedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(gallery, &p.Gallery); err != nil {
		return nil, fmt.Errorf("decode gallery: %w", err)
	}
	if len(p.Gallery) == 0 {
		p.Gallery = nil
	}
	p.PostedOn = p.PostedOn.UTC()
	p.CuratedAt = p.CuratedAt.UTC()
	if p.PublishedAt != nil {
		t := p.PublishedAt.UTC()
		p.PublishedAt = &t
	}
	return &p, nil
}

func (r *requestRepository) GetProjection(ctx context.Context, id uuid.UUID) (*domain.PublicProjection, error) {
	query := `SELECT ` + projectionCols + ` FROM public_projections WHERE source_id = $1`

	p, err := scanProjection(r.db.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error().Err(err).Str("request_id", id.String()).Msg("Failed to load projection")
		return nil, err
	}
	return p, nil
}

func (r *requestRepository) ListPublished(ctx context.Context, filter domain.CatalogFilter) ([]*domain.PublicProjection, error) {
	query := `
		SELECT ` + projectionCols + `
		FROM public_projections
		WHERE visibility = 'published'
		  AND ($1::text = '' OR category = $1::text)
		  AND ($2::text = '' OR lower(wilaya) = lower($2::text) OR lower(area) = lower($2::text))
		  AND (NOT $3::boolean OR is_urgent)
		  AND ($4::text = '' OR strpos(lower(title), lower($4::text)) > 0 OR strpos(lower(summary), lower($4::text)) > 0)
		ORDER BY is_urgent DESC, COALESCE(published_at, posted_on) DESC
	`
	rows, err := r.db.pool.Query(ctx, query,
		string(filter.Category),
		strings.TrimSpace(filter.Region),
		filter.UrgentOnly,
		strings.TrimSpace(filter.TextQuery),
	)
	if err != nil {
		r.log.Error().Err(err).Msg("Catalog query failed")
		return nil, err
	}
	defer rows.Close()

	var out []*domain.PublicProjection
	for rows.Next() {
		p, err := scanProjection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func attachmentStrings(refs []domain.AttachmentRef) []string {
	out := make([]string, 0, len(refs))
	for _, a := range refs {
		out = append(out, string(a))
	}
	return out
}
