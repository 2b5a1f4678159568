package httpapi

import (
	"AidDesk/internal/core/domain"
	"AidDesk/internal/core/lifecycle"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"
)

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, domain.NewValidationError("id", "not a valid request ID")
	}
	return id, nil
}

// --- Public ---

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	var body submitRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writePublicError(w, log, err)
		return
	}

	req, err := h.svc.Intake.Submit(r.Context(), body.toInput())
	if err != nil {
		writePublicError(w, log, err)
		return
	}
	writeJSON(w, http.StatusCreated, submitResponse{ID: req.ID, Status: string(req.Status), Version: req.Version})
}

func (h *Handler) listCatalog(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	q := r.URL.Query()

	filter := domain.CatalogFilter{
		Category:  domain.Category(q.Get("category")),
		Region:    q.Get("region"),
		TextQuery: q.Get("q"),
	}
	if raw := q.Get("urgent"); raw != "" {
		urgent, err := strconv.ParseBool(raw)
		if err != nil {
			writePublicError(w, log, domain.NewValidationError("urgent", "must be true or false"))
			return
		}
		filter.UrgentOnly = urgent
	}
	if filter.Category != "" && !filter.Category.Valid() {
		writePublicError(w, log, domain.NewValidationError("category", "unknown category"))
		return
	}

	views, err := h.svc.Catalog.List(r.Context(), filter)
	if err != nil {
		writePublicError(w, log, err)
		return
	}
	out := make([]publicViewDTO, 0, len(views))
	for _, v := range views {
		out = append(out, newPublicViewDTO(v))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getCatalogEntry(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	id, err := pathID(r)
	if err != nil {
		writePublicError(w, log, domain.ErrNotFound)
		return
	}

	view, err := h.svc.Catalog.Get(r.Context(), id)
	if err != nil {
		writePublicError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, newPublicViewDTO(view))
}

// --- Self-service ---

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	var body phoneRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writePublicError(w, log, err)
		return
	}

	views, err := h.svc.SelfService.Lookup(r.Context(), body.PhoneNumber)
	if err != nil {
		writePublicError(w, log, err)
		return
	}
	out := make([]requesterViewDTO, 0, len(views))
	for _, v := range views {
		out = append(out, newRequesterViewDTO(v))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) deleteOwn(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	id, err := pathID(r)
	if err != nil {
		writePublicError(w, log, domain.ErrNotFound)
		return
	}

	var body phoneRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writePublicError(w, log, err)
		return
	}

	if err := h.svc.SelfService.Delete(r.Context(), id, body.PhoneNumber); err != nil {
		writePublicError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Admin ---

func (h *Handler) adminQueue(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeAdminError(w, log, domain.NewValidationError("limit", "must be a positive integer"))
			return
		}
		limit = n
	}

	items, err := h.svc.Queue.Pending(r.Context(), actorFrom(r.Context()), limit)
	if err != nil {
		writeAdminError(w, log, err)
		return
	}
	out := make([]summaryDTO, 0, len(items))
	for _, s := range items {
		out = append(out, newSummaryDTO(s))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) adminDetail(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	id, err := pathID(r)
	if err != nil {
		writeAdminError(w, log, err)
		return
	}

	detail, err := h.svc.Queue.Detail(r.Context(), actorFrom(r.Context()), id)
	if err != nil {
		writeAdminError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, newAdminRequestDTO(detail))
}

func (h *Handler) adminCurate(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	id, err := pathID(r)
	if err != nil {
		writeAdminError(w, log, err)
		return
	}

	var body curateRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeAdminError(w, log, err)
		return
	}

	projection, err := h.svc.Curation.Curate(r.Context(), actorFrom(r.Context()), id, body.toInput())
	if err != nil {
		writeAdminError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, newProjectionDTO(projection))
}

func (h *Handler) adminTransition(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	id, err := pathID(r)
	if err != nil {
		writeAdminError(w, log, err)
		return
	}

	var body transitionRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeAdminError(w, log, err)
		return
	}

	req, err := h.svc.Lifecycle.Transition(r.Context(), actorFrom(r.Context()), id, domain.Status(body.Status), lifecycle.TransitionOptions{
		RejectionReason: body.RejectionReason,
		ExpectedVersion: body.ExpectedVersion,
	})
	if err != nil {
		writeAdminError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, transitionResponse{ID: req.ID, Status: string(req.Status), Version: req.Version})
}
