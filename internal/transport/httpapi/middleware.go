package httpapi

import (
	"AidDesk/internal/core/domain"
	"context"
	"crypto/subtle"
	"net"
	"net/http"
	"strings"
)

type ctxKey int

const actorKey ctxKey = iota

// actorFrom returns the admin set by requireAdmin.
func actorFrom(ctx context.Context) domain.Actor {
	actor, _ := ctx.Value(actorKey).(domain.Actor)
	return actor
}

// requireAdmin resolves the X-Admin-Token header to a named HTTP actor.
// Whether that actor may curate is still decided by the core authorizer.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.Header.Get("X-Admin-Token"))
		name, ok := h.adminName(token)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "admin token required"})
			return
		}
		actor := domain.Actor{Channel: domain.ChannelHTTP, ID: name}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)))
	})
}

func (h *Handler) adminName(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	found := ""
	for candidate, name := range h.opts.AdminTokens {
		if subtle.ConstantTimeCompare([]byte(candidate), []byte(token)) == 1 {
			found = name
		}
	}
	return found, found != ""
}

// throttle limits anonymous self-service attempts per client IP.
func (h *Handler) throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.opts.Limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		allowed, err := h.opts.Limiter.Allow(r.Context(), clientIP(r))
		if err != nil {
			// Fail open.
			h.log.Warn().Err(err).Msg("Attempt limiter unavailable")
		} else if !allowed {
			h.metrics.IncThrottled()
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "too many attempts, try again later"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
