package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/internal/visitors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

const visitorCookie = "visitor-tracked"

// VisitorCookie controls the cookie that marks a browser as already counted.
type VisitorCookie struct {
	TTL    time.Duration
	Secure bool
}

// VisitorTrack counts the caller once per cookie lifetime.
func VisitorTrack(svc visitors.Service, cookie VisitorCookie, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if existing, err := r.Cookie(visitorCookie); err == nil && existing.Value != "" {
			responses.WriteSuccess(w, map[string]any{"tracked": false, "message": "Visitor already tracked"})
			return
		}

		count, err := svc.Track(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     visitorCookie,
			Value:    "true",
			Path:     "/",
			MaxAge:   int(cookie.TTL.Seconds()),
			HttpOnly: true,
			Secure:   cookie.Secure,
			SameSite: http.SameSiteLaxMode,
		})
		responses.WriteSuccess(w, map[string]any{"tracked": true, "message": "Visitor tracked and counted", "count": count.Count})
	}
}

func VisitorCount(svc visitors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := svc.Current(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, count)
	}
}
