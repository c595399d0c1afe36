package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront-backend/api/responses"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

const webhookKeyHeader = "X-Api-Key"

// WebhookKey guards carrier callbacks. The body is never read when the key
// does not match, and an empty configured token rejects every call.
func WebhookKey(token string, logg *logger.Logger) func(http.Handler) http.Handler {
	expected := []byte(strings.TrimSpace(token))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := []byte(strings.TrimSpace(r.Header.Get(webhookKeyHeader)))
			if len(expected) == 0 || subtle.ConstantTimeCompare(provided, expected) != 1 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "invalid api key"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
