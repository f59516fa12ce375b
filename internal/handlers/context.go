package handlers

import (
	"net/http"

	"github.com/BradenHooton/sitebase/internal/auth"
	"github.com/BradenHooton/sitebase/internal/services"
	pkghttp "github.com/BradenHooton/sitebase/pkg/http"
)

// RequestContext attaches the client address and, after authentication, the
// acting user to the request context for audit records.
func RequestContext(ipConfig *pkghttp.IPConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := services.WithClientIP(r.Context(), pkghttp.ExtractClientIP(r, ipConfig))
			if claims := auth.GetUserFromContext(r); claims != nil {
				ctx = services.WithActor(ctx, claims.UserID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
