package api

import (
	"net"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ai-mall/backend/internal/api/respond"
	"github.com/ai-mall/backend/internal/auth"
)

// AuthMiddleware resolves the request credential into an Actor and
// stores it on the request context. Requests without a resolvable
// identity are rejected before reaching handlers.
func AuthMiddleware(az auth.Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cred := bearerToken(r)
			actor, err := az.Authorize(r.Context(), cred)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("request not authorized")
				respond.WriteError(w, http.StatusUnauthorized, "invalid or missing credentials")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), actor)))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// actor pulls the authenticated caller from the request, writing a 401
// and returning nil when the middleware did not run.
func actor(w http.ResponseWriter, r *http.Request) *auth.Actor {
	a, ok := auth.ActorFrom(r.Context())
	if !ok {
		respond.WriteError(w, http.StatusUnauthorized, "authentication required")
		return nil
	}
	return a
}

// remoteIP extracts the caller address for audit entries, preferring
// the proxy-forwarded header when present.
func remoteIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
