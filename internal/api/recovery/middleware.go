package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/ai-mall/backend/internal/api/respond"
)

// Middleware converts panics from downstream handlers into a 500 response,
// logging the stack so the request that caused it can be traced.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			log.Error().
				Interface("panic", rec).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote", r.RemoteAddr).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")
			respond.WriteInternalError(w, "internal error")
		}()
		next.ServeHTTP(w, r)
	})
}
