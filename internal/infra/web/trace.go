package web

import (
	"net/http"

	"github.com/oklog/ulid/v2"

	"infoseek-tracker/internal/infra/logging"
)

const traceHeader = "X-Trace-Id"

// traceMiddleware tags every request with a ULID trace id. An id supplied by
// the caller is honored so a frontend can correlate retries.
func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(traceHeader)
		if id == "" {
			id = ulid.Make().String()
		}
		ctx := logging.WithTraceID(r.Context(), id)
		w.Header().Set(traceHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
