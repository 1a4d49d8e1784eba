package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"infoseek-tracker/internal/infra/adapters/searchapi"
	"infoseek-tracker/internal/infra/i18n"
	"infoseek-tracker/internal/usecase"
)

type Server struct {
	tracker usecase.TrackerUseCase
	auth    *AuthManager
	media   *searchapi.MediaResolver
	tr      *i18n.Translator
	apiKey  string
	log     *zerolog.Logger
}

func NewServer(
	tracker usecase.TrackerUseCase,
	auth *AuthManager,
	media *searchapi.MediaResolver,
	tr *i18n.Translator,
	apiKey string,
	logger *zerolog.Logger,
) *Server {
	srvLog := logger.With().Str("component", "Web").Logger()
	return &Server{
		tracker: tracker,
		auth:    auth,
		media:   media,
		tr:      tr,
		apiKey:  apiKey,
		log:     &srvLog,
	}
}

// Router builds the full HTTP surface. Everything under /api/v1 except the
// session exchange requires a valid session token.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(traceMiddleware)

	r.Get("/health", s.healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/session", s.sessionHandler)

		r.Group(func(r chi.Router) {
			r.Use(s.sessionMiddleware)
			r.Post("/search", s.searchHandler)
			r.Get("/view", s.viewHandler)
			r.Get("/history", s.historyHandler)
			r.Post("/history/next", s.historyNextHandler)
			r.Post("/history/prev", s.historyPrevHandler)
			r.Post("/jobs/{id}/cancel", s.cancelHandler)
			r.Post("/jobs/{id}/dismiss", s.dismissHandler)
		})
	})
	return r
}

// sessionMiddleware gates the tracker API behind a minted session token.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
