package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pollwiz/pollwiz/pkg/service/slack"
	"github.com/pollwiz/pollwiz/pkg/usecase"
	"github.com/pollwiz/pollwiz/pkg/utils/logging"
)

type Server struct {
	router             *chi.Mux
	uc                 *usecase.UseCases
	slackService       slack.Service
	slackSigningSecret string
}

type Options func(*Server)

// WithSlackService enables the OAuth callback endpoint and asynchronous
// response posting for interaction results.
func WithSlackService(svc slack.Service) Options {
	return func(s *Server) {
		s.slackService = svc
	}
}

// WithSlackSigningSecret enables signature verification on the Slack
// webhook routes. Without it the routes reject all requests.
func WithSlackSigningSecret(secret string) Options {
	return func(s *Server) {
		s.slackSigningSecret = secret
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	// Slack webhook endpoints. No session auth, verified by signature.
	r.Route("/hooks/slack", func(r chi.Router) {
		r.Use(SlackSignatureMiddleware(s.slackSigningSecret))

		r.Post("/command", s.handleSlashCommand)
		r.Post("/interaction", s.handleInteraction)
	})

	// Slack OAuth redirect target
	if s.slackService != nil {
		r.Get("/auth/callback", s.handleOAuthCallback)
	}

	// Billing API
	r.Post("/api/subscriptions", s.handleCreateSubscription)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK")) //nolint:errcheck // best-effort health response
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
