package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/memovox/memovox/pkg/utils/logging"
)

type Server struct {
	router          *chi.Mux
	webhookHandler  *TwilioWebhookHandler
	twilioAuthToken string
	baseURL         string
}

type Options func(*Server)

// WithTwilioWebhook registers the SMS webhook endpoint. An empty auth token
// disables signature verification; only do that in local development.
func WithTwilioWebhook(handler *TwilioWebhookHandler, authToken string) Options {
	return func(s *Server) {
		s.webhookHandler = handler
		s.twilioAuthToken = authToken
	}
}

// WithBaseURL sets the public URL the gateway signs requests against.
// Needed when the server runs behind a proxy that rewrites Host.
func WithBaseURL(baseURL string) Options {
	return func(s *Server) {
		s.baseURL = baseURL
	}
}

func New(opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	// Webhook endpoint - no auth beyond gateway signature verification
	if s.webhookHandler != nil {
		r.Route("/hooks/twilio", func(r chi.Router) {
			r.Use(TwilioSignatureMiddleware(s.twilioAuthToken, s.baseURL))

			r.Post("/sms", s.webhookHandler.ServeHTTP)
		})
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"}) //nolint:errcheck // header already committed
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
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
