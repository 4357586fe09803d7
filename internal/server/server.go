package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/CommentGarden_Go/internal/handler"
	"github.com/osse101/CommentGarden_Go/internal/logger"
	"github.com/osse101/CommentGarden_Go/internal/metrics"
	"github.com/osse101/CommentGarden_Go/internal/sse"
)

// Config holds listener and auth settings
type Config struct {
	Port           int
	APIKey         string
	TrustedProxies []string
}

// Deps are the services the HTTP surface exposes
type Deps struct {
	Queue       handler.CommentQueue
	Progression handler.ProgressionService
	Detector    handler.DetectionService
	Settings    handler.DetectionSettingsStore
	Store       handler.Pinger
	Hub         *sse.Hub

	// Model is reported by /readyz as optional; nil when no worker is configured
	Model handler.Pinger
}

// Server is the HTTP API
type Server struct {
	httpServer *http.Server
	router     chi.Router
}

// NewServer creates a new Server instance
func NewServer(cfg Config, deps Deps) *Server {
	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	guard := NewClientGuard()
	proxies := ParseProxyList(cfg.TrustedProxies)

	r.Use(SecureHeaders)
	r.Use(loggingMiddleware)
	r.Use(RequireAPIKey(cfg.APIKey, proxies, guard))
	r.Use(LimitRate(proxies, guard))
	r.Use(LimitBody(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)

	r.Get("/healthz", handler.HandleHealthz())
	checks := []handler.ReadinessCheck{{Name: handler.CheckSnapshotStore, Pinger: deps.Store}}
	if deps.Model != nil {
		checks = append(checks, handler.ReadinessCheck{Name: handler.CheckModelWorker, Pinger: deps.Model, Optional: true})
	}
	r.Get("/readyz", handler.HandleReadyz(checks...))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())

	comments := handler.NewCommentHandlers(deps.Queue, deps.Detector)
	garden := handler.NewProgressionHandlers(deps.Progression)
	detection := handler.NewDetectionHandlers(deps.Detector, deps.Settings)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/comments", comments.HandleSubmit())
		r.Get("/queue", comments.HandleQueueStatus())
		r.Post("/analyze", comments.HandleAnalyze())

		r.Get("/progression", garden.HandleGetState())
		r.Route("/trees", func(r chi.Router) {
			r.Post("/", garden.HandlePlantTree())
			r.Put("/selected", garden.HandleSelectTree())
			r.Post("/{id}/revive", garden.HandleReviveTree())
		})
		r.Post("/lottery", garden.HandleEnterLottery())

		r.Route("/detection", func(r chi.Router) {
			r.Get("/config", detection.HandleGetConfig())
			r.Put("/config", detection.HandleUpdateConfig())
			r.Post("/test", detection.HandleTestConnection())
		})

		if deps.Hub != nil {
			r.Get("/events", sse.Handler(deps.Hub))
		}
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           r,
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
		router: r,
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// responseWriter captures the status code and passes Flush through for SSE
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, p := range quietPaths {
			if strings.HasPrefix(r.URL.Path, p) {
				next.ServeHTTP(w, r)
				return
			}
		}

		start := time.Now()
		ctx := logger.WithNewRequestID(r.Context())
		r = r.WithContext(ctx)
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitized := make(http.Header, len(r.Header))
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitized[k] = []string{RedactedValue}
			} else {
				sanitized[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitized)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start serves until Stop is called. It returns http.ErrServerClosed after a clean stop.
func (s *Server) Start() error {
	logger.FromContext(context.Background()).Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
