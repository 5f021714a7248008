// File: internal/infra/web/server.go
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"academy-platform/internal/usecase"
)

// RateLimiter is satisfied by the redis fixed-window limiter. The check-in
// endpoint uses it so a stuck QR kiosk cannot hammer the API.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type Server struct {
	studentUC    usecase.StudentUseCase
	planUC       usecase.PlanUseCase
	subUC        usecase.SubscriptionUseCase
	scheduleUC   usecase.ScheduleUseCase
	attendanceUC usecase.AttendanceUseCase
	billingUC    usecase.BillingUseCase
	paymentUC    usecase.PaymentUseCase
	statsUC      usecase.StatsUseCase
	insightUC    usecase.InsightUseCase

	orgID         string
	lookaheadDays int
	auth          AuthConfig
	webhookToken  string
	limiter       RateLimiter
	log           *zerolog.Logger
}

type ServerConfig struct {
	OrgID         string
	LookaheadDays int
	Auth          AuthConfig
	WebhookToken  string
}

func NewServer(
	studentUC usecase.StudentUseCase,
	planUC usecase.PlanUseCase,
	subUC usecase.SubscriptionUseCase,
	scheduleUC usecase.ScheduleUseCase,
	attendanceUC usecase.AttendanceUseCase,
	billingUC usecase.BillingUseCase,
	paymentUC usecase.PaymentUseCase,
	statsUC usecase.StatsUseCase,
	insightUC usecase.InsightUseCase,
	cfg ServerConfig,
	limiter RateLimiter,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "web").Logger()
	return &Server{
		studentUC:     studentUC,
		planUC:        planUC,
		subUC:         subUC,
		scheduleUC:    scheduleUC,
		attendanceUC:  attendanceUC,
		billingUC:     billingUC,
		paymentUC:     paymentUC,
		statsUC:       statsUC,
		insightUC:     insightUC,
		orgID:         cfg.OrgID,
		lookaheadDays: cfg.LookaheadDays,
		auth:          cfg.Auth,
		webhookToken:  cfg.WebhookToken,
		limiter:       limiter,
		log:           &l,
	}
}

// Router builds the chi mux. Webhook and health endpoints stay outside the
// admin auth wall; everything under /api/v1 except login requires a JWT.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(s.observeMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Post("/webhooks/asaas", s.asaasWebhookHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", s.loginHandler)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Post("/students", s.studentCreateHandler)
			r.Get("/students", s.studentListHandler)
			r.Get("/students/{id}", s.studentGetHandler)
			r.Delete("/students/{id}", s.studentDeactivateHandler)
			r.Post("/students/{id}/promote", s.studentPromoteHandler)
			r.Get("/students/{id}/attendance", s.attendanceHistoryHandler)
			r.Get("/students/{id}/stats", s.attendanceStatsHandler)
			r.Get("/students/{id}/insights", s.insightHandler)
			r.Get("/students/{id}/payments", s.paymentListHandler)

			r.Post("/plans", s.planCreateHandler)
			r.Get("/plans", s.planListHandler)
			r.Delete("/plans/{id}", s.planDeactivateHandler)

			r.Post("/subscriptions", s.subscriptionCreateHandler)
			r.Get("/subscriptions/{id}", s.subscriptionGetHandler)
			r.Post("/subscriptions/{id}/cancel", s.subscriptionCancelHandler)
			r.Post("/subscriptions/{id}/schedule-end", s.subscriptionScheduleEndHandler)

			r.Post("/occurrences", s.occurrenceCreateHandler)
			r.Get("/occurrences", s.occurrenceListHandler)
			r.Get("/occurrences/{id}", s.occurrenceGetHandler)
			r.Post("/occurrences/{id}/enroll", s.occurrenceEnrollHandler)
			r.Post("/occurrences/{id}/unenroll", s.occurrenceUnenrollHandler)
			r.Post("/occurrences/{id}/check-in", s.checkInHandler)
			r.Get("/occurrences/{id}/roster", s.rosterHandler)

			r.Post("/billing/run", s.billingRunHandler)
			r.Get("/stats", s.statsHandler)
		})
	})

	return r
}

// observeMiddleware records request metrics using the chi route pattern so
// path parameters don't explode label cardinality.
func (s *Server) observeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		observeRequest(route, r.Method, ww.Status(), time.Since(started))
	})
}
