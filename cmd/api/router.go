package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/followwise/followwise-api/internal/infra/http/handlers"
	"github.com/followwise/followwise-api/internal/infra/http/middleware"
)

type routerDeps struct {
	CORSOrigins []string
	Auth        middleware.Authenticator

	AuthHandler      *handlers.AuthHandler
	LeadHandler      *handlers.LeadHandler
	FollowUpHandler  *handlers.FollowUpHandler
	SentEmailHandler *handlers.SentEmailHandler
	HealthHandler    *handlers.HealthHandler
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())

	authLimiter := handlers.NewRateLimiter(10, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", d.HealthHandler.Handle)

		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", d.AuthHandler.Register)
			r.Post("/login", d.AuthHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(d.Auth))

			r.Get("/users/me", d.AuthHandler.Me)
			r.Get("/sent-emails", d.SentEmailHandler.HandleListForUser)

			r.Route("/leads", func(r chi.Router) {
				r.Get("/", d.LeadHandler.List)
				r.Post("/", d.LeadHandler.Create)
				r.Post("/scan-inbox", d.LeadHandler.ScanInbox)

				r.Route("/{leadID}", func(r chi.Router) {
					r.Get("/", d.LeadHandler.Get)
					r.Patch("/", d.LeadHandler.Update)
					r.Delete("/", d.LeadHandler.Delete)

					r.Post("/generate-followups", d.FollowUpHandler.HandleGenerate)
					r.Get("/followups", d.FollowUpHandler.HandleList)
					r.Post("/regenerate-async", d.FollowUpHandler.HandleRegenerateAsync)

					r.Post("/send-email", d.SentEmailHandler.HandleSend)
					r.Get("/sent-emails", d.SentEmailHandler.HandleListForLead)
				})
			})
		})
	})

	return r
}
