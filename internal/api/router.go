package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"teamup/internal/api/handlers"
	"teamup/internal/config"
	"teamup/internal/middleware"
)

type RouterDeps struct {
	Cfg    config.Config
	Authn  *middleware.AuthMiddleware
	Auth   *handlers.AuthHandler
	Events *handlers.EventsHandler
	Signup *handlers.SignupHandler
	Wallet *handlers.WalletHandler
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.RateLimit(d.Cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	r.Use(middleware.HTTPMetrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", promhttp.Handler())

	// provider callbacks are unauthenticated; the signature is the auth
	r.Post("/webhooks/stripe", d.Wallet.Webhook)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", d.Auth.Register)
		r.Post("/auth/login", d.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(d.Authn.Auth)

			r.Get("/team", d.Events.Home)
			r.Post("/team/join", d.Events.Join)

			r.Post("/events", d.Events.Create)
			r.Get("/events/{id}", d.Events.Detail)
			r.Post("/events/{id}/signup", d.Signup.Toggle)

			r.Get("/venues", d.Events.ListVenues)
			r.Post("/venues", d.Events.CreateVenue)

			r.Get("/wallet", d.Wallet.Overview)
			r.Post("/wallet/topup", d.Wallet.TopUp)
			r.Get("/wallet/topup/confirm", d.Wallet.Confirm)
		})
	})

	return r
}
