package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all API routes. Mutating operator endpoints sit
// behind the admin token; reads and unsubscribe do not.
func SetupRoutes(h *Handlers, health *HealthChecker, adminToken string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", adminTokenHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", health.HandleHealth)
	r.Get("/health/live", health.HandleLiveness)
	r.Get("/health/ready", health.HandleReadiness)
	r.Get("/config", h.GetConfig)

	r.Get("/reservations", h.ListReservations)
	r.Get("/contacts", h.ListContacts)
	r.Get("/campaigns", h.ListCampaigns)
	r.Get("/audience/emails", h.AudienceEmails)

	// Anyone holding an unsubscribe link may opt out.
	r.Post("/contacts/unsubscribe", h.Unsubscribe)

	r.Group(func(r chi.Router) {
		r.Use(requireAdmin(adminToken))

		r.Post("/sync/cloudbeds/reservations", h.SyncReservations)
		r.Post("/webhooks/cloudbeds", h.CloudbedsWebhook)
		r.Post("/contacts/optin", h.OptIn)
		r.Post("/campaigns", h.CreateCampaign)
		r.Post("/campaigns/{id}/send", h.SendCampaign)
		r.Get("/campaigns/{id}/preview", h.PreviewCampaign)
	})

	return r
}
