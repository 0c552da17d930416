package httpserver

import (
	"net/http"
	"time"

	"farmbooking-go/internal/config"
	"farmbooking-go/internal/transport/httpserver/handler"
	authmw "farmbooking-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, auth *authmw.Auth, uploadRoot string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSOrigins))

	r.Get("/health", handlers.Health)
	r.Post("/auth/login", handlers.Login)

	// Uploaded files are public by URL, matching the asset URLs the API hands out.
	r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(uploadRoot))))

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Get("/me", handlers.Me)
		r.Get("/me/farmhouses", handlers.MyFarmhouses)

		r.Post("/farmhouses", handlers.CreateFarmhouse)
		r.Get("/farmhouses/available", handlers.AvailableFarmhouses)
		r.Get("/farmhouses/{id}/status", handlers.GetDayStatuses)
		r.Put("/farmhouses/{id}/status", handlers.UpsertDayStatuses)
		r.Get("/farmhouses/{id}/media", handlers.ListMedia)
		r.Post("/farmhouses/{id}/media", handlers.UploadMedia)
		r.Delete("/farmhouses/{id}/media/{media_id}", handlers.DeleteMedia)

		r.Get("/admin/owners", handlers.ListOwners)
		r.Post("/admin/owners/create", handlers.OnboardOwner)
		r.Patch("/admin/owners/{owner_id}/contact", handlers.UpdateOwnerContact)
		r.Post("/admin/owners/{owner_id}/reset-password", handlers.ResetOwnerPassword)
		r.Post("/admin/owners/{owner_id}/set-active", handlers.SetOwnerActive)
	})

	return r
}
