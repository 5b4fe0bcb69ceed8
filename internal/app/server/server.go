package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/emeralddgc/disc-tracker/internal/app/handler"
	"github.com/emeralddgc/disc-tracker/internal/app/service"
	"github.com/emeralddgc/disc-tracker/internal/middleware"
)

// Init wires the router: public disc endpoints, the admin surface behind
// the session gate (and optional trusted subnet), and the probes.
func Init(discService service.DiscServiceIface, auth service.AuthIface, trustedSubnet string, logger *zap.Logger) *chi.Mux {
	discs := handler.NewDisc(discService, logger)
	admin := handler.NewAdmin(discService, logger)
	session := handler.NewAuth(auth, logger)
	meta := handler.NewMeta(discService, logger)

	r := chi.NewRouter()
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.WithGZIP)

	r.Get("/healthz", meta.Health)
	r.Get("/ping", meta.Ping)

	r.Route("/discs", func(r chi.Router) {
		r.Post("/", discs.Create)
		r.Get("/", discs.List)
		r.Get("/types", discs.Types)
		r.Get("/colors", discs.Colors)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", session.Login)
		r.Post("/logout", session.Logout)
		r.Get("/status", session.Status)

		r.Group(func(r chi.Router) {
			r.Use(middleware.WithSubnet(trustedSubnet))
			r.Use(middleware.WithAdminAuth(auth))

			r.Get("/discs", admin.List)
			r.Patch("/discs/{id}", admin.Update)
			r.Patch("/discs/{id}/return", admin.Return)
			r.Delete("/discs/{id}", admin.Delete)
			r.Delete("/discs/expired", admin.Cleanup)
			r.Post("/discs/{id}/resend-sms", admin.ResendSMS)
			r.Post("/cleanup", admin.Cleanup)
			r.Get("/stats", admin.Stats)
		})
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Route not found", http.StatusNotFound)
	})

	return r
}
