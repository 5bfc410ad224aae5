package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/streamops/flink-sql-proxy/internal/auth"
)

// RegisterApi mounts the gateway routes. The health endpoint sits outside
// the authenticated group and needs no credentials.
func RegisterApi(router *chi.Mux, h *StatementHandler, authenticator auth.Authenticator) {
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_ = render.Render(w, r, HealthReply{Status: "ok"})
	})

	router.Group(func(r chi.Router) {
		r.Use(authenticator.Authenticator)
		r.Post("/v1/sql", h.SubmitStatement)
	})
}
