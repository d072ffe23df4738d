package routes

import (
	"github.com/go-chi/chi/v5"

	"linkstash/internal/httpserver/deps"
	"linkstash/internal/httpserver/handlers"
	"linkstash/internal/httpserver/mw"
)

func init() { Register(registerMemos) }

func registerMemos(r chi.Router, d deps.Deps) {
	r.Route("/api/memos", func(r chi.Router) {
		r.Use(mw.RequireAccessKey())

		r.Get("/", handlers.ListMemos(d))
		r.Post("/", handlers.CreateMemo(d))
		r.Put("/{id}", handlers.UpdateMemo(d))
		r.Delete("/{id}", handlers.DeleteMemo(d))
		r.Post("/bulk-delete", handlers.BulkDeleteMemos(d))
	})
}
