package routes

import (
	"github.com/go-chi/chi/v5"

	"linkstash/internal/httpserver/deps"
	"linkstash/internal/httpserver/handlers"
	"linkstash/internal/httpserver/mw"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Route("/api/bookmarks", func(r chi.Router) {
		r.Use(mw.RequireAccessKey())

		r.Get("/", handlers.ListBookmarks(d))
		r.Post("/", handlers.CreateBookmarks(d))
		r.Put("/{id}", handlers.UpdateBookmark(d))
		r.Delete("/{id}", handlers.DeleteBookmark(d))
		r.Post("/bulk-delete", handlers.BulkDeleteBookmarks(d))

		r.Get("/duplicates", handlers.ListDuplicates(d))
		r.Post("/duplicates/delete", handlers.DeleteDuplicates(d))

		r.Post("/import", handlers.ImportBookmarks(d))
		r.Get("/export", handlers.ExportBookmarks(d))
	})
}
