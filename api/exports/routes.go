package exports

import (
	"github.com/go-chi/chi/v5"
	"github.com/mrFedocc/survey-app/api/middlewares"
	"github.com/mrFedocc/survey-app/database"
)

func RegisterRoutes(r chi.Router, queries *database.Queries) {

	store := NewExportStore(queries)

	handler := Handler{
		Store: store,
	}

	// Public aggregate
	r.Get("/stats", handler.StatsHandler)

	// Admin exports (static bearer token)
	r.Group(func(r chi.Router) {
		r.Use(middlewares.AdminAuthMiddleware())

		r.Get("/export.csv", handler.ExportCSVHandler)
		r.Get("/export-wide.csv", handler.ExportWideCSVHandler)
		r.Get("/export-all.csv", handler.ExportAllCSVHandler)
		r.Get("/export-all-wide.csv", handler.ExportAllWideCSVHandler)
	})
}
