package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mrFedocc/survey-app/api/exports"
	"github.com/mrFedocc/survey-app/api/jsonutil"
	"github.com/mrFedocc/survey-app/api/surveys"
	"github.com/mrFedocc/survey-app/database"
	"github.com/mrFedocc/survey-app/queue"
)

func Routes(queries *database.Queries, queue queue.Queue, pool *pgxpool.Pool) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.CleanPath)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/check", func(w http.ResponseWriter, r *http.Request) {

		jsonutil.WriteJSONResponse(w, "hello from survey-app", http.StatusOK)
	})

	r.Route("/survey", func(sr chi.Router) {
		surveys.RegisterRoutes(sr, queue, pool, queries)
		exports.RegisterRoutes(sr, queries)
	})

	return r
}
