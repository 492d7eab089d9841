package surveys

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mrFedocc/survey-app/api/jsonutil"
	"github.com/mrFedocc/survey-app/database"
	"github.com/mrFedocc/survey-app/queue"
)

func RegisterRoutes(r chi.Router, q queue.Queue, pool *pgxpool.Pool, queries *database.Queries) {

	store := NewSurveyStore(queries, database.NewDBTransactor(pool))

	handler := Handler{
		Store: store,
		Queue: q,
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		jsonutil.WriteJSONResponse(w, jsonutil.Response{Status: "success", Message: "ok"}, http.StatusOK)
	})

	r.Get("/start", handler.StartHandler)
	r.Get("/question/{questionID}", handler.GetQuestionHandler)
	r.Post("/answer", handler.AnswerHandler)
	r.Post("/lead", handler.LeadHandler)
	r.Get("/surveys", handler.ListSurveysHandler)
	r.Post("/seed-full", handler.SeedFullHandler)
}
