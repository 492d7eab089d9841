package exports

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/mrFedocc/survey-app/api/custom_errors"
	"github.com/mrFedocc/survey-app/api/jsonutil"
	"github.com/mrFedocc/survey-app/database"
)

type Handler struct {
	Store Store
}

// writeCSVResponse sends a finished CSV document as a download.
func writeCSVResponse(responseWriter http.ResponseWriter, filename, body string) {
	responseWriter.Header().Set("Content-Type", "text/csv; charset=utf-8")
	responseWriter.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	responseWriter.WriteHeader(http.StatusOK)

	if _, err := responseWriter.Write([]byte(body)); err != nil {
		log.Printf("error writing csv response: %s", err)
	}
}

func writeScopeError(responseWriter http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, custom_errors.ErrNotFound) || errors.Is(err, custom_errors.ErrNoSurveys) {
		status = http.StatusNotFound
	}
	response := jsonutil.Response{
		Status:  "error",
		Message: err.Error(),
	}
	jsonutil.WriteJSONResponse(responseWriter, response, status)
}

// resolveScope picks the explicit survey or falls back to the most
// recently created one, mirroring the start operation.
func (h *Handler) resolveScope(ctx context.Context, surveyID string) (database.Survey, error) {
	if surveyID != "" {
		return h.Store.GetSurvey(ctx, surveyID)
	}
	return h.Store.GetLatestSurvey(ctx)
}

// ==================== Export Handlers ====================

func (h *Handler) ExportCSVHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	survey, err := h.resolveScope(ctx, request.URL.Query().Get("surveyId"))
	if err != nil {
		writeScopeError(responseWriter, err)
		return
	}

	answers, err := h.Store.AnswersBySurvey(ctx, survey.ID, true)
	if err != nil {
		writeScopeError(responseWriter, err)
		return
	}

	options, err := h.Store.OptionsBySurvey(ctx, survey.ID)
	if err != nil {
		writeScopeError(responseWriter, err)
		return
	}

	leads, err := h.Store.Leads(ctx)
	if err != nil {
		writeScopeError(responseWriter, err)
		return
	}

	body := FlatCSV(survey.ID, answers, groupOptions(options), leads)
	writeCSVResponse(responseWriter, "answers.csv", body)
}

func (h *Handler) ExportWideCSVHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	survey, err := h.resolveScope(ctx, request.URL.Query().Get("surveyId"))
	if err != nil {
		writeScopeError(responseWriter, err)
		return
	}

	questions, err := h.Store.QuestionsBySurvey(ctx, survey.ID)
	if err != nil {
		writeScopeError(responseWriter, err)
		return
	}

	answers, err := h.Store.AnswersBySurvey(ctx, survey.ID, false)
	if err != nil {
		writeScopeError(responseWriter, err)
		return
	}

	options, err := h.Store.OptionsBySurvey(ctx, survey.ID)
	if err != nil {
		writeScopeError(responseWriter, err)
		return
	}

	leads, err := h.Store.Leads(ctx)
	if err != nil {
		writeScopeError(responseWriter, err)
		return
	}

	body := WideCSV(survey.ID, questions, answers, groupOptions(options), leads)
	writeCSVResponse(responseWriter, "answers_wide.csv", body)
}

func (h *Handler) ExportAllCSVHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	answers, err := h.Store.AllAnswers(ctx, true)
	if err != nil {
		writeScopeError(responseWriter, err)
		return
	}

	options, err := h.Store.AllOptions(ctx)
	if err != nil {
		writeScopeError(responseWriter, err)
		return
	}

	leads, err := h.Store.Leads(ctx)
	if err != nil {
		writeScopeError(responseWriter, err)
		return
	}

	body := AllFlatCSV(answers, groupOptions(options), leads)
	writeCSVResponse(responseWriter, "answers_all.csv", body)
}

func (h *Handler) ExportAllWideCSVHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	questions, err := h.Store.AllQuestions(ctx)
	if err != nil {
		writeScopeError(responseWriter, err)
		return
	}

	answers, err := h.Store.AllAnswers(ctx, false)
	if err != nil {
		writeScopeError(responseWriter, err)
		return
	}

	options, err := h.Store.AllOptions(ctx)
	if err != nil {
		writeScopeError(responseWriter, err)
		return
	}

	leads, err := h.Store.Leads(ctx)
	if err != nil {
		writeScopeError(responseWriter, err)
		return
	}

	body := AllWideCSV(questions, answers, groupOptions(options), leads)
	writeCSVResponse(responseWriter, "answers_all_wide.csv", body)
}

// ==================== Stats Handler ====================

func (h *Handler) StatsHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	vocab, err := LoadVocabulary()
	if err != nil {
		response := jsonutil.Response{
			Status:  "error",
			Message: err.Error(),
		}
		jsonutil.WriteJSONResponse(responseWriter, response, http.StatusInternalServerError)
		return
	}

	surveyID := request.URL.Query().Get("surveyId")

	var (
		answers   []database.AnswerRow
		leadCount int64
		scope     *string
	)

	if surveyID != "" {
		scope = &surveyID
		answers, err = h.Store.AnswersBySurvey(ctx, surveyID, false)
		if err == nil {
			leadCount, err = h.Store.CountLeadsBySurvey(ctx, surveyID)
		}
	} else {
		answers, err = h.Store.AllAnswers(ctx, false)
		if err == nil {
			leadCount, err = h.Store.CountLeads(ctx)
		}
	}
	if err != nil {
		writeScopeError(responseWriter, err)
		return
	}

	stats := BuildStats(answers, vocab, leadCount, scope)

	response := jsonutil.Response{
		Status:  "success",
		Message: "stats computed successfully",
		Data:    stats,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}
