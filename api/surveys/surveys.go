package surveys

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/mrFedocc/survey-app/api/custom_errors"
	"github.com/mrFedocc/survey-app/api/jsonutil"
	"github.com/mrFedocc/survey-app/database"
	"github.com/mrFedocc/survey-app/queue"
)

type Handler struct {
	Store Store
	Queue queue.Queue
}

var validate = validator.New()

// ==================== Flow Handlers ====================

func (h *Handler) StartHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	surveyID := request.URL.Query().Get("surveyId")

	survey, err := resolveSurvey(ctx, h.Store, surveyID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, custom_errors.ErrNotFound) || errors.Is(err, custom_errors.ErrNoSurveys) {
			status = http.StatusNotFound
		}
		response := jsonutil.Response{
			Status:  "error",
			Message: err.Error(),
		}
		jsonutil.WriteJSONResponse(responseWriter, response, status)
		return
	}

	start := StartResponse{SurveyID: &survey.ID}

	if survey.FirstQuestionID.Valid {
		first := survey.FirstQuestionID.String
		start.QuestionID = &first
	} else {
		questions, err := h.Store.GetQuestionsBySurvey(ctx, survey.ID)
		if err != nil {
			response := jsonutil.Response{
				Status:  "error",
				Message: err.Error(),
			}
			jsonutil.WriteJSONResponse(responseWriter, response, http.StatusInternalServerError)
			return
		}
		if len(questions) > 0 {
			first := questions[0].ID
			start.QuestionID = &first
		}
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "survey resolved successfully",
		Data:    start,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

// resolveSurvey picks the explicit survey when an id is given, otherwise
// the most recently created one. "No surveys configured" is a distinct
// condition from "survey <id> not found".
func resolveSurvey(ctx context.Context, store Store, surveyID string) (database.Survey, error) {
	if surveyID != "" {
		return store.GetSurvey(ctx, surveyID)
	}
	return store.GetLatestSurvey(ctx)
}

func (h *Handler) GetQuestionHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	questionID := chi.URLParam(request, "questionID")

	question, err := h.Store.GetQuestion(ctx, questionID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, custom_errors.ErrNotFound) {
			status = http.StatusNotFound
		}
		response := jsonutil.Response{
			Status:  "error",
			Message: err.Error(),
		}
		jsonutil.WriteJSONResponse(responseWriter, response, status)
		return
	}

	options, err := h.Store.GetOptionsByQuestion(ctx, question.ID)
	if err != nil {
		response := jsonutil.Response{
			Status:  "error",
			Message: err.Error(),
		}
		jsonutil.WriteJSONResponse(responseWriter, response, http.StatusInternalServerError)
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "question retrieved successfully",
		Data:    QuestionDetail{Question: question, Options: options},
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

func (h *Handler) AnswerHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	data, err := jsonutil.UnmarshalJsonResponse[AnswerParams](request)
	if err != nil {
		response := jsonutil.Response{
			Status:  "error",
			Message: err.Error(),
		}
		jsonutil.WriteJSONResponse(responseWriter, response, http.StatusBadRequest)
		return
	}

	if err := validate.Struct(data); err != nil {
		response := jsonutil.Response{
			Status:  "error",
			Message: err.Error(),
		}
		jsonutil.WriteJSONResponse(responseWriter, response, http.StatusBadRequest)
		return
	}

	question, err := h.Store.GetQuestion(ctx, data.QuestionID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, custom_errors.ErrNotFound) {
			status = http.StatusNotFound
		}
		response := jsonutil.Response{
			Status:  "error",
			Message: err.Error(),
		}
		jsonutil.WriteJSONResponse(responseWriter, response, status)
		return
	}

	options, err := h.Store.GetOptionsByQuestion(ctx, question.ID)
	if err != nil {
		response := jsonutil.Response{
			Status:  "error",
			Message: err.Error(),
		}
		jsonutil.WriteJSONResponse(responseWriter, response, http.StatusInternalServerError)
		return
	}

	rules, err := h.Store.GetRulesByQuestion(ctx, question.ID)
	if err != nil {
		response := jsonutil.Response{
			Status:  "error",
			Message: err.Error(),
		}
		jsonutil.WriteJSONResponse(responseWriter, response, http.StatusInternalServerError)
		return
	}

	sequence, err := h.Store.GetQuestionsBySurvey(ctx, question.SurveyID)
	if err != nil {
		response := jsonutil.Response{
			Status:  "error",
			Message: err.Error(),
		}
		jsonutil.WriteJSONResponse(responseWriter, response, http.StatusInternalServerError)
		return
	}

	decision := Route(question, options, rules, sequence, data.Value, TerminalValue())

	if decision.Persist {
		answer, err := h.Store.SaveAnswer(ctx, SaveAnswerParams{
			UserID:     data.UserID,
			QuestionID: data.QuestionID,
			Value:      data.Value,
		})
		if err != nil {
			response := jsonutil.Response{
				Status:  "error",
				Message: err.Error(),
			}
			jsonutil.WriteJSONResponse(responseWriter, response, http.StatusInternalServerError)
			return
		}

		h.mirror([]any{
			answer.CreatedAt.Time.UTC().Format(time.RFC3339),
			data.UserID,
			answer.QuestionID,
			answer.Value,
		})
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "answer routed successfully",
		Data:    AnswerResponse{NextQuestionID: decision.NextQuestionID},
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

func (h *Handler) LeadHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	data, err := jsonutil.UnmarshalJsonResponse[LeadParams](request)
	if err != nil {
		response := jsonutil.Response{
			Status:  "error",
			Message: err.Error(),
		}
		jsonutil.WriteJSONResponse(responseWriter, response, http.StatusBadRequest)
		return
	}

	if err := validate.Struct(data); err != nil {
		response := jsonutil.Response{
			Status:  "error",
			Message: err.Error(),
		}
		jsonutil.WriteJSONResponse(responseWriter, response, http.StatusBadRequest)
		return
	}

	choices, err := json.Marshal(data.Choices)
	if err != nil {
		response := jsonutil.Response{
			Status:  "error",
			Message: "invalid choices payload",
		}
		jsonutil.WriteJSONResponse(responseWriter, response, http.StatusBadRequest)
		return
	}

	lead, err := h.Store.SaveLead(ctx, SaveLeadParams{
		SurveyID: data.SurveyID,
		UserID:   data.UserID,
		Choices:  string(choices),
		Email:    data.Email,
		Telegram: data.Telegram,
	})
	if err != nil {
		response := jsonutil.Response{
			Status:  "error",
			Message: err.Error(),
		}
		jsonutil.WriteJSONResponse(responseWriter, response, http.StatusInternalServerError)
		return
	}

	h.mirror([]any{
		lead.CreatedAt.Time.UTC().Format(time.RFC3339),
		data.SurveyID,
		lead.UserID,
		data.Email,
		data.Telegram,
		lead.Choices,
	})

	response := jsonutil.Response{
		Status:  "success",
		Message: "lead saved successfully",
		Data:    lead,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusCreated)
}

func (h *Handler) ListSurveysHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	surveys, err := h.Store.ListSurveys(ctx)
	if err != nil {
		response := jsonutil.Response{
			Status:  "error",
			Message: err.Error(),
		}
		jsonutil.WriteJSONResponse(responseWriter, response, http.StatusInternalServerError)
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "surveys retrieved successfully",
		Data:    surveys,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

func (h *Handler) SeedFullHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	result, err := h.Store.SeedFull(ctx)
	if err != nil {
		response := jsonutil.Response{
			Status:  "error",
			Message: err.Error(),
		}
		jsonutil.WriteJSONResponse(responseWriter, response, http.StatusInternalServerError)
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "survey seeded successfully",
		Data:    result,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusCreated)
}

// mirror enqueues a best-effort copy of the row for the spreadsheet
// sink. Failures are logged and dropped.
func (h *Handler) mirror(values []any) {
	if h.Queue == nil {
		return
	}
	if err := h.Queue.Enqueue(&queue.SheetsAppendPayload{Values: values}); err != nil {
		log.Printf("error enqueueing sheets mirror row: %v", err)
	}
}
