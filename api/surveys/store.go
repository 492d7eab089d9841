package surveys

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/mrFedocc/survey-app/api/custom_errors"
	"github.com/mrFedocc/survey-app/database"
)

type Store interface {
	// Survey resolution
	GetSurvey(ctx context.Context, surveyID string) (database.Survey, error)
	GetLatestSurvey(ctx context.Context) (database.Survey, error)
	ListSurveys(ctx context.Context) ([]database.Survey, error)

	// Question graph
	GetQuestion(ctx context.Context, questionID string) (database.Question, error)
	GetQuestionsBySurvey(ctx context.Context, surveyID string) ([]database.Question, error)
	GetOptionsByQuestion(ctx context.Context, questionID string) ([]database.QuestionOption, error)
	GetRulesByQuestion(ctx context.Context, questionID string) ([]database.RoutingRule, error)

	// Respondent writes
	SaveAnswer(ctx context.Context, params SaveAnswerParams) (database.Answer, error)
	SaveLead(ctx context.Context, params SaveLeadParams) (database.Lead, error)

	// Fixture
	SeedFull(ctx context.Context) (SeedResult, error)
}

type Repository struct {
	queries    *database.Queries
	transactor database.Transactor
}

func NewSurveyStore(queries *database.Queries, transactor database.Transactor) *Repository {
	return &Repository{queries: queries, transactor: transactor}
}

func (r *Repository) GetSurvey(ctx context.Context, surveyID string) (database.Survey, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	survey, err := r.queries.GetSurvey(ctx, surveyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Survey{}, custom_errors.ErrNotFound
		}
		return database.Survey{}, fmt.Errorf("error getting survey: %v", err)
	}

	return survey, nil
}

func (r *Repository) GetLatestSurvey(ctx context.Context) (database.Survey, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	survey, err := r.queries.GetLatestSurvey(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Survey{}, custom_errors.ErrNoSurveys
		}
		return database.Survey{}, fmt.Errorf("error getting latest survey: %v", err)
	}

	return survey, nil
}

func (r *Repository) ListSurveys(ctx context.Context) ([]database.Survey, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	surveys, err := r.queries.ListSurveys(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing surveys: %v", err)
	}

	return surveys, nil
}

func (r *Repository) GetQuestion(ctx context.Context, questionID string) (database.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	question, err := r.queries.GetQuestion(ctx, questionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Question{}, custom_errors.ErrNotFound
		}
		return database.Question{}, fmt.Errorf("error getting question: %v", err)
	}

	return question, nil
}

func (r *Repository) GetQuestionsBySurvey(ctx context.Context, surveyID string) ([]database.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	questions, err := r.queries.ListQuestionsBySurvey(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("error listing questions: %v", err)
	}

	return questions, nil
}

func (r *Repository) GetOptionsByQuestion(ctx context.Context, questionID string) ([]database.QuestionOption, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	options, err := r.queries.ListOptionsByQuestion(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("error listing options: %v", err)
	}

	return options, nil
}

func (r *Repository) GetRulesByQuestion(ctx context.Context, questionID string) ([]database.RoutingRule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rules, err := r.queries.ListRulesByQuestion(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("error listing routing rules: %v", err)
	}

	return rules, nil
}

func (r *Repository) SaveAnswer(ctx context.Context, params SaveAnswerParams) (database.Answer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	answer, err := r.queries.CreateAnswer(ctx, database.CreateAnswerParams{
		ID:         uuid.NewString(),
		UserID:     pgtype.Text{String: params.UserID, Valid: params.UserID != ""},
		QuestionID: params.QuestionID,
		Value:      params.Value,
	})
	if err != nil {
		return database.Answer{}, fmt.Errorf("error creating answer: %v", err)
	}

	return answer, nil
}

func (r *Repository) SaveLead(ctx context.Context, params SaveLeadParams) (database.Lead, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	lead, err := r.queries.CreateLead(ctx, database.CreateLeadParams{
		ID:       uuid.NewString(),
		SurveyID: pgtype.Text{String: params.SurveyID, Valid: params.SurveyID != ""},
		UserID:   params.UserID,
		Choices:  params.Choices,
		Email:    pgtype.Text{String: params.Email, Valid: params.Email != ""},
		Telegram: pgtype.Text{String: params.Telegram, Valid: params.Telegram != ""},
	})
	if err != nil {
		return database.Lead{}, fmt.Errorf("error creating lead: %v", err)
	}

	return lead, nil
}
