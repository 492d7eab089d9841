package exports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mrFedocc/survey-app/api/custom_errors"
	"github.com/mrFedocc/survey-app/database"
)

// Store is the read-only view the aggregator consumes.
type Store interface {
	GetSurvey(ctx context.Context, surveyID string) (database.Survey, error)
	GetLatestSurvey(ctx context.Context) (database.Survey, error)

	QuestionsBySurvey(ctx context.Context, surveyID string) ([]database.Question, error)
	AllQuestions(ctx context.Context) ([]database.QuestionRow, error)
	OptionsBySurvey(ctx context.Context, surveyID string) ([]database.QuestionOption, error)
	AllOptions(ctx context.Context) ([]database.QuestionOption, error)

	AnswersBySurvey(ctx context.Context, surveyID string, newestFirst bool) ([]database.AnswerRow, error)
	AllAnswers(ctx context.Context, newestFirst bool) ([]database.AnswerRow, error)

	Leads(ctx context.Context) ([]database.Lead, error)
	CountLeads(ctx context.Context) (int64, error)
	CountLeadsBySurvey(ctx context.Context, surveyID string) (int64, error)
}

type Repository struct {
	queries *database.Queries
}

func NewExportStore(queries *database.Queries) *Repository {
	return &Repository{queries: queries}
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

func (r *Repository) QuestionsBySurvey(ctx context.Context, surveyID string) ([]database.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	questions, err := r.queries.ListQuestionsBySurvey(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("error listing questions: %v", err)
	}

	return questions, nil
}

func (r *Repository) AllQuestions(ctx context.Context) ([]database.QuestionRow, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	questions, err := r.queries.ListAllQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing questions: %v", err)
	}

	return questions, nil
}

func (r *Repository) OptionsBySurvey(ctx context.Context, surveyID string) ([]database.QuestionOption, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	options, err := r.queries.ListOptionsBySurvey(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("error listing options: %v", err)
	}

	return options, nil
}

func (r *Repository) AllOptions(ctx context.Context) ([]database.QuestionOption, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	options, err := r.queries.ListAllOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing options: %v", err)
	}

	return options, nil
}

func (r *Repository) AnswersBySurvey(ctx context.Context, surveyID string, newestFirst bool) ([]database.AnswerRow, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var (
		answers []database.AnswerRow
		err     error
	)
	if newestFirst {
		answers, err = r.queries.ListAnswersBySurveyDesc(ctx, surveyID)
	} else {
		answers, err = r.queries.ListAnswersBySurveyAsc(ctx, surveyID)
	}
	if err != nil {
		return nil, fmt.Errorf("error listing answers: %v", err)
	}

	return answers, nil
}

func (r *Repository) AllAnswers(ctx context.Context, newestFirst bool) ([]database.AnswerRow, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var (
		answers []database.AnswerRow
		err     error
	)
	if newestFirst {
		answers, err = r.queries.ListAllAnswersDesc(ctx)
	} else {
		answers, err = r.queries.ListAllAnswersAsc(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("error listing answers: %v", err)
	}

	return answers, nil
}

func (r *Repository) Leads(ctx context.Context) ([]database.Lead, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	leads, err := r.queries.ListLeads(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing leads: %v", err)
	}

	return leads, nil
}

func (r *Repository) CountLeads(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.queries.CountLeads(ctx)
	if err != nil {
		return 0, fmt.Errorf("error counting leads: %v", err)
	}

	return count, nil
}

func (r *Repository) CountLeadsBySurvey(ctx context.Context, surveyID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.queries.CountLeadsBySurvey(ctx, surveyID)
	if err != nil {
		return 0, fmt.Errorf("error counting leads: %v", err)
	}

	return count, nil
}
