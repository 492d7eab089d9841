package surveys

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/mrFedocc/survey-app/database"
)

type seedOption struct {
	label string
	value string
	next  string // question key, empty = no explicit route
}

// SeedFull creates the demo pet survey: a strict linear chain of four
// single-choice questions ending in one multi-select, with the
// "no pets" option terminating the flow. The whole fixture is built in
// one transaction so a partially wired graph never becomes visible.
func (r *Repository) SeedFull(ctx context.Context) (SeedResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var result SeedResult

	err := r.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		survey, err := r.queries.CreateSurvey(ctx, database.CreateSurveyParams{
			ID:    uuid.NewString(),
			Title: "Pet Survey",
		})
		if err != nil {
			return fmt.Errorf("error creating survey: %v", err)
		}

		type seedQuestion struct {
			key   string
			order int32
			qtype string
			text  string
		}

		questions := []seedQuestion{
			{key: "pets", order: 1, qtype: "single", text: "Do you have a pet?"},
			{key: "spend", order: 2, qtype: "single", text: "How much do you spend on your pet per month?"},
			{key: "age", order: 3, qtype: "single", text: "Your age"},
			{key: "care", order: 4, qtype: "single", text: "Would you like to track your pet's health?"},
			{key: "problems", order: 5, qtype: "multi", text: "Which problems have you run into?"},
		}

		ids := make(map[string]string, len(questions))
		for _, q := range questions {
			created, err := r.queries.CreateQuestion(ctx, database.CreateQuestionParams{
				ID:       uuid.NewString(),
				SurveyID: survey.ID,
				Order:    q.order,
				Type:     q.qtype,
				Text:     q.text,
			})
			if err != nil {
				return fmt.Errorf("error creating question %q: %v", q.key, err)
			}
			ids[q.key] = created.ID
		}

		options := map[string][]seedOption{
			"pets": {
				{label: "Dog", value: "pets_dog", next: "spend"},
				{label: "Cat", value: "pets_cat", next: "spend"},
				{label: "Both dog and cat", value: "pets_both", next: "spend"},
				{label: "No", value: "pets_none"},
			},
			"spend": {
				{label: "under 2000", value: "<2000", next: "age"},
				{label: "2000-5000", value: "2000-5000", next: "age"},
				{label: "5000-10000", value: "5000-10000", next: "age"},
				{label: "over 10000", value: ">10000", next: "age"},
			},
			"age": {
				{label: "<18", value: "<18", next: "care"},
				{label: "18-30", value: "18-30", next: "care"},
				{label: "30-50", value: "30-50", next: "care"},
				{label: "50<", value: "50<", next: "care"},
			},
			"care": {
				{label: "Yes", value: "yes", next: "problems"},
				{label: "No", value: "no", next: "problems"},
			},
			"problems": {
				{label: "Pet ran away or got lost", value: "lost"},
				{label: "Afraid it might run away", value: "fear"},
				{label: "Hard to find in the dark", value: "dark"},
				{label: "Dislike subscriptions and plans", value: "pricing"},
				{label: "Weak battery, hard to charge", value: "battery"},
				{label: "Bulky or heavy collar", value: "collar"},
				{label: "Privacy and safety concerns", value: "privacy"},
				{label: "Other", value: "other"},
			},
		}

		for _, q := range questions {
			for i, opt := range options[q.key] {
				next := pgtype.Text{}
				if opt.next != "" {
					// option routes inside the same survey by construction
					next = pgtype.Text{String: ids[opt.next], Valid: true}
				}
				_, err := r.queries.CreateOption(ctx, database.CreateOptionParams{
					ID:             uuid.NewString(),
					QuestionID:     ids[q.key],
					Label:          opt.label,
					Value:          opt.value,
					NextQuestionID: next,
					Position:       int32(i),
				})
				if err != nil {
					return fmt.Errorf("error creating option %q: %v", opt.value, err)
				}
			}
		}

		if err := r.queries.SetSurveyFirstQuestion(ctx, survey.ID, ids["pets"]); err != nil {
			return fmt.Errorf("error setting first question: %v", err)
		}

		result = SeedResult{SurveyID: survey.ID, FirstQuestionID: ids["pets"]}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}

	return result, nil
}
