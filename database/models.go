package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Survey struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	FirstQuestionID pgtype.Text        `json:"firstQuestionId"`
	CreatedAt       pgtype.Timestamptz `json:"createdAt"`
}

type Question struct {
	ID       string `json:"id"`
	SurveyID string `json:"surveyId"`
	Order    int32  `json:"order"`
	Type     string `json:"type"`
	Text     string `json:"text"`
}

type QuestionOption struct {
	ID             string      `json:"id"`
	QuestionID     string      `json:"questionId"`
	Label          string      `json:"label"`
	Value          string      `json:"value"`
	NextQuestionID pgtype.Text `json:"nextQuestionId"`
	Position       int32       `json:"position"`
}

type RoutingRule struct {
	ID             string `json:"id"`
	QuestionID     string `json:"questionId"`
	Expression     string `json:"expression"`
	NextQuestionID string `json:"nextQuestionId"`
	Position       int32  `json:"position"`
}

type Answer struct {
	ID         string             `json:"id"`
	UserID     pgtype.Text        `json:"userId"`
	QuestionID string             `json:"questionId"`
	Value      string             `json:"value"`
	CreatedAt  pgtype.Timestamptz `json:"createdAt"`
}

type Lead struct {
	ID        string             `json:"id"`
	SurveyID  pgtype.Text        `json:"surveyId"`
	UserID    string             `json:"userId"`
	Choices   string             `json:"choices"`
	Email     pgtype.Text        `json:"email"`
	Telegram  pgtype.Text        `json:"telegram"`
	CreatedAt pgtype.Timestamptz `json:"createdAt"`
}

// AnswerRow is an answer joined with its question and owning survey,
// as the exporters consume it.
type AnswerRow struct {
	ID           string             `json:"id"`
	UserID       pgtype.Text        `json:"userId"`
	QuestionID   string             `json:"questionId"`
	Value        string             `json:"value"`
	CreatedAt    pgtype.Timestamptz `json:"createdAt"`
	QuestionText string             `json:"questionText"`
	QuestionType string             `json:"questionType"`
	SurveyID     string             `json:"surveyId"`
	SurveyTitle  string             `json:"surveyTitle"`
}

// QuestionRow is a question joined with its survey title, used for the
// global wide export headers.
type QuestionRow struct {
	ID          string `json:"id"`
	SurveyID    string `json:"surveyId"`
	Order       int32  `json:"order"`
	Type        string `json:"type"`
	Text        string `json:"text"`
	SurveyTitle string `json:"surveyTitle"`
}
