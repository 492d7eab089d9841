package surveys

import "github.com/mrFedocc/survey-app/database"

// Parameter structs
type AnswerParams struct {
	UserID     string `json:"userId"`
	QuestionID string `json:"questionId" validate:"required"`
	Value      string `json:"value"`
}

type LeadChoices struct {
	Preorder bool `json:"preorder"`
	Partner  bool `json:"partner"`
}

// LeadParams is stored as submitted. Only userId is validated; contact
// fields are free-form strings.
type LeadParams struct {
	SurveyID string      `json:"surveyId"`
	UserID   string      `json:"userId" validate:"required"`
	Choices  LeadChoices `json:"choices"`
	Email    string      `json:"email"`
	Telegram string      `json:"telegram"`
}

type SaveAnswerParams struct {
	UserID     string
	QuestionID string
	Value      string
}

type SaveLeadParams struct {
	SurveyID string
	UserID   string
	Choices  string
	Email    string
	Telegram string
}

// Response structs
type StartResponse struct {
	SurveyID   *string `json:"surveyId"`
	QuestionID *string `json:"questionId"`
}

type AnswerResponse struct {
	NextQuestionID *string `json:"nextQuestionId"`
}

type QuestionDetail struct {
	database.Question
	Options []database.QuestionOption `json:"options"`
}

type SeedResult struct {
	SurveyID        string `json:"surveyId"`
	FirstQuestionID string `json:"firstQuestionId"`
}
