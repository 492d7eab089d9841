package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Queries struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Queries {
	return &Queries{db: db}
}

// conn returns the transaction carried by ctx when there is one, so that
// callers running under Transactor.WithTransaction stay inside it.
func (q *Queries) conn(ctx context.Context) DBTX {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return q.db
}

// ==================== Surveys ====================

const createSurvey = `
INSERT INTO surveys (id, title)
VALUES ($1, $2)
RETURNING id, title, first_question_id, created_at
`

type CreateSurveyParams struct {
	ID    string
	Title string
}

func (q *Queries) CreateSurvey(ctx context.Context, arg CreateSurveyParams) (Survey, error) {
	row := q.conn(ctx).QueryRow(ctx, createSurvey, arg.ID, arg.Title)
	var s Survey
	err := row.Scan(&s.ID, &s.Title, &s.FirstQuestionID, &s.CreatedAt)
	return s, err
}

const getSurvey = `
SELECT id, title, first_question_id, created_at
FROM surveys
WHERE id = $1
`

func (q *Queries) GetSurvey(ctx context.Context, id string) (Survey, error) {
	row := q.conn(ctx).QueryRow(ctx, getSurvey, id)
	var s Survey
	err := row.Scan(&s.ID, &s.Title, &s.FirstQuestionID, &s.CreatedAt)
	return s, err
}

const getLatestSurvey = `
SELECT id, title, first_question_id, created_at
FROM surveys
ORDER BY created_at DESC
LIMIT 1
`

func (q *Queries) GetLatestSurvey(ctx context.Context) (Survey, error) {
	row := q.conn(ctx).QueryRow(ctx, getLatestSurvey)
	var s Survey
	err := row.Scan(&s.ID, &s.Title, &s.FirstQuestionID, &s.CreatedAt)
	return s, err
}

const listSurveys = `
SELECT id, title, first_question_id, created_at
FROM surveys
ORDER BY created_at DESC
`

func (q *Queries) ListSurveys(ctx context.Context) ([]Survey, error) {
	rows, err := q.conn(ctx).Query(ctx, listSurveys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var surveys []Survey
	for rows.Next() {
		var s Survey
		if err := rows.Scan(&s.ID, &s.Title, &s.FirstQuestionID, &s.CreatedAt); err != nil {
			return nil, err
		}
		surveys = append(surveys, s)
	}
	return surveys, rows.Err()
}

const setSurveyFirstQuestion = `
UPDATE surveys
SET first_question_id = $2
WHERE id = $1
`

func (q *Queries) SetSurveyFirstQuestion(ctx context.Context, id, questionID string) error {
	_, err := q.conn(ctx).Exec(ctx, setSurveyFirstQuestion, id, questionID)
	return err
}

// ==================== Questions ====================

const createQuestion = `
INSERT INTO questions (id, survey_id, ord, type, text)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, survey_id, ord, type, text
`

type CreateQuestionParams struct {
	ID       string
	SurveyID string
	Order    int32
	Type     string
	Text     string
}

func (q *Queries) CreateQuestion(ctx context.Context, arg CreateQuestionParams) (Question, error) {
	row := q.conn(ctx).QueryRow(ctx, createQuestion, arg.ID, arg.SurveyID, arg.Order, arg.Type, arg.Text)
	var question Question
	err := row.Scan(&question.ID, &question.SurveyID, &question.Order, &question.Type, &question.Text)
	return question, err
}

const getQuestion = `
SELECT id, survey_id, ord, type, text
FROM questions
WHERE id = $1
`

func (q *Queries) GetQuestion(ctx context.Context, id string) (Question, error) {
	row := q.conn(ctx).QueryRow(ctx, getQuestion, id)
	var question Question
	err := row.Scan(&question.ID, &question.SurveyID, &question.Order, &question.Type, &question.Text)
	return question, err
}

const listQuestionsBySurvey = `
SELECT id, survey_id, ord, type, text
FROM questions
WHERE survey_id = $1
ORDER BY ord ASC
`

func (q *Queries) ListQuestionsBySurvey(ctx context.Context, surveyID string) ([]Question, error) {
	rows, err := q.conn(ctx).Query(ctx, listQuestionsBySurvey, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []Question
	for rows.Next() {
		var question Question
		if err := rows.Scan(&question.ID, &question.SurveyID, &question.Order, &question.Type, &question.Text); err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, rows.Err()
}

const listAllQuestions = `
SELECT q.id, q.survey_id, q.ord, q.type, q.text, s.title
FROM questions q
JOIN surveys s ON s.id = q.survey_id
ORDER BY q.survey_id ASC, q.ord ASC
`

func (q *Queries) ListAllQuestions(ctx context.Context) ([]QuestionRow, error) {
	rows, err := q.conn(ctx).Query(ctx, listAllQuestions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []QuestionRow
	for rows.Next() {
		var question QuestionRow
		if err := rows.Scan(&question.ID, &question.SurveyID, &question.Order, &question.Type, &question.Text, &question.SurveyTitle); err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, rows.Err()
}

// ==================== Options ====================

const createOption = `
INSERT INTO question_options (id, question_id, label, value, next_question_id, position)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, question_id, label, value, next_question_id, position
`

type CreateOptionParams struct {
	ID             string
	QuestionID     string
	Label          string
	Value          string
	NextQuestionID pgtype.Text
	Position       int32
}

func (q *Queries) CreateOption(ctx context.Context, arg CreateOptionParams) (QuestionOption, error) {
	row := q.conn(ctx).QueryRow(ctx, createOption,
		arg.ID, arg.QuestionID, arg.Label, arg.Value, arg.NextQuestionID, arg.Position)
	var option QuestionOption
	err := row.Scan(&option.ID, &option.QuestionID, &option.Label, &option.Value, &option.NextQuestionID, &option.Position)
	return option, err
}

const listOptionsByQuestion = `
SELECT id, question_id, label, value, next_question_id, position
FROM question_options
WHERE question_id = $1
ORDER BY position ASC
`

func (q *Queries) ListOptionsByQuestion(ctx context.Context, questionID string) ([]QuestionOption, error) {
	rows, err := q.conn(ctx).Query(ctx, listOptionsByQuestion, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOptions(rows)
}

const listOptionsBySurvey = `
SELECT o.id, o.question_id, o.label, o.value, o.next_question_id, o.position
FROM question_options o
JOIN questions q ON q.id = o.question_id
WHERE q.survey_id = $1
ORDER BY q.ord ASC, o.position ASC
`

func (q *Queries) ListOptionsBySurvey(ctx context.Context, surveyID string) ([]QuestionOption, error) {
	rows, err := q.conn(ctx).Query(ctx, listOptionsBySurvey, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOptions(rows)
}

const listAllOptions = `
SELECT id, question_id, label, value, next_question_id, position
FROM question_options
ORDER BY question_id ASC, position ASC
`

func (q *Queries) ListAllOptions(ctx context.Context) ([]QuestionOption, error) {
	rows, err := q.conn(ctx).Query(ctx, listAllOptions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOptions(rows)
}

func scanOptions(rows pgx.Rows) ([]QuestionOption, error) {
	var options []QuestionOption
	for rows.Next() {
		var option QuestionOption
		if err := rows.Scan(&option.ID, &option.QuestionID, &option.Label, &option.Value, &option.NextQuestionID, &option.Position); err != nil {
			return nil, err
		}
		options = append(options, option)
	}
	return options, rows.Err()
}

// ==================== Routing rules ====================

const createRoutingRule = `
INSERT INTO routing_rules (id, question_id, expression, next_question_id, position)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, question_id, expression, next_question_id, position
`

type CreateRoutingRuleParams struct {
	ID             string
	QuestionID     string
	Expression     string
	NextQuestionID string
	Position       int32
}

func (q *Queries) CreateRoutingRule(ctx context.Context, arg CreateRoutingRuleParams) (RoutingRule, error) {
	row := q.conn(ctx).QueryRow(ctx, createRoutingRule,
		arg.ID, arg.QuestionID, arg.Expression, arg.NextQuestionID, arg.Position)
	var rule RoutingRule
	err := row.Scan(&rule.ID, &rule.QuestionID, &rule.Expression, &rule.NextQuestionID, &rule.Position)
	return rule, err
}

const listRulesByQuestion = `
SELECT id, question_id, expression, next_question_id, position
FROM routing_rules
WHERE question_id = $1
ORDER BY position ASC
`

func (q *Queries) ListRulesByQuestion(ctx context.Context, questionID string) ([]RoutingRule, error) {
	rows, err := q.conn(ctx).Query(ctx, listRulesByQuestion, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []RoutingRule
	for rows.Next() {
		var rule RoutingRule
		if err := rows.Scan(&rule.ID, &rule.QuestionID, &rule.Expression, &rule.NextQuestionID, &rule.Position); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// ==================== Answers ====================

const createAnswer = `
INSERT INTO answers (id, user_id, question_id, value)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, question_id, value, created_at
`

type CreateAnswerParams struct {
	ID         string
	UserID     pgtype.Text
	QuestionID string
	Value      string
}

func (q *Queries) CreateAnswer(ctx context.Context, arg CreateAnswerParams) (Answer, error) {
	row := q.conn(ctx).QueryRow(ctx, createAnswer, arg.ID, arg.UserID, arg.QuestionID, arg.Value)
	var a Answer
	err := row.Scan(&a.ID, &a.UserID, &a.QuestionID, &a.Value, &a.CreatedAt)
	return a, err
}

const answerRowColumns = `
SELECT a.id, a.user_id, a.question_id, a.value, a.created_at,
       q.text, q.type, q.survey_id, s.title
FROM answers a
JOIN questions q ON q.id = a.question_id
JOIN surveys s ON s.id = q.survey_id
`

const listAnswersBySurveyAsc = answerRowColumns + `
WHERE q.survey_id = $1
ORDER BY a.created_at ASC
`

func (q *Queries) ListAnswersBySurveyAsc(ctx context.Context, surveyID string) ([]AnswerRow, error) {
	rows, err := q.conn(ctx).Query(ctx, listAnswersBySurveyAsc, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAnswerRows(rows)
}

const listAnswersBySurveyDesc = answerRowColumns + `
WHERE q.survey_id = $1
ORDER BY a.created_at DESC
`

func (q *Queries) ListAnswersBySurveyDesc(ctx context.Context, surveyID string) ([]AnswerRow, error) {
	rows, err := q.conn(ctx).Query(ctx, listAnswersBySurveyDesc, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAnswerRows(rows)
}

const listAllAnswersAsc = answerRowColumns + `
ORDER BY a.created_at ASC
`

func (q *Queries) ListAllAnswersAsc(ctx context.Context) ([]AnswerRow, error) {
	rows, err := q.conn(ctx).Query(ctx, listAllAnswersAsc)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAnswerRows(rows)
}

const listAllAnswersDesc = answerRowColumns + `
ORDER BY a.created_at DESC
`

func (q *Queries) ListAllAnswersDesc(ctx context.Context) ([]AnswerRow, error) {
	rows, err := q.conn(ctx).Query(ctx, listAllAnswersDesc)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAnswerRows(rows)
}

func scanAnswerRows(rows pgx.Rows) ([]AnswerRow, error) {
	var answers []AnswerRow
	for rows.Next() {
		var a AnswerRow
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuestionID, &a.Value, &a.CreatedAt,
			&a.QuestionText, &a.QuestionType, &a.SurveyID, &a.SurveyTitle); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// ==================== Leads ====================

const createLead = `
INSERT INTO leads (id, survey_id, user_id, choices, email, telegram)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, survey_id, user_id, choices, email, telegram, created_at
`

type CreateLeadParams struct {
	ID       string
	SurveyID pgtype.Text
	UserID   string
	Choices  string
	Email    pgtype.Text
	Telegram pgtype.Text
}

func (q *Queries) CreateLead(ctx context.Context, arg CreateLeadParams) (Lead, error) {
	row := q.conn(ctx).QueryRow(ctx, createLead,
		arg.ID, arg.SurveyID, arg.UserID, arg.Choices, arg.Email, arg.Telegram)
	var l Lead
	err := row.Scan(&l.ID, &l.SurveyID, &l.UserID, &l.Choices, &l.Email, &l.Telegram, &l.CreatedAt)
	return l, err
}

const listLeads = `
SELECT id, survey_id, user_id, choices, email, telegram, created_at
FROM leads
ORDER BY created_at DESC
`

func (q *Queries) ListLeads(ctx context.Context) ([]Lead, error) {
	rows, err := q.conn(ctx).Query(ctx, listLeads)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		var l Lead
		if err := rows.Scan(&l.ID, &l.SurveyID, &l.UserID, &l.Choices, &l.Email, &l.Telegram, &l.CreatedAt); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

const countLeads = `
SELECT count(*) FROM leads
`

func (q *Queries) CountLeads(ctx context.Context) (int64, error) {
	var count int64
	err := q.conn(ctx).QueryRow(ctx, countLeads).Scan(&count)
	return count, err
}

const countLeadsBySurvey = `
SELECT count(*) FROM leads WHERE survey_id = $1
`

func (q *Queries) CountLeadsBySurvey(ctx context.Context, surveyID string) (int64, error) {
	var count int64
	err := q.conn(ctx).QueryRow(ctx, countLeadsBySurvey, surveyID).Scan(&count)
	return count, err
}
