package exports

import (
	"encoding/json"
	"strings"

	"github.com/mrFedocc/survey-app/database"
)

const anonymousUser = "(anonymous)"

type multiPayload struct {
	Selected []string `json:"selected"`
	Other    string   `json:"other"`
}

type leadChoices struct {
	Preorder bool `json:"preorder"`
	Partner  bool `json:"partner"`
}

// leadKey builds the composite lookup key used by the scoped exports.
func leadKey(surveyID, userID string) string {
	return surveyID + "::" + userID
}

// leadsByCompositeKey indexes leads by (surveyId, userId). Input is
// ordered newest first; the first occurrence wins so the most recent
// lead per key is kept.
func leadsByCompositeKey(leads []database.Lead) map[string]database.Lead {
	byKey := make(map[string]database.Lead, len(leads))
	for _, lead := range leads {
		key := leadKey(textOrEmpty(lead.SurveyID), lead.UserID)
		if _, ok := byKey[key]; !ok {
			byKey[key] = lead
		}
	}
	return byKey
}

// leadsByUser indexes leads by userId alone. The global exports key
// leads this way, without survey disambiguation; see DESIGN.md.
func leadsByUser(leads []database.Lead) map[string]database.Lead {
	byUser := make(map[string]database.Lead, len(leads))
	for _, lead := range leads {
		if _, ok := byUser[lead.UserID]; !ok {
			byUser[lead.UserID] = lead
		}
	}
	return byUser
}

// groupOptions buckets options by owning question, preserving position
// order from the store.
func groupOptions(options []database.QuestionOption) map[string][]database.QuestionOption {
	grouped := make(map[string][]database.QuestionOption)
	for _, option := range options {
		grouped[option.QuestionID] = append(grouped[option.QuestionID], option)
	}
	return grouped
}

func optionLabel(options []database.QuestionOption, value string) (string, bool) {
	for _, option := range options {
		if option.Value == value {
			return option.Label, true
		}
	}
	return "", false
}

func leadContactFields(lead database.Lead, ok bool) (email, telegram, preorder, partner string) {
	if !ok {
		return "", "", "", ""
	}
	email = textOrEmpty(lead.Email)
	telegram = textOrEmpty(lead.Telegram)
	var choices leadChoices
	if err := json.Unmarshal([]byte(lead.Choices), &choices); err == nil {
		preorder, partner = "0", "0"
		if choices.Preorder {
			preorder = "1"
		}
		if choices.Partner {
			partner = "1"
		}
	}
	return email, telegram, preorder, partner
}

// FlatCSV renders one row per answer for a single survey, newest first,
// with decoded labels and the respondent's lead contact columns.
func FlatCSV(
	surveyID string,
	answers []database.AnswerRow,
	optionsByQuestion map[string][]database.QuestionOption,
	leads []database.Lead,
) string {

	leadByKey := leadsByCompositeKey(leads)

	header := []string{
		"createdAt", "userId", "question", "type",
		"answer_value", "answer_label",
		"multi_selected", "multi_labels", "multi_other",
		"lead_email", "lead_telegram", "lead_preorder", "lead_partner",
	}
	lines := []string{csvLine(header)}

	for _, answer := range answers {
		options := optionsByQuestion[answer.QuestionID]

		var answerLabel, multiSelected, multiLabels, multiOther string

		switch answer.QuestionType {
		case "single":
			answerLabel, _ = optionLabel(options, answer.Value)
		case "multi":
			var payload multiPayload
			if err := json.Unmarshal([]byte(answer.Value), &payload); err == nil {
				multiSelected = joinPipe(payload.Selected)
				multiLabels = joinPipe(resolveLabels(options, payload.Selected))
				multiOther = payload.Other
			}
		}

		lead, ok := leadByKey[leadKey(surveyID, textOrEmpty(answer.UserID))]
		email, telegram, preorder, partner := leadContactFields(lead, ok)

		lines = append(lines, csvLine([]string{
			isoTime(answer.CreatedAt),
			csvField(textOrEmpty(answer.UserID)),
			csvField(answer.QuestionText),
			answer.QuestionType,
			csvField(answer.Value),
			csvField(answerLabel),
			csvField(multiSelected),
			csvField(multiLabels),
			csvField(multiOther),
			csvField(email),
			csvField(telegram),
			preorder,
			partner,
		}))
	}

	return csvDocument(lines)
}

// WideCSV renders one row per respondent for a single survey: one column
// per question in survey order, then the contact and choice columns.
// Answers arrive ascending by creation time, so for duplicate answers to
// the same question the latest one wins.
func WideCSV(
	surveyID string,
	questions []database.Question,
	answers []database.AnswerRow,
	optionsByQuestion map[string][]database.QuestionOption,
	leads []database.Lead,
) string {

	leadByKey := leadsByCompositeKey(leads)

	header := []string{"userId"}
	for _, question := range questions {
		header = append(header, question.Text)
	}
	header = append(header, "contact_email", "contact_telegram", "choice_preorder", "choice_partner")

	lines := []string{renderLine(header)}

	userOrder, answersByUser := groupAnswersByUser(answers)

	for _, userID := range userOrder {
		cells := renderUserAnswers(answersByUser[userID], optionsByQuestion)

		lookupUser := userID
		if lookupUser == anonymousUser {
			lookupUser = ""
		}
		lead, ok := leadByKey[leadKey(surveyID, lookupUser)]
		email, telegram, preorder, partner := leadContactFields(lead, ok)

		row := []string{csvField(userID)}
		for _, question := range questions {
			row = append(row, csvField(cells[question.ID]))
		}
		row = append(row, csvField(email), csvField(telegram), preorder, partner)

		lines = append(lines, csvLine(row))
	}

	return csvDocument(lines)
}

// AllFlatCSV is the global variant: every survey, a surveyTitle column to
// disambiguate questions with identical text, and lead lookup keyed by
// userId alone.
func AllFlatCSV(
	answers []database.AnswerRow,
	optionsByQuestion map[string][]database.QuestionOption,
	leads []database.Lead,
) string {

	leadByUser := leadsByUser(leads)

	header := []string{
		"createdAt", "surveyTitle", "userId", "question", "type",
		"value", "label", "lead_email", "lead_telegram",
	}
	lines := []string{csvLine(header)}

	for _, answer := range answers {
		label, _ := optionLabel(optionsByQuestion[answer.QuestionID], answer.Value)

		var email, telegram string
		if lead, ok := leadByUser[textOrEmpty(answer.UserID)]; ok {
			email = textOrEmpty(lead.Email)
			telegram = textOrEmpty(lead.Telegram)
		}

		lines = append(lines, csvLine([]string{
			isoTime(answer.CreatedAt),
			csvField(answer.SurveyTitle),
			csvField(textOrEmpty(answer.UserID)),
			csvField(answer.QuestionText),
			answer.QuestionType,
			csvField(answer.Value),
			csvField(label),
			csvField(email),
			csvField(telegram),
		}))
	}

	return csvDocument(lines)
}

// AllWideCSV is the global wide variant: question columns for every
// survey (headers prefixed with the survey title), lead lookup by userId
// alone, no choice columns.
func AllWideCSV(
	questions []database.QuestionRow,
	answers []database.AnswerRow,
	optionsByQuestion map[string][]database.QuestionOption,
	leads []database.Lead,
) string {

	leadByUser := leadsByUser(leads)

	header := []string{"userId"}
	for _, question := range questions {
		header = append(header, question.SurveyTitle+": "+question.Text)
	}
	header = append(header, "contact_email", "contact_telegram")

	lines := []string{renderLine(header)}

	userOrder, answersByUser := groupAnswersByUser(answers)

	for _, userID := range userOrder {
		cells := renderUserAnswers(answersByUser[userID], optionsByQuestion)

		lookupUser := userID
		if lookupUser == anonymousUser {
			lookupUser = ""
		}
		var email, telegram string
		if lead, ok := leadByUser[lookupUser]; ok {
			email = textOrEmpty(lead.Email)
			telegram = textOrEmpty(lead.Telegram)
		}

		row := []string{csvField(userID)}
		for _, question := range questions {
			row = append(row, csvField(cells[question.ID]))
		}
		row = append(row, csvField(email), csvField(telegram))

		lines = append(lines, csvLine(row))
	}

	return csvDocument(lines)
}

// groupAnswersByUser buckets answers per respondent, keeping first-seen
// user order stable for the output rows.
func groupAnswersByUser(answers []database.AnswerRow) ([]string, map[string][]database.AnswerRow) {
	var order []string
	byUser := make(map[string][]database.AnswerRow)
	for _, answer := range answers {
		userID := textOrEmpty(answer.UserID)
		if userID == "" {
			userID = anonymousUser
		}
		if _, ok := byUser[userID]; !ok {
			order = append(order, userID)
		}
		byUser[userID] = append(byUser[userID], answer)
	}
	return order, byUser
}

// renderUserAnswers reduces one respondent's answers to a question-id
// keyed cell map. Later answers overwrite earlier ones to the same
// question.
func renderUserAnswers(
	answers []database.AnswerRow,
	optionsByQuestion map[string][]database.QuestionOption,
) map[string]string {

	cells := make(map[string]string, len(answers))

	for _, answer := range answers {
		options := optionsByQuestion[answer.QuestionID]

		switch answer.QuestionType {
		case "single":
			if label, ok := optionLabel(options, answer.Value); ok {
				cells[answer.QuestionID] = label
			} else {
				cells[answer.QuestionID] = answer.Value
			}
		case "multi":
			var payload multiPayload
			if err := json.Unmarshal([]byte(answer.Value), &payload); err != nil {
				cells[answer.QuestionID] = answer.Value
				continue
			}
			parts := resolveLabels(options, payload.Selected)
			if payload.Other != "" {
				parts = append(parts, payload.Other)
			}
			cells[answer.QuestionID] = joinNonEmpty(parts, " | ")
		default:
			cells[answer.QuestionID] = answer.Value
		}
	}

	return cells
}

// resolveLabels maps selected values to their option labels, falling
// back to the raw value for unknown tokens.
func resolveLabels(options []database.QuestionOption, selected []string) []string {
	labels := make([]string, 0, len(selected))
	for _, value := range selected {
		if label, ok := optionLabel(options, value); ok {
			labels = append(labels, label)
		} else {
			labels = append(labels, value)
		}
	}
	return labels
}

func joinPipe(values []string) string {
	return strings.Join(values, "|")
}

func joinNonEmpty(values []string, sep string) string {
	out := ""
	for _, v := range values {
		if v == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += v
	}
	return out
}

// renderLine quotes every field, used for wide headers that carry
// free-form question text.
func renderLine(fields []string) string {
	rendered := make([]string, len(fields))
	for i, field := range fields {
		rendered[i] = csvField(field)
	}
	return csvLine(rendered)
}
