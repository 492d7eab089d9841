package surveys

import (
	"encoding/json"
	"os"

	"github.com/mrFedocc/survey-app/database"
)

// DefaultTerminalValue ends the survey without recording an answer when a
// single-choice question carries an option with this value and the
// respondent picks it.
const DefaultTerminalValue = "pets_none"

// TerminalValue returns the configured sentinel token.
func TerminalValue() string {
	if v := os.Getenv("TERMINAL_ANSWER_VALUE"); v != "" {
		return v
	}
	return DefaultTerminalValue
}

// RouteDecision is the outcome of routing one submitted answer.
type RouteDecision struct {
	// Persist is false only for the sentinel short-circuit.
	Persist        bool
	NextQuestionID *string
}

type multiPayload struct {
	Selected []string `json:"selected"`
	Other    string   `json:"other"`
}

// decodeMultiValue parses a multi-choice submission. A malformed payload
// is not an error: routing degrades to the order fallback and the raw
// value is persisted as-is.
func decodeMultiValue(value string) (multiPayload, bool) {
	var payload multiPayload
	if err := json.Unmarshal([]byte(value), &payload); err != nil {
		return multiPayload{}, false
	}
	return payload, true
}

// Route decides what happens to one submitted answer. It is a pure
// function of the question, its options and rules, the ordered question
// list of the owning survey, the submitted value and the sentinel token.
//
// A matched single-choice option with a null next question is terminal:
// it must not fall through to the order fallback. Only "no matching
// option at all" (or a multi answer with no routed match) does.
func Route(
	question database.Question,
	options []database.QuestionOption,
	rules []database.RoutingRule,
	sequence []database.Question,
	value string,
	sentinel string,
) RouteDecision {

	if question.Type == "single" && hasOptionValue(options, sentinel) && value == sentinel {
		return RouteDecision{Persist: false, NextQuestionID: nil}
	}

	decision := RouteDecision{Persist: true}

	var payload multiPayload

	switch question.Type {
	case "single":
		for _, option := range options {
			if option.Value == value {
				if option.NextQuestionID.Valid {
					next := option.NextQuestionID.String
					decision.NextQuestionID = &next
				}
				// matched: explicit route or explicit end, never fallback
				return decision
			}
		}
	case "multi":
		parsed, ok := decodeMultiValue(value)
		if ok {
			payload = parsed
			for _, option := range options {
				if option.NextQuestionID.Valid && containsValue(parsed.Selected, option.Value) {
					next := option.NextQuestionID.String
					decision.NextQuestionID = &next
					return decision
				}
			}
		}
	}

	if next := evaluateRules(rules, value, payload.Selected, payload.Other); next != nil {
		decision.NextQuestionID = next
		return decision
	}

	decision.NextQuestionID = nextInSequence(sequence, question.ID)
	return decision
}

// nextInSequence returns the id of the question following current in
// ascending order, or nil when current is last (or unknown).
func nextInSequence(sequence []database.Question, currentID string) *string {
	for i, question := range sequence {
		if question.ID == currentID {
			if i+1 < len(sequence) {
				next := sequence[i+1].ID
				return &next
			}
			return nil
		}
	}
	return nil
}

func hasOptionValue(options []database.QuestionOption, value string) bool {
	for _, option := range options {
		if option.Value == value {
			return true
		}
	}
	return false
}

func containsValue(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
