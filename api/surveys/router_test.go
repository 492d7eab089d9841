package surveys

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/mrFedocc/survey-app/database"
)

func question(id, surveyID string, order int32, qtype string) database.Question {
	return database.Question{ID: id, SurveyID: surveyID, Order: order, Type: qtype, Text: id}
}

func option(questionID, value, next string, position int32) database.QuestionOption {
	nextID := pgtype.Text{}
	if next != "" {
		nextID = pgtype.Text{String: next, Valid: true}
	}
	return database.QuestionOption{
		ID:             questionID + "-" + value,
		QuestionID:     questionID,
		Label:          value,
		Value:          value,
		NextQuestionID: nextID,
		Position:       position,
	}
}

func assertNext(t *testing.T, decision RouteDecision, want string) {
	t.Helper()
	if want == "" {
		if decision.NextQuestionID != nil {
			t.Errorf("nextQuestionId = %q, want nil", *decision.NextQuestionID)
		}
		return
	}
	if decision.NextQuestionID == nil {
		t.Fatalf("nextQuestionId = nil, want %q", want)
	}
	if *decision.NextQuestionID != want {
		t.Errorf("nextQuestionId = %q, want %q", *decision.NextQuestionID, want)
	}
}

func TestTerminalValue(t *testing.T) {
	t.Setenv("TERMINAL_ANSWER_VALUE", "")
	if got := TerminalValue(); got != DefaultTerminalValue {
		t.Errorf("TerminalValue() = %q, want %q", got, DefaultTerminalValue)
	}

	t.Setenv("TERMINAL_ANSWER_VALUE", "opt_out")
	if got := TerminalValue(); got != "opt_out" {
		t.Errorf("TerminalValue() = %q, want opt_out", got)
	}
}

func TestRoute_SentinelTerminatesWithoutPersisting(t *testing.T) {
	q1 := question("q1", "s1", 1, "single")
	options := []database.QuestionOption{
		option("q1", "pets_dog", "q2", 0),
		option("q1", "pets_none", "", 1),
	}
	sequence := []database.Question{q1, question("q2", "s1", 2, "single")}

	decision := Route(q1, options, nil, sequence, "pets_none", "pets_none")

	if decision.Persist {
		t.Error("sentinel answer must not be persisted")
	}
	assertNext(t, decision, "")
}

func TestRoute_SentinelRequiresMatchingOption(t *testing.T) {
	// the sentinel token submitted to a question that does not carry it
	// as an option is just an unmatched value
	q1 := question("q1", "s1", 1, "single")
	options := []database.QuestionOption{option("q1", "yes", "q3", 0)}
	sequence := []database.Question{q1, question("q2", "s1", 2, "text")}

	decision := Route(q1, options, nil, sequence, "pets_none", "pets_none")

	if !decision.Persist {
		t.Error("answer should be persisted when the option set lacks the sentinel")
	}
	assertNext(t, decision, "q2")
}

func TestRoute_SentinelIgnoredForMultiQuestions(t *testing.T) {
	q1 := question("q1", "s1", 1, "multi")
	options := []database.QuestionOption{option("q1", "pets_none", "", 0)}
	sequence := []database.Question{q1, question("q2", "s1", 2, "text")}

	decision := Route(q1, options, nil, sequence, "pets_none", "pets_none")

	if !decision.Persist {
		t.Error("sentinel only applies to single-choice questions")
	}
}

func TestRoute_SingleMatchedOptionRoutesExplicitly(t *testing.T) {
	q1 := question("q1", "s1", 1, "single")
	options := []database.QuestionOption{
		option("q1", "a", "q3", 0),
		option("q1", "b", "q2", 1),
	}
	sequence := []database.Question{
		q1,
		question("q2", "s1", 2, "single"),
		question("q3", "s1", 3, "single"),
	}

	decision := Route(q1, options, nil, sequence, "a", "pets_none")

	if !decision.Persist {
		t.Error("matched answer should be persisted")
	}
	assertNext(t, decision, "q3")
}

func TestRoute_SingleMatchedOptionWithNullNextIsTerminal(t *testing.T) {
	// an explicit match on an option without a next question means "end
	// survey here", not "use the order fallback"
	q1 := question("q1", "s1", 1, "single")
	options := []database.QuestionOption{option("q1", "done", "", 0)}
	sequence := []database.Question{q1, question("q2", "s1", 2, "single")}

	decision := Route(q1, options, nil, sequence, "done", "pets_none")

	if !decision.Persist {
		t.Error("matched answer should be persisted")
	}
	assertNext(t, decision, "")
}

func TestRoute_UnmatchedSingleFallsBackToOrder(t *testing.T) {
	q1 := question("q1", "s1", 1, "single")
	options := []database.QuestionOption{option("q1", "a", "q3", 0)}
	sequence := []database.Question{
		q1,
		question("q2", "s1", 2, "single"),
		question("q3", "s1", 3, "single"),
	}

	decision := Route(q1, options, nil, sequence, "zzz", "pets_none")

	assertNext(t, decision, "q2")
}

func TestRoute_TextTypeUsesOrderFallback(t *testing.T) {
	q2 := question("q2", "s1", 2, "text")
	sequence := []database.Question{
		question("q1", "s1", 1, "single"),
		q2,
		question("q3", "s1", 3, "multi"),
	}

	decision := Route(q2, nil, nil, sequence, "free text", "pets_none")

	assertNext(t, decision, "q3")
}

func TestRoute_LastQuestionReturnsNil(t *testing.T) {
	q3 := question("q3", "s1", 3, "text")
	sequence := []database.Question{
		question("q1", "s1", 1, "single"),
		q3,
	}

	decision := Route(q3, nil, nil, sequence, "anything", "pets_none")

	assertNext(t, decision, "")
}

func TestRoute_MultiPicksFirstRoutedSelection(t *testing.T) {
	q1 := question("q1", "s1", 1, "multi")
	options := []database.QuestionOption{
		option("q1", "lost", "", 0),
		option("q1", "fear", "q5", 1),
		option("q1", "dark", "q9", 2),
	}
	sequence := []database.Question{q1}

	decision := Route(q1, options, nil, sequence, `{"selected":["dark","fear"]}`, "pets_none")

	// option declaration order wins over selection order
	assertNext(t, decision, "q5")
}

func TestRoute_MultiWithoutRoutedMatchFallsBack(t *testing.T) {
	q1 := question("q1", "s1", 1, "multi")
	options := []database.QuestionOption{option("q1", "lost", "", 0)}
	sequence := []database.Question{q1, question("q2", "s1", 2, "text")}

	decision := Route(q1, options, nil, sequence, `{"selected":["lost"]}`, "pets_none")

	assertNext(t, decision, "q2")
}

func TestRoute_MalformedMultiPayloadDegradesToFallback(t *testing.T) {
	q1 := question("q1", "s1", 1, "multi")
	options := []database.QuestionOption{option("q1", "lost", "q9", 0)}
	sequence := []database.Question{q1, question("q2", "s1", 2, "text")}

	decision := Route(q1, options, nil, sequence, "{not json", "pets_none")

	if !decision.Persist {
		t.Error("malformed payloads are still persisted raw")
	}
	assertNext(t, decision, "q2")
}

func TestRoute_RuleFiresWhenNoOptionMatches(t *testing.T) {
	q1 := question("q1", "s1", 1, "single")
	options := []database.QuestionOption{option("q1", "a", "q2", 0)}
	rules := []database.RoutingRule{
		{ID: "r1", QuestionID: "q1", Expression: `value == "special"`, NextQuestionID: "q4", Position: 0},
	}
	sequence := []database.Question{
		q1,
		question("q2", "s1", 2, "single"),
		question("q4", "s1", 4, "text"),
	}

	decision := Route(q1, options, rules, sequence, "special", "pets_none")

	assertNext(t, decision, "q4")
}

func TestRoute_RuleNotConsultedOnExplicitMatch(t *testing.T) {
	q1 := question("q1", "s1", 1, "single")
	options := []database.QuestionOption{option("q1", "done", "", 0)}
	rules := []database.RoutingRule{
		{ID: "r1", QuestionID: "q1", Expression: `value == "done"`, NextQuestionID: "q4", Position: 0},
	}
	sequence := []database.Question{q1, question("q4", "s1", 4, "text")}

	decision := Route(q1, options, rules, sequence, "done", "pets_none")

	// matched option with null next is terminal, rules must not override
	assertNext(t, decision, "")
}

func TestRoute_BrokenRuleIsSkipped(t *testing.T) {
	q1 := question("q1", "s1", 1, "text")
	rules := []database.RoutingRule{
		{ID: "r1", QuestionID: "q1", Expression: `value ==`, NextQuestionID: "q4", Position: 0},
		{ID: "r2", QuestionID: "q1", Expression: `value == "x"`, NextQuestionID: "q5", Position: 1},
	}
	sequence := []database.Question{q1, question("q5", "s1", 5, "text")}

	decision := Route(q1, nil, rules, sequence, "x", "pets_none")

	assertNext(t, decision, "q5")
}

func TestRoute_RuleSeesMultiSelections(t *testing.T) {
	q1 := question("q1", "s1", 1, "multi")
	options := []database.QuestionOption{option("q1", "lost", "", 0)}
	rules := []database.RoutingRule{
		{ID: "r1", QuestionID: "q1", Expression: `"lost" in selected`, NextQuestionID: "q7", Position: 0},
	}
	sequence := []database.Question{q1, question("q2", "s1", 2, "text")}

	decision := Route(q1, options, rules, sequence, `{"selected":["lost"]}`, "pets_none")

	assertNext(t, decision, "q7")
}
