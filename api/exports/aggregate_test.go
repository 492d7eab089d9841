package exports

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/mrFedocc/survey-app/database"
)

// ============================================================================
// Fixtures
// ============================================================================

func tstamp(t *testing.T, value string) pgtype.Timestamptz {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad fixture timestamp %q: %v", value, err)
	}
	return pgtype.Timestamptz{Time: parsed, Valid: true}
}

func answerRow(t *testing.T, userID, questionID, questionType, questionText, value, surveyID, surveyTitle, createdAt string) database.AnswerRow {
	t.Helper()
	return database.AnswerRow{
		ID:           questionID + "-" + userID,
		UserID:       pgtype.Text{String: userID, Valid: userID != ""},
		QuestionID:   questionID,
		Value:        value,
		CreatedAt:    tstamp(t, createdAt),
		QuestionText: questionText,
		QuestionType: questionType,
		SurveyID:     surveyID,
		SurveyTitle:  surveyTitle,
	}
}

func leadFixture(surveyID, userID, choices, email, telegram string) database.Lead {
	return database.Lead{
		ID:       "lead-" + surveyID + "-" + userID,
		SurveyID: pgtype.Text{String: surveyID, Valid: surveyID != ""},
		UserID:   userID,
		Choices:  choices,
		Email:    pgtype.Text{String: email, Valid: email != ""},
		Telegram: pgtype.Text{String: telegram, Valid: telegram != ""},
	}
}

func petOptions() map[string][]database.QuestionOption {
	return map[string][]database.QuestionOption{
		"q1": {
			{ID: "o1", QuestionID: "q1", Label: "Dog", Value: "pets_dog"},
			{ID: "o2", QuestionID: "q1", Label: "Cat", Value: "pets_cat"},
		},
		"q3": {
			{ID: "o3", QuestionID: "q3", Label: "Got lost", Value: "lost"},
			{ID: "o4", QuestionID: "q3", Label: "Fear of the dark", Value: "dark"},
		},
	}
}

func parseCSV(t *testing.T, doc string) [][]string {
	t.Helper()
	reader := csv.NewReader(strings.NewReader(doc))
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	return records
}

// ============================================================================
// FlatCSV
// ============================================================================

func TestFlatCSV(t *testing.T) {
	t.Run("renders one row per answer with decoded labels", func(t *testing.T) {
		answers := []database.AnswerRow{
			answerRow(t, "u1", "q3", "multi", "Problems?", `{"selected":["lost","unknown"],"other":"eats shoes"}`, "s1", "Pet Survey", "2024-05-02T10:00:00Z"),
			answerRow(t, "u1", "q1", "single", "Do you have pets?", "pets_dog", "s1", "Pet Survey", "2024-05-01T10:00:00Z"),
		}
		leads := []database.Lead{
			leadFixture("s1", "u1", `{"preorder":true,"partner":false}`, "jane@example.com", "@jane"),
		}

		records := parseCSV(t, FlatCSV("s1", answers, petOptions(), leads))

		if len(records) != 3 {
			t.Fatalf("expected header + 2 rows, got %d records", len(records))
		}

		header := records[0]
		if len(header) != 13 {
			t.Fatalf("expected 13 columns, got %d", len(header))
		}
		if header[0] != "createdAt" || header[12] != "lead_partner" {
			t.Errorf("unexpected header: %v", header)
		}

		multiRow := records[1]
		if multiRow[0] != "2024-05-02T10:00:00.000Z" {
			t.Errorf("createdAt = %q", multiRow[0])
		}
		if multiRow[6] != "lost|unknown" {
			t.Errorf("multi_selected = %q, want lost|unknown", multiRow[6])
		}
		if multiRow[7] != "Got lost|unknown" {
			t.Errorf("multi_labels = %q, want raw fallback for unknown tokens", multiRow[7])
		}
		if multiRow[8] != "eats shoes" {
			t.Errorf("multi_other = %q", multiRow[8])
		}

		singleRow := records[2]
		if singleRow[4] != "pets_dog" || singleRow[5] != "Dog" {
			t.Errorf("single value/label = %q/%q, want pets_dog/Dog", singleRow[4], singleRow[5])
		}
		if singleRow[9] != "jane@example.com" || singleRow[10] != "@jane" {
			t.Errorf("lead contact = %q/%q", singleRow[9], singleRow[10])
		}
		if singleRow[11] != "1" || singleRow[12] != "0" {
			t.Errorf("lead choices = %q/%q, want 1/0", singleRow[11], singleRow[12])
		}
	})

	t.Run("leaves the label empty for an unmatched single value", func(t *testing.T) {
		answers := []database.AnswerRow{
			answerRow(t, "u1", "q1", "single", "Do you have pets?", "something else", "s1", "Pet Survey", "2024-05-01T10:00:00Z"),
		}

		records := parseCSV(t, FlatCSV("s1", answers, petOptions(), nil))

		if records[1][5] != "" {
			t.Errorf("answer_label = %q, want empty", records[1][5])
		}
	})
}

func TestFlatCSV_LeadKeyedBySurveyAndUser(t *testing.T) {
	answers := []database.AnswerRow{
		answerRow(t, "u1", "q1", "single", "Do you have pets?", "pets_dog", "s1", "Pet Survey", "2024-05-01T10:00:00Z"),
	}
	// the only lead for u1 belongs to another survey
	leads := []database.Lead{
		leadFixture("s2", "u1", `{}`, "other@example.com", ""),
	}

	records := parseCSV(t, FlatCSV("s1", answers, petOptions(), leads))

	if records[1][9] != "" {
		t.Errorf("lead_email = %q, want empty for a lead from another survey", records[1][9])
	}
}

func TestFlatCSV_MostRecentLeadWins(t *testing.T) {
	answers := []database.AnswerRow{
		answerRow(t, "u1", "q1", "single", "Do you have pets?", "pets_dog", "s1", "Pet Survey", "2024-05-01T10:00:00Z"),
	}
	// leads arrive newest first
	leads := []database.Lead{
		leadFixture("s1", "u1", `{}`, "new@example.com", ""),
		leadFixture("s1", "u1", `{}`, "old@example.com", ""),
	}

	records := parseCSV(t, FlatCSV("s1", answers, petOptions(), leads))

	if records[1][9] != "new@example.com" {
		t.Errorf("lead_email = %q, want the most recent lead", records[1][9])
	}
}

// ============================================================================
// WideCSV
// ============================================================================

func wideQuestions() []database.Question {
	return []database.Question{
		{ID: "q1", SurveyID: "s1", Order: 1, Type: "single", Text: "Do you have pets?"},
		{ID: "q2", SurveyID: "s1", Order: 2, Type: "text", Text: "Tell us more"},
		{ID: "q3", SurveyID: "s1", Order: 3, Type: "multi", Text: "Problems?"},
	}
}

func TestWideCSV(t *testing.T) {
	t.Run("renders one row per respondent in survey order", func(t *testing.T) {
		answers := []database.AnswerRow{
			answerRow(t, "u1", "q1", "single", "Do you have pets?", "pets_dog", "s1", "Pet Survey", "2024-05-01T10:00:00Z"),
			answerRow(t, "u1", "q3", "multi", "Problems?", `{"selected":["lost","dark"],"other":"eats shoes"}`, "s1", "Pet Survey", "2024-05-01T10:01:00Z"),
			answerRow(t, "u2", "q2", "text", "Tell us more", "two cats", "s1", "Pet Survey", "2024-05-01T10:02:00Z"),
		}
		leads := []database.Lead{
			leadFixture("s1", "u1", `{"preorder":true,"partner":true}`, "jane@example.com", "@jane"),
		}

		records := parseCSV(t, WideCSV("s1", wideQuestions(), answers, petOptions(), leads))

		if len(records) != 3 {
			t.Fatalf("expected header + 2 respondents, got %d records", len(records))
		}

		header := records[0]
		want := []string{"userId", "Do you have pets?", "Tell us more", "Problems?", "contact_email", "contact_telegram", "choice_preorder", "choice_partner"}
		if len(header) != len(want) {
			t.Fatalf("expected %d columns, got %d", len(want), len(header))
		}
		for i := range want {
			if header[i] != want[i] {
				t.Errorf("header[%d] = %q, want %q", i, header[i], want[i])
			}
		}

		u1 := records[1]
		if u1[0] != "u1" || u1[1] != "Dog" {
			t.Errorf("u1 row = %v", u1)
		}
		if u1[3] != "Got lost | Fear of the dark | eats shoes" {
			t.Errorf("multi cell = %q", u1[3])
		}
		if u1[4] != "jane@example.com" || u1[6] != "1" || u1[7] != "1" {
			t.Errorf("u1 contact cells = %v", u1[4:])
		}

		u2 := records[2]
		if u2[0] != "u2" || u2[2] != "two cats" {
			t.Errorf("u2 row = %v", u2)
		}
		if u2[1] != "" || u2[4] != "" {
			t.Errorf("u2 unanswered/contact cells should be empty: %v", u2)
		}
	})

	t.Run("keeps the latest answer for a repeated question", func(t *testing.T) {
		// answers arrive ascending by creation time
		answers := []database.AnswerRow{
			answerRow(t, "u1", "q1", "single", "Do you have pets?", "pets_dog", "s1", "Pet Survey", "2024-05-01T10:00:00Z"),
			answerRow(t, "u1", "q1", "single", "Do you have pets?", "pets_cat", "s1", "Pet Survey", "2024-05-01T10:05:00Z"),
		}

		records := parseCSV(t, WideCSV("s1", wideQuestions(), answers, petOptions(), nil))

		if records[1][1] != "Cat" {
			t.Errorf("cell = %q, want the later answer", records[1][1])
		}
	})

	t.Run("labels anonymous respondents", func(t *testing.T) {
		answers := []database.AnswerRow{
			answerRow(t, "", "q1", "single", "Do you have pets?", "pets_dog", "s1", "Pet Survey", "2024-05-01T10:00:00Z"),
		}
		leads := []database.Lead{
			leadFixture("s1", "", `{}`, "anon@example.com", ""),
		}

		records := parseCSV(t, WideCSV("s1", wideQuestions(), answers, petOptions(), leads))

		if records[1][0] != "(anonymous)" {
			t.Errorf("userId cell = %q, want (anonymous)", records[1][0])
		}
		if records[1][4] != "anon@example.com" {
			t.Errorf("anonymous lead lookup failed: %v", records[1])
		}
	})

	t.Run("keeps the raw value when the multi payload is malformed", func(t *testing.T) {
		answers := []database.AnswerRow{
			answerRow(t, "u1", "q3", "multi", "Problems?", "{broken", "s1", "Pet Survey", "2024-05-01T10:00:00Z"),
		}

		records := parseCSV(t, WideCSV("s1", wideQuestions(), answers, petOptions(), nil))

		if records[1][3] != "{broken" {
			t.Errorf("cell = %q, want the raw payload", records[1][3])
		}
	})
}

// ============================================================================
// Global variants
// ============================================================================

func TestAllFlatCSV_LeadKeyedByUserOnly(t *testing.T) {
	answers := []database.AnswerRow{
		answerRow(t, "u1", "q1", "single", "Do you have pets?", "pets_dog", "s1", "Pet Survey", "2024-05-01T10:00:00Z"),
	}
	// the lead belongs to another survey but still matches by user
	leads := []database.Lead{
		leadFixture("s2", "u1", `{}`, "other@example.com", "@other"),
	}

	records := parseCSV(t, AllFlatCSV(answers, petOptions(), leads))

	header := records[0]
	if len(header) != 9 {
		t.Fatalf("expected 9 columns, got %d", len(header))
	}
	if header[1] != "surveyTitle" {
		t.Errorf("header[1] = %q, want surveyTitle", header[1])
	}

	row := records[1]
	if row[1] != "Pet Survey" {
		t.Errorf("surveyTitle = %q", row[1])
	}
	if row[7] != "other@example.com" || row[8] != "@other" {
		t.Errorf("lead contact = %q/%q, want the cross-survey lead", row[7], row[8])
	}
}

func TestAllWideCSV(t *testing.T) {
	questions := []database.QuestionRow{
		{ID: "q1", SurveyID: "s1", Order: 1, Type: "single", Text: "Do you have pets?", SurveyTitle: "Pet Survey"},
		{ID: "q10", SurveyID: "s2", Order: 1, Type: "text", Text: "Feedback", SurveyTitle: "Exit Survey"},
	}
	answers := []database.AnswerRow{
		answerRow(t, "u1", "q1", "single", "Do you have pets?", "pets_dog", "s1", "Pet Survey", "2024-05-01T10:00:00Z"),
		answerRow(t, "u1", "q10", "text", "Feedback", "all good", "s2", "Exit Survey", "2024-05-02T10:00:00Z"),
	}
	leads := []database.Lead{
		leadFixture("s1", "u1", `{}`, "jane@example.com", ""),
	}

	records := parseCSV(t, AllWideCSV(questions, answers, petOptions(), leads))

	header := records[0]
	want := []string{"userId", "Pet Survey: Do you have pets?", "Exit Survey: Feedback", "contact_email", "contact_telegram"}
	if len(header) != len(want) {
		t.Fatalf("expected %d columns, got %d", len(want), len(header))
	}
	for i := range want {
		if header[i] != want[i] {
			t.Errorf("header[%d] = %q, want %q", i, header[i], want[i])
		}
	}

	row := records[1]
	if row[1] != "Dog" || row[2] != "all good" {
		t.Errorf("answer cells = %v", row)
	}
	if row[3] != "jane@example.com" {
		t.Errorf("contact_email = %q", row[3])
	}
}
