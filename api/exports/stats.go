package exports

import (
	"encoding/json"
	"strconv"

	"github.com/mrFedocc/survey-app/database"
	"github.com/shopspring/decimal"
)

type NPSSummary struct {
	NPSTally
	Score decimal.Decimal `json:"score"`
}

type Stats struct {
	Scope    string         `json:"scope"`
	SurveyID *string        `json:"surveyId"`
	Pets     map[string]int `json:"pets"`
	Spend    map[string]int `json:"spend"`
	Age      map[string]int `json:"age"`
	Care     map[string]int `json:"care"`
	Problems map[string]int `json:"problems"`
	NPS      *NPSSummary    `json:"nps,omitempty"`
	Leads    int64          `json:"leads"`
}

// BuildStats tallies answers against the vocabulary. Single-choice
// values outside the known token sets are ignored; multi-choice answers
// feed the problems frequency map; nps-type answers feed the NPS tally.
func BuildStats(answers []database.AnswerRow, vocab Vocabulary, leadCount int64, surveyID *string) Stats {
	stats := Stats{
		SurveyID: surveyID,
		Pets:     map[string]int{},
		Spend:    map[string]int{},
		Age:      map[string]int{},
		Care:     map[string]int{},
		Problems: map[string]int{},
		Leads:    leadCount,
	}

	if surveyID != nil {
		stats.Scope = "by-survey"
	} else {
		stats.Scope = "all-surveys"
	}

	// every known bucket is present in the report, even at zero
	for _, bucket := range vocab.Pets {
		stats.Pets[bucket] = 0
	}
	for _, token := range vocab.Spend {
		stats.Spend[token] = 0
	}
	for _, token := range vocab.Age {
		stats.Age[token] = 0
	}
	for _, token := range vocab.Care {
		stats.Care[token] = 0
	}

	var nps NPSTally

	for _, answer := range answers {
		switch answer.QuestionType {
		case "single":
			switch {
			case vocab.Pets[answer.Value] != "":
				stats.Pets[vocab.Pets[answer.Value]]++
			case containsToken(vocab.Spend, answer.Value):
				stats.Spend[answer.Value]++
			case containsToken(vocab.Age, answer.Value):
				stats.Age[answer.Value]++
			case containsToken(vocab.Care, answer.Value):
				stats.Care[answer.Value]++
			}
		case "multi":
			var payload multiPayload
			if err := json.Unmarshal([]byte(answer.Value), &payload); err != nil {
				continue
			}
			for _, value := range payload.Selected {
				stats.Problems[value]++
			}
		case "nps":
			rating, err := strconv.Atoi(answer.Value)
			if err != nil || rating < 0 || rating > 10 {
				continue
			}
			nps.Add(rating)
		}
	}

	if nps.Total > 0 {
		stats.NPS = &NPSSummary{NPSTally: nps, Score: nps.Score()}
	}

	return stats
}
