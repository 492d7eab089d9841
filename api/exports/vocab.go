package exports

import (
	"encoding/json"
	"fmt"
	"os"
)

// Vocabulary is the category token data the stats report buckets
// single-choice answers with. It is data, not code: changing a bracket
// means editing the override file, not the aggregator.
type Vocabulary struct {
	// Pets maps answer tokens to their bucket name (pets_dog -> dog).
	Pets map[string]string `json:"pets"`
	// Spend and Age are exact-match token lists counted under their own
	// token.
	Spend []string `json:"spend"`
	Age   []string `json:"age"`
	// Care tokens are counted under their own token.
	Care []string `json:"care"`
}

func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Pets: map[string]string{
			"pets_dog":  "dog",
			"pets_cat":  "cat",
			"pets_both": "both",
			"pets_none": "none",
		},
		Spend: []string{"<2000", "2000-5000", "5000-10000", ">10000"},
		Age:   []string{"<18", "18-30", "30-50", "50<"},
		Care:  []string{"yes", "no"},
	}
}

// LoadVocabulary returns the defaults, or the JSON file named by
// STATS_VOCAB_FILE when set.
func LoadVocabulary() (Vocabulary, error) {
	path := os.Getenv("STATS_VOCAB_FILE")
	if path == "" {
		return DefaultVocabulary(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("error reading vocabulary file: %w", err)
	}

	var vocab Vocabulary
	if err := json.Unmarshal(raw, &vocab); err != nil {
		return Vocabulary{}, fmt.Errorf("error parsing vocabulary file: %w", err)
	}

	return vocab, nil
}

func containsToken(tokens []string, value string) bool {
	for _, token := range tokens {
		if token == value {
			return true
		}
	}
	return false
}
