package surveys

import (
	"errors"
	"log"

	"github.com/expr-lang/expr"
	"github.com/mrFedocc/survey-app/database"
)

// evaluateRules runs a question's expression rules in declaration order
// against the submitted answer and returns the first matching rule's next
// question id. Rules fire only when option-based routing produced no
// explicit route. A broken rule is skipped, never surfaced.
func evaluateRules(rules []database.RoutingRule, value string, selected []string, other string) *string {
	if len(rules) == 0 {
		return nil
	}

	input := map[string]any{
		"value":    value,
		"selected": selected,
		"other":    other,
	}

	for _, rule := range rules {
		match, err := evaluateExpression(rule.Expression, input)
		if err != nil {
			log.Printf("skipping routing rule %s: %v", rule.ID, err)
			continue
		}

		if match {
			next := rule.NextQuestionID
			return &next
		}
	}

	return nil
}

func evaluateExpression(expression string, input map[string]any) (bool, error) {
	program, err := expr.Compile(expression, expr.Env(input))
	if err != nil {
		return false, err
	}

	output, err := expr.Run(program, input)
	if err != nil {
		return false, err
	}

	result, ok := output.(bool)

	if !ok {
		return false, errors.New("expression did not return a boolean")
	}

	return result, nil
}
