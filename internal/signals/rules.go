package signals

import "strings"

// #region term-tables

// milkTerms match detection labels and transcript text that indicate a
// milk-related object.
var milkTerms = []string{
	"milk", "bottle", "carton", "glass", "cup", "dairy",
}

// drinkingTerms match detection labels that indicate drinking activity.
var drinkingTerms = []string{
	"drink", "sip", "gulp", "swallow", "consume", "pour",
}

// hedgeTerms qualify an audio hit down from a full mention.
var hedgeTerms = []string{
	"possibly", "maybe", "perhaps", "unclear", "might be",
}

// #endregion term-tables

// #region rule-table

// TextRule maps a set of trigger terms to a confidence band. Rules are
// evaluated in order; the first rule with a matching term wins.
type TextRule struct {
	Name       string
	Terms      []string
	Confidence float32
}

// RuleTable is the deterministic free-text-to-confidence mapping. It is
// total: text matching no rule but containing a relevant term falls into
// the hedge band; fully irrelevant text maps to zero with no evidence.
type RuleTable struct {
	Rules         []TextRule
	RelevantTerms []string
	HedgeBand     float32
}

// DefaultRuleTable returns the stock creativity mapping: strong
// affirmations land at 0.9, hedged phrasing at 0.5, explicit dismissal
// at 0.2.
func DefaultRuleTable() RuleTable {
	return RuleTable{
		Rules: []TextRule{
			{
				Name:       "strong_affirmation",
				Confidence: 0.9,
				Terms: []string{
					"clearly", "highly creative", "very creative",
					"remarkably", "innovative", "truly unique",
					"impressive", "exceptional",
				},
			},
			{
				Name:       "dismissal",
				Confidence: 0.2,
				Terms: []string{
					"not creative", "nothing unusual", "ordinary",
					"standard milk consumption", "unremarkable",
				},
			},
			{
				Name:       "hedged",
				Confidence: 0.5,
				Terms: []string{
					"possibly", "somewhat", "perhaps", "appears to",
					"might be", "to some extent",
				},
			},
		},
		RelevantTerms: []string{
			"creative", "unique", "interesting", "unusual",
			"artistic", "original", "inventive",
		},
		HedgeBand: 0.5,
	}
}

// Score maps free text to a confidence band plus the matched term.
// Evaluation order: explicit rules first, then the relevant-term
// fallback into the hedge band. Text with no relevant vocabulary at all
// scores zero with no matched term. Score never fails.
func (t RuleTable) Score(text string) (float32, string) {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return 0, ""
	}
	for _, rule := range t.Rules {
		for _, term := range rule.Terms {
			if strings.Contains(lower, term) {
				return rule.Confidence, term
			}
		}
	}
	for _, term := range t.RelevantTerms {
		if strings.Contains(lower, term) {
			return t.HedgeBand, term
		}
	}
	return 0, ""
}

// #endregion rule-table

// #region helpers

// containsAny reports whether text contains any of the given terms,
// case-insensitively, and returns the first matching term.
func containsAny(text string, terms []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return term, true
		}
	}
	return "", false
}

// #endregion helpers
