package signals

// #region imports
import (
	"fmt"
	"math"
)

// #endregion

// #region interpreter

// Interpreter converts raw provider output into one AnalysisSignal per
// criterion. It is total: every criterion appears in every output set,
// malformed values degrade to the lowest band instead of failing.
type Interpreter struct {
	rules RuleTable
}

// NewInterpreter creates an interpreter with the given rule table.
func NewInterpreter(rules RuleTable) *Interpreter {
	return &Interpreter{rules: rules}
}

// #endregion interpreter

// #region interpret

// Interpret normalizes the provider output. The result always contains
// exactly one signal for each criterion in AllCriteria, in that order.
func (p *Interpreter) Interpret(input Input) []AnalysisSignal {
	return []AnalysisSignal{
		p.detectionSignal(CriterionMilkObject, input.Detections, milkTerms, "no milk-related detection returned by provider"),
		p.detectionSignal(CriterionDrinking, input.Detections, drinkingTerms, "no drinking-related detection returned by provider"),
		p.creativitySignal(input),
		p.audioSignal(input.AudioFindings),
	}
}

// #endregion interpret

// #region detections

// detectionSignal takes the best-scoring detection whose label matches
// one of the terms. Scores outside [0,1] are clamped, never discarded;
// the clamp is noted in the evidence.
func (p *Interpreter) detectionSignal(kind CriterionKind, detections []Detection, terms []string, absence string) AnalysisSignal {
	if len(detections) == 0 {
		return AnalysisSignal{Criterion: kind, Evidence: absence}
	}

	best := float32(-1)
	evidence := ""
	for _, d := range detections {
		if _, ok := containsAny(d.Label, terms); !ok {
			continue
		}
		score, note := clampScore(d.Score)
		if score > best {
			best = score
			evidence = fmt.Sprintf("detection %q score %.2f", d.Label, d.Score)
			if note != "" {
				evidence += " (" + note + ")"
			}
		}
	}

	if best < 0 {
		return AnalysisSignal{Criterion: kind, Evidence: absence}
	}
	return AnalysisSignal{Criterion: kind, Confidence: best, Evidence: evidence}
}

// #endregion detections

// #region creativity

// creativitySignal scores the generated assessment via the rule table.
// Falls back to the summary when no assessment was generated.
func (p *Interpreter) creativitySignal(input Input) AnalysisSignal {
	text := input.Assessment
	if text == "" {
		text = input.SummaryText
	}
	if text == "" {
		return AnalysisSignal{
			Criterion: CriterionCreativity,
			Evidence:  "no assessment or summary returned by provider",
		}
	}

	confidence, term := p.rules.Score(text)
	evidence := ""
	if term != "" {
		evidence = fmt.Sprintf("assessment matched %q", term)
	}
	return AnalysisSignal{
		Criterion:  CriterionCreativity,
		Confidence: confidence,
		Evidence:   evidence,
	}
}

// #endregion creativity

// #region audio

// audioSignal maps transcript hits to {0, 1}: a milk mention scores
// full confidence, hedged phrasing drops to the half band, everything
// else scores zero. No partial credit without qualifying language.
func (p *Interpreter) audioSignal(findings []AudioFinding) AnalysisSignal {
	if len(findings) == 0 {
		return AnalysisSignal{
			Criterion: CriterionAudioMilk,
			Evidence:  "no audio findings returned by provider",
		}
	}

	best := AnalysisSignal{Criterion: CriterionAudioMilk}
	for _, f := range findings {
		term, ok := containsAny(f.Text, milkTerms)
		if !ok {
			continue
		}
		confidence := float32(1)
		if hedge, hedged := containsAny(f.Text, hedgeTerms); hedged {
			confidence = 0.5
			term = term + ", hedged by " + hedge
		}
		if confidence > best.Confidence {
			best.Confidence = confidence
			best.Evidence = fmt.Sprintf("audio mention %q", term)
		}
	}
	if best.Evidence == "" {
		best.Evidence = "no milk mention in audio findings"
	}
	return best
}

// #endregion audio

// #region clamp

// clampScore forces a raw score into [0,1]. NaN collapses to zero (the
// lowest band) so a malformed score never propagates.
func clampScore(score float32) (float32, string) {
	if math.IsNaN(float64(score)) {
		return 0, "malformed score, defaulted to 0"
	}
	if score < 0 {
		return 0, fmt.Sprintf("score %.2f below range, clamped to 0", score)
	}
	if score > 1 {
		return 1, fmt.Sprintf("score %.2f above range, clamped to 1", score)
	}
	return score, ""
}

// #endregion clamp
