package validate

import "github.com/dairylabs/milkmob/internal/signals"

// #region message

// Message renders the user-facing explanation for a verdict. The
// creativity encouragement compares against the policy threshold;
// creativity is advisory and never appears in FailedCriteria.
func (v *Validator) Message(verdict Verdict) string {
	if verdict.Passed {
		creativity := v.policy.Criteria[signals.CriterionCreativity]
		if verdict.PerCriterion[signals.CriterionCreativity] >= creativity.Threshold {
			return "Great job! Your video shows someone creatively drinking milk. You're ready to join a Milk Mob."
		}
		return "Good job! Your video shows milk drinking. To make it even better, try adding more creative elements."
	}
	if verdict.Failed(signals.CriterionMilkObject) {
		return "We couldn't detect milk in your video. Make sure milk is clearly visible."
	}
	if verdict.Failed(signals.CriterionDrinking) {
		return "We couldn't detect drinking activity. Make sure someone is drinking milk in the video."
	}
	return "Your video doesn't meet all the campaign criteria. Please try again with more focus on milk drinking."
}

// #endregion message
