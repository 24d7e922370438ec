package validate

// #region imports
import (
	"sort"

	"github.com/dairylabs/milkmob/internal/signals"
)

// #endregion

// #region validator

// Validator applies a fixed campaign policy to normalized signals. It
// holds no mutable state; Validate is a pure function of its input.
type Validator struct {
	policy Policy
}

// NewValidator creates a validator with the given policy.
func NewValidator(policy Policy) *Validator {
	return &Validator{policy: policy}
}

// Policy returns the active policy.
func (v *Validator) Policy() Policy {
	return v.policy
}

// #endregion validator

// #region validate

// Validate evaluates the signal set against the policy. A criterion the
// interpreter failed to emit counts as confidence 0 rather than
// faulting, so Validate is total over any signal set, including an
// empty one (which always fails). Duplicate signals for a criterion
// resolve to the highest confidence. FailedCriteria lists only the
// mandatory criteria below threshold; advisory shortfalls show up in
// PerCriterion but never in the decision set.
func (v *Validator) Validate(sigs []signals.AnalysisSignal) Verdict {
	perCriterion := make(map[signals.CriterionKind]float32, len(v.policy.Criteria))
	for kind := range v.policy.Criteria {
		perCriterion[kind] = 0
	}
	for _, s := range sigs {
		if s.Confidence > perCriterion[s.Criterion] {
			perCriterion[s.Criterion] = s.Confidence
		}
	}

	passed := true
	var failed []signals.CriterionKind
	var weightedSum, totalWeight float32

	for kind, rule := range v.policy.Criteria {
		confidence := perCriterion[kind]

		weight := v.policy.AdvisoryWeight
		if rule.Mandatory {
			weight = v.policy.MandatoryWeight
		}
		weightedSum += confidence * weight
		totalWeight += weight

		if rule.Mandatory && confidence < rule.Threshold {
			failed = append(failed, kind)
			passed = false
		}
	}

	sort.Slice(failed, func(i, j int) bool { return failed[i] < failed[j] })

	overall := float32(0)
	if totalWeight > 0 {
		overall = weightedSum / totalWeight
	}
	if overall < 0 {
		overall = 0
	}
	if overall > 1 {
		overall = 1
	}

	return Verdict{
		Passed:            passed,
		PerCriterion:      perCriterion,
		FailedCriteria:    failed,
		OverallConfidence: overall,
	}
}

// #endregion validate
