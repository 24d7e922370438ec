package validate

import "github.com/dairylabs/milkmob/internal/signals"

// #region criterion-policy

// CriterionPolicy holds the per-criterion validation rule.
type CriterionPolicy struct {
	Mandatory bool
	Threshold float32
}

// #endregion criterion-policy

// #region policy

// Policy is the full campaign validation policy. Weights feed the
// overall confidence average; mandatory criteria count double.
type Policy struct {
	Criteria        map[signals.CriterionKind]CriterionPolicy
	MandatoryWeight float32
	AdvisoryWeight  float32
}

// DefaultPolicy returns the stock campaign policy: milk presence and
// drinking activity are mandatory at 0.5, creativity and audio mentions
// are advisory.
func DefaultPolicy() Policy {
	return Policy{
		Criteria: map[signals.CriterionKind]CriterionPolicy{
			signals.CriterionMilkObject: {Mandatory: true, Threshold: 0.5},
			signals.CriterionDrinking:   {Mandatory: true, Threshold: 0.5},
			signals.CriterionCreativity: {Mandatory: false, Threshold: 0.5},
			signals.CriterionAudioMilk:  {Mandatory: false, Threshold: 0.5},
		},
		MandatoryWeight: 2,
		AdvisoryWeight:  1,
	}
}

// #endregion policy

// #region verdict

// Verdict is the validation outcome for one submission. It always
// carries the full per-criterion breakdown so a failure is explainable.
type Verdict struct {
	Passed       bool
	PerCriterion map[signals.CriterionKind]float32
	// FailedCriteria lists the mandatory criteria below threshold,
	// sorted. Advisory criteria never appear here.
	FailedCriteria    []signals.CriterionKind
	OverallConfidence float32
}

// Failed reports whether the given criterion is in FailedCriteria.
func (v Verdict) Failed(kind signals.CriterionKind) bool {
	for _, k := range v.FailedCriteria {
		if k == kind {
			return true
		}
	}
	return false
}

// #endregion verdict
