package validate

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dairylabs/milkmob/internal/signals"
)

func sigs(confidences map[signals.CriterionKind]float32) []signals.AnalysisSignal {
	var out []signals.AnalysisSignal
	for _, kind := range signals.AllCriteria() {
		if c, ok := confidences[kind]; ok {
			out = append(out, signals.AnalysisSignal{Criterion: kind, Confidence: c})
		}
	}
	return out
}

func TestValidatePassesWhenMandatoryMet(t *testing.T) {
	v := NewValidator(DefaultPolicy())
	verdict := v.Validate(sigs(map[signals.CriterionKind]float32{
		signals.CriterionMilkObject: 0.9,
		signals.CriterionDrinking:   0.7,
		signals.CriterionCreativity: 0.2,
		signals.CriterionAudioMilk:  0.0,
	}))

	if !verdict.Passed {
		t.Fatal("expected pass")
	}
	// Advisory shortfalls stay out of the decision set: only mandatory
	// criteria can appear in FailedCriteria.
	if len(verdict.FailedCriteria) != 0 {
		t.Errorf("expected empty failed criteria, got %v", verdict.FailedCriteria)
	}
	if verdict.PerCriterion[signals.CriterionCreativity] != 0.2 {
		t.Errorf("advisory confidence must stay visible in the breakdown, got %v", verdict.PerCriterion)
	}
}

func TestValidateFailsOnMandatoryBelowThreshold(t *testing.T) {
	v := NewValidator(DefaultPolicy())
	verdict := v.Validate(sigs(map[signals.CriterionKind]float32{
		signals.CriterionMilkObject: 0.4,
		signals.CriterionDrinking:   0.9,
		signals.CriterionCreativity: 0.9,
		signals.CriterionAudioMilk:  1.0,
	}))

	if verdict.Passed {
		t.Fatal("expected fail")
	}
	if !verdict.Failed(signals.CriterionMilkObject) {
		t.Errorf("milk presence must be in failed criteria, got %v", verdict.FailedCriteria)
	}
}

func TestValidateEmptySignalSetFails(t *testing.T) {
	v := NewValidator(DefaultPolicy())
	verdict := v.Validate(nil)

	if verdict.Passed {
		t.Fatal("empty signal set must fail")
	}
	if len(verdict.PerCriterion) != len(DefaultPolicy().Criteria) {
		t.Errorf("breakdown must cover every policy criterion, got %v", verdict.PerCriterion)
	}
	for kind, c := range verdict.PerCriterion {
		if c != 0 {
			t.Errorf("%s: absent criterion must score 0, got %.2f", kind, c)
		}
	}
}

func TestValidateIsPure(t *testing.T) {
	v := NewValidator(DefaultPolicy())
	input := sigs(map[signals.CriterionKind]float32{
		signals.CriterionMilkObject: 0.6,
		signals.CriterionDrinking:   0.5,
	})

	first := v.Validate(input)
	for i := 0; i < 5; i++ {
		if got := v.Validate(input); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: verdict changed: %+v vs %+v", i, got, first)
		}
	}
}

func TestOverallConfidenceWeighting(t *testing.T) {
	v := NewValidator(DefaultPolicy())
	verdict := v.Validate(sigs(map[signals.CriterionKind]float32{
		signals.CriterionMilkObject: 1.0,
		signals.CriterionDrinking:   1.0,
		signals.CriterionCreativity: 0.0,
		signals.CriterionAudioMilk:  0.0,
	}))

	// (1*2 + 1*2 + 0*1 + 0*1) / 6
	want := float32(4) / 6
	if diff := verdict.OverallConfidence - want; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("expected overall %.4f, got %.4f", want, verdict.OverallConfidence)
	}
}

func TestDuplicateSignalsTakeMax(t *testing.T) {
	v := NewValidator(DefaultPolicy())
	verdict := v.Validate([]signals.AnalysisSignal{
		{Criterion: signals.CriterionMilkObject, Confidence: 0.3},
		{Criterion: signals.CriterionMilkObject, Confidence: 0.8},
		{Criterion: signals.CriterionDrinking, Confidence: 0.6},
	})

	if verdict.PerCriterion[signals.CriterionMilkObject] != 0.8 {
		t.Errorf("expected max 0.8, got %.2f", verdict.PerCriterion[signals.CriterionMilkObject])
	}
	if !verdict.Passed {
		t.Error("expected pass with max-resolved confidences")
	}
}

func TestMessageExplainsFailure(t *testing.T) {
	v := NewValidator(DefaultPolicy())

	noMilk := v.Validate(sigs(map[signals.CriterionKind]float32{
		signals.CriterionDrinking: 0.9,
	}))
	if msg := v.Message(noMilk); !strings.Contains(msg, "detect milk") {
		t.Errorf("expected milk explanation, got %q", msg)
	}

	noDrinking := v.Validate(sigs(map[signals.CriterionKind]float32{
		signals.CriterionMilkObject: 0.9,
	}))
	if msg := v.Message(noDrinking); !strings.Contains(msg, "drinking activity") {
		t.Errorf("expected drinking explanation, got %q", msg)
	}
}

func TestMessageEncouragesCreativity(t *testing.T) {
	v := NewValidator(DefaultPolicy())

	// Passed but low creativity: encouragement comes from the breakdown,
	// not from the failed-criteria set, which stays empty.
	dull := v.Validate(sigs(map[signals.CriterionKind]float32{
		signals.CriterionMilkObject: 0.9,
		signals.CriterionDrinking:   0.7,
		signals.CriterionCreativity: 0.2,
	}))
	if len(dull.FailedCriteria) != 0 {
		t.Fatalf("expected empty failed criteria, got %v", dull.FailedCriteria)
	}
	if msg := v.Message(dull); !strings.Contains(msg, "more creative") {
		t.Errorf("expected creativity encouragement, got %q", msg)
	}

	creative := v.Validate(sigs(map[signals.CriterionKind]float32{
		signals.CriterionMilkObject: 0.9,
		signals.CriterionDrinking:   0.7,
		signals.CriterionCreativity: 0.9,
	}))
	if msg := v.Message(creative); !strings.Contains(msg, "Great job") {
		t.Errorf("expected full praise, got %q", msg)
	}
}
