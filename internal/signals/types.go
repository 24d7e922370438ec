package signals

// #region criterion-kind

// CriterionKind identifies one campaign criterion. The set is closed:
// adding a criterion is a policy change, not a data change.
type CriterionKind string

const (
	CriterionMilkObject CriterionKind = "milk_object_presence"
	CriterionDrinking   CriterionKind = "drinking_activity"
	CriterionCreativity CriterionKind = "creativity_assessment"
	CriterionAudioMilk  CriterionKind = "audio_mention_of_milk"
)

// AllCriteria returns every known criterion in a stable order.
func AllCriteria() []CriterionKind {
	return []CriterionKind{
		CriterionMilkObject,
		CriterionDrinking,
		CriterionCreativity,
		CriterionAudioMilk,
	}
}

// #endregion criterion-kind

// #region analysis-signal

// AnalysisSignal is a normalized measurement for one criterion.
// Confidence is always in [0,1]. Evidence is the text that produced the
// confidence; empty means no supporting evidence was found.
type AnalysisSignal struct {
	Criterion  CriterionKind
	Confidence float32
	Evidence   string
}

// #endregion analysis-signal

// #region input

// Detection is one labeled detection from the provider.
type Detection struct {
	Label string
	Score float32
}

// AudioFinding is one transcript hit from the provider's audio search.
type AudioFinding struct {
	Text       string
	Confidence float32
}

// Input is the raw provider output the interpreter normalizes.
// Assessment is the generated creativity paragraph; when empty the
// summary text is scanned instead.
type Input struct {
	Detections    []Detection
	SummaryText   string
	Assessment    string
	AudioFindings []AudioFinding
}

// #endregion input
