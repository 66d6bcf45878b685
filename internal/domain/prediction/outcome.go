package prediction

// Outcome classifies a reconciled prediction. Undetermined is distinct from
// incorrect: it means the comparison could not be made at all (unparsable
// score, unplayed match, unmatched players).
type Outcome string

const (
	OutcomeCorrect      Outcome = "correct"
	OutcomeIncorrect    Outcome = "incorrect"
	OutcomeUndetermined Outcome = "undetermined"
)

// EvaluateOutcome compares a predicted score with the resolved actual score
// by winner only: "2:0" against an actual "2:1" is still correct. The actual
// score must already be in team1/team2 order; un-swapping reversed feed
// matches is the reconciliation layer's job.
func EvaluateOutcome(predictedRaw, actualRaw string) Outcome {
	predicted := ParseScore(predictedRaw).Main
	actual := ParseScore(actualRaw).Main
	if predicted == nil || actual == nil {
		return OutcomeUndetermined
	}
	if predicted.A == predicted.B || actual.A == actual.B {
		return OutcomeUndetermined
	}

	if (predicted.A > predicted.B) == (actual.A > actual.B) {
		return OutcomeCorrect
	}
	return OutcomeIncorrect
}
