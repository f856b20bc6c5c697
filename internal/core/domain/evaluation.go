package domain

// scoreTolerance absorbs float rounding in metric differences such as 0.82-0.80.
const scoreTolerance = 1e-9

// AcceptCandidate applies the promotion rule: a candidate replaces the
// registered model only when it improves the metric by at least margin.
// Without a registered model the candidate is always accepted.
func AcceptCandidate(candidate, existing, margin float64, hasExisting bool) (accepted bool, delta float64) {
	if !hasExisting {
		return true, candidate
	}
	delta = candidate - existing
	return delta+scoreTolerance >= margin, delta
}
