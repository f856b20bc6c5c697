package ml

import "math/rand/v2"

// Oversample balances a binary training set by drawing extra copies of
// minority-class rows with a seeded generator. The result is deterministic
// for a given seed and input order. Inputs with a single class are returned
// unchanged.
func Oversample(X [][]float64, y []float64, seed uint64) ([][]float64, []float64) {
	var pos, neg []int
	for i, label := range y {
		if label == 1 {
			pos = append(pos, i)
		} else {
			neg = append(neg, i)
		}
	}
	if len(pos) == 0 || len(neg) == 0 || len(pos) == len(neg) {
		return X, y
	}

	minority := pos
	deficit := len(neg) - len(pos)
	if len(neg) < len(pos) {
		minority = neg
		deficit = len(pos) - len(neg)
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	outX := make([][]float64, len(X), len(X)+deficit)
	outY := make([]float64, len(y), len(y)+deficit)
	copy(outX, X)
	copy(outY, y)
	for i := 0; i < deficit; i++ {
		idx := minority[rng.IntN(len(minority))]
		outX = append(outX, append([]float64(nil), X[idx]...))
		outY = append(outY, y[idx])
	}
	return outX, outY
}
