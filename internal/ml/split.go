package ml

import (
	"math"
	"math/rand/v2"
)

// SplitIndices shuffles 0..n-1 with a seeded generator and cuts off
// round(n*testRatio) positions for the test partition. When n >= 2 both
// partitions keep at least one row.
func SplitIndices(n int, testRatio float64, seed uint64) (train, test []int) {
	perm := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)).Perm(n)

	nTest := int(math.Round(float64(n) * testRatio))
	if n >= 2 {
		nTest = max(1, min(nTest, n-1))
	} else {
		nTest = 0
	}
	return perm[nTest:], perm[:nTest]
}
