package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOversample_BalancesClasses(t *testing.T) {
	X := [][]float64{{0}, {1}, {2}, {3}, {4}}
	y := []float64{0, 0, 0, 0, 1}

	outX, outY := Oversample(X, y, 7)
	assert.Len(t, outX, 8)

	var pos int
	for _, v := range outY {
		if v == 1 {
			pos++
		}
	}
	assert.Equal(t, 4, pos)
	assert.Equal(t, X, outX[:5])
}

func TestOversample_Deterministic(t *testing.T) {
	X := [][]float64{{0}, {1}, {2}, {3}, {4}, {5}}
	y := []float64{1, 0, 0, 0, 1, 0}

	aX, aY := Oversample(X, y, 42)
	bX, bY := Oversample(X, y, 42)
	assert.Equal(t, aX, bX)
	assert.Equal(t, aY, bY)
}

func TestOversample_SingleClassUnchanged(t *testing.T) {
	X := [][]float64{{0}, {1}}
	y := []float64{0, 0}
	outX, outY := Oversample(X, y, 1)
	assert.Equal(t, X, outX)
	assert.Equal(t, y, outY)
}
