// Package engine implements the placement AI: a linear evaluation of
// the playfield with a direct-mapped score cache, and a multi-ply
// best-placement search with a tabu table over state signatures.
package engine

import (
	"github.com/jserv/auto-tetris-sub000/internal/grid"
)

// Extra-heuristic penalties and the reward for clearing lines while
// searching.
const (
	holePenalty = 1.5
	bumpPenalty = 0.20
	wellPenalty = 0.35

	// LineClearBonus is added to a placement's score per line it
	// clears.
	LineClearBonus = 0.75
)

// Weights scales the six playfield features.
type Weights struct {
	ReliefMax float64 // highest column surface
	ReliefAvg float64 // mean column height
	ReliefVar float64 // spread of column surfaces around the mean
	Gaps      float64 // covered empty cells
	Obs       float64 // occupied cells below the surface
	Discont   float64 // adjacent columns with differing surfaces
}

// DefaultWeights is the fixed weight vector the driver plays with.
var DefaultWeights = Weights{
	ReliefMax: 0.23,
	ReliefAvg: -3.62,
	ReliefVar: -0.21,
	Gaps:      -0.89,
	Obs:       -0.96,
	Discont:   -0.27,
}

// evaluate scores g under w: the weighted features minus the hole,
// bumpiness, and well penalties. Higher is better. O(width).
func evaluate(g *grid.Grid, w *Weights) float64 {
	width := g.Width()
	height := g.Height()

	reliefMax := -1
	sumHeights := 0
	gapsSum := 0
	obs := 0
	discont := -1
	bumpiness := 0
	wellDepth := 0

	for x := 0; x < width; x++ {
		r := g.Relief(x)
		if r > reliefMax {
			reliefMax = r
		}
		sumHeights += r + 1
		gapsSum += g.Gaps(x)
		obs += r - g.Gaps(x)
		if x > 0 {
			if r != g.Relief(x-1) {
				discont++
			}
			d := r - g.Relief(x-1)
			if d < 0 {
				d = -d
			}
			bumpiness += d
		}

		h := r + 1
		left := height
		if x > 0 {
			left = g.Relief(x-1) + 1
		}
		right := height
		if x < width-1 {
			right = g.Relief(x+1) + 1
		}
		if h < left && h < right {
			min := left
			if right < min {
				min = right
			}
			wellDepth += min - h
		}
	}

	avg := float64(sumHeights) / float64(width)
	variance := 0.0
	for x := 0; x < width; x++ {
		d := avg - float64(g.Relief(x))
		variance += d * d
	}

	score := w.ReliefMax*float64(reliefMax) +
		w.ReliefAvg*avg +
		w.ReliefVar*variance +
		w.Gaps*float64(gapsSum) +
		w.Obs*float64(obs) +
		w.Discont*float64(discont)

	// Holes are the covered empty cells, charged again as a flat
	// penalty on top of their weighted feature.
	score -= holePenalty * float64(gapsSum)
	score -= bumpPenalty * float64(bumpiness)
	score -= wellPenalty * float64(wellDepth)
	return score
}
