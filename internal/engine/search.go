package engine

import (
	"math"
	"math/bits"

	"github.com/jserv/auto-tetris-sub000/internal/grid"
	"github.com/jserv/auto-tetris-sub000/internal/tetromino"
)

// SearchDepth is the number of pieces the search looks at: the current
// piece plus SearchDepth-1 from the stream.
const SearchDepth = 2

// signatureRows bounds the state-signature fold.
const signatureRows = 20

// Move is a search result: the rotation and column to place the
// current piece at.
type Move struct {
	Rot int
	Col int
}

// AI owns all mutable search state: the evaluation cache, the tabu
// table, the snapshot used to try placements on the caller's grid, and
// a scratch grid for next-ply placements. None of it is safe for
// concurrent searches; the engine is single-threaded by design.
type AI struct {
	weights Weights
	cache   evalCache
	tabu    tabuTable

	snap    *grid.Snapshot
	scratch *grid.Grid
}

// NewAI returns an AI for height x width playfields using weights w.
func NewAI(height, width int, w Weights) (*AI, error) {
	snap, err := grid.NewSnapshot(height, width)
	if err != nil {
		return nil, err
	}
	scratch, err := grid.New(height, width)
	if err != nil {
		return nil, err
	}
	return &AI{weights: w, snap: snap, scratch: scratch}, nil
}

// Weights returns the weight vector the AI scores with.
func (ai *AI) Weights() Weights { return ai.weights }

// CacheHitRate returns the evaluation-cache hit rate as a percentage.
func (ai *AI) CacheHitRate() float64 { return ai.cache.hitRate() }

// ClearCaches empties the evaluation cache and the tabu table. Between
// games, or in tests that compare independent searches.
func (ai *AI) ClearCaches() {
	ai.cache.clear()
	ai.tabu = tabuTable{}
}

// evaluateCached scores g through the profile cache.
func (ai *AI) evaluateCached(g *grid.Grid) float64 {
	key := profileKey(g)
	if score, ok := ai.cache.probe(key); ok {
		return score
	}
	score := evaluate(g, &ai.weights)
	ai.cache.store(key, score)
	return score
}

// FindBest enumerates every (rotation, column) placement of blk's
// shape, scores each by dropping it, clearing any lines, and either
// evaluating directly or searching one ply of the upcoming stream, and
// returns the argmax. Returns nil when no placement validates. The
// grid is returned to its exact pre-call state.
func (ai *AI) FindBest(g *grid.Grid, blk *tetromino.Block, stream *tetromino.Stream) *Move {
	if g == nil || blk == nil || blk.Shape == nil {
		return nil
	}
	sh := blk.Shape
	height := g.Height()
	spawnY := height - sh.MaxDimLen

	// With this much headroom above the stack no spawn-row placement
	// of any rotation can collide, so the per-column check is skipped.
	elevatedSafe := g.ReliefMax()+sh.MaxDimLen < height

	ai.tabu.reset()

	best := math.Inf(-1)
	var bestMove *Move

	for r := 0; r < sh.NRot; r++ {
		w := sh.RotWH[r].X
		for c := 0; c+w <= g.Width(); c++ {
			b := tetromino.Block{Shape: sh, Rot: r, Off: tetromino.Coord{X: c, Y: spawnY}}
			if !elevatedSafe && g.Collides(&b) {
				continue
			}
			g.Drop(&b)
			cleared := ai.snap.Apply(g, &b)

			var score float64
			if SearchDepth > 1 {
				score = ai.nextPly(g, stream, 1)
			} else {
				score = ai.evaluateCached(g)
			}
			score += float64(cleared) * LineClearBonus

			if score > best {
				best = score
				bestMove = &Move{Rot: r, Col: c}
			}
			ai.snap.Rollback(g)
		}
	}
	return bestMove
}

// nextPly scores g by the best placement of the piece i positions down
// the stream, falling back to a direct evaluation when the state was
// already expanded this search, when the stream runs dry, or when no
// placement fits.
func (ai *AI) nextPly(g *grid.Grid, stream *tetromino.Stream, i int) float64 {
	sig := stateSignature(g)
	if ai.tabu.seen(sig) {
		return ai.evaluateCached(g)
	}
	ai.tabu.mark(sig)

	var sh *tetromino.Shape
	if stream != nil {
		sh = stream.Peek(i)
	}
	if sh == nil {
		return ai.evaluateCached(g)
	}

	height := g.Height()
	spawnY := height - sh.MaxDimLen
	elevatedSafe := g.ReliefMax()+sh.MaxDimLen < height

	best := math.Inf(-1)
	for r := 0; r < sh.NRot; r++ {
		w := sh.RotWH[r].X
		for c := 0; c+w <= g.Width(); c++ {
			b := tetromino.Block{Shape: sh, Rot: r, Off: tetromino.Coord{X: c, Y: spawnY}}
			if !elevatedSafe && g.Collides(&b) {
				continue
			}
			g.CopyInto(ai.scratch)
			ai.scratch.Drop(&b)
			ai.scratch.Add(&b)
			cleared := ai.scratch.ClearLines()
			score := ai.evaluateCached(ai.scratch) + float64(cleared)*LineClearBonus
			if score > best {
				best = score
			}
		}
	}
	if math.IsInf(best, -1) {
		return ai.evaluateCached(g)
	}
	return best
}

// stateSignature folds the bottom rows of the field into 64 bits, each
// row rotated by a row-dependent amount so vertically shifted stacks
// hash apart.
func stateSignature(g *grid.Grid) uint64 {
	top := signatureRows
	if g.Height() < top {
		top = g.Height()
	}
	var sig uint64
	for y := 0; y < top; y++ {
		sig ^= bits.RotateLeft64(g.Row(y), (7*y)&63)
	}
	return sig
}
