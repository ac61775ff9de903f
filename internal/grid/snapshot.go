package grid

import (
	"math/bits"

	"github.com/jserv/auto-tetris-sub000/internal/tetromino"
)

// Snapshot records enough state to undo one hypothetical placement,
// including a possible line clear, without copying the grid in the
// common case.
//
// Two strategies, chosen per Apply: if no row can fill, only the placed
// block is remembered and Rollback is a plain Remove; if a row will
// fill, the whole grid is backed up into a pre-allocated shadow first.
type Snapshot struct {
	full   bool
	block  tetromino.Block
	backup *Grid
}

// NewSnapshot returns a snapshot sized for height x width grids. The
// shadow grid is allocated once and reused across Apply calls.
func NewSnapshot(height, width int) (*Snapshot, error) {
	backup, err := New(height, width)
	if err != nil {
		return nil, err
	}
	return &Snapshot{backup: backup}, nil
}

// Apply records the pre-placement state, adds b, clears any completed
// lines, and returns the number of lines cleared.
func (s *Snapshot) Apply(g *Grid, b *tetromino.Block) int {
	s.block = *b
	s.full = wouldFill(g, b)
	if s.full {
		g.CopyInto(s.backup)
	}
	g.Add(b)
	if g.FullRowCount() == 0 {
		return 0
	}
	return g.ClearLines()
}

// Rollback restores g to its exact state before the matching Apply,
// hash and counters included.
func (s *Snapshot) Rollback(g *Grid) {
	if s.full {
		s.backup.CopyInto(g)
		return
	}
	g.Remove(&s.block)
}

// wouldFill reports whether placing b completes at least one row:
// existing occupancy plus the block's cells in that row reaching the
// full width.
func wouldFill(g *Grid, b *tetromino.Block) bool {
	for i := 0; i < tetromino.MaxBlockLen; i++ {
		c, ok := b.Cell(i)
		if !ok || c.Y < 0 || c.Y >= g.height {
			return false
		}
		inRow := 0
		for j := 0; j < tetromino.MaxBlockLen; j++ {
			if o, _ := b.Cell(j); o.Y == c.Y {
				inRow++
			}
		}
		if bits.OnesCount64(g.rows[c.Y])+inRow == g.width {
			return true
		}
	}
	return false
}
