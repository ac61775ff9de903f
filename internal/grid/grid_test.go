package grid

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jserv/auto-tetris-sub000/internal/tetromino"
)

func shapeByName(t *testing.T, name string) *tetromino.Shape {
	t.Helper()
	for i := 0; i < tetromino.Count(); i++ {
		if s := tetromino.Get(i); s.Name == name {
			return s
		}
	}
	t.Fatalf("no shape named %q", name)
	return nil
}

// checkInvariants recomputes every auxiliary index from the row masks
// and requires the incrementally maintained state to match.
func checkInvariants(t *testing.T, g *Grid) {
	t.Helper()
	for x := 0; x < g.width; x++ {
		relief := -1
		count := 0
		for y := 0; y < g.height; y++ {
			if g.rows[y]>>uint(x)&1 == 1 {
				relief = y
				count++
			}
		}
		require.Equal(t, relief, g.relief[x], "relief[%d]", x)
		wantGaps := 0
		if relief >= 0 {
			wantGaps = relief + 1 - count
		}
		require.Equal(t, wantGaps, g.gaps[x], "gaps[%d]", x)

		require.Equal(t, count, len(g.stacks[x]), "stack_cnt[%d]", x)
		prev := -1
		for _, y := range g.stacks[x] {
			require.Greater(t, y, prev, "stacks[%d] not ascending", x)
			require.True(t, g.rows[y]>>uint(x)&1 == 1, "stacks[%d] lists empty cell %d", x, y)
			prev = y
		}
		if count > 0 {
			require.Equal(t, relief, g.stacks[x][count-1], "stacks[%d] top", x)
		}
	}

	var hash uint64
	full := 0
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.rows[y]>>uint(x)&1 == 1 {
				hash ^= zobristKeys[x][y]
			}
		}
		isFull := g.rows[y] == g.fullMask
		inList := false
		for _, fy := range g.fullRows {
			if fy == y {
				inList = true
			}
		}
		require.Equal(t, isFull, inList, "full-row list vs mask at %d", y)
		if isFull {
			full++
		}
	}
	require.Equal(t, hash, g.hash, "hash drifted from recomputation")
	require.Equal(t, full, len(g.fullRows))
}

// state captures every observable field for exact-restore comparisons.
type state struct {
	rows         []uint64
	relief       []int
	gaps         []int
	fullRows     int
	hash         uint64
	totalCleared int
	lastCleared  int
}

func capture(g *Grid) state {
	return state{
		rows:         append([]uint64(nil), g.rows...),
		relief:       append([]int(nil), g.relief...),
		gaps:         append([]int(nil), g.gaps...),
		fullRows:     len(g.fullRows),
		hash:         g.hash,
		totalCleared: g.totalCleared,
		lastCleared:  g.lastCleared,
	}
}

func fillRow(g *Grid, y int) {
	for x := 0; x < g.width; x++ {
		g.setCell(x, y)
	}
}

func TestNewValidation(t *testing.T) {
	for _, dims := range [][2]int{{0, 14}, {20, 0}, {20, MaxWidth + 1}, {MaxHeight + 1, 14}, {-1, -1}} {
		g, err := New(dims[0], dims[1])
		require.Nil(t, g)
		require.ErrorIs(t, err, ErrBadDimensions)
	}

	g, err := New(Height, Width)
	require.NoError(t, err)
	require.Equal(t, Width, g.Width())
	require.Equal(t, Height, g.Height())
	require.Zero(t, g.Hash())
	require.Equal(t, -1, g.ReliefMax())
	for x := 0; x < Width; x++ {
		require.Equal(t, -1, g.Relief(x))
		require.Zero(t, g.Gaps(x))
	}
}

func TestAddRemoveRoundTrip(t *testing.T) {
	g, err := New(Height, Width)
	require.NoError(t, err)

	// Stack a few pieces first so the round-trip runs over a non-trivial
	// field.
	for _, name := range []string{"T", "S", "L"} {
		b := tetromino.NewBlock(shapeByName(t, name))
		require.True(t, g.Spawn(&b))
		g.Drop(&b)
		g.Add(&b)
		checkInvariants(t, g)
	}

	before := capture(g)

	b := tetromino.NewBlock(shapeByName(t, "Z"))
	require.True(t, g.Spawn(&b))
	g.Drop(&b)
	g.Add(&b)
	checkInvariants(t, g)

	g.Remove(&b)
	checkInvariants(t, g)
	require.Equal(t, before, capture(g), "add/remove must restore the exact state")
}

func TestCollides(t *testing.T) {
	g, err := New(Height, Width)
	require.NoError(t, err)

	require.True(t, g.Collides(nil))
	require.True(t, g.Collides(&tetromino.Block{}))

	b := tetromino.NewBlock(shapeByName(t, "O"))
	b.Off = tetromino.Coord{X: -1, Y: 0}
	require.True(t, g.Collides(&b))
	b.Off = tetromino.Coord{X: Width - 1, Y: 0}
	require.True(t, g.Collides(&b), "2-wide piece hanging over the right edge")
	b.Off = tetromino.Coord{X: 0, Y: Height - 1}
	require.True(t, g.Collides(&b))
	b.Off = tetromino.Coord{X: 0, Y: 0}
	require.False(t, g.Collides(&b))

	g.setCell(1, 1)
	require.True(t, g.Collides(&b), "overlap with occupied cell")
}

func TestSpawnCentersAndReportsGameOver(t *testing.T) {
	g, err := New(Height, Width)
	require.NoError(t, err)

	b := tetromino.NewBlock(shapeByName(t, "I"))
	require.True(t, g.Spawn(&b))
	require.Equal(t, (Width-4)/2, b.Off.X)
	require.Equal(t, Height-4, b.Off.Y)

	// Choke the spawn row; spawn must fail without touching the grid.
	for x := 0; x < Width; x++ {
		for y := Height - 4; y < Height; y++ {
			if x%2 == 0 {
				g.setCell(x, y)
			}
		}
	}
	before := capture(g)
	b2 := tetromino.NewBlock(shapeByName(t, "I"))
	require.False(t, g.Spawn(&b2))
	require.Equal(t, before, capture(g))
}

func TestDropOnEmptyGrid(t *testing.T) {
	g, err := New(Height, Width)
	require.NoError(t, err)

	b := tetromino.NewBlock(shapeByName(t, "I"))
	require.True(t, g.Spawn(&b))
	d := g.Drop(&b)
	require.Equal(t, Height-4, d)
	require.Equal(t, 0, b.Off.Y)

	g.Add(&b)
	start := (Width - 4) / 2
	for x := start; x < start+4; x++ {
		require.True(t, g.Occupied(x, 0), "column %d", x)
	}
	checkInvariants(t, g)
}

func TestDropStopsOnRelief(t *testing.T) {
	g, err := New(Height, Width)
	require.NoError(t, err)
	fillRow(g, 0)
	// leave row 0 non-full so no clearing interferes
	g.clearCell(Width-1, 0)

	b := tetromino.NewBlock(shapeByName(t, "O"))
	require.True(t, g.Spawn(&b))
	g.Drop(&b)
	require.Equal(t, 1, b.Off.Y, "O piece must land on top of row 0")
}

func TestDropFallbackBelowRelief(t *testing.T) {
	g, err := New(Height, Width)
	require.NoError(t, err)

	// A lone overhang cell above the block's columns drives the crust
	// estimate negative, forcing the stepwise path.
	g.setCell(3, 10)

	b := tetromino.NewBlock(shapeByName(t, "O"))
	b.Off = tetromino.Coord{X: 3, Y: 5}
	require.False(t, g.Collides(&b))
	require.Equal(t, 5, g.DropAmount(&b), "stepwise descent must reach the floor under the overhang")

	g.Drop(&b)
	require.Equal(t, 0, b.Off.Y)
}

func TestMoveRotateUndo(t *testing.T) {
	g, err := New(Height, Width)
	require.NoError(t, err)

	b := tetromino.NewBlock(shapeByName(t, "L"))
	require.True(t, g.Spawn(&b))
	start := b.Off

	require.True(t, g.Move(&b, tetromino.Left, 1))
	require.True(t, g.Move(&b, tetromino.Right, 1))
	require.Equal(t, start, b.Off)

	require.False(t, g.Move(&b, tetromino.Right, Width), "move off the field must be refused")
	require.Equal(t, start, b.Off, "refused move must restore the offset")

	// A vertical I against the right wall cannot turn horizontal.
	b2 := tetromino.NewBlock(shapeByName(t, "I"))
	b2.Rotate(1)
	b2.Off = tetromino.Coord{X: Width - 1, Y: 0}
	require.False(t, g.Collides(&b2))
	require.False(t, g.Rotate(&b2, 1), "rotation through the wall must be refused")
	require.Equal(t, 1, b2.Rot, "refused rotation must restore the index")
}

func TestClearLinesEmptyGrid(t *testing.T) {
	g, err := New(Height, Width)
	require.NoError(t, err)
	require.Zero(t, g.ClearLines())
}

func TestClearLinesTetris(t *testing.T) {
	g, err := New(Height, Width)
	require.NoError(t, err)

	for y := 0; y < 4; y++ {
		fillRow(g, y)
	}
	require.Equal(t, 4, g.FullRowCount())

	require.Equal(t, 4, g.ClearLines())
	require.Zero(t, g.FullRowCount())
	require.Equal(t, 4, g.TotalCleared())
	require.Equal(t, 4, g.LastCleared())
	require.Zero(t, g.Hash())
	for y := 0; y < Height; y++ {
		require.Zero(t, g.Row(y), "row %d", y)
	}
	checkInvariants(t, g)
}

func TestClearLinesNonContiguous(t *testing.T) {
	g, err := New(Height, Width)
	require.NoError(t, err)

	// Full rows 1, 3, 5 interleaved with single-cell rows 0, 2, 4.
	for _, y := range []int{1, 3, 5} {
		fillRow(g, y)
	}
	for _, y := range []int{0, 2, 4} {
		g.setCell(0, y)
	}

	require.Equal(t, 3, g.ClearLines())

	// Survivors compact to rows 0..2, order preserved, column 0 only.
	for y := 0; y < 3; y++ {
		require.Equal(t, uint64(1), g.Row(y), "row %d", y)
	}
	for y := 3; y < Height; y++ {
		require.Zero(t, g.Row(y), "row %d", y)
	}
	checkInvariants(t, g)
}

func TestCopyIsolation(t *testing.T) {
	src, err := New(Height, Width)
	require.NoError(t, err)
	b := tetromino.NewBlock(shapeByName(t, "T"))
	require.True(t, src.Spawn(&b))
	src.Drop(&b)
	src.Add(&b)

	dst, err := New(Height, Width)
	require.NoError(t, err)
	require.NoError(t, src.CopyInto(dst))
	require.Equal(t, capture(src), capture(dst))

	before := capture(src)
	dst.setCell(0, 10)
	dst.ClearLines()
	require.Equal(t, before, capture(src), "mutating the copy must not touch the source")

	small, err := New(5, 5)
	require.NoError(t, err)
	require.ErrorIs(t, src.CopyInto(small), ErrDimensionMismatch)
	require.ErrorIs(t, src.CopyInto(nil), ErrDimensionMismatch)
}

func TestTetrisReady(t *testing.T) {
	g, err := New(Height, Width)
	require.NoError(t, err)

	_, ok := g.TetrisReady()
	require.False(t, ok, "flat field has no well")

	// Height-6 stack everywhere except column 5.
	for y := 0; y < 6; y++ {
		for x := 0; x < Width; x++ {
			if x != 5 {
				g.setCell(x, y)
			}
		}
	}
	col, ok := g.TetrisReady()
	require.True(t, ok)
	require.Equal(t, 5, col)
}
