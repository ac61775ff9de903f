// Package grid implements the playfield: row bitmasks with incremental
// per-column indices (relief, gap counts, occupied-cell stacks), a
// Zobrist hash maintained on every cell toggle, line clearing, and
// snapshot/rollback for hypothetical placements.
package grid

import (
	"errors"
	"math/bits"
	"sort"

	"github.com/jserv/auto-tetris-sub000/internal/tetromino"
)

// Default playfield dimensions.
const (
	Width  = 14
	Height = 20
)

// Hard bounds imposed by the row word and the Zobrist key table.
const (
	MaxWidth  = 64
	MaxHeight = 64
)

var (
	// ErrBadDimensions reports a New call outside [1, MaxWidth] x
	// [1, MaxHeight].
	ErrBadDimensions = errors.New("grid: dimensions out of range")

	// ErrDimensionMismatch reports a CopyInto between grids of
	// different sizes.
	ErrDimensionMismatch = errors.New("grid: dimension mismatch")
)

// Grid is the playfield. Each row is a width-bit mask inside a single
// word; the per-column indices and the hash are maintained
// incrementally by Add/Remove and rebuilt wholesale by ClearLines.
//
// Invariants, after every exported mutation:
//   - relief[x] is the highest occupied row of column x, or -1;
//   - gaps[x] counts empty cells of column x below relief[x];
//   - stacks[x] lists the occupied rows of column x, ascending;
//   - fullRows holds exactly the rows equal to fullMask;
//   - hash is the XOR of the Zobrist keys of all occupied cells.
type Grid struct {
	width    int
	height   int
	fullMask uint64

	rows     []uint64
	relief   []int
	gaps     []int
	stacks   [][]int
	fullRows []int

	hash uint64

	totalCleared int
	lastCleared  int
}

// New returns an empty playfield of the given size.
func New(height, width int) (*Grid, error) {
	if width < 1 || width > MaxWidth || height < 1 || height > MaxHeight {
		return nil, ErrBadDimensions
	}
	g := &Grid{
		width:    width,
		height:   height,
		fullMask: (1 << width) - 1,
		rows:     make([]uint64, height),
		relief:   make([]int, width),
		gaps:     make([]int, width),
		stacks:   make([][]int, width),
		fullRows: make([]int, 0, height),
	}
	for x := 0; x < width; x++ {
		g.relief[x] = -1
		g.stacks[x] = make([]int, 0, height)
	}
	return g, nil
}

// Width returns the playfield width in columns.
func (g *Grid) Width() int { return g.width }

// Height returns the playfield height in rows.
func (g *Grid) Height() int { return g.height }

// Row returns row y as a bitmask, or 0 if y is out of range.
func (g *Grid) Row(y int) uint64 {
	if y < 0 || y >= g.height {
		return 0
	}
	return g.rows[y]
}

// Occupied reports whether cell (x, y) is filled. Out-of-range cells
// read as empty.
func (g *Grid) Occupied(x, y int) bool {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return false
	}
	return g.rows[y]>>uint(x)&1 == 1
}

// Relief returns the highest occupied row of column x, or -1.
func (g *Grid) Relief(x int) int {
	if x < 0 || x >= g.width {
		return -1
	}
	return g.relief[x]
}

// Gaps returns the count of covered empty cells in column x.
func (g *Grid) Gaps(x int) int {
	if x < 0 || x >= g.width {
		return 0
	}
	return g.gaps[x]
}

// ReliefMax returns the highest occupied row of the whole field, or -1
// when empty.
func (g *Grid) ReliefMax() int {
	max := -1
	for x := 0; x < g.width; x++ {
		if g.relief[x] > max {
			max = g.relief[x]
		}
	}
	return max
}

// FullRowCount returns the number of currently full rows.
func (g *Grid) FullRowCount() int { return len(g.fullRows) }

// Hash returns the Zobrist hash of the occupied cells.
func (g *Grid) Hash() uint64 { return g.hash }

// TotalCleared returns the number of lines cleared over the grid's
// lifetime.
func (g *Grid) TotalCleared() int { return g.totalCleared }

// LastCleared returns the number of lines removed by the most recent
// clearing pass.
func (g *Grid) LastCleared() int { return g.lastCleared }

// Collides reports whether any cell of b lies outside the field or on
// an occupied cell. A nil or uninitialized block collides. The bounding
// box is checked first so fully in-bounds placements skip four range
// tests.
func (g *Grid) Collides(b *tetromino.Block) bool {
	if b == nil || b.Shape == nil {
		return true
	}
	if b.Extreme(tetromino.Left) < 0 || b.Extreme(tetromino.Bot) < 0 ||
		b.Extreme(tetromino.Right) >= g.width || b.Extreme(tetromino.Top) >= g.height {
		return true
	}
	for i := 0; i < tetromino.MaxBlockLen; i++ {
		c, _ := b.Cell(i)
		if g.rows[c.Y]>>uint(c.X)&1 == 1 {
			return true
		}
	}
	return false
}

// Spawn centers b horizontally and elevates it to the spawn row for its
// shape. Returns false (game over) if the spawn position collides; the
// grid itself is never mutated.
func (g *Grid) Spawn(b *tetromino.Block) bool {
	if b == nil || b.Shape == nil {
		return false
	}
	wh := b.Shape.RotWH[b.Rot]
	b.Off.X = (g.width - wh.X) / 2
	b.Off.Y = g.height - b.Shape.MaxDimLen
	return !g.Collides(b)
}

// DropAmount returns the maximum distance b can move down without
// colliding. The fast path takes, per bottom-crust cell, the space
// between the cell and the column relief below it; if the block already
// penetrates some column's relief the slow path descends one row at a
// time.
func (g *Grid) DropAmount(b *tetromino.Block) int {
	if b == nil || b.Shape == nil {
		return 0
	}
	amount := g.height
	crust := &b.Shape.Crust[b.Rot][tetromino.Bot]
	n := b.Shape.CrustLen[b.Rot][tetromino.Bot]
	for i := 0; i < n; i++ {
		x := b.Off.X + crust[i].X
		y := b.Off.Y + crust[i].Y
		if x < 0 || x >= g.width {
			return 0
		}
		if d := y - (g.relief[x] + 1); d < amount {
			amount = d
		}
	}
	if amount >= 0 {
		return amount
	}
	probe := *b
	amount = 0
	for {
		probe.Move(tetromino.Bot, 1)
		if g.Collides(&probe) {
			return amount
		}
		amount++
	}
}

// Drop moves b down as far as it goes and returns the distance moved.
func (g *Grid) Drop(b *tetromino.Block) int {
	d := g.DropAmount(b)
	b.Move(tetromino.Bot, d)
	return d
}

// Move translates b by amount cells along d, undoing the translation
// if the result collides. Reports whether the move stuck.
func (g *Grid) Move(b *tetromino.Block, d tetromino.Direction, amount int) bool {
	b.Move(d, amount)
	if g.Collides(b) {
		b.Move(d, -amount)
		return false
	}
	return true
}

// Rotate turns b by amount quarter turns, undoing the turn if the
// result collides. No wall kicks. Reports whether the rotation stuck.
func (g *Grid) Rotate(b *tetromino.Block, amount int) bool {
	if b == nil || b.Shape == nil {
		return false
	}
	b.Rotate(amount)
	if g.Collides(b) {
		b.Rotate(-amount)
		return false
	}
	return true
}

// Add writes the four cells of b into the field, maintaining every
// index and the hash incrementally. The placement must not collide.
func (g *Grid) Add(b *tetromino.Block) {
	for i := 0; i < tetromino.MaxBlockLen; i++ {
		c, ok := b.Cell(i)
		if !ok {
			return
		}
		g.setCell(c.X, c.Y)
	}
}

// Remove erases the four cells of b, in reverse order of Add, restoring
// every index and the hash.
func (g *Grid) Remove(b *tetromino.Block) {
	for i := tetromino.MaxBlockLen - 1; i >= 0; i-- {
		c, ok := b.Cell(i)
		if !ok {
			return
		}
		g.clearCell(c.X, c.Y)
	}
}

func (g *Grid) setCell(x, y int) {
	g.rows[y] |= 1 << uint(x)
	g.hash ^= zobristKeys[x][y]
	if g.rows[y] == g.fullMask {
		g.fullRows = append(g.fullRows, y)
	}
	st := g.stacks[x]
	if y > g.relief[x] {
		g.gaps[x] += y - g.relief[x] - 1
		g.relief[x] = y
		g.stacks[x] = append(st, y)
		return
	}
	// Filling a covered cell: splice into the sorted stack.
	pos := sort.SearchInts(st, y)
	st = append(st, 0)
	copy(st[pos+1:], st[pos:])
	st[pos] = y
	g.stacks[x] = st
	g.gaps[x]--
}

func (g *Grid) clearCell(x, y int) {
	if g.rows[y] == g.fullMask {
		g.dropFullRow(y)
	}
	g.rows[y] &^= 1 << uint(x)
	g.hash ^= zobristKeys[x][y]
	st := g.stacks[x]
	n := len(st)
	if y == g.relief[x] {
		g.stacks[x] = st[:n-1]
		if n == 1 {
			g.relief[x] = -1
			g.gaps[x] = 0
			return
		}
		g.relief[x] = st[n-2]
		g.gaps[x] -= y - g.relief[x] - 1
		return
	}
	pos := sort.SearchInts(st, y)
	copy(st[pos:], st[pos+1:])
	g.stacks[x] = st[:n-1]
	g.gaps[x]++
}

// dropFullRow removes y from the full-row list by last-swap.
func (g *Grid) dropFullRow(y int) {
	for i, fy := range g.fullRows {
		if fy == y {
			last := len(g.fullRows) - 1
			g.fullRows[i] = g.fullRows[last]
			g.fullRows = g.fullRows[:last]
			return
		}
	}
}

// ClearLines removes every full row, compacts the rows above it
// downward with relative order preserved, and returns the number of
// rows removed. The per-column indices are rebuilt from the surviving
// cells.
func (g *Grid) ClearLines() int {
	if len(g.fullRows) == 0 {
		return 0
	}
	top := g.ReliefMax()
	write := g.fullRows[0]
	for _, y := range g.fullRows[1:] {
		if y < write {
			write = y
		}
	}

	// Everything from the lowest full row up gets rehashed: XOR the
	// region out, compact, XOR the survivors back in at their new rows.
	for y := write; y <= top; y++ {
		g.xorRowHash(y)
	}
	k := write
	for y := write; y <= top; y++ {
		if g.rows[y] != g.fullMask {
			g.rows[k] = g.rows[y]
			k++
		}
	}
	removed := top + 1 - k
	for y := k; y <= top; y++ {
		g.rows[y] = 0
	}
	for y := write; y < k; y++ {
		g.xorRowHash(y)
	}

	g.fullRows = g.fullRows[:0]
	g.rebuildColumns()
	g.totalCleared += removed
	g.lastCleared = removed
	return removed
}

func (g *Grid) xorRowHash(y int) {
	row := g.rows[y]
	for row != 0 {
		x := bits.TrailingZeros64(row)
		g.hash ^= zobristKeys[x][y]
		row &= row - 1
	}
}

// rebuildColumns recomputes relief, gaps, and stacks from the row
// masks. O(width x height); only line clearing pays it.
func (g *Grid) rebuildColumns() {
	for x := 0; x < g.width; x++ {
		st := g.stacks[x][:0]
		for y := 0; y < g.height; y++ {
			if g.rows[y]>>uint(x)&1 == 1 {
				st = append(st, y)
			}
		}
		g.stacks[x] = st
		if len(st) == 0 {
			g.relief[x] = -1
			g.gaps[x] = 0
			continue
		}
		g.relief[x] = st[len(st)-1]
		g.gaps[x] = g.relief[x] + 1 - len(st)
	}
}

// CopyInto copies the full observable state of g into dst. The grids
// must have identical dimensions; otherwise dst is untouched.
func (g *Grid) CopyInto(dst *Grid) error {
	if dst == nil || dst.width != g.width || dst.height != g.height {
		return ErrDimensionMismatch
	}
	copy(dst.rows, g.rows)
	copy(dst.relief, g.relief)
	copy(dst.gaps, g.gaps)
	for x := 0; x < g.width; x++ {
		dst.stacks[x] = append(dst.stacks[x][:0], g.stacks[x]...)
	}
	dst.fullRows = append(dst.fullRows[:0], g.fullRows...)
	dst.hash = g.hash
	dst.totalCleared = g.totalCleared
	dst.lastCleared = g.lastCleared
	return nil
}

// TetrisReady reports whether the field has a well ready for an
// I-piece: a column at least 4 below both neighbors (field edges count
// as walls) with the four cells above its surface empty. Returns the
// well column when found.
func (g *Grid) TetrisReady() (int, bool) {
	for x := 0; x < g.width; x++ {
		h := g.relief[x] + 1
		left := g.height
		if x > 0 {
			left = g.relief[x-1] + 1
		}
		right := g.height
		if x < g.width-1 {
			right = g.relief[x+1] + 1
		}
		if h+4 > left || h+4 > right {
			continue
		}
		clear := true
		for y := h; y < h+4; y++ {
			if y >= g.height || g.rows[y]>>uint(x)&1 == 1 {
				clear = false
				break
			}
		}
		if clear {
			return x, true
		}
	}
	return 0, false
}
