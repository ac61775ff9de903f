// Package tetromino implements the seven tetromino shapes, block
// placement kinematics, and the randomized shape supply (7-bag and
// lookahead stream).
package tetromino

// Coord is a playfield coordinate. X is the column (0 = leftmost),
// Y is the row (0 = bottom).
type Coord struct {
	X, Y int
}

// Direction indexes the four sides of a shape or the playfield.
type Direction int

const (
	Bot Direction = iota
	Left
	Top
	Right

	numDirections
)

const (
	// MaxBlockLen is the number of cells in a tetromino and the upper
	// bound on any shape dimension.
	MaxBlockLen = 4

	// NumShapes is the number of distinct tetrominoes.
	NumShapes = 7
)

// Shape is one tetromino with all of its distinct rotations
// precomputed. Shapes are immutable after package init; callers share
// pointers into the catalog.
type Shape struct {
	Name  string
	Index int

	// NRot is the number of distinct rotations: 1 for O, 2 for I/S/Z,
	// 4 for J/L/T.
	NRot int

	// MaxDimLen is the larger of width and height across rotations.
	// Spawn elevation is sized from it.
	MaxDimLen int

	// Rot[r] holds the 4 cell offsets of rotation r, normalized so the
	// minimum X and Y are zero, sorted by (Y, X). Valid for r < NRot.
	Rot [MaxBlockLen][MaxBlockLen]Coord

	// RotWH[r] is the bounding box of rotation r.
	RotWH [MaxBlockLen]Coord

	// Crust[r][d] holds the cells of rotation r that are extremal
	// along direction d, one per perpendicular index. The bottom crust
	// is what the fast drop path walks.
	Crust    [MaxBlockLen][numDirections][MaxBlockLen]Coord
	CrustLen [MaxBlockLen][numDirections]int
}

var baseShapes = [NumShapes]struct {
	name  string
	cells [MaxBlockLen]Coord
}{
	{"I", [MaxBlockLen]Coord{{0, 0}, {1, 0}, {2, 0}, {3, 0}}},
	{"J", [MaxBlockLen]Coord{{0, 0}, {1, 0}, {2, 0}, {2, 1}}},
	{"L", [MaxBlockLen]Coord{{0, 0}, {1, 0}, {2, 0}, {0, 1}}},
	{"O", [MaxBlockLen]Coord{{0, 0}, {1, 0}, {0, 1}, {1, 1}}},
	{"S", [MaxBlockLen]Coord{{0, 0}, {1, 0}, {1, 1}, {2, 1}}},
	{"T", [MaxBlockLen]Coord{{0, 0}, {1, 0}, {2, 0}, {1, 1}}},
	{"Z", [MaxBlockLen]Coord{{1, 0}, {2, 0}, {0, 1}, {1, 1}}},
}

var shapes [NumShapes]Shape

func init() {
	for i := range shapes {
		buildShape(&shapes[i], i, baseShapes[i].name, baseShapes[i].cells)
	}
}

// Count returns the number of shapes in the catalog.
func Count() int {
	return NumShapes
}

// Get returns shape i, or nil if i is out of range.
func Get(i int) *Shape {
	if i < 0 || i >= NumShapes {
		return nil
	}
	return &shapes[i]
}

func buildShape(s *Shape, idx int, name string, base [MaxBlockLen]Coord) {
	s.Name = name
	s.Index = idx

	rot0 := sortCells(normalize(base))
	w, h := bbox(rot0)
	maxDim := w
	if h > maxDim {
		maxDim = h
	}
	s.MaxDimLen = maxDim

	var rots [MaxBlockLen][MaxBlockLen]Coord
	rots[0] = rot0
	n := MaxBlockLen
	for k := 1; k < MaxBlockLen; k++ {
		rots[k] = sortCells(normalize(rotate90(rots[k-1], maxDim)))
		if n == MaxBlockLen && cellMask(rots[k]) == cellMask(rots[0]) {
			n = k
		}
	}
	s.NRot = n

	for r := 0; r < n; r++ {
		s.Rot[r] = rots[r]
		rw, rh := bbox(rots[r])
		s.RotWH[r] = Coord{rw, rh}
		buildCrust(s, r)
	}
}

// rotate90 maps each cell (x, y) to (y, dim-1-x), a clockwise quarter
// turn inside a dim-sized pivot box.
func rotate90(cells [MaxBlockLen]Coord, dim int) [MaxBlockLen]Coord {
	var out [MaxBlockLen]Coord
	for i, c := range cells {
		out[i] = Coord{c.Y, dim - 1 - c.X}
	}
	return out
}

// normalize translates cells so the minimum X and Y are zero.
func normalize(cells [MaxBlockLen]Coord) [MaxBlockLen]Coord {
	minX, minY := cells[0].X, cells[0].Y
	for _, c := range cells[1:] {
		if c.X < minX {
			minX = c.X
		}
		if c.Y < minY {
			minY = c.Y
		}
	}
	for i := range cells {
		cells[i].X -= minX
		cells[i].Y -= minY
	}
	return cells
}

// sortCells orders cells by (Y, X) ascending. Insertion sort; four
// elements.
func sortCells(cells [MaxBlockLen]Coord) [MaxBlockLen]Coord {
	for i := 1; i < len(cells); i++ {
		c := cells[i]
		j := i - 1
		for j >= 0 && (cells[j].Y > c.Y || (cells[j].Y == c.Y && cells[j].X > c.X)) {
			cells[j+1] = cells[j]
			j--
		}
		cells[j+1] = c
	}
	return cells
}

// cellMask folds normalized cells into a 16-bit occupancy mask of the
// 4x4 pivot box. Equal masks mean equal rotations.
func cellMask(cells [MaxBlockLen]Coord) uint16 {
	var m uint16
	for _, c := range cells {
		m |= 1 << (c.Y*MaxBlockLen + c.X)
	}
	return m
}

func bbox(cells [MaxBlockLen]Coord) (w, h int) {
	for _, c := range cells {
		if c.X+1 > w {
			w = c.X + 1
		}
		if c.Y+1 > h {
			h = c.Y + 1
		}
	}
	return w, h
}

// buildCrust retains, for each perpendicular index, the cell of
// rotation r that is extremal along each direction: lowest per column
// for Bot, leftmost per row for Left, and so on.
func buildCrust(s *Shape, r int) {
	cells := s.Rot[r]
	for d := Bot; d < numDirections; d++ {
		var best [MaxBlockLen]int
		for i := range best {
			best[i] = -1
		}
		for i, c := range cells {
			p := c.X
			if d == Left || d == Right {
				p = c.Y
			}
			if best[p] < 0 {
				best[p] = i
				continue
			}
			cur := cells[best[p]]
			switch d {
			case Bot:
				if c.Y < cur.Y {
					best[p] = i
				}
			case Top:
				if c.Y > cur.Y {
					best[p] = i
				}
			case Left:
				if c.X < cur.X {
					best[p] = i
				}
			case Right:
				if c.X > cur.X {
					best[p] = i
				}
			}
		}
		n := 0
		for p := 0; p < MaxBlockLen; p++ {
			if best[p] >= 0 {
				s.Crust[r][d][n] = cells[best[p]]
				n++
			}
		}
		s.CrustLen[r][d] = n
	}
}
