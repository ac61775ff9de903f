package tetromino

// dirVec maps a direction to its unit translation.
var dirVec = [numDirections]Coord{
	Bot:   {0, -1},
	Left:  {-1, 0},
	Top:   {0, 1},
	Right: {1, 0},
}

// Block is a placement of a shape: a rotation index plus an integer
// offset. Pure kinematics; collision-aware movement lives in the grid
// package.
type Block struct {
	Shape *Shape
	Rot   int
	Off   Coord
}

// NewBlock returns a block for shape s at rotation 0, offset (0, 0).
func NewBlock(s *Shape) Block {
	return Block{Shape: s}
}

// Cell returns the absolute coordinate of the i-th cell. The second
// return is false for an out-of-range index or an uninitialized block.
func (b *Block) Cell(i int) (Coord, bool) {
	if b.Shape == nil || i < 0 || i >= MaxBlockLen {
		return Coord{}, false
	}
	c := b.Shape.Rot[b.Rot][i]
	return Coord{b.Off.X + c.X, b.Off.Y + c.Y}, true
}

// Rotate turns the block by amount quarter turns, wrapping modulo the
// shape's distinct rotation count. Negative amounts rotate back.
func (b *Block) Rotate(amount int) {
	if b.Shape == nil {
		return
	}
	n := b.Shape.NRot
	b.Rot = ((b.Rot+amount)%n + n) % n
}

// Move translates the block by amount cells along d.
func (b *Block) Move(d Direction, amount int) {
	b.Off.X += dirVec[d].X * amount
	b.Off.Y += dirVec[d].Y * amount
}

// Extreme returns the outermost occupied coordinate of the block along
// d: the column of the left/right edge or the row of the bottom/top
// edge.
func (b *Block) Extreme(d Direction) int {
	wh := b.Shape.RotWH[b.Rot]
	switch d {
	case Left:
		return b.Off.X
	case Bot:
		return b.Off.Y
	case Right:
		return b.Off.X + wh.X - 1
	default:
		return b.Off.Y + wh.Y - 1
	}
}
