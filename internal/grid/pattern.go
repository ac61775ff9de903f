package grid

import (
	"errors"
	"strings"
)

// ErrBadPattern reports a malformed textual field picture.
var ErrBadPattern = errors.New("grid: bad pattern")

// FromPattern builds a grid from a textual field picture: one string
// per row, top row first, '#' for occupied and '.' for empty. Handy
// for tests and debugging dumps.
func FromPattern(lines []string) (*Grid, error) {
	height := len(lines)
	if height == 0 {
		return nil, ErrBadPattern
	}
	width := len(lines[0])
	g, err := New(height, width)
	if err != nil {
		return nil, err
	}
	for i, line := range lines {
		if len(line) != width {
			return nil, ErrBadPattern
		}
		y := height - 1 - i
		for x, ch := range line {
			switch ch {
			case '#':
				g.setCell(x, y)
			case '.':
			default:
				return nil, ErrBadPattern
			}
		}
	}
	return g, nil
}

// String renders the field in FromPattern's format, top row first.
func (g *Grid) String() string {
	var sb strings.Builder
	for y := g.height - 1; y >= 0; y-- {
		for x := 0; x < g.width; x++ {
			if g.rows[y]>>uint(x)&1 == 1 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		if y > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
