package tetromino

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// expected distinct rotation counts per shape.
var wantNRot = map[string]int{
	"I": 2, "J": 4, "L": 4, "O": 1, "S": 2, "T": 4, "Z": 2,
}

var wantMaxDim = map[string]int{
	"I": 4, "J": 3, "L": 3, "O": 2, "S": 3, "T": 3, "Z": 3,
}

func TestCatalog(t *testing.T) {
	require.Equal(t, NumShapes, Count())
	require.Nil(t, Get(-1))
	require.Nil(t, Get(NumShapes))

	seen := map[string]bool{}
	for i := 0; i < Count(); i++ {
		s := Get(i)
		require.NotNil(t, s)
		require.Equal(t, i, s.Index)
		require.False(t, seen[s.Name], "duplicate shape name %q", s.Name)
		seen[s.Name] = true
		require.Equal(t, wantNRot[s.Name], s.NRot, "shape %s", s.Name)
		require.Equal(t, wantMaxDim[s.Name], s.MaxDimLen, "shape %s", s.Name)
	}
}

func TestRotationsNormalizedAndDistinct(t *testing.T) {
	for i := 0; i < Count(); i++ {
		s := Get(i)
		masks := map[uint16]int{}
		for r := 0; r < s.NRot; r++ {
			cells := s.Rot[r]

			minX, minY := cells[0].X, cells[0].Y
			for _, c := range cells[1:] {
				if c.X < minX {
					minX = c.X
				}
				if c.Y < minY {
					minY = c.Y
				}
			}
			require.Equal(t, 0, minX, "%s rot %d not normalized in X", s.Name, r)
			require.Equal(t, 0, minY, "%s rot %d not normalized in Y", s.Name, r)

			// exactly 4 distinct cells inside the bounding box
			unique := map[Coord]bool{}
			for _, c := range cells {
				require.Less(t, c.X, s.RotWH[r].X)
				require.Less(t, c.Y, s.RotWH[r].Y)
				unique[c] = true
			}
			require.Len(t, unique, MaxBlockLen, "%s rot %d", s.Name, r)

			m := cellMask(cells)
			prev, dup := masks[m]
			require.False(t, dup, "%s rot %d duplicates rot %d", s.Name, r, prev)
			masks[m] = r
		}
	}
}

func TestCrust(t *testing.T) {
	for i := 0; i < Count(); i++ {
		s := Get(i)
		for r := 0; r < s.NRot; r++ {
			cells := s.Rot[r]

			// Bottom crust: the lowest cell of every occupied column.
			lowest := map[int]int{}
			for _, c := range cells {
				if y, ok := lowest[c.X]; !ok || c.Y < y {
					lowest[c.X] = c.Y
				}
			}
			n := s.CrustLen[r][Bot]
			require.Equal(t, len(lowest), n, "%s rot %d bottom crust length", s.Name, r)
			for k := 0; k < n; k++ {
				c := s.Crust[r][Bot][k]
				require.Equal(t, lowest[c.X], c.Y, "%s rot %d column %d", s.Name, r, c.X)
			}

			// Right crust: the rightmost cell of every occupied row.
			rightmost := map[int]int{}
			for _, c := range cells {
				if x, ok := rightmost[c.Y]; !ok || c.X > x {
					rightmost[c.Y] = c.X
				}
			}
			n = s.CrustLen[r][Right]
			require.Equal(t, len(rightmost), n)
			for k := 0; k < n; k++ {
				c := s.Crust[r][Right][k]
				require.Equal(t, rightmost[c.Y], c.X)
			}
		}
	}
}

func TestIPieceCells(t *testing.T) {
	var ip *Shape
	for i := 0; i < Count(); i++ {
		if Get(i).Name == "I" {
			ip = Get(i)
		}
	}
	require.NotNil(t, ip)
	require.Equal(t, Coord{4, 1}, ip.RotWH[0])
	require.Equal(t, Coord{1, 4}, ip.RotWH[1])
	require.Equal(t, 4, ip.CrustLen[0][Bot])
	require.Equal(t, 1, ip.CrustLen[1][Bot])
}
