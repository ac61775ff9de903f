package game

import (
	"testing"

	"github.com/jserv/auto-tetris-sub000/internal/tetromino"
)

func TestPlayTerminates(t *testing.T) {
	g, err := New(tetromino.NewRand(42))
	if err != nil {
		t.Fatal(err)
	}

	res := g.Play(300)
	if res.Pieces == 0 {
		t.Fatal("no pieces were placed")
	}
	if res.Pieces > 300 {
		t.Fatalf("piece budget exceeded: %d", res.Pieces)
	}
	if !g.Over() && res.Pieces != 300 {
		t.Error("game stopped early without topping out")
	}
	if res.Score < 0 || res.Lines < 0 {
		t.Errorf("negative result: %+v", res)
	}
	if res.Level != res.Lines/10 {
		t.Errorf("level %d inconsistent with %d lines", res.Level, res.Lines)
	}
	t.Logf("pieces=%d lines=%d score=%d", res.Pieces, res.Lines, res.Score)
}

func TestPlayDeterministic(t *testing.T) {
	a, err := New(tetromino.NewRand(7))
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(tetromino.NewRand(7))
	if err != nil {
		t.Fatal(err)
	}

	ra := a.Play(200)
	rb := b.Play(200)
	if ra.Pieces != rb.Pieces || ra.Lines != rb.Lines || ra.Score != rb.Score {
		t.Errorf("same seed diverged: %+v vs %+v", ra, rb)
	}
}

func TestAIClearsLines(t *testing.T) {
	if testing.Short() {
		t.Skip("full game in -short mode")
	}
	g, err := New(tetromino.NewRand(1))
	if err != nil {
		t.Fatal(err)
	}
	res := g.Play(MaxPieces)
	if res.Lines == 0 {
		t.Error("the AI cleared no lines over a whole game")
	}
}

func TestStepAfterGameOver(t *testing.T) {
	g, err := New(tetromino.NewRand(3))
	if err != nil {
		t.Fatal(err)
	}
	g.over = true
	if g.Step() {
		t.Error("Step must refuse to run a finished game")
	}
}

func TestGridInvariantsAfterPlay(t *testing.T) {
	g, err := New(tetromino.NewRand(9))
	if err != nil {
		t.Fatal(err)
	}
	g.Play(100)

	f := g.Grid()
	if f.FullRowCount() != 0 {
		t.Error("full rows survived a step")
	}
	for x := 0; x < f.Width(); x++ {
		relief := -1
		for y := 0; y < f.Height(); y++ {
			if f.Occupied(x, y) {
				relief = y
			}
		}
		if relief != f.Relief(x) {
			t.Errorf("relief[%d] = %d, recomputed %d", x, f.Relief(x), relief)
		}
	}
}
