// Package game drives complete AI games: spawn a piece, ask the search
// for a placement, apply it, clear lines, score. Single-threaded; the
// loop yields to nothing inside a step.
package game

import (
	"time"

	"github.com/jserv/auto-tetris-sub000/internal/engine"
	"github.com/jserv/auto-tetris-sub000/internal/grid"
	"github.com/jserv/auto-tetris-sub000/internal/tetromino"
)

// MaxPieces caps a benchmark game so a strong weight vector cannot run
// forever.
const MaxPieces = 5000

// Result summarizes one finished game.
type Result struct {
	Pieces   int
	Lines    int
	Tetrises int
	Score    int
	Level    int
	Duration time.Duration
}

// Game owns a playfield, a shape stream, and the search AI, and plays
// pieces until the field tops out.
type Game struct {
	grid   *grid.Grid
	stream *tetromino.Stream
	ai     *engine.AI

	score    int
	lines    int
	tetrises int
	pieces   int
	over     bool
}

// New returns a game on the default 14x20 field with the default
// weights, drawing shapes from rng.
func New(rng *tetromino.Rand) (*Game, error) {
	g, err := grid.New(grid.Height, grid.Width)
	if err != nil {
		return nil, err
	}
	ai, err := engine.NewAI(grid.Height, grid.Width, engine.DefaultWeights)
	if err != nil {
		return nil, err
	}
	return &Game{
		grid:   g,
		stream: tetromino.NewStream(rng),
		ai:     ai,
	}, nil
}

// Grid exposes the playfield for rendering and inspection.
func (g *Game) Grid() *grid.Grid { return g.grid }

// Score returns the accumulated NES score.
func (g *Game) Score() int { return g.score }

// Lines returns the total lines cleared.
func (g *Game) Lines() int { return g.lines }

// Pieces returns the number of pieces placed.
func (g *Game) Pieces() int { return g.pieces }

// Over reports whether the game has topped out.
func (g *Game) Over() bool { return g.over }

// Step plays one piece: the head of the stream spawns, the AI picks a
// placement, and the piece is committed. Returns false once the game
// is over.
func (g *Game) Step() bool {
	if g.over {
		return false
	}
	sh := g.stream.Peek(0)
	if sh == nil {
		g.over = true
		return false
	}

	block := tetromino.NewBlock(sh)
	if !g.grid.Spawn(&block) {
		g.over = true
		return false
	}

	// The search leaves the current piece at stream index 0 and looks
	// ahead from index 1.
	if mv := g.ai.FindBest(g.grid, &block, g.stream); mv != nil {
		placed := block
		placed.Rot = mv.Rot
		placed.Off.X = mv.Col
		if !g.grid.Collides(&placed) {
			block = placed
		}
	}
	// A nil move means no placement validated; hard-drop the spawn
	// position and let the field top out on its own.

	g.grid.Drop(&block)
	g.grid.Add(&block)
	cleared := g.grid.ClearLines()

	g.score += engine.Points(cleared, engine.Level(g.lines))
	g.lines += cleared
	if cleared == 4 {
		g.tetrises++
	}

	g.stream.Pop()
	g.pieces++
	return true
}

// Play runs the game to completion or until maxPieces pieces have been
// placed, whichever comes first. A maxPieces of 0 or less means
// MaxPieces.
func (g *Game) Play(maxPieces int) Result {
	if maxPieces <= 0 {
		maxPieces = MaxPieces
	}
	start := time.Now()
	for g.pieces < maxPieces && g.Step() {
	}
	return Result{
		Pieces:   g.pieces,
		Lines:    g.lines,
		Tetrises: g.tetrises,
		Score:    g.score,
		Level:    engine.Level(g.lines),
		Duration: time.Since(start),
	}
}
