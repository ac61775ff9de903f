// autotetris plays headless AI benchmark games and records the results.
package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/jserv/auto-tetris-sub000/internal/game"
	"github.com/jserv/auto-tetris-sub000/internal/storage"
	"github.com/jserv/auto-tetris-sub000/internal/tetromino"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	games      = flag.Int("games", 1, "number of games to play")
	pieces     = flag.Int("pieces", game.MaxPieces, "piece budget per game")
	seed       = flag.String("seed", "", "RNG seed (decimal); empty seeds from the OS")
	noStore    = flag.Bool("nostore", false, "skip recording results to the stats database")
	dbDir      = flag.String("db", "", "stats database directory (default: platform data dir)")
)

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	baseSeed := tetromino.SeedFromOS()
	if *seed != "" {
		v, err := strconv.ParseUint(*seed, 10, 64)
		if err != nil {
			log.Fatalf("bad -seed %q: %v", *seed, err)
		}
		baseSeed = v
	}

	var store *storage.Storage
	if !*noStore {
		var err error
		if *dbDir != "" {
			store, err = storage.Open(*dbDir)
		} else {
			store, err = storage.OpenDefault()
		}
		if err != nil {
			log.Printf("Warning: stats database unavailable: %v", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	for i := 0; i < *games; i++ {
		rng := tetromino.NewRand(baseSeed + uint64(i))
		g, err := game.New(rng)
		if err != nil {
			log.Fatal(err)
		}
		res := g.Play(*pieces)
		log.Printf("game %d/%d: pieces=%d lines=%d tetrises=%d score=%d level=%d time=%v",
			i+1, *games, res.Pieces, res.Lines, res.Tetrises, res.Score, res.Level,
			res.Duration.Round(time.Millisecond))

		if store != nil {
			rec := storage.GameRecord{
				Pieces:   res.Pieces,
				Lines:    res.Lines,
				Tetrises: res.Tetrises,
				Score:    res.Score,
				Duration: res.Duration,
			}
			if err := store.RecordGame(rec); err != nil {
				log.Printf("Warning: failed to record game: %v", err)
			}
		}
	}

	if store != nil {
		stats, err := store.LoadStats()
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("all time: games=%d lines=%d (avg %.1f) best score=%d best lines=%d",
			stats.GamesPlayed, stats.TotalLines, stats.AverageLines(),
			stats.BestScore, stats.BestLines)
	}
}
