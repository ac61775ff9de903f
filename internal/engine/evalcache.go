package engine

import (
	"github.com/jserv/auto-tetris-sub000/internal/grid"
)

const evalCacheSize = 4096

// FNV-1a constants for the profile key.
const (
	fnvOffset uint64 = 14695981039346656037
	fnvPrime  uint64 = 1099511628211
)

type evalEntry struct {
	key   uint64
	score float64
	used  bool
}

// evalCache is a direct-mapped score cache keyed by a profile of the
// playfield: column heights folded with the hole count. Two interiors
// with the same profile share an entry, so a cached score is an
// approximation, and a colliding writer simply overwrites.
type evalCache struct {
	entries [evalCacheSize]evalEntry

	hits   uint64
	probes uint64
}

// probe looks key up. The hit/probe counters feed hitRate.
func (c *evalCache) probe(key uint64) (float64, bool) {
	c.probes++
	e := &c.entries[key%evalCacheSize]
	if e.used && e.key == key {
		c.hits++
		return e.score, true
	}
	return 0, false
}

// store records score under key. Last writer wins.
func (c *evalCache) store(key uint64, score float64) {
	c.entries[key%evalCacheSize] = evalEntry{key: key, score: score, used: true}
}

// clear drops every entry and resets the counters.
func (c *evalCache) clear() {
	c.entries = [evalCacheSize]evalEntry{}
	c.hits = 0
	c.probes = 0
}

// hitRate returns the fraction of probes that hit, as a percentage.
func (c *evalCache) hitRate() float64 {
	if c.probes == 0 {
		return 0
	}
	return float64(c.hits) / float64(c.probes) * 100
}

// profileKey folds the column heights and the total hole count into an
// FNV-1a hash. Cheaper and more collision-tolerant than keying on the
// full Zobrist hash; interiors below the surface are deliberately
// ignored.
func profileKey(g *grid.Grid) uint64 {
	h := fnvOffset
	holes := 0
	for x := 0; x < g.Width(); x++ {
		h ^= uint64(uint8(g.Relief(x) + 1))
		h *= fnvPrime
		holes += g.Gaps(x)
	}
	h ^= uint64(holes)
	h *= fnvPrime
	return h
}
