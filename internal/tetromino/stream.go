package tetromino

// StreamLen is the lookahead depth of the shape stream.
const StreamLen = 3

// Stream is a lazy ring buffer of upcoming shapes backed by a 7-bag.
// Slots materialize on first peek; Pop retires slot 0 and advances the
// ring. Peek never consumes from the bag twice for the same slot.
type Stream struct {
	slots [StreamLen]*Shape
	iter  int
	bag   *bag
}

// NewStream returns a stream drawing from a fresh 7-bag over rng.
func NewStream(rng *Rand) *Stream {
	return &Stream{bag: newBag(rng)}
}

// Peek returns the shape i positions ahead without advancing, for
// i in [0, StreamLen). Out-of-range i returns nil.
func (s *Stream) Peek(i int) *Shape {
	if i < 0 || i >= StreamLen {
		return nil
	}
	slot := (s.iter + i) % StreamLen
	if s.slots[slot] == nil {
		s.slots[slot] = Get(s.bag.next())
	}
	return s.slots[slot]
}

// Pop returns the next shape and advances the stream.
func (s *Stream) Pop() *Shape {
	sh := s.Peek(0)
	s.slots[s.iter%StreamLen] = nil
	s.iter++
	return sh
}

// ResetBag discards undealt bag contents. Test hook; call between
// games, never mid-search.
func (s *Stream) ResetBag() {
	s.bag.reset()
}
