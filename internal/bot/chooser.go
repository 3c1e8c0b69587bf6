package bot

import (
	"math/rand/v2"
	"sync"
)

// Chooser picks an index in [0, n). Implementations must return a value in
// range for every n > 0.
type Chooser interface {
	IntN(n int) int
}

// RandomChooser draws uniformly from the process-wide generator.
type RandomChooser struct{}

// IntN returns a uniform value in [0, n).
func (RandomChooser) IntN(n int) int {
	return rand.IntN(n)
}

// SequenceChooser replays a fixed list of picks, cycling when exhausted.
// Each pick is reduced modulo n so any list is valid for any board.
type SequenceChooser struct {
	mu    sync.Mutex
	picks []int
	next  int
}

// NewSequenceChooser creates a chooser that replays picks in order.
func NewSequenceChooser(picks ...int) *SequenceChooser {
	return &SequenceChooser{picks: picks}
}

// IntN returns the next scripted pick modulo n.
func (s *SequenceChooser) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.picks) == 0 {
		return 0
	}
	pick := s.picks[s.next%len(s.picks)]
	s.next++
	if pick < 0 {
		pick = -pick
	}
	return pick % n
}
