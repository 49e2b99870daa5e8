package opponent

import (
	"errors"
	"slices"
	"sync"
)

var ErrNoLegalMoves = errors.New("no legal moves")

// Policy picks one move out of the legal set. Moves are column indexes for
// the connector game and cell indexes for tic-tac-toe.
type Policy interface {
	Choose(legal []int) (int, error)
}

type PolicyFunc func(legal []int) (int, error)

func (that PolicyFunc) Choose(legal []int) (int, error) {
	return that(legal)
}

// Rand is satisfied by *rand.Rand from math/rand/v2.
type Rand interface {
	IntN(n int) int
}

type random struct {
	mu  sync.Mutex
	rnd Rand
}

// NewRandom - uniform choice among legal moves. The result is safe for concurrent use.
func NewRandom(rnd Rand) Policy {
	return &random{rnd: rnd}
}

func (that *random) Choose(legal []int) (int, error) {
	if len(legal) == 0 {
		return 0, ErrNoLegalMoves
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	return legal[that.rnd.IntN(len(legal))], nil
}

// First always plays the lowest legal move.
var First = PolicyFunc(func(legal []int) (int, error) {
	if len(legal) == 0 {
		return 0, ErrNoLegalMoves
	}

	return slices.Min(legal), nil
})
