package opponent

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandom_Choose(t *testing.T) {
	t.Run("Always picks a legal move", func(t *testing.T) {
		// Given: a seeded random policy
		policy := NewRandom(rand.New(rand.NewPCG(3, 5)))
		legal := []int{1, 4, 6}
		seen := map[int]int{}

		// When: it chooses many times
		for range 3000 {
			move, err := policy.Choose(legal)
			require.NoError(t, err)
			seen[move]++
		}

		// Then: every legal move shows up and nothing else does
		assert.Len(t, seen, len(legal))
		for _, move := range legal {
			assert.Greater(t, seen[move], 800, "move %d chosen too rarely", move)
		}
	})

	t.Run("Empty set", func(t *testing.T) {
		policy := NewRandom(rand.New(rand.NewPCG(1, 1)))

		_, err := policy.Choose(nil)

		assert.ErrorIs(t, err, ErrNoLegalMoves)
	})
}

func TestFirst(t *testing.T) {
	move, err := First.Choose([]int{5, 2, 7})
	require.NoError(t, err)
	assert.Equal(t, 2, move)

	_, err = First.Choose([]int{})
	assert.ErrorIs(t, err, ErrNoLegalMoves)
}
