package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
)

func placeAll(t *testing.T, game *Game, cells ...int) {
	t.Helper()

	for _, cell := range cells {
		require.NoError(t, game.Place(cell), "place on cell %d", cell)
	}
}

func TestNewGame(t *testing.T) {
	// When: create a new game instance
	game := NewGame()

	// Then: the game should have the expected initial state
	expected := Snapshot{
		Board: [9]string{EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell},
		Turn:  PlayerX,
	}

	require.Equal(t, expected, game.Snapshot())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, game.LegalCells())
}

func TestGame_Place(t *testing.T) {
	t.Run("Successful move", func(t *testing.T) {
		// Given: We have a new game
		game := NewGame()

		// When: X places a mark on cell 0
		err := game.Place(0)
		require.NoError(t, err)

		// Then: the game state should reflect the move and turn change
		expected := Snapshot{
			Board: [9]string{PlayerX, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell},
			Turn:  PlayerO,
		}

		require.Equal(t, expected, game.Snapshot())
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		// Given: A game where cell 0 is taken by X
		game := NewGame()
		placeAll(t, game, 0)
		before := game.Snapshot()

		// When: O tries to move to the same occupied cell
		err := game.Place(0)

		// Then: An illegal move error should be returned
		require.ErrorIs(t, err, apperror.ErrIllegalMove)
		require.ErrorIs(t, err, apperror.ErrCellOccupied)

		// Then: the game state should remain unchanged
		require.Equal(t, before, game.Snapshot())
	})

	t.Run("Invalid Cell", func(t *testing.T) {
		// Given: A new game instance
		game := NewGame()

		// When: an invalid cell index is passed (outside the board range)
		err := game.Place(20)

		// Then: ErrInvalidCell should be returned
		assert.ErrorIs(t, err, ErrInvalidCell)
		assert.ErrorIs(t, err, apperror.ErrIllegalMove)
	})

	t.Run("Invalid Negative Cell", func(t *testing.T) {
		game := NewGame()

		err := game.Place(-1)

		assert.ErrorIs(t, err, ErrInvalidCell)
	})

	t.Run("X wins on the main diagonal", func(t *testing.T) {
		// Given: X on 0 and 4, O on 1 and 2
		game := NewGame()
		placeAll(t, game, 0, 1, 4, 2)

		// When: X places on 8
		err := game.Place(8)
		require.NoError(t, err)

		// Then: X wins with cells 0, 4, 8
		result := game.Result()
		assert.Equal(t, OutcomeWin, result.Outcome)
		assert.Equal(t, PlayerX, result.Winner)
		assert.Equal(t, []int{0, 4, 8}, result.Cells)
		assert.True(t, game.IsFinished())
		assert.Empty(t, game.LegalCells())

		// And: the turn stays frozen on the winner
		assert.Equal(t, PlayerX, game.Turn())
	})

	t.Run("O wins on a column", func(t *testing.T) {
		game := NewGame()
		placeAll(t, game, 0, 2, 3, 5, 7, 8)

		result := game.Result()
		assert.Equal(t, PlayerO, result.Winner)
		assert.Equal(t, []int{2, 5, 8}, result.Cells)
	})

	t.Run("Move after game finished", func(t *testing.T) {
		// Given: A game where X has already won
		game := NewGame()
		placeAll(t, game, 0, 3, 1, 4, 2)
		before := game.Snapshot()

		// When: O tries to make a move after the game has finished
		err := game.Place(5)

		// Then: an ErrGameFinished error should be returned
		assert.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Equal(t, before, game.Snapshot())
	})

	t.Run("Draw", func(t *testing.T) {
		// Given: a sequence that fills the board with no line
		//  X O X
		//  X O O
		//  O X X
		game := NewGame()
		placeAll(t, game, 0, 1, 2, 4, 3, 5, 7, 6, 8)

		// Then: the game should be declared a draw
		result := game.Result()
		assert.Equal(t, OutcomeDraw, result.Outcome)
		assert.Equal(t, EmptyCell, result.Winner)
		assert.Empty(t, result.Cells)

		// And: no further move is accepted
		assert.ErrorIs(t, game.Place(0), apperror.ErrGameFinished)
	})
}

func TestWinningCombo(t *testing.T) {
	t.Run("Winner X", func(t *testing.T) {
		board := [9]string{PlayerX, PlayerO, EmptyCell, PlayerX, PlayerO, EmptyCell, PlayerX, EmptyCell, EmptyCell}

		combo, ok := winningCombo(board)

		require.True(t, ok)
		assert.Equal(t, [3]int{0, 3, 6}, combo)
	})

	t.Run("Ongoing", func(t *testing.T) {
		board := [9]string{PlayerX, PlayerO, PlayerX, EmptyCell, PlayerO, EmptyCell, PlayerX, EmptyCell, EmptyCell}

		_, ok := winningCombo(board)

		assert.False(t, ok)
		assert.False(t, isFull(board))
	})

	t.Run("Rows take priority over diagonals", func(t *testing.T) {
		board := [9]string{PlayerX, PlayerX, PlayerX, EmptyCell, PlayerX, EmptyCell, EmptyCell, EmptyCell, PlayerX}

		combo, _ := winningCombo(board)

		assert.Equal(t, [3]int{0, 1, 2}, combo)
	})
}

func TestGame_Reset(t *testing.T) {
	game := NewGame()
	placeAll(t, game, 0, 3, 1, 4, 2)

	game.Reset()

	assert.Equal(t, NewGame().Snapshot(), game.Snapshot())
}

func TestGame_Clone(t *testing.T) {
	game := NewGame()
	placeAll(t, game, 0, 3, 1, 4)

	clone := game.Clone()
	require.NoError(t, clone.Place(2))

	assert.True(t, clone.IsFinished())
	assert.False(t, game.IsFinished())
	assert.Empty(t, game.Board()[2])
	assert.Equal(t, PlayerX, game.Turn())
}
