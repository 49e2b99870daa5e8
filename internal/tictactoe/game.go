package tictactoe

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
)

const (
	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""
)

const (
	OutcomeNone = ""
	OutcomeWin  = "win"
	OutcomeDraw = "draw"
)

var (
	ErrInvalidCell = errors.New("invalid cell index")

	// WinCombos are checked in this order: rows, columns, diagonals.
	WinCombos = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

type Result struct {
	Outcome string `json:"outcome"`
	Winner  string `json:"winner"`
	Cells   []int  `json:"cells,omitempty"`
}

// Snapshot is the read-only view of a game handed to the calling layer.
type Snapshot struct {
	Board  [9]string `json:"board"`
	Turn   string    `json:"turn"`
	Result Result    `json:"result"`
}

type Game struct {
	board  [9]string
	turn   string
	result Result
}

func NewGame() *Game {
	return &Game{turn: PlayerX}
}

// Place - puts the current player's mark on cell.
func (that *Game) Place(cell int) error {
	if err := that.validateMove(cell); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrIllegalMove, err)
	}

	player := that.turn
	that.board[cell] = player
	that.updateGameStatus(player)

	return nil
}

// validateMove - checks if the move is valid.
func (that *Game) validateMove(cell int) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if cell < 0 || cell >= len(that.board) {
		return fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	if that.board[cell] != EmptyCell {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	return nil
}

// updateGameStatus - checks the game status after a move.
func (that *Game) updateGameStatus(player string) {
	if combo, ok := winningCombo(that.board); ok {
		that.result = Result{Outcome: OutcomeWin, Winner: player, Cells: combo[:]}
		return
	}

	if isFull(that.board) {
		that.result = Result{Outcome: OutcomeDraw}
		return
	}

	that.turn = toggleMark(player)
}

func toggleMark(currentMark string) string {
	if currentMark == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func winningCombo(board [9]string) ([3]int, bool) {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return combo, true
		}
	}

	return [3]int{}, false
}

// the game will continue until all the squares are full
func isFull(board [9]string) bool {
	for _, cell := range board {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// LegalCells - indexes of empty cells, empty once the game is over.
func (that *Game) LegalCells() []int {
	if that.IsFinished() {
		return nil
	}

	cells := make([]int, 0, len(that.board))
	for i, cell := range that.board {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}

	return cells
}

func (that *Game) Board() [9]string {
	return that.board
}

func (that *Game) Turn() string {
	return that.turn
}

func (that *Game) Result() Result {
	result := that.result
	result.Cells = slices.Clone(that.result.Cells)
	return result
}

func (that *Game) IsFinished() bool {
	return that.result.Outcome != OutcomeNone
}

func (that *Game) Snapshot() Snapshot {
	return Snapshot{
		Board:  that.board,
		Turn:   that.turn,
		Result: that.Result(),
	}
}

func (that *Game) Reset() {
	*that = Game{turn: PlayerX}
}

func (that *Game) Clone() *Game {
	clone := *that
	clone.result.Cells = slices.Clone(that.result.Cells)
	return &clone
}
