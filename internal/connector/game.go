package connector

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
)

var ErrInvalidColumn = errors.New("invalid column index")

// axes are the four line directions checked from the last placed piece.
var axes = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal down-right
	{1, -1}, // diagonal down-left
}

type Game struct {
	board  Board
	turn   Piece
	result Result
}

func NewGame() *Game {
	return &Game{turn: Red}
}

// Drop - drops the current player's piece into column and returns the cell it landed on.
// A rejected drop leaves the game untouched.
func (that *Game) Drop(column int) (Cell, error) {
	if that.IsFinished() {
		return Cell{}, fmt.Errorf("%w: %w", apperror.ErrIllegalMove, apperror.ErrGameFinished)
	}

	if column < 0 || column >= Columns {
		return Cell{}, fmt.Errorf("%w: %w: column %d", apperror.ErrIllegalMove, ErrInvalidColumn, column)
	}

	row := that.lowestEmptyRow(column)
	if row < 0 {
		return Cell{}, fmt.Errorf("%w: %w: column %d", apperror.ErrIllegalMove, apperror.ErrColumnFull, column)
	}

	placed := Cell{Row: row, Col: column}
	player := that.turn
	that.board[row][column] = player

	switch cells := that.winningLine(placed, player); {
	case cells != nil:
		that.result = Result{Outcome: OutcomeWin, Winner: player, Cells: cells}
	case that.topRowFull():
		that.result = Result{Outcome: OutcomeDraw}
	default:
		that.turn = player.Opponent()
	}

	return placed, nil
}

// lowestEmptyRow scans bottom-up; -1 means the column is full.
func (that *Game) lowestEmptyRow(column int) int {
	for row := Rows - 1; row >= 0; row-- {
		if that.board[row][column] == Empty {
			return row
		}
	}
	return -1
}

// winningLine walks each axis up to WinLength-1 cells forward and backward from placed
// and returns the contiguous run once it reaches WinLength.
func (that *Game) winningLine(placed Cell, player Piece) []Cell {
	for _, axis := range axes {
		cells := []Cell{placed}

		for _, sign := range [2]int{1, -1} {
			for step := 1; step < WinLength; step++ {
				r := placed.Row + sign*step*axis[0]
				c := placed.Col + sign*step*axis[1]
				if !inBounds(r, c) || that.board[r][c] != player {
					break
				}
				cells = append(cells, Cell{Row: r, Col: c})
			}
		}

		if len(cells) >= WinLength {
			return cells
		}
	}

	return nil
}

func (that *Game) topRowFull() bool {
	for _, piece := range that.board[0] {
		if piece == Empty {
			return false
		}
	}
	return true
}

func inBounds(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Columns
}

// LegalColumns - columns that still accept a piece, empty once the game is over.
func (that *Game) LegalColumns() []int {
	if that.IsFinished() {
		return nil
	}

	columns := make([]int, 0, Columns)
	for col := range Columns {
		if that.board[0][col] == Empty {
			columns = append(columns, col)
		}
	}

	return columns
}

func (that *Game) Board() Board {
	return that.board
}

// Turn - the player to move; frozen once the game is finished.
func (that *Game) Turn() Piece {
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
	*that = Game{turn: Red}
}

// Clone - an independent copy; moves on one do not show on the other.
func (that *Game) Clone() *Game {
	clone := *that
	clone.result.Cells = slices.Clone(that.result.Cells)
	return &clone
}
