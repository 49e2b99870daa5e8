package connector

import "fmt"

const (
	Rows      = 6
	Columns   = 7
	WinLength = 4
)

// Piece is the content of a board cell.
type Piece uint8

const (
	Empty Piece = iota
	Red
	Yellow
)

func (that Piece) String() string {
	switch that {
	case Red:
		return "RED"
	case Yellow:
		return "YELLOW"
	default:
		return ""
	}
}

// Opponent - returns the other player's piece.
func (that Piece) Opponent() Piece {
	if that == Red {
		return Yellow
	}
	return Red
}

func (that Piece) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Piece) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*that = Empty
	case "RED":
		*that = Red
	case "YELLOW":
		*that = Yellow
	default:
		return fmt.Errorf("unknown piece %q", text)
	}

	return nil
}

// Cell addresses a board position; row 0 is the top of the board.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type Board [Rows][Columns]Piece

type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeWin  Outcome = "win"
	OutcomeDraw Outcome = "draw"
)

// Result is terminal once Outcome is not OutcomeNone.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Winner  Piece   `json:"winner"`
	Cells   []Cell  `json:"cells,omitempty"`
}

type Snapshot struct {
	Board  Board  `json:"board"`
	Turn   Piece  `json:"turn"`
	Result Result `json:"result"`
}
