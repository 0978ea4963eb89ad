package entity

// BoardSize is the side length of the square board.
const BoardSize = 3

// Cell holds the occupancy of a single board square.
type Cell uint8

const (
	Empty Cell = iota
	PlayerA
	PlayerB
)

// Mark returns the symbol shown for the cell.
func (c Cell) Mark() string {
	switch c {
	case PlayerA:
		return "X"
	case PlayerB:
		return "O"
	default:
		return ""
	}
}

// Opponent returns the other player's cell value. Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	default:
		return Empty
	}
}

// Move is a (row, column) pair on the board.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// WinningLine lists the coordinates of a completed line in scan order.
type WinningLine []Move

// Board is a fixed-size grid. Being an array, assigning a Board copies it.
type Board [BoardSize][BoardSize]Cell

func (that *Board) Get(row, col int) Cell {
	return that[row][col]
}

func (that *Board) Set(row, col int, value Cell) {
	that[row][col] = value
}

// Clone returns an independent copy of the board.
func (that *Board) Clone() Board {
	return *that
}

// InBounds reports whether (row, col) addresses a square of the board.
func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// EmptyCells lists the empty squares in row-major order.
func (that *Board) EmptyCells() []Move {
	moves := make([]Move, 0, BoardSize*BoardSize)
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if that[row][col] == Empty {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}

	return moves
}

// Marks renders the board as rows of symbols, empty squares as "".
func (that *Board) Marks() [][]string {
	rows := make([][]string, BoardSize)
	for row := range rows {
		rows[row] = make([]string, BoardSize)
		for col := range rows[row] {
			rows[row][col] = that[row][col].Mark()
		}
	}

	return rows
}
