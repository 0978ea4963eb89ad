package tictactoe

import "github.com/rocketscienceinc/xo-engine/internal/entity"

// HasWin reports whether the mark at (lastRow, lastCol) completed a line.
func HasWin(board *entity.Board, lastRow, lastCol int) bool {
	_, ok := WinningLine(board, lastRow, lastCol)
	return ok
}

// WinningLine checks only the lines passing through the last played cell: a
// completed line must contain the cell just played. It returns the first
// completed line found in the order row, column, main diagonal, anti-diagonal.
func WinningLine(board *entity.Board, lastRow, lastCol int) (entity.WinningLine, bool) {
	mark := board.Get(lastRow, lastCol)
	if mark == entity.Empty {
		return nil, false
	}

	const last = entity.BoardSize - 1

	// row
	if lineOf(board, mark, func(i int) (int, int) { return lastRow, i }) {
		return collectLine(func(i int) (int, int) { return lastRow, i }), true
	}

	// column
	if lineOf(board, mark, func(i int) (int, int) { return i, lastCol }) {
		return collectLine(func(i int) (int, int) { return i, lastCol }), true
	}

	// main diagonal
	if lastRow == lastCol {
		corner := board.Get(0, 0)
		if lineOf(board, corner, func(i int) (int, int) { return i, i }) {
			return collectLine(func(i int) (int, int) { return i, i }), true
		}
	}

	// anti-diagonal
	if lastRow == last-lastCol {
		corner := board.Get(0, last)
		if lineOf(board, corner, func(i int) (int, int) { return i, last - i }) {
			return collectLine(func(i int) (int, int) { return i, last - i }), true
		}
	}

	return nil, false
}

func lineOf(board *entity.Board, mark entity.Cell, at func(i int) (int, int)) bool {
	for i := 0; i < entity.BoardSize; i++ {
		if board.Get(at(i)) != mark {
			return false
		}
	}

	return true
}

func collectLine(at func(i int) (int, int)) entity.WinningLine {
	line := make(entity.WinningLine, 0, entity.BoardSize)
	for i := 0; i < entity.BoardSize; i++ {
		row, col := at(i)
		line = append(line, entity.Move{Row: row, Col: col})
	}

	return line
}
