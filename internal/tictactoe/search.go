package tictactoe

import (
	"math"

	"github.com/rocketscienceinc/xo-engine/internal/entity"
)

const (
	// lossScore is reported for a board whose last move completed a line:
	// the player now to act has lost.
	lossScore = -1
	drawScore = 0
)

// Result is the outcome of a search. Found is false when the board has no empty cell.
type Result struct {
	Score int
	Move  entity.Move
	Found bool
}

// BestMove runs a full-depth minimax over every remaining continuation and
// returns the move with the best guaranteed score for mark. Ties keep the
// first move in row-major order, so identical inputs give identical moves.
func BestMove(board entity.Board, mark entity.Cell) Result {
	return search(&board, mark, nil)
}

func search(board *entity.Board, mark entity.Cell, last *entity.Move) Result {
	if last != nil && HasWin(board, last.Row, last.Col) {
		return Result{Score: lossScore, Move: *last}
	}

	best := Result{Score: math.MinInt}
	for row := 0; row < entity.BoardSize; row++ {
		for col := 0; col < entity.BoardSize; col++ {
			if board.Get(row, col) != entity.Empty {
				continue
			}

			move := entity.Move{Row: row, Col: col}
			child := board.Clone()
			child.Set(row, col, mark)

			score := -search(&child, mark.Opponent(), &move).Score
			if score > best.Score {
				best = Result{Score: score, Move: move, Found: true}
			}
		}
	}

	if !best.Found {
		return Result{Score: drawScore}
	}

	return best
}
