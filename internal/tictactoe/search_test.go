package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/xo-engine/internal/entity"
)

const (
	x = entity.PlayerA
	o = entity.PlayerB
)

func TestBestMove(t *testing.T) {
	t.Run("Takes the winning cell", func(t *testing.T) {
		// Given: X has two in the top row and it is X's turn
		board := entity.Board{
			{x, x, entity.Empty},
			{o, o, entity.Empty},
			{entity.Empty, entity.Empty, entity.Empty},
		}

		// When: searching for X
		result := BestMove(board, x)

		// Then: X completes the row
		require.True(t, result.Found)
		assert.Equal(t, entity.Move{Row: 0, Col: 2}, result.Move)
		assert.Equal(t, 1, result.Score)
	})

	t.Run("Blocks the opponent's line", func(t *testing.T) {
		// Given: O threatens the top row and X has no immediate win
		board := entity.Board{
			{o, o, entity.Empty},
			{entity.Empty, x, entity.Empty},
			{entity.Empty, entity.Empty, x},
		}

		// When: searching for X
		result := BestMove(board, x)

		// Then: X blocks at (0,2)
		require.True(t, result.Found)
		assert.Equal(t, entity.Move{Row: 0, Col: 2}, result.Move)
	})

	t.Run("Blocks a column threat for O", func(t *testing.T) {
		// Given: X threatens the left column and it is O's turn
		board := entity.Board{
			{x, entity.Empty, entity.Empty},
			{x, o, entity.Empty},
			{entity.Empty, entity.Empty, entity.Empty},
		}

		// When: searching for O
		result := BestMove(board, o)

		// Then: O blocks at (2,0)
		require.True(t, result.Found)
		assert.Equal(t, entity.Move{Row: 2, Col: 0}, result.Move)
	})

	t.Run("Empty board is a draw and picks the first cell", func(t *testing.T) {
		// Given: an empty board
		var board entity.Board

		// When: searching for X
		result := BestMove(board, x)

		// Then: perfect play is a draw and the first best move in scan order is kept
		require.True(t, result.Found)
		assert.Equal(t, 0, result.Score)
		assert.Equal(t, entity.Move{Row: 0, Col: 0}, result.Move)
	})

	t.Run("Full board has no move", func(t *testing.T) {
		board := entity.Board{
			{x, o, x},
			{x, o, o},
			{o, x, x},
		}

		result := BestMove(board, o)

		assert.False(t, result.Found)
		assert.Equal(t, 0, result.Score)
	})

	t.Run("Does not modify the input board", func(t *testing.T) {
		board := entity.Board{
			{x, entity.Empty, entity.Empty},
			{entity.Empty, o, entity.Empty},
			{entity.Empty, entity.Empty, entity.Empty},
		}
		before := board

		_ = BestMove(board, x)

		assert.Equal(t, before, board)
	})
}

func TestBestMove_Deterministic(t *testing.T) {
	// Given: a mid-game position
	board := entity.Board{
		{x, entity.Empty, entity.Empty},
		{entity.Empty, o, entity.Empty},
		{entity.Empty, entity.Empty, x},
	}

	// When: the same search runs twice
	first := BestMove(board, o)
	second := BestMove(board, o)

	// Then: both runs agree
	assert.Equal(t, first, second)
}

// TestBestMove_NeverLoses plays the search as O against every possible
// sequence of X moves and checks that X never completes a line.
func TestBestMove_NeverLoses(t *testing.T) {
	var board entity.Board
	games := playAllReplies(t, board)

	assert.Positive(t, games)
}

func playAllReplies(t *testing.T, board entity.Board) int {
	t.Helper()

	moves := board.EmptyCells()
	if len(moves) == 0 {
		return 1
	}

	games := 0
	for _, human := range moves {
		next := board.Clone()
		next.Set(human.Row, human.Col, x)
		if HasWin(&next, human.Row, human.Col) {
			t.Fatalf("X won against the search at %v on board %v", human, next)
		}

		reply := BestMove(next, o)
		if !reply.Found {
			games++
			continue
		}

		next.Set(reply.Move.Row, reply.Move.Col, o)
		if HasWin(&next, reply.Move.Row, reply.Move.Col) {
			games++
			continue
		}

		games += playAllReplies(t, next)
	}

	return games
}
