package tictactoe

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/xo-engine/internal/apperror"
	"github.com/rocketscienceinc/xo-engine/internal/entity"
)

// TurnCompleteFunc is called once per accepted move, after the state has changed.
type TurnCompleteFunc func(row, col int)

type scheduler interface {
	AfterFunc(delay time.Duration, fn func())
}

// Engine is the state machine of a single game. It is not safe for
// concurrent use: every call, including scheduled automated turns, must run
// on the same event loop.
type Engine struct {
	logger    *slog.Logger
	scheduler scheduler
	aiDelay   time.Duration

	board       entity.Board
	first       *entity.Player
	second      *entity.Player
	current     *entity.Player
	status      entity.Status
	turnCount   int
	winningLine entity.WinningLine
	lastMove    *entity.Move

	onTurnComplete TurnCompleteFunc
}

func NewEngine(logger *slog.Logger, sched scheduler, aiDelay time.Duration, first, second *entity.Player) *Engine {
	return &Engine{
		logger:    logger.With("component", "engine"),
		scheduler: sched,
		aiDelay:   aiDelay,

		first:   first,
		second:  second,
		current: first,
		status:  entity.StatusRunning,
	}
}

// OnTurnComplete registers the collaborator notified after every accepted move.
func (that *Engine) OnTurnComplete(fn TurnCompleteFunc) {
	that.onTurnComplete = fn
}

// Start hands the first turn to the computer when the first player is automated.
func (that *Engine) Start() {
	if that.current.Automated {
		that.PlayAITurn()
	}
}

// PlayTurn places the turn owner's mark at (row, col). Moves on a finished
// game, outside the board or on an occupied cell are ignored; the only way
// to tell is that no turn-complete notification fires.
func (that *Engine) PlayTurn(row, col int) {
	if err := that.TryTurn(row, col); err != nil {
		that.logger.Debug("move ignored", "row", row, "col", col, "error", err)
	}
}

// TryTurn is PlayTurn that reports why a move was rejected.
func (that *Engine) TryTurn(row, col int) error {
	if err := that.validateMove(row, col); err != nil {
		return err
	}

	that.board.Set(row, col, that.current.Mark)
	that.turnCount++
	that.lastMove = &entity.Move{Row: row, Col: col}

	if line, ok := WinningLine(&that.board, row, col); ok {
		that.winningLine = line
		that.status = entity.StatusFinished
	} else if that.turnCount == entity.BoardSize*entity.BoardSize {
		that.status = entity.StatusFinished
	}

	that.current = that.Opponent(that.current)

	if that.onTurnComplete != nil {
		that.onTurnComplete(row, col)
	}

	if that.IsRunning() && that.current.Automated {
		that.PlayAITurn()
	}

	return nil
}

func (that *Engine) validateMove(row, col int) error {
	if !that.IsRunning() {
		return apperror.ErrGameFinished
	}

	if !entity.InBounds(row, col) {
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrInvalidCell, row, col)
	}

	if that.board.Get(row, col) != entity.Empty {
		return apperror.ErrCellOccupied
	}

	return nil
}

// PlayAITurn schedules the automated turn. Whether it is still the
// computer's turn is checked when the task runs, not when it is scheduled.
func (that *Engine) PlayAITurn() {
	that.scheduler.AfterFunc(that.aiDelay, func() {
		if !that.IsRunning() || !that.current.Automated {
			return
		}

		result := BestMove(that.board, that.current.Mark)
		if !result.Found {
			return
		}

		that.logger.Debug("automated move",
			"mark", that.current.Mark.Mark(), "row", result.Move.Row, "col", result.Move.Col, "score", result.Score)

		that.PlayTurn(result.Move.Row, result.Move.Col)
	})
}

// Opponent returns the registered player that is not player.
func (that *Engine) Opponent(player *entity.Player) *entity.Player {
	if player == that.first {
		return that.second
	}

	return that.first
}

// IsWon distinguishes a won game from a drawn one.
func (that *Engine) IsWon() bool {
	return len(that.winningLine) != 0
}

func (that *Engine) IsRunning() bool {
	return that.status == entity.StatusRunning
}

func (that *Engine) Status() entity.Status {
	return that.status
}

func (that *Engine) Board() entity.Board {
	return that.board.Clone()
}

func (that *Engine) TurnCount() int {
	return that.turnCount
}

func (that *Engine) CurrentPlayer() *entity.Player {
	return that.current
}

func (that *Engine) WinningLine() entity.WinningLine {
	if len(that.winningLine) == 0 {
		return nil
	}

	line := make(entity.WinningLine, len(that.winningLine))
	copy(line, that.winningLine)

	return line
}

// Winner returns the mark on the winning line, or Empty.
func (that *Engine) Winner() entity.Cell {
	if !that.IsWon() {
		return entity.Empty
	}

	first := that.winningLine[0]

	return that.board.Get(first.Row, first.Col)
}

// State captures everything a presentation layer needs after a turn.
func (that *Engine) State() *entity.GameState {
	state := &entity.GameState{
		Board:       that.board.Marks(),
		Status:      that.status,
		Won:         that.IsWon(),
		Winner:      that.Winner().Mark(),
		WinningLine: that.WinningLine(),
		TurnCount:   that.turnCount,
	}

	if that.IsRunning() {
		state.Turn = that.current.Mark.Mark()
	}

	if that.lastMove != nil {
		move := *that.lastMove
		state.LastMove = &move
	}

	return state
}
