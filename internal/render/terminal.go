package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/xo-engine/internal/entity"
)

const (
	emptyCell = "."
	winColor  = "2"
)

// Terminal draws game states for a text terminal. Styling follows the
// capabilities detected for the writer.
type Terminal struct {
	out *termenv.Output
}

func NewTerminal(w io.Writer, opts ...termenv.OutputOption) *Terminal {
	return &Terminal{
		out: termenv.NewOutput(w, opts...),
	}
}

// Board returns the grid with coordinates. Cells of the winning line are
// highlighted and the last move is underlined.
func (that *Terminal) Board(state *entity.GameState) string {
	winning := make(map[entity.Move]bool, len(state.WinningLine))
	for _, move := range state.WinningLine {
		winning[move] = true
	}

	var sb strings.Builder

	sb.WriteString("   0   1   2\n")

	for row, marks := range state.Board {
		if row > 0 {
			sb.WriteString("  ---+---+---\n")
		}

		cells := make([]string, len(marks))
		for col, mark := range marks {
			cells[col] = that.cell(state, winning, entity.Move{Row: row, Col: col}, mark)
		}

		fmt.Fprintf(&sb, "%d  %s\n", row, strings.Join(cells, " | "))
	}

	return sb.String()
}

func (that *Terminal) cell(state *entity.GameState, winning map[entity.Move]bool, move entity.Move, mark string) string {
	if mark == "" {
		return emptyCell
	}

	style := that.out.String(mark)

	if winning[move] {
		style = style.Foreground(that.out.Color(winColor)).Bold()
	}

	if state.LastMove != nil && *state.LastMove == move {
		style = style.Underline()
	}

	return style.String()
}

// Status describes whose turn it is or how the round ended.
func (that *Terminal) Status(state *entity.GameState) string {
	switch {
	case state.Won:
		return that.out.String(state.Winner + " wins").Bold().String()
	case state.IsDraw():
		return "Draw"
	default:
		return state.Turn + " to move"
	}
}

// Scores formats the seats of a session with their scores.
func (that *Terminal) Scores(seats [2]*entity.Seat) string {
	parts := make([]string, 0, len(seats))
	for _, seat := range seats {
		if seat == nil {
			continue
		}

		parts = append(parts, fmt.Sprintf("%s (%s): %d", seat.Name, seat.Mark, seat.Score))
	}

	return strings.Join(parts, "  ")
}

// Write prints the board followed by the status line.
func (that *Terminal) Write(state *entity.GameState) error {
	if _, err := fmt.Fprintf(that.out, "%s%s\n", that.Board(state), that.Status(state)); err != nil {
		return fmt.Errorf("failed to write board: %w", err)
	}

	return nil
}
