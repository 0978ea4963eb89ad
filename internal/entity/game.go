package entity

type Status string

const (
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
)

// GameState is the snapshot handed to presentation code after each turn.
type GameState struct {
	Board       [][]string  `json:"board"`
	Status      Status      `json:"status"`
	Won         bool        `json:"won"`
	Winner      string      `json:"winner,omitempty"`
	WinningLine WinningLine `json:"winning_line,omitempty"`
	Turn        string      `json:"player_turn,omitempty"`
	TurnCount   int         `json:"turn_count"`
	LastMove    *Move       `json:"last_move,omitempty"`
}

func (that *GameState) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *GameState) IsRunning() bool {
	return that.Status == StatusRunning
}

// IsDraw reports a finished game without a winning line.
func (that *GameState) IsDraw() bool {
	return that.IsFinished() && !that.Won
}
