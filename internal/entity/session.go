package entity

// Session is a sequence of rounds between the same two seats.
type Session struct {
	ID    string     `json:"id"`
	Round int        `json:"round"`
	Seats [2]*Seat   `json:"seats"`
	Game  *GameState `json:"game,omitempty"`
}

// Scoreboard is the persisted part of a session.
type Scoreboard struct {
	SessionID string    `json:"session_id"`
	Names     [2]string `json:"names"`
	Scores    [2]int    `json:"scores"`
	Rounds    int       `json:"rounds"`
}

// SeatByMark returns the index of the seat playing mark, or -1.
func (that *Session) SeatByMark(mark string) int {
	for i, seat := range that.Seats {
		if seat != nil && seat.Mark == mark {
			return i
		}
	}

	return -1
}
