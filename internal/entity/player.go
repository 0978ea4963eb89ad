package entity

// Player is a participant known to the engine: its mark and whether its moves are computed.
type Player struct {
	Mark      Cell `json:"mark"`
	Automated bool `json:"automated"`
}

func NewPlayer(mark Cell, automated bool) *Player {
	return &Player{
		Mark:      mark,
		Automated: automated,
	}
}

// Seat is a player as the session sees it, with a display name and a running score.
type Seat struct {
	Name      string `json:"name"`
	Mark      string `json:"mark"`
	Automated bool   `json:"automated"`
	Score     int    `json:"score"`
}
