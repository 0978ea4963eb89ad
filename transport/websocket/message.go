package websocket

import "encoding/json"

const (
	actionState = "game:state"
	actionTurn  = "game:turn"
	actionNext  = "game:next"
	actionError = "error"
)

type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type turnPayload struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type errorPayload struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}
