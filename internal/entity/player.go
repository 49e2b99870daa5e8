package entity

const BotID = "bot"

type Player struct {
	ID    string `json:"id"`
	Side  string `json:"side,omitempty"`
	IsBot bool   `json:"is_bot,omitempty"`

	SessionID string `json:"session_id,omitempty"`
}

func NewBotPlayer(side string) *Player {
	return &Player{
		ID:    BotID,
		Side:  side,
		IsBot: true,
	}
}
