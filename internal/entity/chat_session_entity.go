package entity

import "time"

const (
	TurnRoleUser      = "user"
	TurnRoleAssistant = "assistant"
)

type ChatTurn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type ChatSession struct {
	ID        string     `json:"id"`
	Username  string     `json:"username,omitempty"`
	Turns     []ChatTurn `json:"turns"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// LastTurns returns at most n of the most recent turns.
func (s *ChatSession) LastTurns(n int) []ChatTurn {
	if n <= 0 || len(s.Turns) <= n {
		return s.Turns
	}
	return s.Turns[len(s.Turns)-n:]
}
