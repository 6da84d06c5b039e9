package dto

import (
	"time"

	"smart-fridge-be/internal/entity"
)

type ChatRequest struct {
	UserMessage string `json:"user_message" validate:"required,max=4000"`
	Username    string `json:"username" validate:"max=255"`
	SessionID   string `json:"session_id" validate:"max=255"`
}

type ChatCommand struct {
	SessionID   string
	Username    string
	UserMessage string
}

type ChatResponse struct {
	Response     string    `json:"response"`
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	SessionID    string    `json:"session_id"`
	Personalized bool      `json:"personalized"`
	Notice       string    `json:"notice,omitempty"`
}

type ChatHistoryResponse struct {
	SessionID string            `json:"session_id"`
	Username  string            `json:"username"`
	Turns     []entity.ChatTurn `json:"turns"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
