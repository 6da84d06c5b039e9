package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"smart-fridge-be/internal/dto"
	"smart-fridge-be/internal/entity"
	"smart-fridge-be/internal/pkg/apperror"
	"smart-fridge-be/internal/pkg/logger"
	"smart-fridge-be/internal/repository/contract"
	"smart-fridge-be/pkg/llm"
	"smart-fridge-be/pkg/sensor"

	"github.com/google/uuid"
)

const (
	ChatStatusOK    = "ok"
	ChatStatusError = "error"

	ChatFallbackMessage = "I'm sorry, I couldn't process your request at this time. Please try again later."
)

const chatSystemPrompt = `You are a smart fridge assistant. You help the user make decisions based on the
current temperature, humidity, gas levels, and visible food items in their fridge.
Be helpful, concise, and practical. If the temperature is outside of safe range (1-5°C),
warn the user. For food items, consider freshness based on when they were last seen.`

type IChatService interface {
	Respond(ctx context.Context, cmd dto.ChatCommand) (*dto.ChatResponse, error)
	History(ctx context.Context, sessionID string) (*dto.ChatHistoryResponse, error)
}

type ChatOptions struct {
	Timeout      time.Duration
	MaxTokens    int
	HistoryLimit int
}

type chatService struct {
	inventory   IInventoryService
	sessions    contract.SessionRepository
	llmProvider llm.LLMProvider
	holder      *sensor.Holder
	opts        ChatOptions
	logger      logger.ILogger
	aiLogger    logger.ILogger
	now         func() time.Time
}

func NewChatService(
	inventory IInventoryService,
	sessions contract.SessionRepository,
	llmProvider llm.LLMProvider,
	holder *sensor.Holder,
	opts ChatOptions,
	log logger.ILogger,
	aiLog logger.ILogger,
) IChatService {
	return &chatService{
		inventory:   inventory,
		sessions:    sessions,
		llmProvider: llmProvider,
		holder:      holder,
		opts:        opts,
		logger:      log,
		aiLogger:    aiLog,
		now:         time.Now,
	}
}

func (s *chatService) Respond(ctx context.Context, cmd dto.ChatCommand) (*dto.ChatResponse, error) {
	message := strings.TrimSpace(cmd.UserMessage)
	if message == "" {
		return nil, apperror.InvalidPayload("user_message is required")
	}
	sessionID := strings.TrimSpace(cmd.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	username := strings.TrimSpace(cmd.Username)

	res := &dto.ChatResponse{SessionID: sessionID, Personalized: true}

	// Inventory lookup never creates the user.
	var items []*entity.Item
	if username == "" {
		res.Personalized = false
		res.Notice = "No username given, so the answer is not based on your inventory."
	} else {
		found, err := s.inventory.ListItems(ctx, username)
		switch {
		case err == nil:
			items = found
		case errors.Is(err, apperror.ErrNotFound):
			res.Personalized = false
			res.Notice = fmt.Sprintf("No inventory found for %s, so the answer is not personalized.", username)
		default:
			return nil, err
		}
	}

	session, _, err := s.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, apperror.Storage("load chat session", err)
	}

	messages := make([]llm.Message, 0, s.opts.HistoryLimit+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: chatSystemPrompt})
	for _, turn := range session.LastTurns(s.opts.HistoryLimit) {
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: buildChatPrompt(message, s.holder.Latest(), items, res.Personalized),
	})

	reply, err := s.complete(ctx, sessionID, messages)
	res.Timestamp = s.now()
	if err != nil {
		s.logger.Error("ChatService", "Chat completion failed", map[string]interface{}{
			"error":      err.Error(),
			"session_id": sessionID,
		})
		res.Response = ChatFallbackMessage
		res.Status = ChatStatusError
		return res, nil
	}

	res.Response = reply
	res.Status = ChatStatusOK

	userTurn := entity.ChatTurn{Role: entity.TurnRoleUser, Content: message, Timestamp: res.Timestamp}
	assistantTurn := entity.ChatTurn{Role: entity.TurnRoleAssistant, Content: reply, Timestamp: res.Timestamp}
	if err := s.sessions.Append(ctx, sessionID, username, userTurn, assistantTurn); err != nil {
		s.logger.Error("ChatService", "Failed to save chat turns", map[string]interface{}{
			"error":      err.Error(),
			"session_id": sessionID,
		})
	}
	return res, nil
}

func (s *chatService) complete(ctx context.Context, sessionID string, messages []llm.Message) (string, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	var opts []llm.Option
	if s.opts.MaxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(s.opts.MaxTokens))
	}

	start := time.Now()
	reply, err := s.llmProvider.Chat(ctx, messages, opts...)
	details := map[string]interface{}{
		"session_id":  sessionID,
		"messages":    len(messages),
		"prompt":      messages[len(messages)-1].Content,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		details["error"] = err.Error()
		s.aiLogger.Error("ChatService", "LLM call failed", details)
		return "", fmt.Errorf("%w: %w", apperror.ErrChatServiceUnavailable, err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		s.aiLogger.Warn("ChatService", "LLM returned an empty reply", details)
		return "", fmt.Errorf("%w: empty reply", apperror.ErrChatServiceUnavailable)
	}
	details["response"] = reply
	s.aiLogger.Info("ChatService", "LLM call finished", details)
	return reply, nil
}

func (s *chatService) History(ctx context.Context, sessionID string) (*dto.ChatHistoryResponse, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, apperror.InvalidPayload("session_id is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, apperror.Storage("load chat session", err)
	}
	if session == nil {
		return nil, apperror.NotFound("session %s not found", sessionID)
	}

	turns := session.Turns
	if turns == nil {
		turns = []entity.ChatTurn{}
	}
	return &dto.ChatHistoryResponse{
		SessionID: session.ID,
		Username:  session.Username,
		Turns:     turns,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}, nil
}

func buildChatPrompt(message string, snapshot *sensor.Snapshot, items []*entity.Item, personalized bool) string {
	var temp, humidity, gas *float64
	if snapshot != nil {
		temp, humidity, gas = snapshot.Temp, snapshot.Humidity, snapshot.Gas
	}

	var b strings.Builder
	b.WriteString("Here is my latest fridge status:\n")
	fmt.Fprintf(&b, "- Temperature: %s\n", promptReading(temp, "%.1f °C"))
	fmt.Fprintf(&b, "- Humidity: %s\n", promptReading(humidity, "%.1f%%"))
	fmt.Fprintf(&b, "- Gas Level: %s\n", promptReading(gas, "%.0f PPM"))

	switch {
	case !personalized:
		b.WriteString("- No personalized inventory is available for this user\n")
	case len(items) == 0:
		b.WriteString("- No food items in the inventory\n")
	default:
		lines := make([]string, 0, len(items))
		for _, item := range items {
			line := fmt.Sprintf("%s (x%d, added %s", item.Name, item.Quantity, item.DateAdded.Format("2006-01-02"))
			if item.ExpiryDate != nil {
				line += ", expires " + item.ExpiryDate.Format("2006-01-02")
			}
			lines = append(lines, line+")")
		}
		b.WriteString("- Food items in inventory: " + strings.Join(lines, ", ") + "\n")
	}

	fmt.Fprintf(&b, "\nUser: \"%s\"", message)
	return b.String()
}

func promptReading(v *float64, format string) string {
	if v == nil {
		return "Unknown"
	}
	return fmt.Sprintf(format, *v)
}
