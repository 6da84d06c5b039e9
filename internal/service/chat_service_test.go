package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"smart-fridge-be/internal/dto"
	"smart-fridge-be/internal/entity"
	"smart-fridge-be/internal/pkg/apperror"
	"smart-fridge-be/internal/pkg/logger"
	"smart-fridge-be/internal/repository/memory"
	"smart-fridge-be/internal/repository/specification"
	"smart-fridge-be/pkg/llm"
	"smart-fridge-be/pkg/sensor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatFixture struct {
	svc       IChatService
	llm       *llm.MockProvider
	sessions  *memory.SessionRepository
	inventory *inventoryService
	holder    *sensor.Holder
}

func newChatFixture(t *testing.T, historyLimit int, responses ...string) *chatFixture {
	t.Helper()
	inventory, _ := newTestInventory(t)
	f := &chatFixture{
		llm:       llm.NewMockProvider(responses...),
		sessions:  memory.NewSessionRepository(0),
		inventory: inventory,
		holder:    sensor.NewHolder(),
	}
	f.svc = NewChatService(f.inventory, f.sessions, f.llm, f.holder, ChatOptions{
		Timeout:      time.Second,
		MaxTokens:    500,
		HistoryLimit: historyLimit,
	}, logger.NewNopLogger(), logger.NewNopLogger())
	return f
}

func TestChatKeepsOrderedHistory(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t, 10, "first answer", "second answer")

	first, err := f.svc.Respond(ctx, dto.ChatCommand{SessionID: "s1", UserMessage: "What is in my fridge?"})
	require.NoError(t, err)
	assert.Equal(t, "first answer", first.Response)
	assert.Equal(t, ChatStatusOK, first.Status)
	assert.Equal(t, "s1", first.SessionID)

	second, err := f.svc.Respond(ctx, dto.ChatCommand{SessionID: "s1", UserMessage: "Anything to cook?"})
	require.NoError(t, err)
	assert.Equal(t, "second answer", second.Response)

	call := f.llm.LastCall()
	require.Len(t, call, 4)
	assert.Equal(t, llm.RoleSystem, call[0].Role)
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "What is in my fridge?"}, call[1])
	assert.Equal(t, llm.Message{Role: llm.RoleAssistant, Content: "first answer"}, call[2])
	assert.Contains(t, call[3].Content, `User: "Anything to cook?"`)

	history, err := f.svc.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history.Turns, 4)
	roles := []string{history.Turns[0].Role, history.Turns[1].Role, history.Turns[2].Role, history.Turns[3].Role}
	assert.Equal(t, []string{entity.TurnRoleUser, entity.TurnRoleAssistant, entity.TurnRoleUser, entity.TurnRoleAssistant}, roles)
	assert.Equal(t, "Anything to cook?", history.Turns[2].Content)
}

func TestChatFailureLeavesNoPartialTurn(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t, 10)
	f.llm.Err = errors.New("upstream 500")

	res, err := f.svc.Respond(ctx, dto.ChatCommand{SessionID: "s1", UserMessage: "hello"})
	require.NoError(t, err)
	assert.Equal(t, ChatFallbackMessage, res.Response)
	assert.Equal(t, ChatStatusError, res.Status)

	session, err := f.sessions.Get(ctx, "s1")
	require.NoError(t, err)
	if session != nil {
		assert.Empty(t, session.Turns)
	}
}

func TestChatPassesLimits(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t, 2, "ok")

	for i := 0; i < 3; i++ {
		_, err := f.svc.Respond(ctx, dto.ChatCommand{SessionID: "s1", UserMessage: "again"})
		require.NoError(t, err)
	}

	// system + last 2 turns + current prompt
	assert.Len(t, f.llm.LastCall(), 4)
	require.NotEmpty(t, f.llm.Options)
	assert.Equal(t, 500, f.llm.Options[0].MaxTokens)
}

func TestChatUnknownUserIsNotPersonalized(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t, 10, "generic")

	res, err := f.svc.Respond(ctx, dto.ChatCommand{Username: "ghost", UserMessage: "What can I cook?"})
	require.NoError(t, err)

	assert.False(t, res.Personalized)
	assert.NotEmpty(t, res.Notice)
	assert.NotEmpty(t, res.SessionID)
	assert.Contains(t, f.llm.LastCall()[1].Content, "No personalized inventory")

	user, err := f.inventory.uowFactory.NewUnitOfWork(ctx).UserRepository().FindOne(ctx, specification.ByUsername{Username: "ghost"})
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestChatPromptCarriesInventoryAndSensors(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t, 10, "drink the milk")

	_, err := f.inventory.Upsert(ctx, "alice", "Milk", 2, nil)
	require.NoError(t, err)
	f.holder.Replace(sensor.Snapshot{Temp: sensor.Float(4), Timestamp: time.Now()})

	res, err := f.svc.Respond(ctx, dto.ChatCommand{Username: "Alice", UserMessage: "Suggestions?"})
	require.NoError(t, err)
	assert.True(t, res.Personalized)
	assert.Empty(t, res.Notice)

	prompt := f.llm.LastCall()[1].Content
	assert.Contains(t, prompt, "Here is my latest fridge status:")
	assert.Contains(t, prompt, "- Temperature: 4.0 °C")
	assert.Contains(t, prompt, "- Humidity: Unknown")
	assert.Contains(t, prompt, "Milk (x2")

	session, err := f.sessions.Get(ctx, res.SessionID)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "Alice", session.Username)
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	f := newChatFixture(t, 10, "unused")

	_, err := f.svc.Respond(context.Background(), dto.ChatCommand{UserMessage: "   "})
	assert.ErrorIs(t, err, apperror.ErrInvalidPayload)
	assert.Zero(t, f.llm.CallCount())
}

func TestChatHistoryUnknownSession(t *testing.T) {
	f := newChatFixture(t, 10)

	_, err := f.svc.History(context.Background(), "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestChatPromptKeepsMessageVerbatim(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t, 10, "ok")

	message := "Is the \"organic\" milk fine?\nIt smells odd."
	_, err := f.svc.Respond(ctx, dto.ChatCommand{SessionID: "s-verbatim", UserMessage: message})
	require.NoError(t, err)

	prompt := f.llm.LastCall()[1].Content
	assert.Contains(t, prompt, "User: \"Is the \"organic\" milk fine?\nIt smells odd.\"")
	assert.NotContains(t, prompt, `\"organic\"`)
	assert.NotContains(t, prompt, `\n`)
}
