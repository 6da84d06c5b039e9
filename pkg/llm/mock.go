package llm

import (
	"context"
	"sync"
)

// MockProvider is a scripted LLMProvider for tests. Responses are returned in order;
// once exhausted the last one repeats. Err, when set, is returned instead.
type MockProvider struct {
	mu        sync.Mutex
	Responses []string
	Err       error
	Calls     [][]Message
	Options   []Options
	// Respond, when set, computes the reply from the request and wins over Responses.
	Respond func(history []Message) (string, error)
}

var _ LLMProvider = (*MockProvider)(nil)

func NewMockProvider(responses ...string) *MockProvider {
	return &MockProvider{Responses: responses}
}

func (m *MockProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]Message, len(history))
	copy(copied, history)
	m.Calls = append(m.Calls, copied)
	m.Options = append(m.Options, ApplyOptions(Options{}, options...))

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Respond != nil {
		return m.Respond(copied)
	}
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", nil
	}
	idx := len(m.Calls) - 1
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return m.Responses[idx], nil
}

func (m *MockProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return m.Chat(ctx, []Message{{Role: RoleUser, Content: prompt}}, options...)
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func (m *MockProvider) LastCall() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return nil
	}
	return m.Calls[len(m.Calls)-1]
}
