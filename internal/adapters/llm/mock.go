package llm

import (
	"context"
	"strings"
	"sync"
)

// MockResponse is one canned reply for the Mock client.
type MockResponse struct {
	Text string
	Err  error
}

// Mock is a deterministic domain.LLMClient for tests and local runs.
// It returns canned responses in FIFO order and records every prompt.
// With an empty queue it falls back to a fixed valid problem or feedback
// payload so the server stays usable without model credentials.
type Mock struct {
	mu        sync.Mutex
	responses []MockResponse

	Prompts []string
}

func NewMock(responses ...MockResponse) *Mock {
	return &Mock{responses: responses}
}

// Enqueue appends a canned response.
func (m *Mock) Enqueue(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns how many times Generate was called.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

func (m *Mock) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)

	if len(m.responses) > 0 {
		resp := m.responses[0]
		m.responses = m.responses[1:]
		if resp.Err != nil {
			return "", resp.Err
		}
		return resp.Text, nil
	}

	if strings.Contains(prompt, "feedback_text") {
		return `{"feedback_text": "Great effort! Walk through the problem step by step and check your arithmetic."}`, nil
	}
	return `{"problem_text": "A baker sold 345 buns in the morning and 289 buns in the afternoon. How many buns did she sell in all?", "correct_answer": 634}`, nil
}
