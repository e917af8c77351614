package email

import (
	"context"
	"errors"
	"sync"
)

type MockCall struct {
	To       string
	Subject  string
	HTMLBody string
}

// MockClient records calls instead of hitting the provider. Used when
// EMAIL_PROVIDER=mock and in tests.
type MockClient struct {
	mu    sync.Mutex
	Calls []MockCall

	FailNext bool
	FailAll  bool
}

func NewMockClient() *MockClient {
	return &MockClient{Calls: make([]MockCall, 0)}
}

func (m *MockClient) SendSingle(ctx context.Context, to, subject, htmlBody string) (*SendResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{To: to, Subject: subject, HTMLBody: htmlBody})

	if m.FailAll || m.FailNext {
		m.FailNext = false
		return nil, errors.New("mock email send failure")
	}

	return &SendResponse{
		EnvID:     "mock-env-id",
		RequestID: "mock-request-id",
		Provider:  "mock",
	}, nil
}

func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
