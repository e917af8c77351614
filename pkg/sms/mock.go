package sms

import (
	"context"
	"errors"
	"sync"
)

type MockCall struct {
	Phone         string
	SignName      string
	TemplateCode  string
	TemplateParam string
}

// MockClient records calls instead of hitting the provider. Used when
// SMS_PROVIDER=mock and in tests.
type MockClient struct {
	mu    sync.Mutex
	Calls []MockCall

	// FailNext makes the next call return an error, then resets.
	FailNext bool
	// FailAll makes every call return an error.
	FailAll bool
}

func NewMockClient() *MockClient {
	return &MockClient{Calls: make([]MockCall, 0)}
}

func (m *MockClient) SendSingle(ctx context.Context, phone, signName, templateCode, templateParam string) (*SendResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{
		Phone:         phone,
		SignName:      signName,
		TemplateCode:  templateCode,
		TemplateParam: templateParam,
	})

	if m.FailAll || m.FailNext {
		m.FailNext = false
		return nil, errors.New("mock sms send failure")
	}

	return &SendResponse{
		MessageID: "mock-message-id",
		Code:      "OK",
		RequestID: "mock-request-id",
		Provider:  "mock",
		Template:  templateCode,
	}, nil
}

func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
