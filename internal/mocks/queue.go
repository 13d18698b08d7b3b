package mocks

import "sync"

// MockMessageQueue is a mock implementation of the MessageQueue interface.
// Published messages are retained per subject for assertions.
type MockMessageQueue struct {
	mu            sync.Mutex
	Published     map[string][][]byte
	Handlers      map[string][]func([]byte) error
	PublishFunc   func(subject string, data []byte) error
	SubscribeFunc func(subject string, handler func([]byte) error) error
	CloseFunc     func() error
}

func NewMockMessageQueue() *MockMessageQueue {
	return &MockMessageQueue{
		Published: make(map[string][][]byte),
		Handlers:  make(map[string][]func([]byte) error),
	}
}

func (m *MockMessageQueue) Publish(subject string, data []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(subject, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published[subject] = append(m.Published[subject], data)
	for _, handler := range m.Handlers[subject] {
		_ = handler(data)
	}
	return nil
}

func (m *MockMessageQueue) Subscribe(subject string, handler func([]byte) error) error {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(subject, handler)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Handlers[subject] = append(m.Handlers[subject], handler)
	return nil
}

func (m *MockMessageQueue) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// PublishedTo returns the messages published to one subject.
func (m *MockMessageQueue) PublishedTo(subject string) [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Published[subject]
}
