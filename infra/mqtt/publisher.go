package mqtt

import (
	"context"
	"fmt"
	"sync"

	"github.com/kilianp07/examgrid/core/model"
	coremqtt "github.com/kilianp07/examgrid/core/mqtt"
)

// MockPublisher records summaries in memory, keyed by topic.
type MockPublisher struct {
	Prefix   string
	Messages map[string]model.Summary
	Fail     bool
	mu       sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Messages: make(map[string]model.Summary)}
}

func (m *MockPublisher) PublishSummary(_ context.Context, s model.Summary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return fmt.Errorf("publish failed")
	}
	m.Messages[coremqtt.SummaryTopic(m.Prefix, s.CurrentYear, s.CurrentMonth)] = s
	return nil
}

// Count returns the number of distinct topics published to.
func (m *MockPublisher) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Messages)
}
