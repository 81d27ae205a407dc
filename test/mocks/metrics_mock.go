package mocks

import (
	"sync"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

// MockMetrics counts business events by label.
type MockMetrics struct {
	mu            sync.Mutex
	Subscriptions map[string]int
	Transitions   map[string]int
	Booked        map[string]int
}

var _ ports.Metrics = (*MockMetrics)(nil)

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Subscriptions: make(map[string]int),
		Transitions:   make(map[string]int),
		Booked:        make(map[string]int),
	}
}

func (m *MockMetrics) SubscriptionChanged(action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Subscriptions[action]++
}

func (m *MockMetrics) TrackingTransitioned(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transitions[status]++
}

func (m *MockMetrics) SessionsBooked(mode string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Booked[mode] += n
}

func (m *MockMetrics) TransitionCount(status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Transitions[status]
}
