package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

// MockTrackingEventPublisher implements ports.TrackingEventPublisher for
// testing without a RabbitMQ connection.
type MockTrackingEventPublisher struct {
	mu sync.RWMutex

	// Track published events for verification
	PublishedEvents []ports.TrackingEvent

	// Error injection for testing error scenarios
	PublishError error

	PublishCallCount int
}

var _ ports.TrackingEventPublisher = (*MockTrackingEventPublisher)(nil)

func NewMockTrackingEventPublisher() *MockTrackingEventPublisher {
	return &MockTrackingEventPublisher{PublishedEvents: make([]ports.TrackingEvent, 0)}
}

func (m *MockTrackingEventPublisher) PublishTrackingUpdated(ctx context.Context, evt ports.TrackingEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

// GetPublishedEvents returns a copy of all events that were published.
func (m *MockTrackingEventPublisher) GetPublishedEvents() []ports.TrackingEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]ports.TrackingEvent, len(m.PublishedEvents))
	copy(events, m.PublishedEvents)
	return events
}

// MockSessionEventPublisher implements ports.SessionEventPublisher for the
// outbox relay tests.
type MockSessionEventPublisher struct {
	mu sync.RWMutex

	PublishedEvents  []ports.SessionCancelledEvent
	PublishError     error
	PublishCallCount int
}

var _ ports.SessionEventPublisher = (*MockSessionEventPublisher)(nil)

func NewMockSessionEventPublisher() *MockSessionEventPublisher {
	return &MockSessionEventPublisher{PublishedEvents: make([]ports.SessionCancelledEvent, 0)}
}

func (m *MockSessionEventPublisher) PublishSessionCancelled(ctx context.Context, evt ports.SessionCancelledEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

func (m *MockSessionEventPublisher) GetPublishedEvents() []ports.SessionCancelledEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]ports.SessionCancelledEvent, len(m.PublishedEvents))
	copy(events, m.PublishedEvents)
	return events
}

// GetPublishCount returns the number of publish attempts, failed ones
// included.
func (m *MockSessionEventPublisher) GetPublishCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PublishCallCount
}
