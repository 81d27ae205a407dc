package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

// MockGoogleVerifier accepts the tokens listed in Identities.
type MockGoogleVerifier struct {
	Identities map[string]ports.GoogleIdentity
	VerifyErr  error
}

var _ ports.GoogleVerifier = (*MockGoogleVerifier)(nil)

func (m *MockGoogleVerifier) VerifyIDToken(ctx context.Context, idToken string) (*ports.GoogleIdentity, error) {
	if m.VerifyErr != nil {
		return nil, m.VerifyErr
	}
	identity, ok := m.Identities[idToken]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return &identity, nil
}

// MockSessionStore implements ports.SessionStore in memory.
type MockSessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Claims

	SaveCalls   []domain.Claims
	RevokeCalls []string

	SaveError   error
	ActiveError error
	RevokeError error
}

var _ ports.SessionStore = (*MockSessionStore)(nil)

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{sessions: make(map[string]domain.Claims)}
}

func (m *MockSessionStore) SaveSession(ctx context.Context, claims domain.Claims, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls = append(m.SaveCalls, claims)
	if m.SaveError != nil {
		return m.SaveError
	}
	m.sessions[claims.SessionID] = claims
	return nil
}

func (m *MockSessionStore) SessionActive(ctx context.Context, sessionID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ActiveError != nil {
		return false, m.ActiveError
	}
	_, ok := m.sessions[sessionID]
	return ok, nil
}

func (m *MockSessionStore) RevokeSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RevokeCalls = append(m.RevokeCalls, sessionID)
	if m.RevokeError != nil {
		return m.RevokeError
	}
	delete(m.sessions, sessionID)
	return nil
}

// MockTrackingStore implements ports.TrackingStore in memory.
type MockTrackingStore struct {
	mu        sync.RWMutex
	snapshots map[string]domain.Tracking
	byItem    map[string]string

	saves     int
	SaveError error
}

var _ ports.TrackingStore = (*MockTrackingStore)(nil)

func NewMockTrackingStore() *MockTrackingStore {
	return &MockTrackingStore{snapshots: make(map[string]domain.Tracking), byItem: make(map[string]string)}
}

func (m *MockTrackingStore) SaveTracking(ctx context.Context, t domain.Tracking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.SaveError != nil {
		return m.SaveError
	}
	m.snapshots[t.ID] = t
	m.byItem[t.ScheduleItemID] = t.ID
	return nil
}

func (m *MockTrackingStore) GetTracking(ctx context.Context, id string) (*domain.Tracking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.snapshots[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (m *MockTrackingStore) FindTrackingByItem(ctx context.Context, scheduleItemID string) (*domain.Tracking, error) {
	m.mu.RLock()
	id, ok := m.byItem[scheduleItemID]
	m.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m.GetTracking(ctx, id)
}

// Delete drops a snapshot, as an expired TTL would.
func (m *MockTrackingStore) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, id)
}

// Snapshot returns the last saved state, for assertions.
func (m *MockTrackingStore) Snapshot(id string) (domain.Tracking, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.snapshots[id]
	return t, ok
}

func (m *MockTrackingStore) SaveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}
