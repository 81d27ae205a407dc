// Package mocks provides mock implementations of port interfaces for testing.
// In hexagonal architecture, ports define the contracts between the core domain
// and external adapters. Mocks implement these interfaces to enable isolated testing.
package mocks

import (
	"context"
	"slices"
	"sync"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

// MockUserRepository implements ports.UserRepository with an in-memory
// users collection.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User

	// Call tracking for verification
	GetUserCalls       []string
	SetUserCalls       []domain.User
	UpdateProfileCalls []string

	// Error injection for testing error scenarios
	GetUserError       error
	SetUserError       error
	UpdateProfileError error
}

var _ ports.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]domain.User)}
}

// SeedUser adds a user to the mock repository for test setup.
func (m *MockUserRepository) SeedUser(user domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetUserCalls = append(m.GetUserCalls, id)

	if m.GetUserError != nil {
		return nil, m.GetUserError
	}
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (m *MockUserRepository) SetUser(ctx context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetUserCalls = append(m.SetUserCalls, user)

	if m.SetUserError != nil {
		return m.SetUserError
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id string, profile domain.Profile) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateProfileCalls = append(m.UpdateProfileCalls, id)

	if m.UpdateProfileError != nil {
		return nil, m.UpdateProfileError
	}
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	user.Name = profile.Name
	user.Phone = profile.Phone
	m.users[id] = user
	return &user, nil
}

// MockSubscriptionRepository implements ports.SubscriptionRepository with
// an in-memory subscriptions collection.
type MockSubscriptionRepository struct {
	mu   sync.RWMutex
	subs map[string]domain.Subscription

	CreateCalls []domain.Subscription
	FindCalls   []string
	UpdateCalls []ports.SubscriptionUpdate

	CreateError error
	FindError   error
	UpdateError error
}

var _ ports.SubscriptionRepository = (*MockSubscriptionRepository)(nil)

func NewMockSubscriptionRepository() *MockSubscriptionRepository {
	return &MockSubscriptionRepository{subs: make(map[string]domain.Subscription)}
}

func (m *MockSubscriptionRepository) Seed(sub domain.Subscription) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[sub.ID] = sub
}

// Get returns the stored document, for assertions.
func (m *MockSubscriptionRepository) Get(id string) (domain.Subscription, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sub, ok := m.subs[id]
	return sub, ok
}

func (m *MockSubscriptionRepository) CreateSubscription(ctx context.Context, sub domain.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, sub)

	if m.CreateError != nil {
		return m.CreateError
	}
	m.subs[sub.ID] = sub
	return nil
}

func (m *MockSubscriptionRepository) FindActiveByUser(ctx context.Context, userID string) ([]domain.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindCalls = append(m.FindCalls, userID)

	if m.FindError != nil {
		return nil, m.FindError
	}
	out := []domain.Subscription{}
	for _, sub := range m.subs {
		if sub.UserID == userID && sub.Status == domain.SubscriptionActive {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (m *MockSubscriptionRepository) UpdateSubscription(ctx context.Context, id string, fields ports.SubscriptionUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls = append(m.UpdateCalls, fields)

	if m.UpdateError != nil {
		return m.UpdateError
	}
	sub, ok := m.subs[id]
	if !ok {
		return domain.ErrNotFound
	}
	if fields.Status != nil {
		sub.Status = *fields.Status
	}
	if fields.PlanID != nil {
		sub.PlanID = *fields.PlanID
	}
	if fields.IncludesTransport != nil {
		sub.IncludesTransport = *fields.IncludesTransport
	}
	m.subs[id] = sub
	return nil
}

// MockCredentialRepository implements ports.CredentialRepository.
type MockCredentialRepository struct {
	mu    sync.RWMutex
	creds map[string]domain.Credential

	CreateCalls []domain.Credential
	FindCalls   []string
	DeleteCalls []string

	CreateError error
	FindError   error
	DeleteError error
}

var _ ports.CredentialRepository = (*MockCredentialRepository)(nil)

func NewMockCredentialRepository() *MockCredentialRepository {
	return &MockCredentialRepository{creds: make(map[string]domain.Credential)}
}

func (m *MockCredentialRepository) Seed(cred domain.Credential) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds[cred.Email] = cred
}

func (m *MockCredentialRepository) CreateCredential(ctx context.Context, cred domain.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, cred)

	if m.CreateError != nil {
		return m.CreateError
	}
	if _, exists := m.creds[cred.Email]; exists {
		return domain.ErrEmailInUse
	}
	m.creds[cred.Email] = cred
	return nil
}

func (m *MockCredentialRepository) DeleteCredential(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, userID)

	if m.DeleteError != nil {
		return m.DeleteError
	}
	for email, cred := range m.creds {
		if cred.UserID == userID {
			delete(m.creds, email)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MockCredentialRepository) FindCredentialByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindCalls = append(m.FindCalls, email)

	if m.FindError != nil {
		return nil, m.FindError
	}
	cred, ok := m.creds[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &cred, nil
}

// MockChildRepository implements ports.ChildRepository.
type MockChildRepository struct {
	mu       sync.RWMutex
	children []domain.Child

	CreateCalls []domain.Child
	UpdateCalls []domain.Child

	ListError   error
	CreateError error
	UpdateError error
}

var _ ports.ChildRepository = (*MockChildRepository)(nil)

func NewMockChildRepository(children ...domain.Child) *MockChildRepository {
	return &MockChildRepository{children: children}
}

func (m *MockChildRepository) ListChildren(ctx context.Context, parentID string) ([]domain.Child, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	out := []domain.Child{}
	for _, c := range m.children {
		if c.ParentID == parentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockChildRepository) GetChild(ctx context.Context, parentID, childID string) (*domain.Child, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.children {
		if c.ID == childID && c.ParentID == parentID {
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockChildRepository) CreateChild(ctx context.Context, child domain.Child) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, child)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.children = append(m.children, child)
	return nil
}

func (m *MockChildRepository) UpdateChild(ctx context.Context, child domain.Child) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls = append(m.UpdateCalls, child)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	for i, c := range m.children {
		if c.ID == child.ID && c.ParentID == child.ParentID {
			m.children[i] = child
			return nil
		}
	}
	return domain.ErrNotFound
}

// MockScheduleRepository implements ports.ScheduleRepository.
type MockScheduleRepository struct {
	mu    sync.RWMutex
	items []domain.ScheduleItem

	CreateCalls [][]domain.ScheduleItem
	CancelCalls []domain.ScheduleItem
	// CancelEvents holds the outbox payloads written with each cancel.
	CancelEvents [][]byte

	ListError   error
	CreateError error
	CancelError error
}

var _ ports.ScheduleRepository = (*MockScheduleRepository)(nil)

func NewMockScheduleRepository(items ...domain.ScheduleItem) *MockScheduleRepository {
	return &MockScheduleRepository{items: items}
}

// Items returns a copy of the stored items, for assertions.
func (m *MockScheduleRepository) Items() []domain.ScheduleItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.items)
}

func (m *MockScheduleRepository) ListSchedule(ctx context.Context, parentID string) ([]domain.ScheduleItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	out := []domain.ScheduleItem{}
	for _, item := range m.items {
		if item.ParentID == parentID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *MockScheduleRepository) GetScheduleItem(ctx context.Context, parentID, itemID string) (*domain.ScheduleItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.items {
		if item.ID == itemID && item.ParentID == parentID {
			return &item, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockScheduleRepository) CreateScheduleItems(ctx context.Context, items []domain.ScheduleItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, items)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.items = append(m.items, items...)
	return nil
}

func (m *MockScheduleRepository) CancelScheduleItem(ctx context.Context, item domain.ScheduleItem, event []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CancelCalls = append(m.CancelCalls, item)
	if m.CancelError != nil {
		return m.CancelError
	}
	for i, stored := range m.items {
		if stored.ID == item.ID && stored.ParentID == item.ParentID {
			m.items[i].Status = domain.SessionCancelled
			m.CancelEvents = append(m.CancelEvents, event)
			return nil
		}
	}
	return domain.ErrNotFound
}

// MockReportRepository implements ports.ReportRepository.
type MockReportRepository struct {
	Reports      []domain.Report
	Achievements []domain.Achievement
	// Owners maps child IDs to parent IDs.
	Owners map[string]string

	ListError error
}

var _ ports.ReportRepository = (*MockReportRepository)(nil)

func (m *MockReportRepository) ListReports(ctx context.Context, parentID string) ([]domain.Report, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	out := []domain.Report{}
	for _, r := range m.Reports {
		if m.Owners[r.ChildID] == parentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockReportRepository) GetReport(ctx context.Context, parentID, reportID string) (*domain.Report, error) {
	for _, r := range m.Reports {
		if r.ID == reportID && m.Owners[r.ChildID] == parentID {
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockReportRepository) ListAchievements(ctx context.Context, parentID string) ([]domain.Achievement, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	out := []domain.Achievement{}
	for _, a := range m.Achievements {
		if m.Owners[a.ChildID] == parentID {
			out = append(out, a)
		}
	}
	return out, nil
}

// MockDriverRoster implements ports.DriverRoster and always assigns the
// same driver.
type MockDriverRoster struct {
	Driver domain.Driver
	Err    error
	Calls  int
}

var _ ports.DriverRoster = (*MockDriverRoster)(nil)

func (m *MockDriverRoster) NextAvailableDriver(ctx context.Context) (*domain.Driver, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	d := m.Driver
	return &d, nil
}
