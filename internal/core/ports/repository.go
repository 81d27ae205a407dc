package ports

import (
	"context"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
)

// UserRepository is the users/{id} collection of the document store.
type UserRepository interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	SetUser(ctx context.Context, user domain.User) error
	UpdateProfile(ctx context.Context, id string, profile domain.Profile) (*domain.User, error)
}

// SubscriptionRepository is the subscriptions/{id} collection of the
// document store.
type SubscriptionRepository interface {
	CreateSubscription(ctx context.Context, sub domain.Subscription) error
	FindActiveByUser(ctx context.Context, userID string) ([]domain.Subscription, error)
	UpdateSubscription(ctx context.Context, id string, fields SubscriptionUpdate) error
}

// SubscriptionUpdate lists the fields a remote update may touch. Nil
// pointers are left unchanged.
type SubscriptionUpdate struct {
	Status            *domain.SubscriptionStatus
	PlanID            *string
	IncludesTransport *bool
}

type CredentialRepository interface {
	CreateCredential(ctx context.Context, cred domain.Credential) error
	FindCredentialByEmail(ctx context.Context, email string) (*domain.Credential, error)
	DeleteCredential(ctx context.Context, userID string) error
}

type ChildRepository interface {
	ListChildren(ctx context.Context, parentID string) ([]domain.Child, error)
	GetChild(ctx context.Context, parentID, childID string) (*domain.Child, error)
	CreateChild(ctx context.Context, child domain.Child) error
	UpdateChild(ctx context.Context, child domain.Child) error
}

type ScheduleRepository interface {
	ListSchedule(ctx context.Context, parentID string) ([]domain.ScheduleItem, error)
	GetScheduleItem(ctx context.Context, parentID, itemID string) (*domain.ScheduleItem, error)
	CreateScheduleItems(ctx context.Context, items []domain.ScheduleItem) error
	// CancelScheduleItem stores the cancelled status and records a
	// session-cancelled event in the outbox in one transaction.
	CancelScheduleItem(ctx context.Context, item domain.ScheduleItem, event []byte) error
}

type ReportRepository interface {
	ListReports(ctx context.Context, parentID string) ([]domain.Report, error)
	GetReport(ctx context.Context, parentID, reportID string) (*domain.Report, error)
	ListAchievements(ctx context.Context, parentID string) ([]domain.Achievement, error)
}

type DriverRoster interface {
	NextAvailableDriver(ctx context.Context) (*domain.Driver, error)
}
