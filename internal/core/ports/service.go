package ports

import (
	"context"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
)

type AuthService interface {
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	SignUp(ctx context.Context, email, password string, profile domain.Profile) (*domain.Session, error)
	SignInWithGoogle(ctx context.Context, idToken string) (*domain.Session, error)
	Logout(ctx context.Context, claims domain.Claims) error
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}

type SubscriptionService interface {
	Plans() []domain.Plan
	Quote(planID string, includesTransport bool) (domain.Quote, error)
	Current(ctx context.Context, userID string) (*domain.Subscription, error)
	HasActiveSubscription(ctx context.Context, userID string) (bool, error)
	Subscribe(ctx context.Context, userID, planID string, childIDs []string, includesTransport bool) (*domain.Subscription, error)
	Cancel(ctx context.Context, userID string) (*domain.Subscription, error)
	Update(ctx context.Context, userID, planID string, includesTransport bool) (*domain.Subscription, error)
}

type ScheduleService interface {
	List(ctx context.Context, parentID string, filter domain.ScheduleFilter) ([]domain.ScheduleItem, error)
	Cancel(ctx context.Context, parentID, itemID string) (*domain.ScheduleItem, error)
	Reschedule(ctx context.Context, parentID, itemID string) error
}

type BookingService interface {
	Options(ctx context.Context, userID string) (*domain.BookingOptions, error)
	Book(ctx context.Context, userID string, req domain.BookingRequest) (*domain.BookingResult, error)
}

type ReportService interface {
	List(ctx context.Context, parentID string, filter domain.ReportFilter) ([]domain.Report, error)
	Achievements(ctx context.Context, parentID, child string) ([]domain.Achievement, error)
	Download(ctx context.Context, parentID, reportID string) error
	Share(ctx context.Context, parentID, reportID string) error
}

type ProfileService interface {
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, profile domain.Profile) (*domain.User, error)
	Children(ctx context.Context, parentID string) ([]domain.Child, error)
	AddChild(ctx context.Context, parentID string, child domain.Child) (*domain.Child, error)
	EditChild(ctx context.Context, parentID, childID string, edit ChildEdit) (*domain.Child, error)
	UpdateEmergencyContact(ctx context.Context, parentID, childID string, contact domain.EmergencyContact) (*domain.Child, error)
	Placeholder(ctx context.Context, feature string) error
}

// ChildEdit carries the optional fields of a child profile edit.
type ChildEdit struct {
	Name         *string   `json:"name"`
	Age          *int      `json:"age"`
	Allergies    *[]string `json:"allergies"`
	Preferences  *[]string `json:"preferences"`
	MedicalNotes *string   `json:"medicalNotes"`
	Photo        *string   `json:"photo"`
}

type TrackingService interface {
	Start(ctx context.Context, parentID, scheduleItemID string) (*domain.Tracking, error)
	Get(ctx context.Context, parentID, trackingID string) (*domain.Tracking, error)
	ConfirmPickup(ctx context.Context, parentID, trackingID, otp string) (*domain.Tracking, error)
	Depart(ctx context.Context, driverID, trackingID string) (*domain.Tracking, error)
	Complete(ctx context.Context, driverID, trackingID string) (*domain.Tracking, error)
	Subscribe(ctx context.Context, parentID, trackingID string) (<-chan domain.Tracking, func(), error)
	Stop(trackingID string)
}
