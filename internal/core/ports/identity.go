package ports

import (
	"context"
	"time"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
)

// GoogleIdentity is what an identity provider vouches for after verifying
// a Google credential.
type GoogleIdentity struct {
	UID   string
	Email string
	Name  string
}

type GoogleVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*GoogleIdentity, error)
}

// SessionStore tracks issued sessions so that logout can revoke a token
// before it expires.
type SessionStore interface {
	SaveSession(ctx context.Context, claims domain.Claims, ttl time.Duration) error
	SessionActive(ctx context.Context, sessionID string) (bool, error)
	RevokeSession(ctx context.Context, sessionID string) error
}

type TrackingStore interface {
	SaveTracking(ctx context.Context, tracking domain.Tracking) error
	GetTracking(ctx context.Context, id string) (*domain.Tracking, error)
	FindTrackingByItem(ctx context.Context, scheduleItemID string) (*domain.Tracking, error)
}
