package redisstore

import (
	"context"
	"time"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

const sessionKeyPrefix = "session:"

type SessionStore struct {
	client Client
	*Breaker
}

var _ ports.SessionStore = (*SessionStore)(nil)

func NewSessionStore(client Client, b *Breaker) *SessionStore {
	return &SessionStore{client: client, Breaker: b}
}

func (s *SessionStore) SaveSession(ctx context.Context, claims domain.Claims, ttl time.Duration) error {
	return s.exec(func() error {
		return s.client.Set(ctx, sessionKeyPrefix+claims.SessionID, claims.UserID, ttl).Err()
	})
}

func (s *SessionStore) SessionActive(ctx context.Context, sessionID string) (bool, error) {
	var n int64
	err := s.exec(func() error {
		var err error
		n, err = s.client.Exists(ctx, sessionKeyPrefix+sessionID).Result()
		return err
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SessionStore) RevokeSession(ctx context.Context, sessionID string) error {
	return s.exec(func() error {
		return s.client.Del(ctx, sessionKeyPrefix+sessionID).Err()
	})
}
