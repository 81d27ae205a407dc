package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

const (
	trackingKeyPrefix     = "tracking:"
	trackingItemKeyPrefix = "tracking-item:"
)

type TrackingStore struct {
	client Client
	ttl    time.Duration
	*Breaker
}

var _ ports.TrackingStore = (*TrackingStore)(nil)

func NewTrackingStore(client Client, ttl time.Duration, b *Breaker) *TrackingStore {
	return &TrackingStore{client: client, ttl: ttl, Breaker: b}
}

// SaveTracking writes the snapshot and points its schedule item at it, both
// with the same TTL.
func (s *TrackingStore) SaveTracking(ctx context.Context, t domain.Tracking) error {
	body, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return s.exec(func() error {
		if err := s.client.Set(ctx, trackingKeyPrefix+t.ID, string(body), s.ttl).Err(); err != nil {
			return err
		}
		return s.client.Set(ctx, trackingItemKeyPrefix+t.ScheduleItemID, t.ID, s.ttl).Err()
	})
}

func (s *TrackingStore) GetTracking(ctx context.Context, id string) (*domain.Tracking, error) {
	raw, err := s.get(ctx, trackingKeyPrefix+id)
	if err != nil {
		return nil, err
	}

	var t domain.Tracking
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// FindTrackingByItem returns the latest visit saved for a schedule item.
func (s *TrackingStore) FindTrackingByItem(ctx context.Context, scheduleItemID string) (*domain.Tracking, error) {
	id, err := s.get(ctx, trackingItemKeyPrefix+scheduleItemID)
	if err != nil {
		return nil, err
	}
	return s.GetTracking(ctx, id)
}

func (s *TrackingStore) get(ctx context.Context, key string) (string, error) {
	var raw string
	err := s.exec(func() error {
		var err error
		raw, err = s.client.Get(ctx, key).Result()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrNotFound
	}
	return raw, err
}
