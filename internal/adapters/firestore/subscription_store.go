package firestore

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

var _ ports.SubscriptionRepository = (*Store)(nil)

func (s *Store) CreateSubscription(ctx context.Context, sub domain.Subscription) error {
	return s.exec(func() error {
		_, err := s.client.Collection(subscriptionsCollection).Doc(sub.ID).Set(ctx, sub)
		return err
	})
}

// FindActiveByUser queries subscriptions where userId matches and status is
// active.
func (s *Store) FindActiveByUser(ctx context.Context, userID string) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	err := s.exec(func() error {
		iter := s.client.Collection(subscriptionsCollection).
			Where("userId", "==", userID).
			Where("status", "==", string(domain.SubscriptionActive)).
			Documents(ctx)
		defer iter.Stop()

		subs = make([]domain.Subscription, 0)
		for {
			snap, err := iter.Next()
			if errors.Is(err, iterator.Done) {
				return nil
			}
			if err != nil {
				return err
			}
			var sub domain.Subscription
			if err := snap.DataTo(&sub); err != nil {
				return err
			}
			sub.ID = snap.Ref.ID
			subs = append(subs, sub)
		}
	})
	return subs, err
}

func (s *Store) UpdateSubscription(ctx context.Context, id string, fields ports.SubscriptionUpdate) error {
	updates := []firestore.Update{{Path: "updatedAt", Value: time.Now()}}
	if fields.Status != nil {
		updates = append(updates, firestore.Update{Path: "status", Value: string(*fields.Status)})
	}
	if fields.PlanID != nil {
		updates = append(updates, firestore.Update{Path: "planId", Value: *fields.PlanID})
	}
	if fields.IncludesTransport != nil {
		updates = append(updates, firestore.Update{Path: "includesTransport", Value: *fields.IncludesTransport})
	}

	return s.exec(func() error {
		_, err := s.client.Collection(subscriptionsCollection).Doc(id).Update(ctx, updates)
		return err
	})
}
