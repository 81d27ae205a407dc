package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

var _ ports.UserRepository = (*Store)(nil)

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := s.exec(func() error {
		snap, err := s.client.Collection(usersCollection).Doc(id).Get(ctx)
		if err != nil {
			return err
		}
		return snap.DataTo(&user)
	})
	if err != nil {
		return nil, err
	}
	user.ID = id
	return &user, nil
}

func (s *Store) SetUser(ctx context.Context, user domain.User) error {
	return s.exec(func() error {
		_, err := s.client.Collection(usersCollection).Doc(user.ID).Set(ctx, user)
		return err
	})
}

func (s *Store) UpdateProfile(ctx context.Context, id string, profile domain.Profile) (*domain.User, error) {
	err := s.exec(func() error {
		_, err := s.client.Collection(usersCollection).Doc(id).Update(ctx, []firestore.Update{
			{Path: "name", Value: profile.Name},
			{Path: "phone", Value: profile.Phone},
			{Path: "updatedAt", Value: time.Now()},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}
