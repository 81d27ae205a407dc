// Package firestore stores user profiles and subscriptions as documents.
package firestore

import (
	"errors"

	"cloud.google.com/go/firestore"
	"github.com/sony/gobreaker"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/AchilleasB/activeplay/booking-service/internal/config"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
)

const (
	usersCollection         = "users"
	subscriptionsCollection = "subscriptions"
)

// Store implements the user and subscription repositories on Firestore.
type Store struct {
	client *firestore.Client
	cb     *gobreaker.CircuitBreaker
}

func NewStore(client *firestore.Client) *Store {
	return &Store{client: client, cb: config.NewCircuitBreaker(config.BreakerFirestore)}
}

// exec runs fn through the breaker; a missing document is not a failure.
func (s *Store) exec(fn func() error) error {
	var missing bool
	_, err := s.cb.Execute(func() (interface{}, error) {
		err := fn()
		if status.Code(err) == codes.NotFound || errors.Is(err, domain.ErrNotFound) {
			missing = true
			return nil, nil
		}
		return nil, err
	})
	if missing {
		return domain.ErrNotFound
	}
	return err
}

func (s *Store) Close() error {
	return s.client.Close()
}
