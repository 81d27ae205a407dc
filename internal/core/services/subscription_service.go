package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

type SubscriptionService struct {
	repo    ports.SubscriptionRepository
	plans   []domain.Plan
	metrics ports.Metrics
	log     logrus.FieldLogger
	now     func() time.Time
}

var _ ports.SubscriptionService = (*SubscriptionService)(nil)

func NewSubscriptionService(
	repo ports.SubscriptionRepository,
	plans []domain.Plan,
	metrics ports.Metrics,
	log logrus.FieldLogger,
) *SubscriptionService {
	return &SubscriptionService{
		repo:    repo,
		plans:   plans,
		metrics: metrics,
		log:     log,
		now:     time.Now,
	}
}

func (s *SubscriptionService) Plans() []domain.Plan {
	out := make([]domain.Plan, len(s.plans))
	copy(out, s.plans)
	return out
}

func (s *SubscriptionService) plan(id string) (domain.Plan, error) {
	for _, p := range s.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Plan{}, domain.ErrPlanNotFound
}

func (s *SubscriptionService) Quote(planID string, includesTransport bool) (domain.Quote, error) {
	p, err := s.plan(planID)
	if err != nil {
		return domain.Quote{}, err
	}
	return p.Quote(includesTransport), nil
}

// Current returns the user's most recently started active subscription, or
// nil when there is none. More than one active subscription per user is
// tolerated.
func (s *SubscriptionService) Current(ctx context.Context, userID string) (*domain.Subscription, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	subs, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch subscription: %w", err)
	}
	if len(subs) == 0 {
		return nil, nil
	}
	sort.Slice(subs, func(i, j int) bool {
		return subs[i].StartDate.After(subs[j].StartDate)
	})
	current := subs[0]
	return &current, nil
}

func (s *SubscriptionService) HasActiveSubscription(ctx context.Context, userID string) (bool, error) {
	current, err := s.Current(ctx, userID)
	if err != nil {
		return false, err
	}
	return current.IsActive(), nil
}

func (s *SubscriptionService) Subscribe(
	ctx context.Context,
	userID, planID string,
	childIDs []string,
	includesTransport bool,
) (*domain.Subscription, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if _, err := s.plan(planID); err != nil {
		return nil, err
	}

	sub := domain.NewSubscription(userID, planID, childIDs, includesTransport, s.now())
	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}

	s.metrics.SubscriptionChanged("subscribe")
	s.log.WithFields(logrus.Fields{
		"user_id":         userID,
		"subscription_id": sub.ID,
		"plan_id":         planID,
		"transport":       includesTransport,
	}).Info("subscription created")
	return &sub, nil
}

func (s *SubscriptionService) Cancel(ctx context.Context, userID string) (*domain.Subscription, error) {
	current, err := s.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNoActiveSubscription
	}

	status := domain.SubscriptionCancelled
	if err := s.repo.UpdateSubscription(ctx, current.ID, ports.SubscriptionUpdate{Status: &status}); err != nil {
		return nil, fmt.Errorf("cancel subscription: %w", err)
	}
	current.Status = status
	current.UpdatedAt = s.now()

	s.metrics.SubscriptionChanged("cancel")
	s.log.WithFields(logrus.Fields{
		"user_id":         userID,
		"subscription_id": current.ID,
	}).Info("subscription cancelled")
	return current, nil
}

func (s *SubscriptionService) Update(
	ctx context.Context,
	userID, planID string,
	includesTransport bool,
) (*domain.Subscription, error) {
	current, err := s.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNoActiveSubscription
	}
	if _, err := s.plan(planID); err != nil {
		return nil, err
	}

	update := ports.SubscriptionUpdate{PlanID: &planID, IncludesTransport: &includesTransport}
	if err := s.repo.UpdateSubscription(ctx, current.ID, update); err != nil {
		return nil, fmt.Errorf("update subscription: %w", err)
	}
	current.PlanID = planID
	current.IncludesTransport = includesTransport
	current.UpdatedAt = s.now()

	s.metrics.SubscriptionChanged("update")
	return current, nil
}
