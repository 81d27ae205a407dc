package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
	"github.com/AchilleasB/activeplay/booking-service/test/mocks"
)

func newTestSubscriptionService(t *testing.T) (*SubscriptionService, *mocks.MockSubscriptionRepository, *mocks.MockMetrics) {
	t.Helper()
	repo := mocks.NewMockSubscriptionRepository()
	metrics := mocks.NewMockMetrics()
	log, _ := mocks.NewTestLogger()
	svc := NewSubscriptionService(repo, DefaultPlans(), metrics, log)
	svc.now = func() time.Time { return time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC) }
	return svc, repo, metrics
}

func TestSubscriptionService_Quote(t *testing.T) {
	svc, _, _ := newTestSubscriptionService(t)

	tests := []struct {
		name      string
		planID    string
		transport bool
		total     int
		transFee  int
		wantErr   error
	}{
		{name: "premium with transport", planID: "premium-5", transport: true, total: 6499, transFee: 1500},
		{name: "premium without transport", planID: "premium-5", total: 4999},
		{name: "basic with transport", planID: "basic-3", transport: true, total: 3899, transFee: 900},
		{name: "weekend with transport", planID: "weekend-2", transport: true, total: 2599, transFee: 600},
		{name: "unknown plan", planID: "gold", wantErr: domain.ErrPlanNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := svc.Quote(tt.planID, tt.transport)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.total, q.Total)
			assert.Equal(t, tt.transFee, q.TransportPrice)
			assert.Equal(t, "INR", q.Currency)
		})
	}
}

func TestSubscriptionService_Plans_ReturnsCopy(t *testing.T) {
	svc, _, _ := newTestSubscriptionService(t)

	plans := svc.Plans()
	require.Len(t, plans, 3)
	plans[0].Name = "changed"

	assert.Equal(t, "Basic Explorer", svc.Plans()[0].Name)
}

func TestSubscriptionService_Subscribe(t *testing.T) {
	for _, plan := range DefaultPlans() {
		t.Run(plan.ID, func(t *testing.T) {
			svc, repo, metrics := newTestSubscriptionService(t)
			ctx := context.Background()

			sub, err := svc.Subscribe(ctx, "user-1", plan.ID, []string{"child-1"}, true)
			require.NoError(t, err)

			assert.Equal(t, domain.SubscriptionActive, sub.Status)
			assert.True(t, sub.IncludesTransport)
			assert.Equal(t, time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC), sub.StartDate)
			assert.Equal(t, sub.StartDate.AddDate(0, 1, 0), sub.EndDate)
			assert.Empty(t, sub.PaymentHistory)

			stored, ok := repo.Get(sub.ID)
			require.True(t, ok)
			assert.Equal(t, plan.ID, stored.PlanID)
			assert.Equal(t, 1, metrics.Subscriptions["subscribe"])

			active, err := svc.HasActiveSubscription(ctx, "user-1")
			require.NoError(t, err)
			assert.True(t, active)
		})
	}
}

func TestSubscriptionService_Subscribe_Errors(t *testing.T) {
	svc, repo, _ := newTestSubscriptionService(t)
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, "", "premium-5", nil, false)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = svc.Subscribe(ctx, "user-1", "missing", nil, false)
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)

	repo.CreateError = errors.New("firestore down")
	_, err = svc.Subscribe(ctx, "user-1", "basic-3", nil, false)
	assert.ErrorContains(t, err, "firestore down")
}

func TestSubscriptionService_Current_PicksLatest(t *testing.T) {
	svc, repo, _ := newTestSubscriptionService(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	older := domain.NewSubscription("user-1", "basic-3", nil, false, start)
	newer := domain.NewSubscription("user-1", "premium-5", nil, false, start.Add(48*time.Hour))
	cancelled := domain.NewSubscription("user-1", "weekend-2", nil, false, start.Add(96*time.Hour))
	cancelled.Status = domain.SubscriptionCancelled
	repo.Seed(older)
	repo.Seed(newer)
	repo.Seed(cancelled)

	current, err := svc.Current(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "premium-5", current.PlanID)
}

func TestSubscriptionService_Current_None(t *testing.T) {
	svc, _, _ := newTestSubscriptionService(t)

	current, err := svc.Current(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Nil(t, current)

	active, err := svc.HasActiveSubscription(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestSubscriptionService_Cancel(t *testing.T) {
	svc, repo, metrics := newTestSubscriptionService(t)
	ctx := context.Background()

	sub, err := svc.Subscribe(ctx, "user-1", "basic-3", nil, false)
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionCancelled, cancelled.Status)

	stored, _ := repo.Get(sub.ID)
	assert.Equal(t, domain.SubscriptionCancelled, stored.Status)
	assert.Equal(t, sub.EndDate, stored.EndDate)
	assert.Equal(t, 1, metrics.Subscriptions["cancel"])

	active, err := svc.HasActiveSubscription(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, active)

	_, err = svc.Cancel(ctx, "user-1")
	assert.ErrorIs(t, err, domain.ErrNoActiveSubscription)
}

func TestSubscriptionService_Update(t *testing.T) {
	svc, repo, _ := newTestSubscriptionService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, "user-1", "premium-5", true)
	assert.ErrorIs(t, err, domain.ErrNoActiveSubscription)

	sub, err := svc.Subscribe(ctx, "user-1", "basic-3", nil, false)
	require.NoError(t, err)

	_, err = svc.Update(ctx, "user-1", "platinum", true)
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)

	updated, err := svc.Update(ctx, "user-1", "premium-5", true)
	require.NoError(t, err)
	assert.Equal(t, "premium-5", updated.PlanID)
	assert.True(t, updated.IncludesTransport)

	stored, _ := repo.Get(sub.ID)
	assert.Equal(t, "premium-5", stored.PlanID)
	assert.Equal(t, domain.SubscriptionActive, stored.Status)
}
