package firestore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

var testClient *firestore.Client

// TestMain runs against the Firestore emulator only; the client library picks
// up FIRESTORE_EMULATOR_HOST on its own.
func TestMain(m *testing.M) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		fmt.Println("Skipping Firestore integration tests: FIRESTORE_EMULATOR_HOST not set")
		os.Exit(0)
	}

	var err error
	testClient, err = firestore.NewClient(context.Background(), "activeplay-test")
	if err != nil {
		fmt.Printf("Failed to create Firestore client: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	testClient.Close()
	os.Exit(code)
}

func TestUserDocuments(t *testing.T) {
	store := NewStore(testClient)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	_, err := store.GetUser(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	user := domain.User{ID: uuid.NewString(), Name: "Priya", Email: "priya@example.com", Role: domain.RoleParent, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.SetUser(ctx, user))

	got, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, domain.RoleParent, got.Role)

	updated, err := store.UpdateProfile(ctx, user.ID, domain.Profile{Name: "Priya Sharma", Phone: "+91 90000 00000"})
	require.NoError(t, err)
	assert.Equal(t, "Priya Sharma", updated.Name)
	assert.Equal(t, "priya@example.com", updated.Email)

	_, err = store.UpdateProfile(ctx, uuid.NewString(), domain.Profile{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubscriptionDocuments(t *testing.T) {
	store := NewStore(testClient)
	ctx := context.Background()
	userID := uuid.NewString()

	sub := domain.NewSubscription(userID, "premium-5", []string{"child-1"}, true, time.Now())
	require.NoError(t, store.CreateSubscription(ctx, sub))

	active, err := store.FindActiveByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, sub.ID, active[0].ID)
	assert.True(t, active[0].IncludesTransport)

	cancelled := domain.SubscriptionCancelled
	require.NoError(t, store.UpdateSubscription(ctx, sub.ID, ports.SubscriptionUpdate{Status: &cancelled}))

	active, err = store.FindActiveByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, active)

	assert.ErrorIs(t, store.UpdateSubscription(ctx, "missing_0", ports.SubscriptionUpdate{Status: &cancelled}), domain.ErrNotFound)
}
