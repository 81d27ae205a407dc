package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
	"github.com/AchilleasB/activeplay/booking-service/test/mocks"
)

func newTestRelay() (*Relay, *mocks.MockSessionEventPublisher) {
	publisher := mocks.NewMockSessionEventPublisher()
	log, _ := mocks.NewTestLogger()
	return NewRelay(nil, "", publisher, log), publisher
}

func TestDispatch_SessionCancelled(t *testing.T) {
	relay, publisher := newTestRelay()
	evt := ports.SessionCancelledEvent{
		ScheduleItemID: "s1",
		ParentID:       "parent-1",
		Activity:       "Cricket Session",
		StartsAt:       time.Date(2024, 3, 1, 16, 0, 0, 0, time.UTC),
		Children:       []string{"Mike"},
	}
	payload, err := json.Marshal(evt)
	require.NoError(t, err)

	require.NoError(t, relay.dispatch(context.Background(), ports.EventSessionCancelled, payload))

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, evt, published[0])
}

func TestDispatch_BadPayload(t *testing.T) {
	relay, publisher := newTestRelay()

	err := relay.dispatch(context.Background(), ports.EventSessionCancelled, []byte("{not json"))
	assert.ErrorIs(t, err, errBadPayload)
	assert.Zero(t, publisher.GetPublishCount())
}

func TestDispatch_UnknownTypeIsSkipped(t *testing.T) {
	relay, publisher := newTestRelay()

	assert.NoError(t, relay.dispatch(context.Background(), "child.created", []byte(`{}`)))
	assert.Zero(t, publisher.GetPublishCount())
}

func TestDispatch_PublishFailureIsRetryable(t *testing.T) {
	relay, publisher := newTestRelay()
	publisher.PublishError = errors.New("broker unavailable")

	err := relay.dispatch(context.Background(), ports.EventSessionCancelled, []byte(`{"scheduleItemId":"s1"}`))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errBadPayload)
}

func TestRelay_Health(t *testing.T) {
	relay, _ := newTestRelay()
	assert.True(t, relay.IsHealthy())
	assert.True(t, relay.IsReady())

	relay.markUnhealthy()
	assert.False(t, relay.IsHealthy())
	assert.False(t, relay.IsReady())

	relay.markProcessed()
	assert.True(t, relay.IsReady())

	relay.mu.Lock()
	relay.lastProcessed = time.Now().Add(-2 * healthCheckStaleThreshold)
	relay.mu.Unlock()
	assert.False(t, relay.IsReady())
}
