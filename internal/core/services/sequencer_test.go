package services

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
	"github.com/AchilleasB/activeplay/booking-service/test/mocks"
)

func fixedOTP(code string) OTPGenerator {
	return func() (string, error) { return code, nil }
}

func newTestSequencer() *Sequencer {
	item := mocks.SampleScheduleItem("s1", time.Now().Add(time.Hour), "Sarah")
	t := domain.NewTracking("trk-1", item, mocks.TestDriver(), time.Now())
	return NewSequencer(t, fixedOTP("4821"), time.Now)
}

func TestRandomOTP_FourDigits(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{4}$`)
	for i := 0; i < 50; i++ {
		code, err := RandomOTP()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

func TestSequencer_FullVisit(t *testing.T) {
	seq := newTestSequencer()
	assert.Equal(t, domain.TrackingApproaching, seq.Snapshot().Status)

	changed, err := seq.Tick()
	require.NoError(t, err)
	assert.True(t, changed)
	snap := seq.Snapshot()
	assert.Equal(t, domain.TrackingArrived, snap.Status)
	assert.Equal(t, "4821", snap.OTPCode)
	assert.True(t, snap.ShowOTP)

	changed, err = seq.Tick()
	require.NoError(t, err)
	assert.False(t, changed, "only approaching advances on tick")

	_, err = seq.ConfirmPickup("0000")
	assert.ErrorIs(t, err, domain.ErrInvalidOTP)
	assert.Equal(t, domain.TrackingArrived, seq.Snapshot().Status)

	changed, err = seq.ConfirmPickup("4821")
	require.NoError(t, err)
	assert.True(t, changed)
	snap = seq.Snapshot()
	assert.Equal(t, domain.TrackingBoarded, snap.Status)
	assert.False(t, snap.ShowOTP)
	assert.Empty(t, snap.OTPCode)

	changed, err = seq.ConfirmPickup("4821")
	require.NoError(t, err)
	assert.False(t, changed, "second confirmation is a no-op")

	require.NoError(t, seq.Depart())
	require.NoError(t, seq.Complete())
	assert.Equal(t, domain.TrackingCompleted, seq.Snapshot().Status)
}

func TestSequencer_OutOfOrder(t *testing.T) {
	seq := newTestSequencer()

	_, err := seq.ConfirmPickup("4821")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.ErrorIs(t, seq.Depart(), domain.ErrInvalidTransition)
	assert.ErrorIs(t, seq.Complete(), domain.ErrInvalidTransition)
	assert.Equal(t, domain.TrackingApproaching, seq.Snapshot().Status)
}

func TestSequencer_OTPFailure(t *testing.T) {
	item := mocks.SampleScheduleItem("s1", time.Now(), "Sarah")
	seq := NewSequencer(domain.NewTracking("trk-1", item, mocks.TestDriver(), time.Now()), func() (string, error) {
		return "", errors.New("entropy exhausted")
	}, nil)

	changed, err := seq.Tick()
	assert.Error(t, err)
	assert.False(t, changed)
	assert.Equal(t, domain.TrackingApproaching, seq.Snapshot().Status)
}

func TestSequencer_SnapshotIsCopy(t *testing.T) {
	seq := newTestSequencer()
	snap := seq.Snapshot()
	snap.Children[0] = "Someone"

	assert.Equal(t, []string{"Sarah"}, seq.Snapshot().Children)
}
