package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportPrice(t *testing.T) {
	tests := []struct {
		price int
		want  int
	}{
		{price: 4999, want: 1500},
		{price: 2999, want: 900},
		{price: 1999, want: 600},
		{price: 0, want: 0},
		{price: 5, want: 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TransportPrice(tt.price), "price %d", tt.price)
	}
}

func TestPlan_Quote(t *testing.T) {
	p := Plan{ID: "premium-5", Price: 4999}

	q := p.Quote(true)
	assert.Equal(t, 6499, q.Total)
	assert.Equal(t, 1500, q.TransportPrice)
	assert.True(t, q.IncludesTransport)

	q = p.Quote(false)
	assert.Equal(t, 4999, q.Total)
	assert.Zero(t, q.TransportPrice)
}

func TestNewSubscription(t *testing.T) {
	start := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	sub := NewSubscription("u1", "basic-3", nil, true, start)

	assert.Equal(t, "u1_1705311000000", sub.ID)
	assert.Equal(t, SubscriptionActive, sub.Status)
	assert.Equal(t, time.Date(2024, 2, 15, 9, 30, 0, 0, time.UTC), sub.EndDate)
	assert.NotNil(t, sub.ChildIDs)
	assert.True(t, sub.IsActive())
	assert.True(t, sub.Covers(start))
	assert.False(t, sub.Covers(sub.EndDate))

	var none *Subscription
	assert.False(t, none.IsActive())
}

func TestChild_AgeOn(t *testing.T) {
	dob := time.Date(2015, 8, 20, 0, 0, 0, 0, time.UTC)
	c := Child{DateOfBirth: dob, Age: 99}

	assert.Equal(t, 8, c.AgeOn(time.Date(2024, 8, 19, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 9, c.AgeOn(time.Date(2024, 8, 20, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, c.AgeOn(time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 7, Child{Age: 7}.AgeOn(time.Now()))
}

func TestChild_Validate(t *testing.T) {
	assert.NoError(t, Child{Name: "Sarah", Age: 8}.Validate())
	assert.True(t, IsValidation(Child{Age: 8}.Validate()))
	assert.True(t, IsValidation(Child{Name: "Sarah", Age: -1}.Validate()))
}

func TestDateBucket(t *testing.T) {
	now := time.Date(2024, 3, 12, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, DateToday, DateBucket(now.Add(-23*time.Hour), now))
	assert.Equal(t, DateTomorrow, DateBucket(now.Add(time.Hour), now))
	assert.Equal(t, DateYesterday, DateBucket(now.Add(-24*time.Hour), now))
	assert.Equal(t, "", DateBucket(now.Add(72*time.Hour), now))
}

func TestDateBucket_AcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Amsterdam")
	if err != nil {
		t.Skip("tzdata not available")
	}
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, loc)

	assert.Equal(t, DateYesterday, DateBucket(time.Date(2024, 3, 30, 1, 0, 0, 0, loc), now))
	assert.Equal(t, DateTomorrow, DateBucket(time.Date(2024, 4, 1, 0, 30, 0, 0, loc), now))
}

func TestScheduleItem_Cancel(t *testing.T) {
	item := ScheduleItem{Status: SessionUpcoming}
	require.NoError(t, item.Cancel())
	assert.Equal(t, SessionCancelled, item.Status)
	assert.ErrorIs(t, item.Cancel(), ErrInvalidTransition)

	done := ScheduleItem{Status: SessionCompleted}
	assert.ErrorIs(t, done.Cancel(), ErrInvalidTransition)
}

func TestReport_OverallScoreAndBand(t *testing.T) {
	r := Report{PhysicalScore: 85, SocialScore: 90, BehaviorScore: 88}
	assert.Equal(t, 88, r.OverallScore())

	assert.Equal(t, BandExcellent, BandFor(90))
	assert.Equal(t, BandGood, BandFor(89))
	assert.Equal(t, BandFair, BandFor(70))
	assert.Equal(t, BandNeedsWork, BandFor(69))
}

func TestPeriodRange(t *testing.T) {
	sunday := time.Date(2024, 3, 17, 18, 0, 0, 0, time.UTC)

	from, to, ok := PeriodRange(PeriodThisWeek, sunday)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC), to)

	from, _, ok = PeriodRange(PeriodLastMonth, sunday)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), from)

	_, _, ok = PeriodRange(FilterAll, sunday)
	assert.False(t, ok)
}

func TestTrackingStatus_Order(t *testing.T) {
	next, ok := TrackingApproaching.Next()
	assert.True(t, ok)
	assert.Equal(t, TrackingArrived, next)

	_, ok = TrackingCompleted.Next()
	assert.False(t, ok)

	assert.True(t, TrackingArrived.Before(TrackingBoarded))
	assert.False(t, TrackingInTransit.Before(TrackingBoarded))
}

func TestTracking_PublicHidesOTP(t *testing.T) {
	tr := NewTracking("t1", ScheduleItem{ID: "s1", ParentID: "p1", Children: []string{"Sarah"}}, Driver{Name: "Rajesh Kumar"}, time.Now())
	require.NoError(t, tr.Arrive("0042", time.Now()))
	assert.Equal(t, "0042", tr.Public().OTPCode)

	require.NoError(t, tr.Board("0042", time.Now()))
	tr.OTPCode = "leak"
	assert.Empty(t, tr.Public().OTPCode)
}

func TestComingSoon(t *testing.T) {
	err := ComingSoon("Share")
	assert.EqualError(t, err, "Share feature coming soon!")
	assert.True(t, errors.Is(err, ErrComingSoon))
}
