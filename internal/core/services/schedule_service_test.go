package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
	"github.com/AchilleasB/activeplay/booking-service/test/mocks"
)

var scheduleNow = time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC)

func newTestScheduleService(items ...domain.ScheduleItem) (*ScheduleService, *mocks.MockScheduleRepository) {
	repo := mocks.NewMockScheduleRepository(items...)
	log, _ := mocks.NewTestLogger()
	svc := NewScheduleService(repo, time.UTC, log)
	svc.now = func() time.Time { return scheduleNow }
	return svc, repo
}

func TestScheduleService_List_Filters(t *testing.T) {
	svc, _ := newTestScheduleService(
		mocks.SampleScheduleItem("tomorrow", scheduleNow.Add(24*time.Hour), "Sarah"),
		mocks.SampleScheduleItem("today", scheduleNow.Add(6*time.Hour), "Sarah", "Mike"),
		mocks.SampleScheduleItem("yesterday", scheduleNow.Add(-20*time.Hour), "Mike"),
		mocks.SampleScheduleItem("next-week", scheduleNow.Add(8*24*time.Hour), "Sarah"),
	)

	tests := []struct {
		name   string
		filter domain.ScheduleFilter
		want   []string
	}{
		{name: "all", filter: domain.ScheduleFilter{Date: domain.FilterAll, Child: domain.FilterAll}, want: []string{"yesterday", "today", "tomorrow", "next-week"}},
		{name: "empty filter", filter: domain.ScheduleFilter{}, want: []string{"yesterday", "today", "tomorrow", "next-week"}},
		{name: "today", filter: domain.ScheduleFilter{Date: domain.DateToday}, want: []string{"today"}},
		{name: "tomorrow", filter: domain.ScheduleFilter{Date: domain.DateTomorrow}, want: []string{"tomorrow"}},
		{name: "yesterday", filter: domain.ScheduleFilter{Date: domain.DateYesterday}, want: []string{"yesterday"}},
		{name: "this week matches everything", filter: domain.ScheduleFilter{Date: domain.DateThisWeek}, want: []string{"yesterday", "today", "tomorrow", "next-week"}},
		{name: "child", filter: domain.ScheduleFilter{Child: "Mike"}, want: []string{"yesterday", "today"}},
		{name: "child and date", filter: domain.ScheduleFilter{Date: domain.DateToday, Child: "Mike"}, want: []string{"today"}},
		{name: "no match", filter: domain.ScheduleFilter{Date: domain.DateTomorrow, Child: "Mike"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := svc.List(context.Background(), mocks.TestParentID, tt.filter)
			require.NoError(t, err)
			ids := make([]string, 0, len(items))
			for _, item := range items {
				ids = append(ids, item.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestScheduleService_List_OtherParent(t *testing.T) {
	svc, _ := newTestScheduleService(mocks.SampleScheduleItem("s1", scheduleNow, "Sarah"))

	items, err := svc.List(context.Background(), "someone-else", domain.ScheduleFilter{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestScheduleService_Cancel_WritesOutboxEvent(t *testing.T) {
	svc, repo := newTestScheduleService(mocks.SampleScheduleItem("s1", scheduleNow.Add(time.Hour), "Sarah"))

	item, err := svc.Cancel(context.Background(), mocks.TestParentID, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCancelled, item.Status)
	assert.Equal(t, domain.SessionCancelled, repo.Items()[0].Status)

	require.Len(t, repo.CancelEvents, 1)
	var evt ports.SessionCancelledEvent
	require.NoError(t, json.Unmarshal(repo.CancelEvents[0], &evt))
	assert.Equal(t, "s1", evt.ScheduleItemID)
	assert.Equal(t, mocks.TestParentID, evt.ParentID)
	assert.Equal(t, []string{"Sarah"}, evt.Children)
}

func TestScheduleService_Cancel_Errors(t *testing.T) {
	done := mocks.SampleScheduleItem("done", scheduleNow.Add(-48*time.Hour))
	done.Status = domain.SessionCompleted
	svc, repo := newTestScheduleService(done, mocks.SampleScheduleItem("s1", scheduleNow))

	_, err := svc.Cancel(context.Background(), mocks.TestParentID, "done")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = svc.Cancel(context.Background(), mocks.TestParentID, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Cancel(context.Background(), "intruder", "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Cancel(context.Background(), mocks.TestParentID, "s1")
	require.NoError(t, err)
	_, err = svc.Cancel(context.Background(), mocks.TestParentID, "s1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	assert.Len(t, repo.CancelCalls, 1)
}

func TestScheduleService_Reschedule_ComingSoon(t *testing.T) {
	svc, _ := newTestScheduleService(mocks.SampleScheduleItem("s1", scheduleNow))

	err := svc.Reschedule(context.Background(), mocks.TestParentID, "s1")
	assert.ErrorIs(t, err, domain.ErrComingSoon)
	assert.EqualError(t, err, "Reschedule feature coming soon!")

	err = svc.Reschedule(context.Background(), mocks.TestParentID, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
