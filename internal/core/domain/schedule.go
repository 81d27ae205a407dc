package domain

import (
	"slices"
	"time"
)

type SessionStatus string

const (
	SessionUpcoming  SessionStatus = "upcoming"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionCancelled
}

type ScheduleItem struct {
	ID       string        `json:"id"`
	ParentID string        `json:"parentId"`
	StartsAt time.Time     `json:"startsAt"`
	Time     string        `json:"time"`
	Activity string        `json:"activity"`
	Location string        `json:"location"`
	Status   SessionStatus `json:"status"`
	Children []string      `json:"children"`
	Duration string        `json:"duration"`
}

// Cancel moves an upcoming item to cancelled.
func (s *ScheduleItem) Cancel() error {
	if s.Status.Terminal() {
		return ErrInvalidTransition
	}
	s.Status = SessionCancelled
	return nil
}

const (
	FilterAll       = "All"
	DateYesterday   = "Yesterday"
	DateToday       = "Today"
	DateTomorrow    = "Tomorrow"
	DateThisWeek    = "This Week"
	PeriodThisWeek  = "This Week"
	PeriodLastWeek  = "Last Week"
	PeriodThisMonth = "This Month"
	PeriodLastMonth = "Last Month"
)

// DateFilters lists the date buckets offered by the schedule screen.
var DateFilters = []string{DateYesterday, DateToday, DateTomorrow, DateThisWeek}

// DateBucket names the day of t relative to now: Yesterday, Today,
// Tomorrow, or "" for any other day.
func DateBucket(t, now time.Time) string {
	t = t.In(now.Location())
	today, day := startOfDay(now), startOfDay(t)
	switch {
	case day.Equal(today.AddDate(0, 0, -1)):
		return DateYesterday
	case day.Equal(today):
		return DateToday
	case day.Equal(today.AddDate(0, 0, 1)):
		return DateTomorrow
	}
	return ""
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

type ScheduleFilter struct {
	Date  string
	Child string
}

// Match is a pure predicate over a single item. "All" and "This Week" on
// the date axis, and "All" on the child axis, match everything.
func (f ScheduleFilter) Match(item ScheduleItem, now time.Time) bool {
	switch f.Date {
	case "", FilterAll, DateThisWeek:
	default:
		if DateBucket(item.StartsAt, now) != f.Date {
			return false
		}
	}
	if f.Child != "" && f.Child != FilterAll && !slices.Contains(item.Children, f.Child) {
		return false
	}
	return true
}

func FilterSchedule(items []ScheduleItem, f ScheduleFilter, now time.Time) []ScheduleItem {
	out := make([]ScheduleItem, 0, len(items))
	for _, item := range items {
		if f.Match(item, now) {
			out = append(out, item)
		}
	}
	return out
}
