package domain

import (
	"slices"
	"time"
)

type Report struct {
	ID            string    `json:"id"`
	ChildID       string    `json:"childId"`
	ChildName     string    `json:"childName"`
	PeriodStart   time.Time `json:"periodStart"`
	PeriodEnd     time.Time `json:"periodEnd"`
	Week          string    `json:"week"`
	PhysicalScore int       `json:"physicalScore"`
	SocialScore   int       `json:"socialScore"`
	BehaviorScore int       `json:"behaviorScore"`
	Activities    []string  `json:"activities"`
	Highlights    []string  `json:"highlights"`
	Improvements  []string  `json:"improvements"`
}

// OverallScore is the rounded mean of the three scores.
func (r Report) OverallScore() int {
	return (r.PhysicalScore + r.SocialScore + r.BehaviorScore + 1) / 3
}

type AchievementType string

const (
	AchievementSkill         AchievementType = "skill"
	AchievementBehavior      AchievementType = "behavior"
	AchievementParticipation AchievementType = "participation"
)

type Achievement struct {
	ID          string          `json:"id"`
	ChildID     string          `json:"childId"`
	ChildName   string          `json:"childName"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Type        AchievementType `json:"type"`
	EarnedAt    time.Time       `json:"earnedAt"`
}

type ScoreBand string

const (
	BandExcellent ScoreBand = "excellent"
	BandGood      ScoreBand = "good"
	BandFair      ScoreBand = "fair"
	BandNeedsWork ScoreBand = "needs-work"
)

func BandFor(score int) ScoreBand {
	switch {
	case score >= 90:
		return BandExcellent
	case score >= 80:
		return BandGood
	case score >= 70:
		return BandFair
	}
	return BandNeedsWork
}

var ReportPeriods = []string{PeriodThisWeek, PeriodLastWeek, PeriodThisMonth, PeriodLastMonth}

// PeriodRange resolves a period name to [from, to) relative to now. Weeks
// start on Monday. Unknown or empty names return ok=false.
func PeriodRange(period string, now time.Time) (from, to time.Time, ok bool) {
	today := startOfDay(now)
	weekday := (int(today.Weekday()) + 6) % 7
	weekStart := today.AddDate(0, 0, -weekday)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())

	switch period {
	case PeriodThisWeek:
		return weekStart, weekStart.AddDate(0, 0, 7), true
	case PeriodLastWeek:
		return weekStart.AddDate(0, 0, -7), weekStart, true
	case PeriodThisMonth:
		return monthStart, monthStart.AddDate(0, 1, 0), true
	case PeriodLastMonth:
		return monthStart.AddDate(0, -1, 0), monthStart, true
	}
	return time.Time{}, time.Time{}, false
}

type ReportFilter struct {
	Child  string
	Period string
}

// Match keeps reports for the child whose period overlaps the selected
// range. An empty or "All" child matches every child.
func (f ReportFilter) Match(r Report, now time.Time) bool {
	if f.Child != "" && f.Child != FilterAll && r.ChildName != f.Child {
		return false
	}
	if from, to, ok := PeriodRange(f.Period, now); ok {
		if !r.PeriodStart.Before(to) || !r.PeriodEnd.After(from) {
			return false
		}
	}
	return true
}

func FilterReports(reports []Report, f ReportFilter, now time.Time) []Report {
	out := make([]Report, 0, len(reports))
	for _, r := range reports {
		if f.Match(r, now) {
			out = append(out, r)
		}
	}
	return out
}

func FilterAchievements(achievements []Achievement, child string) []Achievement {
	if child == "" || child == FilterAll {
		return slices.Clone(achievements)
	}
	out := make([]Achievement, 0, len(achievements))
	for _, a := range achievements {
		if a.ChildName == child {
			out = append(out, a)
		}
	}
	return out
}
