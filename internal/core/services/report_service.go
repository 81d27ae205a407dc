package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

type ReportService struct {
	repo ports.ReportRepository
	loc  *time.Location
	now  func() time.Time
}

var _ ports.ReportService = (*ReportService)(nil)

func NewReportService(repo ports.ReportRepository, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &ReportService{repo: repo, loc: loc, now: time.Now}
}

// List returns the newest reports first.
func (s *ReportService) List(ctx context.Context, parentID string, filter domain.ReportFilter) ([]domain.Report, error) {
	reports, err := s.repo.ListReports(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	out := domain.FilterReports(reports, filter, s.now().In(s.loc))
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PeriodStart.After(out[j].PeriodStart)
	})
	return out, nil
}

func (s *ReportService) Achievements(ctx context.Context, parentID, child string) ([]domain.Achievement, error) {
	achievements, err := s.repo.ListAchievements(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	out := domain.FilterAchievements(achievements, child)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EarnedAt.After(out[j].EarnedAt)
	})
	return out, nil
}

func (s *ReportService) Download(ctx context.Context, parentID, reportID string) error {
	if _, err := s.repo.GetReport(ctx, parentID, reportID); err != nil {
		return err
	}
	return domain.ComingSoon("Download")
}

func (s *ReportService) Share(ctx context.Context, parentID, reportID string) error {
	if _, err := s.repo.GetReport(ctx, parentID, reportID); err != nil {
		return err
	}
	return domain.ComingSoon("Share")
}
