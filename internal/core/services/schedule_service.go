package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

type ScheduleService struct {
	repo ports.ScheduleRepository
	loc  *time.Location
	log  logrus.FieldLogger
	now  func() time.Time
}

var _ ports.ScheduleService = (*ScheduleService)(nil)

func NewScheduleService(repo ports.ScheduleRepository, loc *time.Location, log logrus.FieldLogger) *ScheduleService {
	if loc == nil {
		loc = time.Local
	}
	return &ScheduleService{repo: repo, loc: loc, log: log, now: time.Now}
}

// List returns the parent's schedule ordered by start time, narrowed by the
// date bucket and child selected on the schedule screen.
func (s *ScheduleService) List(ctx context.Context, parentID string, filter domain.ScheduleFilter) ([]domain.ScheduleItem, error) {
	items, err := s.repo.ListSchedule(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	out := domain.FilterSchedule(items, filter, s.now().In(s.loc))
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartsAt.Before(out[j].StartsAt)
	})
	return out, nil
}

func (s *ScheduleService) Cancel(ctx context.Context, parentID, itemID string) (*domain.ScheduleItem, error) {
	item, err := s.repo.GetScheduleItem(ctx, parentID, itemID)
	if err != nil {
		return nil, err
	}
	if err := item.Cancel(); err != nil {
		return nil, err
	}

	event, err := json.Marshal(ports.SessionCancelledEvent{
		ScheduleItemID: item.ID,
		ParentID:       item.ParentID,
		Activity:       item.Activity,
		StartsAt:       item.StartsAt,
		Children:       item.Children,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.CancelScheduleItem(ctx, *item, event); err != nil {
		return nil, fmt.Errorf("cancel session: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"parent_id": parentID,
		"item_id":   itemID,
	}).Info("session cancelled")
	return item, nil
}

func (s *ScheduleService) Reschedule(ctx context.Context, parentID, itemID string) error {
	if _, err := s.repo.GetScheduleItem(ctx, parentID, itemID); err != nil {
		return err
	}
	return domain.ComingSoon("Reschedule")
}
