package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

const subscriptionRedirect = "/subscription"

type BookingService struct {
	subscriptions ports.SubscriptionService
	schedule      ports.ScheduleRepository
	activities    []domain.Activity
	slots         []domain.TimeSlot
	metrics       ports.Metrics
	loc           *time.Location
	log           logrus.FieldLogger
	now           func() time.Time
}

var _ ports.BookingService = (*BookingService)(nil)

func NewBookingService(
	subscriptions ports.SubscriptionService,
	schedule ports.ScheduleRepository,
	metrics ports.Metrics,
	loc *time.Location,
	log logrus.FieldLogger,
) *BookingService {
	if loc == nil {
		loc = time.Local
	}
	return &BookingService{
		subscriptions: subscriptions,
		schedule:      schedule,
		activities:    DefaultActivities(),
		slots:         DefaultTimeSlots(),
		metrics:       metrics,
		loc:           loc,
		log:           log,
		now:           time.Now,
	}
}

// Options describes the booking screen. Selection is disabled and the
// client is pointed at the subscription screen unless the user has an
// active subscription.
func (s *BookingService) Options(ctx context.Context, userID string) (*domain.BookingOptions, error) {
	active, err := s.subscriptions.HasActiveSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}
	opts := &domain.BookingOptions{
		Enabled:    active,
		Modes:      DefaultBookingModes(),
		Activities: s.activities,
		TimeSlots:  s.slots,
	}
	if !active {
		opts.Redirect = subscriptionRedirect
	}
	return opts, nil
}

func (s *BookingService) Book(ctx context.Context, userID string, req domain.BookingRequest) (*domain.BookingResult, error) {
	current, err := s.subscriptions.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !current.IsActive() {
		return nil, domain.ErrSubscriptionRequired
	}

	var (
		items   []domain.ScheduleItem
		message string
	)
	switch req.Mode {
	case domain.BookingAutomated:
		plan, err := s.planFor(current.PlanID)
		if err != nil {
			return nil, err
		}
		items = s.smartSchedule(userID, plan.SessionsPerWeek, req.Children)
		message = "Your sessions have been automatically scheduled based on your plan and preferences. You will receive a confirmation shortly."
	case domain.BookingCustom:
		item, err := s.customBooking(userID, req)
		if err != nil {
			return nil, err
		}
		items = []domain.ScheduleItem{item}
		message = "Your custom session has been booked! Check your schedule for details."
	default:
		return nil, domain.NewValidationError("mode", "Please select a booking mode")
	}

	if err := s.schedule.CreateScheduleItems(ctx, items); err != nil {
		return nil, fmt.Errorf("book sessions: %w", err)
	}

	s.metrics.SessionsBooked(string(req.Mode), len(items))
	s.log.WithFields(logrus.Fields{
		"user_id":  userID,
		"mode":     req.Mode,
		"sessions": len(items),
	}).Info("sessions booked")
	return &domain.BookingResult{Message: message, Items: items}, nil
}

func (s *BookingService) planFor(planID string) (domain.Plan, error) {
	for _, p := range s.subscriptions.Plans() {
		if p.ID == planID {
			return p, nil
		}
	}
	return domain.Plan{}, domain.ErrPlanNotFound
}

func (s *BookingService) customBooking(userID string, req domain.BookingRequest) (domain.ScheduleItem, error) {
	if req.ActivityID == "" || req.TimeSlotID == "" {
		return domain.ScheduleItem{}, domain.NewValidationError("activityId", "Please select an activity and time slot")
	}
	activity, ok := s.activity(req.ActivityID)
	if !ok {
		return domain.ScheduleItem{}, domain.NewValidationError("activityId", "Unknown activity")
	}
	slot, ok := s.slot(req.TimeSlotID)
	if !ok {
		return domain.ScheduleItem{}, domain.NewValidationError("timeSlotId", "Unknown time slot")
	}
	if !slot.Available {
		return domain.ScheduleItem{}, domain.NewValidationError("timeSlotId", "Selected time slot is not available")
	}

	day := s.now().In(s.loc)
	startsAt := atSlot(day, slot)
	if !startsAt.After(day) {
		startsAt = atSlot(day.AddDate(0, 0, 1), slot)
	}
	return s.newItem(userID, activity, slot, startsAt, req.Children), nil
}

// smartSchedule spreads the plan's weekly sessions over the next seven
// days, rotating through the activities and the available slots.
func (s *BookingService) smartSchedule(userID string, perWeek int, children []string) []domain.ScheduleItem {
	if perWeek <= 0 {
		return nil
	}
	var available []domain.TimeSlot
	for _, slot := range s.slots {
		if slot.Available {
			available = append(available, slot)
		}
	}
	if len(available) == 0 || len(s.activities) == 0 {
		return nil
	}

	start := s.now().In(s.loc).AddDate(0, 0, 1)
	items := make([]domain.ScheduleItem, 0, perWeek)
	for i := 0; i < perWeek; i++ {
		day := start.AddDate(0, 0, i*7/perWeek)
		slot := available[i%len(available)]
		activity := s.activities[i%len(s.activities)]
		items = append(items, s.newItem(userID, activity, slot, atSlot(day, slot), children))
	}
	return items
}

func (s *BookingService) newItem(userID string, activity domain.Activity, slot domain.TimeSlot, startsAt time.Time, children []string) domain.ScheduleItem {
	if children == nil {
		children = []string{}
	}
	return domain.ScheduleItem{
		ID:       uuid.NewString(),
		ParentID: userID,
		StartsAt: startsAt,
		Time:     startsAt.Format("3:04 PM"),
		Activity: activity.Name + " Session",
		Location: activity.Location,
		Status:   domain.SessionUpcoming,
		Children: children,
		Duration: activity.Duration,
	}
}

func (s *BookingService) activity(id string) (domain.Activity, bool) {
	for _, a := range s.activities {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Activity{}, false
}

func (s *BookingService) slot(id string) (domain.TimeSlot, bool) {
	for _, t := range s.slots {
		if t.ID == id {
			return t, true
		}
	}
	return domain.TimeSlot{}, false
}

func atSlot(day time.Time, slot domain.TimeSlot) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, slot.StartHour, slot.StartMinute, 0, 0, day.Location())
}
