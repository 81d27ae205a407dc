package ports

import (
	"context"
	"time"
)

const (
	EventTrackingUpdated  = "tracking.updated"
	EventSessionCancelled = "session.cancelled"
)

type TrackingEvent struct {
	TrackingID     string    `json:"tracking_id"`
	ScheduleItemID string    `json:"schedule_item_id"`
	ParentID       string    `json:"parent_id"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type SessionCancelledEvent struct {
	ScheduleItemID string    `json:"schedule_item_id"`
	ParentID       string    `json:"parent_id"`
	Activity       string    `json:"activity"`
	StartsAt       time.Time `json:"starts_at"`
	Children       []string  `json:"children"`
}

type TrackingEventPublisher interface {
	PublishTrackingUpdated(ctx context.Context, evt TrackingEvent) error
}

type SessionEventPublisher interface {
	PublishSessionCancelled(ctx context.Context, evt SessionCancelledEvent) error
}
