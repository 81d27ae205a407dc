package domain

import "time"

type TrackingStatus string

const (
	TrackingApproaching TrackingStatus = "approaching"
	TrackingArrived     TrackingStatus = "arrived"
	TrackingBoarded     TrackingStatus = "boarded"
	TrackingInTransit   TrackingStatus = "in-transit"
	TrackingCompleted   TrackingStatus = "completed"
)

var trackingOrder = map[TrackingStatus]int{
	TrackingApproaching: 0,
	TrackingArrived:     1,
	TrackingBoarded:     2,
	TrackingInTransit:   3,
	TrackingCompleted:   4,
}

// Next returns the status that follows s, or false when s is terminal.
func (s TrackingStatus) Next() (TrackingStatus, bool) {
	switch s {
	case TrackingApproaching:
		return TrackingArrived, true
	case TrackingArrived:
		return TrackingBoarded, true
	case TrackingBoarded:
		return TrackingInTransit, true
	case TrackingInTransit:
		return TrackingCompleted, true
	}
	return "", false
}

// Before reports whether s comes strictly earlier in the pickup sequence.
func (s TrackingStatus) Before(o TrackingStatus) bool {
	return trackingOrder[s] < trackingOrder[o]
}

type Driver struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	VehicleNumber string `json:"vehicleNumber"`
	Phone         string `json:"phone"`
}

type Tracking struct {
	ID              string         `json:"id"`
	ScheduleItemID  string         `json:"scheduleItemId"`
	ParentID        string         `json:"parentId"`
	DriverID        string         `json:"driverId"`
	DriverName      string         `json:"driverName"`
	VehicleNumber   string         `json:"vehicleNumber"`
	CurrentLocation string         `json:"currentLocation"`
	EstimatedTime   string         `json:"estimatedTime"`
	Status          TrackingStatus `json:"status"`
	Children        []string       `json:"children"`
	ContactNumber   string         `json:"contactNumber"`
	OTPCode         string         `json:"otpCode,omitempty"`
	ShowOTP         bool           `json:"showOtp"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// NewTracking starts a pickup in the approaching state.
func NewTracking(id string, item ScheduleItem, driver Driver, now time.Time) Tracking {
	return Tracking{
		ID:              id,
		ScheduleItemID:  item.ID,
		ParentID:        item.ParentID,
		DriverID:        driver.ID,
		DriverName:      driver.Name,
		VehicleNumber:   driver.VehicleNumber,
		CurrentLocation: "2 km away from pickup point",
		EstimatedTime:   "8 minutes",
		Status:          TrackingApproaching,
		Children:        append([]string(nil), item.Children...),
		ContactNumber:   driver.Phone,
		UpdatedAt:       now,
	}
}

// Open reports whether the visit can still change state.
func (t Tracking) Open() bool {
	return t.Status != TrackingCompleted
}

// Arrive is the single automatic transition: approaching -> arrived with a
// freshly issued OTP.
func (t *Tracking) Arrive(otp string, now time.Time) error {
	if t.Status != TrackingApproaching {
		return ErrInvalidTransition
	}
	t.Status = TrackingArrived
	t.CurrentLocation = "Arrived at pickup point"
	t.EstimatedTime = "Now"
	t.OTPCode = otp
	t.ShowOTP = true
	t.UpdatedAt = now
	return nil
}

// Board confirms pickup after the parent acknowledged the driver's OTP.
func (t *Tracking) Board(otp string, now time.Time) error {
	if t.Status != TrackingArrived {
		return ErrInvalidTransition
	}
	if otp != t.OTPCode {
		return ErrInvalidOTP
	}
	t.Status = TrackingBoarded
	t.OTPCode = ""
	t.ShowOTP = false
	t.CurrentLocation = "Children on board"
	t.UpdatedAt = now
	return nil
}

func (t *Tracking) Depart(now time.Time) error {
	if t.Status != TrackingBoarded {
		return ErrInvalidTransition
	}
	t.Status = TrackingInTransit
	t.CurrentLocation = "On the way to the activity center"
	t.EstimatedTime = ""
	t.UpdatedAt = now
	return nil
}

func (t *Tracking) Complete(now time.Time) error {
	if t.Status != TrackingInTransit {
		return ErrInvalidTransition
	}
	t.Status = TrackingCompleted
	t.CurrentLocation = "Arrived at activity center"
	t.EstimatedTime = ""
	t.UpdatedAt = now
	return nil
}

// Public returns the view sent to subscribers. The OTP is only included
// while the prompt is showing.
func (t Tracking) Public() Tracking {
	if !t.ShowOTP {
		t.OTPCode = ""
	}
	t.Children = append([]string(nil), t.Children...)
	return t
}
