package domain

type BookingMode string

const (
	BookingAutomated BookingMode = "automated"
	BookingCustom    BookingMode = "custom"
)

type BookingModeOption struct {
	ID          BookingMode `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
}

type Activity struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	AgeGroup string `json:"ageGroup"`
	// Duration is how long one session of the activity lasts.
	Duration string `json:"duration"`
}

type TimeSlot struct {
	ID        string `json:"id"`
	Time      string `json:"time"`
	Available bool   `json:"available"`
	// StartHour and StartMinute are the local wall-clock start of the slot.
	StartHour   int `json:"-"`
	StartMinute int `json:"-"`
}

type BookingRequest struct {
	Mode       BookingMode `json:"mode"`
	ActivityID string      `json:"activityId,omitempty"`
	TimeSlotID string      `json:"timeSlotId,omitempty"`
	Children   []string    `json:"children"`
}

type BookingOptions struct {
	Enabled    bool                `json:"enabled"`
	Redirect   string              `json:"redirect,omitempty"`
	Modes      []BookingModeOption `json:"modes"`
	Activities []Activity          `json:"activities"`
	TimeSlots  []TimeSlot          `json:"timeSlots"`
}

type BookingResult struct {
	Message string         `json:"message"`
	Items   []ScheduleItem `json:"items"`
}
