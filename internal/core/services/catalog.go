package services

import "github.com/AchilleasB/activeplay/booking-service/internal/core/domain"

// DefaultPlans is the plan catalog offered at process start.
func DefaultPlans() []domain.Plan {
	return []domain.Plan{
		{
			ID:              "basic-3",
			Name:            "Basic Explorer",
			SessionsPerWeek: 3,
			Price:           2999,
			Duration:        "1 month",
			Features: []string{
				"3 outdoor activity sessions per week",
				"Professional supervision by certified trainers",
				"Progress tracking and skill development",
				"Weekly progress reports",
				"24/7 emergency support",
				"Basic safety equipment included",
			},
			IsActive: true,
		},
		{
			ID:              "premium-5",
			Name:            "Premium Adventurer",
			SessionsPerWeek: 5,
			Price:           4999,
			Duration:        "1 month",
			Features: []string{
				"5 outdoor activity sessions per week",
				"Professional supervision by certified trainers",
				"Advanced progress tracking and analytics",
				"Detailed weekly reports with video highlights",
				"24/7 emergency support",
				"Premium safety equipment included",
				"Priority booking and flexible rescheduling",
				"Access to exclusive activities and events",
			},
			IsActive: true,
		},
		{
			ID:              "weekend-2",
			Name:            "Weekend Warrior",
			SessionsPerWeek: 2,
			Price:           1999,
			Duration:        "1 month",
			Features: []string{
				"2 weekend sessions per week",
				"Professional supervision by certified trainers",
				"Basic progress tracking",
				"Monthly progress reports",
				"24/7 emergency support",
				"Standard safety equipment included",
			},
			IsActive: true,
		},
	}
}

func DefaultBookingModes() []domain.BookingModeOption {
	return []domain.BookingModeOption{
		{
			ID:          domain.BookingAutomated,
			Title:       "Smart Scheduling",
			Description: "Let us automatically schedule optimal sessions based on your plan and preferences",
		},
		{
			ID:          domain.BookingCustom,
			Title:       "Custom Booking",
			Description: "Manually select specific dates, times, and activities for personalized sessions",
		},
	}
}

func DefaultActivities() []domain.Activity {
	return []domain.Activity{
		{ID: "swimming", Name: "Swimming", Location: "AquaCenter Sports Complex", AgeGroup: "6-16 years", Duration: "1.5 hours"},
		{ID: "cricket", Name: "Cricket", Location: "Green Field Academy", AgeGroup: "8-16 years", Duration: "1.5 hours"},
		{ID: "football", Name: "Football", Location: "Sports Arena", AgeGroup: "6-16 years", Duration: "2 hours"},
		{ID: "basketball", Name: "Basketball", Location: "Indoor Sports Center", AgeGroup: "10-16 years", Duration: "1.5 hours"},
	}
}

func DefaultTimeSlots() []domain.TimeSlot {
	return []domain.TimeSlot{
		{ID: "morning-1", Time: "8:00 AM - 9:30 AM", Available: true, StartHour: 8},
		{ID: "morning-2", Time: "10:00 AM - 11:30 AM", Available: true, StartHour: 10},
		{ID: "afternoon-1", Time: "4:00 PM - 5:30 PM", Available: true, StartHour: 16},
		{ID: "afternoon-2", Time: "6:00 PM - 7:30 PM", Available: false, StartHour: 18},
	}
}
