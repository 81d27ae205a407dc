package mocks

import (
	"crypto/rand"
	"crypto/rsa"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
)

const TestParentID = "parent-1"

// NewTestLogger returns a logger whose entries are captured by the hook.
func NewTestLogger() (*logrus.Logger, *test.Hook) {
	return test.NewNullLogger()
}

// NewTestKeyPair generates an RSA key for signing tokens in tests.
func NewTestKeyPair() *rsa.PrivateKey {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err)
	}
	return key
}

// SampleChildren returns the two children used across tests.
func SampleChildren(now time.Time) []domain.Child {
	return []domain.Child{
		{
			ID:          "child-1",
			ParentID:    TestParentID,
			Name:        "Sarah",
			Age:         8,
			Allergies:   []string{"Peanuts"},
			Preferences: []string{"Swimming", "Basketball"},
			EmergencyContact: domain.EmergencyContact{
				Name: "John Johnson", Phone: "+91 98765 43211", Relationship: "Father",
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:          "child-2",
			ParentID:    TestParentID,
			Name:        "Mike",
			Age:         12,
			Allergies:   []string{},
			Preferences: []string{"Cricket", "Football"},
			EmergencyContact: domain.EmergencyContact{
				Name: "Jane Johnson", Phone: "+91 98765 43212", Relationship: "Mother",
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// SampleScheduleItem returns an upcoming session for the test parent.
func SampleScheduleItem(id string, startsAt time.Time, children ...string) domain.ScheduleItem {
	return domain.ScheduleItem{
		ID:       id,
		ParentID: TestParentID,
		StartsAt: startsAt,
		Time:     startsAt.Format("3:04 PM"),
		Activity: "Swimming Session",
		Location: "AquaCenter Sports Complex",
		Status:   domain.SessionUpcoming,
		Children: children,
		Duration: "1.5 hours",
	}
}

func TestDriver() domain.Driver {
	return domain.Driver{
		ID:            "driver-1",
		Name:          "Rajesh Kumar",
		VehicleNumber: "MH 01 AB 1234",
		Phone:         "+91 98765 43210",
	}
}
