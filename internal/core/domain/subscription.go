package domain

import (
	"fmt"
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

type Payment struct {
	ID             string        `json:"id" firestore:"id"`
	SubscriptionID string        `json:"subscriptionId" firestore:"subscriptionId"`
	Amount         int           `json:"amount" firestore:"amount"`
	Currency       string        `json:"currency" firestore:"currency"`
	Status         PaymentStatus `json:"status" firestore:"status"`
	PaymentMethod  string        `json:"paymentMethod" firestore:"paymentMethod"`
	TransactionID  string        `json:"transactionId,omitempty" firestore:"transactionId,omitempty"`
	CreatedAt      time.Time     `json:"createdAt" firestore:"createdAt"`
}

type Subscription struct {
	ID                string             `json:"id" firestore:"-"`
	UserID            string             `json:"userId" firestore:"userId"`
	PlanID            string             `json:"planId" firestore:"planId"`
	ChildIDs          []string           `json:"childIds" firestore:"childIds"`
	Status            SubscriptionStatus `json:"status" firestore:"status"`
	StartDate         time.Time          `json:"startDate" firestore:"startDate"`
	EndDate           time.Time          `json:"endDate" firestore:"endDate"`
	IncludesTransport bool               `json:"includesTransport" firestore:"includesTransport"`
	PaymentHistory    []Payment          `json:"paymentHistory" firestore:"paymentHistory"`
	UpdatedAt         time.Time          `json:"updatedAt" firestore:"updatedAt"`
}

// NewSubscription builds an active subscription with a one-month validity
// window starting at now.
func NewSubscription(userID, planID string, childIDs []string, includesTransport bool, now time.Time) Subscription {
	if childIDs == nil {
		childIDs = []string{}
	}
	return Subscription{
		ID:                fmt.Sprintf("%s_%d", userID, now.UnixMilli()),
		UserID:            userID,
		PlanID:            planID,
		ChildIDs:          childIDs,
		Status:            SubscriptionActive,
		StartDate:         now,
		EndDate:           now.AddDate(0, 1, 0),
		IncludesTransport: includesTransport,
		PaymentHistory:    []Payment{},
		UpdatedAt:         now,
	}
}

func (s *Subscription) IsActive() bool {
	return s != nil && s.Status == SubscriptionActive
}

// Covers reports whether t falls in [StartDate, EndDate).
func (s Subscription) Covers(t time.Time) bool {
	return !t.Before(s.StartDate) && t.Before(s.EndDate)
}
