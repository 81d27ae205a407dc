package domain

import "math"

// TransportRate is the share of the plan price charged for door-to-door
// transport.
const TransportRate = 0.3

type Plan struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	SessionsPerWeek int      `json:"sessionsPerWeek"`
	Price           int      `json:"price"`
	Duration        string   `json:"duration"`
	Features        []string `json:"features"`
	IsActive        bool     `json:"isActive"`
}

// TransportPrice returns round(price * 0.3).
func TransportPrice(price int) int {
	return int(math.Round(float64(price) * TransportRate))
}

// TotalPrice is the monthly price shown for the plan, including the
// transport add-on when selected.
func (p Plan) TotalPrice(includesTransport bool) int {
	if !includesTransport {
		return p.Price
	}
	return p.Price + TransportPrice(p.Price)
}

type Quote struct {
	PlanID            string `json:"planId"`
	BasePrice         int    `json:"basePrice"`
	TransportPrice    int    `json:"transportPrice"`
	IncludesTransport bool   `json:"includesTransport"`
	Total             int    `json:"total"`
	Currency          string `json:"currency"`
}

func (p Plan) Quote(includesTransport bool) Quote {
	q := Quote{
		PlanID:            p.ID,
		BasePrice:         p.Price,
		IncludesTransport: includesTransport,
		Total:             p.TotalPrice(includesTransport),
		Currency:          "INR",
	}
	if includesTransport {
		q.TransportPrice = TransportPrice(p.Price)
	}
	return q
}
