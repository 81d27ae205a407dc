package config

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const (
	BreakerRedis     = "Redis"
	BreakerPostgres  = "PostgreSQL"
	BreakerFirestore = "Firestore"
	BreakerRabbitMQ  = "RabbitMQ-Publisher"
	BreakerRelay     = "Relay-PostgreSQL"
)

// NewCircuitBreaker creates a circuit breaker with standard settings.
// The name parameter uniquely identifies the circuit breaker instance.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	var timeout time.Duration

	// Redis timeout matches the readiness probe timeout.
	switch name {
	case BreakerRedis:
		timeout = 5 * time.Second
	case BreakerPostgres, BreakerFirestore, BreakerRelay:
		timeout = 10 * time.Second
	default:
		timeout = 30 * time.Second
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logrus.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Error("circuit breaker state changed")
		},
	})
}
