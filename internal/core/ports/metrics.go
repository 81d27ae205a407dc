package ports

// Metrics receives business counters from the services.
type Metrics interface {
	SubscriptionChanged(action string)
	TrackingTransitioned(status string)
	SessionsBooked(mode string, n int)
}
