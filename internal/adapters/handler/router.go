package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AchilleasB/activeplay/booking-service/internal/adapters/middleware"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
)

var (
	parentRoles = []domain.Role{domain.RoleParent, domain.RoleAdmin}
	driverRoles = []domain.Role{domain.RoleDriver, domain.RoleAdmin}
	anyRole     = []domain.Role{domain.RoleParent, domain.RoleCAS, domain.RoleDriver, domain.RoleAdmin}
)

type Handlers struct {
	Auth         *AuthHandler
	Subscription *SubscriptionHandler
	Booking      *BookingHandler
	Schedule     *ScheduleHandler
	Tracking     *TrackingHandler
	Report       *ReportHandler
	Profile      *ProfileHandler
	Health       *HealthHandler
	Metrics      http.Handler
}

// NewRouter wires every route. Middlewares apply to all routes in order.
func NewRouter(h Handlers, auth *middleware.AuthMiddleware, mws ...mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()
	for _, mw := range mws {
		r.Use(mw)
	}

	// Health endpoints (OpenShift compatible)
	r.HandleFunc("/health", h.Health.Health)
	r.HandleFunc("/health/ready", h.Health.Ready)
	r.HandleFunc("/health/live", h.Health.Live)
	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	parent := func(f http.HandlerFunc) http.HandlerFunc { return auth.RequireRole(parentRoles, f) }
	driver := func(f http.HandlerFunc) http.HandlerFunc { return auth.RequireRole(driverRoles, f) }
	user := func(f http.HandlerFunc) http.HandlerFunc { return auth.RequireRole(anyRole, f) }

	api.HandleFunc("/auth/signin", h.Auth.SignIn).Methods(http.MethodPost)
	api.HandleFunc("/auth/signup", h.Auth.SignUp).Methods(http.MethodPost)
	api.HandleFunc("/auth/google", h.Auth.SignInWithGoogle).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", user(h.Auth.Logout)).Methods(http.MethodPost)
	api.HandleFunc("/me", user(h.Auth.Me)).Methods(http.MethodGet)

	api.HandleFunc("/plans", h.Subscription.Plans).Methods(http.MethodGet)
	api.HandleFunc("/plans/{id}/quote", h.Subscription.Quote).Methods(http.MethodGet)
	api.HandleFunc("/subscription", parent(h.Subscription.Current)).Methods(http.MethodGet)
	api.HandleFunc("/subscription", parent(h.Subscription.Subscribe)).Methods(http.MethodPost)
	api.HandleFunc("/subscription", parent(h.Subscription.Update)).Methods(http.MethodPatch)
	api.HandleFunc("/subscription", parent(h.Subscription.Cancel)).Methods(http.MethodDelete)

	api.HandleFunc("/booking/options", parent(h.Booking.Options)).Methods(http.MethodGet)
	api.HandleFunc("/booking", parent(h.Booking.Book)).Methods(http.MethodPost)

	api.HandleFunc("/schedule", parent(h.Schedule.List)).Methods(http.MethodGet)
	api.HandleFunc("/schedule/{id}/cancel", parent(h.Schedule.Cancel)).Methods(http.MethodPost)
	api.HandleFunc("/schedule/{id}/reschedule", parent(h.Schedule.Reschedule)).Methods(http.MethodPost)

	api.HandleFunc("/tracking", parent(h.Tracking.Start)).Methods(http.MethodPost)
	api.HandleFunc("/tracking/{id}", parent(h.Tracking.Get)).Methods(http.MethodGet)
	api.HandleFunc("/tracking/{id}/confirm", parent(h.Tracking.ConfirmPickup)).Methods(http.MethodPost)
	api.HandleFunc("/tracking/{id}/stream", parent(h.Tracking.Stream)).Methods(http.MethodGet)
	api.HandleFunc("/tracking/{id}/depart", driver(h.Tracking.Depart)).Methods(http.MethodPost)
	api.HandleFunc("/tracking/{id}/complete", driver(h.Tracking.Complete)).Methods(http.MethodPost)

	api.HandleFunc("/reports", parent(h.Report.List)).Methods(http.MethodGet)
	api.HandleFunc("/achievements", parent(h.Report.Achievements)).Methods(http.MethodGet)
	api.HandleFunc("/reports/{id}/download", parent(h.Report.Download)).Methods(http.MethodPost)
	api.HandleFunc("/reports/{id}/share", parent(h.Report.Share)).Methods(http.MethodPost)

	api.HandleFunc("/profile", parent(h.Profile.Get)).Methods(http.MethodGet)
	api.HandleFunc("/profile", parent(h.Profile.Update)).Methods(http.MethodPatch)
	api.HandleFunc("/profile/{feature:notifications|privacy|support|payments}", parent(h.Profile.Placeholder)).Methods(http.MethodPost)
	api.HandleFunc("/children", parent(h.Profile.Children)).Methods(http.MethodGet)
	api.HandleFunc("/children", parent(h.Profile.AddChild)).Methods(http.MethodPost)
	api.HandleFunc("/children/{id}", parent(h.Profile.EditChild)).Methods(http.MethodPatch)
	api.HandleFunc("/children/{id}/emergency-contact", parent(h.Profile.UpdateEmergencyContact)).Methods(http.MethodPut)

	return r
}
