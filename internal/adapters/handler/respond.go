package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/activeplay/booking-service/internal/adapters/middleware"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
)

type errorResponse struct {
	Error    string `json:"error"`
	Field    string `json:"field,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Warn("failed to encode response")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case domain.IsValidation(err), errors.Is(err, domain.ErrPasswordMismatch):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrSubscriptionRequired):
		return http.StatusPaymentRequired
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrPlanNotFound),
		errors.Is(err, domain.ErrNoActiveSubscription):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmailInUse),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrInvalidOTP):
		return http.StatusConflict
	case errors.Is(err, domain.ErrComingSoon):
		return http.StatusNotImplemented
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError renders err with the status of its taxonomy. Internal errors
// are logged and hidden from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusNotImplemented:
		writeJSON(w, status, messageResponse{Message: err.Error()})
		return
	case http.StatusInternalServerError:
		logrus.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	case http.StatusServiceUnavailable:
		writeJSON(w, status, errorResponse{Error: "service temporarily unavailable"})
		return
	}

	body := errorResponse{Error: err.Error()}
	var v *domain.ValidationError
	if errors.As(err, &v) {
		body.Field = v.Field
	}
	if errors.Is(err, domain.ErrSubscriptionRequired) {
		body.Redirect = "/subscription"
	}
	writeJSON(w, status, body)
}

// claims returns the authenticated caller. Routes are wrapped by
// RequireRole, so a missing value means the route was misconfigured.
func claims(w http.ResponseWriter, r *http.Request) (domain.Claims, bool) {
	c, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthenticated)
	}
	return c, ok
}
