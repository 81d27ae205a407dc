package handler

import (
	"net/http"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

type BookingHandler struct {
	booking ports.BookingService
}

func NewBookingHandler(booking ports.BookingService) *BookingHandler {
	return &BookingHandler{booking: booking}
}

func (h *BookingHandler) Options(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	opts, err := h.booking.Options(r.Context(), c.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	var req domain.BookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.booking.Book(r.Context(), c.UserID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
