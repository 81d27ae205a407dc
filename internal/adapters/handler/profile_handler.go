package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

type ProfileHandler struct {
	profiles ports.ProfileService
}

func NewProfileHandler(profiles ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	user, err := h.profiles.Profile(r.Context(), c.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	var req domain.Profile
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.profiles.UpdateProfile(r.Context(), c.UserID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) Children(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	children, err := h.profiles.Children(r.Context(), c.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, children)
}

func (h *ProfileHandler) AddChild(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	var req domain.Child
	if !decodeJSON(w, r, &req) {
		return
	}
	child, err := h.profiles.AddChild(r.Context(), c.UserID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, child)
}

func (h *ProfileHandler) EditChild(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	var req ports.ChildEdit
	if !decodeJSON(w, r, &req) {
		return
	}
	child, err := h.profiles.EditChild(r.Context(), c.UserID, mux.Vars(r)["id"], req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, child)
}

func (h *ProfileHandler) UpdateEmergencyContact(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	var req domain.EmergencyContact
	if !decodeJSON(w, r, &req) {
		return
	}
	child, err := h.profiles.UpdateEmergencyContact(r.Context(), c.UserID, mux.Vars(r)["id"], req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, child)
}

// Placeholder answers menu entries such as notifications, privacy and
// support that have no backend yet.
func (h *ProfileHandler) Placeholder(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, h.profiles.Placeholder(r.Context(), placeholderNames[mux.Vars(r)["feature"]]))
}

var placeholderNames = map[string]string{
	"notifications": "Notifications",
	"privacy":       "Privacy & Security",
	"support":       "Help & Support",
	"payments":      "Payment Methods",
}
