package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

type ScheduleHandler struct {
	schedule ports.ScheduleService
}

func NewScheduleHandler(schedule ports.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule}
}

// List supports ?date=Today|Yesterday|Tomorrow|This Week|All and
// ?child=<name>|All.
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	items, err := h.schedule.List(r.Context(), c.UserID, domain.ScheduleFilter{
		Date:  q.Get("date"),
		Child: q.Get("child"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ScheduleHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	item, err := h.schedule.Cancel(r.Context(), c.UserID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ScheduleHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	writeError(w, r, h.schedule.Reschedule(r.Context(), c.UserID, mux.Vars(r)["id"]))
}
