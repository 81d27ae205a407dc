package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

type SubscriptionHandler struct {
	subscriptions ports.SubscriptionService
}

func NewSubscriptionHandler(subscriptions ports.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

type SubscribeRequest struct {
	PlanID            string   `json:"planId"`
	ChildIDs          []string `json:"childIds"`
	IncludesTransport bool     `json:"includesTransport"`
}

type UpdateSubscriptionRequest struct {
	PlanID            string `json:"planId"`
	IncludesTransport bool   `json:"includesTransport"`
}

type CurrentSubscriptionResponse struct {
	Active       bool `json:"active"`
	Subscription any  `json:"subscription"`
}

func (h *SubscriptionHandler) Plans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.subscriptions.Plans())
}

// Quote prices a plan, with the transport add-on when ?transport=true.
func (h *SubscriptionHandler) Quote(w http.ResponseWriter, r *http.Request) {
	transport, _ := strconv.ParseBool(r.URL.Query().Get("transport"))
	quote, err := h.subscriptions.Quote(mux.Vars(r)["id"], transport)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (h *SubscriptionHandler) Current(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	current, err := h.subscriptions.Current(r.Context(), c.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := CurrentSubscriptionResponse{Active: current.IsActive()}
	if current != nil {
		resp.Subscription = current
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	var req SubscribeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sub, err := h.subscriptions.Subscribe(r.Context(), c.UserID, req.PlanID, req.ChildIDs, req.IncludesTransport)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (h *SubscriptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	var req UpdateSubscriptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sub, err := h.subscriptions.Update(r.Context(), c.UserID, req.PlanID, req.IncludesTransport)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	sub, err := h.subscriptions.Cancel(r.Context(), c.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}
